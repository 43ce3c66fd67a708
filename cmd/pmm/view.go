package main

import (
	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

type poolView struct {
	ID             string `json:"id"`
	BaseAsset      string `json:"base_asset"`
	QuoteAsset     string `json:"quote_asset"`
	Kind           string `json:"kind"`
	K              string `json:"k"`
	LpFeeRate      string `json:"lp_fee_rate"`
	MtFeeRate      string `json:"mt_fee_rate"`
	Maintainer     string `json:"maintainer"`
	Account        string `json:"account"`
	BaseReserve    string `json:"base_reserve"`
	QuoteReserve   string `json:"quote_reserve"`
	BaseTarget     string `json:"base_target"`
	QuoteTarget    string `json:"quote_target"`
	RStatus        string `json:"r_status"`
	ReferencePrice string `json:"reference_price"`
	MidPrice       string `json:"mid_price,omitempty"`
}

func newPoolView(p *domain.Pool) poolView {
	return poolView{
		ID:             p.ID,
		BaseAsset:      p.BaseAsset,
		QuoteAsset:     p.QuoteAsset,
		Kind:           p.Kind.String(),
		K:              mathutil.FormatDecimal(p.Params.K),
		LpFeeRate:      mathutil.FormatDecimal(p.Params.LpFeeRate),
		MtFeeRate:      mathutil.FormatDecimal(p.Params.MtFeeRate),
		Maintainer:     p.Maintainer,
		Account:        p.Account(),
		BaseReserve:    mathutil.FormatDecimal(p.BaseReserve),
		QuoteReserve:   mathutil.FormatDecimal(p.QuoteReserve),
		BaseTarget:     mathutil.FormatDecimal(p.BaseTarget),
		QuoteTarget:    mathutil.FormatDecimal(p.QuoteTarget),
		RStatus:        p.RStatus.String(),
		ReferencePrice: mathutil.FormatDecimal(p.ReferencePrice),
	}
}

type tradeView struct {
	Pay        string `json:"pay"`
	Receive    string `json:"receive"`
	LpFee      string `json:"lp_fee"`
	MtFee      string `json:"mt_fee"`
	NewRStatus string `json:"new_r_status"`
}

func newTradeView(r *domain.TradeResult) tradeView {
	return tradeView{
		Pay:        mathutil.FormatDecimal(r.Pay),
		Receive:    mathutil.FormatDecimal(r.Receive),
		LpFee:      mathutil.FormatDecimal(r.LpFee),
		MtFee:      mathutil.FormatDecimal(r.MtFee),
		NewRStatus: r.NewRStatus.String(),
	}
}

type flashLoanView struct {
	BaseMtFee  string     `json:"base_mt_fee"`
	QuoteMtFee string     `json:"quote_mt_fee"`
	Swap       *tradeView `json:"swap,omitempty"`
	NewRStatus string     `json:"new_r_status"`
}

func newFlashLoanView(r *domain.FlashLoanResult) flashLoanView {
	v := flashLoanView{
		BaseMtFee:  mathutil.FormatDecimal(r.BaseMtFee),
		QuoteMtFee: mathutil.FormatDecimal(r.QuoteMtFee),
		NewRStatus: r.NewRStatus.String(),
	}
	if r.Swap != nil {
		swap := newTradeView(r.Swap)
		v.Swap = &swap
	}
	return v
}

func balancesView(balances map[string]*uint256.Int) map[string]string {
	v := make(map[string]string, len(balances))
	for asset, amount := range balances {
		v[asset] = mathutil.FormatDecimal(amount)
	}
	return v
}

// parseAmount parses the decimal amount of the given flag, zero if not set.
func parseAmount(ctx *cli.Context, flag string) (*uint256.Int, error) {
	if !ctx.IsSet(flag) {
		return mathutil.Zero(), nil
	}
	return mathutil.ParseDecimal(ctx.String(flag))
}

// parseOptionalAmount is like parseAmount but returns nil if the flag is not
// set.
func parseOptionalAmount(ctx *cli.Context, flag string) (*uint256.Int, error) {
	if !ctx.IsSet(flag) {
		return nil, nil
	}
	return mathutil.ParseDecimal(ctx.String(flag))
}

func parseParams(ctx *cli.Context) (domain.Params, error) {
	k, err := mathutil.ParseDecimal(ctx.String("k"))
	if err != nil {
		return domain.Params{}, err
	}
	lpFee, err := mathutil.ParseDecimal(ctx.String("lp_fee"))
	if err != nil {
		return domain.Params{}, err
	}
	mtFee, err := mathutil.ParseDecimal(ctx.String("mt_fee"))
	if err != nil {
		return domain.Params{}, err
	}
	return domain.NewParams(k, lpFee, mtFee)
}

func paramsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "k",
			Usage: "the slippage factor of the curve in [0, 1]",
			Value: "0.1",
		},
		&cli.StringFlag{
			Name:  "lp_fee",
			Usage: "the fee rate left in the pool",
			Value: "0.002",
		},
		&cli.StringFlag{
			Name:  "mt_fee",
			Usage: "the fee rate paid to the maintainer",
			Value: "0.001",
		},
	}
}

func poolFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "pool",
		Usage:    "the id of the pool",
		Required: true,
	}
}
