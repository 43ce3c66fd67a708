package dbbadger

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// Amounts are stored as base-10 strings of their raw value.

type poolModel struct {
	ID             string
	BaseAsset      string
	QuoteAsset     string
	Kind           string
	K              string
	LpFeeRate      string
	MtFeeRate      string
	Maintainer     string
	BaseReserve    string
	QuoteReserve   string
	BaseTarget     string
	QuoteTarget    string
	RStatus        string
	ReferencePrice string
}

func newPoolModel(p domain.Pool) *poolModel {
	return &poolModel{
		ID:             p.ID,
		BaseAsset:      p.BaseAsset,
		QuoteAsset:     p.QuoteAsset,
		Kind:           p.Kind.String(),
		K:              mathutil.FormatUnits(p.Params.K),
		LpFeeRate:      mathutil.FormatUnits(p.Params.LpFeeRate),
		MtFeeRate:      mathutil.FormatUnits(p.Params.MtFeeRate),
		Maintainer:     p.Maintainer,
		BaseReserve:    mathutil.FormatUnits(p.BaseReserve),
		QuoteReserve:   mathutil.FormatUnits(p.QuoteReserve),
		BaseTarget:     mathutil.FormatUnits(p.BaseTarget),
		QuoteTarget:    mathutil.FormatUnits(p.QuoteTarget),
		RStatus:        p.RStatus.String(),
		ReferencePrice: mathutil.FormatUnits(p.ReferencePrice),
	}
}

func (m poolModel) toDomain() (*domain.Pool, error) {
	kind, err := domain.ParsePoolKind(m.Kind)
	if err != nil {
		return nil, err
	}
	rStatus, err := mm.ParseRState(m.RStatus)
	if err != nil {
		return nil, err
	}

	amounts, err := parseAmounts(
		m.K, m.LpFeeRate, m.MtFeeRate, m.BaseReserve, m.QuoteReserve,
		m.BaseTarget, m.QuoteTarget, m.ReferencePrice,
	)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", m.ID, err)
	}

	return &domain.Pool{
		ID:         m.ID,
		BaseAsset:  m.BaseAsset,
		QuoteAsset: m.QuoteAsset,
		Kind:       kind,
		Params: domain.Params{
			K:         amounts[0],
			LpFeeRate: amounts[1],
			MtFeeRate: amounts[2],
		},
		Maintainer:     m.Maintainer,
		BaseReserve:    amounts[3],
		QuoteReserve:   amounts[4],
		BaseTarget:     amounts[5],
		QuoteTarget:    amounts[6],
		RStatus:        rStatus,
		ReferencePrice: amounts[7],
	}, nil
}

type balanceModel struct {
	Account string
	Asset   string
	Amount  string
}

func balanceKey(account, asset string) string {
	return account + "/" + asset
}

type priceModel struct {
	PoolID string
	Price  string
}

func parseAmounts(values ...string) ([]*uint256.Int, error) {
	amounts := make([]*uint256.Int, 0, len(values))
	for _, v := range values {
		amount, err := mathutil.ParseUnits(v)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}
