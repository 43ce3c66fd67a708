package domain

import (
	"github.com/holiman/uint256"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// TradeResult is the outcome of pricing a trade. Gross is what the curve pays
// out and is always equal to Receive + LpFee + MtFee.
type TradeResult struct {
	// Pay is the amount the trader hands to the pool.
	Pay *uint256.Int
	// Receive is the counter amount delivered to the trader.
	Receive *uint256.Int
	// LpFee stays in the pool reserve.
	LpFee *uint256.Int
	// MtFee leaves the pool to the maintainer.
	MtFee *uint256.Int
	Gross *uint256.Int
	// NewRStatus is the r-status the pool lands on.
	NewRStatus mm.RState
}

func newTradeResult(
	pay, gross *uint256.Int, newR mm.RState, params Params,
) (*TradeResult, error) {
	receive, lpFee, mtFee, err := mathutil.LessFee(
		gross, params.LpFeeRate, params.MtFeeRate,
	)
	if err != nil {
		return nil, err
	}
	return &TradeResult{
		Pay:        mathutil.Clone(pay),
		Receive:    receive,
		LpFee:      lpFee,
		MtFee:      mtFee,
		Gross:      mathutil.Clone(gross),
		NewRStatus: newR,
	}, nil
}

func emptyTradeResult(r mm.RState) *TradeResult {
	return &TradeResult{
		Pay:        mathutil.Zero(),
		Receive:    mathutil.Zero(),
		LpFee:      mathutil.Zero(),
		MtFee:      mathutil.Zero(),
		Gross:      mathutil.Zero(),
		NewRStatus: r,
	}
}

// QuerySellBase previews SellBase without touching the pool.
func (p *Pool) QuerySellBase(price, payBase *uint256.Int) (*TradeResult, error) {
	result, _, err := p.querySellBase(price, payBase)
	return result, err
}

// QuerySellQuote previews SellQuote without touching the pool.
func (p *Pool) QuerySellQuote(price, payQuote *uint256.Int) (*TradeResult, error) {
	result, _, err := p.querySellQuote(price, payQuote)
	return result, err
}

// SellBase sells payBase base units to the pool at the given reference price
// and returns the quote delivered. A zero amount is a no-op.
func (p *Pool) SellBase(price, payBase *uint256.Int) (*TradeResult, error) {
	result, state, err := p.querySellBase(price, payBase)
	if err != nil {
		return nil, err
	}
	if payBase.IsZero() {
		return result, nil
	}

	base, err := mathutil.Add(p.BaseReserve, payBase)
	if err != nil {
		return nil, err
	}
	paid, err := mathutil.Add(result.Receive, result.MtFee)
	if err != nil {
		return nil, err
	}
	quote, err := mathutil.Sub(p.QuoteReserve, paid)
	if err != nil {
		return nil, err
	}

	if err := p.settle(state, result.NewRStatus, base, quote, price); err != nil {
		return nil, err
	}
	return result, nil
}

// SellQuote sells payQuote quote units to the pool at the given reference
// price and returns the base delivered. A zero amount is a no-op.
func (p *Pool) SellQuote(price, payQuote *uint256.Int) (*TradeResult, error) {
	result, state, err := p.querySellQuote(price, payQuote)
	if err != nil {
		return nil, err
	}
	if payQuote.IsZero() {
		return result, nil
	}

	quote, err := mathutil.Add(p.QuoteReserve, payQuote)
	if err != nil {
		return nil, err
	}
	paid, err := mathutil.Add(result.Receive, result.MtFee)
	if err != nil {
		return nil, err
	}
	base, err := mathutil.Sub(p.BaseReserve, paid)
	if err != nil {
		return nil, err
	}

	if err := p.settle(state, result.NewRStatus, base, quote, price); err != nil {
		return nil, err
	}
	return result, nil
}

// QueryBuyBase previews BuyBase without touching the pool.
func (p *Pool) QueryBuyBase(price, amount *uint256.Int) (*TradeResult, error) {
	result, _, err := p.queryBuyBase(price, amount)
	return result, err
}

// BuyBase takes exactly amount base units out of the pool at the given
// reference price. The fees are charged in base on top of amount and the
// quote owed is returned as Pay. A zero amount is a no-op.
func (p *Pool) BuyBase(price, amount *uint256.Int) (*TradeResult, error) {
	result, state, err := p.queryBuyBase(price, amount)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return result, nil
	}

	paid, err := mathutil.Add(result.Receive, result.MtFee)
	if err != nil {
		return nil, err
	}
	base, err := mathutil.Sub(p.BaseReserve, paid)
	if err != nil {
		return nil, err
	}
	quote, err := mathutil.Add(p.QuoteReserve, result.Pay)
	if err != nil {
		return nil, err
	}

	if err := p.settle(state, result.NewRStatus, base, quote, price); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pool) querySellBase(
	price, payBase *uint256.Int,
) (*TradeResult, mm.PMMState, error) {
	if err := validatePrice(price); err != nil {
		return nil, mm.PMMState{}, err
	}
	if err := validateAmount(payBase, "base amount"); err != nil {
		return nil, mm.PMMState{}, err
	}
	if payBase.IsZero() {
		return emptyTradeResult(p.RStatus), mm.PMMState{}, nil
	}

	state, err := p.pmmState(price)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	gross, newR, err := mm.SellBaseToken(state, payBase)
	if err != nil {
		return nil, mm.PMMState{}, pricingError(err)
	}
	if !gross.Lt(p.QuoteReserve) {
		return nil, mm.PMMState{}, insufficientLiquidity(
			"quote output %s would drain reserve %s",
			mathutil.FormatUnits(gross), mathutil.FormatUnits(p.QuoteReserve),
		)
	}
	if p.Kind == PoolKindVending {
		newR = mm.RStatusBelowOne
	}

	result, err := newTradeResult(payBase, gross, newR, p.Params)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	return result, state, nil
}

func (p *Pool) querySellQuote(
	price, payQuote *uint256.Int,
) (*TradeResult, mm.PMMState, error) {
	if err := validatePrice(price); err != nil {
		return nil, mm.PMMState{}, err
	}
	if err := validateAmount(payQuote, "quote amount"); err != nil {
		return nil, mm.PMMState{}, err
	}
	if payQuote.IsZero() {
		return emptyTradeResult(p.RStatus), mm.PMMState{}, nil
	}

	state, err := p.pmmState(price)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	gross, newR, err := mm.SellQuoteToken(state, payQuote)
	if err != nil {
		return nil, mm.PMMState{}, pricingError(err)
	}
	if !gross.Lt(p.BaseReserve) {
		return nil, mm.PMMState{}, insufficientLiquidity(
			"base output %s would drain reserve %s",
			mathutil.FormatUnits(gross), mathutil.FormatUnits(p.BaseReserve),
		)
	}
	if p.Kind == PoolKindVending {
		newR = mm.RStatusBelowOne
	}

	result, err := newTradeResult(payQuote, gross, newR, p.Params)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	return result, state, nil
}

func (p *Pool) queryBuyBase(
	price, amount *uint256.Int,
) (*TradeResult, mm.PMMState, error) {
	if err := validatePrice(price); err != nil {
		return nil, mm.PMMState{}, err
	}
	if err := validateAmount(amount, "base amount"); err != nil {
		return nil, mm.PMMState{}, err
	}
	if amount.IsZero() {
		return emptyTradeResult(p.RStatus), mm.PMMState{}, nil
	}

	lpFee, err := mathutil.MulFloor(amount, p.Params.LpFeeRate)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	mtFee, err := mathutil.MulFloor(amount, p.Params.MtFeeRate)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	gross, err := mathutil.Add(amount, lpFee)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	if gross, err = mathutil.Add(gross, mtFee); err != nil {
		return nil, mm.PMMState{}, err
	}
	if !gross.Lt(p.BaseReserve) {
		return nil, mm.PMMState{}, insufficientLiquidity(
			"base output %s would drain reserve %s",
			mathutil.FormatUnits(gross), mathutil.FormatUnits(p.BaseReserve),
		)
	}

	state, err := p.pmmState(price)
	if err != nil {
		return nil, mm.PMMState{}, err
	}
	pay, newR, err := mm.BuyBaseToken(state, gross)
	if err != nil {
		return nil, mm.PMMState{}, pricingError(err)
	}
	if p.Kind == PoolKindVending {
		newR = mm.RStatusBelowOne
	}

	return &TradeResult{
		Pay:        pay,
		Receive:    mathutil.Clone(amount),
		LpFee:      lpFee,
		MtFee:      mtFee,
		Gross:      gross,
		NewRStatus: newR,
	}, state, nil
}

// settle moves the pool to the post-trade reserves. Landing on ONE resets
// both targets to the new reserves; leaving the current side of the curve
// records the crossover point of the pre-trade state as the target of the new
// surplus side. The deficit side target is stored adjusted.
func (p *Pool) settle(
	pre mm.PMMState, newR mm.RState, base, quote, price *uint256.Int,
) error {
	next := p.Copy()
	next.BaseReserve = mathutil.Clone(base)
	next.QuoteReserve = mathutil.Clone(quote)
	next.ReferencePrice = mathutil.Clone(price)

	if next.Kind == PoolKindPrivate {
		switch newR {
		case mm.RStatusOne:
		case mm.RStatusAboveOne:
			if p.RStatus != newR {
				next.BaseTarget = mathutil.Clone(pre.B0)
			}
		case mm.RStatusBelowOne:
			if p.RStatus != newR {
				next.QuoteTarget = mathutil.Clone(pre.Q0)
			}
		default:
			return mm.ErrInvalidRStatus
		}
		next.RStatus = newR
	}

	return p.commit(next, price)
}

// sync moves the pool to new reserves outside a trade, ie. deposits and
// repaid flash loans, keeping its r-status.
func (p *Pool) sync(base, quote, price *uint256.Int) error {
	next := p.Copy()
	next.BaseReserve = mathutil.Clone(base)
	next.QuoteReserve = mathutil.Clone(quote)
	if price != nil {
		next.ReferencePrice = mathutil.Clone(price)
	}
	return p.commit(next, price)
}

func (p *Pool) commit(next *Pool, price *uint256.Int) error {
	if err := next.adjustTargets(price); err != nil {
		return err
	}
	if err := next.CheckRStatus(); err != nil {
		return err
	}
	*p = *next
	return nil
}
