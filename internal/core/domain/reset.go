package domain

import (
	"github.com/holiman/uint256"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// ResetArgs is the administrative override applied by Reset.
type ResetArgs struct {
	// Params replaces the whole parameter snapshot.
	Params Params
	// BaseOut and QuoteOut are withdrawn from the reserves. Optional.
	BaseOut  *uint256.Int
	QuoteOut *uint256.Int
	// MinBaseReserve and MinQuoteReserve guard against a reset racing with
	// trades: the reserves before withdrawals must not be below them. Optional.
	MinBaseReserve  *uint256.Int
	MinQuoteReserve *uint256.Int
	// BaseTarget and QuoteTarget, if both set, replace the targets and the
	// r-status is derived from them. Otherwise the targets are set to the
	// reserves and the pool goes back to ONE.
	BaseTarget  *uint256.Int
	QuoteTarget *uint256.Int
}

// Reset swaps the pool params, withdraws the given amounts and rebases the
// targets.
func (p *Pool) Reset(args ResetArgs) error {
	if err := args.Params.Validate(); err != nil {
		return err
	}
	if (args.BaseTarget == nil) != (args.QuoteTarget == nil) {
		return invalidParameter("base and quote targets must be set together")
	}
	if args.BaseTarget != nil && p.Kind == PoolKindVending {
		return invalidParameter("targets of a %s pool are not settable", p.Kind)
	}

	if args.MinBaseReserve != nil && p.BaseReserve.Lt(args.MinBaseReserve) {
		return insufficientLiquidity(
			"base reserve %s below minimum %s",
			mathutil.FormatUnits(p.BaseReserve), mathutil.FormatUnits(args.MinBaseReserve),
		)
	}
	if args.MinQuoteReserve != nil && p.QuoteReserve.Lt(args.MinQuoteReserve) {
		return insufficientLiquidity(
			"quote reserve %s below minimum %s",
			mathutil.FormatUnits(p.QuoteReserve), mathutil.FormatUnits(args.MinQuoteReserve),
		)
	}

	base, err := withdraw(p.BaseReserve, args.BaseOut, "base")
	if err != nil {
		return err
	}
	quote, err := withdraw(p.QuoteReserve, args.QuoteOut, "quote")
	if err != nil {
		return err
	}

	next := p.Copy()
	next.Params = args.Params.Copy()
	next.BaseReserve = base
	next.QuoteReserve = quote

	switch {
	case p.Kind == PoolKindVending:
		next.BaseTarget = mathutil.Clone(base)
		next.QuoteTarget = mathutil.Zero()
		next.RStatus = mm.RStatusBelowOne
	case args.BaseTarget == nil:
		next.BaseTarget = mathutil.Clone(base)
		next.QuoteTarget = mathutil.Clone(quote)
		next.RStatus = mm.RStatusOne
	default:
		next.BaseTarget = mathutil.Clone(args.BaseTarget)
		next.QuoteTarget = mathutil.Clone(args.QuoteTarget)
		rStatus, err := deriveRStatus(base, quote, args.BaseTarget, args.QuoteTarget)
		if err != nil {
			return err
		}
		next.RStatus = rStatus
	}

	if err := next.CheckRStatus(); err != nil {
		return err
	}
	*p = *next
	return nil
}

// Deposit adds funds to the reserves outside of a trade. The price is
// required for vending pools and deviated private pools, whose targets are
// re-adjusted to the new reserves.
func (p *Pool) Deposit(price, base, quote *uint256.Int) error {
	if err := validateAmount(base, "base amount"); err != nil {
		return err
	}
	if err := validateAmount(quote, "quote amount"); err != nil {
		return err
	}
	if base.IsZero() && quote.IsZero() {
		return invalidParameter("nothing to deposit")
	}
	if p.Kind == PoolKindVending || p.RStatus != mm.RStatusOne {
		if err := validatePrice(price); err != nil {
			return err
		}
	}

	newBase, err := mathutil.Add(p.BaseReserve, base)
	if err != nil {
		return err
	}
	newQuote, err := mathutil.Add(p.QuoteReserve, quote)
	if err != nil {
		return err
	}
	return p.sync(newBase, newQuote, price)
}

func withdraw(reserve, amount *uint256.Int, asset string) (*uint256.Int, error) {
	if amount == nil {
		return mathutil.Clone(reserve), nil
	}
	if amount.Gt(reserve) {
		return nil, insufficientLiquidity(
			"%s withdrawal %s exceeds reserve %s", asset,
			mathutil.FormatUnits(amount), mathutil.FormatUnits(reserve),
		)
	}
	return mathutil.Sub(reserve, amount)
}

func deriveRStatus(base, quote, baseTarget, quoteTarget *uint256.Int) (mm.RState, error) {
	b := base.Cmp(baseTarget)
	q := quote.Cmp(quoteTarget)
	switch {
	case b == 0 && q == 0:
		return mm.RStatusOne, nil
	case b >= 0 && q <= 0:
		return mm.RStatusAboveOne, nil
	case b <= 0 && q >= 0:
		return mm.RStatusBelowOne, nil
	default:
		return 0, invalidParameter(
			"targets %s/%s deviate on the same side of reserves %s/%s",
			mathutil.FormatUnits(baseTarget), mathutil.FormatUnits(quoteTarget),
			mathutil.FormatUnits(base), mathutil.FormatUnits(quote),
		)
	}
}
