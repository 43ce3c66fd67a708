package domain

import (
	"github.com/holiman/uint256"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// Balances are the amounts held by the pool account as reported by the
// custody layer.
type Balances struct {
	Base  *uint256.Int
	Quote *uint256.Int
}

// FlashLoanSettleFunc hands the borrowed amounts to the borrower and returns
// the pool balances once the borrower is done.
type FlashLoanSettleFunc func(baseOut, quoteOut *uint256.Int) (*Balances, error)

// FlashLoanResult describes how a flash loan was repaid.
type FlashLoanResult struct {
	// BaseMtFee and QuoteMtFee leave the pool to the maintainer.
	BaseMtFee  *uint256.Int
	QuoteMtFee *uint256.Int
	// Swap is set when the loan was settled by trading the surplus of one
	// asset for the shortfall of the other.
	Swap       *TradeResult
	NewRStatus mm.RState
}

// FlashLoan lends baseOut and quoteOut to the borrower behind settle. The loan
// is accepted if the returned balances cover each reserve plus the fee due on
// the borrowed amount, or if exactly one asset is short and the surplus of the
// other, sold to the pool, covers the shortfall. In any other case the pool is
// left untouched and ErrFlashLoanFailed is returned.
func (p *Pool) FlashLoan(
	price, baseOut, quoteOut *uint256.Int, settle FlashLoanSettleFunc,
) (*FlashLoanResult, error) {
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateAmount(baseOut, "base amount"); err != nil {
		return nil, err
	}
	if err := validateAmount(quoteOut, "quote amount"); err != nil {
		return nil, err
	}
	if settle == nil {
		return nil, invalidParameter("missing settle function")
	}
	if baseOut.Gt(p.BaseReserve) {
		return nil, insufficientLiquidity(
			"base borrow %s exceeds reserve %s",
			mathutil.FormatUnits(baseOut), mathutil.FormatUnits(p.BaseReserve),
		)
	}
	if quoteOut.Gt(p.QuoteReserve) {
		return nil, insufficientLiquidity(
			"quote borrow %s exceeds reserve %s",
			mathutil.FormatUnits(quoteOut), mathutil.FormatUnits(p.QuoteReserve),
		)
	}

	baseFee, baseMtFee, err := p.flashFees(baseOut)
	if err != nil {
		return nil, err
	}
	quoteFee, quoteMtFee, err := p.flashFees(quoteOut)
	if err != nil {
		return nil, err
	}
	baseDue, err := mathutil.Add(p.BaseReserve, baseFee)
	if err != nil {
		return nil, err
	}
	quoteDue, err := mathutil.Add(p.QuoteReserve, quoteFee)
	if err != nil {
		return nil, err
	}

	balances, err := settle(mathutil.Clone(baseOut), mathutil.Clone(quoteOut))
	if err != nil {
		return nil, flashLoanFailed("settle: %s", err)
	}
	if balances == nil || balances.Base == nil || balances.Quote == nil {
		return nil, flashLoanFailed("missing pool balances")
	}

	baseShort := balances.Base.Lt(baseDue)
	quoteShort := balances.Quote.Lt(quoteDue)

	switch {
	case !baseShort && !quoteShort:
		return p.repayFlashLoan(price, balances, baseMtFee, quoteMtFee)
	case balances.Base.Lt(p.BaseReserve) && balances.Quote.Gt(quoteDue):
		return p.swapBaseShortfall(price, balances, quoteDue, quoteMtFee)
	case balances.Quote.Lt(p.QuoteReserve) && balances.Base.Gt(baseDue):
		return p.swapQuoteShortfall(price, balances, baseDue, baseMtFee)
	case baseShort:
		return nil, flashLoanFailed(
			"base balance %s below required %s",
			mathutil.FormatUnits(balances.Base), mathutil.FormatUnits(baseDue),
		)
	default:
		return nil, flashLoanFailed(
			"quote balance %s below required %s",
			mathutil.FormatUnits(balances.Quote), mathutil.FormatUnits(quoteDue),
		)
	}
}

func (p *Pool) flashFees(borrowed *uint256.Int) (fee, mtFee *uint256.Int, err error) {
	_, lpFee, mtFee, err := mathutil.LessFee(
		borrowed, p.Params.LpFeeRate, p.Params.MtFeeRate,
	)
	if err != nil {
		return nil, nil, err
	}
	if fee, err = mathutil.Add(lpFee, mtFee); err != nil {
		return nil, nil, err
	}
	return fee, mtFee, nil
}

func (p *Pool) repayFlashLoan(
	price *uint256.Int, balances *Balances, baseMtFee, quoteMtFee *uint256.Int,
) (*FlashLoanResult, error) {
	base, err := mathutil.Sub(balances.Base, baseMtFee)
	if err != nil {
		return nil, err
	}
	quote, err := mathutil.Sub(balances.Quote, quoteMtFee)
	if err != nil {
		return nil, err
	}
	if err := p.sync(base, quote, price); err != nil {
		return nil, err
	}
	return &FlashLoanResult{
		BaseMtFee:  baseMtFee,
		QuoteMtFee: quoteMtFee,
		NewRStatus: p.RStatus,
	}, nil
}

// swapBaseShortfall settles a loan returned with less base than borrowed by
// selling the quote paid in excess to the pool.
func (p *Pool) swapBaseShortfall(
	price *uint256.Int, balances *Balances, quoteDue, quoteMtFee *uint256.Int,
) (*FlashLoanResult, error) {
	quoteIn, err := mathutil.Sub(balances.Quote, quoteDue)
	if err != nil {
		return nil, err
	}
	swap, state, err := p.querySellQuote(price, quoteIn)
	if err != nil {
		return nil, flashLoanFailed("sell quote surplus: %s", err)
	}
	shortfall, err := mathutil.Sub(p.BaseReserve, balances.Base)
	if err != nil {
		return nil, err
	}
	if swap.Receive.Lt(shortfall) {
		return nil, flashLoanFailed(
			"base shortfall %s exceeds %s bought with quote surplus",
			mathutil.FormatUnits(shortfall), mathutil.FormatUnits(swap.Receive),
		)
	}

	base, err := mathutil.Sub(balances.Base, swap.MtFee)
	if err != nil {
		return nil, err
	}
	quote, err := mathutil.Sub(balances.Quote, quoteMtFee)
	if err != nil {
		return nil, err
	}
	if err := p.settle(state, swap.NewRStatus, base, quote, price); err != nil {
		return nil, err
	}
	return &FlashLoanResult{
		BaseMtFee:  mathutil.Clone(swap.MtFee),
		QuoteMtFee: quoteMtFee,
		Swap:       swap,
		NewRStatus: p.RStatus,
	}, nil
}

// swapQuoteShortfall is the mirror of swapBaseShortfall.
func (p *Pool) swapQuoteShortfall(
	price *uint256.Int, balances *Balances, baseDue, baseMtFee *uint256.Int,
) (*FlashLoanResult, error) {
	baseIn, err := mathutil.Sub(balances.Base, baseDue)
	if err != nil {
		return nil, err
	}
	swap, state, err := p.querySellBase(price, baseIn)
	if err != nil {
		return nil, flashLoanFailed("sell base surplus: %s", err)
	}
	shortfall, err := mathutil.Sub(p.QuoteReserve, balances.Quote)
	if err != nil {
		return nil, err
	}
	if swap.Receive.Lt(shortfall) {
		return nil, flashLoanFailed(
			"quote shortfall %s exceeds %s bought with base surplus",
			mathutil.FormatUnits(shortfall), mathutil.FormatUnits(swap.Receive),
		)
	}

	base, err := mathutil.Sub(balances.Base, baseMtFee)
	if err != nil {
		return nil, err
	}
	quote, err := mathutil.Sub(balances.Quote, swap.MtFee)
	if err != nil {
		return nil, err
	}
	if err := p.settle(state, swap.NewRStatus, base, quote, price); err != nil {
		return nil, err
	}
	return &FlashLoanResult{
		BaseMtFee:  baseMtFee,
		QuoteMtFee: mathutil.Clone(swap.MtFee),
		Swap:       swap,
		NewRStatus: p.RStatus,
	}, nil
}
