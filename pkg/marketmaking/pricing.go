package marketmaking

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// ErrBuyExceedsReserve is returned when a buy asks for the whole base reserve
// or more.
var ErrBuyExceedsReserve = errors.New("buy amount exceeds base reserve")

// SellBaseToken returns the gross quote amount paid for payBase and the
// R-status the pool lands on. The state must already carry adjusted targets.
func SellBaseToken(
	state PMMState, payBase *uint256.Int,
) (receiveQuote *uint256.Int, newR RState, err error) {
	if payBase.IsZero() {
		return mathutil.Zero(), state.R, nil
	}

	switch state.R {
	case RStatusOne:
		receiveQuote, err = rOneSellBaseToken(state, payBase)
		return receiveQuote, RStatusAboveOne, err
	case RStatusAboveOne:
		receiveQuote, err = rAboveSellBaseToken(state, payBase)
		return receiveQuote, RStatusAboveOne, err
	case RStatusBelowOne:
		backToOnePayBase, err := mathutil.Sub(state.B0, state.B)
		if err != nil {
			return nil, state.R, err
		}
		backToOneReceiveQuote, err := mathutil.Sub(state.Q, state.Q0)
		if err != nil {
			return nil, state.R, err
		}

		switch payBase.Cmp(backToOnePayBase) {
		case -1:
			receiveQuote, err = rBelowSellBaseToken(state, payBase)
			if err != nil {
				return nil, state.R, err
			}
			// rounding must not pay more than the whole way back to ONE
			return mathutil.Min(receiveQuote, backToOneReceiveQuote), RStatusBelowOne, nil
		case 0:
			return backToOneReceiveQuote, RStatusOne, nil
		default:
			overshoot, err := mathutil.Sub(payBase, backToOnePayBase)
			if err != nil {
				return nil, state.R, err
			}
			rest, err := rOneSellBaseToken(state, overshoot)
			if err != nil {
				return nil, state.R, err
			}
			receiveQuote, err = mathutil.Add(backToOneReceiveQuote, rest)
			return receiveQuote, RStatusAboveOne, err
		}
	default:
		return nil, state.R, ErrInvalidRStatus
	}
}

// SellQuoteToken returns the gross base amount paid for payQuote and the
// R-status the pool lands on. The state must already carry adjusted targets.
func SellQuoteToken(
	state PMMState, payQuote *uint256.Int,
) (receiveBase *uint256.Int, newR RState, err error) {
	if payQuote.IsZero() {
		return mathutil.Zero(), state.R, nil
	}

	switch state.R {
	case RStatusOne:
		receiveBase, err = rOneSellQuoteToken(state, payQuote)
		return receiveBase, RStatusBelowOne, err
	case RStatusBelowOne:
		receiveBase, err = rBelowSellQuoteToken(state, payQuote)
		return receiveBase, RStatusBelowOne, err
	case RStatusAboveOne:
		backToOnePayQuote, err := mathutil.Sub(state.Q0, state.Q)
		if err != nil {
			return nil, state.R, err
		}
		backToOneReceiveBase, err := mathutil.Sub(state.B, state.B0)
		if err != nil {
			return nil, state.R, err
		}

		switch payQuote.Cmp(backToOnePayQuote) {
		case -1:
			receiveBase, err = rAboveSellQuoteToken(state, payQuote)
			if err != nil {
				return nil, state.R, err
			}
			return mathutil.Min(receiveBase, backToOneReceiveBase), RStatusAboveOne, nil
		case 0:
			return backToOneReceiveBase, RStatusOne, nil
		default:
			overshoot, err := mathutil.Sub(payQuote, backToOnePayQuote)
			if err != nil {
				return nil, state.R, err
			}
			rest, err := rOneSellQuoteToken(state, overshoot)
			if err != nil {
				return nil, state.R, err
			}
			receiveBase, err = mathutil.Add(backToOneReceiveBase, rest)
			return receiveBase, RStatusBelowOne, err
		}
	default:
		return nil, state.R, ErrInvalidRStatus
	}
}

// BuyBaseToken returns the quote amount owed for taking amount base units out
// of the pool and the R-status the pool lands on. The state must already carry
// adjusted targets.
func BuyBaseToken(
	state PMMState, amount *uint256.Int,
) (payQuote *uint256.Int, newR RState, err error) {
	if amount.IsZero() {
		return mathutil.Zero(), state.R, nil
	}
	if !amount.Lt(state.B) {
		return nil, state.R, ErrBuyExceedsReserve
	}

	switch state.R {
	case RStatusOne:
		payQuote, err = rOneBuyBaseToken(state, amount)
		return payQuote, RStatusBelowOne, err
	case RStatusBelowOne:
		payQuote, err = rBelowBuyBaseToken(state, amount)
		return payQuote, RStatusBelowOne, err
	case RStatusAboveOne:
		backToOneReceiveBase, err := mathutil.Sub(state.B, state.B0)
		if err != nil {
			return nil, state.R, err
		}
		backToOnePayQuote, err := mathutil.Sub(state.Q0, state.Q)
		if err != nil {
			return nil, state.R, err
		}

		switch amount.Cmp(backToOneReceiveBase) {
		case -1:
			payQuote, err = formula.SolveQuadraticFunctionForBuy(
				state.Q0, state.Q, amount, state.I, state.K,
			)
			if err != nil {
				return nil, state.R, err
			}
			// nor charge more than the whole way back to ONE
			return mathutil.Min(payQuote, backToOnePayQuote), RStatusAboveOne, nil
		case 0:
			return backToOnePayQuote, RStatusOne, nil
		default:
			overshoot, err := mathutil.Sub(amount, backToOneReceiveBase)
			if err != nil {
				return nil, state.R, err
			}
			rest, err := rOneBuyBaseToken(state, overshoot)
			if err != nil {
				return nil, state.R, err
			}
			payQuote, err = mathutil.Add(backToOnePayQuote, rest)
			return payQuote, RStatusBelowOne, err
		}
	default:
		return nil, state.R, ErrInvalidRStatus
	}
}

// balanced curve seeded at the quote target
func rOneSellBaseToken(state PMMState, payBase *uint256.Int) (*uint256.Int, error) {
	return formula.SolveQuadraticFunctionForTrade(
		state.Q0, state.Q0, payBase, state.I, state.K,
	)
}

// deepens the base surplus
func rAboveSellBaseToken(state PMMState, payBase *uint256.Int) (*uint256.Int, error) {
	return formula.SolveQuadraticFunctionForTrade(
		state.Q0, state.Q, payBase, state.I, state.K,
	)
}

// brings the base reserve back toward its target
func rBelowSellBaseToken(state PMMState, payBase *uint256.Int) (*uint256.Int, error) {
	to, err := mathutil.Add(state.B, payBase)
	if err != nil {
		return nil, err
	}
	return formula.GeneralIntegrate(state.B0, to, state.B, state.I, state.K)
}

func rOneSellQuoteToken(state PMMState, payQuote *uint256.Int) (*uint256.Int, error) {
	inverse, err := mathutil.ReciprocalFloor(state.I)
	if err != nil {
		return nil, err
	}
	return formula.SolveQuadraticFunctionForTrade(
		state.B0, state.B0, payQuote, inverse, state.K,
	)
}

func rBelowSellQuoteToken(state PMMState, payQuote *uint256.Int) (*uint256.Int, error) {
	inverse, err := mathutil.ReciprocalFloor(state.I)
	if err != nil {
		return nil, err
	}
	return formula.SolveQuadraticFunctionForTrade(
		state.B0, state.B, payQuote, inverse, state.K,
	)
}

func rAboveSellQuoteToken(state PMMState, payQuote *uint256.Int) (*uint256.Int, error) {
	inverse, err := mathutil.ReciprocalFloor(state.I)
	if err != nil {
		return nil, err
	}
	to, err := mathutil.Add(state.Q, payQuote)
	if err != nil {
		return nil, err
	}
	return formula.GeneralIntegrate(state.Q0, to, state.Q, inverse, state.K)
}

// takes base out of the balanced curve seeded at the base target
func rOneBuyBaseToken(state PMMState, amount *uint256.Int) (*uint256.Int, error) {
	to, err := mathutil.Sub(state.B0, amount)
	if err != nil {
		return nil, err
	}
	return formula.GeneralIntegrate(state.B0, state.B0, to, state.I, state.K)
}

// deepens the base deficit
func rBelowBuyBaseToken(state PMMState, amount *uint256.Int) (*uint256.Int, error) {
	to, err := mathutil.Sub(state.B, amount)
	if err != nil {
		return nil, err
	}
	return formula.GeneralIntegrate(state.B0, state.B, to, state.I, state.K)
}
