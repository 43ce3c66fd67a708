// Package marketmaking prices trades against a proportional market making
// pool: a PMMState snapshot goes in, the amount paid out and the next R-status
// come out.
package marketmaking

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// PMMState is the snapshot the pricing functions work on.
type PMMState struct {
	// I is the reference price of one base unit in quote.
	I *uint256.Int
	// K is the slippage factor in [0, 1].
	K *uint256.Int
	// B and Q are the current reserves.
	B *uint256.Int
	Q *uint256.Int
	// B0 and Q0 are the targets.
	B0 *uint256.Int
	Q0 *uint256.Int
	R  RState
}

// Copy returns a deep copy of the state.
func (s PMMState) Copy() PMMState {
	return PMMState{
		I:  mathutil.Clone(s.I),
		K:  mathutil.Clone(s.K),
		B:  mathutil.Clone(s.B),
		Q:  mathutil.Clone(s.Q),
		B0: mathutil.Clone(s.B0),
		Q0: mathutil.Clone(s.Q0),
		R:  s.R,
	}
}

// AdjustedTarget recomputes the target of the side in deficit from the
// surplus of the other one. The target of the side in surplus is the one
// recorded when the pool left ONE and is kept as is.
func AdjustedTarget(state *PMMState) error {
	switch state.R {
	case RStatusOne:
		return nil
	case RStatusAboveOne:
		surplus, err := mathutil.Sub(state.B, state.B0)
		if err != nil {
			return fmt.Errorf("base surplus: %w", err)
		}
		q0, err := formula.SolveQuadraticFunctionForTarget(
			state.Q, surplus, state.I, state.K,
		)
		if err != nil {
			return err
		}
		state.Q0 = q0
		return nil
	case RStatusBelowOne:
		surplus, err := mathutil.Sub(state.Q, state.Q0)
		if err != nil {
			return fmt.Errorf("quote surplus: %w", err)
		}
		inverse, err := mathutil.ReciprocalFloor(state.I)
		if err != nil {
			return err
		}
		b0, err := formula.SolveQuadraticFunctionForTarget(
			state.B, surplus, inverse, state.K,
		)
		if err != nil {
			return err
		}
		state.B0 = b0
		return nil
	default:
		return ErrInvalidRStatus
	}
}

// MidPrice returns the marginal price of one base unit in quote at the given
// state. The squared target ratio is floor divided step by step and the
// result is floor rounded.
func MidPrice(state PMMState) (*uint256.Int, error) {
	switch state.R {
	case RStatusOne:
		return mathutil.Clone(state.I), nil
	case RStatusAboveOne:
		// i / (1 - k + k*Q0^2/Q^2)
		weight, err := slippageWeight(state.Q0, state.Q, state.K)
		if err != nil {
			return nil, err
		}
		return mathutil.DivFloor(state.I, weight)
	case RStatusBelowOne:
		// i * (1 - k + k*B0^2/B^2)
		weight, err := slippageWeight(state.B0, state.B, state.K)
		if err != nil {
			return nil, err
		}
		return mathutil.MulFloor(state.I, weight)
	default:
		return nil, ErrInvalidRStatus
	}
}

// slippageWeight returns 1 - k + k*target^2/reserve^2.
func slippageWeight(target, reserve, k *uint256.Int) (*uint256.Int, error) {
	if reserve.IsZero() {
		return nil, formula.ErrReserveZero
	}
	ratio, err := mathutil.Mul(target, target)
	if err != nil {
		return nil, err
	}
	if ratio, err = mathutil.DivFloor(ratio.Div(ratio, reserve), reserve); err != nil {
		return nil, err
	}
	if ratio, err = mathutil.MulFloor(k, ratio); err != nil {
		return nil, err
	}
	oneMinusK, err := mathutil.Sub(mathutil.One(), k)
	if err != nil {
		return nil, err
	}
	return mathutil.Add(oneMinusK, ratio)
}
