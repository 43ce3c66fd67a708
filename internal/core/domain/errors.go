package domain

import (
	"errors"
	"fmt"

	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

var (
	// ErrInvalidParameter is returned when an argument or a pool parameter is
	// out of its domain. It is always wrapped with the offending parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientLiquidity is returned when a trade would pay out more than
	// the pool holds or the pool has no liquidity on the side to price.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrFlashLoanFailed is returned when the pool balances do not cover what
	// was borrowed plus fees.
	ErrFlashLoanFailed = errors.New("flash loan failed")
	// ErrRStatusInconsistent is returned if an operation would leave the
	// r-status disagreeing with reserves and targets.
	ErrRStatusInconsistent = errors.New("r-status is inconsistent with reserves and targets")
	// ErrArithmeticOverflow is the fixed-point kernel error returned when a
	// value does not fit 256 bits or a subtraction goes below zero.
	ErrArithmeticOverflow = mathutil.ErrArithmeticOverflow
	// ErrDivisionByZero is the fixed-point kernel error returned when a
	// divisor is zero.
	ErrDivisionByZero = mathutil.ErrDivisionByZero

	// ErrPoolNotFound is returned by repositories when no pool has the given id.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolAlreadyExists is returned when adding a pool whose id, or whose
	// pair and kind, is already taken.
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrPriceNotFound is returned when no reference price is known for a pool.
	ErrPriceNotFound = errors.New("reference price not found")
	// ErrInsufficientBalance is returned by the ledger when an account cannot
	// cover a debit.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func invalidParameter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func insufficientLiquidity(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientLiquidity, fmt.Sprintf(format, args...))
}

func flashLoanFailed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFlashLoanFailed, fmt.Sprintf(format, args...))
}

// pricingError maps curve errors caused by an empty or exhausted side of the
// pool.
func pricingError(err error) error {
	switch {
	case errors.Is(err, formula.ErrTargetZero),
		errors.Is(err, formula.ErrReserveZero),
		errors.Is(err, formula.ErrNoSolution),
		errors.Is(err, mm.ErrBuyExceedsReserve):
		return insufficientLiquidity("%s", err)
	default:
		return err
	}
}
