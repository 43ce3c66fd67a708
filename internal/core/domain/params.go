package domain

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// PoolKind selects how a pool manages its targets.
type PoolKind uint8

const (
	// PoolKindPrivate pools keep targets across trades and reset them only
	// when the pool lands back on R=ONE or on an explicit reset.
	PoolKindPrivate PoolKind = iota
	// PoolKindVending pools pin the quote target to zero and derive the base
	// target from the reserves on every operation, which blends the curve
	// toward a constant product one as k approaches 1.
	PoolKindVending
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindPrivate:
		return "private"
	case PoolKindVending:
		return "vending"
	default:
		return fmt.Sprintf("PoolKind(%d)", uint8(k))
	}
}

// ParsePoolKind is the inverse of String.
func ParsePoolKind(s string) (PoolKind, error) {
	switch s {
	case "private":
		return PoolKindPrivate, nil
	case "vending":
		return PoolKindVending, nil
	default:
		return 0, invalidParameter("unknown pool kind %q", s)
	}
}

func (k PoolKind) isValid() bool {
	return k <= PoolKindVending
}

// Params is the immutable set of curve and fee parameters of a pool. A reset
// swaps the whole snapshot, never single fields.
type Params struct {
	// K is the slippage factor in [0, 1].
	K *uint256.Int
	// LpFeeRate is the share of the gross output left in the pool.
	LpFeeRate *uint256.Int
	// MtFeeRate is the share of the gross output paid to the maintainer.
	MtFeeRate *uint256.Int
}

// NewParams returns a validated copy of the given parameters.
func NewParams(k, lpFeeRate, mtFeeRate *uint256.Int) (Params, error) {
	if k == nil || lpFeeRate == nil || mtFeeRate == nil {
		return Params{}, invalidParameter("slippage factor and fee rates are required")
	}
	p := Params{
		K:         mathutil.Clone(k),
		LpFeeRate: mathutil.Clone(lpFeeRate),
		MtFeeRate: mathutil.Clone(mtFeeRate),
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks k is in [0, 1] and the fee rates sum to less than 1.
func (p Params) Validate() error {
	if p.K == nil || p.LpFeeRate == nil || p.MtFeeRate == nil {
		return invalidParameter("slippage factor and fee rates are required")
	}
	if p.K.Gt(mathutil.One()) {
		return invalidParameter(
			"slippage factor %s must be in range [0, 1]", mathutil.FormatDecimal(p.K),
		)
	}
	total, err := mathutil.Add(p.LpFeeRate, p.MtFeeRate)
	if err != nil || !total.Lt(mathutil.One()) {
		return invalidParameter(
			"fee rates %s + %s must sum to less than 1",
			mathutil.FormatDecimal(p.LpFeeRate), mathutil.FormatDecimal(p.MtFeeRate),
		)
	}
	return nil
}

// Copy returns a deep copy of the parameters.
func (p Params) Copy() Params {
	return Params{
		K:         mathutil.Clone(p.K),
		LpFeeRate: mathutil.Clone(p.LpFeeRate),
		MtFeeRate: mathutil.Clone(p.MtFeeRate),
	}
}
