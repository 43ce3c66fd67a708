// Package formula defines the closed forms of the proportional market making
// curve. Values are 18-decimals fixed-point numbers: V0 is a target reserve,
// V1 and V2 are reserves, i is the reference price and k the slippage factor.
//
// The formulas run step by step on 256-bit integers and every fixed-point step
// rounds on its own, in a fixed order, so that results are reproducible to the
// wei. Where that order would divide a truncated square root by k or by 1-k,
// the conjugate form is evaluated instead: a slippage factor close to 0 or 1
// would otherwise amplify the truncation into a mispriced trade.
package formula

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

var (
	// ErrTargetZero is returned when the curve is anchored at an empty target.
	ErrTargetZero = errors.New("target reserve is zero")
	// ErrReserveZero is returned when a formula would divide by an empty
	// reserve.
	ErrReserveZero = errors.New("reserve is zero")
	// ErrInvalidInterval is returned when an integration would run from a
	// reserve down to a bigger one.
	ErrInvalidInterval = errors.New("integration interval is reversed")
	// ErrSlippageOutOfRange is returned when k is above 1.
	ErrSlippageOutOfRange = errors.New("slippage factor must be in range [0, 1]")
	// ErrNoSolution is returned when no reserve on the curve satisfies the
	// trade, ie. the pool cannot pay it out.
	ErrNoSolution = errors.New("curve has no solution for the trade")
)

var (
	one  = mathutil.One()
	one2 = mathutil.One2()
	two  = uint256.NewInt(2)
	four = uint256.NewInt(4)

	// below this slippage factor the target is solved in conjugate form
	conjugateTargetK = uint256.NewInt(1e16)
)

// GeneralIntegrate returns the amount paid out when a reserve moves from V2 up
// to V1 along the curve anchored at target V0:
//
//	i*(V1-V2)*((1-k) + k*V0^2/(V1*V2))
//
// V0^2/V1 is floor divided, then divided by V2 and scaled by k with floor
// rounding. The result is floor rounded.
func GeneralIntegrate(V0, V1, V2, i, k *uint256.Int) (*uint256.Int, error) {
	if V0.IsZero() {
		return nil, ErrTargetZero
	}
	if V1.Lt(V2) {
		return nil, ErrInvalidInterval
	}
	if k.Gt(one) {
		return nil, ErrSlippageOutOfRange
	}

	fair, err := mathutil.Mul(i, new(uint256.Int).Sub(V1, V2))
	if err != nil {
		return nil, err
	}
	if k.IsZero() {
		return fair.Div(fair, one), nil
	}
	if V2.IsZero() {
		return nil, ErrReserveZero
	}

	v0v0, err := mathutil.Mul(V0, V0)
	if err != nil {
		return nil, err
	}
	ratio, err := mathutil.DivFloor(v0v0.Div(v0v0, V1), V2)
	if err != nil {
		return nil, err
	}
	penalty, err := mathutil.MulFloor(k, ratio)
	if err != nil {
		return nil, err
	}
	weight, err := mathutil.Add(new(uint256.Int).Sub(one, k), penalty)
	if err != nil {
		return nil, err
	}
	out, err := mathutil.Mul(weight, fair)
	if err != nil {
		return nil, err
	}
	return out.Div(out, one2), nil
}

// SolveQuadraticFunctionForTarget returns the target V0 of a pool holding V1
// whose counter reserve is delta above its own target. It solves
//
//	delta = i*(V0-V1)*((1-k) + k*V0/V1)
//
// for V0 >= V1 as V1*(1 + (sqrt(1+4*k*i*delta/V1)-1)/2k). The square root and
// every quotient are floor rounded, so the target never exceeds the exact one.
func SolveQuadraticFunctionForTarget(V1, delta, i, k *uint256.Int) (*uint256.Int, error) {
	if k.Gt(one) {
		return nil, ErrSlippageOutOfRange
	}
	if k.IsZero() {
		// constant price: V0 = V1 + i*delta
		premium, err := mathutil.MulFloor(i, delta)
		if err != nil {
			return nil, err
		}
		return mathutil.Add(V1, premium)
	}
	if V1.IsZero() {
		return mathutil.Zero(), nil
	}
	if delta.IsZero() {
		return mathutil.Clone(V1), nil
	}

	ki := new(uint256.Int).Mul(k, four)
	ki, err := mathutil.Mul(ki, i)
	if err != nil {
		return nil, err
	}
	sqrt := mathutil.One()
	if !ki.IsZero() {
		radicand, err := mulThenDiv(ki, delta, V1)
		if err != nil {
			return nil, err
		}
		if radicand, err = mathutil.Add(radicand, one2); err != nil {
			return nil, err
		}
		sqrt = mathutil.Sqrt(radicand)
	}

	var premium *uint256.Int
	if k.Lt(conjugateTargetK) {
		// (sqrt-1)/2k == 2*i*delta/V1 / (sqrt+1)
		u, err := mulThenDiv(i, delta, V1)
		if err != nil {
			return nil, err
		}
		if u, err = mathutil.Mul(u, two); err != nil {
			return nil, err
		}
		den, err := mathutil.Add(sqrt, one)
		if err != nil {
			return nil, err
		}
		if premium, err = mathutil.DivFloor(u, den); err != nil {
			return nil, err
		}
	} else {
		excess := new(uint256.Int).Sub(sqrt, one)
		if premium, err = mathutil.DivFloor(excess, new(uint256.Int).Mul(k, two)); err != nil {
			return nil, err
		}
	}
	if premium, err = mathutil.Add(premium, one); err != nil {
		return nil, err
	}
	return mathutil.MulFloor(V1, premium)
}

// SolveQuadraticFunctionForTrade returns how much of a reserve V1 anchored at
// target V0 is paid out for delta of the counter asset. The new reserve V2 is
// the positive root of
//
//	(1-k)*V2^2 + b*V2 - k*V0^2 = 0, b = k*V0^2/V1 + i*delta - (1-k)*V1
//
// rounded up, and the output is V1-V2. At k=1 the quadratic term vanishes and
// the curve is the constant product one. At k=0 the price is constant.
func SolveQuadraticFunctionForTrade(V0, V1, delta, i, k *uint256.Int) (*uint256.Int, error) {
	if V0.IsZero() {
		return nil, ErrTargetZero
	}
	if delta.IsZero() {
		return mathutil.Zero(), nil
	}
	if k.Gt(one) {
		return nil, ErrSlippageOutOfRange
	}
	if k.IsZero() {
		out, err := mathutil.MulFloor(i, delta)
		if err != nil {
			return nil, err
		}
		return mathutil.Min(out, V1), nil
	}
	if V1.IsZero() {
		return nil, ErrReserveZero
	}
	if k.Eq(one) {
		return constantProductTrade(V0, V1, delta, i)
	}

	oneMinusK := new(uint256.Int).Sub(one, k)
	kv0, err := mathutil.Mul(k, V0)
	if err != nil {
		return nil, err
	}
	part2, err := mathutil.Mul(kv0.Div(kv0, V1), V0)
	if err != nil {
		return nil, err
	}
	idelta, err := mathutil.Mul(i, delta)
	if err != nil {
		return nil, err
	}
	if part2, err = mathutil.Add(part2, idelta); err != nil {
		return nil, err
	}

	// b = part2 - (1-k)*V1, kept as |b| / 1e18
	b, err := mathutil.Mul(oneMinusK, V1)
	if err != nil {
		return nil, err
	}
	bPositive := b.Lt(part2)
	if bPositive {
		b.Sub(part2, b)
	} else {
		b.Sub(b, part2)
	}
	b.Div(b, one)

	kv0v0, err := kV0Squared(V0, k)
	if err != nil {
		return nil, err
	}
	sqrt, err := discriminantRoot(b, kv0v0, k)
	if err != nil {
		return nil, err
	}

	var v2 *uint256.Int
	if bPositive {
		// (sqrt-b)/2(1-k) == 2*k*V0^2 / (sqrt+b)
		num, err := mathutil.Mul(kv0v0, two)
		if err != nil {
			return nil, err
		}
		den, err := mathutil.Add(sqrt, b)
		if err != nil {
			return nil, err
		}
		if den.IsZero() {
			// nothing left of the quadratic: the reserve empties
			return mathutil.Clone(V1), nil
		}
		if v2, err = mathutil.DivRawCeil(num, den); err != nil {
			return nil, err
		}
	} else {
		num, err := mathutil.Add(b, sqrt)
		if err != nil {
			return nil, err
		}
		if v2, err = mathutil.DivCeil(num, new(uint256.Int).Mul(oneMinusK, two)); err != nil {
			return nil, err
		}
	}

	if v2.Gt(V1) {
		return mathutil.Zero(), nil
	}
	return v2.Sub(V1, v2), nil
}

// SolveQuadraticFunctionForBuy returns how much a reserve V1 anchored at
// target V0 must grow for the pool to pay out delta of the counter asset,
// with the counter reserve in surplus. It is the inverse of
// SolveQuadraticFunctionForTrade: the new reserve V2 >= V1 is the positive
// root of
//
//	(1-k)*V2^2 + b*V2 - k*V0^2 = 0, b = k*V0^2/V1 - (1-k)*V1 - i*delta
//
// floor rounded, and the amount owed is V2-V1.
func SolveQuadraticFunctionForBuy(V0, V1, delta, i, k *uint256.Int) (*uint256.Int, error) {
	if V0.IsZero() {
		return nil, ErrTargetZero
	}
	if delta.IsZero() {
		return mathutil.Zero(), nil
	}
	if k.Gt(one) {
		return nil, ErrSlippageOutOfRange
	}
	idelta, err := mathutil.MulFloor(i, delta)
	if err != nil {
		return nil, err
	}
	if k.IsZero() {
		return idelta, nil
	}
	if V1.IsZero() {
		return nil, ErrReserveZero
	}

	var v2 *uint256.Int
	if k.Eq(one) {
		// V2 = V0^2 / (V0^2/V1 - i*delta)
		v0v0, err := mathutil.Mul(V0, V0)
		if err != nil {
			return nil, err
		}
		v := new(uint256.Int).Div(v0v0, V1)
		if !v.Gt(idelta) {
			return nil, ErrNoSolution
		}
		v2 = v0v0.Div(v0v0, v.Sub(v, idelta))
	} else {
		oneMinusK := new(uint256.Int).Sub(one, k)
		kv0v0, err := kV0Squared(V0, k)
		if err != nil {
			return nil, err
		}
		kq := new(uint256.Int).Div(kv0v0, V1)

		// b = k*V0^2/V1 - ((1-k)*V1 + i*delta), kept as |b|
		b, err := mathutil.MulFloor(oneMinusK, V1)
		if err != nil {
			return nil, err
		}
		if b, err = mathutil.Add(b, idelta); err != nil {
			return nil, err
		}
		bPositive := b.Lt(kq)
		if bPositive {
			b.Sub(kq, b)
		} else {
			b.Sub(b, kq)
		}

		sqrt, err := discriminantRoot(b, kv0v0, k)
		if err != nil {
			return nil, err
		}
		if bPositive {
			// (sqrt-b)/2(1-k) == 2*k*V0^2 / (sqrt+b)
			num, err := mathutil.Mul(kv0v0, two)
			if err != nil {
				return nil, err
			}
			den, err := mathutil.Add(sqrt, b)
			if err != nil {
				return nil, err
			}
			if den.IsZero() {
				return nil, ErrNoSolution
			}
			v2 = num.Div(num, den)
		} else {
			num, err := mathutil.Add(b, sqrt)
			if err != nil {
				return nil, err
			}
			if v2, err = mathutil.DivFloor(num, new(uint256.Int).Mul(oneMinusK, two)); err != nil {
				return nil, err
			}
		}
	}

	if v2.Lt(V1) {
		return nil, ErrNoSolution
	}
	return v2.Sub(v2, V1), nil
}

// constantProductTrade is the k=1 case of SolveQuadraticFunctionForTrade:
// with t = i*delta*V1/V0^2 the output is V1*t/(1+t), floor rounded.
func constantProductTrade(V0, V1, delta, i *uint256.Int) (*uint256.Int, error) {
	idelta, err := mathutil.Mul(i, delta)
	if err != nil {
		return nil, err
	}
	temp := mathutil.Zero()
	if !idelta.IsZero() {
		if product, overflow := new(uint256.Int).MulOverflow(idelta, V1); !overflow {
			v0v0, err := mathutil.Mul(V0, V0)
			if err != nil {
				return nil, err
			}
			temp = product.Div(product, v0v0)
		} else {
			// (delta*V1/V0)*i/V0
			t, err := mathutil.Mul(delta, V1)
			if err != nil {
				return nil, err
			}
			if t, err = mathutil.Mul(t.Div(t, V0), i); err != nil {
				return nil, err
			}
			temp = t.Div(t, V0)
		}
	}
	num, err := mathutil.Mul(V1, temp)
	if err != nil {
		return nil, err
	}
	den, err := mathutil.Add(temp, one)
	if err != nil {
		return nil, err
	}
	return num.Div(num, den), nil
}

// kV0Squared returns floor(k*V0)*V0, the raw k*V0^2 term of the quadratics.
func kV0Squared(V0, k *uint256.Int) (*uint256.Int, error) {
	kv0, err := mathutil.MulFloor(k, V0)
	if err != nil {
		return nil, err
	}
	return mathutil.Mul(kv0, V0)
}

// discriminantRoot returns floor(sqrt(b^2 + floor(4*(1-k)*k*V0^2))).
func discriminantRoot(b, kv0v0, k *uint256.Int) (*uint256.Int, error) {
	fourAC, err := mathutil.Mul(new(uint256.Int).Sub(one, k), four)
	if err != nil {
		return nil, err
	}
	if fourAC, err = mathutil.MulFloor(fourAC, kv0v0); err != nil {
		return nil, err
	}
	bb, err := mathutil.Mul(b, b)
	if err != nil {
		return nil, err
	}
	radicand, err := mathutil.Add(bb, fourAC)
	if err != nil {
		return nil, err
	}
	return mathutil.Sqrt(radicand), nil
}

// mulThenDiv returns x*y/d floor rounded, dividing x by d first when the
// product does not fit 256 bits.
func mulThenDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if product, overflow := new(uint256.Int).MulOverflow(x, y); !overflow {
		return product.Div(product, d), nil
	}
	return mathutil.Mul(new(uint256.Int).Div(x, d), y)
}
