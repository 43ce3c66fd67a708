// Package mathutil implements the fixed-point arithmetic used by the pricing
// engine. Every value is an unsigned 256-bit integer scaled by One and every
// operation that drops precision says in its name which way it rounds.
package mathutil

import (
	"errors"

	"github.com/holiman/uint256"
)

// Decimals is the number of fractional digits carried by a fixed-point value.
const Decimals = 18

var (
	// ErrArithmeticOverflow is returned when a result does not fit 256 bits or
	// a subtraction would go below zero.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrDivisionByZero is returned when a divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

var (
	one  = uint256.NewInt(1e18)
	one2 = new(uint256.Int).Mul(one, one)
)

// One returns a fresh copy of the fixed-point unit (10^18).
func One() *uint256.Int {
	return new(uint256.Int).Set(one)
}

// One2 returns a fresh copy of the squared unit (10^36).
func One2() *uint256.Int {
	return new(uint256.Int).Set(one2)
}

// Zero returns a fresh zero value.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Add returns x + y.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Sub returns x - y, failing if y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Mul returns the raw product x * y.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// DivRawFloor returns floor(x / y) on raw integers.
func DivRawFloor(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// DivRawCeil returns ceil(x / y) on raw integers.
func DivRawCeil(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	q := new(uint256.Int).Div(x, y)
	if !new(uint256.Int).Mul(q, y).Eq(x) {
		q.AddUint64(q, 1)
	}
	return q, nil
}

// MulFloor returns floor(x * y / One).
func MulFloor(x, y *uint256.Int) (*uint256.Int, error) {
	p, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return p.Div(p, one), nil
}

// MulCeil returns ceil(x * y / One).
func MulCeil(x, y *uint256.Int) (*uint256.Int, error) {
	p, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return DivRawCeil(p, one)
}

// DivFloor returns floor(x * One / y).
func DivFloor(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	p, err := Mul(x, one)
	if err != nil {
		return nil, err
	}
	return p.Div(p, y), nil
}

// DivCeil returns ceil(x * One / y).
func DivCeil(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	p, err := Mul(x, one)
	if err != nil {
		return nil, err
	}
	return DivRawCeil(p, y)
}

// ReciprocalFloor returns floor(One^2 / x), the fixed-point inverse of x.
func ReciprocalFloor(x *uint256.Int) (*uint256.Int, error) {
	return DivRawFloor(one2, x)
}

// ReciprocalCeil returns ceil(One^2 / x).
func ReciprocalCeil(x *uint256.Int) (*uint256.Int, error) {
	return DivRawCeil(one2, x)
}

// Sqrt returns floor(sqrt(x)) on raw integers.
func Sqrt(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(x)
}

// Min returns a copy of the smaller of x and y.
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return new(uint256.Int).Set(x)
	}
	return new(uint256.Int).Set(y)
}

// Clone returns a copy of x, treating nil as zero.
func Clone(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}
