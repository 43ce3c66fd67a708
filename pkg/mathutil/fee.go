package mathutil

import "github.com/holiman/uint256"

// LessFee splits a gross amount into the part delivered to the trader and the
// liquidity provider and maintainer fees, with rates expressed as fixed-point
// fractions. Each fee is floor rounded on its own and the trader gets the
// rest, so amount == withoutFee + lpFee + mtFee.
func LessFee(
	amount, lpFeeRate, mtFeeRate *uint256.Int,
) (withoutFee, lpFee, mtFee *uint256.Int, err error) {
	if lpFee, err = MulFloor(amount, lpFeeRate); err != nil {
		return
	}
	if mtFee, err = MulFloor(amount, mtFeeRate); err != nil {
		return
	}
	totalFee, err := Add(lpFee, mtFee)
	if err != nil {
		return
	}
	withoutFee, err = Sub(amount, totalFee)
	return
}
