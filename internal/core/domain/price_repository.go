package domain

import (
	"context"

	"github.com/holiman/uint256"
)

// PriceRepository stores the reference price of each pool, ie. the amount of
// quote for one unit of base as a fixed-point number.
type PriceRepository interface {
	GetPrice(ctx context.Context, poolID string) (*uint256.Int, error)
	UpdatePrice(ctx context.Context, poolID string, price *uint256.Int) error
}
