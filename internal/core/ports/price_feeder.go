package ports

import (
	"context"

	"github.com/holiman/uint256"
)

// PriceSource provides the reference price of a pool, ie. the amount of quote
// for one unit of base as a fixed-point number. The price is pulled once per
// operation.
type PriceSource interface {
	GetPrice(ctx context.Context, poolID string) (*uint256.Int, error)
}
