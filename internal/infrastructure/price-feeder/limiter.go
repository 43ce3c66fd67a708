package pricefeederinfra

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"
)

type limitedPriceSource struct {
	source  ports.PriceSource
	limiter ratelimit.Limiter
	group   *singleflight.Group
}

// NewLimitedPriceSource wraps source so that it's queried at most rate times
// per second. Concurrent requests for the same pool share the result of a
// single query. A non positive rate disables the limit.
func NewLimitedPriceSource(
	source ports.PriceSource, rate int,
) (ports.PriceSource, error) {
	if source == nil {
		return nil, ErrMissingPriceSource
	}
	limiter := ratelimit.NewUnlimited()
	if rate > 0 {
		limiter = ratelimit.New(rate)
	}
	return &limitedPriceSource{source, limiter, &singleflight.Group{}}, nil
}

func (s *limitedPriceSource) GetPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	ch := s.group.DoChan(poolID, func() (interface{}, error) {
		s.limiter.Take()
		return s.source.GetPrice(ctx, poolID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		price, ok := res.Val.(*uint256.Int)
		if !ok || price == nil {
			return nil, fmt.Errorf("%w for pool %s", domain.ErrPriceNotFound, poolID)
		}
		return new(uint256.Int).Set(price), nil
	}
}
