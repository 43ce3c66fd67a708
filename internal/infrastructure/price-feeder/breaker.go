package pricefeederinfra

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	"github.com/tdex-network/tdex-pmm/pkg/circuitbreaker"
)

type priceResult struct {
	price *uint256.Int
	err   error
}

type breakerPriceSource struct {
	source ports.PriceSource
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerPriceSource wraps source with a circuit breaker that stops
// querying it once too many requests fail. A missing price is a valid answer
// and does not count as a failure.
func NewBreakerPriceSource(
	source ports.PriceSource, maxFailures int, failingRatio float64,
) (ports.PriceSource, error) {
	if source == nil {
		return nil, ErrMissingPriceSource
	}
	return &breakerPriceSource{
		source: source,
		cb: circuitbreaker.NewCircuitBreaker(
			"price-source", maxFailures, failingRatio,
		),
	}, nil
}

func (s *breakerPriceSource) GetPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		price, err := s.source.GetPrice(ctx, poolID)
		if err != nil {
			if errors.Is(err, domain.ErrPriceNotFound) {
				return priceResult{err: err}, nil
			}
			return nil, err
		}
		return priceResult{price: price}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.WithField("pool", poolID).Warn("price source circuit is open")
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
		}
		return nil, err
	}

	result := res.(priceResult)
	return result.price, result.err
}
