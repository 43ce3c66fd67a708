package pricefeederinfra

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
)

type repoPriceSource struct {
	repo domain.PriceRepository
}

// NewRepoPriceSource returns a PriceSource serving the last reference price
// stored for every pool, as pushed by the operator.
func NewRepoPriceSource(repo domain.PriceRepository) (ports.PriceSource, error) {
	if repo == nil {
		return nil, ErrMissingPriceRepository
	}
	return &repoPriceSource{repo}, nil
}

func (s *repoPriceSource) GetPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	price, err := s.repo.GetPrice(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if price == nil || price.IsZero() {
		return nil, fmt.Errorf("%w for pool %s", domain.ErrPriceNotFound, poolID)
	}
	return price, nil
}
