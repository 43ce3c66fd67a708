package inmemory

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

type PriceRepositoryImpl struct {
	prices map[string]*uint256.Int

	lock *sync.RWMutex
}

func NewPriceRepositoryImpl() *PriceRepositoryImpl {
	return &PriceRepositoryImpl{
		prices: map[string]*uint256.Int{},
		lock:   &sync.RWMutex{},
	}
}

func (r *PriceRepositoryImpl) GetPrice(
	_ context.Context, poolID string,
) (*uint256.Int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	price, ok := r.prices[poolID]
	if !ok {
		return nil, domain.ErrPriceNotFound
	}
	return mathutil.Clone(price), nil
}

func (r *PriceRepositoryImpl) UpdatePrice(
	_ context.Context, poolID string, price *uint256.Int,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.prices[poolID] = mathutil.Clone(price)
	return nil
}

func (r *PriceRepositoryImpl) snapshot() map[string]*uint256.Int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	prices := make(map[string]*uint256.Int, len(r.prices))
	for id, price := range r.prices {
		prices[id] = mathutil.Clone(price)
	}
	return prices
}

func (r *PriceRepositoryImpl) restore(prices map[string]*uint256.Int) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.prices = prices
}
