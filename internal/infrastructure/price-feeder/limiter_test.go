package pricefeederinfra_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	pricefeederinfra "github.com/tdex-network/tdex-pmm/internal/infrastructure/price-feeder"
)

func TestLimitedPriceSource(t *testing.T) {
	t.Run("shares concurrent requests", func(t *testing.T) {
		price := uint256.NewInt(100)
		source := &mockPriceSource{}
		source.On("GetPrice", mock.Anything, "pool").
			After(50*time.Millisecond).Return(price, nil)

		limited, err := pricefeederinfra.NewLimitedPriceSource(source, 0)
		require.NoError(t, err)

		wg := &sync.WaitGroup{}
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := limited.GetPrice(ctx, "pool")
				assert.NoError(t, err)
				assert.Equal(t, price, got)
			}()
		}
		wg.Wait()

		source.AssertExpectations(t)
		require.Less(t, len(source.Calls), 5)
	})

	t.Run("returns copies", func(t *testing.T) {
		price := uint256.NewInt(100)
		source := &mockPriceSource{}
		source.On("GetPrice", mock.Anything, "pool").Return(price, nil)

		limited, err := pricefeederinfra.NewLimitedPriceSource(source, 1000)
		require.NoError(t, err)

		got, err := limited.GetPrice(ctx, "pool")
		require.NoError(t, err)
		got.SetUint64(1)
		require.Equal(t, uint256.NewInt(100), price)
	})

	t.Run("context canceled", func(t *testing.T) {
		source := &mockPriceSource{}
		source.On("GetPrice", mock.Anything, "pool").
			After(time.Second).Return(uint256.NewInt(100), nil)

		limited, err := pricefeederinfra.NewLimitedPriceSource(source, 0)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err = limited.GetPrice(ctx, "pool")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := pricefeederinfra.NewLimitedPriceSource(nil, 1)
		require.ErrorIs(t, err, pricefeederinfra.ErrMissingPriceSource)
	})
}
