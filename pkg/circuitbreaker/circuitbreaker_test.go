package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/pkg/circuitbreaker"
)

func TestCircuitBreaker(t *testing.T) {
	errFailing := errors.New("failing")
	failing := func() (interface{}, error) { return nil, errFailing }
	ok := func() (interface{}, error) { return true, nil }

	t.Run("trips after max failures", func(t *testing.T) {
		cb := circuitbreaker.NewCircuitBreaker("test", 2, 0.5)

		for i := 0; i < 3; i++ {
			_, err := cb.Execute(failing)
			require.ErrorIs(t, err, errFailing)
		}
		require.Equal(t, gobreaker.StateOpen, cb.State())

		_, err := cb.Execute(ok)
		require.ErrorIs(t, err, gobreaker.ErrOpenState)
	})

	t.Run("stays closed below failing ratio", func(t *testing.T) {
		cb := circuitbreaker.NewCircuitBreaker("test", 2, 0.5)

		for i := 0; i < 4; i++ {
			_, err := cb.Execute(ok)
			require.NoError(t, err)
		}
		for i := 0; i < 3; i++ {
			_, err := cb.Execute(failing)
			require.ErrorIs(t, err, errFailing)
		}
		require.Equal(t, gobreaker.StateClosed, cb.State())
	})

	t.Run("defaults", func(t *testing.T) {
		cb := circuitbreaker.NewCircuitBreaker("", 0, 0)
		require.Equal(t, "circuitbreaker", cb.Name())

		for i := 0; i < circuitbreaker.MaxNumOfFailingRequests; i++ {
			//nolint
			cb.Execute(failing)
		}
		require.Equal(t, gobreaker.StateClosed, cb.State())

		//nolint
		cb.Execute(failing)
		require.Equal(t, gobreaker.StateOpen, cb.State())
	})
}
