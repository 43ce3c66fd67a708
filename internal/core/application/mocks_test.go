package application_test

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
)

// **** Price source ****

type mockPriceSource struct {
	mock.Mock
}

func (m *mockPriceSource) GetPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	args := m.Called(ctx, poolID)

	var res *uint256.Int
	if a := args.Get(0); a != nil {
		res = a.(*uint256.Int)
	}
	return res, args.Error(1)
}
