package application_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/internal/core/application"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	"github.com/tdex-network/tdex-pmm/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

const (
	baseAsset  = "5ac9f65c0efcc4775e0baec4ec03abdde22473cd3cf33c0419ca290e0751b225"
	quoteAsset = "2dcf5a8834645654911964ec3602426fd3b9b4017554d3f9c19403e7fc1411d3"
	maintainer = "maintainer"
	provider   = "provider"
	trader     = "trader"
)

var ctx = context.Background()

type testService struct {
	application.PoolService
	repoManager ports.RepoManager
	priceSource *mockPriceSource
	metrics     *application.Metrics
	pool        *domain.Pool
}

// newTestService returns a service with a private pool funded with 10 base
// and 1000 quote, priced at 100 quote per base.
func newTestService(t *testing.T) *testService {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	priceSource := &mockPriceSource{}
	priceSource.On("GetPrice", mock.Anything, mock.Anything).
		Return(decimal(t, "100"), nil)
	metrics := application.NewMetrics(prometheus.NewRegistry())

	svc, err := application.NewPoolService(
		repoManager, priceSource, maintainer, metrics,
	)
	require.NoError(t, err)

	params, err := domain.NewParams(
		decimal(t, "0.1"), decimal(t, "0.002"), decimal(t, "0.001"),
	)
	require.NoError(t, err)

	pool, err := svc.CreatePool(
		ctx, baseAsset, quoteAsset, domain.PoolKindPrivate, params,
	)
	require.NoError(t, err)

	err = svc.Mint(ctx, provider, baseAsset, decimal(t, "10"))
	require.NoError(t, err)
	err = svc.Mint(ctx, provider, quoteAsset, decimal(t, "1000"))
	require.NoError(t, err)

	pool, err = svc.Deposit(
		ctx, pool.ID, provider, decimal(t, "10"), decimal(t, "1000"),
	)
	require.NoError(t, err)

	return &testService{svc, repoManager, priceSource, metrics, pool}
}

func (s *testService) requireBalance(
	t *testing.T, account, asset, expected string,
) {
	t.Helper()

	balance, err := s.repoManager.LedgerRepository().GetBalance(ctx, account, asset)
	require.NoError(t, err)
	require.Equal(t, expected, mathutil.FormatUnits(balance), account)
}

// requireCustody checks that the pool account holds exactly the reserves.
func (s *testService) requireCustody(t *testing.T) *domain.Pool {
	t.Helper()

	pool, err := s.GetPool(ctx, s.pool.ID)
	require.NoError(t, err)
	s.requireBalance(t, pool.Account(), baseAsset, mathutil.FormatUnits(pool.BaseReserve))
	s.requireBalance(t, pool.Account(), quoteAsset, mathutil.FormatUnits(pool.QuoteReserve))
	return pool
}

func decimal(t *testing.T, s string) *uint256.Int {
	n, err := mathutil.ParseDecimal(s)
	require.NoError(t, err)
	return n
}

func units(t *testing.T, s string) *uint256.Int {
	n, err := mathutil.ParseUnits(s)
	require.NoError(t, err)
	return n
}
