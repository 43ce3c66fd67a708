package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-pmm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-pmm/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

var ctx = context.Background()

type repoManager struct {
	name string
	ports.RepoManager
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, true, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, false, query)
}

func createRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{"badger", badgerRepoManager},
		{"inmemory", inmemory.NewRepoManager()},
	}
}

func makeRandomPool(t *testing.T) *domain.Pool {
	params, err := domain.NewParams(
		decimal(t, "0.1"), decimal(t, "0.002"), decimal(t, "0.001"),
	)
	require.NoError(t, err)

	pool, err := domain.NewPool(
		randomHex(32), randomHex(32), domain.PoolKindPrivate, params, randomHex(20),
	)
	require.NoError(t, err)
	return pool
}

func decimal(t *testing.T, s string) *uint256.Int {
	n, err := mathutil.ParseDecimal(s)
	require.NoError(t, err)
	return n
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
