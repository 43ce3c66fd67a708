package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const maxTxRetries = 5

type repoManager struct {
	store *badgerhold.Store

	poolRepository   domain.PoolRepository
	ledgerRepository domain.LedgerRepository
	priceRepository  domain.PriceRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty data dir opens
// an in memory store.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "pools")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pools db: %w", err)
	}

	return &repoManager{
		store:            store,
		poolRepository:   NewPoolRepositoryImpl(store),
		ledgerRepository: NewLedgerRepositoryImpl(store),
		priceRepository:  NewPriceRepositoryImpl(store),
	}, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) LedgerRepository() domain.LedgerRepository {
	return r.ledgerRepository
}

func (r *repoManager) PriceRepository() domain.PriceRepository {
	return r.priceRepository
}

// RunTransaction runs handler with the badger transaction stored in the
// context under the "tx" key. Write transactions aborted by a conflict with a
// concurrent one are retried from scratch.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	for attempt := 0; ; attempt++ {
		tx := r.store.Badger().NewTransaction(!readOnly)
		//nolint
		txCtx := context.WithValue(ctx, "tx", tx)

		res, err := handler(txCtx)
		if err != nil {
			tx.Discard()
			return nil, err
		}
		if readOnly {
			tx.Discard()
			return res, nil
		}

		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && attempt < maxTxRetries {
				log.WithError(err).Debug("retrying conflicting transaction")
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (r *repoManager) Close() {
	r.store.Close()
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value("tx").(*badger.Txn); ok {
		return tx
	}
	return nil
}

// update runs fn in the transaction of ctx if any, otherwise in a new one.
func update(
	ctx context.Context, store *badgerhold.Store, fn func(tx *badger.Txn) error,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return store.Badger().Update(fn)
}

// view is the read-only version of update.
func view(
	ctx context.Context, store *badgerhold.Store, fn func(tx *badger.Txn) error,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return store.Badger().View(fn)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
