package application

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	pricefeederinfra "github.com/tdex-network/tdex-pmm/internal/infrastructure/price-feeder"
	dbbadger "github.com/tdex-network/tdex-pmm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-pmm/internal/infrastructure/storage/db/inmemory"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config builds the application services and their dependencies lazily.
// DBConfig is the datadir of the badger store.
type Config struct {
	DBType   string
	DBConfig interface{}

	Maintainer               string
	PriceBreakerMaxFailures  int
	PriceBreakerFailingRatio float64
	PriceRateLimit           int
	MetricsRegisterer        prometheus.Registerer

	repo        ports.RepoManager
	priceSource ports.PriceSource
	pool        PoolService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("db type %s not supported", c.DBType)
	}
	if len(c.Maintainer) <= 0 {
		return ErrMissingMaintainer
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.priceSourceService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PriceSource() ports.PriceSource {
	svc, _ := c.priceSourceService()
	return svc
}

func (c *Config) PoolService() PoolService {
	svc, _ := c.poolService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("db type %s not supported", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) priceSourceService() (ports.PriceSource, error) {
	if c.priceSource == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		source, err := pricefeederinfra.NewRepoPriceSource(repo.PriceRepository())
		if err != nil {
			return nil, err
		}
		breaker, err := pricefeederinfra.NewBreakerPriceSource(
			source, c.PriceBreakerMaxFailures, c.PriceBreakerFailingRatio,
		)
		if err != nil {
			return nil, err
		}
		limited, err := pricefeederinfra.NewLimitedPriceSource(
			breaker, c.PriceRateLimit,
		)
		if err != nil {
			return nil, err
		}
		c.priceSource = limited
	}
	return c.priceSource, nil
}

func (c *Config) poolService() (PoolService, error) {
	if c.pool == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		priceSource, err := c.priceSourceService()
		if err != nil {
			return nil, err
		}
		pool, err := NewPoolService(
			repo, priceSource, c.Maintainer, NewMetrics(c.MetricsRegisterer),
		)
		if err != nil {
			return nil, err
		}
		c.pool = pool
	}
	return c.pool, nil
}
