package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/tdex-pmm/internal/core/application"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of the pools
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// MaintainerKey is the ledger account receiving the maintainer fees of the
	// pools created
	MaintainerKey = "MAINTAINER"
	// PriceBreakerMaxFailuresKey is the number of requests to the price source
	// after which a failing ratio trips the circuit breaker
	PriceBreakerMaxFailuresKey = "PRICE_BREAKER_MAX_FAILURES"
	// PriceBreakerFailingRatioKey is the ratio of failing requests to the price
	// source that trips the circuit breaker
	PriceBreakerFailingRatioKey = "PRICE_BREAKER_FAILING_RATIO"
	// PriceRateLimitKey is the max number of requests per second to the price
	// source, 0 for unlimited
	PriceRateLimitKey = "PRICE_RATE_LIMIT"
	// EnableStatsKey enables dumping prometheus metrics to the stats file
	EnableStatsKey = "ENABLE_STATS"

	DbLocation    = "db"
	StatsLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("tdex-pmm", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PMM")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(MaintainerKey, "maintainer")
	vip.SetDefault(PriceBreakerMaxFailuresKey, 10)
	vip.SetDefault(PriceBreakerFailingRatioKey, 0.6)
	vip.SetDefault(PriceRateLimitKey, 0)
	vip.SetDefault(EnableStatsKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// Set overrides the value of key, ie. with a command line flag. It must be
// followed by a new call to Validate.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// Validate checks the current config and creates the datadir if missing.
func Validate() error {
	if err := validate(); err != nil {
		return err
	}
	return initDatadir()
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger store.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetStatsFile returns the path of the file where metrics are dumped.
func GetStatsFile() string {
	return filepath.Join(GetDatadir(), StatsLocation, "metrics")
}

// GetApplicationConfig returns the config to build the application services.
func GetApplicationConfig() *application.Config {
	return &application.Config{
		DBType:                   GetString(DBTypeKey),
		DBConfig:                 GetDbDir(),
		Maintainer:               GetString(MaintainerKey),
		PriceBreakerMaxFailures:  GetInt(PriceBreakerMaxFailuresKey),
		PriceBreakerFailingRatio: GetFloat(PriceBreakerFailingRatioKey),
		PriceRateLimit:           GetInt(PriceRateLimitKey),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("%s must be one of badger, inmemory", DBTypeKey)
	}

	if len(GetString(MaintainerKey)) <= 0 {
		return fmt.Errorf("missing maintainer account")
	}

	level := GetInt(LogLevelKey)
	if level < 0 || level > 6 {
		return fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}

	if GetInt(PriceBreakerMaxFailuresKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", PriceBreakerMaxFailuresKey)
	}
	ratio := GetFloat(PriceBreakerFailingRatioKey)
	if ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%s must be in range (0, 1]", PriceBreakerFailingRatioKey)
	}

	if GetInt(PriceRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", PriceRateLimitKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	statsEnabled := GetBool(EnableStatsKey)
	if statsEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, StatsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
