package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-pmm/internal/config"
	"github.com/tdex-network/tdex-pmm/internal/core/application"
	"github.com/tdex-network/tdex-pmm/pkg/stats"
	"github.com/urfave/cli/v2"
)

const (
	serviceKey  = "pool_service"
	appCfgKey   = "app_config"
	registryKey = "registry"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "pmm"
	app.Usage = "Command line interface for operating and trading with PMM pools"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "the directory where pools and balances are stored",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "the type of database, one of badger, inmemory",
		},
	}
	app.Commands = append(
		app.Commands,
		&poolCmd,
		&depositCmd,
		&faucetCmd,
		&balanceCmd,
		&priceCmd,
		&quoteCmd,
		&tradeCmd,
		&flashloanCmd,
		&resetCmd,
	)
	app.Before = setup
	app.After = teardown

	return app
}

func setup(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	if ctx.IsSet("datadir") {
		config.Set(config.DatadirKey, ctx.String("datadir"))
	}
	if ctx.IsSet("db") {
		config.Set(config.DBTypeKey, ctx.String("db"))
	}
	if err := config.Validate(); err != nil {
		return err
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	registry := prometheus.NewRegistry()
	appConfig := config.GetApplicationConfig()
	appConfig.MetricsRegisterer = registry
	if err := appConfig.Validate(); err != nil {
		return err
	}

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = map[string]interface{}{}
	}
	ctx.App.Metadata[appCfgKey] = appConfig
	ctx.App.Metadata[registryKey] = registry
	ctx.App.Metadata[serviceKey] = appConfig.PoolService()
	return nil
}

func teardown(ctx *cli.Context) error {
	appConfig, ok := ctx.App.Metadata[appCfgKey].(*application.Config)
	if !ok {
		return nil
	}
	defer appConfig.RepoManager().Close()

	if config.GetBool(config.EnableStatsKey) {
		stats.PrintMemoryStatistics()
		stats.PrintNumOfRoutines()

		registry, _ := ctx.App.Metadata[registryKey].(*prometheus.Registry)
		if err := stats.DumpMetrics(config.GetStatsFile(), registry); err != nil {
			log.WithError(err).Warn("failed to dump metrics")
		}
	}
	return nil
}

func getPoolService(ctx *cli.Context) (application.PoolService, error) {
	svc, ok := ctx.App.Metadata[serviceKey].(application.PoolService)
	if !ok {
		return nil, errors.New("pool service not initialized")
	}
	return svc, nil
}

func printJSON(ctx *cli.Context, resp interface{}) error {
	b, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[pmm] %v\n", err)
	}
	os.Exit(1)
}
