package main

import (
	"context"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var balanceCmd = cli.Command{
	Name:  "balance",
	Usage: "get the balances of an account or of a pool",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "account",
			Usage: "the account to inspect",
		},
		&cli.StringFlag{
			Name:  "pool",
			Usage: "the id of the pool to inspect",
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	account := ctx.String("account")
	if ctx.IsSet("pool") {
		account = domain.PoolAccount(ctx.String("pool"))
	}
	if len(account) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	balances, err := svc.GetBalance(context.Background(), account)
	if err != nil {
		return err
	}

	return printJSON(ctx, balancesView(balances))
}
