package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var depositCmd = cli.Command{
	Name:  "deposit",
	Usage: "move funds from an account to the reserves of a pool",
	Flags: []cli.Flag{
		poolFlag(),
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account funding the pool",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: "the amount of base asset to deposit",
		},
		&cli.StringFlag{
			Name:  "quote",
			Usage: "the amount of quote asset to deposit",
		},
	},
	Action: depositAction,
}

func depositAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	base, err := parseAmount(ctx, "base")
	if err != nil {
		return err
	}
	quote, err := parseAmount(ctx, "quote")
	if err != nil {
		return err
	}

	p, err := svc.Deposit(
		context.Background(), ctx.String("pool"), ctx.String("account"),
		base, quote,
	)
	if err != nil {
		return err
	}

	return printJSON(ctx, newPoolView(p))
}
