package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var faucetCmd = cli.Command{
	Name:  "faucet",
	Usage: "credit an account with some funds",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "the asset to credit",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to credit",
			Required: true,
		},
	},
	Action: faucetAction,
}

func faucetAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	amount, err := mathutil.ParseDecimal(ctx.String("amount"))
	if err != nil {
		return err
	}

	if err := svc.Mint(
		context.Background(), ctx.String("account"), ctx.String("asset"), amount,
	); err != nil {
		return err
	}

	fmt.Fprintf(
		ctx.App.Writer, "credited %s %s to %s\n",
		mathutil.FormatDecimal(amount), ctx.String("asset"), ctx.String("account"),
	)
	return nil
}
