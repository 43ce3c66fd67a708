package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var priceCmd = cli.Command{
	Name: "price",
	Usage: "update the reference price of a pool, or get its current mid " +
		"price if no value is given",
	Flags: []cli.Flag{
		poolFlag(),
		&cli.StringFlag{
			Name:  "value",
			Usage: "the amount of quote asset for one unit of base asset",
		},
	},
	Action: priceAction,
}

func priceAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}
	poolID := ctx.String("pool")

	if !ctx.IsSet("value") {
		mid, err := svc.MidPrice(context.Background(), poolID)
		if err != nil {
			return err
		}
		return printJSON(ctx, map[string]string{
			"mid_price": mathutil.FormatDecimal(mid),
		})
	}

	value, err := mathutil.ParseDecimal(ctx.String("value"))
	if err != nil {
		return err
	}
	if err := svc.UpdatePrice(context.Background(), poolID, value); err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, "price has been updated")
	return nil
}
