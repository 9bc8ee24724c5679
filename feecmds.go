package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

func GetFeeCmdOpts() *cli.Command {
	return &cli.Command{
		Name:  "fees",
		Usage: "Show or update the protocol fee taken from claimed rewards",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current fee rate and recipient",
				Action: FeesShow,
			},
			{
				Name:   "set",
				Usage:  "Update the fee rate and recipient (admin only)",
				Action: FeesSet,
				Flags: []cli.Flag{
					adminFromFlag(),
					&cli.UintFlag{Name: "percent", Usage: "Fee in basis points out of 1000 (50 = 5%)", Required: true},
					&cli.StringFlag{Name: "wallet", Usage: "Address receiving the fee", Required: true},
				},
			},
		},
	}
}

func FeesShow(ctx context.Context, command *cli.Command) error {
	feePercent, feeWallet := App.ledger.FeeValues()
	fmt.Printf("feePercent:%d/1000 feeWallet:%s\n", feePercent, feeWallet)
	return nil
}

func FeesSet(ctx context.Context, command *cli.Command) error {
	admin, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	wallet, err := parseAddress(command.String("wallet"))
	if err != nil {
		return err
	}
	feePercent := command.Value("percent").(uint64)
	if err := App.ledger.UpdateFeeValues(admin, feePercent, wallet); err != nil {
		return err
	}
	misc.Infof(App.logger, "fee updated to %d/1000, wallet:%s", feePercent, wallet)
	return App.saveState()
}
