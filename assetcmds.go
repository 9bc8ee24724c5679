package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

// Asset commands operate on the in-process staking asset - mostly for
// local/test use since in production the asset is an external contract.
func GetAssetCmdOpts() *cli.Command {
	return &cli.Command{
		Name:  "asset",
		Usage: "Operate on the in-process staking asset (mint/approve/balance)",
		Commands: []*cli.Command{
			{
				Name:   "mint",
				Usage:  "Mint new asset units to an account",
				Action: AssetMint,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "Receiving account", Required: true},
					&cli.UintFlag{Name: "amount", Usage: "Base units to mint", Required: true},
				},
			},
			{
				Name:   "approve",
				Usage:  "Approve the ledger's custody account to pull a stake",
				Action: AssetApprove,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Owner granting the allowance", Required: true},
					&cli.UintFlag{Name: "amount", Usage: "Allowance in base units", Required: true},
				},
			},
			{
				Name:   "balance",
				Usage:  "Show an account's asset balance",
				Action: AssetBalance,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "holder", Usage: "Account to look up", Required: true},
				},
			},
		},
	}
}

func AssetMint(ctx context.Context, command *cli.Command) error {
	to, err := parseAddress(command.String("to"))
	if err != nil {
		return err
	}
	amount := command.Value("amount").(uint64)
	if err := App.asset.Mint(to, amount); err != nil {
		return err
	}
	misc.Infof(App.logger, "minted %d %s to %s", amount, App.asset.Symbol(), to)
	return App.saveState()
}

func AssetApprove(ctx context.Context, command *cli.Command) error {
	from, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	amount := command.Value("amount").(uint64)
	if err := App.asset.Approve(from, App.ledger.CustodyAddress(), amount); err != nil {
		return err
	}
	return App.saveState()
}

func AssetBalance(ctx context.Context, command *cli.Command) error {
	holder, err := parseAddress(command.String("holder"))
	if err != nil {
		return err
	}
	fmt.Printf("balance:%d %s\n", App.asset.BalanceOf(holder), App.asset.Symbol())
	return nil
}
