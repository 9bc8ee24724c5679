package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

func GetStakeCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "stake",
		Aliases: []string{"s"},
		Usage:   "Stake, claim and unstake against the ledger",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Stake into a pool. The ledger must already be approved on the asset for the amount",
				Action: StakeAdd,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "The staker account", Required: true},
					&cli.UintFlag{Name: "pool", Usage: "Pool ID to stake into", Required: true},
					&cli.UintFlag{Name: "amount", Usage: "Amount of base units to stake", Required: true},
				},
			},
			{
				Name:   "claim",
				Usage:  "Claim accrued reward on a position. Caller must hold the position token",
				Action: StakeClaim,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "The account claiming - current holder of the position token", Required: true},
					&cli.UintFlag{Name: "pool", Usage: "Pool ID", Required: true},
					&cli.UintFlag{Name: "position", Usage: "Position token ID", Required: true},
				},
			},
			{
				Name:   "remove",
				Usage:  "Unstake principal (flushes accrued reward first)",
				Action: StakeRemove,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "The account unstaking - current holder of the position token", Required: true},
					&cli.UintFlag{Name: "pool", Usage: "Pool ID", Required: true},
					&cli.UintFlag{Name: "position", Usage: "Position token ID", Required: true},
					&cli.UintFlag{Name: "amount", Usage: "Amount of principal to withdraw", Required: true},
				},
			},
			{
				Name:   "payout",
				Usage:  "Show the accrued-but-unpaid reward for a position (read-only)",
				Action: StakePayout,
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "pool", Usage: "Pool ID", Required: true},
					&cli.StringFlag{Name: "holder", Usage: "Position holder (minter) address", Required: true},
				},
			},
			{
				Name:   "position",
				Usage:  "Show the position record for (pool, holder)",
				Action: StakePosition,
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "pool", Usage: "Pool ID", Required: true},
					&cli.StringFlag{Name: "holder", Usage: "Position holder (minter) address", Required: true},
				},
			},
			{
				Name:   "minter",
				Usage:  "Resolve a position token ID to the address whose stake minted it",
				Action: StakeMinter,
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "position", Usage: "Position token ID", Required: true},
				},
			},
			{
				Name:   "transfer",
				Usage:  "Transfer a position token to another holder. Moves the right to claim, not the position accounting",
				Action: StakeTransfer,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Current holder", Required: true},
					&cli.StringFlag{Name: "to", Usage: "New holder", Required: true},
					&cli.UintFlag{Name: "position", Usage: "Position token ID", Required: true},
				},
			},
		},
	}
}

func StakeAdd(ctx context.Context, command *cli.Command) error {
	staker, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	poolID := command.Value("pool").(uint64)
	amount := command.Value("amount").(uint64)
	if err := App.ledger.Stake(staker, poolID, amount); err != nil {
		return err
	}
	pos, _ := App.ledger.GetPosition(poolID, staker)
	misc.Infof(App.logger, "stake added into pool:%d, position token:%d", poolID, pos.PositionID)
	return App.saveState()
}

func StakeClaim(ctx context.Context, command *cli.Command) error {
	caller, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	if err := App.ledger.Claim(caller, command.Value("pool").(uint64), command.Value("position").(uint64)); err != nil {
		return err
	}
	return App.saveState()
}

func StakeRemove(ctx context.Context, command *cli.Command) error {
	caller, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	err = App.ledger.UnStake(caller, command.Value("pool").(uint64),
		command.Value("amount").(uint64), command.Value("position").(uint64))
	if err != nil {
		return err
	}
	return App.saveState()
}

func StakePayout(ctx context.Context, command *cli.Command) error {
	holder, err := parseAddress(command.String("holder"))
	if err != nil {
		return err
	}
	poolID := command.Value("pool").(uint64)
	accrued, err := App.ledger.Payout(poolID, holder)
	if err != nil {
		return err
	}
	claimable, err := App.ledger.CanClaim(poolID, holder)
	if err != nil {
		return err
	}
	fmt.Printf("accrued:%d claimable:%v\n", accrued, claimable)
	return nil
}

func StakePosition(ctx context.Context, command *cli.Command) error {
	holder, err := parseAddress(command.String("holder"))
	if err != nil {
		return err
	}
	poolID := command.Value("pool").(uint64)
	pos, ok := App.ledger.GetPosition(poolID, holder)
	if !ok {
		return fmt.Errorf("no position for holder:%s in pool:%d", holder, poolID)
	}
	fmt.Printf("position:%d invested:%d withdrawn:%d claimed:%d deposited:%s\n",
		pos.PositionID, pos.TotalInvested, pos.TotalWithdrawn, pos.TotalClaimed,
		time.Unix(pos.DepositTime, 0).UTC().Format(time.RFC3339))
	return nil
}

func StakeMinter(ctx context.Context, command *cli.Command) error {
	id := command.Value("position").(uint64)
	minter, ok := App.ledger.MinterOf(id)
	if !ok {
		return fmt.Errorf("unknown position token:%d", id)
	}
	fmt.Printf("minter:%s (of %d minted)\n", minter, App.ledger.TokensMinted())
	return nil
}

func StakeTransfer(ctx context.Context, command *cli.Command) error {
	from, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	to, err := parseAddress(command.String("to"))
	if err != nil {
		return err
	}
	if err := App.nft.Transfer(from, to, command.Value("position").(uint64)); err != nil {
		return err
	}
	return App.saveState()
}
