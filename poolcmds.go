package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/staking"
)

func GetPoolCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "pool",
		Aliases: []string{"p"},
		Usage:   "Add/Configure reward pools on this ledger",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List all pools",
				Action:  PoolsList,
			},
			{
				Name:   "ledger",
				Usage:  "List every position in a specific pool",
				Action: PoolLedger,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:     "pool",
						Usage:    "Pool ID (the number in 'pool list')",
						Required: true,
					},
				},
			},
			{
				Name:    "add",
				Aliases: []string{"a"},
				Usage:   "Add a new reward pool (admin only)",
				Action:  PoolAdd,
				Flags:   append(poolParamFlags(), &cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Prompt for each pool parameter"}, adminFromFlag()),
			},
			{
				Name:   "set",
				Usage:  "Overwrite the parameters of an existing pool (admin only)",
				Action: PoolSet,
				Flags: append(poolParamFlags(),
					&cli.UintFlag{Name: "pool", Usage: "Pool ID to update", Required: true},
					adminFromFlag()),
			},
		},
	}
}

func adminFromFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "from",
		Usage:    "Address performing this call - must be the ledger admin",
		Sources:  cli.EnvVars("STAKING_ADMIN"),
		Required: true,
	}
}

func poolParamFlags() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{Name: "apy", Usage: "Yield rate, percent x10 (120 = 12%)"},
		&cli.UintFlag{Name: "lockdays", Usage: "Lock period in days"},
		&cli.StringFlag{Name: "end", Usage: "Pool end date, RFC3339 (2025-12-31T00:00:00Z)"},
		&cli.UintFlag{Name: "min", Usage: "Minimum contribution per stake"},
		&cli.UintFlag{Name: "max", Usage: "Maximum cumulative contribution per holder"},
		&cli.UintFlag{Name: "hardcap", Usage: "Maximum total deposit the pool accepts"},
	}
}

func poolParamsFromFlags(command *cli.Command) (staking.PoolParams, error) {
	var params staking.PoolParams
	end, err := time.Parse(time.RFC3339, command.String("end"))
	if err != nil {
		return params, fmt.Errorf("invalid -end date: %w", err)
	}
	params = staking.PoolParams{
		Apy:            command.Value("apy").(uint64),
		LockPeriodDays: command.Value("lockdays").(uint64),
		EndDate:        end.Unix(),
		MinContrib:     command.Value("min").(uint64),
		MaxContrib:     command.Value("max").(uint64),
		HardCap:        command.Value("hardcap").(uint64),
	}
	return params, nil
}

// poolParamsInteractive walks the administrator through each pool parameter.
func poolParamsInteractive() (staking.PoolParams, error) {
	var params staking.PoolParams
	apy, err := getUint("Enter the pool APY as percent x10 (120 = 12%)", 120, 1, 100_000)
	if err != nil {
		return params, err
	}
	lockDays, err := getUint("Enter the lock period (in days)", 30, 1, 3650)
	if err != nil {
		return params, err
	}
	runDays, err := getUint("Enter how many days the pool should run", 90, int(lockDays), 3650)
	if err != nil {
		return params, err
	}
	minContrib, err := getUint("Enter the minimum contribution per stake", 1, 1, 1<<62)
	if err != nil {
		return params, err
	}
	maxContrib, err := getUint("Enter the maximum cumulative contribution per holder", int(minContrib), int(minContrib), 1<<62)
	if err != nil {
		return params, err
	}
	hardCap, err := getUint("Enter the pool hardcap", int(maxContrib), int(maxContrib), 1<<62)
	if err != nil {
		return params, err
	}
	params = staking.PoolParams{
		Apy:            apy,
		LockPeriodDays: lockDays,
		EndDate:        time.Now().AddDate(0, 0, int(runDays)).Unix(),
		MinContrib:     minContrib,
		MaxContrib:     maxContrib,
		HardCap:        hardCap,
	}
	return params, nil
}

func PoolAdd(ctx context.Context, command *cli.Command) error {
	admin, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	var params staking.PoolParams
	if command.Bool("interactive") {
		params, err = poolParamsInteractive()
	} else {
		params, err = poolParamsFromFlags(command)
	}
	if err != nil {
		return err
	}
	id, err := App.ledger.AddPool(admin, params)
	if err != nil {
		return err
	}
	misc.Infof(App.logger, "added new pool, id:%d", id)
	return App.saveState()
}

func PoolSet(ctx context.Context, command *cli.Command) error {
	admin, err := parseAddress(command.String("from"))
	if err != nil {
		return err
	}
	params, err := poolParamsFromFlags(command)
	if err != nil {
		return err
	}
	if err := App.ledger.SetPool(admin, command.Value("pool").(uint64), params); err != nil {
		return err
	}
	return App.saveState()
}

func PoolsList(ctx context.Context, command *cli.Command) error {
	pools := App.ledger.GetPools()

	out := new(strings.Builder)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tAPY %\tLock (d)\tStart\tEnd\tStaked\tHardcap\tMin\tMax\t")
	for id, pool := range pools {
		fmt.Fprintf(tw, "%d\t%.1f\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t\n", id,
			float64(pool.Apy)/10.0, pool.LockPeriodDays,
			time.Unix(pool.StartDate, 0).UTC().Format(time.DateOnly),
			time.Unix(pool.EndDate, 0).UTC().Format(time.DateOnly),
			pool.TotalDeposit, pool.HardCap, pool.MinContrib, pool.MaxContrib)
	}
	tw.Flush()
	fmt.Print(out.String())
	return nil
}

func PoolLedger(ctx context.Context, command *cli.Command) error {
	poolID := command.Value("pool").(uint64)
	if poolID >= App.ledger.PoolLength() {
		return fmt.Errorf("invalid pool ID")
	}

	out := new(strings.Builder)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Position\tHolder\tInvested\tWithdrawn\tClaimed\tAccrued\tDeposit Time\t")
	var totalAccrued uint64
	for _, rec := range App.ledger.PoolPositions(poolID) {
		accrued, err := App.ledger.Payout(poolID, rec.Holder)
		if err != nil {
			return err
		}
		totalAccrued += accrued
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\t\n", rec.PositionID, rec.Holder,
			rec.TotalInvested, rec.TotalWithdrawn, rec.TotalClaimed, accrued,
			time.Unix(rec.DepositTime, 0).UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "Accrued Reward Total: %d\t\n", totalAccrued)
	tw.Flush()
	fmt.Print(out.String())
	return nil
}

func getUint(prompt string, defVal int, minVal int, maxVal int) (uint64, error) {
	validate := func(input string) error {
		value, err := strconv.Atoi(input)
		if err != nil {
			return err
		}
		if value < minVal || value > maxVal {
			return fmt.Errorf("value must be between %d and %d", minVal, maxVal)
		}
		return nil
	}
	result, err := (&promptui.Prompt{
		Label:    prompt,
		Default:  strconv.Itoa(defVal),
		Validate: validate,
	}).Run()
	if err != nil {
		return 0, err
	}
	value, _ := strconv.ParseUint(result, 10, 64)
	return value, nil
}
