package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/staking"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/token"
)

var logLevel = new(slog.LevelVar) // Info by default

// custodyAddress is the fixed account on the asset contract that holds all
// staked funds - the ledger's identity for balance/allowance purposes.
var custodyAddress = common.HexToAddress("0x00000000000000000000005374616b65506f6f6c")

func initApp() *StakingApp {
	log.SetFlags(0)
	var logger *slog.Logger
	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Output is a tty - we're being run as CLI rather than as a daemon
		logger = slog.New(misc.NewMinimalHandler(os.Stdout,
			misc.MinimalHandlerOptions{SlogOpts: slog.HandlerOptions{Level: logLevel, AddSource: true}}))
	} else {
		// not on console - output json, with key names compatible w/ what
		// google logging expects
		opts := &slog.HandlerOptions{
			AddSource: true,
			Level:     logLevel,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.MessageKey {
					a.Key = "message"
				} else if a.Key == slog.LevelKey && len(groups) == 0 {
					a.Key = "severity"
				}
				return a
			},
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)
	if os.Getenv("DEBUG") == "1" {
		logLevel.Set(slog.LevelDebug)
	}

	misc.LoadEnvSettings()

	// We initialize our wrapper instance first, so we can call its methods in
	// the 'Before' lambda func in initialization of cli App instance.
	appConfig := &StakingApp{logger: logger}

	appConfig.cliCmd = &cli.Command{
		Name:    "stakingledger",
		Usage:   "Configuration tool and background daemon for NFT-gated staking pools",
		Version: misc.GetVersionInfo(),
		Before: func(ctx context.Context, cmd *cli.Command) error {
			return appConfig.initLedger(ctx, cmd)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "envfile",
				Usage:   "env file to load",
				Sources: cli.EnvVars("STAKING_ENVFILE"),
				Aliases: []string{"e"},
			},
			&cli.StringFlag{
				Name:        "statefile",
				Usage:       "Path of the json state file holding ledger and token state",
				Sources:     cli.EnvVars("STAKING_STATEFILE"),
				Destination: &appConfig.stateFile,
				OnlyOnce:    true,
			},
			&cli.StringFlag{
				Name:        "admin",
				Usage:       "Address of the ledger administrator. Only needed when creating a fresh state file.",
				Sources:     cli.EnvVars("STAKING_ADMIN"),
				Destination: &appConfig.adminAddr,
				OnlyOnce:    true,
			},
		},
		Commands: []*cli.Command{
			GetDaemonCmdOpts(),
			GetPoolCmdOpts(),
			GetStakeCmdOpts(),
			GetAssetCmdOpts(),
			GetFeeCmdOpts(),
		},
	}
	return appConfig
}

type StakingApp struct {
	cliCmd *cli.Command
	logger *slog.Logger
	asset  *token.Asset
	nft    *token.Ownership
	ledger *staking.Ledger

	// just here for flag bootstrapping destination
	stateFile string
	adminAddr string
}

// initLedger wires the in-process token collaborators and the ledger itself,
// restoring all three from the state file when one exists.  A fresh state
// needs -admin so the single administrative principal is bound from the
// start.
func (ac *StakingApp) initLedger(ctx context.Context, cmd *cli.Command) error {
	if envfile := cmd.String("envfile"); envfile != "" {
		if err := misc.LoadEnvFile(ac.logger, envfile); err != nil {
			return err
		}
	}
	if ac.stateFile == "" {
		fname, err := DefaultStateFilename()
		if err != nil {
			return err
		}
		ac.stateFile = fname
	}

	ac.asset = token.NewAsset("STK")
	ac.nft = token.NewOwnership()

	state, err := LoadAppState(ac.stateFile)
	switch {
	case err == nil:
		ac.ledger = staking.New(ac.logger, ac.asset, ac.nft, custodyAddress, state.Ledger.Admin)
		ac.asset.Restore(state.Asset)
		ac.nft.Restore(state.Ownership)
		ac.ledger.Restore(state.Ledger)
		misc.Debugf(ac.logger, "state restored from %s", ac.stateFile)
	case os.IsNotExist(err):
		if ac.adminAddr == "" {
			return fmt.Errorf("no state at %s - pass -admin to initialize a new ledger", ac.stateFile)
		}
		admin, err := parseAddress(ac.adminAddr)
		if err != nil {
			return err
		}
		ac.ledger = staking.New(ac.logger, ac.asset, ac.nft, custodyAddress, admin)
		misc.Infof(ac.logger, "initialized new ledger state, admin:%s", admin)
	default:
		return fmt.Errorf("loading state from %s: %w", ac.stateFile, err)
	}
	return nil
}

// saveState persists ledger and token state - called after every mutating
// command so the CLI behaves like durable chain state.
func (ac *StakingApp) saveState() error {
	return SaveAppState(ac.stateFile, &AppState{
		Ledger:    ac.ledger.Snapshot(),
		Asset:     ac.asset.Snapshot(),
		Ownership: ac.nft.Snapshot(),
	})
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address:%s", s)
	}
	return common.HexToAddress(s), nil
}
