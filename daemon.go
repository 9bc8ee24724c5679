package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mailgun/holster/v4/syncutil"
	"github.com/ssgreg/repeat"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/staking"
)

// Daemon keeps the exported metrics fresh and periodically flushes ledger
// state to the state file, so a crash loses at most one snapshot interval of
// bookkeeping.
type Daemon struct {
	logger *slog.Logger
	ledger *staking.Ledger

	snapshotEvery time.Duration
	refreshEvery  time.Duration
}

func newDaemon() *Daemon {
	return &Daemon{
		logger:        App.logger,
		ledger:        App.ledger,
		snapshotEvery: 5 * time.Minute,
		refreshEvery:  1 * time.Minute,
	}
}

func (d *Daemon) start(ctx context.Context, wg *sync.WaitGroup) {
	d.logger.Info("Starting staking ledger daemon")

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.StateWriter(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.MetricsWatcher(ctx)
	}()
}

// StateWriter flushes the full app state on an interval, retrying transient
// write failures with jittered backoff before giving up until the next tick.
func (d *Daemon) StateWriter(ctx context.Context) {
	defer d.logger.Info("Exiting StateWriter")
	d.logger.Info("Starting StateWriter")

	for {
		select {
		case <-ctx.Done():
			// one final flush on shutdown
			if err := d.writeState(); err != nil {
				misc.Errorf(d.logger, "final state flush failed: %v", err)
			}
			return
		case <-time.After(d.snapshotEvery):
			if err := d.writeState(); err != nil {
				misc.Errorf(d.logger, "state flush failed: %v", err)
			}
		}
	}
}

func (d *Daemon) writeState() error {
	return repeat.Repeat(
		repeat.Fn(func() error {
			if err := App.saveState(); err != nil {
				return repeat.HintTemporary(err)
			}
			return nil
		}),
		repeat.StopOnSuccess(),
		repeat.LimitMaxTries(10),
		repeat.FnOnError(func(err error) error {
			d.logger.Warn("retrying state save", "error", err.Error())
			return err
		}),
		repeat.WithDelay(
			repeat.SetContextHintStop(),
			(&repeat.FullJitterBackoffBuilder{
				BaseDelay: 1 * time.Second,
				MaxDelay:  10 * time.Second,
			}).Set(),
		),
	)
}

// MetricsWatcher refreshes the exported gauges, fanning the per-pool accrual
// sweep out across workers since each pool's sweep is independent.
func (d *Daemon) MetricsWatcher(ctx context.Context) {
	defer d.logger.Info("Exiting MetricsWatcher")
	d.logger.Info("Starting MetricsWatcher")

	d.refreshMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.refreshEvery):
			d.refreshMetrics()
		}
	}
}

func (d *Daemon) refreshMetrics() {
	d.ledger.RefreshMetrics()

	fanOut := syncutil.NewFanOut(8)
	for poolID := uint64(0); poolID < d.ledger.PoolLength(); poolID++ {
		fanOut.Run(func(val any) error {
			id := val.(uint64)
			if _, err := d.ledger.PoolAccruedRewards(id); err != nil {
				misc.Warnf(d.logger, "accrual sweep for pool:%d failed: %v", id, err)
			}
			return nil
		}, poolID)
	}
	fanOut.Wait()
}
