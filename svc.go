package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

func GetDaemonCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "daemon",
		Aliases: []string{"d"},
		Usage:   "Run the ledger as a daemon, serving metrics and snapshotting state",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    "port",
				Usage:   "Port to expose prometheus metrics on",
				Value:   9660,
				Sources: cli.EnvVars("STAKING_METRICS_PORT"),
			},
		},
		Action: runAsDaemon,
	}
}

func runAsDaemon(ctx context.Context, command *cli.Command) error {
	var wg sync.WaitGroup

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop.
	errc := make(chan error)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	listenAddr := fmt.Sprintf(":%d", command.Value("port").(uint64))
	go func() {
		misc.Infof(App.logger, "serving metrics on %s/metrics", listenAddr)
		errc <- http.ListenAndServe(listenAddr, mux)
	}()

	ctx, cancel := context.WithCancel(context.Background())

	newDaemon().start(ctx, &wg)

	misc.Infof(App.logger, "exiting (%v)", <-errc) // wait for termination signal

	cancel()
	misc.Infof(App.logger, "waiting on background tasks..")
	wg.Wait()

	misc.Infof(App.logger, "exited")
	return nil
}
