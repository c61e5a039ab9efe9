package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ziyasal/pomaitools/internal/pkg/app"
	"github.com/ziyasal/pomaitools/internal/pkg/common"
	"github.com/ziyasal/pomaitools/internal/pkg/metrics"
	"github.com/ziyasal/pomaitools/internal/pkg/soak"
	"github.com/ziyasal/pomaitools/pkg/resp"
)

const (
	defaultGracefulShutdownTimeout = 5 * time.Second
	// tool version
	version = "1.0.0"

	exitWithErr = 1
)

func main() {
	exit, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit = exitWithErr
	}

	os.Exit(exit)
}

func run(args []string, stdout io.Writer) (int, error) {
	config, err := loadConfig(args)
	if err != nil {
		return exitWithErr, fmt.Errorf("couldn't load config: %s", err)
	}

	logger := common.NewZeroLogger(config.app.mode)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(fmt.Sprintf("Starting pomai-soak(v%s) against %s for %s ...",
		version, config.addr(), config.app.duration))

	client, err := resp.Dial(config.addr(), resp.WithLogger(logger))
	if err != nil {
		return exitWithErr, err
	}
	defer client.Close()

	recorder := metrics.NewRecorder()
	driver, err := soak.NewDriver(client,
		soak.WithDuration(config.app.duration),
		soak.WithLogger(logger),
		soak.WithRecorder(recorder),
	)
	if err != nil {
		return exitWithErr, err
	}

	if config.status.addr != "" {
		srv := app.NewServer(config.status.addr, driver,
			app.WithLogger(logger),
			app.WithMetrics(recorder.Handler()),
			app.WithPprof(config.status.pprofEnabled),
			app.WithMode(config.app.mode),
		)

		go func() {
			if err := srv.Run(); err != nil {
				logger.Err("status server stopped", err)
			}
		}()

		defer shutdown(srv, logger)
	}

	summary, err := driver.Run(ctx)
	if err != nil {
		return exitWithErr, err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return exitWithErr, fmt.Errorf("write summary: %w", err)
	}

	return 0, nil
}

func shutdown(srv *app.Server, logger common.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultGracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Err("Failed to shutdown status server gracefully", err)
		return
	}

	logger.Info("Status server closed")
}
