// Command ledgerctl operates the crowdfunding custody ledger stored in PostgreSQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"crowdfund/internal/adapter/repo"
	"crowdfund/internal/infra"
	"crowdfund/internal/ledger"
	"crowdfund/internal/sqlinline"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "ledgerctl").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		exitWithError(err)
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	app := &cli{
		journal: repo.NewJournalRepository(runner),
		migrate: func(ctx context.Context) error { return runner.Migrate(ctx, sqlinline.Schema...) },
		clock:   ledger.SystemClock,
		logger:  logger,
		out:     os.Stdout,
	}

	opCtx, cancel := context.WithTimeout(ctx, cfg.OpTimeout)
	err = app.run(opCtx, os.Args[1], os.Args[2:])
	cancel()
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usageText)
		}
		logger.Debug().Err(err).Str("command", os.Args[1]).Msg("command failed")
		pool.Close()
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
