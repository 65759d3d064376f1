package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/repository"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/service/auditor"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/service/engine"
	"github.com/goodnatureofminers/fundledger-backend/internal/metrics"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

// exitChainBroken is the exit status when the audit finds an integrity violation.
const exitChainBroken = 2

type config struct {
	ChunkSize int64             `long:"chunk-size" env:"LEDGER_AUDIT_CHUNK_SIZE" description:"blocks verified per worker task" default:"10000"`
	Workers   int               `long:"workers" env:"LEDGER_AUDIT_WORKERS" description:"concurrent chunk verifications" default:"8"`
	Store     repository.Config `group:"Primary store"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	valid, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("ledger audit failed", zap.Error(err))
	}
	if !valid {
		_ = logger.Sync()
		stop()
		os.Exit(exitChainBroken)
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (bool, error) {
	store, closeStore, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	ledger, err := engine.NewEngine(store, metrics.NewLedgerEngine(), logger.Named("engine"))
	if err != nil {
		return false, fmt.Errorf("init ledger engine: %w", err)
	}
	a, err := auditor.NewAuditor(ledger, metrics.NewAuditor(), logger.Named("auditor"), cfg.ChunkSize, cfg.Workers)
	if err != nil {
		return false, err
	}

	report, err := a.Audit(ctx)
	if err != nil {
		return false, err
	}
	if !report.Valid {
		logger.Error("ledger chain is broken",
			zap.Int64("first_invalid_index", report.FirstInvalidIndex),
			zap.String("reason", report.Reason),
			zap.Int64("tail", report.TailIndex),
		)
	}
	return report.Valid, nil
}
