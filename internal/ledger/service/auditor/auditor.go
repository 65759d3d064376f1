// Package auditor verifies the whole ledger chain in parallel chunks.
package auditor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/fundledger-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// Auditor splits the chain into chunks and verifies them concurrently. Each chunk is linked to
// the block preceding it, so the chunks together cover every link of the chain.
type Auditor struct {
	chain     ChainReader
	metrics   Metrics
	logger    *zap.Logger
	chunkSize int64
	workers   int
}

// NewAuditor builds an Auditor.
func NewAuditor(chain ChainReader, metrics Metrics, logger *zap.Logger, chunkSize int64, workers int) (*Auditor, error) {
	if chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if metrics == nil {
		return nil, errors.New("auditor metrics is required")
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", workers)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		chain:     chain,
		metrics:   metrics,
		logger:    logger,
		chunkSize: chunkSize,
		workers:   workers,
	}, nil
}

// Audit verifies blocks 0..tail. The report carries the lowest failing index across all chunks;
// Checked counts the blocks that verified before each chunk's first finding.
func (a *Auditor) Audit(ctx context.Context) (report model.VerifyReport, err error) {
	defer func() {
		a.metrics.ObserveAudit(report, err)
	}()

	tail, ok, err := a.chain.Tail(ctx)
	if err != nil {
		return model.VerifyReport{}, fmt.Errorf("read chain tail: %w", err)
	}
	if !ok {
		return model.VerifyReport{Valid: true, TailIndex: -1, FirstInvalidIndex: -1}, nil
	}

	ranges := workerpool.Ranges(0, tail, a.chunkSize)
	a.logger.Info("audit started",
		zap.Int64("tail", tail),
		zap.Int("chunks", len(ranges)),
		zap.Int("workers", a.workers),
	)

	var (
		mu      sync.Mutex
		checked int64
		finding *model.VerifyReport
	)
	err = workerpool.Process(ctx, a.workers, ranges, func(ctx context.Context, r workerpool.Range) error {
		started := time.Now()
		res, err := a.chain.VerifyRange(ctx, r.From, r.To)
		a.metrics.ObserveChunk(err, res.Valid, started)
		if err != nil {
			return fmt.Errorf("verify blocks %d-%d: %w", r.From, r.To, err)
		}

		mu.Lock()
		defer mu.Unlock()
		checked += res.Checked
		if !res.Valid && (finding == nil || res.FirstInvalidIndex < finding.FirstInvalidIndex) {
			finding = &res
		}
		return nil
	}, func() {
		a.logger.Warn("audit cancelled")
	})
	if err != nil {
		return model.VerifyReport{}, err
	}

	report = model.VerifyReport{Valid: true, Checked: checked, TailIndex: tail, FirstInvalidIndex: -1}
	if finding != nil {
		report.Valid = false
		report.FirstInvalidIndex = finding.FirstInvalidIndex
		report.Reason = finding.Reason
	}

	a.logger.Info("audit finished",
		zap.Bool("valid", report.Valid),
		zap.Int64("checked", report.Checked),
		zap.Int64("first_invalid_index", report.FirstInvalidIndex),
		zap.String("reason", report.Reason),
	)
	return report, nil
}
