// Package engine implements the append-only, hash-chained allocation ledger.
package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/clock"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/chain"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"go.uber.org/zap"
)

// Engine appends blocks to the chain and serves reads over it.
// Appends are serialized in-process; the store's index uniqueness covers other processes.
type Engine struct {
	store          BlockStore
	metrics        Metrics
	logger         *zap.Logger
	now            func() time.Time
	sleep          func(context.Context, time.Duration) error
	maxRetries     int
	verifyPageSize int64

	mu sync.Mutex
}

// NewEngine builds an Engine over the given store.
func NewEngine(store BlockStore, metrics Metrics, logger *zap.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("ledger block store is required")
	}
	if metrics == nil {
		return nil, errors.New("ledger engine metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:          store,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
		sleep:          clock.SleepWithContext,
		maxRetries:     defaultMaxAppendRetries,
		verifyPageSize: defaultVerifyPageSize,
	}, nil
}

// Append records one allocation transition as the next block of the chain.
func (e *Engine) Append(
	ctx context.Context,
	txType model.TxType,
	allocationID string,
	payload model.Payload,
	signerUserID string,
) (block model.Block, err error) {
	started := time.Now()
	defer func() {
		e.metrics.ObserveAppend(txType, block.Index, err, started)
	}()

	if err = validateAppend(txType, allocationID, payload, signerUserID); err != nil {
		return model.Block{}, err
	}
	payload = maps.Clone(payload)

	e.mu.Lock()
	defer e.mu.Unlock()

	for attempt := 1; ; attempt++ {
		if err = ctx.Err(); err != nil {
			return model.Block{}, err
		}

		block, err = e.appendOnce(ctx, txType, allocationID, payload, signerUserID)
		if err == nil {
			e.logger.Debug("block appended",
				zap.Int64("index", block.Index),
				zap.String("tx_type", string(txType)),
				zap.String("allocation_id", allocationID),
				zap.String("hash", block.Hash),
			)
			return block, nil
		}
		if !errors.Is(err, model.ErrIndexConflict) {
			return model.Block{}, err
		}

		e.metrics.ObserveConflict()
		if attempt >= e.maxRetries {
			return model.Block{}, fmt.Errorf("%w after %d attempts: %w", model.ErrRetriesExhausted, attempt, err)
		}
		delay := clock.Backoff(retryBaseDelay, retryMaxDelay, attempt)
		e.logger.Warn("chain race lost, retrying append",
			zap.Int("attempt", attempt),
			zap.Duration("sleep", delay),
			zap.Error(err),
		)
		if err = e.sleep(ctx, delay); err != nil {
			return model.Block{}, err
		}
	}
}

func (e *Engine) appendOnce(
	ctx context.Context,
	txType model.TxType,
	allocationID string,
	payload model.Payload,
	signerUserID string,
) (model.Block, error) {
	tail, ok, err := e.store.LastBlock(ctx)
	if err != nil {
		return model.Block{}, fmt.Errorf("read chain tail: %w", err)
	}

	block := model.Block{
		Index:        0,
		Timestamp:    clock.Millis(e.now()),
		TxType:       txType,
		AllocationID: allocationID,
		Payload:      payload,
		PrevHash:     model.GenesisPrevHash,
		SignerUserID: signerUserID,
	}
	if ok {
		block.Index = tail.Index + 1
		block.PrevHash = tail.Hash
	}

	block.Hash, err = chain.Hash(block)
	if err != nil {
		return model.Block{}, fmt.Errorf("hash block %d: %w", block.Index, err)
	}

	if err = e.store.InsertBlock(ctx, block); err != nil {
		return model.Block{}, fmt.Errorf("insert block %d: %w", block.Index, err)
	}
	return block, nil
}

func validateAppend(txType model.TxType, allocationID string, payload model.Payload, signerUserID string) error {
	if !txType.Valid() {
		return fmt.Errorf("%w: unknown tx type %q", model.ErrInvalidInput, txType)
	}
	if allocationID == "" {
		return fmt.Errorf("%w: allocation id is required", model.ErrInvalidInput)
	}
	if signerUserID == "" {
		return fmt.Errorf("%w: signer user id is required", model.ErrInvalidInput)
	}
	if _, err := chain.Canonical(model.Block{Payload: payload}); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	return nil
}

// List returns one page of blocks, newest first, and the number of blocks matching the filter.
func (e *Engine) List(ctx context.Context, filter model.BlockFilter) (blocks []model.Block, total int64, err error) {
	defer func() {
		e.metrics.ObserveList(filter.AllocationID != "", err)
	}()

	if filter.Page < 1 {
		return nil, 0, fmt.Errorf("%w: page must be >= 1", model.ErrInvalidInput)
	}
	if filter.PageSize < 1 || filter.PageSize > MaxPageSize {
		return nil, 0, fmt.Errorf("%w: page size must be within [1, %d]", model.ErrInvalidInput, MaxPageSize)
	}

	blocks, total, err = e.store.ListBlocks(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}
	if blocks == nil {
		blocks = []model.Block{}
	}
	return blocks, total, nil
}

// Tail returns the index of the last block, or false when the chain is empty.
func (e *Engine) Tail(ctx context.Context) (int64, bool, error) {
	tail, ok, err := e.store.LastBlock(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("read chain tail: %w", err)
	}
	if !ok {
		return -1, false, nil
	}
	return tail.Index, true, nil
}

// Verify checks hashes and links of blocks [from, to]. A negative to means the current tail.
// Integrity violations are reported in the result, not as errors.
func (e *Engine) Verify(ctx context.Context, from, to int64) (report model.VerifyReport, err error) {
	started := time.Now()
	defer func() {
		e.metrics.ObserveVerify(report, err, started)
	}()

	if from < 0 {
		return model.VerifyReport{}, fmt.Errorf("%w: from must be >= 0", model.ErrInvalidInput)
	}

	tail, ok, err := e.Tail(ctx)
	if err != nil {
		return model.VerifyReport{}, err
	}
	if !ok {
		return model.VerifyReport{Valid: true, TailIndex: -1, FirstInvalidIndex: -1}, nil
	}
	if to < 0 || to > tail {
		to = tail
	}
	if from > to {
		return model.VerifyReport{}, fmt.Errorf("%w: from %d is beyond %d", model.ErrInvalidInput, from, to)
	}

	report, err = e.VerifyRange(ctx, from, to)
	if err != nil {
		return model.VerifyReport{}, err
	}
	report.TailIndex = tail
	if !report.Valid {
		e.logger.Warn("chain integrity violation",
			zap.Int64("index", report.FirstInvalidIndex),
			zap.String("reason", report.Reason),
		)
	}
	return report, nil
}

// VerifyRange checks blocks [from, to] page by page, linking the first one to block from-1.
// It expects to be within the chain and does not report metrics.
func (e *Engine) VerifyRange(ctx context.Context, from, to int64) (model.VerifyReport, error) {
	report := model.VerifyReport{Valid: true, TailIndex: to, FirstInvalidIndex: -1}

	var prev *model.Block
	if from > 0 {
		blocks, err := e.store.BlocksRange(ctx, from-1, from-1)
		if err != nil {
			return model.VerifyReport{}, fmt.Errorf("read block %d: %w", from-1, err)
		}
		if len(blocks) == 0 {
			return invalid(report, from-1, "block missing"), nil
		}
		prev = &blocks[0]
	}

	for start := from; start <= to; start += e.verifyPageSize {
		end := start + e.verifyPageSize - 1
		if end > to {
			end = to
		}

		blocks, err := e.store.BlocksRange(ctx, start, end)
		if err != nil {
			return model.VerifyReport{}, fmt.Errorf("read blocks %d-%d: %w", start, end, err)
		}
		if len(blocks) == 0 || blocks[0].Index != start {
			return invalid(report, start, "block missing"), nil
		}

		if err = chain.Segment(prev, blocks); err != nil {
			ie, ok := chain.AsIntegrityError(err)
			if !ok {
				return model.VerifyReport{}, err
			}
			report.Checked += ie.Index - start
			return invalid(report, ie.Index, ie.Reason), nil
		}

		last := blocks[len(blocks)-1]
		report.Checked += int64(len(blocks))
		if last.Index != end {
			return invalid(report, last.Index+1, "block missing"), nil
		}
		prev = &last
	}

	return report, nil
}

func invalid(report model.VerifyReport, index int64, reason string) model.VerifyReport {
	report.Valid = false
	report.FirstInvalidIndex = index
	report.Reason = reason
	return report
}
