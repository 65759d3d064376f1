// Package mirror copies the ledger chain into the ClickHouse analytics table.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/clock"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/chain"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/fundledger-backend/pkg/batcher"
	"go.uber.org/zap"
)

// ErrChainBroken is returned when a block read from the source fails hash or link checks.
// The mirror stops instead of copying it.
var ErrChainBroken = errors.New("source chain failed integrity checks")

const noFailure = math.MaxInt64

// Service follows the source chain from the sink's last mirrored index and queues verified
// blocks for batched insertion.
type Service struct {
	logger            *zap.Logger
	source            Source
	sink              Sink
	metrics           Metrics
	sleep             func(context.Context, time.Duration) error
	sleepDuration     time.Duration
	idleSleepDuration time.Duration
	batchSize         int64
	flushSize         int
	flushInterval     time.Duration
	flushRPS          int

	queue  Queue
	synced bool
	cursor int64
	prev   *model.Block

	resyncMu   sync.Mutex
	resync     bool
	failedFrom int64
}

// NewService builds a mirror Service. A non-positive batchSize selects the default.
func NewService(source Source, sink Sink, metrics Metrics, logger *zap.Logger, batchSize int64) (*Service, error) {
	if source == nil {
		return nil, errors.New("mirror source is required")
	}
	if sink == nil {
		return nil, errors.New("mirror sink is required")
	}
	if metrics == nil {
		return nil, errors.New("mirror metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Service{
		logger:            logger,
		source:            source,
		sink:              sink,
		metrics:           metrics,
		sleep:             clock.SleepWithContext,
		sleepDuration:     sleepDuration,
		idleSleepDuration: idleSleepDuration,
		batchSize:         batchSize,
		flushSize:         batcherFlushSize,
		flushInterval:     batcherFlushInterval,
		flushRPS:          batcherFlushRPS,
		failedFrom:        noFailure,
	}, nil
}

// Run mirrors blocks until the context is canceled or the source chain is found broken.
func (s *Service) Run(ctx context.Context) error {
	b := batcher.New[model.Block](
		s.logger.Named("blockBatcher"),
		s.flush,
		s.flushSize,
		s.flushInterval,
		s.flushRPS,
	).OnFlushError(s.flushFailed)
	b.Start(ctx)
	defer b.Stop()
	s.queue = b

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			if errors.Is(err, ErrChainBroken) {
				return err
			}
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.sleepDuration))
			if sleepErr := s.wait(ctx, s.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *Service) run(ctx context.Context) error {
	if err := s.sync(ctx); err != nil {
		return err
	}

	started := time.Now()
	blocks, err := s.fetch(ctx)
	s.metrics.ObserveFetch(err, started)
	if err != nil {
		s.logger.Error("fetch blocks failed", zap.Int64("cursor", s.cursor), zap.Error(err))
		return err
	}

	if len(blocks) == 0 {
		s.logger.Debug("no new blocks; sleeping", zap.Duration("sleep", s.idleSleepDuration))
		return s.wait(ctx, s.idleSleepDuration)
	}

	if err = chain.Segment(s.prev, blocks); err != nil {
		ie, ok := chain.AsIntegrityError(err)
		if !ok {
			return err
		}
		s.metrics.ObserveIntegrityViolation()
		s.logger.Error("source chain integrity violation",
			zap.Int64("index", ie.Index),
			zap.String("reason", ie.Reason),
		)
		return fmt.Errorf("%w: %w", ErrChainBroken, err)
	}

	for _, b := range blocks {
		if err = s.queue.Add(ctx, b); err != nil {
			s.metrics.ObserveProcessBatch(err, len(blocks))
			s.synced = false
			return fmt.Errorf("queue block %d: %w", b.Index, err)
		}
	}
	s.metrics.ObserveProcessBatch(nil, len(blocks))

	last := blocks[len(blocks)-1]
	s.prev = &last
	s.cursor = last.Index + 1
	s.metrics.SetCursor(s.cursor)
	s.logger.Info("queued blocks", zap.Int("blocks", len(blocks)), zap.Int64("cursor", s.cursor))

	if int64(len(blocks)) < s.batchSize {
		return s.wait(ctx, s.sleepDuration)
	}
	return nil
}

// sync positions the cursor after the sink's last block, or at the lowest block of a failed
// flush when that is earlier.
func (s *Service) sync(ctx context.Context) error {
	failedFrom, pending := s.takeResync()
	if s.synced && !pending {
		return nil
	}

	maxIndex, ok, err := s.sink.MaxBlockIndex(ctx)
	if err != nil {
		if pending {
			s.markResync(failedFrom)
		}
		return fmt.Errorf("read mirrored tail: %w", err)
	}

	cursor := int64(0)
	if ok {
		cursor = maxIndex + 1
	}
	if pending {
		if failedFrom < cursor {
			cursor = failedFrom
		}
		s.metrics.ObserveResync()
		s.logger.Warn("resynchronising mirror cursor", zap.Int64("cursor", cursor))
	}

	s.cursor = cursor
	s.prev = nil
	s.synced = true
	s.metrics.SetCursor(cursor)
	return nil
}

func (s *Service) fetch(ctx context.Context) ([]model.Block, error) {
	blocks, err := s.source.BlocksRange(ctx, s.cursor, s.cursor+s.batchSize-1)
	if err != nil {
		return nil, fmt.Errorf("read blocks from %d: %w", s.cursor, err)
	}
	if len(blocks) == 0 || s.prev != nil || s.cursor == 0 {
		return blocks, nil
	}

	prev, err := s.source.BlocksRange(ctx, s.cursor-1, s.cursor-1)
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", s.cursor-1, err)
	}
	if len(prev) > 0 {
		s.prev = &prev[0]
	}
	return blocks, nil
}

func (s *Service) flush(ctx context.Context, blocks []model.Block) error {
	if err := s.sink.InsertBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("mirror blocks %d-%d: %w", blocks[0].Index, blocks[len(blocks)-1].Index, err)
	}
	s.logger.Debug("blocks mirrored",
		zap.Int64("from", blocks[0].Index),
		zap.Int64("to", blocks[len(blocks)-1].Index),
	)
	return nil
}

func (s *Service) flushFailed(blocks []model.Block, _ error) {
	if len(blocks) == 0 {
		return
	}
	s.markResync(blocks[0].Index)
}

func (s *Service) markResync(from int64) {
	s.resyncMu.Lock()
	defer s.resyncMu.Unlock()
	s.resync = true
	if from < s.failedFrom {
		s.failedFrom = from
	}
}

func (s *Service) takeResync() (int64, bool) {
	s.resyncMu.Lock()
	defer s.resyncMu.Unlock()
	from, pending := s.failedFrom, s.resync
	s.resync = false
	s.failedFrom = noFailure
	return from, pending
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	return s.sleep(ctx, d)
}
