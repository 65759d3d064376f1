package mirror

import (
	"context"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Source is the primary block store the mirror follows.
	Source interface {
		BlocksRange(ctx context.Context, from, to int64) ([]model.Block, error)
	}
	// Sink is the analytics store blocks are copied into.
	Sink interface {
		MaxBlockIndex(ctx context.Context) (int64, bool, error)
		InsertBlocks(ctx context.Context, blocks []model.Block) error
	}
	Metrics interface {
		ObserveFetch(err error, started time.Time)
		ObserveProcessBatch(err error, blocks int)
		SetCursor(index int64)
		ObserveIntegrityViolation()
		ObserveResync()
	}
	// Queue buffers verified blocks until they are flushed to the sink.
	Queue interface {
		Add(ctx context.Context, block model.Block) error
	}
)
