package engine

import (
	"context"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockStore persists ledger blocks. InsertBlock must fail with model.ErrIndexConflict
	// when a block with the same index already exists.
	BlockStore interface {
		LastBlock(ctx context.Context) (model.Block, bool, error)
		InsertBlock(ctx context.Context, block model.Block) error
		ListBlocks(ctx context.Context, filter model.BlockFilter) ([]model.Block, int64, error)
		BlocksRange(ctx context.Context, from, to int64) ([]model.Block, error)
	}
	Metrics interface {
		ObserveAppend(txType model.TxType, index int64, err error, started time.Time)
		ObserveConflict()
		ObserveList(filtered bool, err error)
		ObserveVerify(report model.VerifyReport, err error, started time.Time)
	}
)
