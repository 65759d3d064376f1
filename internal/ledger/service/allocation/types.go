package allocation

import (
	"context"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Ledger appends audit blocks for allocation transitions.
	Ledger interface {
		Append(ctx context.Context, txType model.TxType, allocationID string, payload model.Payload, signerUserID string) (model.Block, error)
	}
	// Store persists allocation records.
	Store interface {
		InsertAllocation(ctx context.Context, a model.Allocation) error
		GetAllocation(ctx context.Context, id string) (model.Allocation, error)
		// UpdateAllocation writes a when the stored version equals expected, else it
		// returns model.ErrVersionConflict.
		UpdateAllocation(ctx context.Context, a model.Allocation, expected int64) error
		DeleteAllocation(ctx context.Context, id string) error
		ListAllocations(ctx context.Context, page, pageSize int64) ([]model.Allocation, int64, error)
	}
	Metrics interface {
		ObserveMutation(txType model.TxType, err error, started time.Time)
		ObserveCompensation(err error)
	}
)
