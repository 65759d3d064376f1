package transport

import (
	"context"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Ledger serves block reads and chain verification.
	Ledger interface {
		List(ctx context.Context, filter model.BlockFilter) ([]model.Block, int64, error)
		Verify(ctx context.Context, from, to int64) (model.VerifyReport, error)
	}
	// Allocations applies allocation mutations that are recorded on the ledger.
	Allocations interface {
		Create(ctx context.Context, signer string, in model.NewAllocation) (model.AllocationChange, error)
		ChangeStatus(ctx context.Context, signer, id string, status model.AllocationStatus) (model.AllocationChange, error)
		MarkReceived(ctx context.Context, signer, id string) (model.AllocationChange, error)
		AssignBlock(ctx context.Context, signer, id, blockName string) (model.AllocationChange, error)
		AssignSchool(ctx context.Context, signer, id, schoolName string) (model.AllocationChange, error)
		MarkUtilized(ctx context.Context, signer, id string, amount int64) (model.AllocationChange, error)
		List(ctx context.Context, page, pageSize int64) ([]model.Allocation, int64, error)
	}
	// Pinger reports whether a backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
