// Package allocation mutates allocation records and records every transition on the ledger.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/clock"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxPageSize caps the page size accepted by List.
	MaxPageSize = 500

	compensationTimeout = 10 * time.Second
	maxUpdateAttempts   = 5
)

// Service applies allocation mutations. Each mutation writes the allocation first and then
// appends one block; when the append fails the fields it changed are restored.
// Mutations of one allocation run one at a time within a Service, and stores reject writes
// based on a stale version, so concurrent writers never overwrite each other.
type Service struct {
	store   Store
	ledger  Ledger
	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
	locks   keyLocks
}

// NewService builds a Service.
func NewService(store Store, ledger Ledger, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("allocation store is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if metrics == nil {
		return nil, errors.New("allocation metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Create stores a new pending allocation and records an ALLOCATION block.
func (s *Service) Create(ctx context.Context, signer string, in model.NewAllocation) (change model.AllocationChange, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveMutation(model.TxAllocation, err, started)
	}()

	in.District = strings.TrimSpace(in.District)
	in.Purpose = strings.TrimSpace(in.Purpose)
	switch {
	case signer == "":
		return model.AllocationChange{}, fmt.Errorf("%w: signer is required", model.ErrInvalidInput)
	case in.District == "":
		return model.AllocationChange{}, fmt.Errorf("%w: district is required", model.ErrInvalidInput)
	case in.Purpose == "":
		return model.AllocationChange{}, fmt.Errorf("%w: purpose is required", model.ErrInvalidInput)
	case in.Amount <= 0:
		return model.AllocationChange{}, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}

	now := clock.Millis(s.now())
	a := model.Allocation{
		ID:        s.newID(),
		District:  in.District,
		Amount:    in.Amount,
		Purpose:   in.Purpose,
		Status:    model.AllocationPending,
		Version:   1,
		CreatedBy: signer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.store.InsertAllocation(ctx, a); err != nil {
		return model.AllocationChange{}, fmt.Errorf("store allocation: %w", err)
	}

	payload := model.Payload{
		"district": a.District,
		"amount":   a.Amount,
		"purpose":  a.Purpose,
		"status":   string(a.Status),
	}
	block, err := s.ledger.Append(ctx, model.TxAllocation, a.ID, payload, signer)
	if err != nil {
		s.compensate(ctx, a.ID, model.TxAllocation, func(ctx context.Context) error {
			return s.store.DeleteAllocation(ctx, a.ID)
		})
		return model.AllocationChange{}, fmt.Errorf("record allocation %s: %w", a.ID, err)
	}

	return model.AllocationChange{Allocation: a, Block: block}, nil
}

// ChangeStatus sets the approval status.
func (s *Service) ChangeStatus(ctx context.Context, signer, id string, status model.AllocationStatus) (model.AllocationChange, error) {
	return s.mutate(ctx, signer, id, model.TxStatusChange, func(a *model.Allocation) (model.Payload, error) {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", model.ErrInvalidInput, status)
		}
		a.Status = status
		return model.Payload{"status": string(status)}, nil
	})
}

// MarkReceived records that the district received the funds.
func (s *Service) MarkReceived(ctx context.Context, signer, id string) (model.AllocationChange, error) {
	return s.mutate(ctx, signer, id, model.TxReceived, func(a *model.Allocation) (model.Payload, error) {
		a.Received = true
		return model.Payload{"received": true}, nil
	})
}

// AssignBlock assigns the funds to an administrative block.
func (s *Service) AssignBlock(ctx context.Context, signer, id, blockName string) (model.AllocationChange, error) {
	return s.mutate(ctx, signer, id, model.TxAssignedBlock, func(a *model.Allocation) (model.Payload, error) {
		blockName = strings.TrimSpace(blockName)
		if blockName == "" {
			return nil, fmt.Errorf("%w: block name is required", model.ErrInvalidInput)
		}
		a.BlockName = blockName
		return model.Payload{"blockName": blockName}, nil
	})
}

// AssignSchool assigns the funds to a school.
func (s *Service) AssignSchool(ctx context.Context, signer, id, schoolName string) (model.AllocationChange, error) {
	return s.mutate(ctx, signer, id, model.TxAssignedSchool, func(a *model.Allocation) (model.Payload, error) {
		schoolName = strings.TrimSpace(schoolName)
		if schoolName == "" {
			return nil, fmt.Errorf("%w: school name is required", model.ErrInvalidInput)
		}
		a.SchoolName = schoolName
		return model.Payload{"schoolName": schoolName}, nil
	})
}

// MarkUtilized records utilization of amount, which cannot exceed the allocated amount.
func (s *Service) MarkUtilized(ctx context.Context, signer, id string, amount int64) (model.AllocationChange, error) {
	return s.mutate(ctx, signer, id, model.TxUtilized, func(a *model.Allocation) (model.Payload, error) {
		if amount <= 0 {
			return nil, fmt.Errorf("%w: utilized amount must be positive", model.ErrInvalidInput)
		}
		if amount > a.Amount {
			return nil, fmt.Errorf("%w: utilized amount %d exceeds allocated %d", model.ErrInvalidInput, amount, a.Amount)
		}
		a.Utilized = true
		a.UtilizedAmount = amount
		return model.Payload{"utilized": true, "utilizedAmount": amount}, nil
	})
}

// List returns a page of allocations, newest first.
func (s *Service) List(ctx context.Context, page, pageSize int64) ([]model.Allocation, int64, error) {
	if page < 1 {
		return nil, 0, fmt.Errorf("%w: page must be >= 1", model.ErrInvalidInput)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, 0, fmt.Errorf("%w: page size must be within [1, %d]", model.ErrInvalidInput, MaxPageSize)
	}
	rows, total, err := s.store.ListAllocations(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list allocations: %w", err)
	}
	return rows, total, nil
}

func (s *Service) mutate(
	ctx context.Context,
	signer, id string,
	txType model.TxType,
	apply func(a *model.Allocation) (model.Payload, error),
) (change model.AllocationChange, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveMutation(txType, err, started)
	}()

	if signer == "" {
		return model.AllocationChange{}, fmt.Errorf("%w: signer is required", model.ErrInvalidInput)
	}
	if id == "" {
		return model.AllocationChange{}, fmt.Errorf("%w: allocation id is required", model.ErrInvalidInput)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	prev, next, payload, err := s.update(ctx, id, apply)
	if err != nil {
		return model.AllocationChange{}, err
	}

	block, err := s.ledger.Append(ctx, txType, id, payload, signer)
	if err != nil {
		s.compensate(ctx, id, txType, func(ctx context.Context) error {
			return s.revert(ctx, prev, next)
		})
		return model.AllocationChange{}, fmt.Errorf("record %s for allocation %s: %w", txType, id, err)
	}

	return model.AllocationChange{Allocation: next, Block: block}, nil
}

// update applies apply to the stored allocation and writes the result, starting over from a
// fresh read when another writer changed the allocation in between.
func (s *Service) update(
	ctx context.Context,
	id string,
	apply func(a *model.Allocation) (model.Payload, error),
) (prev, next model.Allocation, payload model.Payload, err error) {
	for attempt := 1; ; attempt++ {
		prev, err = s.store.GetAllocation(ctx, id)
		if err != nil {
			return prev, next, nil, fmt.Errorf("load allocation: %w", err)
		}

		next = prev
		if payload, err = apply(&next); err != nil {
			return prev, next, nil, err
		}
		next.Version = prev.Version + 1
		next.UpdatedAt = clock.Millis(s.now())

		err = s.store.UpdateAllocation(ctx, next, prev.Version)
		switch {
		case err == nil:
			return prev, next, payload, nil
		case !errors.Is(err, model.ErrVersionConflict):
			return prev, next, nil, fmt.Errorf("store allocation: %w", err)
		case attempt >= maxUpdateAttempts:
			return prev, next, nil, fmt.Errorf("store allocation: %w: %w", model.ErrRetriesExhausted, err)
		}
		s.logger.Debug("allocation changed concurrently, retrying",
			zap.String("allocation_id", id),
			zap.Int("attempt", attempt),
		)
	}
}

// revert restores the fields next changed relative to prev, unless a later writer already
// replaced them.
func (s *Service) revert(ctx context.Context, prev, next model.Allocation) error {
	for attempt := 1; ; attempt++ {
		cur, err := s.store.GetAllocation(ctx, next.ID)
		if err != nil {
			return err
		}
		restored, changed := model.Revert(cur, prev, next)
		if !changed {
			return nil
		}
		restored.Version = cur.Version + 1
		restored.UpdatedAt = clock.Millis(s.now())

		err = s.store.UpdateAllocation(ctx, restored, cur.Version)
		if err == nil || !errors.Is(err, model.ErrVersionConflict) || attempt >= maxUpdateAttempts {
			return err
		}
	}
}

// compensate undoes an allocation write whose block could not be appended. It runs even when
// ctx is already cancelled.
func (s *Service) compensate(ctx context.Context, id string, txType model.TxType, undo func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	err := undo(ctx)
	s.metrics.ObserveCompensation(err)
	if err != nil {
		s.logger.Error("allocation left without audit block",
			zap.String("allocation_id", id),
			zap.String("tx_type", string(txType)),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("allocation change reverted after failed append",
		zap.String("allocation_id", id),
		zap.String("tx_type", string(txType)),
	)
}
