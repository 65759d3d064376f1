// Package memory provides in-process ledger and allocation stores for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Store keeps the chain and allocations in memory. It enforces index uniqueness like the
// persistent stores do.
type Store struct {
	metrics Metrics

	mu          sync.RWMutex
	blocks      []model.Block
	allocations map[string]model.Allocation
}

// NewStore creates an empty Store.
func NewStore(metrics Metrics) *Store {
	return &Store{
		metrics:     metrics,
		allocations: make(map[string]model.Allocation),
	}
}

// Ping always succeeds unless ctx is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// LastBlock returns the block with the highest index.
func (s *Store) LastBlock(ctx context.Context) (block model.Block, ok bool, err error) {
	defer s.observe("last_block", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return model.Block{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.blocks) == 0 {
		return model.Block{}, false, nil
	}
	return s.blocks[len(s.blocks)-1], true, nil
}

// InsertBlock appends block, which must carry the next free index.
func (s *Store) InsertBlock(ctx context.Context, block model.Block) (err error) {
	defer s.observe("insert_block", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := int64(len(s.blocks))
	switch {
	case block.Index < next:
		return fmt.Errorf("insert block %d: %w", block.Index, model.ErrIndexConflict)
	case block.Index > next:
		return fmt.Errorf("insert block %d: next free index is %d", block.Index, next)
	}
	s.blocks = append(s.blocks, block)
	return nil
}

// ListBlocks returns a page of matching blocks, newest first.
func (s *Store) ListBlocks(ctx context.Context, filter model.BlockFilter) (blocks []model.Block, total int64, err error) {
	defer s.observe("list_blocks", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	offset := filter.Offset()
	blocks = make([]model.Block, 0, filter.PageSize)
	for i := len(s.blocks) - 1; i >= 0; i-- {
		b := s.blocks[i]
		if filter.AllocationID != "" && b.AllocationID != filter.AllocationID {
			continue
		}
		if total >= offset && int64(len(blocks)) < filter.PageSize {
			blocks = append(blocks, b)
		}
		total++
	}
	return blocks, total, nil
}

// BlocksRange returns blocks with index in [from, to], ascending.
func (s *Store) BlocksRange(ctx context.Context, from, to int64) (blocks []model.Block, err error) {
	defer s.observe("blocks_range", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if from < 0 {
		from = 0
	}
	last := int64(len(s.blocks)) - 1
	if to > last {
		to = last
	}
	if from > to {
		return []model.Block{}, nil
	}
	blocks = make([]model.Block, to-from+1)
	copy(blocks, s.blocks[from:to+1])
	return blocks, nil
}

// InsertAllocation stores a new allocation.
func (s *Store) InsertAllocation(ctx context.Context, a model.Allocation) (err error) {
	defer s.observe("insert_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.allocations[a.ID]; exists {
		return fmt.Errorf("allocation %s already exists", a.ID)
	}
	s.allocations[a.ID] = a
	return nil
}

// GetAllocation returns the allocation with the given id.
func (s *Store) GetAllocation(ctx context.Context, id string) (a model.Allocation, err error) {
	defer s.observe("get_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return model.Allocation{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.allocations[id]
	if !ok {
		return model.Allocation{}, fmt.Errorf("allocation %s: %w", id, model.ErrNotFound)
	}
	return a, nil
}

// UpdateAllocation overwrites an allocation whose stored version is still expected.
func (s *Store) UpdateAllocation(ctx context.Context, a model.Allocation, expected int64) (err error) {
	defer s.observe("update_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.allocations[a.ID]
	if !ok {
		return fmt.Errorf("allocation %s: %w", a.ID, model.ErrNotFound)
	}
	if cur.Version != expected {
		return fmt.Errorf("allocation %s at version %d, want %d: %w", a.ID, cur.Version, expected, model.ErrVersionConflict)
	}
	s.allocations[a.ID] = a
	return nil
}

// DeleteAllocation removes an allocation. Deleting a missing allocation is not an error.
func (s *Store) DeleteAllocation(ctx context.Context, id string) (err error) {
	defer s.observe("delete_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.allocations, id)
	return nil
}

// ListAllocations returns a page of allocations, newest first.
func (s *Store) ListAllocations(ctx context.Context, page, pageSize int64) (out []model.Allocation, total int64, err error) {
	defer s.observe("list_allocations", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	all := make([]model.Allocation, 0, len(s.allocations))
	for _, a := range s.allocations {
		all = append(all, a)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total = int64(len(all))
	offset := model.BlockFilter{Page: page, PageSize: pageSize}.Offset()
	if offset >= total {
		return []model.Allocation{}, total, nil
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *Store) observe(operation string, err *error, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.Observe(operation, *err, started)
}
