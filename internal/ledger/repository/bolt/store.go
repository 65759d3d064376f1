// Package bolt stores the ledger chain and allocations in a single bbolt file.
package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/chain"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/fundledger-backend/pkg/safe"
	jsoniter "github.com/json-iterator/go"
	bbolt "go.etcd.io/bbolt"
)

var (
	blocksBucket           = []byte("blocks")
	allocationBlocksBucket = []byte("allocation_blocks")
	allocationsBucket      = []byte("allocations")

	codec = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              true,
	}.Froze()
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// blockRecord is the stored form of a block. Payload holds the exact bytes that were hashed
// and decodes with json.Number values, so re-hashing a read block reproduces its digest.
type blockRecord struct {
	Index        int64           `json:"index"`
	Timestamp    time.Time       `json:"timestamp"`
	TxType       model.TxType    `json:"txType"`
	AllocationID string          `json:"allocationId"`
	Payload      json.RawMessage `json:"payload"`
	PrevHash     string          `json:"prevHash"`
	Hash         string          `json:"hash"`
	SignerUserID string          `json:"signerUserId"`
}

// Store is a bbolt backed ledger store. Writes run in serialized update transactions.
type Store struct {
	db      *bbolt.DB
	metrics Metrics
}

// Open opens or creates the database file at path and prepares its buckets.
func Open(path string, timeout time.Duration, metrics Metrics) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt database %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{blocksBucket, allocationBlocksBucket, allocationsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, metrics: metrics}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is still open.
func (s *Store) Ping(context.Context) error {
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

// LastBlock returns the block with the highest index.
func (s *Store) LastBlock(ctx context.Context) (block model.Block, ok bool, err error) {
	defer s.observe("last_block", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return model.Block{}, false, err
	}

	err = s.db.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket(blocksBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		ok = true
		return decodeBlock(v, &block)
	})
	if err != nil {
		return model.Block{}, false, fmt.Errorf("read last block: %w", err)
	}
	return block, ok, nil
}

// InsertBlock writes block and its allocation index entry. The index must be free and
// must directly follow the current tail.
func (s *Store) InsertBlock(ctx context.Context, block model.Block) (err error) {
	defer s.observe("insert_block", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	data, err := encodeBlock(block)
	if err != nil {
		return err
	}
	key, err := indexKey(block.Index)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		blocks := tx.Bucket(blocksBucket)
		if blocks.Get(key) != nil {
			return fmt.Errorf("insert block %d: %w", block.Index, model.ErrIndexConflict)
		}

		next := int64(0)
		if last, _ := blocks.Cursor().Last(); last != nil {
			next = keyIndex(last) + 1
		}
		if block.Index != next {
			return fmt.Errorf("insert block %d: next free index is %d", block.Index, next)
		}

		if err := blocks.Put(key, data); err != nil {
			return fmt.Errorf("put block %d: %w", block.Index, err)
		}
		ref := allocationKey(block.AllocationID, key)
		if err := tx.Bucket(allocationBlocksBucket).Put(ref, nil); err != nil {
			return fmt.Errorf("put allocation ref %d: %w", block.Index, err)
		}
		return nil
	})
}

// ListBlocks returns a page of matching blocks, newest first.
func (s *Store) ListBlocks(ctx context.Context, filter model.BlockFilter) (blocks []model.Block, total int64, err error) {
	defer s.observe("list_blocks", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}

	offset := filter.Offset()
	blocks = make([]model.Block, 0, filter.PageSize)

	err = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(blocksBucket)

		var keys [][]byte
		if filter.AllocationID == "" {
			last, _ := bucket.Cursor().Last()
			if last == nil {
				return nil
			}
			total = keyIndex(last) + 1
			for idx := total - 1 - offset; idx >= 0 && int64(len(keys)) < filter.PageSize; idx-- {
				key, err := indexKey(idx)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
		} else {
			refs := allocationRefs(tx.Bucket(allocationBlocksBucket), filter.AllocationID)
			total = int64(len(refs))
			for i := total - 1 - offset; i >= 0 && int64(len(keys)) < filter.PageSize; i-- {
				keys = append(keys, refs[i])
			}
		}

		for _, key := range keys {
			v := bucket.Get(key)
			if v == nil {
				return fmt.Errorf("block %d referenced but missing", keyIndex(key))
			}
			var b model.Block
			if err := decodeBlock(v, &b); err != nil {
				return err
			}
			blocks = append(blocks, b)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, total, nil
}

// BlocksRange returns blocks with index in [from, to], ascending.
func (s *Store) BlocksRange(ctx context.Context, from, to int64) (blocks []model.Block, err error) {
	defer s.observe("blocks_range", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if from < 0 {
		from = 0
	}
	blocks = []model.Block{}
	if from > to {
		return blocks, nil
	}

	start, err := indexKey(from)
	if err != nil {
		return nil, err
	}
	err = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(blocksBucket).Cursor()
		for k, v := c.Seek(start); k != nil && keyIndex(k) <= to; k, v = c.Next() {
			var b model.Block
			if err := decodeBlock(v, &b); err != nil {
				return err
			}
			blocks = append(blocks, b)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read blocks %d-%d: %w", from, to, err)
	}
	return blocks, nil
}

// InsertAllocation stores a new allocation.
func (s *Store) InsertAllocation(ctx context.Context, a model.Allocation) (err error) {
	defer s.observe("insert_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	return s.putAllocation(a, func(existing []byte) error {
		if existing != nil {
			return fmt.Errorf("allocation %s already exists", a.ID)
		}
		return nil
	})
}

// GetAllocation returns the allocation with the given id.
func (s *Store) GetAllocation(ctx context.Context, id string) (a model.Allocation, err error) {
	defer s.observe("get_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return model.Allocation{}, err
	}

	err = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(allocationsBucket).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("allocation %s: %w", id, model.ErrNotFound)
		}
		return codec.Unmarshal(v, &a)
	})
	if err != nil {
		return model.Allocation{}, err
	}
	return a, nil
}

// UpdateAllocation overwrites an allocation whose stored version is still expected. The
// version check and the write share one update transaction.
func (s *Store) UpdateAllocation(ctx context.Context, a model.Allocation, expected int64) (err error) {
	defer s.observe("update_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	return s.putAllocation(a, func(existing []byte) error {
		if existing == nil {
			return fmt.Errorf("allocation %s: %w", a.ID, model.ErrNotFound)
		}
		var cur model.Allocation
		if err := codec.Unmarshal(existing, &cur); err != nil {
			return fmt.Errorf("decode allocation %s: %w", a.ID, err)
		}
		if cur.Version != expected {
			return fmt.Errorf("allocation %s at version %d, want %d: %w", a.ID, cur.Version, expected, model.ErrVersionConflict)
		}
		return nil
	})
}

// DeleteAllocation removes an allocation. Deleting a missing allocation is not an error.
func (s *Store) DeleteAllocation(ctx context.Context, id string) (err error) {
	defer s.observe("delete_allocation", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(allocationsBucket).Delete([]byte(id))
	})
}

// ListAllocations returns a page of allocations, newest first.
func (s *Store) ListAllocations(ctx context.Context, page, pageSize int64) (out []model.Allocation, total int64, err error) {
	defer s.observe("list_allocations", &err, time.Now())
	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}

	var all []model.Allocation
	err = s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(allocationsBucket).ForEach(func(_, v []byte) error {
			var a model.Allocation
			if err := codec.Unmarshal(v, &a); err != nil {
				return err
			}
			all = append(all, a)
			return nil
		})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list allocations: %w", err)
	}

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
	end := min(offset+pageSize, total)
	return all[offset:end], total, nil
}

func (s *Store) putAllocation(a model.Allocation, check func(existing []byte) error) error {
	if a.ID == "" {
		return errors.New("allocation id is empty")
	}
	data, err := codec.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode allocation %s: %w", a.ID, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(allocationsBucket)
		if err := check(bucket.Get([]byte(a.ID))); err != nil {
			return err
		}
		return bucket.Put([]byte(a.ID), data)
	})
}

func (s *Store) observe(operation string, err *error, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.Observe(operation, *err, started)
}

func encodeBlock(b model.Block) ([]byte, error) {
	payload, err := chain.CanonicalPayload(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode block %d: %w", b.Index, err)
	}
	data, err := codec.Marshal(blockRecord{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		TxType:       b.TxType,
		AllocationID: b.AllocationID,
		Payload:      payload,
		PrevHash:     b.PrevHash,
		Hash:         b.Hash,
		SignerUserID: b.SignerUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode block %d: %w", b.Index, err)
	}
	return data, nil
}

func decodeBlock(data []byte, b *model.Block) error {
	var rec blockRecord
	if err := codec.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}
	payload := model.Payload{}
	if err := codec.Unmarshal(rec.Payload, &payload); err != nil {
		return fmt.Errorf("decode block %d payload: %w", rec.Index, err)
	}
	*b = model.Block{
		Index:        rec.Index,
		Timestamp:    rec.Timestamp.UTC(),
		TxType:       rec.TxType,
		AllocationID: rec.AllocationID,
		Payload:      payload,
		PrevHash:     rec.PrevHash,
		Hash:         rec.Hash,
		SignerUserID: rec.SignerUserID,
	}
	return nil
}

func indexKey(index int64) ([]byte, error) {
	u, err := safe.Uint64(index)
	if err != nil {
		return nil, fmt.Errorf("block index %d: %w", index, err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, u)
	return key, nil
}

func keyIndex(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key[len(key)-8:])) //nolint:gosec // keys are written from non-negative indexes
}

func allocationKey(allocationID string, index []byte) []byte {
	key := make([]byte, 0, len(allocationID)+1+len(index))
	key = append(key, allocationID...)
	key = append(key, '/')
	return append(key, index...)
}

// allocationRefs returns the block keys of one allocation in ascending index order.
func allocationRefs(bucket *bbolt.Bucket, allocationID string) [][]byte {
	prefix := append([]byte(allocationID), '/')
	var refs [][]byte
	c := bucket.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		// ids that extend allocationID share the prefix but not the key length
		if len(k) != len(prefix)+8 {
			continue
		}
		refs = append(refs, k[len(prefix):])
	}
	return refs
}
