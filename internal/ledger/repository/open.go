// Package repository selects and opens the primary ledger store.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/repository/bolt"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/repository/memory"
	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/repository/mongo"
	"github.com/goodnatureofminers/fundledger-backend/internal/metrics"
)

const (
	BackendMongo  = "mongo"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Config selects the primary store. It is embedded as a go-flags group by the binaries.
type Config struct {
	Backend       string        `long:"store" env:"LEDGER_STORE" choice:"mongo" choice:"bolt" choice:"memory" default:"mongo" description:"primary store backend"`
	MongoURI      string        `long:"mongo-uri" env:"LEDGER_MONGO_URI" default:"mongodb://localhost:27017" description:"MongoDB connection URI"`
	MongoDatabase string        `long:"mongo-database" env:"LEDGER_MONGO_DATABASE" default:"fundledger" description:"MongoDB database name"`
	BoltPath      string        `long:"bolt-path" env:"LEDGER_BOLT_PATH" default:"fundledger.db" description:"bbolt database file"`
	BoltTimeout   time.Duration `long:"bolt-timeout" env:"LEDGER_BOLT_TIMEOUT" default:"1s" description:"time to wait for the bbolt file lock"`
}

// Store is everything the binaries need from a primary store.
type Store interface {
	Ping(ctx context.Context) error

	LastBlock(ctx context.Context) (model.Block, bool, error)
	InsertBlock(ctx context.Context, block model.Block) error
	ListBlocks(ctx context.Context, filter model.BlockFilter) ([]model.Block, int64, error)
	BlocksRange(ctx context.Context, from, to int64) ([]model.Block, error)

	InsertAllocation(ctx context.Context, a model.Allocation) error
	GetAllocation(ctx context.Context, id string) (model.Allocation, error)
	UpdateAllocation(ctx context.Context, a model.Allocation, expected int64) error
	DeleteAllocation(ctx context.Context, id string) error
	ListAllocations(ctx context.Context, page, pageSize int64) ([]model.Allocation, int64, error)
}

// Open connects the configured backend. The returned close function releases it.
func Open(ctx context.Context, cfg Config) (Store, func(context.Context) error, error) {
	m := metrics.NewStoreRepository(cfg.Backend)

	switch cfg.Backend {
	case BackendMongo:
		repo, err := mongo.NewRepository(ctx, cfg.MongoURI, cfg.MongoDatabase, m)
		if err != nil {
			return nil, nil, fmt.Errorf("init mongo repository: %w", err)
		}
		if err = repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return repo, repo.Close, nil
	case BackendBolt:
		store, err := bolt.Open(cfg.BoltPath, cfg.BoltTimeout, m)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		return store, func(context.Context) error { return store.Close() }, nil
	case BackendMemory:
		return memory.NewStore(m), func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
