// Package mongo stores the ledger chain and allocations in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	blocksCollection      = "ledger_blocks"
	allocationsCollection = "allocations"
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

type Repository struct {
	client      *mongo.Client
	blocks      *mongo.Collection
	allocations *mongo.Collection
	metrics     Metrics
}

// NewRepository connects to uri and uses database. Embedded payload documents are decoded
// as maps so their canonical JSON matches what was hashed on append.
func NewRepository(ctx context.Context, uri, database string, metrics Metrics) (*Repository, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database is required")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	db := client.Database(database)
	return &Repository{
		client:      client,
		blocks:      db.Collection(blocksCollection),
		allocations: db.Collection(allocationsCollection),
		metrics:     metrics,
	}, nil
}

// EnsureIndexes creates the unique block index that arbitrates concurrent appends and the
// indexes backing filtered reads.
func (r *Repository) EnsureIndexes(ctx context.Context) (err error) {
	defer r.observe("ensure_indexes", &err, time.Now())

	_, err = r.blocks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "index", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("index_unique"),
		},
		{
			Keys:    bson.D{{Key: "allocation_id", Value: 1}, {Key: "index", Value: -1}},
			Options: options.Index().SetName("allocation_id_index"),
		},
	})
	if err != nil {
		return fmt.Errorf("create block indexes: %w", err)
	}

	_, err = r.allocations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	})
	if err != nil {
		return fmt.Errorf("create allocation indexes: %w", err)
	}
	return nil
}

// Ping checks that the primary is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) observe(operation string, err *error, started time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.Observe(operation, *err, started)
}
