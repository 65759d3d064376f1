package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type blockDocument struct {
	Index        int64     `bson:"index"`
	Timestamp    time.Time `bson:"timestamp"`
	TxType       string    `bson:"tx_type"`
	AllocationID string    `bson:"allocation_id"`
	Payload      bson.M    `bson:"payload"`
	PrevHash     string    `bson:"prev_hash"`
	Hash         string    `bson:"hash"`
	SignerUserID string    `bson:"signer_user_id"`
}

func toBlockDocument(b model.Block) blockDocument {
	payload := bson.M{}
	for k, v := range b.Payload {
		payload[k] = v
	}
	return blockDocument{
		Index:        b.Index,
		Timestamp:    b.Timestamp.UTC(),
		TxType:       string(b.TxType),
		AllocationID: b.AllocationID,
		Payload:      payload,
		PrevHash:     b.PrevHash,
		Hash:         b.Hash,
		SignerUserID: b.SignerUserID,
	}
}

func (d blockDocument) model() model.Block {
	payload := model.Payload{}
	for k, v := range d.Payload {
		payload[k] = v
	}
	return model.Block{
		Index:        d.Index,
		Timestamp:    d.Timestamp.UTC(),
		TxType:       model.TxType(d.TxType),
		AllocationID: d.AllocationID,
		Payload:      payload,
		PrevHash:     d.PrevHash,
		Hash:         d.Hash,
		SignerUserID: d.SignerUserID,
	}
}

// LastBlock returns the block with the highest index.
func (r *Repository) LastBlock(ctx context.Context) (block model.Block, ok bool, err error) {
	defer r.observe("last_block", &err, time.Now())

	var doc blockDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "index", Value: -1}})
	err = r.blocks.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Block{}, false, nil
	}
	if err != nil {
		return model.Block{}, false, fmt.Errorf("find last block: %w", err)
	}
	return doc.model(), true, nil
}

// InsertBlock writes block. A duplicate index is reported as model.ErrIndexConflict.
func (r *Repository) InsertBlock(ctx context.Context, block model.Block) (err error) {
	defer r.observe("insert_block", &err, time.Now())

	if _, err = r.blocks.InsertOne(ctx, toBlockDocument(block)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert block %d: %w", block.Index, model.ErrIndexConflict)
		}
		return fmt.Errorf("insert block %d: %w", block.Index, err)
	}
	return nil
}

// ListBlocks returns a page of matching blocks, newest first.
func (r *Repository) ListBlocks(ctx context.Context, filter model.BlockFilter) (blocks []model.Block, total int64, err error) {
	defer r.observe("list_blocks", &err, time.Now())

	query := bson.D{}
	if filter.AllocationID != "" {
		query = bson.D{{Key: "allocation_id", Value: filter.AllocationID}}
	}

	total, err = r.blocks.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count blocks: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "index", Value: -1}}).
		SetSkip(filter.Offset()).
		SetLimit(filter.PageSize)
	blocks, err = r.findBlocks(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return blocks, total, nil
}

// BlocksRange returns blocks with index in [from, to], ascending.
func (r *Repository) BlocksRange(ctx context.Context, from, to int64) (blocks []model.Block, err error) {
	defer r.observe("blocks_range", &err, time.Now())

	query := bson.D{{Key: "index", Value: bson.D{
		{Key: "$gte", Value: from},
		{Key: "$lte", Value: to},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	return r.findBlocks(ctx, query, opts)
}

func (r *Repository) findBlocks(ctx context.Context, query bson.D, opts *options.FindOptions) ([]model.Block, error) {
	cursor, err := r.blocks.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find blocks: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	blocks := []model.Block{}
	for cursor.Next(ctx) {
		var doc blockDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode block: %w", err)
		}
		blocks = append(blocks, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}
