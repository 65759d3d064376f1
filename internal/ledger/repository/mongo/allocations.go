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

type allocationDocument struct {
	ID             string    `bson:"_id"`
	District       string    `bson:"district"`
	Amount         int64     `bson:"amount"`
	Purpose        string    `bson:"purpose"`
	Status         string    `bson:"status"`
	Received       bool      `bson:"received"`
	BlockName      string    `bson:"block_name,omitempty"`
	SchoolName     string    `bson:"school_name,omitempty"`
	Utilized       bool      `bson:"utilized"`
	UtilizedAmount int64     `bson:"utilized_amount,omitempty"`
	Version        int64     `bson:"version"`
	CreatedBy      string    `bson:"created_by"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toAllocationDocument(a model.Allocation) allocationDocument {
	return allocationDocument{
		ID:             a.ID,
		District:       a.District,
		Amount:         a.Amount,
		Purpose:        a.Purpose,
		Status:         string(a.Status),
		Received:       a.Received,
		BlockName:      a.BlockName,
		SchoolName:     a.SchoolName,
		Utilized:       a.Utilized,
		UtilizedAmount: a.UtilizedAmount,
		Version:        a.Version,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func (d allocationDocument) model() model.Allocation {
	return model.Allocation{
		ID:             d.ID,
		District:       d.District,
		Amount:         d.Amount,
		Purpose:        d.Purpose,
		Status:         model.AllocationStatus(d.Status),
		Received:       d.Received,
		BlockName:      d.BlockName,
		SchoolName:     d.SchoolName,
		Utilized:       d.Utilized,
		UtilizedAmount: d.UtilizedAmount,
		Version:        d.Version,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// InsertAllocation stores a new allocation.
func (r *Repository) InsertAllocation(ctx context.Context, a model.Allocation) (err error) {
	defer r.observe("insert_allocation", &err, time.Now())

	if _, err = r.allocations.InsertOne(ctx, toAllocationDocument(a)); err != nil {
		return fmt.Errorf("insert allocation %s: %w", a.ID, err)
	}
	return nil
}

// GetAllocation returns the allocation with the given id.
func (r *Repository) GetAllocation(ctx context.Context, id string) (a model.Allocation, err error) {
	defer r.observe("get_allocation", &err, time.Now())

	var doc allocationDocument
	err = r.allocations.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Allocation{}, fmt.Errorf("allocation %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Allocation{}, fmt.Errorf("find allocation %s: %w", id, err)
	}
	return doc.model(), nil
}

// UpdateAllocation sets the progression fields of an allocation whose stored version is still
// expected.
func (r *Repository) UpdateAllocation(ctx context.Context, a model.Allocation, expected int64) (err error) {
	defer r.observe("update_allocation", &err, time.Now())

	doc := toAllocationDocument(a)
	filter := bson.D{{Key: "_id", Value: a.ID}, {Key: "version", Value: expected}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: doc.Status},
		{Key: "received", Value: doc.Received},
		{Key: "block_name", Value: doc.BlockName},
		{Key: "school_name", Value: doc.SchoolName},
		{Key: "utilized", Value: doc.Utilized},
		{Key: "utilized_amount", Value: doc.UtilizedAmount},
		{Key: "version", Value: doc.Version},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}

	res, err := r.allocations.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update allocation %s: %w", a.ID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.allocations.CountDocuments(ctx, bson.D{{Key: "_id", Value: a.ID}})
	if err != nil {
		return fmt.Errorf("count allocation %s: %w", a.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("allocation %s: %w", a.ID, model.ErrNotFound)
	}
	return fmt.Errorf("allocation %s not at version %d: %w", a.ID, expected, model.ErrVersionConflict)
}

// DeleteAllocation removes an allocation. Deleting a missing allocation is not an error.
func (r *Repository) DeleteAllocation(ctx context.Context, id string) (err error) {
	defer r.observe("delete_allocation", &err, time.Now())

	if _, err = r.allocations.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete allocation %s: %w", id, err)
	}
	return nil
}

// ListAllocations returns a page of allocations, newest first.
func (r *Repository) ListAllocations(ctx context.Context, page, pageSize int64) (out []model.Allocation, total int64, err error) {
	defer r.observe("list_allocations", &err, time.Now())

	total, err = r.allocations.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("count allocations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(model.BlockFilter{Page: page, PageSize: pageSize}.Offset()).
		SetLimit(pageSize)
	cursor, err := r.allocations.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find allocations: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	out = []model.Allocation{}
	for cursor.Next(ctx) {
		var doc allocationDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode allocation: %w", err)
		}
		out = append(out, doc.model())
	}
	if err = cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate allocations: %w", err)
	}
	return out, total, nil
}
