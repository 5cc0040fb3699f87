package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
	mongoutil "github.com/wms-platform/wave-optimizer-service/pkg/mongodb"
)

// WavePlanRepository implements domain.WavePlanRepository using MongoDB
type WavePlanRepository struct {
	collection *mongo.Collection
}

// NewWavePlanRepository creates a new WavePlanRepository
func NewWavePlanRepository(db *mongo.Database) *WavePlanRepository {
	repo := &WavePlanRepository{
		collection: db.Collection("wave_plans"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *WavePlanRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    mongoutil.SortAscending("planId"),
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: mongoutil.SortDescending("createdAt"),
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save persists a wave plan (create or update)
func (r *WavePlanRepository) Save(ctx context.Context, plan *domain.WavePlan) error {
	plan.UpdatedAt = mongoutil.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"planId": plan.PlanID}
	update := bson.M{"$set": plan}

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save wave plan: %w", err)
	}

	return nil
}

// FindByID retrieves a wave plan by its plan ID
func (r *WavePlanRepository) FindByID(ctx context.Context, planID string) (*domain.WavePlan, error) {
	filter := bson.M{"planId": planID}

	var plan domain.WavePlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

// FindByStatus retrieves wave plans by status
func (r *WavePlanRepository) FindByStatus(ctx context.Context, status domain.WavePlanStatus) ([]*domain.WavePlan, error) {
	filter := bson.M{"status": status}
	opts := options.Find().SetSort(mongoutil.SortDescending("createdAt"))

	return r.findAll(ctx, filter, opts)
}

// FindRecent retrieves the most recently created wave plans
func (r *WavePlanRepository) FindRecent(ctx context.Context, limit int64) ([]*domain.WavePlan, error) {
	opts := options.Find().
		SetSort(mongoutil.SortDescending("createdAt")).
		SetLimit(limit)

	return r.findAll(ctx, bson.M{}, opts)
}

// FindByDateRange retrieves wave plans created within a date range
func (r *WavePlanRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.WavePlan, error) {
	filter := bson.M{
		"createdAt": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	opts := options.Find().SetSort(mongoutil.SortDescending("createdAt"))

	return r.findAll(ctx, filter, opts)
}

func (r *WavePlanRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.WavePlan, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []*domain.WavePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}

	return plans, nil
}

// Delete removes a wave plan
func (r *WavePlanRepository) Delete(ctx context.Context, planID string) error {
	filter := bson.M{"planId": planID}
	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// Count returns the total number of wave plans matching a status
func (r *WavePlanRepository) Count(ctx context.Context, status domain.WavePlanStatus) (int64, error) {
	filter := bson.M{"status": status}
	return r.collection.CountDocuments(ctx, filter)
}
