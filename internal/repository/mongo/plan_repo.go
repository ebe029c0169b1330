// internal/repository/mongo/plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "weekly_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new weekly plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new weekly plan document.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and title")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByOwnerAndID retrieves a single plan. The owner filter doubles as the
// authorization check: another user's plan reads as not found.
func (r *mongoPlanRepository) GetByOwnerAndID(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	var plan domain.WeeklyPlan
	filter := bson.M{"_id": planID, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByOwner retrieves all plans owned by a user, newest first.
func (r *mongoPlanRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	var plans []domain.WeeklyPlan
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Empty slice if the user has no plans (not an error)
	return plans, nil
}

// ReplaceDays overwrites the whole day array of a plan plus updatedAt.
// There is no version or etag check: if two sessions edit the same plan the
// last write wins silently.
func (r *mongoPlanRepository) ReplaceDays(ctx context.Context, ownerID, planID primitive.ObjectID, days []domain.DayEntry) error {
	filter := bson.M{"_id": planID, "ownerId": ownerID}
	update := bson.M{
		"$set": bson.M{
			"days":      days,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan, ensuring it belongs to the given owner.
func (r *mongoPlanRepository) Delete(ctx context.Context, ownerID, planID primitive.ObjectID) error {
	filter := bson.M{"_id": planID, "ownerId": ownerID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the plan never existed or it belongs to another user; the
		// filter can't tell the two apart and ErrNotFound covers both.
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes for the weekly plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a user's plans, newest first.
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
