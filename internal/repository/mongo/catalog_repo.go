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

const exerciseCollectionName = "exercises"

// slugRangeSentinel closes the prefix range: every slug starting with prefix
// sorts inside [prefix, prefix+sentinel].
const slugRangeSentinel = "\uf8ff"

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a new exercise catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new catalog entry. The slug is derived from the name if
// the caller did not set one.
func (r *mongoCatalogRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" && exercise.NameEN == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	if exercise.Slug == "" {
		exercise.Slug = domain.Slugify(exercise.DisplayName())
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a catalog entry by its ID.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySlug retrieves the catalog entry with the given slug. Slugs are
// best-effort unique; on duplicates the first entry in (slug, _id) order wins.
func (r *mongoCatalogRepository) FindBySlug(ctx context.Context, slug string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByName retrieves the catalog entry whose display name exactly equals name.
func (r *mongoCatalogRepository) FindByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// FindByEnglishName retrieves the catalog entry whose English name exactly equals name.
func (r *mongoCatalogRepository) FindByEnglishName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name_en": name})
}

func (r *mongoCatalogRepository) findOne(ctx context.Context, filter bson.M) (*domain.Exercise, error) {
	var exercise domain.Exercise
	// Stable sort makes duplicate matches deterministic (first-match-wins).
	opts := options.FindOne().SetSort(bson.D{{Key: "slug", Value: 1}, {Key: "_id", Value: 1}})

	err := r.collection.FindOne(ctx, filter, opts).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// FindBySlugPrefix returns catalog entries whose slug starts with prefix,
// capped at limit, in slug order.
func (r *mongoCatalogRepository) FindBySlugPrefix(ctx context.Context, prefix string, limit int) ([]domain.Exercise, error) {
	filter := bson.M{"slug": bson.M{
		"$gte": prefix,
		"$lte": prefix + slugRangeSentinel,
	}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "slug", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListByMuscleGroup retrieves all catalog entries for a muscle group,
// sorted by name. An empty group lists the whole catalog.
func (r *mongoCatalogRepository) ListByMuscleGroup(ctx context.Context, group string) ([]domain.Exercise, error) {
	filter := bson.M{}
	if group != "" {
		filter["group"] = group
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// AddImageKey appends an object storage key to the entry's image list.
func (r *mongoCatalogRepository) AddImageKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$push": bson.M{"imageKeys": objectKey},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
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

// Delete removes a catalog entry permanently.
func (r *mongoCatalogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCatalogIndexes creates necessary indexes for the exercises collection.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Slug is the primary lookup and prefix-search key.
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name_en", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "group", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
