package repository

import (
	"context"

	"musclemap/fitness-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CatalogRepository defines read/seed access to the shared exercise catalog.
// The exact-match lookups return ErrNotFound when no entry matches; duplicate
// slugs resolve deterministically to the first entry in (slug, _id) order.
type CatalogRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Exercise, error)
	FindByName(ctx context.Context, name string) (*domain.Exercise, error)
	FindByEnglishName(ctx context.Context, name string) (*domain.Exercise, error)
	// FindBySlugPrefix returns entries whose slug starts with prefix, in slug
	// order, at most limit results.
	FindBySlugPrefix(ctx context.Context, prefix string, limit int) ([]domain.Exercise, error)
	ListByMuscleGroup(ctx context.Context, group string) ([]domain.Exercise, error)
	AddImageKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanRepository defines the interface for weekly plan documents.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error)
	GetByOwnerAndID(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WeeklyPlan, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	// ReplaceDays overwrites the plan's whole day array and bumps updatedAt.
	// This is a full-field overwrite with no version check: concurrent writers
	// race and the last one wins.
	ReplaceDays(ctx context.Context, ownerID, planID primitive.ObjectID, days []domain.DayEntry) error
	Delete(ctx context.Context, ownerID, planID primitive.ObjectID) error
}
