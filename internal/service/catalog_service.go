package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/repository"
	"musclemap/fitness-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("exercise validation failed")
)

// CatalogService exposes the shared exercise catalog: browsing by muscle
// group, entry details with media URLs, and admin-side seeding.
type CatalogService interface {
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListByMuscleGroup(ctx context.Context, group string) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, name, nameEN, muscleGroup, description, difficulty string) (*domain.Exercise, error)
	// GenerateMediaUploadURL returns a presigned PUT URL for attaching an
	// image to an entry, plus the object key it will be stored under. The key
	// is recorded on the entry immediately.
	GenerateMediaUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
	// DeleteExercise removes an entry and its stored media. Plans holding a
	// weak reference to the entry are untouched; the reference just stops
	// resolving.
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
	// MediaURL resolves an object key to a temporary download URL.
	// Returns "" for an empty key.
	MediaURL(ctx context.Context, objectKey string) (string, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	fileStorage storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository, fileStorage storage.FileStorage) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		fileStorage: fileStorage,
	}
}

func (s *catalogService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.catalogRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *catalogService) ListByMuscleGroup(ctx context.Context, group string) ([]domain.Exercise, error) {
	return s.catalogRepo.ListByMuscleGroup(ctx, group)
}

// CreateExercise seeds a new catalog entry. The slug is always derived
// server-side so the slug invariant can't drift from the name.
func (s *catalogService) CreateExercise(ctx context.Context, name, nameEN, muscleGroup, description, difficulty string) (*domain.Exercise, error) {
	if name == "" && nameEN == "" {
		return nil, ErrValidationFailed
	}
	if muscleGroup == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:        name,
		NameEN:      nameEN,
		MuscleGroup: muscleGroup,
		Description: description,
		Difficulty:  difficulty,
	}
	exercise.Slug = domain.Slugify(exercise.DisplayName())

	exerciseID, err := s.catalogRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.catalogRepo.GetByID(ctx, exerciseID)
}

func (s *catalogService) GenerateMediaUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (string, string, error) {
	if contentType == "" {
		return "", "", errors.New("content type is required for media upload")
	}

	// Verify the entry exists before handing out an upload slot.
	if _, err := s.GetExerciseByID(ctx, exerciseID); err != nil {
		return "", "", err
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exerciseID.Hex(), uuid.NewString())

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	if err := s.catalogRepo.AddImageKey(ctx, exerciseID, objectKey); err != nil {
		return "", "", err
	}

	return uploadURL, objectKey, nil
}

func (s *catalogService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return err
	}

	// Media cleanup is best-effort; an orphaned object must not block the
	// catalog delete.
	for _, key := range exercise.ImageKeys {
		if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
			log.Printf("WARN: failed to delete media object %q for exercise %s: %v", key, exerciseID.Hex(), err)
		}
	}

	if err := s.catalogRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) MediaURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}
