package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubCatalogService only implements what the handler tests touch.
type stubCatalogService struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func (s *stubCatalogService) GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	if e, ok := s.exercises[id]; ok {
		return e, nil
	}
	return nil, service.ErrExerciseNotFound
}

func (s *stubCatalogService) ListByMuscleGroup(ctx context.Context, group string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range s.exercises {
		if group == "" || e.MuscleGroup == group {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *stubCatalogService) CreateExercise(ctx context.Context, name, nameEN, muscleGroup, description, difficulty string) (*domain.Exercise, error) {
	return nil, service.ErrValidationFailed
}

func (s *stubCatalogService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	return service.ErrExerciseNotFound
}

func (s *stubCatalogService) GenerateMediaUploadURL(ctx context.Context, id primitive.ObjectID, contentType string) (string, string, error) {
	return "", "", service.ErrExerciseNotFound
}

func (s *stubCatalogService) MediaURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return "https://cdn.test/" + objectKey, nil
}

// stubResolver returns a fixed resolution.
type stubResolver struct {
	resolution *service.Resolution
}

func (s *stubResolver) Resolve(ctx context.Context, name string) *service.Resolution {
	return s.resolution
}

func resolveRequest(t *testing.T, handler *CatalogHandler, name string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/exercises/resolve", handler.ResolveExercise)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/exercises/resolve?name="+name, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestResolveExerciseEndpoint(t *testing.T) {
	t.Run("miss is a 404", func(t *testing.T) {
		handler := NewCatalogHandler(&stubCatalogService{}, &stubResolver{})

		w := resolveRequest(t, handler, "Unknown")
		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "exercise not found", body["error"])
	})

	t.Run("exact match", func(t *testing.T) {
		exercise := &domain.Exercise{
			ID:          primitive.NewObjectID(),
			Name:        "Bench Press",
			Slug:        "bench-press",
			MuscleGroup: "chest",
			ImageKeys:   []string{"exercises/1/a.jpg"},
		}
		handler := NewCatalogHandler(&stubCatalogService{}, &stubResolver{
			resolution: &service.Resolution{Match: exercise},
		})

		w := resolveRequest(t, handler, "bench+press")
		require.Equal(t, http.StatusOK, w.Code)

		var body ResolveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Match)
		assert.Equal(t, "Bench Press", body.Match.Name)
		assert.Equal(t, []string{"https://cdn.test/exercises/1/a.jpg"}, body.Match.ImageURLs)
		assert.Empty(t, body.Candidates)
	})

	t.Run("candidates carry presigned thumbnails", func(t *testing.T) {
		handler := NewCatalogHandler(&stubCatalogService{}, &stubResolver{
			resolution: &service.Resolution{Candidates: []service.Candidate{
				{ID: "a", Name: "Bench Press", MuscleGroup: "chest", ThumbKey: "exercises/1/thumb.jpg"},
				{ID: "b", Name: "Bench Dip", MuscleGroup: "other"},
			}},
		})

		w := resolveRequest(t, handler, "bench")
		require.Equal(t, http.StatusOK, w.Code)

		var body ResolveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Nil(t, body.Match)
		require.Len(t, body.Candidates, 2)
		assert.Equal(t, "https://cdn.test/exercises/1/thumb.jpg", body.Candidates[0].ThumbURL)
		assert.Equal(t, "", body.Candidates[1].ThumbURL)
	})
}
