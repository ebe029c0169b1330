package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogHandler serves the shared exercise catalog and the free-text
// exercise resolver.
type CatalogHandler struct {
	catalogService  service.CatalogService
	resolverService service.ResolverService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService, resolverService service.ResolverService) *CatalogHandler {
	return &CatalogHandler{
		catalogService:  catalogService,
		resolverService: resolverService,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for seeding a catalog entry.
type CreateExerciseRequest struct {
	Name        string `json:"name"`
	NameEN      string `json:"nameEn"`
	MuscleGroup string `json:"group" binding:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=Novice Medium Advanced"`
}

// ExerciseResponse is the DTO for returning catalog entry details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	NameEN      string    `json:"nameEn,omitempty"`
	Slug        string    `json:"slug"`
	MuscleGroup string    `json:"group"`
	Description string    `json:"description,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CandidateResponse is a reduced catalog entry for disambiguation lists.
type CandidateResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"group"`
	ThumbURL    string `json:"thumbUrl,omitempty"`
}

// ResolveResponse carries either a single exact match or a candidate list.
type ResolveResponse struct {
	Match      *ExerciseResponse   `json:"match,omitempty"`
	Candidates []CandidateResponse `json:"candidates,omitempty"`
}

type MediaUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// mapExerciseToResponse converts a domain.Exercise to its DTO, resolving
// image object keys to temporary download URLs. A failed presign only drops
// the image, never the entry.
func (h *CatalogHandler) mapExerciseToResponse(c *gin.Context, ex *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		NameEN:      ex.NameEN,
		Slug:        ex.Slug,
		MuscleGroup: ex.MuscleGroup,
		Description: ex.Description,
		Difficulty:  ex.Difficulty,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
	for _, key := range ex.ImageKeys {
		url, err := h.catalogService.MediaURL(c.Request.Context(), key)
		if err != nil {
			log.Printf("WARN: failed to presign image %q: %v", key, err)
			continue
		}
		resp.ImageURLs = append(resp.ImageURLs, url)
	}
	return resp
}

// --- Handler Methods ---

// ListExercises returns catalog entries, optionally filtered by ?group=.
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	group := c.Query("group")

	exercises, err := h.catalogService.ListByMuscleGroup(c.Request.Context(), group)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}

	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = h.mapExerciseToResponse(c, &exercises[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetExercise returns a single catalog entry by ID.
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	exercise, err := h.catalogService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, h.mapExerciseToResponse(c, exercise))
}

// ResolveExercise maps a free-text name (?name=) to a catalog match or a
// candidate list. A miss is a 404, not an error payload: the client shows
// its "exercise not found" message.
func (h *CatalogHandler) ResolveExercise(c *gin.Context) {
	name := c.Query("name")

	resolution := h.resolverService.Resolve(c.Request.Context(), name)
	if resolution == nil {
		abortWithError(c, http.StatusNotFound, "exercise not found")
		return
	}

	if resolution.Match != nil {
		match := h.mapExerciseToResponse(c, resolution.Match)
		c.JSON(http.StatusOK, ResolveResponse{Match: &match})
		return
	}

	candidates := make([]CandidateResponse, len(resolution.Candidates))
	for i, cand := range resolution.Candidates {
		thumbURL, err := h.catalogService.MediaURL(c.Request.Context(), cand.ThumbKey)
		if err != nil {
			log.Printf("WARN: failed to presign thumbnail %q: %v", cand.ThumbKey, err)
			thumbURL = ""
		}
		candidates[i] = CandidateResponse{
			ID:          cand.ID,
			Name:        cand.Name,
			MuscleGroup: cand.MuscleGroup,
			ThumbURL:    thumbURL,
		}
	}
	c.JSON(http.StatusOK, ResolveResponse{Candidates: candidates})
}

// CreateExercise seeds a new catalog entry (admin only).
func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.catalogService.CreateExercise(
		c.Request.Context(),
		req.Name,
		req.NameEN,
		req.MuscleGroup,
		req.Description,
		req.Difficulty,
	)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, h.mapExerciseToResponse(c, exercise))
}

// DeleteExercise removes a catalog entry and its media (admin only).
func (h *CatalogHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	if err := h.catalogService.DeleteExercise(c.Request.Context(), exerciseID); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateMediaUploadURL hands out a presigned PUT URL for attaching an
// image to a catalog entry (admin only).
func (h *CatalogHandler) GenerateMediaUploadURL(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	var req MediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.catalogService.GenerateMediaUploadURL(c.Request.Context(), exerciseID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}

	c.JSON(http.StatusOK, MediaUploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	})
}
