package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler serves weekly plan documents: lifecycle, manual structural
// edits, and the AI assistant endpoints.
type PlanHandler struct {
	planService      service.PlanService
	assistantService service.AssistantService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, assistantService service.AssistantService) *PlanHandler {
	return &PlanHandler{
		planService:      planService,
		assistantService: assistantService,
	}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	Title string `json:"title" binding:"required"`
}

type PlanResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Days      []domain.DayEntry `json:"days"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type CatalogRefRequest struct {
	ExerciseID  string `json:"exerciseId" binding:"required"`
	MuscleGroup string `json:"group"`
}

type AddExerciseRequest struct {
	Name       string             `json:"name" binding:"required"`
	Sets       int                `json:"sets" binding:"required,gt=0"`
	Reps       string             `json:"reps" binding:"required"`
	RestSec    int                `json:"rest_sec" binding:"required,gt=0"`
	Notes      string             `json:"notes"`
	CatalogRef *CatalogRefRequest `json:"catalogRef"`
}

type MoveExerciseRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type ReplaceWeekRequest struct {
	Days []domain.DayEntry `json:"days" binding:"required"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply       string        `json:"reply"`
	PlanUpdated bool          `json:"planUpdated"`
	Plan        *PlanResponse `json:"plan,omitempty"`
}

type GeneratePlanRequest struct {
	Goal      string `json:"goal" binding:"required"`
	Days      int    `json:"days" binding:"required,min=1,max=7"`
	Level     string `json:"level" binding:"required"`
	Equipment string `json:"equipment"`
}

// MapPlanToResponse converts a domain.WeeklyPlan to its DTO.
func MapPlanToResponse(plan *domain.WeeklyPlan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:        plan.ID.Hex(),
		Title:     plan.Title,
		Days:      plan.Days,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

// ownerID pulls the authenticated user's ObjectID out of the gin context.
func ownerID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// planID parses the :id path parameter.
func planID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// abortWithPlanError maps plan service errors onto HTTP statuses. Write
// failures keep the underlying message so the client can show it in its
// error alert.
func abortWithPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExercisePosition):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanPersistence):
		abortWithError(c, http.StatusInternalServerError, "Failed to save plan: "+err.Error())
	case errors.Is(err, service.ErrAssistantUnavailable):
		abortWithError(c, http.StatusBadGateway, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// --- Handler Methods ---

// CreatePlan creates a blank 7-day plan.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.CreateBlank(c.Request.Context(), owner, req.Title)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans returns the user's plans, newest first.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	plans, err := h.planService.List(c.Request.Context(), owner)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}

	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetPlan returns a single plan.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	result, err := h.planService.Get(c.Request.Context(), owner, plan)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(result))
}

// DeletePlan removes a plan permanently.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), owner, plan); err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddExercise appends an exercise to one day of the plan.
func (h *PlanHandler) AddExercise(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry := domain.ExerciseEntry{
		Name:    req.Name,
		Sets:    req.Sets,
		Reps:    req.Reps,
		RestSec: req.RestSec,
		Notes:   req.Notes,
	}
	if req.CatalogRef != nil {
		refID, err := primitive.ObjectIDFromHex(req.CatalogRef.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid catalog reference ID format.")
			return
		}
		entry.CatalogRef = &domain.CatalogRef{
			ExerciseID:  refID,
			MuscleGroup: req.CatalogRef.MuscleGroup,
		}
	}

	updated, err := h.planService.AddExercise(c.Request.Context(), owner, plan, c.Param("day"), entry)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(updated))
}

// RemoveExercise deletes the exercise at :index from one day.
func (h *PlanHandler) RemoveExercise(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index.")
		return
	}

	updated, err := h.planService.RemoveExercise(c.Request.Context(), owner, plan, c.Param("day"), index)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(updated))
}

// MoveExercise swaps the exercise at :index with its up/down neighbor.
func (h *PlanHandler) MoveExercise(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index.")
		return
	}

	var req MoveExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.planService.MoveExercise(c.Request.Context(), owner, plan, c.Param("day"), index, domain.MoveDirection(req.Direction))
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(updated))
}

// ClearDay empties one day and marks it as a rest day.
func (h *PlanHandler) ClearDay(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	updated, err := h.planService.ClearDay(c.Request.Context(), owner, plan, c.Param("day"))
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(updated))
}

// ReplaceWeek swaps the whole day array of a plan. The week is validated
// here, at the boundary, before it reaches the mutator.
func (h *PlanHandler) ReplaceWeek(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	var req ReplaceWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := domain.ValidateWeek(req.Days); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.planService.ReplaceWeek(c.Request.Context(), owner, plan, req.Days)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(updated))
}

// Chat sends a question about the plan to the assistant.
func (h *PlanHandler) Chat(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, ok := planID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.assistantService.Chat(c.Request.Context(), owner, plan, req.Message)
	if err != nil {
		abortWithPlanError(c, err)
		return
	}

	resp := ChatResponse{
		Reply:       result.Reply,
		PlanUpdated: result.PlanUpdated,
	}
	if result.Plan != nil {
		mapped := MapPlanToResponse(result.Plan)
		resp.Plan = &mapped
	}
	c.JSON(http.StatusOK, resp)
}

// GeneratePlan asks the assistant for a brand new weekly plan.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.assistantService.GeneratePlan(c.Request.Context(), owner, service.GeneratePlanRequest{
		Goal:      req.Goal,
		Days:      req.Days,
		Level:     req.Level,
		Equipment: req.Equipment,
	})
	if err != nil {
		abortWithPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}
