package service

import (
	"context"
	"errors"
	"fmt"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrDayNotFound      = errors.New("day not found in plan")
	ErrExercisePosition = errors.New("exercise position out of range")
	ErrPlanValidation   = errors.New("plan validation failed")
	ErrPlanPersistence  = errors.New("plan persistence failed")
)

// PlanService owns weekly plan documents and applies structural edits to
// them. Every mutation loads the plan, edits the day array in memory, and
// writes the whole array back (see repository.PlanRepository.ReplaceDays for
// the concurrency caveat). On write failure the in-memory edit is simply
// discarded with the error; callers re-fetch rather than roll back.
type PlanService interface {
	CreateBlank(ctx context.Context, ownerID primitive.ObjectID, title string) (*domain.WeeklyPlan, error)
	CreateFromWeek(ctx context.Context, ownerID primitive.ObjectID, title string, days []domain.DayEntry) (*domain.WeeklyPlan, error)
	Get(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WeeklyPlan, error)
	List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WeeklyPlan, error)
	Delete(ctx context.Context, ownerID, planID primitive.ObjectID) error

	AddExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, entry domain.ExerciseEntry) (*domain.WeeklyPlan, error)
	RemoveExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, position int) (*domain.WeeklyPlan, error)
	MoveExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, position int, dir domain.MoveDirection) (*domain.WeeklyPlan, error)
	ClearDay(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string) (*domain.WeeklyPlan, error)
	// ReplaceWeek swaps the whole day array. The caller must have validated
	// the new week (domain.ValidateWeek); this method does not re-validate.
	ReplaceWeek(ctx context.Context, ownerID, planID primitive.ObjectID, days []domain.DayEntry) (*domain.WeeklyPlan, error)
}

type planService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

// CreateBlank creates a plan with seven empty days in canonical order.
func (s *planService) CreateBlank(ctx context.Context, ownerID primitive.ObjectID, title string) (*domain.WeeklyPlan, error) {
	return s.CreateFromWeek(ctx, ownerID, title, domain.NewBlankWeek())
}

// CreateFromWeek creates a plan seeded with the given day array.
func (s *planService) CreateFromWeek(ctx context.Context, ownerID primitive.ObjectID, title string, days []domain.DayEntry) (*domain.WeeklyPlan, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrPlanValidation)
	}
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create a plan")
	}
	if err := domain.ValidateWeek(days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanValidation, err)
	}

	plan := &domain.WeeklyPlan{
		OwnerID: ownerID,
		Title:   title,
		Days:    days,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanPersistence, err)
	}
	plan.ID = planID
	return plan, nil
}

func (s *planService) Get(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	plan, err := s.planRepo.GetByOwnerAndID(ctx, ownerID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WeeklyPlan, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID cannot be nil")
	}
	return s.planRepo.ListByOwner(ctx, ownerID)
}

func (s *planService) Delete(ctx context.Context, ownerID, planID primitive.ObjectID) error {
	err := s.planRepo.Delete(ctx, ownerID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// AddExercise appends entry to the named day and persists the plan.
func (s *planService) AddExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, entry domain.ExerciseEntry) (*domain.WeeklyPlan, error) {
	return s.mutate(ctx, ownerID, planID, func(plan *domain.WeeklyPlan) error {
		return plan.AddExercise(dayKey, entry)
	})
}

// RemoveExercise deletes the exercise at position within the named day.
func (s *planService) RemoveExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, position int) (*domain.WeeklyPlan, error) {
	return s.mutate(ctx, ownerID, planID, func(plan *domain.WeeklyPlan) error {
		return plan.RemoveExercise(dayKey, position)
	})
}

// MoveExercise swaps the exercise at position with its neighbor; boundary
// moves are no-ops but are still persisted (the day array is rewritten
// unchanged).
func (s *planService) MoveExercise(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string, position int, dir domain.MoveDirection) (*domain.WeeklyPlan, error) {
	return s.mutate(ctx, ownerID, planID, func(plan *domain.WeeklyPlan) error {
		return plan.MoveExercise(dayKey, position, dir)
	})
}

// ClearDay empties the named day and marks it as a rest day.
func (s *planService) ClearDay(ctx context.Context, ownerID, planID primitive.ObjectID, dayKey string) (*domain.WeeklyPlan, error) {
	return s.mutate(ctx, ownerID, planID, func(plan *domain.WeeklyPlan) error {
		return plan.ClearDay(dayKey)
	})
}

func (s *planService) ReplaceWeek(ctx context.Context, ownerID, planID primitive.ObjectID, days []domain.DayEntry) (*domain.WeeklyPlan, error) {
	return s.mutate(ctx, ownerID, planID, func(plan *domain.WeeklyPlan) error {
		plan.ReplaceWeek(days)
		return nil
	})
}

// mutate is the shared load-edit-persist cycle for all plan edits.
func (s *planService) mutate(ctx context.Context, ownerID, planID primitive.ObjectID, edit func(*domain.WeeklyPlan) error) (*domain.WeeklyPlan, error) {
	plan, err := s.Get(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	if err := edit(plan); err != nil {
		switch {
		case errors.Is(err, domain.ErrDayNotFound):
			return nil, ErrDayNotFound
		case errors.Is(err, domain.ErrPositionOutOfRange):
			return nil, ErrExercisePosition
		default:
			return nil, err
		}
	}

	if err := s.planRepo.ReplaceDays(ctx, ownerID, planID, plan.Days); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPlanPersistence, err)
	}
	return plan, nil
}
