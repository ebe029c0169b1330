package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"musclemap/fitness-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGenerator returns canned model output.
type fakeGenerator struct {
	textReply string
	jsonReply string
	err       error
	// lastPrompt records the prompt of the most recent call.
	lastPrompt string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.textReply, f.err
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.jsonReply, f.err
}

func weekJSON(t *testing.T, days []domain.DayEntry) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"week_plan": days})
	require.NoError(t, err)
	return string(raw)
}

func TestAssistantChat(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	setup := func(t *testing.T, gen *fakeGenerator) (AssistantService, PlanService, primitive.ObjectID) {
		repo := newFakePlanRepo()
		planID := seedPlan(t, repo, owner)
		planSvc := NewPlanService(repo)
		return NewAssistantService(planSvc, gen), planSvc, planID
	}

	t.Run("plain answer leaves the plan alone", func(t *testing.T) {
		gen := &fakeGenerator{textReply: "Rest 60 to 90 seconds between sets."}
		svc, planSvc, planID := setup(t, gen)

		result, err := svc.Chat(ctx, owner, planID, "How long should I rest?")
		require.NoError(t, err)
		assert.Equal(t, "Rest 60 to 90 seconds between sets.", result.Reply)
		assert.False(t, result.PlanUpdated)
		assert.Nil(t, result.Plan)

		plan, err := planSvc.Get(ctx, owner, planID)
		require.NoError(t, err)
		assert.Len(t, plan.Days[0].Exercises, 2)
	})

	t.Run("prompt carries the current plan and question", func(t *testing.T) {
		gen := &fakeGenerator{textReply: "ok"}
		svc, _, planID := setup(t, gen)

		_, err := svc.Chat(ctx, owner, planID, "Is this plan balanced?")
		require.NoError(t, err)
		assert.Contains(t, gen.lastPrompt, "Bench Press")
		assert.Contains(t, gen.lastPrompt, "Is this plan balanced?")
		assert.Contains(t, gen.lastPrompt, "Push Week")
	})

	t.Run("embedded week update replaces the plan", func(t *testing.T) {
		newWeek := domain.NewBlankWeek()
		newWeek[0].Focus = "Legs"
		newWeek[0].Exercises = []domain.ExerciseEntry{
			{Name: "Squat", Sets: 5, Reps: "5", RestSec: 180},
		}
		gen := &fakeGenerator{
			textReply: "Done, Monday is now leg day.\n```json\n" + weekJSON(t, newWeek) + "\n```",
		}
		svc, planSvc, planID := setup(t, gen)

		result, err := svc.Chat(ctx, owner, planID, "Make Monday a leg day")
		require.NoError(t, err)
		assert.True(t, result.PlanUpdated)
		assert.Equal(t, "Done, Monday is now leg day.\n\nPlan updated.", result.Reply)
		require.NotNil(t, result.Plan)
		assert.Equal(t, "Legs", result.Plan.Days[0].Focus)

		stored, err := planSvc.Get(ctx, owner, planID)
		require.NoError(t, err)
		assert.Equal(t, "Squat", stored.Days[0].Exercises[0].Name)
	})

	t.Run("malformed update block is ignored", func(t *testing.T) {
		gen := &fakeGenerator{
			textReply: "Updated!\n```json\n{\"week_plan\": [not json\n```",
		}
		svc, planSvc, planID := setup(t, gen)

		result, err := svc.Chat(ctx, owner, planID, "Change the plan")
		require.NoError(t, err)
		assert.False(t, result.PlanUpdated)
		assert.Equal(t, gen.textReply, result.Reply)

		stored, err := planSvc.Get(ctx, owner, planID)
		require.NoError(t, err)
		assert.Len(t, stored.Days[0].Exercises, 2)
	})

	t.Run("incomplete week in update block is ignored", func(t *testing.T) {
		gen := &fakeGenerator{
			textReply: "Here you go.\n```json\n" + weekJSON(t, domain.NewBlankWeek()[:3]) + "\n```",
		}
		svc, _, planID := setup(t, gen)

		result, err := svc.Chat(ctx, owner, planID, "Shrink the plan")
		require.NoError(t, err)
		assert.False(t, result.PlanUpdated)
		assert.Equal(t, gen.textReply, result.Reply)
	})

	t.Run("generator failure is surfaced", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("deadline exceeded")}
		svc, _, planID := setup(t, gen)

		_, err := svc.Chat(ctx, owner, planID, "Hello?")
		assert.ErrorIs(t, err, ErrAssistantUnavailable)
	})

	t.Run("empty question is rejected", func(t *testing.T) {
		svc, _, planID := setup(t, &fakeGenerator{})
		_, err := svc.Chat(ctx, owner, planID, "   ")
		assert.Error(t, err)
	})

	t.Run("unknown plan", func(t *testing.T) {
		svc, _, _ := setup(t, &fakeGenerator{textReply: "ok"})
		_, err := svc.Chat(ctx, owner, primitive.NewObjectID(), "Hi")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestExtractWeekUpdate(t *testing.T) {
	t.Run("no block", func(t *testing.T) {
		week, stripped, ok := extractWeekUpdate("Just an answer.")
		assert.False(t, ok)
		assert.Nil(t, week)
		assert.Equal(t, "Just an answer.", stripped)
	})

	t.Run("block without week_plan key", func(t *testing.T) {
		_, _, ok := extractWeekUpdate("Sure.\n```json\n{\"something_else\": 1}\n```")
		assert.False(t, ok)
	})

	t.Run("valid block is stripped from the reply", func(t *testing.T) {
		raw, err := json.Marshal(map[string]any{"week_plan": domain.NewBlankWeek()})
		require.NoError(t, err)

		week, stripped, ok := extractWeekUpdate("Done.\n```json\n" + string(raw) + "\n```")
		require.True(t, ok)
		assert.Len(t, week, 7)
		assert.Equal(t, "Done.", stripped)
		assert.NotContains(t, stripped, "```")
	})
}

func TestAssistantGeneratePlan(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	setup := func(t *testing.T, gen *fakeGenerator) (AssistantService, *fakePlanRepo) {
		repo := newFakePlanRepo()
		return NewAssistantService(NewPlanService(repo), gen), repo
	}

	validRequest := GeneratePlanRequest{
		Goal:      "Build muscle",
		Days:      4,
		Level:     "intermediate",
		Equipment: "full gym",
	}

	t.Run("creates a plan from the generated week", func(t *testing.T) {
		week := domain.NewBlankWeek()
		week[0].Focus = "Chest"
		week[0].Exercises = []domain.ExerciseEntry{
			{Name: "Bench Press", Sets: 4, Reps: "8-10", RestSec: 90, Notes: "Pause at the bottom"},
		}
		gen := &fakeGenerator{jsonReply: weekJSON(t, week)}
		svc, repo := setup(t, gen)

		plan, err := svc.GeneratePlan(ctx, owner, validRequest)
		require.NoError(t, err)
		assert.Equal(t, "Build muscle (4 days, intermediate)", plan.Title)
		assert.Equal(t, "Chest", plan.Days[0].Focus)
		assert.Len(t, repo.plans, 1)

		assert.Contains(t, gen.lastPrompt, "4-day")
		assert.Contains(t, gen.lastPrompt, "intermediate")
		assert.Contains(t, gen.lastPrompt, "full gym")
	})

	t.Run("invalid JSON from the model", func(t *testing.T) {
		gen := &fakeGenerator{jsonReply: "sorry, I can't do that"}
		svc, repo := setup(t, gen)

		_, err := svc.GeneratePlan(ctx, owner, validRequest)
		assert.ErrorIs(t, err, ErrAssistantUnavailable)
		assert.Empty(t, repo.plans)
	})

	t.Run("week with wrong day order is rejected", func(t *testing.T) {
		week := domain.NewBlankWeek()
		week[0], week[6] = week[6], week[0]
		gen := &fakeGenerator{jsonReply: weekJSON(t, week)}
		svc, repo := setup(t, gen)

		_, err := svc.GeneratePlan(ctx, owner, validRequest)
		assert.ErrorIs(t, err, ErrAssistantUnavailable)
		assert.Empty(t, repo.plans)
	})

	t.Run("request validation", func(t *testing.T) {
		svc, _ := setup(t, &fakeGenerator{})

		_, err := svc.GeneratePlan(ctx, owner, GeneratePlanRequest{Days: 3, Level: "beginner"})
		assert.Error(t, err)

		_, err = svc.GeneratePlan(ctx, owner, GeneratePlanRequest{Goal: "Get fit", Days: 0, Level: "beginner"})
		assert.Error(t, err)

		_, err = svc.GeneratePlan(ctx, owner, GeneratePlanRequest{Goal: "Get fit", Days: 8, Level: "beginner"})
		assert.Error(t, err)
	})
}

func TestChatPromptShape(t *testing.T) {
	plan := &domain.WeeklyPlan{Title: "Cut Phase", Days: domain.NewBlankWeek()}
	prompt, err := chatPrompt(plan, "What about cardio?")
	require.NoError(t, err)

	assert.True(t, strings.Contains(prompt, "Cut Phase"))
	assert.True(t, strings.Contains(prompt, `"What about cardio?"`))
	assert.True(t, strings.Contains(prompt, "week_plan"))
}
