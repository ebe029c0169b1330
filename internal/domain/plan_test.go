package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *WeeklyPlan {
	plan := &WeeklyPlan{Title: "Test Plan", Days: NewBlankWeek()}
	plan.Days[0].Exercises = []ExerciseEntry{
		{Name: "Bench Press", Sets: 3, Reps: "10-12", RestSec: 60},
		{Name: "Incline Press", Sets: 3, Reps: "8-10", RestSec: 90},
		{Name: "Cable Fly", Sets: 2, Reps: "12-15", RestSec: 45},
	}
	plan.Days[0].Focus = "Chest"
	return plan
}

func TestNewBlankWeek(t *testing.T) {
	week := NewBlankWeek()
	require.Len(t, week, 7)
	assert.Equal(t, "monday", week[0].Day)
	assert.Equal(t, "sunday", week[6].Day)
	for _, day := range week {
		assert.Equal(t, FocusGeneral, day.Focus)
		assert.NotNil(t, day.Exercises)
		assert.Empty(t, day.Exercises)
	}
	assert.NoError(t, ValidateWeek(week))
}

func TestValidateWeek(t *testing.T) {
	t.Run("wrong length", func(t *testing.T) {
		assert.Error(t, ValidateWeek(NewBlankWeek()[:6]))
	})

	t.Run("wrong order", func(t *testing.T) {
		week := NewBlankWeek()
		week[0], week[1] = week[1], week[0]
		assert.Error(t, ValidateWeek(week))
	})

	t.Run("day keys are case-insensitive", func(t *testing.T) {
		week := NewBlankWeek()
		week[0].Day = "Monday"
		assert.NoError(t, ValidateWeek(week))
	})
}

func TestWeeklyPlanAddExercise(t *testing.T) {
	plan := testPlan()
	entry := ExerciseEntry{Name: "Dips", Sets: 3, Reps: "to failure", RestSec: 120}

	require.NoError(t, plan.AddExercise("tuesday", entry))
	require.Len(t, plan.Days[1].Exercises, 1)
	assert.Equal(t, "Dips", plan.Days[1].Exercises[0].Name)

	assert.ErrorIs(t, plan.AddExercise("someday", entry), ErrDayNotFound)
}

func TestWeeklyPlanRemoveExercise(t *testing.T) {
	t.Run("removes middle entry", func(t *testing.T) {
		plan := testPlan()
		require.NoError(t, plan.RemoveExercise("monday", 1))
		require.Len(t, plan.Days[0].Exercises, 2)
		assert.Equal(t, "Bench Press", plan.Days[0].Exercises[0].Name)
		assert.Equal(t, "Cable Fly", plan.Days[0].Exercises[1].Name)
	})

	t.Run("position out of range", func(t *testing.T) {
		plan := testPlan()
		assert.ErrorIs(t, plan.RemoveExercise("monday", 3), ErrPositionOutOfRange)
		assert.ErrorIs(t, plan.RemoveExercise("monday", -1), ErrPositionOutOfRange)
	})

	t.Run("unknown day", func(t *testing.T) {
		plan := testPlan()
		assert.ErrorIs(t, plan.RemoveExercise("funday", 0), ErrDayNotFound)
	})
}

func TestWeeklyPlanMoveExercise(t *testing.T) {
	t.Run("move up swaps with previous", func(t *testing.T) {
		plan := testPlan()
		require.NoError(t, plan.MoveExercise("monday", 1, MoveUp))
		assert.Equal(t, "Incline Press", plan.Days[0].Exercises[0].Name)
		assert.Equal(t, "Bench Press", plan.Days[0].Exercises[1].Name)
	})

	t.Run("move down swaps with next", func(t *testing.T) {
		plan := testPlan()
		require.NoError(t, plan.MoveExercise("monday", 1, MoveDown))
		assert.Equal(t, "Cable Fly", plan.Days[0].Exercises[1].Name)
		assert.Equal(t, "Incline Press", plan.Days[0].Exercises[2].Name)
	})

	t.Run("move up at top is a no-op", func(t *testing.T) {
		plan := testPlan()
		require.NoError(t, plan.MoveExercise("monday", 0, MoveUp))
		assert.Equal(t, "Bench Press", plan.Days[0].Exercises[0].Name)
	})

	t.Run("move down at bottom is a no-op", func(t *testing.T) {
		plan := testPlan()
		require.NoError(t, plan.MoveExercise("monday", 2, MoveDown))
		assert.Equal(t, "Cable Fly", plan.Days[0].Exercises[2].Name)
	})

	t.Run("position out of range", func(t *testing.T) {
		plan := testPlan()
		assert.ErrorIs(t, plan.MoveExercise("monday", 5, MoveDown), ErrPositionOutOfRange)
	})

	t.Run("invalid direction", func(t *testing.T) {
		plan := testPlan()
		assert.Error(t, plan.MoveExercise("monday", 1, MoveDirection("sideways")))
	})
}

func TestWeeklyPlanClearDay(t *testing.T) {
	plan := testPlan()
	require.NoError(t, plan.ClearDay("monday"))

	day := plan.Day("monday")
	require.NotNil(t, day)
	assert.Empty(t, day.Exercises)
	assert.Equal(t, FocusRest, day.Focus)

	assert.ErrorIs(t, plan.ClearDay("someday"), ErrDayNotFound)
	assert.Nil(t, plan.Day("someday"))
}

func TestWeeklyPlanReplaceWeek(t *testing.T) {
	plan := testPlan()
	newWeek := NewBlankWeek()
	newWeek[2].Focus = "Legs"

	plan.ReplaceWeek(newWeek)
	assert.Equal(t, "Legs", plan.Days[2].Focus)
	assert.Equal(t, "Test Plan", plan.Title)
	assert.Empty(t, plan.Days[0].Exercises)
}
