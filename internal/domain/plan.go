// internal/domain/plan.go
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mutation errors surfaced by WeeklyPlan edit methods.
var (
	ErrDayNotFound        = errors.New("day not found in plan")
	ErrPositionOutOfRange = errors.New("exercise position out of range")
)

// Focus sentinels for a day entry.
const (
	FocusRest    = "Rest"    // Marks a rest day; implies an empty exercise list
	FocusGeneral = "General" // Default focus for freshly created blank days
)

// MoveDirection selects a neighbor for MoveExercise.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"   // Toward index 0
	MoveDown MoveDirection = "down" // Toward the end of the list
)

// Weekday carries the canonical key and display label for one calendar day.
type Weekday struct {
	Key   string
	Label string
}

// Weekdays is the fixed weekday order every plan follows.
var Weekdays = [7]Weekday{
	{Key: "monday", Label: "Monday"},
	{Key: "tuesday", Label: "Tuesday"},
	{Key: "wednesday", Label: "Wednesday"},
	{Key: "thursday", Label: "Thursday"},
	{Key: "friday", Label: "Friday"},
	{Key: "saturday", Label: "Saturday"},
	{Key: "sunday", Label: "Sunday"},
}

// CatalogRef is a weak link from a plan line item back to a catalog entry.
// Lookup only: the referenced entry may have been removed since.
type CatalogRef struct {
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	MuscleGroup string             `bson:"group" json:"group"`
}

// ExerciseEntry is one line item inside a day entry.
type ExerciseEntry struct {
	Name       string      `bson:"name" json:"name"`
	Sets       int         `bson:"sets" json:"sets"`
	Reps       string      `bson:"reps" json:"reps"` // Free-text range, e.g. "10-12"
	RestSec    int         `bson:"rest_sec" json:"rest_sec"`
	Notes      string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CatalogRef *CatalogRef `bson:"catalogRef,omitempty" json:"catalogRef,omitempty"`
}

// DayEntry is one weekday's workout definition.
type DayEntry struct {
	Day       string          `bson:"day" json:"day"`     // Canonical key, e.g. "monday"
	Label     string          `bson:"label" json:"label"` // Display label, e.g. "Monday"
	Focus     string          `bson:"focus" json:"focus"` // Muscle group name or FocusRest
	Exercises []ExerciseEntry `bson:"exercises" json:"exercises"`
}

// WeeklyPlan is a user-owned weekly workout plan: a title plus exactly seven
// day entries in fixed weekday order.
type WeeklyPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Title     string             `bson:"title" json:"title"`
	Days      []DayEntry         `bson:"days" json:"days"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewBlankWeek builds seven empty day entries in canonical order.
func NewBlankWeek() []DayEntry {
	days := make([]DayEntry, len(Weekdays))
	for i, wd := range Weekdays {
		days[i] = DayEntry{
			Day:       wd.Key,
			Label:     wd.Label,
			Focus:     FocusGeneral,
			Exercises: []ExerciseEntry{},
		}
	}
	return days
}

// ValidateWeek checks that days has exactly seven entries in canonical
// weekday order. Used by callers of ReplaceWeek; ReplaceWeek itself does not
// re-validate.
func ValidateWeek(days []DayEntry) error {
	if len(days) != len(Weekdays) {
		return fmt.Errorf("week must have %d days, got %d", len(Weekdays), len(days))
	}
	for i, d := range days {
		if !strings.EqualFold(d.Day, Weekdays[i].Key) {
			return fmt.Errorf("day %d must be %q, got %q", i, Weekdays[i].Key, d.Day)
		}
	}
	return nil
}

func (p *WeeklyPlan) dayIndex(dayKey string) int {
	for i := range p.Days {
		if strings.EqualFold(p.Days[i].Day, dayKey) {
			return i
		}
	}
	return -1
}

// Day returns the day entry for dayKey, or nil if the plan has no such day.
func (p *WeeklyPlan) Day(dayKey string) *DayEntry {
	idx := p.dayIndex(dayKey)
	if idx < 0 {
		return nil
	}
	return &p.Days[idx]
}

// AddExercise appends entry to the named day's exercise list.
func (p *WeeklyPlan) AddExercise(dayKey string, entry ExerciseEntry) error {
	idx := p.dayIndex(dayKey)
	if idx < 0 {
		return ErrDayNotFound
	}
	p.Days[idx].Exercises = append(p.Days[idx].Exercises, entry)
	return nil
}

// RemoveExercise deletes the exercise at position within the named day.
func (p *WeeklyPlan) RemoveExercise(dayKey string, position int) error {
	idx := p.dayIndex(dayKey)
	if idx < 0 {
		return ErrDayNotFound
	}
	exercises := p.Days[idx].Exercises
	if position < 0 || position >= len(exercises) {
		return ErrPositionOutOfRange
	}
	p.Days[idx].Exercises = append(exercises[:position], exercises[position+1:]...)
	return nil
}

// MoveExercise swaps the exercise at position with its neighbor in the given
// direction. Moving past the start or end of the list is a no-op, not an error.
func (p *WeeklyPlan) MoveExercise(dayKey string, position int, dir MoveDirection) error {
	idx := p.dayIndex(dayKey)
	if idx < 0 {
		return ErrDayNotFound
	}
	exercises := p.Days[idx].Exercises
	if position < 0 || position >= len(exercises) {
		return ErrPositionOutOfRange
	}
	switch dir {
	case MoveUp:
		if position == 0 {
			return nil // Already at the top
		}
		exercises[position-1], exercises[position] = exercises[position], exercises[position-1]
	case MoveDown:
		if position == len(exercises)-1 {
			return nil // Already at the bottom
		}
		exercises[position+1], exercises[position] = exercises[position], exercises[position+1]
	default:
		return fmt.Errorf("invalid move direction %q", dir)
	}
	return nil
}

// ClearDay empties the named day and marks it as a rest day.
func (p *WeeklyPlan) ClearDay(dayKey string) error {
	idx := p.dayIndex(dayKey)
	if idx < 0 {
		return ErrDayNotFound
	}
	p.Days[idx].Exercises = []ExerciseEntry{}
	p.Days[idx].Focus = FocusRest
	return nil
}

// ReplaceWeek swaps the whole day array. The caller is responsible for
// validating the new week (see ValidateWeek); title and id are untouched.
func (p *WeeklyPlan) ReplaceWeek(days []DayEntry) {
	p.Days = days
}
