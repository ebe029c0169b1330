package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Run("lowercases and hyphenates", func(t *testing.T) {
		assert.Equal(t, "bench-press", Slugify("Bench Press"))
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		assert.Equal(t, "overhead-press", Slugify("  Overhead \t Press  "))
	})

	t.Run("single word", func(t *testing.T) {
		assert.Equal(t, "deadlift", Slugify("Deadlift"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Slugify("   "))
	})

	t.Run("keeps non-latin letters", func(t *testing.T) {
		assert.Equal(t, "жим-лежачи", Slugify("Жим Лежачи"))
	})
}

func TestSearchToken(t *testing.T) {
	t.Run("first word only", func(t *testing.T) {
		assert.Equal(t, "bench", SearchToken("Bench Press"))
	})

	t.Run("strips non-letters", func(t *testing.T) {
		assert.Equal(t, "tbar", SearchToken("T-Bar Row"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", SearchToken("   "))
	})

	t.Run("digits only first word", func(t *testing.T) {
		assert.Equal(t, "", SearchToken("21s curls"))
	})
}

func TestExerciseDisplayName(t *testing.T) {
	t.Run("prefers localized name", func(t *testing.T) {
		e := Exercise{Name: "Жим лежачи", NameEN: "Bench Press"}
		assert.Equal(t, "Жим лежачи", e.DisplayName())
	})

	t.Run("falls back to english name", func(t *testing.T) {
		e := Exercise{NameEN: "Bench Press"}
		assert.Equal(t, "Bench Press", e.DisplayName())
	})
}

func TestExerciseThumbnailKey(t *testing.T) {
	t.Run("first image is the thumbnail", func(t *testing.T) {
		e := Exercise{ImageKeys: []string{"exercises/1/a.jpg", "exercises/1/b.jpg"}}
		assert.Equal(t, "exercises/1/a.jpg", e.ThumbnailKey())
	})

	t.Run("no images", func(t *testing.T) {
		e := Exercise{}
		assert.Equal(t, "", e.ThumbnailKey())
	})
}
