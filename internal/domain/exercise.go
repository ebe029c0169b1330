// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single entry in the shared exercise catalog.
// The catalog is seeded out of band and is read-only for regular users.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`                          // Canonical display name (localized)
	NameEN      string             `bson:"name_en,omitempty" json:"nameEn,omitempty"` // Optional English name
	Slug        string             `bson:"slug" json:"slug"`                          // Derived from Name; best-effort unique
	MuscleGroup string             `bson:"group" json:"group"`                        // e.g. "chest", "legs", "back"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty  string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g. "Novice", "Medium", "Advanced"
	ImageKeys   []string           `bson:"imageKeys,omitempty" json:"imageKeys,omitempty"`   // Object storage keys; first one is the thumbnail
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName prefers the localized name, falling back to the English one.
func (e *Exercise) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.NameEN
}

// ThumbnailKey returns the object key of the first image, or "" if none.
func (e *Exercise) ThumbnailKey() string {
	if len(e.ImageKeys) == 0 {
		return ""
	}
	return e.ImageKeys[0]
}

// Slugify derives the lookup slug from a display name: lowercased with
// whitespace runs collapsed to a single hyphen. "Bench Press" -> "bench-press".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// SearchToken extracts the fallback search token from free-text input: the
// first whitespace-delimited word with all non-letter characters stripped,
// lowercased. Returns "" when nothing usable remains.
func SearchToken(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range fields[0] {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
