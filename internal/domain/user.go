package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type for user roles.
type Role string

const (
	// RoleMember is a regular app user who owns weekly plans.
	RoleMember Role = "member"
	// RoleAdmin may seed and edit the shared exercise catalog.
	RoleAdmin Role = "admin"
)

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Goal         string             `bson:"goal,omitempty" json:"goal,omitempty"` // e.g. "Build muscle", "Lose weight"
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
