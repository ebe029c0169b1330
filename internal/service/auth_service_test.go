package service

import (
	"context"
	"testing"
	"time"

	"musclemap/fitness-api/internal/domain"
	"musclemap/fitness-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	users map[string]*domain.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	f.users[user.Email] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

const testJWTSecret = "test-secret-do-not-use"

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new accounts are members", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)

		user, err := svc.Register(ctx, "Alex", "alex@example.com", "hunter2hunter2", "Build muscle")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, user.Role)
		assert.Equal(t, "Build muscle", user.Goal)
		assert.Empty(t, user.PasswordHash)
		assert.False(t, user.ID.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, testJWTSecret, time.Hour)

		_, err := svc.Register(ctx, "Alex", "alex@example.com", "hunter2hunter2", "")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Other", "alex@example.com", "password123", "")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)
		_, err := svc.Register(ctx, "", "alex@example.com", "hunter2hunter2", "")
		assert.Error(t, err)
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, err := svc.Register(ctx, "Alex", "alex@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	t.Run("valid credentials return a signed token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "alex@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Empty(t, user.PasswordHash)

		claims := &jwtClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
		assert.Equal(t, domain.RoleMember, claims.Role)
		assert.Equal(t, "musclemap", claims.Issuer)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alex@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}
