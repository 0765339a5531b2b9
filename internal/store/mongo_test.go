package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritmo-backend/internal/models"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "ritmo_test_"+models.GenerateTokenID()[:8])
	if err != nil {
		t.Skipf("Mongo not available: %v", err)
	}
	defer func() {
		_ = s.users.Database().Drop(ctx)
		_ = s.Close(ctx)
	}()

	user := models.NewUser("ana", "ana@example.com", "hash")
	require.NoError(t, s.Save(ctx, user))

	got, err := s.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "hash", got.PasswordHash)

	assert.ErrorIs(t, s.Save(ctx, models.NewUser("ana", "x@example.com", "hash")), ErrUserExists)

	_, err = s.DeleteByID(ctx, user.UserID)
	require.NoError(t, err)
	_, err = s.FindByID(ctx, user.UserID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
