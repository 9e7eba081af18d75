package server_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/hseal/internal/server"
)

func TestMemoryUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := server.NewMemoryUsers().WithBcryptCost(bcrypt.MinCost)

	u, err := users.Register(ctx, " Bob@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	_, err = users.Register(ctx, "bob@example.com", "other")
	require.ErrorIs(t, err, server.ErrUserExists)

	got, err := users.Authenticate(ctx, "BOB@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = users.Authenticate(ctx, "bob@example.com", "wrong")
	require.ErrorIs(t, err, server.ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, server.ErrInvalidCredentials)

	require.NoError(t, users.SetPassword(ctx, u.ID, "new-password"))
	_, err = users.Authenticate(ctx, "bob@example.com", "new-password")
	require.NoError(t, err)
	require.ErrorIs(t, users.SetPassword(ctx, "missing", "x"), server.ErrUserNotFound)
	require.ErrorIs(t, users.SetPassword(ctx, u.ID, strings.Repeat("p", 73)), server.ErrPasswordTooLong)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, server.ErrUserNotFound)
}

func TestEmailHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, server.EmailHash("bob@example.com"), server.EmailHash("  BOB@Example.COM "))
	assert.NotEqual(t, server.EmailHash("bob@example.com"), server.EmailHash("bob@example.org"))
	assert.Len(t, server.EmailHash("bob@example.com"), 64)
}
