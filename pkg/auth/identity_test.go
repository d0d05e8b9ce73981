package auth

import (
	"context"
	"testing"

	pkgerrors "shoplist-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentity_UsernameWinsOverSubject(t *testing.T) {
	claims := &Claims{
		Username: "alice",
		Subject:  "sub-12345",
	}

	userID, err := ResolveIdentity(claims)

	assert.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestResolveIdentity_FallsBackToSubject(t *testing.T) {
	claims := &Claims{Subject: "sub-12345"}

	userID, err := ResolveIdentity(claims)

	assert.NoError(t, err)
	assert.Equal(t, "sub-12345", userID)
}

func TestResolveIdentity_NoClaims(t *testing.T) {
	userID, err := ResolveIdentity(&Claims{})

	assert.Empty(t, userID)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestResolveIdentity_NilClaims(t *testing.T) {
	userID, err := ResolveIdentity(nil)

	assert.Empty(t, userID)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestUserContext_RoundTrip(t *testing.T) {
	user := &UserContext{UserID: "alice", Email: "alice@example.com"}

	ctx := SetUserInContext(context.Background(), user)
	got, err := GetUserFromContext(ctx)

	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestGetUserFromContext_Missing(t *testing.T) {
	got, err := GetUserFromContext(context.Background())

	assert.Nil(t, got)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestGetUserFromContext_EmptyUserID(t *testing.T) {
	ctx := SetUserInContext(context.Background(), &UserContext{})

	got, err := GetUserFromContext(ctx)

	assert.Nil(t, got)
	assert.True(t, pkgerrors.IsUnauthorized(err))
}
