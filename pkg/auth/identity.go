package auth

import (
	"context"

	pkgerrors "shoplist-backend/pkg/errors"
)

// Claim names produced by the upstream authorizer. The hosted sign-in issues
// tokens carrying both a human-readable username and an opaque subject.
const (
	ClaimUsername = "cognito:username"
	ClaimSubject  = "sub"
)

// Claims holds the identity claims attached to a request after the upstream
// authorizer has validated the bearer token.
type Claims struct {
	Username string
	Subject  string
	Email    string
}

// UserContext is the resolved caller identity carried through the request.
type UserContext struct {
	UserID string
	Email  string
}

// ResolveIdentity derives the tenant identifier from authorizer claims.
// The username claim wins over the subject claim; a request with neither is
// rejected outright, so no operation ever runs without an owner.
func ResolveIdentity(claims *Claims) (string, error) {
	if claims == nil {
		return "", pkgerrors.NewUnauthorizedError("missing authorization context")
	}
	if claims.Username != "" {
		return claims.Username, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", pkgerrors.NewUnauthorizedError("no identity claim present")
}

// contextKey is a private type for context values set by this package.
type contextKey int

const userContextKey contextKey = iota

// SetUserInContext attaches the resolved user to the request context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the resolved user from the request context.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in request context")
	}
	return user, nil
}
