package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Validation errors surfaced to the middleware.
var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidToken     = errors.New("invalid token")
)

// JWTConfig configures token validation for the standalone server mode,
// where no API Gateway authorizer sits in front of the handler.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates bearer tokens and extracts identity claims.
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator from configuration.
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	return &JWTValidator{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
	}, nil
}

// ValidateToken parses and validates a bearer token, returning its claims.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if v, ok := mapClaims[ClaimUsername].(string); ok {
		claims.Username = v
	}
	if v, ok := mapClaims[ClaimSubject].(string); ok {
		claims.Subject = v
	}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}

	return claims, nil
}
