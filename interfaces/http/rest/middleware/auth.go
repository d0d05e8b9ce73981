package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"shoplist-backend/infrastructure/config"
	"shoplist-backend/pkg/auth"

	"go.uber.org/zap"
)

// Headers set by the Lambda entrypoint after it lifts claims out of the API
// Gateway authorizer context. They are trusted only behind the gateway.
const (
	HeaderGatewayAuthorized = "X-API-Gateway-Authorized"
	HeaderUserID            = "X-User-ID"
	HeaderUserEmail         = "X-User-Email"
)

// Authenticate creates the authentication middleware. Behind API Gateway the
// JWT has already been validated upstream and the identity arrives in headers;
// in standalone mode the bearer token is validated here with the configured
// secret. Either way a request without a resolvable identity gets a 401 and
// never reaches a handler.
func Authenticate(cfg *config.Config, logger *zap.Logger) func(next http.Handler) http.Handler {
	if cfg.IsLambda {
		return authenticateForLambda(logger)
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		logger.Error("JWT validator unavailable, rejecting all requests", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondUnauthorized(w, "Authentication system error")
			})
		}
	}

	return authenticateWithValidator(validator, logger)
}

// authenticateForLambda trusts the identity headers set by the Lambda
// entrypoint from the API Gateway authorizer context.
func authenticateForLambda(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderGatewayAuthorized) != "true" {
				respondUnauthorized(w, "Request not authorized by API Gateway")
				return
			}

			userID := r.Header.Get(HeaderUserID)
			if userID == "" {
				respondUnauthorized(w, "Missing user context from API Gateway")
				return
			}

			userCtx := &auth.UserContext{
				UserID: userID,
				Email:  r.Header.Get(HeaderUserEmail),
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateWithValidator validates bearer tokens locally.
func authenticateWithValidator(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch err {
				case auth.ErrExpiredToken:
					respondUnauthorized(w, "Token has expired")
				case auth.ErrInvalidSignature:
					respondUnauthorized(w, "Invalid token signature")
				default:
					respondUnauthorized(w, "Invalid token")
				}
				return
			}

			userID, err := auth.ResolveIdentity(claims)
			if err != nil {
				respondUnauthorized(w, "No identity claim present")
				return
			}

			userCtx := &auth.UserContext{
				UserID: userID,
				Email:  claims.Email,
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token out of the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    http.StatusUnauthorized,
	})
}
