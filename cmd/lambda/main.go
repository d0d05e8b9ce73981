package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"shoplist-backend/infrastructure/config"
	"shoplist-backend/infrastructure/di"
	"shoplist-backend/interfaces/http/rest"
	"shoplist-backend/interfaces/http/rest/middleware"
	"shoplist-backend/pkg/auth"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	// container holds the dependency injection container
	container *di.Container
)

// init runs during cold start
func init() {
	start := time.Now()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		container.Config,
		container.CommandBus,
		container.QueryBus,
		container.Logger,
	)
	handler := router.Setup()

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(start)),
	)
}

// stripIdentityHeaders removes every client-supplied copy of the trusted
// identity headers. API Gateway delivers event header names lowercased, so
// the match must be case-insensitive or a spoofed x-user-id would survive and
// be canonicalized back into the trusted header by the proxy adapter.
func stripIdentityHeaders(headers map[string]string) {
	for name := range headers {
		if strings.EqualFold(name, middleware.HeaderGatewayAuthorized) ||
			strings.EqualFold(name, middleware.HeaderUserID) ||
			strings.EqualFold(name, middleware.HeaderUserEmail) {
			delete(headers, name)
		}
	}
}

// Handler is the Lambda function handler. The API Gateway JWT authorizer has
// already validated the token by the time this runs, so identity resolution
// reads the authorizer claims and forwards them to the router as trusted
// headers. Client-supplied copies of those headers are dropped first, and a
// request whose claims do not resolve is rejected here without ever reaching
// the router.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	stripIdentityHeaders(req.Headers)

	claims := authorizerClaims(req)
	userID, err := auth.ResolveIdentity(claims)
	if err != nil {
		container.Logger.Warn("Request without resolvable identity",
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("method", req.RequestContext.HTTP.Method),
		)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusUnauthorized,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":true,"message":"Request not authorized by API Gateway","code":401}`,
		}, nil
	}

	req.Headers[middleware.HeaderGatewayAuthorized] = "true"
	req.Headers[middleware.HeaderUserID] = userID
	if claims.Email != "" {
		req.Headers[middleware.HeaderUserEmail] = claims.Email
	}

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	return resp, err
}

// authorizerClaims extracts identity claims from the API Gateway JWT
// authorizer context.
func authorizerClaims(req events.APIGatewayV2HTTPRequest) *auth.Claims {
	authorizer := req.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return nil
	}

	claims := &auth.Claims{}
	if v, ok := authorizer.JWT.Claims[auth.ClaimUsername]; ok {
		claims.Username = v
	}
	if v, ok := authorizer.JWT.Claims[auth.ClaimSubject]; ok {
		claims.Subject = v
	}
	if v, ok := authorizer.JWT.Claims["email"]; ok {
		claims.Email = v
	}
	return claims
}

// main is the entry point for the Lambda function
func main() {
	lambda.Start(Handler)
}
