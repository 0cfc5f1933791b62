package main

import (
	"context"
	"log"
	"time"

	"kindra/infrastructure/config"
	"kindra/infrastructure/di"
	"kindra/interfaces/http/rest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Global variables for Lambda lifecycle management
var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The container lives as long as the execution environment, so its
	// cleanup never runs
	container, _, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	handler := rest.NewRouterFromContainer(container, true).Setup()
	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(coldStartTime)))
}

// gatewayHeaders are trusted only when this function sets them
var gatewayHeaders = []string{
	"X-API-Gateway-Authorized", "x-api-gateway-authorized",
	"X-User-ID", "x-user-id",
	"X-User-Email", "x-user-email",
	"X-User-Roles", "x-user-roles",
}

// annotateAuthorizer copies the identity API Gateway's JWT authorizer
// verified into headers the auth middleware trusts
func annotateAuthorizer(req *events.APIGatewayV2HTTPRequest) bool {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	for _, h := range gatewayHeaders {
		delete(req.Headers, h)
	}

	authorizer := req.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return false
	}
	sub := authorizer.JWT.Claims["sub"]
	if sub == "" {
		return false
	}

	req.Headers["X-API-Gateway-Authorized"] = "true"
	req.Headers["X-User-ID"] = sub
	if email := authorizer.JWT.Claims["email"]; email != "" {
		req.Headers["X-User-Email"] = email
	}
	return true
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	preAuthorized := annotateAuthorizer(&req)

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Lambda-Request-ID"] = req.RequestContext.RequestID
	}

	fields := []zap.Field{
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("pre_authorized", preAuthorized),
	}
	if resp.StatusCode >= 500 {
		container.Logger.Error("Lambda error response", append(fields, zap.String("body", resp.Body))...)
	} else {
		container.Logger.Debug("Lambda response", fields...)
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
