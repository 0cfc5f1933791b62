// Package main implements the Lambda that regenerates a user's insights
// after their moments or connections change.
package main

import (
	"context"
	"log"
	"time"

	"kindra/infrastructure/config"
	"kindra/infrastructure/di"
	"kindra/interfaces/events"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}
	defer cleanup()

	handler := events.NewRefreshHandler(
		container.InsightService,
		events.DynamoDBLock(container.RefreshLock),
		30*time.Second,
		container.Logger,
	)

	container.Logger.Info("Insight refresh handler initialized", zap.String("environment", cfg.Environment))
	lambda.Start(handler.Handle)
}
