// Package main implements the Lambda that pushes domain events and
// broadcast requests to connected websocket clients.
package main

import (
	"context"
	"log"

	"kindra/infrastructure/config"
	"kindra/infrastructure/di"
	"kindra/interfaces/websocket"

	"github.com/aws/aws-lambda-go/lambda"
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

	sender, ok := container.Notifier.(websocket.Sender)
	if !ok {
		log.Fatalf("Notifier %T cannot send socket messages", container.Notifier)
	}

	broadcaster := websocket.NewBroadcaster(sender, container.Logger)
	container.Logger.Info("Websocket send-message handler initialized")
	lambda.Start(broadcaster.Handle)
}
