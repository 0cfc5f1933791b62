// Package main implements the websocket $connect and $disconnect Lambda.
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

	var validator websocket.TokenValidator
	if container.JWTValidator != nil {
		validator = container.JWTValidator
	}

	handler := websocket.NewConnectHandler(container.Repositories.Sockets, validator, container.Logger)
	container.Logger.Info("Websocket connect handler initialized")
	lambda.Start(handler.Handle)
}
