package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server"
	"github.com/dmitrijs2005/finlink/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, "json")

	handler, err := server.NewRelayHandler(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	lambda.Start(handler.Handle)
}
