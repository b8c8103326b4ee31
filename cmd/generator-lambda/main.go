package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/app"
	handlers "github.com/shubh-37/linkedin-autoposter/internal/lambda"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
)

func main() {
	log := logging.NewJSONLogger(logging.LevelFromEnv())

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithError(err).Fatal("Configuration error")
	}
	if err := cfg.ValidateForGeneration(); err != nil {
		log.WithError(err).Fatal("Configuration error")
	}

	ctx := context.Background()
	deps, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize")
	}

	fn, err := deps.GeneratorFunction()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize generator")
	}

	lambda.Start(handlers.NewGeneratorHandler(fn, log).Handle)
}
