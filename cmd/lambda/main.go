// Package main is the hosted translation function for AWS Lambda behind API Gateway.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/oukeidos/legalese/internal/api"
	"github.com/oukeidos/legalese/internal/auth"
	"github.com/oukeidos/legalese/internal/config"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/provider"
)

// configFileEnv optionally points at a config file bundled with the function.
const configFileEnv = "LEGALESE_CONFIG"

var (
	handlerOnce sync.Once
	handler     *api.Handler
	handlerErr  error
)

func main() {
	lambda.Start(handleRequest)
}

func handleRequest(ctx context.Context, event json.RawMessage) (any, error) {
	// Warmup detection runs before anything else so warm pings stay cheap.
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	h, err := getHandler()
	if err != nil {
		return nil, err
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("decode API Gateway event: %w", err)
	}
	return h.HandleAPIGateway(ctx, req)
}

// getHandler builds the handler once per execution environment.
func getHandler() (*api.Handler, error) {
	handlerOnce.Do(func() {
		handler, handlerErr = newHandler()
	})
	return handler, handlerErr
}

func newHandler() (*api.Handler, error) {
	cfg, err := config.Load(config.New(), os.Getenv(configFileEnv))
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{Level: logger.ParseLevel(cfg.LogLevel), Format: logger.FormatJSON})

	t, err := provider.NewTranslator(cfg)
	if err != nil {
		return nil, err
	}
	serverKey, ok := auth.GetEnvKey(cfg.Provider)
	if !ok {
		logger.Warn("No server API key configured; requests without userApiKey get demo output", "env", auth.EnvVar(cfg.Provider))
	}
	logger.Info("Function initialized", "provider", cfg.Provider, "model", cfg.Model)
	return api.NewProviderHandler(t, serverKey, cfg.Provider), nil
}
