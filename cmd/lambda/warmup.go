package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/oukeidos/legalese/internal/logger"
)

const (
	// WarmupSource identifies scheduled warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for siblings to start.
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency bounds self-invocations per warmup event.
	MaxWarmupConcurrency = 20
)

type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// invoker is the part of the Lambda API used for self-invocation.
type invoker interface {
	Invoke(ctx context.Context, in *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

var newInvoker = func(ctx context.Context) (invoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

var warmupDelay = WarmupDelay

// IsWarmupEvent reports whether event is a warmup ping rather than an API request.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var fields map[string]any
	if err := json.Unmarshal(event, &fields); err != nil {
		return nil, false
	}
	source, ok := fields["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: source}
	if concurrency, ok := fields["concurrency"].(float64); ok && concurrency > 0 {
		warmup.Concurrency = min(int(concurrency), MaxWarmupConcurrency)
	}
	return warmup, true
}

// HandleWarmup answers a warmup ping and optionally starts more instances.
func HandleWarmup(ctx context.Context, warmup *WarmupEvent) (any, error) {
	instancesWarmed := 1

	if warmup.Concurrency > 0 {
		if err := selfInvoke(ctx, warmup.Concurrency); err != nil {
			logger.Warn("Warmup self-invoke failed", "error", err, "concurrency", warmup.Concurrency)
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	time.Sleep(warmupDelay)

	return map[string]any{
		"statusCode": http.StatusOK,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke invokes this function count times asynchronously.
func selfInvoke(ctx context.Context, count int) error {
	client, err := newInvoker(ctx)
	if err != nil {
		return err
	}
	functionName := os.Getenv("AWS_LAMBDA_FUNCTION_NAME")

	// Children get concurrency 0 so they never invoke further.
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
