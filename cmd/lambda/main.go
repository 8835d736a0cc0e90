// Command lambda runs pipeline jobs as an AWS Lambda function.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	service "github.com/rinklabs/contractcomps/internal/app"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/rinklabs/contractcomps/pkg/metrics"
)

// Event is the invocation payload. Empty fields fall back to config.
type Event struct {
	Job         string   `json:"job"`
	ContractIDs []string `json:"contract_ids"`
}

// runner builds the service for one invocation.
type runner func(ctx context.Context) (*service.Service, *config.Config, error)

func fromConfig(ctx context.Context) (*service.Service, *config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.InitWithOptions(logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, nil, err
	}
	applyLevel(ctx, cfg.LogLevel)

	store, err := service.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	opts, err := service.ConfigOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	return service.New(store, append(opts, service.WithLogger(logger.Get()))...), cfg, nil
}

// applyLevel sets the configured log level, falling back to info on
// invalid input.
func applyLevel(ctx context.Context, level string) {
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

func handler(build runner) func(context.Context, Event) (service.Summary, error) {
	return func(ctx context.Context, e Event) (service.Summary, error) {
		svc, cfg, err := build(ctx)
		if err != nil {
			return service.Summary{}, fmt.Errorf("setup: %w", err)
		}
		job := e.Job
		if job == "" {
			job = service.JobAll
		}
		ids := e.ContractIDs
		if len(ids) == 0 {
			ids = cfg.ContractIDs
		}

		sum, err := svc.Run(ctx, job, ids)
		if cfg.PushgatewayURL != "" {
			if perr := metrics.Push(ctx, cfg.PushgatewayURL, "contracts_"+job, nil); perr != nil {
				logger.Get().Warn(ctx, "metrics push failed", logger.Error(perr))
			}
		}
		return sum, err
	}
}

func main() {
	lambda.Start(handler(fromConfig))
}
