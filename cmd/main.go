package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	service "github.com/rinklabs/contractcomps/internal/app"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/rinklabs/contractcomps/pkg/metrics"
)

// Timeout constants.
const (
	pushTimeout = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// run parses flags, runs one job and prints its summary to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("contractcomps", flag.ContinueOnError)
	job := fs.String("job", service.JobRecommend, "job to run: "+strings.Join(service.Jobs(), ", "))
	contracts := fs.String("contracts", "", "comma separated contract ids (overrides contract_ids)")
	configPath := fs.String("config", "", "YAML config file (overrides "+config.EnvFile+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath != "" {
		if err := os.Setenv(config.EnvFile, *configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWithOptions(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := service.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	opts, err := service.ConfigOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	svc := service.New(store, append(opts, service.WithLogger(log))...)

	ids := cfg.ContractIDs
	if *contracts != "" {
		ids = strings.Split(*contracts, ",")
	}

	sum, runErr := svc.Run(ctx, *job, ids)
	pushMetrics(ctx, log, cfg.PushgatewayURL, *job)

	if sum.RunID != "" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return fmt.Errorf("print summary: %w", err)
		}
	}
	return runErr
}

// pushMetrics sends the run's metrics to the Pushgateway when one is set.
func pushMetrics(ctx context.Context, log logger.Logger, url, job string) {
	if url == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if err := metrics.Push(pushCtx, url, "contracts_"+job, nil); err != nil {
		log.Warn(ctx, "metrics push failed", logger.String("url", url), logger.Error(err))
	}
}
