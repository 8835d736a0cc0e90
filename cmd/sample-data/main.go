// Command sample-data writes a synthetic league of stats and contracts into
// the configured store so the pipeline can run without the collectors.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	service "github.com/rinklabs/contractcomps/internal/app"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/sampledata"
	"github.com/rinklabs/contractcomps/pkg/logger"
)

func main() {
	def := sampledata.Defaults()
	players := flag.Int("players", def.Players, "number of skaters")
	seasons := flag.Int("seasons", def.Seasons, "consecutive seasons per skater")
	first := flag.Int("first-season", def.FirstSeason, "start year of the first season")
	seed := flag.Int64("seed", def.Seed, "random seed")
	root := flag.String("root", "", "local data root (overrides storage.root)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	if *root != "" {
		cfg.Storage.Backend = "local"
		cfg.Storage.Root = *root
	}

	ds, err := sampledata.Generate(sampledata.Config{
		Players:     *players,
		Seasons:     *seasons,
		FirstSeason: *first,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatal(ctx, "failed to generate data", logger.Error(err))
	}

	store, err := service.OpenStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal(ctx, "failed to open storage", logger.Error(err))
	}
	if err := sampledata.Write(ctx, store, cfg.Keys, ds); err != nil {
		log.Fatal(ctx, "failed to write data", logger.Error(err))
	}

	log.Info(ctx, "sample data written",
		logger.String("backend", cfg.Storage.Backend),
		logger.Int("stat_rows", ds.Stats.Len()),
		logger.Int("current_contract_rows", ds.Current.Len()),
		logger.Int("historical_contract_rows", ds.Historical.Len()),
	)
}
