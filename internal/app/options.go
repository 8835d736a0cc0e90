package service

import (
	"context"
	"time"

	"github.com/rinklabs/contractcomps/internal/adapters/report"
	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeatureSet selects the features aggregated and indexed.
func WithFeatureSet(set features.Set) Option {
	return func(s *Service) {
		if set.Len() > 0 {
			s.set = set
		}
	}
}

// WithNeighbors sets k, the neighbours looked up per contract including
// the contract itself.
func WithNeighbors(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.k = k
		}
	}
}

// WithKeys sets the object keys of every table.
func WithKeys(keys config.Keys) Option {
	return func(s *Service) {
		s.keys = keys
	}
}

// WithYears sets the range of MoneyPuck skater tables the skaters job reads.
func WithYears(years config.Years) Option {
	return func(s *Service) {
		if years.First > 0 && years.Last >= years.First {
			s.years = years
		}
	}
}

// WithEncoder sets the report format.
func WithEncoder(enc report.Encoder) Option {
	return func(s *Service) {
		if enc != nil {
			s.encoder = enc
		}
	}
}

// WithWorkerCount sets the number of goroutines answering neighbour queries.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workers = count
		}
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.runID = next
		}
	}
}

// ConfigOptions translates a loaded Config into service options.
func ConfigOptions(cfg *config.Config) ([]Option, error) {
	set, err := features.Lookup(cfg.Features)
	if err != nil {
		return nil, err
	}
	enc, err := report.ForFormat(cfg.ReportFormat)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithFeatureSet(set),
		WithNeighbors(cfg.Neighbors),
		WithKeys(cfg.Keys),
		WithYears(cfg.Years),
		WithEncoder(enc),
	}, nil
}

// OpenStore opens the object store described by cfg.
func OpenStore(ctx context.Context, cfg config.Storage) (storage.ObjectStore, error) {
	return storage.Open(ctx, cfg.Backend,
		storage.WithBucket(cfg.Bucket),
		storage.WithRoot(cfg.Root),
		storage.WithRegion(cfg.Region),
		storage.WithEndpoint(cfg.Endpoint),
		storage.WithCredentials(cfg.AccessKey, cfg.SecretKey),
		storage.WithSSL(cfg.UseSSL),
	)
}
