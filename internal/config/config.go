// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/rinklabs/contractcomps/internal/domain/features"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Storage selects and configures the object store.
	Storage Storage `koanf:"storage"`

	// Keys are the object keys of every table the jobs read or write.
	Keys Keys `koanf:"keys"`

	// Features names the feature set used for aggregation and the index.
	Features string `koanf:"features"`

	// Years is the range of MoneyPuck skater tables the skaters job combines.
	// Years without a table are skipped.
	Years Years `koanf:"years"`

	// Neighbors is k, the number of neighbours per query including itself.
	Neighbors int `koanf:"neighbors"`

	// ContractIDs are the contracts the recommend job answers for.
	ContractIDs []string `koanf:"contract_ids"`

	// ReportFormat is csv or parquet.
	ReportFormat string `koanf:"report_format"`

	// PushgatewayURL receives run metrics when set.
	PushgatewayURL string `koanf:"pushgateway_url"`
}

// Storage configures the object store backend.
type Storage struct {
	Backend   string `koanf:"backend"`
	Bucket    string `koanf:"bucket"`
	Root      string `koanf:"root"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// Years is an inclusive range of season start years.
type Years struct {
	First int `koanf:"first"`
	Last  int `koanf:"last"`
}

// Keys are object keys within the bucket (or local root).
type Keys struct {
	Stats               string `koanf:"stats"`
	Derived             string `koanf:"derived"`
	CurrentContracts    string `koanf:"current_contracts"`
	HistoricalContracts string `koanf:"historical_contracts"`
	Merged              string `koanf:"merged"`
	// SkaterYears is the prefix of the per-year MoneyPuck tables,
	// <prefix><year>/skaters_<year>.csv.
	SkaterYears    string `koanf:"skater_years"`
	Skaters        string `koanf:"skaters"`
	MergedAdvanced string `koanf:"merged_advanced"`
	AverageStats   string `koanf:"average_stats"`
	// Reports is a prefix; each run writes under it.
	Reports string `koanf:"reports"`
}

// SkaterYear returns the key of the MoneyPuck table for a start year.
func (k Keys) SkaterYear(year int) string {
	return path.Join(k.SkaterYears, strconv.Itoa(year), fmt.Sprintf("skaters_%d.csv", year))
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Storage: Storage{
			Backend: "local",
			Root:    "data",
			Region:  "us-east-2",
		},
		Keys: Keys{
			Stats:               "players/stats/player_stats.csv",
			Derived:             "players/stats/advanced_stats.csv",
			CurrentContracts:    "players/contracts/current_contracts.csv",
			HistoricalContracts: "players/contracts/historical_contracts.csv",
			Merged:              "players/merged_data/merged_data.csv",
			SkaterYears:         "skaters/",
			Skaters:             "merged_data/skaters/merged_data.csv",
			MergedAdvanced:      "players/merged_data/merged_data_advanced_contracts.csv",
			AverageStats:        "players/average_stats/average_stats_advanced_contracts.csv",
			Reports:             "players/recommendations/",
		},
		Years:        Years{First: 2008, Last: 2024},
		Features:     features.Skater.Name,
		Neighbors:    10,
		ReportFormat: "csv",
	}
}

// Validate checks field values and cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local":
	case "s3", "minio", "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for backend %q", ErrInvalidConfig, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Neighbors < 1 {
		return fmt.Errorf("%w: neighbors must be at least 1, got %d", ErrInvalidConfig, c.Neighbors)
	}
	if _, err := features.Lookup(c.Features); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.ReportFormat {
	case "csv", "parquet":
	default:
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Years.First < 1000 || c.Years.Last < c.Years.First {
		return fmt.Errorf("%w: years must be an ascending range of start years, got %d..%d",
			ErrInvalidConfig, c.Years.First, c.Years.Last)
	}
	for _, key := range []string{c.Keys.Merged, c.Keys.Skaters, c.Keys.MergedAdvanced, c.Keys.AverageStats} {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: table keys must not be empty", ErrInvalidConfig)
		}
	}
	return nil
}
