package sampledata

import "github.com/rinklabs/contractcomps/internal/domain/table"

// Config controls the shape of a generated league.
type Config struct {
	Players     int   // Number of skaters
	Seasons     int   // Consecutive seasons per skater
	FirstSeason int   // Start year of the first season
	Seed        int64 // Random source seed; equal seeds give equal tables
}

// Defaults returns a small league suitable for local runs.
func Defaults() Config {
	return Config{
		Players:     60,
		Seasons:     6,
		FirstSeason: 2017,
		Seed:        1,
	}
}

// Dataset holds the raw tables the pipeline reads.
type Dataset struct {
	Stats      *table.Table
	Current    *table.Table
	Historical *table.Table
	// Skaters are the MoneyPuck tables keyed by season start year.
	Skaters map[int]*table.Table
}
