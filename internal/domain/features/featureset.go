// Package features collapses a contract's multi-season stat history into
// one recency-weighted feature vector.
package features

import (
	"fmt"
	"sort"
)

// WeightedSuffix marks weighted feature columns in the average-stats table,
// distinguishing them from the raw per-season columns they are joined to.
const WeightedSuffix = "_y"

// Set is an ordered, named list of feature columns. An index is fitted
// on exactly one Set and only answers queries built from the same Set.
type Set struct {
	Name    string
	Columns []string
}

// Skater is the canonical feature set: per-game and per-60 production,
// strength splits, usage and on-ice share metrics.
var Skater = Set{
	Name: "skater",
	Columns: []string{
		"goals_per_game",
		"assists_per_game",
		"points_per_game",
		"even_strength_points_per_game",
		"power_play_points_per_game",
		"goals_per_60",
		"assists_per_60",
		"points_per_60",
		"timeOnIcePerGame",
		"shotsBlockedByPlayer",
		"onIce_corsiPercentage",
		"onIce_xGoalsPercentage",
	},
}

// Legacy is the older counting-stat set. It has no expected-goals share.
var Legacy = Set{
	Name: "legacy",
	Columns: []string{
		"goals",
		"assists",
		"plusMinus",
		"points",
		"pointsPerGame",
		"timeOnIcePerGame",
		"shotsBlockedByPlayer",
		"onIce_corsiPercentage",
	},
}

var registry = map[string]Set{
	Skater.Name: Skater,
	Legacy.Name: Legacy,
}

// Lookup returns the named feature set.
func Lookup(name string) (Set, error) {
	s, ok := registry[name]
	if !ok {
		return Set{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownSet, name, Names())
	}
	return s, nil
}

// Names lists the registered set names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the vector dimension.
func (s Set) Len() int { return len(s.Columns) }

// WeightedColumns returns the column names used for aggregated values.
func (s Set) WeightedColumns() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c + WeightedSuffix
	}
	return out
}
