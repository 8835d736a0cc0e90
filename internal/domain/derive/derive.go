// Package derive adds rate and share columns to a season stats table.
package derive

import (
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// Input columns of the season stats table.
const (
	ColGamesPlayed   = "gamesPlayed"
	ColTimeOnIce     = "timeOnIcePerGame"
	ColFaceoffWinPct = "faceoffWinPct"
)

// ratio is out = num / den.
type ratio struct {
	out string
	num string
	den string
}

var perGame = []ratio{
	{"goals_per_game", "goals", ColGamesPlayed},
	{"assists_per_game", "assists", ColGamesPlayed},
	{"points_per_game", "points", ColGamesPlayed},
	{"shots_per_game", "shots", ColGamesPlayed},
	{"even_strength_goals_per_game", "evGoals", ColGamesPlayed},
	{"even_strength_points_per_game", "evPoints", ColGamesPlayed},
	{"power_play_goals_per_game", "ppGoals", ColGamesPlayed},
	{"power_play_points_per_game", "ppPoints", ColGamesPlayed},
}

var shares = []ratio{
	{"power_play_point_percentage", "ppPoints", "points"},
	{"even_strength_point_percentage", "evPoints", "points"},
	{"even_strength_goal_percentage", "evGoals", "goals"},
	{"power_play_goal_percentage", "ppGoals", "goals"},
	{"short_handed_goal_percentage", "shGoals", "goals"},
	{"short_handed_point_percentage", "shPoints", "points"},
}

// per60 stats are scaled by time on ice (minutes per game).
var per60 = []ratio{
	{"goals_per_60", "goals", ColTimeOnIce},
	{"assists_per_60", "assists", ColTimeOnIce},
	{"points_per_60", "points", ColTimeOnIce},
	{"shots_per_60", "shots", ColTimeOnIce},
}

// Columns lists every column Derive writes, in output order.
func Columns() []string {
	out := make([]string, 0, len(perGame)+len(shares)+len(per60))
	for _, group := range [][]ratio{perGame, shares, per60} {
		for _, r := range group {
			out = append(out, r.out)
		}
	}
	return out
}

// Derive returns a copy of stats with the per-game, share and per-60
// columns added and empty faceoffWinPct cells set to 0. A division with a
// missing or zero denominator leaves an empty cell.
func Derive(stats *table.Table) (*table.Table, error) {
	if !stats.Has(ColGamesPlayed) {
		return nil, model.Errorf(model.KindInvalidInput, "derive", "", "missing column %q", ColGamesPlayed)
	}

	out := stats.Clone()
	for _, c := range Columns() {
		out.AddColumn(c)
	}
	out.AddColumn(ColFaceoffWinPct)

	for i := 0; i < out.Len(); i++ {
		for _, r := range perGame {
			setRatio(out, i, r, 1)
		}
		for _, r := range shares {
			setRatio(out, i, r, 1)
		}
		for _, r := range per60 {
			setRatio(out, i, r, 60)
		}
		if _, ok := out.Float(i, ColFaceoffWinPct); !ok {
			out.Set(i, ColFaceoffWinPct, "0")
		}
	}
	return out, nil
}

// setRatio writes num / (den*unit) * unit.
func setRatio(t *table.Table, row int, r ratio, unit float64) {
	num, okN := t.Float(row, r.num)
	den, okD := t.Float(row, r.den)
	if !okN || !okD || den == 0 {
		t.Set(row, r.out, "")
		return
	}
	t.SetFloat(row, r.out, num/(den*unit)*unit)
}
