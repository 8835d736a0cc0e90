// Package sampledata generates a synthetic league of skater stats and
// contracts shaped like the collection jobs' output tables.
package sampledata

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// Id bases keep generated ids in the same ranges as real ones.
const (
	playerIDBase   = 8470000
	contractIDBase = 1000
)

// Cap and salary ranges, in dollars.
const (
	baseCap      = 80_000_000
	capGrowth    = 2_000_000
	minCapHit    = 750_000
	capHitSpread = 9_000_000
)

// StatColumns is the header of the generated season stats table.
var StatColumns = []string{
	model.ColPlayerID, "name", model.ColSeasonID,
	"gamesPlayed", "goals", "assists", "points", "shots",
	"evGoals", "evPoints", "ppGoals", "ppPoints", "shGoals", "shPoints",
	"timeOnIcePerGame", "shotsBlockedByPlayer", "plusMinus", "pointsPerGame", "faceoffWinPct",
}

// SkaterColumns is the header of the per-year MoneyPuck skater tables.
// Their season column holds the start year.
var SkaterColumns = []string{
	model.ColPlayerID, model.ColSeason, "name", "position", model.ColSituation,
	"games_played", "icetime", "onIce_corsiPercentage", "onIce_xGoalsPercentage",
}

// Situations are the MoneyPuck rows written per skater season.
var Situations = []string{model.SituationAll, "5on5", "5on4"}

// ContractColumns is the header of both generated contract tables.
var ContractColumns = []string{
	model.ColContractID, model.ColNHLID, model.ColLastName, model.ColSeason,
	model.ColValue, model.ColLength, model.ColCapHit, model.ColAAV, model.ColPercentOfCap,
}

var lastNames = []string{
	"Anderson", "Bergeron", "Carlsson", "Doughty", "Eriksson", "Forsberg",
	"Gaudreau", "Hughes", "Iginla", "Jagr", "Kopitar", "Larkin",
	"MacKinnon", "Nylander", "Ovechkin", "Pastrnak", "Quick", "Rantanen",
	"Stamkos", "Tkachuk",
}

// Generate builds a league from cfg. Every skater plays cfg.Seasons
// consecutive seasons, with one MoneyPuck row per situation in each. Most
// skaters sign two contracts, the first one recorded in the historical
// table and the second in the current table; every fifth skater signs a
// single contract covering all seasons.
func Generate(cfg Config) (Dataset, error) {
	if cfg.Players < 1 || cfg.Seasons < 1 {
		return Dataset{}, fmt.Errorf("%w: players=%d seasons=%d", ErrInvalidConfig, cfg.Players, cfg.Seasons)
	}
	first := season.Of(cfg.FirstSeason)
	if !first.Valid() {
		return Dataset{}, fmt.Errorf("%w: first season %d", ErrInvalidConfig, cfg.FirstSeason)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible synthetic data
	ds := Dataset{
		Stats:      table.MustNew(StatColumns...),
		Current:    table.MustNew(ContractColumns...),
		Historical: table.MustNew(ContractColumns...),
		Skaters:    make(map[int]*table.Table, cfg.Seasons),
	}
	for s := 0; s < cfg.Seasons; s++ {
		ds.Skaters[cfg.FirstSeason+s] = table.MustNew(SkaterColumns...)
	}

	contractID := contractIDBase
	for p := 0; p < cfg.Players; p++ {
		pl := player{
			id:     strconv.Itoa(playerIDBase + p),
			name:   lastNames[p%len(lastNames)],
			talent: 0.3 + rng.Float64(),
			center: p%4 != 0,
		}

		for s := 0; s < cfg.Seasons; s++ {
			year := cfg.FirstSeason + s
			row := pl.statRow(rng, season.Of(year))
			ds.Stats.AppendMap(row)
			for _, situation := range Situations {
				ds.Skaters[year].AppendMap(pl.skaterRow(rng, year, situation, row))
			}
		}

		split := cfg.Seasons
		if p%5 != 0 && cfg.Seasons > 1 {
			split = 1 + p%(cfg.Seasons-1)
		}
		if split < cfg.Seasons {
			pl.sign(rng, ds.Historical, contractID, cfg.FirstSeason, split)
			contractID++
			pl.sign(rng, ds.Current, contractID, cfg.FirstSeason+split, cfg.Seasons-split)
		} else {
			pl.sign(rng, ds.Current, contractID, cfg.FirstSeason, cfg.Seasons)
		}
		contractID++
	}
	return ds, nil
}

type player struct {
	id     string
	name   string
	talent float64
	center bool
}

// statRow renders one season summary row.
func (p player) statRow(rng *rand.Rand, sid season.ID) map[string]string {
	form := p.talent * (0.85 + 0.3*rng.Float64())
	gp := 40 + rng.Intn(43)

	goals := round(float64(gp) * 0.25 * form)
	assists := round(float64(gp) * 0.35 * form)
	points := goals + assists
	ppGoals := round(float64(goals) * 0.25)
	shGoals := 0
	if goals >= 10 {
		shGoals = 1
	}
	evGoals := goals - ppGoals - shGoals
	ppPoints := ppGoals + round(float64(assists)*0.25)
	shPoints := shGoals
	evPoints := points - ppPoints - shPoints

	faceoff := ""
	if p.center {
		faceoff = table.FormatFloat(round2(0.4 + 0.2*rng.Float64()))
	}

	return map[string]string{
		model.ColPlayerID:        p.id,
		"name":                   p.name,
		model.ColSeasonID:        sid.String(),
		"gamesPlayed":            strconv.Itoa(gp),
		"goals":                  strconv.Itoa(goals),
		"assists":                strconv.Itoa(assists),
		"points":                 strconv.Itoa(points),
		"shots":                  strconv.Itoa(round(float64(gp) * 2.2 * form)),
		"evGoals":                strconv.Itoa(evGoals),
		"evPoints":               strconv.Itoa(evPoints),
		"ppGoals":                strconv.Itoa(ppGoals),
		"ppPoints":               strconv.Itoa(ppPoints),
		"shGoals":                strconv.Itoa(shGoals),
		"shPoints":               strconv.Itoa(shPoints),
		"timeOnIcePerGame":       table.FormatFloat(round2(12 + 8*form)),
		"shotsBlockedByPlayer":   strconv.Itoa(rng.Intn(80)),
		"plusMinus":              strconv.Itoa(rng.Intn(31) - 15),
		"pointsPerGame":          table.FormatFloat(round2(float64(points) / float64(gp))),
		"faceoffWinPct":          faceoff,
	}
}

// skaterRow renders the MoneyPuck row of one situation. stats is the
// season summary row it shares games played and ice time with.
func (p player) skaterRow(rng *rand.Rand, year int, situation string, stats map[string]string) map[string]string {
	share := 1.0
	switch situation {
	case "5on5":
		share = 0.75
	case "5on4":
		share = 0.15
	}
	gp, _ := strconv.Atoi(stats["gamesPlayed"])
	toi, _ := strconv.ParseFloat(stats["timeOnIcePerGame"], 64)

	position := "D"
	if p.center {
		position = "C"
	}
	return map[string]string{
		model.ColPlayerID:        p.id,
		model.ColSeason:          strconv.Itoa(year),
		"name":                   p.name,
		"position":               position,
		model.ColSituation:       situation,
		"games_played":           strconv.Itoa(gp),
		"icetime":                strconv.Itoa(round(toi * 60 * float64(gp) * share)),
		"onIce_corsiPercentage":  table.FormatFloat(round2(0.45 + 0.1*rng.Float64())),
		"onIce_xGoalsPercentage": table.FormatFloat(round2(0.45 + 0.1*rng.Float64())),
	}
}

// sign appends one row per season of a contract starting in year start.
func (p player) sign(rng *rand.Rand, t *table.Table, id, start, length int) {
	capHit := float64(round((minCapHit+capHitSpread*p.talent/1.3*(0.8+0.4*rng.Float64()))/1000) * 1000)
	for s := 0; s < length; s++ {
		year := start + s
		salaryCap := float64(baseCap + capGrowth*(year-2017))
		t.AppendMap(map[string]string{
			model.ColContractID:   strconv.Itoa(id),
			model.ColNHLID:        p.id,
			model.ColLastName:     p.name,
			model.ColSeason:       season.Of(year).Label(),
			model.ColValue:        table.FormatFloat(capHit * float64(length)),
			model.ColLength:       strconv.Itoa(length),
			model.ColCapHit:       table.FormatFloat(capHit),
			model.ColAAV:          table.FormatFloat(capHit),
			model.ColPercentOfCap: table.FormatFloat(round2(capHit / salaryCap * 100)),
		})
	}
}

func round(x float64) int { return int(math.Round(x)) }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
