// Package report turns resolved neighbours into contract summary rows.
package report

import (
	"fmt"
	"strconv"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/similarity"
	"github.com/rinklabs/contractcomps/internal/domain/succession"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// Output column names, in order.
const (
	ColQuery         = "query_contract_id"
	ColAvgPercentCap = "average_percentage_of_season_salary_cap"
	ColSeasonSpan    = "season_span"
	ColNeighbor      = "neighbor_contract_id"
	ColDistance      = "distance"
	ColOutcome       = "outcome"
)

// Columns is the header of a summary table.
var Columns = []string{
	ColQuery, model.ColContractID, model.ColPlayerID, model.ColLastName,
	model.ColValue, model.ColLength, model.ColCapHit, model.ColAAV,
	ColAvgPercentCap, ColSeasonSpan, ColNeighbor, ColDistance, ColOutcome,
}

// Entry is one neighbour of a query contract with its succession answer.
type Entry struct {
	Query      string
	Neighbor   similarity.Neighbor
	Resolution succession.Resolution
}

// Row summarizes one recommended contract.
type Row struct {
	Query         string
	ContractID    string
	PlayerID      string
	LastName      string
	Value         float64
	Length        float64
	CapHit        float64
	AAV           float64
	AvgPercentCap float64
	SeasonSpan    string
	Neighbor      string
	Distance      float64
	Outcome       string
}

// Summarize builds one row per (query, resolved contract). Contract terms
// come from the contract's first row; the cap percentage is averaged over
// all its rows. When two neighbours resolve to the same contract the
// nearer one is kept.
func Summarize(entries []Entry) []Row {
	type key struct{ query, contract string }
	seen := make(map[key]bool, len(entries))
	out := make([]Row, 0, len(entries))
	for _, e := range entries {
		res := e.Resolution
		if len(res.Rows) == 0 {
			continue
		}
		k := key{e.Query, res.Contract}
		if seen[k] {
			continue
		}
		seen[k] = true

		first := res.Rows[0]
		lo, hi := first.Season, first.Season
		var pct float64
		for _, r := range res.Rows {
			pct += r.PercentOfCap
			if r.Season < lo {
				lo = r.Season
			}
			if r.Season > hi {
				hi = r.Season
			}
		}

		out = append(out, Row{
			Query:         e.Query,
			ContractID:    res.Contract,
			PlayerID:      first.PlayerID,
			LastName:      first.LastName,
			Value:         first.Value,
			Length:        first.Length,
			CapHit:        first.CapHit,
			AAV:           first.AAV,
			AvgPercentCap: pct / float64(len(res.Rows)),
			SeasonSpan:    fmt.Sprintf("%s - %s", lo, hi),
			Neighbor:      e.Neighbor.ContractID,
			Distance:      e.Neighbor.Distance,
			Outcome:       res.Outcome.String(),
		})
	}
	return out
}

// ToTable renders rows under Columns.
func ToTable(rows []Row) *table.Table {
	t := table.MustNew(Columns...)
	for _, r := range rows {
		_ = t.Append(
			r.Query, r.ContractID, r.PlayerID, r.LastName,
			table.FormatFloat(r.Value), table.FormatFloat(r.Length),
			table.FormatFloat(r.CapHit), table.FormatFloat(r.AAV),
			table.FormatFloat(r.AvgPercentCap), r.SeasonSpan, r.Neighbor,
			strconv.FormatFloat(r.Distance, 'f', 6, 64), r.Outcome,
		)
	}
	return t
}
