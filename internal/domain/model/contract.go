// Package model contains domain models passed between layers.
package model

import (
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// Column names shared by the collection jobs' output tables.
const (
	ColContractID   = "contract_id"
	ColPlayerID     = "playerId"
	ColNHLID        = "nhl_id"
	ColSeason       = "season"
	ColSeasonID     = "seasonId"
	ColSituation    = "situation"
	ColLastName     = "lastName"
	ColValue        = "value"
	ColLength       = "length"
	ColCapHit       = "cap_hit"
	ColAAV          = "aav"
	ColPercentOfCap = "percentage_of_season_salary_cap"
)

// SituationAll tags the all-strengths aggregate stat row.
const SituationAll = "all"

// ContractRow is one season of a contract. A contract spans several rows
// sharing ContractID.
type ContractRow struct {
	ContractID   string
	PlayerID     string
	Season       season.ID
	LastName     string
	Value        float64
	Length       float64
	CapHit       float64
	AAV          float64
	PercentOfCap float64
}

// ContractRowsFromTable reads contract rows. The player id is taken from
// playerId, falling back to nhl_id as written by the contract collectors.
func ContractRowsFromTable(t *table.Table) ([]ContractRow, error) {
	for _, col := range []string{ColContractID, ColSeason} {
		if !t.Has(col) {
			return nil, Errorf(KindInvalidInput, "model.contracts", "", "missing column %q", col)
		}
	}
	playerCol := ColPlayerID
	if !t.Has(playerCol) {
		playerCol = ColNHLID
	}
	if !t.Has(playerCol) {
		return nil, Errorf(KindInvalidInput, "model.contracts", "", "missing column %q", ColPlayerID)
	}

	rows := make([]ContractRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := NormalizeID(t.Value(i, ColContractID))
		s, err := season.Parse(t.Value(i, ColSeason))
		if err != nil {
			return nil, &Error{Kind: KindInvalidInput, Op: "model.contracts", Ref: id, Err: err}
		}
		rows = append(rows, ContractRow{
			ContractID:   id,
			PlayerID:     NormalizeID(t.Value(i, playerCol)),
			Season:       s,
			LastName:     t.Value(i, ColLastName),
			Value:        t.FloatOrZero(i, ColValue),
			Length:       t.FloatOrZero(i, ColLength),
			CapHit:       t.FloatOrZero(i, ColCapHit),
			AAV:          t.FloatOrZero(i, ColAAV),
			PercentOfCap: t.FloatOrZero(i, ColPercentOfCap),
		})
	}
	return rows, nil
}
