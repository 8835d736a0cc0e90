// Package merge joins season stats with contract tables and MoneyPuck
// skater tables, and builds the one-row-per-contract summary that carries
// weighted features.
package merge

import (
	"strconv"
	"strings"

	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// ColPosition is dropped from contract stats before the advanced join so
// the MoneyPuck position is kept.
const ColPosition = "position"

// NormalizeSeason converts a contract table season ("2018-2019") to the
// encoded form used by stats tables (20182019).
func NormalizeSeason(raw string) (season.ID, error) {
	return season.Parse(raw)
}

// Concat stacks tables over the union of their columns in first-seen
// order. Cells a table does not have are left empty.
func Concat(tables ...*table.Table) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, model.Errorf(model.KindInvalidInput, "merge.concat", "", "%w", ErrNoTables)
	}

	var cols []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}

	out := table.MustNew(cols...)
	for _, t := range tables {
		header := t.Columns()
		for i := 0; i < t.Len(); i++ {
			values := make(map[string]string, len(header))
			for j, v := range t.Record(i) {
				values[header[j]] = v
			}
			out.AppendMap(values)
		}
	}
	return out, nil
}

// Contracts concatenates contract tables (current and historical) into
// one and normalizes every season.
func Contracts(tables ...*table.Table) (*table.Table, error) {
	const op = "merge.contracts"
	for _, t := range tables {
		if !t.Has(model.ColSeason) {
			return nil, model.Errorf(model.KindInvalidInput, op, "", "missing column %q", model.ColSeason)
		}
	}
	out, err := Concat(tables...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		sid, err := NormalizeSeason(out.Value(i, model.ColSeason))
		if err != nil {
			return nil, &model.Error{
				Kind: model.KindInvalidInput, Op: op,
				Ref: model.NormalizeID(out.Value(i, model.ColContractID)), Err: err,
			}
		}
		out.Set(i, model.ColSeason, sid.String())
	}
	return out, nil
}

// Skaters concatenates per-year MoneyPuck skater tables. Their season
// column holds the start year (2018); it is rewritten to the encoded
// season (20182019) the stats tables use.
func Skaters(tables ...*table.Table) (*table.Table, error) {
	const op = "merge.skaters"
	for _, t := range tables {
		for _, col := range []string{model.ColPlayerID, model.ColSeason} {
			if !t.Has(col) {
				return nil, model.Errorf(model.KindInvalidInput, op, "", "missing column %q", col)
			}
		}
	}
	out, err := Concat(tables...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		raw := out.Value(i, model.ColSeason)
		year, err := strconv.Atoi(strings.TrimSpace(raw))
		sid := season.Of(year)
		if err != nil || !sid.Valid() {
			return nil, model.Errorf(model.KindInvalidInput, op, model.NormalizeID(out.Value(i, model.ColPlayerID)),
				"%w: start year %q", season.ErrMalformed, raw)
		}
		out.Set(i, model.ColSeason, sid.String())
	}
	return out, nil
}

type joinKey struct {
	player string
	season season.ID
}

// side names the join columns of one input.
type side struct {
	name   string
	t      *table.Table
	player string
	season string
}

func (s side) check(op string) error {
	for _, col := range []string{s.player, s.season} {
		if !s.t.Has(col) {
			return model.Errorf(model.KindInvalidInput, op, "", "%s: missing column %q", s.name, col)
		}
	}
	return nil
}

// innerJoin matches left and right rows on (player, season). Output rows
// follow left order, then right order for multiple matches. Columns are
// the left columns followed by right columns left does not already have.
// Rows whose key cannot be parsed do not join.
func innerJoin(left, right side) *table.Table {
	byKey := make(map[joinKey][]int)
	for i := 0; i < right.t.Len(); i++ {
		sid, err := season.Parse(right.t.Value(i, right.season))
		if err != nil {
			continue
		}
		k := joinKey{player: model.NormalizeID(right.t.Value(i, right.player)), season: sid}
		byKey[k] = append(byKey[k], i)
	}

	var extra []string
	for _, c := range right.t.Columns() {
		if !left.t.Has(c) {
			extra = append(extra, c)
		}
	}
	out := table.MustNew(append(left.t.Columns(), extra...)...)

	for i := 0; i < left.t.Len(); i++ {
		sid, err := season.Parse(left.t.Value(i, left.season))
		if err != nil {
			continue
		}
		matches := byKey[joinKey{player: model.NormalizeID(left.t.Value(i, left.player)), season: sid}]
		for _, m := range matches {
			row := left.t.Record(i)
			for _, c := range extra {
				row = append(row, right.t.Value(m, c))
			}
			_ = out.Append(row...) // width matches header by construction
		}
	}
	return out
}

// StatsWithContracts inner-joins stats (playerId, seasonId) with contracts
// (nhl_id or playerId, season).
func StatsWithContracts(stats, contracts *table.Table) (*table.Table, error) {
	const op = "merge.stats_contracts"
	left := side{name: "stats", t: stats, player: model.ColPlayerID, season: model.ColSeasonID}
	if err := left.check(op); err != nil {
		return nil, err
	}
	playerCol := model.ColNHLID
	if !contracts.Has(playerCol) {
		playerCol = model.ColPlayerID
	}
	right := side{name: "contracts", t: contracts, player: playerCol, season: model.ColSeason}
	if err := right.check(op); err != nil {
		return nil, err
	}
	return innerJoin(left, right), nil
}

// Advanced inner-joins contract stats (playerId, seasonId) with the
// combined MoneyPuck table (playerId, season), adding the situation rows
// and on-ice share columns. The contract season and position columns are
// dropped from the contract stats first; on any other shared column the
// contract stats value wins.
func Advanced(contractStats, skaters *table.Table) (*table.Table, error) {
	const op = "merge.advanced"
	left := side{
		name:   "contract stats",
		t:      contractStats.Drop(model.ColSeason, ColPosition),
		player: model.ColPlayerID,
		season: model.ColSeasonID,
	}
	if err := left.check(op); err != nil {
		return nil, err
	}
	right := side{name: "skaters", t: skaters, player: model.ColPlayerID, season: model.ColSeason}
	if err := right.check(op); err != nil {
		return nil, err
	}
	return innerJoin(left, right), nil
}

// ContractInfo keeps the first merged row of each contract and appends the
// contract's weighted feature columns (suffixed _y) and seasons_weighted.
// Contracts without a vector keep empty weighted cells.
func ContractInfo(merged *table.Table, vectors []features.Vector, set features.Set) (*table.Table, error) {
	if !merged.Has(model.ColContractID) {
		return nil, model.Errorf(model.KindInvalidInput, "merge.contract_info", "", "missing column %q", model.ColContractID)
	}

	byID := make(map[string]features.Vector, len(vectors))
	for _, v := range vectors {
		if len(v.Values) != set.Len() {
			return nil, model.Errorf(model.KindInvalidInput, "merge.contract_info", v.ContractID,
				"%d values, feature set %q has %d", len(v.Values), set.Name, set.Len())
		}
		byID[v.ContractID] = v
	}

	first := make(map[string]bool)
	out := merged.Filter(func(row int) bool {
		id := model.NormalizeID(merged.Value(row, model.ColContractID))
		if id == "" || first[id] {
			return false
		}
		first[id] = true
		return true
	})

	weighted := set.WeightedColumns()
	out.AddColumn(features.ColSeasonsWeighted)
	for _, c := range weighted {
		out.AddColumn(c)
	}
	for i := 0; i < out.Len(); i++ {
		v, ok := byID[model.NormalizeID(out.Value(i, model.ColContractID))]
		if !ok {
			continue
		}
		out.Set(i, features.ColSeasonsWeighted, strconv.Itoa(v.Seasons))
		for j, c := range weighted {
			out.SetFloat(i, c, v.Values[j])
		}
	}
	return out, nil
}
