package features

import (
	"strconv"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// ColSeasonsWeighted records how many seasons went into a vector.
const ColSeasonsWeighted = "seasons_weighted"

// ToTable renders vectors with contract_id, playerId, seasons_weighted and
// the weighted feature columns.
func ToTable(vectors []Vector, set Set) *table.Table {
	cols := append([]string{model.ColContractID, model.ColPlayerID, ColSeasonsWeighted}, set.WeightedColumns()...)
	t := table.MustNew(cols...)
	for _, v := range vectors {
		row := make([]string, 0, len(cols))
		row = append(row, v.ContractID, v.PlayerID, strconv.Itoa(v.Seasons))
		for _, x := range v.Values {
			row = append(row, table.FormatFloat(x))
		}
		_ = t.Append(row...) // width matches cols by construction
	}
	return t
}

// VectorsFromTable reads the average-stats table. Each feature is read from
// its weighted column, or from the bare column name when the table was
// written without suffixes. Missing values are 0. Rows left empty by the
// contract-info join (no seasons_weighted) carry no vector and are skipped.
// A contract_id may appear only once.
func VectorsFromTable(t *table.Table, set Set) ([]Vector, error) {
	if !t.Has(model.ColContractID) {
		return nil, model.Errorf(model.KindInvalidInput, "features.vectors", "", "missing column %q", model.ColContractID)
	}

	cols := set.WeightedColumns()
	for j, c := range cols {
		if !t.Has(c) && t.Has(set.Columns[j]) {
			cols[j] = set.Columns[j]
		}
	}

	seen := make(map[string]bool, t.Len())
	out := make([]Vector, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := model.NormalizeID(t.Value(i, model.ColContractID))
		if id == "" {
			continue
		}
		if t.Has(ColSeasonsWeighted) && t.Value(i, ColSeasonsWeighted) == "" {
			continue
		}
		if seen[id] {
			return nil, model.Errorf(model.KindInvalidInput, "features.vectors", id, "contract appears more than once")
		}
		seen[id] = true

		values := make([]float64, len(cols))
		for j, c := range cols {
			values[j] = t.FloatOrZero(i, c)
		}
		n, _ := strconv.Atoi(t.Value(i, ColSeasonsWeighted))
		out = append(out, Vector{
			ContractID: id,
			PlayerID:   model.NormalizeID(t.Value(i, model.ColPlayerID)),
			Seasons:    n,
			Values:     values,
		})
	}
	return out, nil
}
