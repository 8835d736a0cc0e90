package features

import (
	"math"
	"sort"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
)

// Record is one all-situations stat row of a contract season. Values are
// aligned to a Set's columns with missing cells already filled with 0.
type Record struct {
	ContractID string
	PlayerID   string
	SeasonID   season.ID
	Values     []float64
}

// Vector is the weighted summary of one contract.
type Vector struct {
	ContractID string
	PlayerID   string
	Seasons    int
	Values     []float64
}

// Result holds the vectors built by Aggregate and the contracts that
// could not be weighted.
type Result struct {
	Vectors  []Vector
	Failures []model.ContractError
}

// RecordsFromTable selects the all-situations rows of a merged stats table
// and projects them onto set. A contract with any malformed seasonId is
// dropped whole and reported, so it is never weighted over a partial
// history.
func RecordsFromTable(t *table.Table, set Set) ([]Record, []model.ContractError, error) {
	for _, col := range []string{model.ColContractID, model.ColSeasonID, model.ColSituation} {
		if !t.Has(col) {
			return nil, nil, model.Errorf(model.KindInvalidInput, "features.records", "", "missing column %q", col)
		}
	}

	var (
		records  []Record
		failures []model.ContractError
		broken   = make(map[string]bool)
	)
	for i := 0; i < t.Len(); i++ {
		if t.Value(i, model.ColSituation) != model.SituationAll {
			continue
		}
		id := model.NormalizeID(t.Value(i, model.ColContractID))
		if id == "" || broken[id] {
			continue
		}
		sid, err := season.Parse(t.Value(i, model.ColSeasonID))
		if err != nil {
			broken[id] = true
			failures = append(failures, model.NewContractError(id,
				&model.Error{Kind: model.KindInvalidInput, Op: "features.records", Ref: id, Err: err}))
			continue
		}
		values := make([]float64, set.Len())
		for j, col := range set.Columns {
			values[j] = t.FloatOrZero(i, col)
		}
		records = append(records, Record{
			ContractID: id,
			PlayerID:   model.NormalizeID(t.Value(i, model.ColPlayerID)),
			SeasonID:   sid,
			Values:     values,
		})
	}

	if len(broken) > 0 {
		kept := records[:0]
		for _, r := range records {
			if !broken[r.ContractID] {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	return records, failures, nil
}

// Aggregate builds one Vector per contract: seasons ordered most recent
// first, weighted by Weights, summed. Contracts keep the order in which
// they first appear in records.
func Aggregate(records []Record, set Set) Result {
	var order []string
	groups := make(map[string][]Record)
	for _, r := range records {
		if _, seen := groups[r.ContractID]; !seen {
			order = append(order, r.ContractID)
		}
		groups[r.ContractID] = append(groups[r.ContractID], r)
	}

	var res Result
	for _, id := range order {
		v, err := weigh(id, groups[id], set)
		if err != nil {
			res.Failures = append(res.Failures, model.NewContractError(id, err))
			continue
		}
		res.Vectors = append(res.Vectors, v)
	}
	return res
}

func weigh(id string, group []Record, set Set) (Vector, error) {
	seasons := make([]Record, len(group))
	copy(seasons, group)
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].SeasonID > seasons[j].SeasonID })

	w, err := Weights(len(seasons))
	if err != nil {
		return Vector{}, &model.Error{Kind: model.KindComputation, Op: "features.aggregate", Ref: id, Err: err}
	}

	sum := make([]float64, set.Len())
	for i, r := range seasons {
		if len(r.Values) != set.Len() {
			return Vector{}, model.Errorf(model.KindInvalidInput, "features.aggregate", id,
				"season %s has %d values, feature set %q has %d", r.SeasonID, len(r.Values), set.Name, set.Len())
		}
		for j, x := range r.Values {
			sum[j] += w[i] * x
		}
	}
	for j, x := range sum {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Vector{}, model.Errorf(model.KindComputation, "features.aggregate", id,
				"feature %q is not finite", set.Columns[j])
		}
	}

	return Vector{
		ContractID: id,
		PlayerID:   group[0].PlayerID,
		Seasons:    len(seasons),
		Values:     sum,
	}, nil
}
