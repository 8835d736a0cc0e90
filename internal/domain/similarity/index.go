// Package similarity finds the contracts closest to a given one in
// standardized feature space.
package similarity

import (
	"math"

	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/model"
)

// Index is an immutable exact nearest-neighbour index over contract
// vectors. It is safe for concurrent reads.
type Index struct {
	set     features.Set
	scaler  Scaler
	ids     []string
	players []string
	raw     [][]float64
	scaled  [][]float64
	pos     map[string]int
	tree    *kdTree
	k       int
}

// Build fits a Scaler over vectors and indexes the scaled rows. Vector order
// is the table order used to break distance ties.
func Build(vectors []features.Vector, set features.Set, opts ...Option) (*Index, error) {
	const op = "similarity.build"
	if len(vectors) == 0 {
		return nil, model.Errorf(model.KindInvalidInput, op, "", "%w: no vectors", ErrIndexUnavailable)
	}

	ix := &Index{
		set:     set,
		ids:     make([]string, len(vectors)),
		players: make([]string, len(vectors)),
		raw:     make([][]float64, len(vectors)),
		pos:     make(map[string]int, len(vectors)),
		k:       DefaultK,
	}
	for _, opt := range opts {
		opt(ix)
	}

	for i, v := range vectors {
		if len(v.Values) != set.Len() {
			return nil, model.Errorf(model.KindInvalidInput, op, v.ContractID,
				"%w: %d values, feature set %q has %d", ErrDimension, len(v.Values), set.Name, set.Len())
		}
		if _, dup := ix.pos[v.ContractID]; dup {
			return nil, model.Errorf(model.KindInvalidInput, op, v.ContractID, "contract indexed twice")
		}
		if j, bad := nonFinite(v.Values); bad {
			return nil, model.Errorf(model.KindInvalidInput, op, v.ContractID,
				"%w: feature %q", ErrNonFinite, set.Columns[j])
		}
		ix.pos[v.ContractID] = i
		ix.ids[i] = v.ContractID
		ix.players[i] = v.PlayerID
		ix.raw[i] = append([]float64(nil), v.Values...)
	}

	scaler, err := FitScaler(ix.raw)
	if err != nil {
		return nil, err
	}
	ix.scaler = scaler

	ix.scaled = make([][]float64, len(ix.raw))
	for i, r := range ix.raw {
		s, err := scaler.Transform(r)
		if err != nil {
			return nil, err
		}
		ix.scaled[i] = s
	}
	ix.tree = newKDTree(ix.scaled)
	return ix, nil
}

// Neighbors returns the k contracts nearest to contractID, the contract
// itself first at distance 0. A k of zero or less uses the index default.
// Fewer than k are returned when the index is smaller.
func (ix *Index) Neighbors(contractID string, k int) (Result, error) {
	i, ok := ix.pos[contractID]
	if !ok {
		return Result{}, model.Errorf(model.KindNotFound, "similarity.neighbors", contractID, "%w", ErrUnknownContract)
	}
	return ix.collect(contractID, ix.scaled[i], ix.limit(k), i), nil
}

// Nearest returns the k contracts nearest to an unscaled feature vector.
// Every value must be finite.
func (ix *Index) Nearest(raw []float64, k int) (Result, error) {
	if j, bad := nonFinite(raw); bad {
		return Result{}, model.Errorf(model.KindInvalidInput, "similarity.nearest", "",
			"%w: value %d", ErrNonFinite, j)
	}
	q, err := ix.scaler.Transform(raw)
	if err != nil {
		return Result{}, err
	}
	return ix.collect("", q, ix.limit(k), -1), nil
}

func (ix *Index) limit(k int) int {
	if k <= 0 {
		return ix.k
	}
	return k
}

func (ix *Index) collect(query string, q []float64, k, preferred int) Result {
	found := ix.tree.nearest(q, k, preferred)
	res := Result{Query: query, Neighbors: make([]Neighbor, len(found))}
	for n, c := range found {
		res.Neighbors[n] = Neighbor{
			ContractID: ix.ids[c.idx],
			PlayerID:   ix.players[c.idx],
			Distance:   math.Sqrt(c.dist),
		}
	}
	return res
}

// Len returns the number of indexed contracts.
func (ix *Index) Len() int { return len(ix.ids) }

// K returns the default neighbour count.
func (ix *Index) K() int { return ix.k }

// Features returns the feature set the index was built over.
func (ix *Index) Features() features.Set { return ix.set }

// nonFinite returns the position of the first NaN or infinite value.
func nonFinite(values []float64) (int, bool) {
	for j, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return j, true
		}
	}
	return 0, false
}
