// Package succession finds the contract a player signed after a given one.
package succession

import (
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
)

// Outcome says how a contract was resolved.
type Outcome int

const (
	// OutcomeSuccessor means the player's next contract was found.
	OutcomeSuccessor Outcome = iota + 1
	// OutcomeNoSuccessor means no contract covers the following season;
	// the resolution carries the queried contract's own rows instead.
	OutcomeNoSuccessor
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccessor:
		return "successor"
	case OutcomeNoSuccessor:
		return "no_successor"
	default:
		return "unknown"
	}
}

// Resolution is the answer for one contract. Contract is the successor id,
// or Source itself when there is none.
type Resolution struct {
	Outcome     Outcome
	Source      string
	Contract    string
	FinalSeason season.ID
	NextSeason  season.ID
	Rows        []model.ContractRow
}

// Resolver answers succession queries over a contract table. It is
// read-only after construction.
type Resolver struct {
	rows       []model.ContractRow
	byContract map[string][]int
	byPlayer   map[string][]int
}

// NewResolver indexes rows by contract and by player, keeping table order.
func NewResolver(rows []model.ContractRow) *Resolver {
	r := &Resolver{
		rows:       rows,
		byContract: make(map[string][]int),
		byPlayer:   make(map[string][]int),
	}
	for i, row := range rows {
		r.byContract[row.ContractID] = append(r.byContract[row.ContractID], i)
		if row.PlayerID != "" {
			r.byPlayer[row.PlayerID] = append(r.byPlayer[row.PlayerID], i)
		}
	}
	return r
}

// Len returns the number of distinct contracts.
func (r *Resolver) Len() int { return len(r.byContract) }

// Rows returns the table rows of contractID in table order.
func (r *Resolver) Rows(contractID string) []model.ContractRow {
	return r.collect(r.byContract[contractID])
}

// Resolve finds the player's contract whose seasons include the season
// after contractID's final season. When several do, the first in table
// order wins.
func (r *Resolver) Resolve(contractID string) (Resolution, error) {
	const op = "succession.resolve"
	idx, ok := r.byContract[contractID]
	if !ok {
		return Resolution{}, model.Errorf(model.KindNotFound, op, contractID, "%w", ErrUnknownContract)
	}

	var (
		player string
		final  season.ID
	)
	for _, i := range idx {
		row := r.rows[i]
		if player == "" {
			player = row.PlayerID
		}
		if row.Season > final {
			final = row.Season
		}
	}

	next, err := final.Next()
	if err != nil {
		return Resolution{}, &model.Error{Kind: model.KindInvalidInput, Op: op, Ref: contractID, Err: err}
	}

	res := Resolution{
		Outcome:     OutcomeNoSuccessor,
		Source:      contractID,
		Contract:    contractID,
		FinalSeason: final,
		NextSeason:  next,
	}
	for _, i := range r.byPlayer[player] {
		row := r.rows[i]
		if row.Season == next && row.ContractID != contractID {
			res.Outcome = OutcomeSuccessor
			res.Contract = row.ContractID
			break
		}
	}
	res.Rows = r.Rows(res.Contract)
	return res, nil
}

func (r *Resolver) collect(idx []int) []model.ContractRow {
	out := make([]model.ContractRow, len(idx))
	for n, i := range idx {
		out[n] = r.rows[i]
	}
	return out
}
