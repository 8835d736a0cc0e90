package similarity

// Neighbor is one row of a similarity answer.
type Neighbor struct {
	ContractID string
	PlayerID   string
	Distance   float64
}

// Result is the ordered neighbour list for one query, nearest first.
// For a contract query the first entry is the contract itself.
type Result struct {
	Query     string
	Neighbors []Neighbor
}

// Others drops the query contract from the neighbour list.
func (r Result) Others() []Neighbor {
	out := make([]Neighbor, 0, len(r.Neighbors))
	for _, n := range r.Neighbors {
		if n.ContractID == r.Query {
			continue
		}
		out = append(out, n)
	}
	return out
}

// IDs returns the neighbour contract ids in order.
func (r Result) IDs() []string {
	out := make([]string, len(r.Neighbors))
	for i, n := range r.Neighbors {
		out[i] = n.ContractID
	}
	return out
}
