package similarity

// DefaultK is the neighbour count used when none is configured.
const DefaultK = 10

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithK sets the default neighbour count (including the query itself).
func WithK(k int) Option {
	return func(ix *Index) {
		if k > 0 {
			ix.k = k
		}
	}
}
