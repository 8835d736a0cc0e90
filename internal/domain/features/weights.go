package features

import "github.com/rinklabs/contractcomps/internal/domain/model"

// Recency weights: most recent season, the one before it, and the share
// spread evenly over every older season.
const (
	latestWeight = 0.7
	priorWeight  = 0.2
	pairPrior    = 0.3
	tailWeight   = 0.10
)

// Weights returns the weights for n seasons ordered most recent first.
// They sum to 1.
func Weights(n int) ([]float64, error) {
	switch {
	case n <= 0:
		return nil, model.Errorf(model.KindComputation, "features.weights", "", "cannot weight %d seasons", n)
	case n == 1:
		return []float64{1.0}, nil
	case n == 2:
		return []float64{latestWeight, pairPrior}, nil
	}

	w := make([]float64, n)
	w[0], w[1] = latestWeight, priorWeight
	tail := tailWeight / float64(n-2)
	for i := 2; i < n; i++ {
		w[i] = tail
	}
	return w, nil
}
