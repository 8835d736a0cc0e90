package similarity

import (
	"math"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// constantTolerance treats a standard deviation this small (relative to the
// feature's magnitude) as zero.
const constantTolerance = 10 * 2.220446049250313e-16

// Scaler standardizes features to zero mean and unit variance using the
// population statistics of the rows it was fitted on. It is immutable once
// fitted.
type Scaler struct {
	mean  []float64
	scale []float64
	// constant marks features with zero variance; their scale is 1.
	constant []bool
}

// FitScaler computes per-feature mean and standard deviation over rows.
// It fails when rows is empty or every feature is constant.
func FitScaler(rows [][]float64) (Scaler, error) {
	if len(rows) == 0 {
		return Scaler{}, model.Errorf(model.KindInvalidInput, "similarity.fit", "", "%w: no rows", ErrIndexUnavailable)
	}
	dim := len(rows[0])
	if dim == 0 {
		return Scaler{}, model.Errorf(model.KindInvalidInput, "similarity.fit", "", "%w: no features", ErrIndexUnavailable)
	}

	s := Scaler{
		mean:     make([]float64, dim),
		scale:    make([]float64, dim),
		constant: make([]bool, dim),
	}
	col := make([]float64, len(rows))
	varying := 0
	for j := 0; j < dim; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		std := math.Sqrt(variance)
		s.mean[j] = mean
		if std <= constantTolerance*math.Max(1, math.Abs(mean)) {
			s.scale[j] = 1
			s.constant[j] = true
			continue
		}
		s.scale[j] = std
		varying++
	}
	if varying == 0 {
		return Scaler{}, model.Errorf(model.KindInvalidInput, "similarity.fit", "", "%w: every feature has zero variance", ErrIndexUnavailable)
	}
	return s, nil
}

// Transform returns (v - mean) / scale. v must have one value per fitted
// feature.
func (s Scaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.mean) {
		return nil, model.Errorf(model.KindInvalidInput, "similarity.transform", "",
			"%w: got %d values, scaler has %d", ErrDimension, len(v), len(s.mean))
	}
	out := make([]float64, len(v))
	floats.SubTo(out, v, s.mean)
	floats.Div(out, s.scale)
	return out, nil
}
