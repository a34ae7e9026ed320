package processing

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"treprSuite/dataset"
	"treprSuite/treprErrors"
)

//nearestIndex returns argmin(|values-x|). On ties the lower index wins
func nearestIndex(values []float64, x float64) int {
	distances := make([]float64, len(values))
	for i := range values {
		distances[i] = math.Abs(values[i] - x)
	}
	return floats.MinIdx(distances)
}

//timeAxis returns the time axis of data. Rows of the data have to be transients, so only the last
//dimension is considered
func timeAxis(data *dataset.Data) (*dataset.Axis, error) {
	axis, err := data.Axis(data.NDim() - 1)
	if err != nil {
		return nil, err
	}
	if axis.Quantity != dataset.QuantityTime {
		return nil, errors.Wrapf(treprErrors.ErrNotApplicable, "last dimension is %q, need %q", axis.Quantity, dataset.QuantityTime)
	}
	return axis, nil
}

func requireDim(data *dataset.Data, ndim int) error {
	if data.NDim() != ndim {
		return errors.Wrapf(treprErrors.ErrDimension, "need %v dimensional data, got %v dimensions", ndim, data.NDim())
	}
	return nil
}

func isFieldUnit(unit string) bool {
	switch unit {
	case "mT", "G", "Gauss", "T":
		return true
	}
	return false
}
