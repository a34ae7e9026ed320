package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

const (
	UnitAxis  = "axis"
	UnitIndex = "index"
)

//Averaging averages two dimensional data over a range of one dimension and removes that dimension.
//The range is inclusive and given either in axis values or indices
type Averaging struct {
	dimension int
	lower     float64
	upper     float64
	unit      string

	//resolved by Validate
	lowerIdx int
	upperIdx int
}

//NewAveraging expects "range" (two numbers) and optionally "dimension" (0) and "unit" ("axis")
func NewAveraging(params parameters.Parameters) (dataset.Processor, error) {
	a := &Averaging{}
	var err error
	if a.dimension, err = params.Int("dimension", 0); err != nil {
		return nil, errors.Wrap(treprErrors.ErrDimension, err.Error())
	}
	if a.unit, err = params.String("unit", UnitAxis); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	bounds, err := params.Floats("range", nil)
	if err != nil {
		return nil, errors.Wrap(treprErrors.ErrRange, err.Error())
	}
	if len(bounds) != 2 {
		return nil, errors.Wrapf(treprErrors.ErrRange, "range needs lower and upper bound, got %v", bounds)
	}
	a.lower, a.upper = bounds[0], bounds[1]
	return a, nil
}

func (a *Averaging) Name() string {
	return "Averaging"
}

func (a *Averaging) Validate(ds *dataset.Dataset) error {
	if a.dimension != 0 && a.dimension != 1 {
		return errors.Wrap(treprErrors.ErrDimension, "Wrong dimension. Choose 0 or 1.")
	}
	if a.unit != UnitAxis && a.unit != UnitIndex {
		return errors.Wrapf(treprErrors.ErrUnit, "Wrong unit %q. Choose %q or %q.", a.unit, UnitAxis, UnitIndex)
	}
	if err := requireDim(ds.Data, 2); err != nil {
		return err
	}
	values := ds.Data.Axes()[a.dimension].Values

	if a.unit == UnitIndex {
		if a.lower != float64(int(a.lower)) || a.upper != float64(int(a.upper)) {
			return errors.Wrapf(treprErrors.ErrRange, "Indices need to be integers, got [%v, %v].", a.lower, a.upper)
		}
		if a.lower < 0 || int(a.lower) >= len(values) {
			return errors.Wrap(treprErrors.ErrRange, "Lower index out of range.")
		}
		if a.upper < 0 || int(a.upper) >= len(values) {
			return errors.Wrap(treprErrors.ErrRange, "Upper index out of range.")
		}
	} else {
		lo, hi := floats.Min(values), floats.Max(values)
		if a.lower < lo || a.lower > hi {
			return errors.Wrap(treprErrors.ErrRange, "Lower value out of range.")
		}
		if a.upper < lo || a.upper > hi {
			return errors.Wrap(treprErrors.ErrRange, "Upper value out of range.")
		}
	}
	if a.upper < a.lower {
		return errors.Wrap(treprErrors.ErrRange, "Values need to be ascending.")
	}

	if a.unit == UnitIndex {
		a.lowerIdx, a.upperIdx = int(a.lower), int(a.upper)
	} else {
		a.lowerIdx, a.upperIdx = nearestIndex(values, a.lower), nearestIndex(values, a.upper)
		//descending axes
		if a.lowerIdx > a.upperIdx {
			a.lowerIdx, a.upperIdx = a.upperIdx, a.lowerIdx
		}
	}
	return nil
}

func (a *Averaging) Process(ds *dataset.Dataset) error {
	m := ds.Data.Matrix()
	rows, cols := m.Dims()
	axes := ds.Data.Axes()

	var result []float64
	var keptAxis dataset.Axis
	if a.dimension == 0 {
		block := m.Slice(a.lowerIdx, a.upperIdx+1, 0, cols)
		result = make([]float64, cols)
		col := make([]float64, a.upperIdx-a.lowerIdx+1)
		for j := 0; j < cols; j++ {
			result[j] = stat.Mean(mat.Col(col, j, block), nil)
		}
		keptAxis = axes[1].Copy()
	} else {
		block := m.Slice(0, rows, a.lowerIdx, a.upperIdx+1)
		result = make([]float64, rows)
		row := make([]float64, a.upperIdx-a.lowerIdx+1)
		for i := 0; i < rows; i++ {
			result[i] = stat.Mean(mat.Row(row, i, block), nil)
		}
		keptAxis = axes[0].Copy()
	}

	averaged, err := dataset.NewData(result, []int{len(result)}, []dataset.Axis{keptAxis, axes[2].Copy()})
	if err != nil {
		return err
	}
	ds.Data.Replace(averaged)
	return nil
}

func (a *Averaging) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"dimension":     a.dimension,
		"range":         []float64{a.lower, a.upper},
		"unit":          a.unit,
		"range_indices": []int{a.lowerIdx, a.upperIdx},
	}
}
