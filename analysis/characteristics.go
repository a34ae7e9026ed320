package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//BasicCharacteristics extracts the minimum, maximum, amplitude (max-min) or area (sum) of the data.
//
//output "value" returns the characteristic as float64. "indices" returns the position of the
//minimum/maximum as []int with one index per dimension, "axes" the corresponding axis values as
//[]float64. If "axis" is given, only the component of that dimension is returned as int or float64
type BasicCharacteristics struct {
	kind   string
	output string
	//axis is -1 if not set
	axis int
}

//NewBasicCharacteristics takes "kind", "output" (default "value") and optionally "axis"
func NewBasicCharacteristics(params parameters.Parameters) (dataset.Analyser, error) {
	b := &BasicCharacteristics{axis: -1}
	var err error
	if b.kind, err = params.String("kind", ""); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if b.output, err = params.String("output", "value"); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if err := oneOf("kind", b.kind, "min", "max", "amplitude", "area"); err != nil {
		return nil, err
	}
	if err := oneOf("output", b.output, "value", "indices", "axes"); err != nil {
		return nil, err
	}
	if params.Has("axis") {
		if b.axis, err = params.Int("axis", -1); err != nil {
			return nil, errors.Wrap(treprErrors.ErrIndexOutOfBounds, err.Error())
		}
		if b.axis < 0 {
			return nil, errors.Wrapf(treprErrors.ErrIndexOutOfBounds, "axis %v", b.axis)
		}
	}
	return b, nil
}

func (b *BasicCharacteristics) Name() string {
	return "BasicCharacteristics"
}

func (b *BasicCharacteristics) Validate(ds *dataset.Dataset) error {
	if b.axis >= ds.Data.NDim() {
		return errors.Wrapf(treprErrors.ErrIndexOutOfBounds, "axis %v is out of bounds for data with %v dimensions", b.axis, ds.Data.NDim())
	}
	if b.output != "value" && (b.kind == "amplitude" || b.kind == "area") {
		return errors.Wrapf(treprErrors.ErrNotApplicable, "%v has no position, use output \"value\"", b.kind)
	}
	return nil
}

func (b *BasicCharacteristics) Analyse(ds *dataset.Dataset) (interface{}, error) {
	values := ds.Data.Values()
	var flatIdx int
	switch b.kind {
	case "min":
		flatIdx = floats.MinIdx(values)
	case "max":
		flatIdx = floats.MaxIdx(values)
	case "amplitude":
		return floats.Max(values) - floats.Min(values), nil
	case "area":
		return floats.Sum(values), nil
	}

	indices := ds.Data.Unravel(flatIdx)
	switch b.output {
	case "indices":
		if b.axis >= 0 {
			return indices[b.axis], nil
		}
		return indices, nil
	case "axes":
		axes := ds.Data.Axes()
		positions := make([]float64, len(indices))
		for i, idx := range indices {
			positions[i] = axes[i].Values[idx]
		}
		if b.axis >= 0 {
			return positions[b.axis], nil
		}
		return positions, nil
	}
	return values[flatIdx], nil
}
