package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/metadata"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//DefaultTargetFrequency in GHz
const DefaultTargetFrequency = 9.5

//FrequencyCorrection rescales the magnetic field axis to a common microwave frequency,
//B_target = nu_target/nu_measured * B. This makes spectra recorded at different frequencies comparable
type FrequencyCorrection struct {
	target float64
	//initial is the measured frequency in GHz, resolved by Validate
	initial float64
}

//NewFrequencyCorrection takes "frequency", the target frequency in GHz
func NewFrequencyCorrection(params parameters.Parameters) (dataset.Processor, error) {
	target, err := params.Float("frequency", DefaultTargetFrequency)
	if err != nil {
		return nil, errors.Wrap(treprErrors.ErrRange, err.Error())
	}
	if target <= 0 {
		return nil, errors.Wrapf(treprErrors.ErrRange, "frequency must be positive, got %v", target)
	}
	return &FrequencyCorrection{target: target}, nil
}

func (f *FrequencyCorrection) Name() string {
	return "FrequencyCorrection"
}

//toGHz converts value given in unit to GHz
func toGHz(value float64, unit string) (float64, error) {
	switch unit {
	case "GHz", "":
		return value, nil
	case "MHz":
		return value / 1e3, nil
	case "Hz":
		return value / 1e9, nil
	}
	return 0, errors.Wrapf(treprErrors.ErrUnit, "unknown frequency unit %q", unit)
}

//measuredFrequency prefers the bridge metadata and falls back to the mean of the frequency channel
func measuredFrequency(ds *dataset.Dataset) (float64, error) {
	if q := ds.Metadata.Bridge.MwFrequency; q.Value != 0 {
		return toGHz(q.Value, q.Unit)
	}
	if ch := ds.MicrowaveFrequency; ch != nil && ch.Len() > 0 {
		return toGHz(stat.Mean(ch.Values, nil), ch.Axes[1].Unit)
	}
	return 0, errors.Wrap(treprErrors.ErrNotApplicable, "microwave frequency of the measurement is unknown")
}

func (f *FrequencyCorrection) Validate(ds *dataset.Dataset) error {
	hasField := false
	for _, axis := range ds.Data.Axes() {
		hasField = hasField || (isFieldUnit(axis.Unit) && len(axis.Values) > 0)
	}
	if !hasField {
		return errors.Wrap(treprErrors.ErrNotApplicable, "data has no magnetic field axis")
	}
	initial, err := measuredFrequency(ds)
	if err != nil {
		return err
	}
	if initial <= 0 {
		return errors.Wrapf(treprErrors.ErrNotApplicable, "measured microwave frequency %v GHz is not positive", initial)
	}
	f.initial = initial
	return nil
}

func (f *FrequencyCorrection) Process(ds *dataset.Dataset) error {
	factor := f.target / f.initial
	axes := ds.Data.Axes()
	for i := range axes {
		if isFieldUnit(axes[i].Unit) {
			floats.Scale(factor, axes[i].Values)
		}
	}
	//channels share the field ordering with the data and have to follow the new axis
	if ds.MicrowaveFrequency != nil {
		floats.Scale(factor, ds.MicrowaveFrequency.Axes[0].Values)
	}
	if ds.TimeStamp != nil {
		floats.Scale(factor, ds.TimeStamp.Axes[0].Values)
	}
	ds.Metadata.Bridge.MwFrequency = metadata.PhysicalQuantity{Value: f.target, Unit: "GHz"}
	return nil
}

func (f *FrequencyCorrection) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"frequency":         f.target,
		"initial_frequency": f.initial,
	}
}
