package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//CODATA 2018
const (
	GFactorElectron = -2.00231930436256
	BohrMagneton    = 9.2740100783e-24
	PlanckConstant  = 6.62607015e-34
)

//FrequencyToField converts a frequency difference in GHz into the equivalent field difference in mT
//using the resonance condition h*nu = -g*muB*B
func FrequencyToField(deltaGHz float64) float64 {
	return deltaGHz * 1e9 * PlanckConstant / (-GFactorElectron * BohrMagneton * 1e-3)
}

//DriftSummary is the "dict" output of MWFrequencyDrift
type DriftSummary struct {
	//FrequencyDrift is max-min of the frequency channel, in its unit
	FrequencyDrift float64 `yaml:"frequency_drift"`
	FrequencyUnit  string  `yaml:"frequency_unit"`
	//FieldDrift is the equivalent field difference in mT
	FieldDrift float64 `yaml:"field_drift"`
	//FieldStep is the difference of the first two field values in mT
	FieldStep float64 `yaml:"field_step"`
	//Ratio is FieldDrift/FieldStep
	Ratio float64 `yaml:"ratio"`
}

//MWFrequencyDrift relates the drift of the microwave frequency during a measurement to the field
//step width. A ratio well below one means the drift is negligible
type MWFrequencyDrift struct {
	kind   string
	output string
}

//NewMWFrequencyDrift takes "kind" ("ratio" or "drift") and "output" ("value", "dict" or "dataset")
func NewMWFrequencyDrift(params parameters.Parameters) (dataset.Analyser, error) {
	m := &MWFrequencyDrift{}
	var err error
	if m.kind, err = params.String("kind", "ratio"); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if m.output, err = params.String("output", "value"); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if err := oneOf("kind", m.kind, "ratio", "drift"); err != nil {
		return nil, err
	}
	if err := oneOf("output", m.output, "value", "dict", "dataset"); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MWFrequencyDrift) Name() string {
	return "MWFrequencyDrift"
}

func requireFrequencyChannel(ds *dataset.Dataset) error {
	ch := ds.MicrowaveFrequency
	if ch == nil || ch.Len() == 0 || floats.Norm(ch.Values, 1) == 0 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "dataset has no microwave frequency values")
	}
	return nil
}

func (m *MWFrequencyDrift) Validate(ds *dataset.Dataset) error {
	if err := requireFrequencyChannel(ds); err != nil {
		return err
	}
	if ds.MicrowaveFrequency.Len() < 2 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "need at least two field points")
	}
	fields := ds.MicrowaveFrequency.Axes[0].Values
	if fields[1] == fields[0] {
		return errors.Wrap(treprErrors.ErrNotApplicable, "field step size is zero")
	}
	return nil
}

func channelFrequenciesGHz(ch *dataset.Channel) ([]float64, error) {
	scale := 1.0
	switch ch.Axes[1].Unit {
	case "GHz", "":
	case "MHz":
		scale = 1e-3
	case "Hz":
		scale = 1e-9
	default:
		return nil, errors.Wrapf(treprErrors.ErrUnit, "unknown frequency unit %q", ch.Axes[1].Unit)
	}
	res := make([]float64, ch.Len())
	floats.ScaleTo(res, scale, ch.Values)
	return res, nil
}

func (m *MWFrequencyDrift) Analyse(ds *dataset.Dataset) (interface{}, error) {
	ch := ds.MicrowaveFrequency
	frequencies, err := channelFrequenciesGHz(ch)
	if err != nil {
		return nil, err
	}
	fields := ch.Axes[0].Values
	step := fields[1] - fields[0]
	if step < 0 {
		step = -step
	}

	fieldDrift := FrequencyToField(floats.Max(frequencies) - floats.Min(frequencies))
	summary := DriftSummary{
		FrequencyDrift: floats.Max(ch.Values) - floats.Min(ch.Values),
		FrequencyUnit:  ch.Axes[1].Unit,
		FieldDrift:     fieldDrift,
		FieldStep:      step,
		Ratio:          fieldDrift / step,
	}

	switch m.output {
	case "dict":
		return summary, nil
	case "dataset":
		return m.driftChannel(frequencies, fields, step, ch.Axes[0])
	}
	if m.kind == "drift" {
		return summary.FieldDrift, nil
	}
	return summary.Ratio, nil
}

//driftChannel returns the field drift between consecutive field points, located at their midpoints
func (m *MWFrequencyDrift) driftChannel(frequencies, fields []float64, step float64, fieldAxis dataset.Axis) (*dataset.Channel, error) {
	n := len(frequencies) - 1
	drifts := make([]float64, n)
	midpoints := make([]float64, n)
	for i := 0; i < n; i++ {
		drifts[i] = FrequencyToField(frequencies[i+1] - frequencies[i])
		midpoints[i] = (fields[i] + fields[i+1]) / 2
	}
	dependent := dataset.Axis{Quantity: "drift", Unit: "mT"}
	if m.kind == "ratio" {
		floats.Scale(1/step, drifts)
		dependent = dataset.Axis{Quantity: "drift/(field step size)"}
	}
	return dataset.NewChannel(drifts, dataset.Axis{Values: midpoints, Unit: fieldAxis.Unit, Quantity: fieldAxis.Quantity}, dependent)
}

//FrequencyStatistics is the result of MWFrequencyValues
type FrequencyStatistics struct {
	//Channel is a copy of the frequency channel
	Channel *dataset.Channel
	Mean    float64
	Min     float64
	Max     float64
	StdDev  float64
}

//MWFrequencyValues extracts the microwave frequency per field point together with its statistics
type MWFrequencyValues struct{}

//NewMWFrequencyValues takes no parameters
func NewMWFrequencyValues(_ parameters.Parameters) (dataset.Analyser, error) {
	return &MWFrequencyValues{}, nil
}

func (m *MWFrequencyValues) Name() string {
	return "MWFrequencyValues"
}

func (m *MWFrequencyValues) Validate(ds *dataset.Dataset) error {
	return requireFrequencyChannel(ds)
}

func (m *MWFrequencyValues) Analyse(ds *dataset.Dataset) (interface{}, error) {
	ch := ds.MicrowaveFrequency.Copy()
	mean, std := stat.MeanStdDev(ch.Values, nil)
	if ch.Len() < 2 {
		std = 0
	}
	return FrequencyStatistics{
		Channel: ch,
		Mean:    mean,
		Min:     floats.Min(ch.Values),
		Max:     floats.Max(ch.Values),
		StdDev:  std,
	}, nil
}
