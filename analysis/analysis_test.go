package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

func frequencyDataset(t *testing.T, fields, frequencies []float64) *dataset.Dataset {
	fieldAxis := dataset.Axis{Values: fields, Unit: "mT", Quantity: dataset.QuantityMagneticField}
	data, err := dataset.NewData(make([]float64, len(fields)*2), []int{len(fields), 2}, []dataset.Axis{
		fieldAxis.Copy(),
		{Values: []float64{0, 1e-6}, Unit: "s", Quantity: dataset.QuantityTime},
		{Unit: "V", Quantity: dataset.QuantityIntensity},
	})
	require.NoError(t, err)
	ds := dataset.New(data)
	ds.MicrowaveFrequency, err = dataset.NewChannel(frequencies, fieldAxis.Copy(), dataset.Axis{Unit: "GHz", Quantity: dataset.QuantityMwFrequency})
	require.NoError(t, err)
	return ds
}

func analyse(t *testing.T, ds *dataset.Dataset, name string, params parameters.Parameters) interface{} {
	step, err := New(name, params)
	require.NoError(t, err)
	result, err := ds.Analyse(step)
	require.NoError(t, err)
	return result
}

func TestNew(t *testing.T) {
	assert.Equal(t, []string{"BasicCharacteristics", "MWFrequencyDrift", "MWFrequencyValues",
		"TimeStampAnalysis", "TransientNutationFFT"}, GetAvailableSteps())

	step, err := New("MwFreqAnalysis", nil)
	require.NoError(t, err)
	assert.Equal(t, "MWFrequencyDrift", step.Name())

	_, err = New("Fit", nil)
	assert.ErrorIs(t, err, treprErrors.ErrUnknownStep)
	_, err = New("MWFrequencyDrift", parameters.Parameters{"kind": "speed"})
	assert.ErrorIs(t, err, treprErrors.ErrUnit)
}

func TestFrequencyToField(t *testing.T) {
	//28 MHz correspond to roughly 1 mT at g=2
	assert.InDelta(t, 1, FrequencyToField(0.028), 0.01)
	assert.InDelta(t, 0, FrequencyToField(0), 1e-15)
}

func TestMWFrequencyDrift(t *testing.T) {
	ds := frequencyDataset(t, []float64{345, 346}, []float64{9.500, 9.528})
	ratio := analyse(t, ds, "MwFreqAnalysis", nil)
	assert.InDelta(t, 1, ratio, 0.01)

	ds = frequencyDataset(t, []float64{345, 346}, []float64{9.5000, 9.5028})
	assert.InDelta(t, 0.1, analyse(t, ds, "MWFrequencyDrift", nil), 0.001)

	ds = frequencyDataset(t, []float64{345, 347}, []float64{9.500, 9.528})
	assert.InDelta(t, 1, analyse(t, ds, "MWFrequencyDrift", parameters.Parameters{"kind": "drift"}), 0.01)
	assert.InDelta(t, 0.5, analyse(t, ds, "MWFrequencyDrift", parameters.Parameters{"kind": "ratio"}), 0.01)

	summary, ok := analyse(t, ds, "MWFrequencyDrift", parameters.Parameters{"output": "dict"}).(DriftSummary)
	require.True(t, ok)
	assert.InDelta(t, 0.028, summary.FrequencyDrift, 1e-12)
	assert.Equal(t, "GHz", summary.FrequencyUnit)
	assert.Equal(t, 2.0, summary.FieldStep)
	assert.InDelta(t, summary.FieldDrift/2, summary.Ratio, 1e-12)
}

func TestMWFrequencyDrift_Dataset(t *testing.T) {
	ds := frequencyDataset(t, []float64{345, 346, 347}, []float64{9.5, 9.528, 9.528})
	ch, ok := analyse(t, ds, "MWFrequencyDrift", parameters.Parameters{"output": "dataset", "kind": "drift"}).(*dataset.Channel)
	require.True(t, ok)
	assert.Equal(t, []float64{345.5, 346.5}, ch.Axes[0].Values)
	assert.InDelta(t, 1, ch.Values[0], 0.01)
	assert.InDelta(t, 0, ch.Values[1], 1e-12)
	assert.Equal(t, "mT", ch.Axes[1].Unit)
}

func TestMWFrequencyDrift_NotApplicable(t *testing.T) {
	ds := frequencyDataset(t, []float64{345, 346}, []float64{9.5, 9.5})
	ds.MicrowaveFrequency = nil
	step, err := New("MWFrequencyDrift", nil)
	require.NoError(t, err)
	_, err = ds.Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrNotApplicable)

	ds = frequencyDataset(t, []float64{345}, []float64{9.5})
	_, err = ds.Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrNotApplicable)
}

func TestMWFrequencyValues(t *testing.T) {
	ds := frequencyDataset(t, []float64{345, 346, 347}, []float64{9.4, 9.5, 9.6})
	stats, ok := analyse(t, ds, "MWFrequencyValues", nil).(FrequencyStatistics)
	require.True(t, ok)
	assert.InDelta(t, 9.5, stats.Mean, 1e-12)
	assert.Equal(t, 9.4, stats.Min)
	assert.Equal(t, 9.6, stats.Max)
	assert.InDelta(t, 0.1, stats.StdDev, 1e-12)
	//the result is a copy
	stats.Channel.Values[0] = 0
	assert.Equal(t, 9.4, ds.MicrowaveFrequency.Values[0])
}

func timeStampDataset(t *testing.T, fields []float64, offsets []time.Duration) *dataset.Dataset {
	ds := frequencyDataset(t, fields, make([]float64, len(fields)))
	start := time.Date(2017, time.June, 7, 8, 44, 57, 0, time.UTC)
	ts := make([]time.Time, len(offsets))
	for i := range offsets {
		ts[i] = start.Add(offsets[i])
	}
	ds.TimeStamp = &dataset.TimeStampChannel{
		Values: ts,
		Axes:   []dataset.Axis{{Values: append([]float64(nil), fields...), Unit: "mT", Quantity: dataset.QuantityMagneticField}, {Quantity: dataset.QuantityDate}},
	}
	return ds
}

func TestTimeStampAnalysis(t *testing.T) {
	//fields recorded in the order 342, 340, 341
	ds := timeStampDataset(t, []float64{340, 341, 342}, []time.Duration{time.Minute, 3 * time.Minute, 0})

	deltas := analyse(t, ds, "TimeStampAnalysis", nil)
	assert.Equal(t, []float64{60, 120}, deltas)

	times := analyse(t, ds, "TimeStampAnalysis", parameters.Parameters{"kind": "time"})
	assert.Equal(t, []float64{60, 180, 0}, times)

	ch, ok := analyse(t, ds, "TimeStampAnalysis", parameters.Parameters{"output": "dataset"}).(*dataset.Channel)
	require.True(t, ok)
	assert.Equal(t, []float64{340, 341}, ch.Axes[0].Values)
	assert.Equal(t, dataset.Axis{Unit: "s", Quantity: "time delta"}, ch.Axes[1])
}

func TestTimeStampAnalysis_NotApplicable(t *testing.T) {
	ds := timeStampDataset(t, []float64{340}, []time.Duration{0})
	step, err := New("TimeStampAnalysis", nil)
	require.NoError(t, err)
	_, err = ds.Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrNotApplicable)

	ds.TimeStamp = nil
	_, err = ds.Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrNotApplicable)
}

func matrix5x5(t *testing.T) *dataset.Dataset {
	values := make([]float64, 25)
	for i := range values {
		values[i] = float64(i % 7)
	}
	//unique maximum at row 3, column 1
	values[3*5+1] = 10
	values[4*5+4] = -2
	data, err := dataset.NewData(values, []int{5, 5}, []dataset.Axis{
		{Values: []float64{340, 341, 342, 343, 344}, Unit: "mT", Quantity: dataset.QuantityMagneticField},
		{Values: []float64{0, 1, 2, 3, 4}, Unit: "us", Quantity: dataset.QuantityTime},
		{Quantity: dataset.QuantityIntensity},
	})
	require.NoError(t, err)
	return dataset.New(data)
}

func TestBasicCharacteristics(t *testing.T) {
	ds := matrix5x5(t)

	assert.Equal(t, 10.0, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "max"}))
	assert.Equal(t, -2.0, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "min"}))
	assert.Equal(t, 12.0, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "amplitude"}))
	assert.Equal(t, floats.Sum(ds.Data.Values()), analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "area"}))

	assert.Equal(t, []int{3, 1}, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "max", "output": "indices"}))
	assert.Equal(t, []float64{343, 1}, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "max", "output": "axes"}))
	assert.Equal(t, 344.0, analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "min", "output": "axes", "axis": 0}))
}

func TestBasicCharacteristics_ScalarIndex(t *testing.T) {
	ds := matrix5x5(t)
	result := analyse(t, ds, "BasicCharacteristics", parameters.Parameters{"kind": "max", "output": "indices", "axis": 0})
	index, ok := result.(int)
	require.True(t, ok, "expected scalar, got %T", result)
	assert.Equal(t, 3, index)

	step, err := New("BasicCharacteristics", parameters.Parameters{"kind": "max", "output": "indices", "axis": 2})
	require.NoError(t, err)
	_, err = ds.Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrIndexOutOfBounds)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestBasicCharacteristics_Validation(t *testing.T) {
	_, err := New("BasicCharacteristics", parameters.Parameters{"kind": "median"})
	assert.ErrorIs(t, err, treprErrors.ErrUnit)
	_, err = New("BasicCharacteristics", parameters.Parameters{"kind": "max", "axis": -1})
	assert.ErrorIs(t, err, treprErrors.ErrIndexOutOfBounds)

	step, err := New("BasicCharacteristics", parameters.Parameters{"kind": "area", "output": "indices"})
	require.NoError(t, err)
	_, err = matrix5x5(t).Analyse(step)
	assert.ErrorIs(t, err, treprErrors.ErrNotApplicable)
}

func TestTransientNutationFFT(t *testing.T) {
	const (
		cols      = 256
		dt        = 4e-9
		frequency = 19.53125e6 //bin 80 of a 1024 point FFT at dt, 20 full periods in the transient
	)
	times := make([]float64, cols)
	row := make([]float64, cols)
	for i := range times {
		times[i] = float64(i) * dt
		row[i] = math.Cos(2 * math.Pi * frequency * times[i])
	}
	data, err := dataset.NewData(append(append([]float64(nil), row...), row...), []int{2, cols}, []dataset.Axis{
		{Values: []float64{340, 341}, Unit: "mT", Quantity: dataset.QuantityMagneticField},
		{Values: times, Unit: "s", Quantity: dataset.QuantityTime},
		{Unit: "V", Quantity: dataset.QuantityIntensity},
	})
	require.NoError(t, err)
	ds := dataset.New(data)

	result, ok := analyse(t, ds, "TransientNutationFFT", parameters.Parameters{"padding": 4}).(*dataset.Data)
	require.True(t, ok)
	assert.Equal(t, []int{2, 513}, result.Shape())
	frequencyAxis := result.Axes()[1]
	assert.Equal(t, "Hz", frequencyAxis.Unit)
	assert.InDelta(t, 1/(1024*dt), frequencyAxis.Values[1], 1)

	peak := floats.MaxIdx(result.Row(0)[1:]) + 1
	assert.InDelta(t, frequency, frequencyAxis.Values[peak], frequencyAxis.Values[1])
	assert.Equal(t, result.Row(0), result.Row(1))

	//analysis never modifies the dataset
	assert.Equal(t, row, ds.Data.Row(0))
}

func TestTransientNutationFFT_Validation(t *testing.T) {
	_, err := New("TransientNutationFFT", parameters.Parameters{"padding": 0})
	assert.ErrorIs(t, err, treprErrors.ErrRange)
	_, err = New("TransientNutationFFT", parameters.Parameters{"window": "kaiser"})
	assert.ErrorIs(t, err, treprErrors.ErrUnit)

	ds := matrix5x5(t)
	step, err := New("TransientNutationFFT", parameters.Parameters{"window": "hann"})
	require.NoError(t, err)
	result, err := ds.Analyse(step)
	require.NoError(t, err)
	assert.Equal(t, 2, result.(*dataset.Data).NDim())
}
