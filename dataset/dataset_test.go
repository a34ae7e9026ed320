package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"treprSuite/treprErrors"
)

func axes2D() []Axis {
	return []Axis{
		{Values: []float64{340, 341}, Unit: "mT", Quantity: QuantityMagneticField},
		{Values: []float64{0, 1, 2}, Unit: "s", Quantity: QuantityTime},
		{Quantity: QuantityIntensity},
	}
}

func TestNewData(t *testing.T) {
	data, err := NewData([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, axes2D())
	require.NoError(t, err)
	assert.Equal(t, 2, data.NDim())
	assert.Equal(t, 2, data.Rows())
	assert.Equal(t, 3, data.Cols())
	assert.Equal(t, []float64{4, 5, 6}, data.Row(1))
	assert.Equal(t, 6.0, data.Matrix().At(1, 2))
	assert.Equal(t, []int{1, 2}, data.Unravel(5))
	assert.Equal(t, 6.0, data.MaxAbs())

	axis, err := data.Axis(2)
	require.NoError(t, err)
	assert.Equal(t, QuantityIntensity, axis.Quantity)
	_, err = data.Axis(3)
	assert.ErrorIs(t, err, treprErrors.ErrIndexOutOfBounds)
}

func TestNewDataInvalid(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		shape   []int
		axes    []Axis
		wantErr error
	}{
		{"three dimensions", make([]float64, 8), []int{2, 2, 2}, nil, treprErrors.ErrDimension},
		{"value count", make([]float64, 5), []int{2, 3}, axes2D(), treprErrors.ErrShape},
		{"axis count", make([]float64, 6), []int{2, 3}, axes2D()[:2], treprErrors.ErrShape},
		{"axis length", make([]float64, 6), []int{3, 2}, axes2D(), treprErrors.ErrShape},
		{"zero size", nil, []int{0}, []Axis{{}, {}}, treprErrors.ErrShape},
		{"dependent axis with values", make([]float64, 2), []int{2}, []Axis{{Values: []float64{1, 2}}, {Values: []float64{1}}}, treprErrors.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewData(tt.values, tt.shape, tt.axes)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDataCopy(t *testing.T) {
	data, err := NewData([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, axes2D())
	require.NoError(t, err)
	cp := data.Copy()
	cp.Values()[0] = 42
	cp.Axes()[0].Values[0] = 42
	assert.Equal(t, 1.0, data.Values()[0])
	assert.Equal(t, 340.0, data.Axes()[0].Values[0])
}

//fakeStep records calls and optionally fails
type fakeStep struct {
	validateErr error
	processed   bool
}

func (f *fakeStep) Name() string { return "Fake" }

func (f *fakeStep) Validate(_ *Dataset) error { return f.validateErr }

func (f *fakeStep) Process(ds *Dataset) error {
	f.processed = true
	ds.Data.Values()[0] = -1
	return nil
}

func (f *fakeStep) Parameters() map[string]interface{} {
	return map[string]interface{}{"answer": 42}
}

func TestDataset_Process(t *testing.T) {
	data, err := NewData([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, axes2D())
	require.NoError(t, err)
	ds := New(data)
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	ds.now = func() time.Time { return fixed }
	assert.False(t, ds.IsProcessed())

	require.NoError(t, ds.Process(&fakeStep{}))
	assert.True(t, ds.IsProcessed())
	history := ds.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Fake", history[0].Name)
	assert.Equal(t, 42, history[0].Parameters["answer"])
	assert.Equal(t, fixed, history[0].Timestamp)

	//History hands out copies
	history[0].Parameters["answer"] = 0
	history[0].Name = "changed"
	assert.Equal(t, "Fake", ds.History()[0].Name)
	assert.Equal(t, 42, ds.History()[0].Parameters["answer"])
}

func TestDataset_ProcessValidationFailure(t *testing.T) {
	data, err := NewData([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, axes2D())
	require.NoError(t, err)
	ds := New(data)
	step := &fakeStep{validateErr: treprErrors.ErrNotApplicable}

	err = ds.Process(step)
	assert.True(t, errors.Is(err, treprErrors.ErrNotApplicable))
	assert.False(t, step.processed)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, ds.Data.Values())
	assert.Empty(t, ds.History())
}

func TestDataset_FieldValues(t *testing.T) {
	data, err := NewData([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, axes2D())
	require.NoError(t, err)
	assert.Equal(t, []float64{340, 341}, New(data).FieldValues())

	data, err = NewData([]float64{1, 2, 3}, []int{3}, axes2D()[1:])
	require.NoError(t, err)
	assert.Nil(t, New(data).FieldValues())
}

func TestChannel(t *testing.T) {
	ch, err := NewChannel([]float64{9.5, 9.6},
		Axis{Values: []float64{340, 341}, Unit: "mT", Quantity: QuantityMagneticField},
		Axis{Unit: "GHz", Quantity: QuantityMwFrequency})
	require.NoError(t, err)
	assert.Equal(t, 2, ch.Len())
	x, y := ch.XY(1)
	assert.Equal(t, 341.0, x)
	assert.Equal(t, 9.6, y)

	cp := ch.Copy()
	cp.Values[0] = 0
	assert.Equal(t, 9.5, ch.Values[0])

	_, err = NewChannel([]float64{1}, Axis{Values: []float64{1, 2}}, Axis{})
	assert.ErrorIs(t, err, treprErrors.ErrShape)
}
