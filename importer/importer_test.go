package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"treprSuite/dataset"
	"treprSuite/metrics"
	"treprSuite/mocks"
	mockTraceSource "treprSuite/mocks/traceSource"
	"treprSuite/testUtils"
	"treprSuite/treprErrors"
)

func TestImport(t *testing.T) {
	dir := t.TempDir()
	m := testUtils.Measurement{Name: "sample", Fields: []float64{3400, 3410, 3420}, InfoVersion: "0.1.6"}
	require.NoError(t, testUtils.WriteMeasurement(dir, m))

	collector := metrics.NewCollector()
	ds, err := Import(context.Background(), dir, Options{Workers: 2, Metrics: collector})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 5000}, ds.Data.Shape())
	axes := ds.Data.Axes()
	require.Len(t, axes, 3)
	assert.Equal(t, dataset.Axis{Values: []float64{340, 341, 342}, Unit: "mT", Quantity: dataset.QuantityMagneticField}, axes[0])
	assert.Equal(t, "s", axes[1].Unit)
	assert.Equal(t, dataset.QuantityTime, axes[1].Quantity)
	assert.Equal(t, -1.001e-06, axes[1].Values[0])
	assert.InDelta(t, 8.997e-06, axes[1].Values[4999], 1e-18)
	assert.Equal(t, dataset.Axis{Unit: "V", Quantity: dataset.QuantityIntensity}, axes[2])

	require.NotNil(t, ds.MicrowaveFrequency)
	assert.Equal(t, []float64{9.684967, 9.684967, 9.684967}, ds.MicrowaveFrequency.Values)
	assert.Equal(t, "GHz", ds.MicrowaveFrequency.Axes[1].Unit)
	require.NotNil(t, ds.TimeStamp)
	assert.Equal(t, testUtils.DefaultStart, ds.TimeStamp.Values[0])

	//channels own their field values
	axes[0].Values[0] = 0
	assert.Equal(t, 340.0, ds.MicrowaveFrequency.Axes[0].Values[0])
	assert.Equal(t, 340.0, ds.TimeStamp.Axes[0].Values[0])

	assert.Equal(t, "Jane Doe", ds.Metadata.Measurement.Operator)
	assert.Equal(t, []string{"Recorded for testing.\nSecond line."}, ds.Annotations)
	assert.Equal(t, dir, ds.Source)
	assert.False(t, ds.IsProcessed())
}

func TestImportMissingInfoFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testUtils.WriteMeasurement(dir, testUtils.Measurement{Fields: []float64{3400}}))
	_, err := Import(context.Background(), dir, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrFileNotFound)
}

func TestImportNoTraceFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.info"), []byte(testUtils.InfoFile("0.1.6")), 0644))
	_, err := Import(context.Background(), dir, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrFileNotFound)
}

func TestImportUnknownInfoVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testUtils.WriteMeasurement(dir, testUtils.Measurement{Fields: []float64{3400}, InfoVersion: "0.0.1"}))
	_, err := Import(context.Background(), dir, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrSchema)
}

func TestAssembleOrderIndependentOfWorkers(t *testing.T) {
	const rows = 12
	traces := make([][]float64, rows)
	fields := make([]float64, rows)
	for i := range traces {
		traces[i] = testUtils.DRNGFloat64Slice(64, int64(i))
		fields[i] = 3400 + float64(i)
	}
	reader, err := mocks.CreateSpeksimBlockReader(traces, fields, -1)
	require.NoError(t, err)

	var reference *dataset.Dataset
	for _, workers := range []int{1, 3, 16} {
		ds, err := Assemble(context.Background(), reader, Options{Workers: workers})
		require.NoError(t, err, "workers %v", workers)
		require.Equal(t, []int{rows, 64}, ds.Data.Shape())
		for i := 0; i < rows; i++ {
			assert.InDeltaSlice(t, traces[i], ds.Data.Row(i), 1e-6, "row %v with %v workers", i, workers)
		}
		if reference == nil {
			reference = ds
			continue
		}
		assert.Equal(t, reference.Data.Values(), ds.Data.Values())
		assert.Equal(t, reference.Data.Axes(), ds.Data.Axes())
	}
}

func TestAssembleShapeMismatch(t *testing.T) {
	traces := [][]float64{
		testUtils.DRNGFloat64Slice(64, 1),
		testUtils.DRNGFloat64Slice(64, 2),
		testUtils.DRNGFloat64Slice(63, 3),
	}
	reader, err := mocks.CreateSpeksimBlockReader(traces, []float64{1, 2, 3}, -1)
	require.NoError(t, err)
	_, err = Assemble(context.Background(), reader, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrShape)
}

func TestAssembleFirstBlockSampleCount(t *testing.T) {
	reader, err := mocks.CreateSpeksimBlockReader([][]float64{{1, 2, 3}}, []float64{3400}, -1)
	require.NoError(t, err)
	//drop the last line so the body holds fewer samples than announced
	raw := strings.TrimSuffix(string(reader.Blocks[0]), "\n")
	reader.Blocks[0] = []byte(raw[:strings.LastIndex(raw, "\n")+1])

	_, err = Assemble(context.Background(), reader, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrShape)
}

func TestAssembleFailingReader(t *testing.T) {
	traces := make([][]float64, 10)
	fields := make([]float64, 10)
	for i := range traces {
		traces[i] = testUtils.DRNGFloat64Slice(32, int64(i))
		fields[i] = float64(i)
	}
	reader, err := mocks.CreateSpeksimBlockReader(traces, fields, 4)
	require.NoError(t, err)
	ds, err := Assemble(context.Background(), reader, Options{Workers: 4})
	assert.Error(t, err)
	assert.Nil(t, ds)
}

func TestAssembleEmptyReader(t *testing.T) {
	_, err := Assemble(context.Background(), mockTraceSource.MockBlockReader{FailAfter: -1}, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrFileNotFound)
}

func TestAssembleUnitMismatch(t *testing.T) {
	reader, err := mocks.CreateSpeksimBlockReader([][]float64{{1, 2}, {3, 4}}, []float64{3400, 3401}, -1)
	require.NoError(t, err)
	reader.Blocks[1] = []byte(strings.Replace(string(reader.Blocks[1]), "Gauss", "mT", 1))
	_, err = Assemble(context.Background(), reader, Options{})
	assert.ErrorIs(t, err, treprErrors.ErrParse)
}

func TestAssembleMemoryGuard(t *testing.T) {
	oldTotal := totalMemory
	defer func() { totalMemory = oldTotal }()
	totalMemory = func() uint64 { return 1024 }

	reader, err := mocks.CreateSpeksimBlockReader([][]float64{make([]float64, 100), make([]float64, 100)}, []float64{1, 2}, -1)
	require.NoError(t, err)
	_, err = Assemble(context.Background(), reader, Options{MemoryFraction: 0.5})
	assert.Error(t, err)

	totalMemory = func() uint64 { return 1 << 30 }
	_, err = Assemble(context.Background(), reader, Options{MemoryFraction: 0.5})
	assert.NoError(t, err)
}

func TestAssembleCancelled(t *testing.T) {
	traces := [][]float64{{1}, {2}, {3}}
	reader, err := mocks.CreateSpeksimBlockReader(traces, []float64{1, 2, 3}, -1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Assemble(ctx, reader, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToSIField(t *testing.T) {
	fields := []float64{3400, 3410}
	assert.Equal(t, "mT", toSIField(fields, "Gauss"))
	assert.Equal(t, []float64{340, 341}, fields)

	fields = []float64{340}
	assert.Equal(t, "mT", toSIField(fields, "mT"))
	assert.Equal(t, []float64{340}, fields)
}
