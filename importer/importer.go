//Package importer assembles the trace files of one measurement directory into a dataset
package importer

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"treprSuite/dataset"
	"treprSuite/infoFile"
	"treprSuite/metadata"
	"treprSuite/metrics"
	"treprSuite/speksim"
	"treprSuite/traceSource"
	"treprSuite/treprErrors"
)

//DefaultMemoryFraction is the share of the total memory a single import may use for its tensor
const DefaultMemoryFraction = 0.5

//totalMemory is replaced in tests
var totalMemory = memory.TotalMemory

//Options configures an import. The zero value is usable
type Options struct {
	//Workers is the number of files parsed in parallel, defaults to runtime.NumCPU()
	Workers int
	//MemoryFraction limits the tensor size to this share of the total memory, defaults to DefaultMemoryFraction
	MemoryFraction float64
	Logger         *slog.Logger
	//Metrics may be nil
	Metrics *metrics.Collector
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MemoryFraction <= 0 || o.MemoryFraction > 1 {
		o.MemoryFraction = DefaultMemoryFraction
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

//Import reads the measurement in folderPath: all trace files and the info file. Either a fully populated
//dataset or an error is returned
func Import(ctx context.Context, folderPath string, opts Options) (ds *dataset.Dataset, err error) {
	opts = opts.withDefaults()
	start := time.Now()
	defer func() {
		opts.Metrics.ObserveImport(time.Since(start), err)
	}()

	reader, err := traceSource.NewTraceFileReader(folderPath)
	if err != nil {
		return nil, err
	}
	rawInfo, err := reader.InfoFile()
	if err != nil {
		return nil, err
	}
	md, comment, err := mapInfo(rawInfo)
	if err != nil {
		return nil, errors.Wrapf(err, "info file of %v", folderPath)
	}

	ds, err = Assemble(ctx, reader, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %v", folderPath)
	}
	ds.Metadata = md
	if comment != "" {
		ds.Annotations = append(ds.Annotations, comment)
	}
	ds.Source = folderPath
	opts.Logger.Info("imported measurement", "path", folderPath, "shape", ds.Data.Shape(), "duration", time.Since(start))
	return ds, nil
}

func mapInfo(raw []byte) (metadata.Metadata, string, error) {
	info, err := infoFile.Parse(raw)
	if err != nil {
		return metadata.Metadata{}, "", err
	}
	mapper, err := metadata.NewMapper()
	if err != nil {
		return metadata.Metadata{}, "", err
	}
	md, err := mapper.FromInfo(info.Version, info.Blocks)
	if err != nil {
		return metadata.Metadata{}, "", err
	}
	return md, info.Comment, nil
}

//Assemble parses all blocks of reader and stacks the traces row by row in block order. The first block
//defines the time axis and the sample count every other block has to match
func Assemble(ctx context.Context, reader traceSource.TraceBlockReader, opts Options) (*dataset.Dataset, error) {
	opts = opts.withDefaults()
	blockCount := reader.TotalBlockCount()
	if blockCount == 0 {
		return nil, errors.Wrap(treprErrors.ErrFileNotFound, "measurement has no trace files")
	}

	first, err := parseBlock(reader, 0)
	if err != nil {
		return nil, err
	}
	if len(first.Intensities) != first.Header.SampleCount {
		return nil, errors.Wrapf(treprErrors.ErrShape, "%v : header announces %v samples, found %v",
			reader.BlockName(0), first.Header.SampleCount, len(first.Intensities))
	}
	if err := checkMemory(blockCount, first.Header.SampleCount, opts.MemoryFraction); err != nil {
		return nil, err
	}

	traces := make([]*speksim.Trace, blockCount)
	traces[0] = first
	opts.Metrics.ObserveParsedFile()

	workers, ctx := errgroup.WithContext(ctx)
	workers.SetLimit(opts.Workers)
	for nr := 1; nr < blockCount; nr++ {
		workers.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trace, err := parseBlock(reader, nr)
			if err != nil {
				return err
			}
			if len(trace.Intensities) != first.Header.SampleCount {
				return errors.Wrapf(treprErrors.ErrShape, "%v : expected %v samples like %v, found %v",
					reader.BlockName(nr), first.Header.SampleCount, reader.BlockName(0), len(trace.Intensities))
			}
			//each worker owns its slot, no locking needed
			traces[nr] = trace
			opts.Metrics.ObserveParsedFile()
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return nil, err
	}
	opts.Logger.Debug("parsed trace files", "count", blockCount, "samples", first.Header.SampleCount)

	return stack(traces, reader)
}

func parseBlock(reader traceSource.TraceBlockReader, nr int) (*speksim.Trace, error) {
	raw, err := reader.GetBlock(nr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get trace block/file with id %v", nr)
	}
	trace, err := speksim.ParseTrace(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", reader.BlockName(nr))
	}
	return trace, nil
}

func checkMemory(rows, cols int, fraction float64) error {
	total := totalMemory()
	if total == 0 {
		//unknown on this platform
		return nil
	}
	need := uint64(rows) * uint64(cols) * 8
	if limit := uint64(float64(total) * fraction); need > limit {
		return errors.Errorf("measurement needs %v MB but only %v MB may be used", need/Mega, limit/Mega)
	}
	return nil
}

//Mega SI unit prefix
const Mega = 1024 * 1024

//stack builds the dataset from the parsed traces, which are in canonical order
func stack(traces []*speksim.Trace, reader traceSource.TraceBlockReader) (*dataset.Dataset, error) {
	first := traces[0].Header
	rows, cols := len(traces), first.SampleCount

	values := make([]float64, 0, rows*cols)
	fields := make([]float64, rows)
	frequencies := make([]float64, rows)
	timeStamps := make([]time.Time, rows)
	for i, trace := range traces {
		h := trace.Header
		if h.FieldUnit != first.FieldUnit || h.FrequencyUnit != first.FrequencyUnit {
			return nil, errors.Wrapf(treprErrors.ErrParse, "%v : units %v/%v differ from %v/%v of %v", reader.BlockName(i),
				h.FieldUnit, h.FrequencyUnit, first.FieldUnit, first.FrequencyUnit, reader.BlockName(0))
		}
		values = append(values, trace.Intensities...)
		fields[i] = h.FieldValue
		frequencies[i] = h.Frequency
		timeStamps[i] = h.TimeStamp
	}
	fieldUnit := toSIField(fields, first.FieldUnit)

	axes := []dataset.Axis{
		{Values: fields, Unit: fieldUnit, Quantity: dataset.QuantityMagneticField},
		{Values: speksim.TimeAxis(first.TimeStart, first.TimeStop, cols), Unit: first.TimeUnit, Quantity: dataset.QuantityTime},
		{Unit: first.IntensityUnit, Quantity: dataset.QuantityIntensity},
	}
	data, err := dataset.NewData(values, []int{rows, cols}, axes)
	if err != nil {
		return nil, err
	}
	ds := dataset.New(data)
	ds.TimeStamp, ds.MicrowaveFrequency = buildChannels(fields, fieldUnit, timeStamps, frequencies, first.FrequencyUnit)
	return ds, nil
}

//toSIField converts fields in place from Gauss to mT and returns the resulting unit
func toSIField(fields []float64, unit string) string {
	if unit != "Gauss" && unit != "G" {
		return unit
	}
	for i := range fields {
		fields[i] /= 10
	}
	return "mT"
}

//buildChannels creates the per field point time stamp and frequency channels. Both get their own copy
//of the field values so processing the data axes does not touch them
func buildChannels(fields []float64, fieldUnit string, timeStamps []time.Time, frequencies []float64,
	frequencyUnit string) (*dataset.TimeStampChannel, *dataset.Channel) {
	fieldAxis := dataset.Axis{Values: fields, Unit: fieldUnit, Quantity: dataset.QuantityMagneticField}

	ts := &dataset.TimeStampChannel{
		Values: timeStamps,
		Axes:   []dataset.Axis{fieldAxis.Copy(), {Quantity: dataset.QuantityDate}},
	}
	mw := &dataset.Channel{
		Values: frequencies,
		Axes:   []dataset.Axis{fieldAxis.Copy(), {Unit: frequencyUnit, Quantity: dataset.QuantityMwFrequency}},
	}
	return ts, mw
}
