//Package metrics counts imports and applied steps. The collected values are written in the prometheus
//text format, e.g. for the node exporter textfile collector. All methods accept a nil *Collector
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trepr"

//Collector bundles the metrics of one program run in its own registry
type Collector struct {
	registry *prometheus.Registry

	importsTotal   *prometheus.CounterVec
	importDuration prometheus.Histogram
	filesParsed    prometheus.Counter
	stepsTotal     *prometheus.CounterVec
	stepDuration   *prometheus.HistogramVec
}

//NewCollector creates a Collector with a fresh registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		importsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Number of measurement imports by result",
		}, []string{"result"}),
		importDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of measurement imports",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		filesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trace_files_parsed_total",
			Help:      "Number of successfully parsed trace files",
		}),
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Number of processing and analysis steps by kind, name and result",
		}, []string{"kind", "name", "result"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of processing and analysis steps",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind", "name"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

//ObserveImport records one finished import
func (c *Collector) ObserveImport(d time.Duration, err error) {
	if c == nil {
		return
	}
	c.importsTotal.WithLabelValues(result(err)).Inc()
	c.importDuration.Observe(d.Seconds())
}

//ObserveParsedFile counts one parsed trace file
func (c *Collector) ObserveParsedFile() {
	if c == nil {
		return
	}
	c.filesParsed.Inc()
}

//ObserveStep records one processing ("processing") or analysis ("analysis") step
func (c *Collector) ObserveStep(kind, name string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.stepsTotal.WithLabelValues(kind, name, result(err)).Inc()
	c.stepDuration.WithLabelValues(kind, name).Observe(d.Seconds())
}

//WriteToTextfile stores all metrics in filename using the prometheus text format
func (c *Collector) WriteToTextfile(filename string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(filename, c.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %v", filename)
	}
	return nil
}
