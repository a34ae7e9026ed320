package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.ObserveImport(time.Second, nil)
	c.ObserveImport(time.Second, errors.New("broken"))
	c.ObserveParsedFile()
	c.ObserveParsedFile()
	c.ObserveParsedFile()
	c.ObserveStep("processing", "Averaging", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.importsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.importsTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.filesParsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stepsTotal.WithLabelValues("processing", "Averaging", "ok")))

	path := filepath.Join(t.TempDir(), "trepr.prom")
	require.NoError(t, c.WriteToTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "trepr_trace_files_parsed_total 3"))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveImport(time.Second, nil)
	c.ObserveParsedFile()
	c.ObserveStep("analysis", "BasicCharacteristics", time.Second, nil)
	assert.NoError(t, c.WriteToTextfile(filepath.Join(t.TempDir(), "unused")))
}
