package speksim

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"treprSuite/testUtils"
	"treprSuite/treprErrors"
)

var exampleHeader = []string{
	"Source : transient; Time : Wed Jun  7 08:44:57 2017",
	"B0 = 4080.000000 Gauss, mw = 9.684967 GHz",
	"NOTE: recorded at room temperature",
	"1 5000 -1.001e-06 8.997e-06 0 0",
	"s                        V",
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(exampleHeader)
	require.NoError(t, err)

	assert.Equal(t, "transient", h.FormatID)
	assert.Equal(t, time.Date(2017, time.June, 7, 8, 44, 57, 0, time.UTC), h.TimeStamp)
	assert.Equal(t, "B0", h.FieldName)
	assert.Equal(t, 4080.0, h.FieldValue)
	assert.Equal(t, "Gauss", h.FieldUnit)
	assert.Equal(t, "mw", h.FrequencyName)
	assert.Equal(t, 9.684967, h.Frequency)
	assert.Equal(t, "GHz", h.FrequencyUnit)
	assert.Equal(t, "NOTE: recorded at room temperature", h.Comment)
	assert.Equal(t, 1, h.FormatNumber)
	assert.Equal(t, 5000, h.SampleCount)
	assert.Equal(t, -1.001e-06, h.TimeStart)
	assert.Equal(t, 8.997e-06, h.TimeStop)
	assert.Equal(t, "s", h.TimeUnit)
	assert.Equal(t, "V", h.IntensityUnit)
}

func TestParseHeaderMalformed(t *testing.T) {
	tests := []struct {
		name string
		line int
		repl string
	}{
		{"missing time stamp", 0, "Source : transient"},
		{"bad time stamp", 0, "Source : transient; Time : yesterday"},
		{"single assignment", 1, "B0 = 4080.000000 Gauss"},
		{"assignment without unit", 1, "B0 = 4080.000000, mw = 9.684967 GHz"},
		{"non numeric sample count", 3, "1 many -1.001e-06 8.997e-06 0 0"},
		{"zero samples", 3, "1 0 -1.001e-06 8.997e-06 0 0"},
		{"too few dimension tokens", 3, "1 5000"},
		{"single unit", 4, "s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string(nil), exampleHeader...)
			lines[tt.line] = tt.repl
			_, err := ParseHeader(lines)
			require.Error(t, err)
			assert.True(t, errors.Is(err, treprErrors.ErrParse), "unexpected error %v", err)
		})
	}

	_, err := ParseHeader(exampleHeader[:3])
	assert.ErrorIs(t, err, treprErrors.ErrParse)
}

func TestParseTrace(t *testing.T) {
	ts := time.Date(2017, time.June, 7, 8, 44, 57, 0, time.UTC)
	trace := testUtils.DRNGFloat64Slice(100, 1)
	buf := &bytes.Buffer{}
	require.NoError(t, testUtils.WriteSpeksimFile(buf, 3400, 9.7, ts, -1e-6, 9e-6, trace))

	parsed, err := ParseTrace(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 100, parsed.Header.SampleCount)
	assert.Equal(t, ts, parsed.Header.TimeStamp)
	require.Len(t, parsed.Intensities, 100)
	assert.InDeltaSlice(t, trace, parsed.Intensities, 1e-6)
}

func TestParseTraceTwoColumns(t *testing.T) {
	raw := strings.Join(exampleHeader, "\n") + "\n0.0 1.5\n1.0 2.5\n\n2.0 -3.5\n"
	parsed, err := ParseTrace([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, -3.5}, parsed.Intensities)
}

func TestParseTraceErrors(t *testing.T) {
	_, err := ParseTrace([]byte(strings.Join(exampleHeader[:2], "\n")))
	assert.ErrorIs(t, err, treprErrors.ErrParse)

	raw := strings.Join(exampleHeader, "\n") + "\n1.0\nnan?\n"
	_, err = ParseTrace([]byte(raw))
	assert.ErrorIs(t, err, treprErrors.ErrParse)
}

func TestTimeAxis(t *testing.T) {
	axis := TimeAxis(-1.001e-06, 8.997e-06, 5000)
	require.Len(t, axis, 5000)
	assert.Equal(t, -1.001e-06, axis[0])
	assert.InDelta(t, 8.997e-06, axis[4999], 1e-18)
	assert.InDelta(t, 2e-9, axis[1]-axis[0], 1e-15)

	assert.Equal(t, []float64{0.5}, TimeAxis(0.5, 1, 1))
	assert.Nil(t, TimeAxis(0, 1, 0))
}
