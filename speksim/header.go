//Package speksim parses the plain text trace files written by the Speksim transient recorder
//software. Each file holds one time trace recorded at a single magnetic field point:
//five header lines followed by the numeric rows of the trace
package speksim

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//HeaderLines is the number of fixed lines preceding the trace data
const HeaderLines = 5

//timeStampLayout matches "Wed Jun 7 08:44:57 2017"
const timeStampLayout = "Mon Jan 2 15:04:05 2006"

var assignmentRegex = regexp.MustCompile(`^\s*([A-Za-z0-9]+)\s*=\s*([-+0-9.eE]+)\s+([A-Za-z]+)\s*$`)

//Header is the typed content of the five header lines
type Header struct {
	FormatID  string
	TimeStamp time.Time

	FieldName  string
	FieldValue float64
	FieldUnit  string

	FrequencyName string
	Frequency     float64
	FrequencyUnit string

	//Comment is line three, verbatim
	Comment string

	FormatNumber int
	SampleCount  int
	TimeStart    float64
	TimeStop     float64

	TimeUnit      string
	IntensityUnit string
}

func parseErr(line int, format string, args ...interface{}) error {
	return errors.Wrapf(treprErrors.ErrParse, "header line %v : "+format, append([]interface{}{line}, args...)...)
}

//ParseHeader parses the five header lines of a trace file
func ParseHeader(lines []string) (Header, error) {
	var h Header
	if len(lines) < HeaderLines {
		return h, errors.Wrapf(treprErrors.ErrParse, "header needs %v lines, got %v", HeaderLines, len(lines))
	}
	var err error
	if h.FormatID, h.TimeStamp, err = parseIdentification(lines[0]); err != nil {
		return h, err
	}
	if err := parseAssignments(lines[1], &h); err != nil {
		return h, err
	}
	h.Comment = lines[2]
	if err := parseDimensions(lines[3], &h); err != nil {
		return h, err
	}

	units := strings.Fields(lines[4])
	if len(units) != 2 {
		return h, parseErr(5, "expected time and intensity unit, got %q", lines[4])
	}
	h.TimeUnit, h.IntensityUnit = units[0], units[1]

	return h, nil
}

//parseIdentification handles "Source : transient; Time : Wed Jun 7 08:44:57 2017"
func parseIdentification(line string) (string, time.Time, error) {
	entries := strings.Split(line, ";")
	if len(entries) < 2 {
		return "", time.Time{}, parseErr(1, "expected \"<key> : <value>; Time : <timestamp>\", got %q", line)
	}
	formatTokens := strings.SplitN(entries[0], ":", 2)
	if len(formatTokens) != 2 {
		return "", time.Time{}, parseErr(1, "missing format identifier in %q", entries[0])
	}
	formatID := strings.TrimSpace(formatTokens[1])

	var rawTime string
	for _, entry := range entries[1:] {
		kv := strings.SplitN(entry, " : ", 2)
		if len(kv) == 2 && strings.TrimSpace(kv[0]) == "Time" {
			rawTime = kv[1]
			break
		}
	}
	if rawTime == "" {
		return "", time.Time{}, parseErr(1, "missing time stamp in %q", line)
	}
	//ctime style output pads single digit days with a second space
	ts, err := time.Parse(timeStampLayout, strings.Join(strings.Fields(rawTime), " "))
	if err != nil {
		return "", time.Time{}, parseErr(1, "failed to parse time stamp %q : %v", rawTime, err)
	}
	return formatID, ts, nil
}

//parseAssignments handles "B0 = 4080.000000 Gauss, mw = 9.684967 GHz"
func parseAssignments(line string, h *Header) error {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return parseErr(2, "expected two assignments, got %q", line)
	}
	var names, units [2]string
	var values [2]float64
	for i, part := range parts {
		match := assignmentRegex.FindStringSubmatch(part)
		if match == nil {
			return parseErr(2, "expected \"<name> = <number> <unit>\", got %q", part)
		}
		v, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			return parseErr(2, "failed to parse value %q : %v", match[2], err)
		}
		names[i], values[i], units[i] = match[1], v, match[3]
	}
	h.FieldName, h.FieldValue, h.FieldUnit = names[0], values[0], units[0]
	h.FrequencyName, h.Frequency, h.FrequencyUnit = names[1], values[1], units[1]
	return nil
}

//parseDimensions handles "1 5000 -1.001e-06 8.997e-06 0 0"
func parseDimensions(line string, h *Header) error {
	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		return parseErr(4, "expected at least four tokens, got %q", line)
	}
	var err error
	if h.FormatNumber, err = strconv.Atoi(tokens[0]); err != nil {
		return parseErr(4, "format number %q is not an integer", tokens[0])
	}
	if h.SampleCount, err = strconv.Atoi(tokens[1]); err != nil {
		return parseErr(4, "sample count %q is not an integer", tokens[1])
	}
	if h.SampleCount <= 0 {
		return parseErr(4, "sample count must be positive, got %v", h.SampleCount)
	}
	if h.TimeStart, err = strconv.ParseFloat(tokens[2], 64); err != nil {
		return parseErr(4, "time window start %q is not a number", tokens[2])
	}
	if h.TimeStop, err = strconv.ParseFloat(tokens[3], 64); err != nil {
		return parseErr(4, "time window stop %q is not a number", tokens[3])
	}
	return nil
}

//splitHeader returns the header lines and the remaining body of a raw trace file
func splitHeader(raw []byte) ([]string, []byte, error) {
	reader := bufio.NewReader(bytes.NewReader(raw))
	lines := make([]string, 0, HeaderLines)
	consumed := 0
	for len(lines) < HeaderLines {
		line, err := reader.ReadString('\n')
		consumed += len(line)
		if err != nil && line == "" {
			return nil, nil, errors.Wrapf(treprErrors.ErrParse, "file ends after %v header lines", len(lines))
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}
	return lines, raw[consumed:], nil
}
