package testUtils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//Measurement describes a measurement directory to create with WriteMeasurement
type Measurement struct {
	//Name is the base name of the trace files, e.g. "sample" yields "sample.001"...
	Name string
	//Fields in Gauss, one entry per trace file
	Fields []float64
	//Frequencies in GHz, defaults to 9.68 for every field
	Frequencies []float64
	//TimeStamps default to one minute apart starting 2017-06-07 08:44:57
	TimeStamps []time.Time
	Samples    int
	TimeStart  float64
	TimeStop   float64
	//Traces defaults to synthetic transients
	Traces [][]float64
	//InfoVersion of the info file, no info file is written if empty
	InfoVersion string
}

//DefaultStart is the time stamp of the first trace if none are given
var DefaultStart = time.Date(2017, time.June, 7, 8, 44, 57, 0, time.UTC)

func (m *Measurement) fillDefaults() {
	if m.Name == "" {
		m.Name = "measurement"
	}
	if m.Samples == 0 {
		m.Samples = 5000
		m.TimeStart, m.TimeStop = -1.001e-06, 8.997e-06
	}
	if m.Frequencies == nil {
		m.Frequencies = make([]float64, len(m.Fields))
		for i := range m.Frequencies {
			m.Frequencies[i] = 9.684967
		}
	}
	if m.TimeStamps == nil {
		m.TimeStamps = make([]time.Time, len(m.Fields))
		for i := range m.TimeStamps {
			m.TimeStamps[i] = DefaultStart.Add(time.Duration(i) * time.Minute)
		}
	}
	if m.Traces == nil {
		m.Traces = make([][]float64, len(m.Fields))
		for i := range m.Traces {
			m.Traces[i] = Transient(m.Samples, m.Samples/10, float64(i+1), 0.01, 0.001, int64(i))
		}
	}
}

//WriteSpeksimFile writes one trace file
func WriteSpeksimFile(w io.Writer, field, frequency float64, ts time.Time, timeStart, timeStop float64, trace []float64) error {
	header := fmt.Sprintf("Source : transient; Time : %s\n"+
		"B0 = %f Gauss, mw = %f GHz\n"+
		"written by testUtils\n"+
		"1 %d %g %g 0 0\n"+
		"s                        V\n",
		ts.Format("Mon Jan _2 15:04:05 2006"), field, frequency, len(trace), timeStart, timeStop)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	var sb strings.Builder
	for _, v := range trace {
		fmt.Fprintf(&sb, "%.9e\n", v)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

//WriteMeasurement creates the trace files (and optionally the info file) of m in dir
func WriteMeasurement(dir string, m Measurement) error {
	m.fillDefaults()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	for i := range m.Fields {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%s.%03d", m.Name, i+1)))
		if err != nil {
			return err
		}
		err = WriteSpeksimFile(f, m.Fields[i], m.Frequencies[i], m.TimeStamps[i], m.TimeStart, m.TimeStop, m.Traces[i])
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}
	}
	if m.InfoVersion == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, m.Name+".info"), []byte(InfoFile(m.InfoVersion)), 0644)
}

//InfoFile returns an info file of the given version. Versions before 0.1.4 use the legacy layout
func InfoFile(version string) string {
	general := `GENERAL
Filename:               measurement
Date start:             2017-06-07
Time start:             08:44:57
Date end:               2017-06-07
Time end:               09:44:57
Operator:               Jane Doe
Label:                  test measurement
Purpose:                testing
`
	experiment := `EXPERIMENT
Runs:                   1
Shot repetition rate:   10 Hz

SPECTROMETER
Model:                  ER 300
Software:               Speksim
`
	if version < "0.1.4" {
		general = `GENERAL
Filename:               measurement
Date:                   2017-06-07
Time start:             08:44:57
Time end:               09:44:57
Operator:               Jane Doe
Label:                  test measurement
Purpose:                testing
Runs:                   1
Shot repetition rate:   10 Hz
Spectrometer:           ER 300
Software:               Speksim
`
		experiment = ""
	}
	return fmt.Sprintf(`%% trepr info file - v. %s (2017-06-07)
%% comment lines start with a percent sign

%s
SAMPLE
Name:                   PCBM:P3HT
ID:                     42
Loaded:                 2017-06-06
Description:            blend
Solvent:                chlorobenzene
Preparation:            drop cast
Tube:                   quartz, 3 mm

TRANSIENT
Points:                 5000
Trigger position:       500
Length:                 10 us

%s
MAGNETIC FIELD
Field probe type:       Hall probe
Field probe model:      ER 035M
Start:                  340 mT
Stop:                   350 mT
Step:                   1 mT
Sequence:               up
Controller:             ER 032M
Power supply:           ER 081

BACKGROUND
Field:                  330 mT
Occurrence:             1
Polarisation:           absorptive
Intensity:              0.1 V

BRIDGE
Model:                  ER 046
Controller:             ER 048
Attenuation:            20 dB
Power:                  2 mW
Detection:              mixer
Frequency counter:      HP 5352B
MW frequency:           9.684967 GHz

VIDEO AMPLIFIER
Bandwidth:              25 MHz
Amplification:          42 dB

RECORDER
Model:                  LeCroy
Averages:               100
Time base:              2 ns
Bandwidth:              200 MHz
Pretrigger:             1 us
Coupling:               AC
Impedance:              50 Ohm
Sensitivity:            5 mV

PROBEHEAD
Type:                   dielectric
Model:                  ER 4118X-MD5
Coupling:               critical

PUMP
Type:                   Nd:YAG
Model:                  Quantel
Wavelength:             532 nm
Power:                  5 mJ
Repetition rate:        10 Hz
Tunable type:           OPO
Tunable model:          Opotek
Tunable dye:
Tunable position:       3

TEMPERATURE
Temperature:            80 K
Controller:             ITC 503
Cryostat:               ESR 900
Cryogen:                liquid nitrogen

COMMENT
Recorded for testing.
Second line.
`, version, general, experiment)
}
