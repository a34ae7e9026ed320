//Package metadata maps the info file of a measurement onto typed metadata.
//Info files evolved over several versions, the Mapper brings every supported version into one layout
//using enumerated mapping tables, FromTree then assigns the values field by field
package metadata

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//PhysicalQuantity is a value with unit, e.g. "9.68 GHz"
type PhysicalQuantity struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

func (q PhysicalQuantity) String() string {
	if q.Unit == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit
}

//IsZero returns true if neither value nor unit are set
func (q PhysicalQuantity) IsZero() bool {
	return q.Value == 0 && q.Unit == ""
}

//ParsePhysicalQuantity parses "<number> <unit>". An empty string yields the zero value
func ParsePhysicalQuantity(raw string) (PhysicalQuantity, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return PhysicalQuantity{}, nil
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return PhysicalQuantity{}, errors.Wrapf(treprErrors.ErrParse, "%q is not a physical quantity", raw)
	}
	return PhysicalQuantity{Value: v, Unit: strings.Join(fields[1:], " ")}, nil
}

type Measurement struct {
	Start    time.Time `yaml:"start"`
	End      time.Time `yaml:"end"`
	Purpose  string    `yaml:"purpose"`
	Operator string    `yaml:"operator"`
	Label    string    `yaml:"label"`
}

type Sample struct {
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	Loaded      string `yaml:"loaded"`
	Description string `yaml:"description"`
	Solvent     string `yaml:"solvent"`
	Preparation string `yaml:"preparation"`
	Tube        string `yaml:"tube"`
}

type Transient struct {
	Points          int              `yaml:"points"`
	Length          PhysicalQuantity `yaml:"length"`
	TriggerPosition int              `yaml:"trigger_position"`
}

type Experiment struct {
	Runs               int              `yaml:"runs"`
	ShotRepetitionRate PhysicalQuantity `yaml:"shot_repetition_rate"`
}

type Spectrometer struct {
	Model    string `yaml:"model"`
	Software string `yaml:"software"`
}

type MagneticField struct {
	FieldProbeType  string           `yaml:"field_probe_type"`
	FieldProbeModel string           `yaml:"field_probe_model"`
	Start           PhysicalQuantity `yaml:"start"`
	Stop            PhysicalQuantity `yaml:"stop"`
	Step            PhysicalQuantity `yaml:"step"`
	Sequence        string           `yaml:"sequence"`
	Controller      string           `yaml:"controller"`
	PowerSupply     string           `yaml:"power_supply"`
}

type Background struct {
	Field        PhysicalQuantity `yaml:"field"`
	Occurrence   int              `yaml:"occurrence"`
	Polarisation string           `yaml:"polarisation"`
	Intensity    PhysicalQuantity `yaml:"intensity"`
}

type Bridge struct {
	Model            string           `yaml:"model"`
	Controller       string           `yaml:"controller"`
	Attenuation      PhysicalQuantity `yaml:"attenuation"`
	Power            PhysicalQuantity `yaml:"power"`
	Detection        string           `yaml:"detection"`
	FrequencyCounter string           `yaml:"frequency_counter"`
	MwFrequency      PhysicalQuantity `yaml:"mw_frequency"`
}

type VideoAmplifier struct {
	Bandwidth     PhysicalQuantity `yaml:"bandwidth"`
	Amplification PhysicalQuantity `yaml:"amplification"`
}

type Recorder struct {
	Model       string           `yaml:"model"`
	Averages    int              `yaml:"averages"`
	TimeBase    PhysicalQuantity `yaml:"time_base"`
	Bandwidth   PhysicalQuantity `yaml:"bandwidth"`
	Pretrigger  PhysicalQuantity `yaml:"pretrigger"`
	Coupling    string           `yaml:"coupling"`
	Impedance   PhysicalQuantity `yaml:"impedance"`
	Sensitivity PhysicalQuantity `yaml:"sensitivity"`
}

type Probehead struct {
	Type     string `yaml:"type"`
	Model    string `yaml:"model"`
	Coupling string `yaml:"coupling"`
}

type Pump struct {
	Type            string           `yaml:"type"`
	Model           string           `yaml:"model"`
	Wavelength      PhysicalQuantity `yaml:"wavelength"`
	Power           PhysicalQuantity `yaml:"power"`
	RepetitionRate  PhysicalQuantity `yaml:"repetition_rate"`
	TunableType     string           `yaml:"tunable_type"`
	TunableModel    string           `yaml:"tunable_model"`
	TunableDye      string           `yaml:"tunable_dye"`
	TunablePosition int              `yaml:"tunable_position"`
	Filter          string           `yaml:"filter"`
}

type TemperatureControl struct {
	Temperature PhysicalQuantity `yaml:"temperature"`
	Controller  string           `yaml:"controller"`
	Cryostat    string           `yaml:"cryostat"`
	Cryogen     string           `yaml:"cryogen"`
}

//Metadata bundles all sections describing a measurement
type Metadata struct {
	Measurement        Measurement        `yaml:"measurement"`
	Sample             Sample             `yaml:"sample"`
	Transient          Transient          `yaml:"transient"`
	Experiment         Experiment         `yaml:"experiment"`
	Spectrometer       Spectrometer       `yaml:"spectrometer"`
	MagneticField      MagneticField      `yaml:"magnetic_field"`
	Background         Background         `yaml:"background"`
	Bridge             Bridge             `yaml:"bridge"`
	VideoAmplifier     VideoAmplifier     `yaml:"video_amplifier"`
	Recorder           Recorder           `yaml:"recorder"`
	Probehead          Probehead          `yaml:"probehead"`
	Pump               Pump               `yaml:"pump"`
	TemperatureControl TemperatureControl `yaml:"temperature_control"`
}

//dateLayouts lists accepted formats of combined "date time" values
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

//fieldReader reads typed values from a mapped section. The first conversion error is kept in err
type fieldReader struct {
	section string
	values  map[string]string
	err     error
}

//VariableName converts an info file key to the key used in the mapped tree, "Trigger position"
//becomes "trigger_position"
func VariableName(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
}

func newFieldReader(tree Tree, section string) *fieldReader {
	values := make(map[string]string)
	for k, v := range tree[section] {
		values[VariableName(k)] = v
	}
	return &fieldReader{section: section, values: values}
}

func (r *fieldReader) fail(key string, err error) {
	if r.err == nil {
		r.err = errors.Wrapf(err, "%v.%v", r.section, key)
	}
}

func (r *fieldReader) str(key string) string {
	return r.values[key]
}

func (r *fieldReader) quantity(key string) PhysicalQuantity {
	q, err := ParsePhysicalQuantity(r.values[key])
	if err != nil {
		r.fail(key, err)
	}
	return q
}

func (r *fieldReader) integer(key string) int {
	raw := strings.TrimSpace(r.values[key])
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, errors.Wrapf(treprErrors.ErrParse, "%q is not an integer", raw))
	}
	return v
}

func (r *fieldReader) date(key string) time.Time {
	raw := strings.Join(strings.Fields(r.values[key]), " ")
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	r.fail(key, errors.Wrapf(treprErrors.ErrParse, "%q is not a date", raw))
	return time.Time{}
}

//FromTree assigns the values of a mapped tree to Metadata. Keys missing in a section leave the
//zero value, malformed values return an error wrapping treprErrors.ErrParse
func FromTree(tree Tree) (Metadata, error) {
	var m Metadata
	readers := make([]*fieldReader, 0, 13)
	section := func(name string) *fieldReader {
		r := newFieldReader(tree, name)
		readers = append(readers, r)
		return r
	}

	r := section("measurement")
	m.Measurement = Measurement{
		Start:    r.date("start"),
		End:      r.date("end"),
		Purpose:  r.str("purpose"),
		Operator: r.str("operator"),
		Label:    r.str("label"),
	}
	r = section("sample")
	m.Sample = Sample{
		Name:        r.str("name"),
		ID:          r.str("id"),
		Loaded:      r.str("loaded"),
		Description: r.str("description"),
		Solvent:     r.str("solvent"),
		Preparation: r.str("preparation"),
		Tube:        r.str("tube"),
	}
	r = section("transient")
	m.Transient = Transient{
		Points:          r.integer("points"),
		Length:          r.quantity("length"),
		TriggerPosition: r.integer("trigger_position"),
	}
	r = section("experiment")
	m.Experiment = Experiment{
		Runs:               r.integer("runs"),
		ShotRepetitionRate: r.quantity("shot_repetition_rate"),
	}
	r = section("spectrometer")
	m.Spectrometer = Spectrometer{
		Model:    r.str("model"),
		Software: r.str("software"),
	}
	r = section("magnetic_field")
	m.MagneticField = MagneticField{
		FieldProbeType:  r.str("field_probe_type"),
		FieldProbeModel: r.str("field_probe_model"),
		Start:           r.quantity("start"),
		Stop:            r.quantity("stop"),
		Step:            r.quantity("step"),
		Sequence:        r.str("sequence"),
		Controller:      r.str("controller"),
		PowerSupply:     r.str("power_supply"),
	}
	r = section("background")
	m.Background = Background{
		Field:        r.quantity("field"),
		Occurrence:   r.integer("occurrence"),
		Polarisation: r.str("polarisation"),
		Intensity:    r.quantity("intensity"),
	}
	r = section("bridge")
	m.Bridge = Bridge{
		Model:            r.str("model"),
		Controller:       r.str("controller"),
		Attenuation:      r.quantity("attenuation"),
		Power:            r.quantity("power"),
		Detection:        r.str("detection"),
		FrequencyCounter: r.str("frequency_counter"),
		MwFrequency:      r.quantity("mw_frequency"),
	}
	r = section("video_amplifier")
	m.VideoAmplifier = VideoAmplifier{
		Bandwidth:     r.quantity("bandwidth"),
		Amplification: r.quantity("amplification"),
	}
	r = section("recorder")
	m.Recorder = Recorder{
		Model:       r.str("model"),
		Averages:    r.integer("averages"),
		TimeBase:    r.quantity("time_base"),
		Bandwidth:   r.quantity("bandwidth"),
		Pretrigger:  r.quantity("pretrigger"),
		Coupling:    r.str("coupling"),
		Impedance:   r.quantity("impedance"),
		Sensitivity: r.quantity("sensitivity"),
	}
	r = section("probehead")
	m.Probehead = Probehead{
		Type:     r.str("type"),
		Model:    r.str("model"),
		Coupling: r.str("coupling"),
	}
	r = section("pump")
	m.Pump = Pump{
		Type:            r.str("type"),
		Model:           r.str("model"),
		Wavelength:      r.quantity("wavelength"),
		Power:           r.quantity("power"),
		RepetitionRate:  r.quantity("repetition_rate"),
		TunableType:     r.str("tunable_type"),
		TunableModel:    r.str("tunable_model"),
		TunableDye:      r.str("tunable_dye"),
		TunablePosition: r.integer("tunable_position"),
		Filter:          r.str("filter"),
	}
	r = section("temperature_control")
	m.TemperatureControl = TemperatureControl{
		Temperature: r.quantity("temperature"),
		Controller:  r.str("controller"),
		Cryostat:    r.str("cryostat"),
		Cryogen:     r.str("cryogen"),
	}

	for _, r := range readers {
		if r.err != nil {
			return Metadata{}, r.err
		}
	}
	return m, nil
}

//FromInfo maps the blocks of an info file of the given version to Metadata
func (m *Mapper) FromInfo(version string, blocks map[string]map[string]string) (Metadata, error) {
	tree := NewTree(blocks)
	if err := m.Map(version, tree); err != nil {
		return Metadata{}, err
	}
	return FromTree(tree)
}
