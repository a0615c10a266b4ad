package store

import (
	"strconv"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/point"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// Alarm is one row of the alarm list.
type Alarm struct {
	Number       int
	Tag          string
	Description  string
	Point        point.Identifier
	Setpoint     float64
	Units        string
	Priority     int
	Delay        float64
	StatusNumber int
	Enabled      bool
}

func (a Alarm) Key() string { return strconv.Itoa(a.Number) }

// Status returns the status point the alarm annunciates on.
func (a Alarm) Status(s *Store) (StatusPoint, bool) {
	if a.StatusNumber == 0 {
		return StatusPoint{}, false
	}
	return s.FindStatus(a.StatusNumber)
}

// Input returns the analog or discrete input row the alarm watches.
func (a Alarm) Input(s *Store) (sheet.Record, bool) {
	if a.Point.IsBlank() {
		return nil, false
	}
	return s.FindByPoint(a.Point)
}

func decodeAlarm(c *sheet.Cells) Alarm {
	return Alarm{
		Number:       c.Int("number"),
		Tag:          c.Text("tag"),
		Description:  c.Text("description"),
		Point:        c.Point("point"),
		Setpoint:     c.Float("setpoint"),
		Units:        c.Text("units"),
		Priority:     c.Int("priority"),
		Delay:        c.Float("delay"),
		StatusNumber: c.Int("status"),
		Enabled:      c.Bool("enabled"),
	}
}

// ShutdownInput is one shutdown initiator.
type ShutdownInput struct {
	Number      int
	Tag         string
	Description string
	Point       point.Identifier
	Setpoint    float64
	Units       string
	Group       string
	Latched     bool
	Bypassable  bool
	TimerNumber int
}

func (sd ShutdownInput) Key() string { return strconv.Itoa(sd.Number) }

// Timer returns the delay timer attached to the shutdown.
func (sd ShutdownInput) Timer(s *Store) (Timer, bool) {
	if sd.TimerNumber == 0 {
		return Timer{}, false
	}
	return s.FindTimer(sd.TimerNumber)
}

// Input returns the I/O row that trips the shutdown.
func (sd ShutdownInput) Input(s *Store) (sheet.Record, bool) {
	if sd.Point.IsBlank() {
		return nil, false
	}
	return s.FindByPoint(sd.Point)
}

func decodeShutdownInput(c *sheet.Cells) ShutdownInput {
	return ShutdownInput{
		Number:      c.Int("number"),
		Tag:         c.Text("tag"),
		Description: c.Text("description"),
		Point:       c.Point("point"),
		Setpoint:    c.Float("setpoint"),
		Units:       c.Text("units"),
		Group:       c.Text("group"),
		Latched:     c.Bool("latched"),
		Bypassable:  c.Bool("bypassable"),
		TimerNumber: c.Int("timer"),
	}
}

// ShutdownGeneral is a general shutdown action driven by one shutdown input.
type ShutdownGeneral struct {
	Number         int
	Description    string
	ShutdownNumber int
	Action         string
}

func (g ShutdownGeneral) Key() string { return strconv.Itoa(g.Number) }

// Input returns the shutdown input row this action belongs to.
func (g ShutdownGeneral) Input(s *Store) (ShutdownInput, bool) {
	if g.ShutdownNumber == 0 {
		return ShutdownInput{}, false
	}
	return s.FindShutdown(g.ShutdownNumber)
}

func decodeShutdownGeneral(c *sheet.Cells) ShutdownGeneral {
	return ShutdownGeneral{
		Number:         c.Int("number"),
		Description:    c.Text("description"),
		ShutdownNumber: c.Int("shutdown"),
		Action:         c.Text("action"),
	}
}

// AnalogInput is one analog channel, keyed by its canonical point.
type AnalogInput struct {
	Point       point.Identifier
	Tag         string
	Description string
	RangeLow    float64
	RangeHigh   float64
	Units       string
	RawLow      float64
	RawHigh     float64
}

func (ai AnalogInput) Key() string { return ai.Point.Canonical() }

func decodeAnalogInput(c *sheet.Cells) AnalogInput {
	return AnalogInput{
		Point:       c.Point("point"),
		Tag:         c.Text("tag"),
		Description: c.Text("description"),
		RangeLow:    c.Float("range_low"),
		RangeHigh:   c.Float("range_high"),
		Units:       c.Text("units"),
		RawLow:      c.Float("raw_low"),
		RawHigh:     c.Float("raw_high"),
	}
}

// DiscreteInput is one discrete channel, keyed by its canonical point.
type DiscreteInput struct {
	Point       point.Identifier
	Tag         string
	Description string
	NormalState string
	Inverted    bool
}

func (di DiscreteInput) Key() string { return di.Point.Canonical() }

func decodeDiscreteInput(c *sheet.Cells) DiscreteInput {
	return DiscreteInput{
		Point:       c.Point("point"),
		Tag:         c.Text("tag"),
		Description: c.Text("description"),
		NormalState: c.Text("normal_state"),
		Inverted:    c.Bool("inverted"),
	}
}

// ModbusMapping maps a holding register to a tag.
type ModbusMapping struct {
	Register int
	Tag      string
	Point    point.Identifier
	DataType string
	Scale    float64
}

func (m ModbusMapping) Key() string { return strconv.Itoa(m.Register) }

// Input returns the I/O row behind the register, when it has a point.
func (m ModbusMapping) Input(s *Store) (sheet.Record, bool) {
	if m.Point.IsBlank() {
		return nil, false
	}
	return s.FindByPoint(m.Point)
}

func decodeModbusMapping(c *sheet.Cells) ModbusMapping {
	return ModbusMapping{
		Register: c.Int("register"),
		Tag:      c.Text("tag"),
		Point:    c.Point("point"),
		DataType: c.Text("data_type"),
		Scale:    c.Float("scale"),
	}
}

// StatusPoint is an annunciation status word.
type StatusPoint struct {
	Number      int
	Tag         string
	Description string
	OnText      string
	OffText     string
}

func (sp StatusPoint) Key() string { return strconv.Itoa(sp.Number) }

func decodeStatusPoint(c *sheet.Cells) StatusPoint {
	return StatusPoint{
		Number:      c.Int("number"),
		Tag:         c.Text("tag"),
		Description: c.Text("description"),
		OnText:      c.Text("on_text"),
		OffText:     c.Text("off_text"),
	}
}

// Timer is a configured delay timer.
type Timer struct {
	Number      int
	Tag         string
	Description string
	Preset      float64
	Units       string
}

func (t Timer) Key() string { return strconv.Itoa(t.Number) }

func decodeTimer(c *sheet.Cells) Timer {
	return Timer{
		Number:      c.Int("number"),
		Tag:         c.Text("tag"),
		Description: c.Text("description"),
		Preset:      c.Float("preset"),
		Units:       c.Text("units"),
	}
}

// Voting is an M-out-of-N vote over up to four shutdown inputs.
type Voting struct {
	Number      int
	Description string
	Required    int
	Inputs      [4]int
}

func (v Voting) Key() string { return strconv.Itoa(v.Number) }

// Voters returns the shutdown inputs that take part in the vote. Numbers
// that do not resolve are skipped.
func (v Voting) Voters(s *Store) []ShutdownInput {
	var voters []ShutdownInput
	for _, n := range v.Inputs {
		if n == 0 {
			continue
		}
		if sd, ok := s.FindShutdown(n); ok {
			voters = append(voters, sd)
		}
	}
	return voters
}

func decodeVoting(c *sheet.Cells) Voting {
	return Voting{
		Number:      c.Int("number"),
		Description: c.Text("description"),
		Required:    c.Int("required"),
		Inputs: [4]int{
			c.Int("input1"),
			c.Int("input2"),
			c.Int("input3"),
			c.Int("input4"),
		},
	}
}
