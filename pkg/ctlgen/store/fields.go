package store

import (
	"strconv"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/point"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// Fields returns the placeholder values of r keyed by upper-case field name.
// Related rows contribute prefixed fields, e.g. STATUS_TAG for an alarm.
// Missing relations leave their fields out.
func (s *Store) Fields(r sheet.Record) map[string]string {
	f := make(map[string]string)

	switch v := r.(type) {
	case Alarm:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		pointFields(f, v.Point)
		f["SETPOINT"] = formatFloat(v.Setpoint)
		f["UNITS"] = v.Units
		f["PRIORITY"] = strconv.Itoa(v.Priority)
		f["DELAY"] = formatFloat(v.Delay)
		f["STATUS_NUMBER"] = strconv.Itoa(v.StatusNumber)
		f["ENABLED"] = formatBool(v.Enabled)
		if sp, ok := v.Status(s); ok {
			f["STATUS_TAG"] = sp.Tag
			f["STATUS_DESCRIPTION"] = sp.Description
		}
		if in, ok := v.Input(s); ok {
			ioFields(f, in)
		}

	case ShutdownInput:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		pointFields(f, v.Point)
		f["SETPOINT"] = formatFloat(v.Setpoint)
		f["UNITS"] = v.Units
		f["GROUP"] = v.Group
		f["LATCHED"] = formatBool(v.Latched)
		f["BYPASSABLE"] = formatBool(v.Bypassable)
		f["TIMER_NUMBER"] = strconv.Itoa(v.TimerNumber)
		if tm, ok := v.Timer(s); ok {
			f["TIMER_TAG"] = tm.Tag
			f["TIMER_PRESET"] = formatFloat(tm.Preset)
		}
		if in, ok := v.Input(s); ok {
			ioFields(f, in)
		}

	case ShutdownGeneral:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["DESCRIPTION"] = v.Description
		f["SHUTDOWN_NUMBER"] = strconv.Itoa(v.ShutdownNumber)
		f["ACTION"] = v.Action
		if sd, ok := v.Input(s); ok {
			f["SHUTDOWN_TAG"] = sd.Tag
			f["SHUTDOWN_DESCRIPTION"] = sd.Description
		}

	case AnalogInput:
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		pointFields(f, v.Point)
		f["RANGE_LOW"] = formatFloat(v.RangeLow)
		f["RANGE_HIGH"] = formatFloat(v.RangeHigh)
		f["UNITS"] = v.Units
		f["RAW_LOW"] = formatFloat(v.RawLow)
		f["RAW_HIGH"] = formatFloat(v.RawHigh)

	case DiscreteInput:
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		pointFields(f, v.Point)
		f["NORMAL_STATE"] = v.NormalState
		f["INVERTED"] = formatBool(v.Inverted)

	case ModbusMapping:
		f["REGISTER"] = strconv.Itoa(v.Register)
		f["TAG"] = v.Tag
		pointFields(f, v.Point)
		f["DATA_TYPE"] = v.DataType
		f["SCALE"] = formatFloat(v.Scale)
		if in, ok := v.Input(s); ok {
			ioFields(f, in)
		}

	case StatusPoint:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		f["ON_TEXT"] = v.OnText
		f["OFF_TEXT"] = v.OffText

	case Timer:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["TAG"] = v.Tag
		f["DESCRIPTION"] = v.Description
		f["PRESET"] = formatFloat(v.Preset)
		f["UNITS"] = v.Units

	case Voting:
		f["NUMBER"] = strconv.Itoa(v.Number)
		f["DESCRIPTION"] = v.Description
		f["REQUIRED"] = strconv.Itoa(v.Required)
		for i, n := range v.Inputs {
			f["INPUT"+strconv.Itoa(i+1)] = strconv.Itoa(n)
		}
		voters := v.Voters(s)
		f["VOTERS"] = strconv.Itoa(len(voters))
		for i, sd := range voters {
			f["VOTER"+strconv.Itoa(i+1)+"_TAG"] = sd.Tag
		}
	}

	return f
}

func pointFields(f map[string]string, id point.Identifier) {
	f["POINT"] = id.String()
	f["RAW_POINT"] = id.Raw
	f["POINT_TYPE"] = id.Type
	f["RACK"] = id.Rack
	f["SLOT"] = id.Slot
	f["CHANNEL"] = id.Channel
}

// ioFields adds INPUT_ prefixed fields of an analog or discrete row.
func ioFields(f map[string]string, in sheet.Record) {
	switch row := in.(type) {
	case AnalogInput:
		f["INPUT_TAG"] = row.Tag
		f["INPUT_DESCRIPTION"] = row.Description
		f["INPUT_UNITS"] = row.Units
	case DiscreteInput:
		f["INPUT_TAG"] = row.Tag
		f["INPUT_DESCRIPTION"] = row.Description
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
