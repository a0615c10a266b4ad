package store

import "github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"

// Table names.
const (
	TableAlarms          = "alarms"
	TableShutdowns       = "shutdowns"
	TableShutdownGeneral = "shutdown_general"
	TableAnalogInputs    = "analog_inputs"
	TableDiscreteInputs  = "discrete_inputs"
	TableModbusMap       = "modbus_map"
	TableStatus          = "status"
	TableTimers          = "timers"
	TableVoting          = "voting"
)

// TableNames lists every table in import order.
func TableNames() []string {
	return []string{
		TableAnalogInputs,
		TableDiscreteInputs,
		TableStatus,
		TableTimers,
		TableAlarms,
		TableShutdowns,
		TableShutdownGeneral,
		TableVoting,
		TableModbusMap,
	}
}

func fixed(fields ...string) []sheet.Column {
	cols := make([]sheet.Column, len(fields))
	for i, f := range fields {
		cols[i] = sheet.Column{Field: f, Position: i + 1}
	}
	return cols
}

func defaultLayouts() map[string]sheet.Layout {
	return map[string]sheet.Layout{
		TableAlarms: {
			Name:         TableAlarms,
			Sheet:        "Alarms",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns: fixed("number", "tag", "description", "point", "setpoint",
				"units", "priority", "delay", "status", "enabled"),
		},
		TableShutdowns: {
			Name:         TableShutdowns,
			Sheet:        "Shutdowns",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns: fixed("number", "tag", "description", "point", "setpoint",
				"units", "group", "latched", "bypassable", "timer"),
		},
		TableShutdownGeneral: {
			Name:         TableShutdownGeneral,
			Sheet:        "Shutdown General",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns:      fixed("number", "description", "shutdown", "action"),
		},
		TableStatus: {
			Name:         TableStatus,
			Sheet:        "Status",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns:      fixed("number", "tag", "description", "on_text", "off_text"),
		},
		TableTimers: {
			Name:         TableTimers,
			Sheet:        "Timers",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns:      fixed("number", "tag", "description", "preset", "units"),
		},
		TableVoting: {
			Name:         TableVoting,
			Sheet:        "Voting",
			FirstDataRow: 3,
			KeyField:     "number",
			Columns: fixed("number", "description", "required",
				"input1", "input2", "input3", "input4"),
		},
		TableAnalogInputs: {
			Name:         TableAnalogInputs,
			Sheet:        "Analog Inputs",
			HeaderRow:    1,
			FirstDataRow: 2,
			KeyField:     "point",
			Columns: []sheet.Column{
				{Field: "point", Header: "Point", Aliases: []string{"Point ID", "I/O Point"}, Required: true},
				{Field: "tag", Header: "Tag", Aliases: []string{"Tag Name"}, Required: true},
				{Field: "description", Header: "Description"},
				{Field: "range_low", Header: "Range Low", Aliases: []string{"LRV"}},
				{Field: "range_high", Header: "Range High", Aliases: []string{"URV"}},
				{Field: "units", Header: "Units", Aliases: []string{"EU"}},
				{Field: "raw_low", Header: "Raw Low"},
				{Field: "raw_high", Header: "Raw High"},
			},
		},
		TableDiscreteInputs: {
			Name:         TableDiscreteInputs,
			Sheet:        "Discrete Inputs",
			HeaderRow:    1,
			FirstDataRow: 2,
			KeyField:     "point",
			Columns: []sheet.Column{
				{Field: "point", Header: "Point", Aliases: []string{"Point ID", "I/O Point"}, Required: true},
				{Field: "tag", Header: "Tag", Aliases: []string{"Tag Name"}, Required: true},
				{Field: "description", Header: "Description"},
				{Field: "normal_state", Header: "Normal State", Aliases: []string{"NO/NC"}},
				{Field: "inverted", Header: "Inverted"},
			},
		},
		TableModbusMap: {
			Name:         TableModbusMap,
			Sheet:        "Modbus Map",
			HeaderRow:    1,
			FirstDataRow: 2,
			KeyField:     "register",
			Columns: []sheet.Column{
				{Field: "register", Header: "Register", Aliases: []string{"Address"}, Required: true},
				{Field: "tag", Header: "Tag", Aliases: []string{"Tag Name"}, Required: true},
				{Field: "point", Header: "Point"},
				{Field: "data_type", Header: "Data Type", Aliases: []string{"Type"}},
				{Field: "scale", Header: "Scale"},
			},
		},
	}
}
