// Package store holds the imported configuration tables of one workbook and
// resolves references between them.
//
// Rows never point at each other. A row that refers to another table keeps
// only the key and resolves it through the Store on each access, so tables
// can be imported in any order.
package store

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/point"
	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/sheet"
)

// Source supplies worksheets by name.
type Source interface {
	Sheet(name string) (sheet.Sheet, bool)
}

// table is the untyped view of a sheet.Table the store iterates over.
type table interface {
	Name() string
	Layout() sheet.Layout
	Import(s sheet.Sheet, logger *zap.Logger) error
	Find(key string) (sheet.Record, bool)
	Each(fn func(sheet.Record))
	Len() int
}

// Override replaces parts of a table layout. Zero fields keep the default.
type Override struct {
	Sheet        string
	FirstDataRow int
	HeaderRow    int
}

// Option configures a Store.
type Option func(layouts map[string]sheet.Layout)

// WithOverride adjusts the layout of the named table.
func WithOverride(name string, o Override) Option {
	return func(layouts map[string]sheet.Layout) {
		l, ok := layouts[name]
		if !ok {
			return
		}
		if o.Sheet != "" {
			l.Sheet = o.Sheet
		}
		if o.FirstDataRow > 0 {
			l.FirstDataRow = o.FirstDataRow
		}
		if o.HeaderRow > 0 && !l.Fixed() {
			l.HeaderRow = o.HeaderRow
		}
		layouts[name] = l
	}
}

// Store is the set of tables imported from one configuration workbook. It
// is built once per run and is read-only while rendering.
type Store struct {
	logger *zap.Logger

	alarms          *sheet.Table[Alarm]
	shutdowns       *sheet.Table[ShutdownInput]
	shutdownGeneral *sheet.Table[ShutdownGeneral]
	analogInputs    *sheet.Table[AnalogInput]
	discreteInputs  *sheet.Table[DiscreteInput]
	modbusMap       *sheet.Table[ModbusMapping]
	status          *sheet.Table[StatusPoint]
	timers          *sheet.Table[Timer]
	voting          *sheet.Table[Voting]

	tables map[string]table
}

// New creates an empty store. A nil logger discards log output.
func New(logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	layouts := defaultLayouts()
	for _, opt := range opts {
		opt(layouts)
	}

	s := &Store{
		logger:          logger,
		alarms:          sheet.NewTable(layouts[TableAlarms], decodeAlarm),
		shutdowns:       sheet.NewTable(layouts[TableShutdowns], decodeShutdownInput),
		shutdownGeneral: sheet.NewTable(layouts[TableShutdownGeneral], decodeShutdownGeneral),
		analogInputs:    sheet.NewTable(layouts[TableAnalogInputs], decodeAnalogInput),
		discreteInputs:  sheet.NewTable(layouts[TableDiscreteInputs], decodeDiscreteInput),
		modbusMap:       sheet.NewTable(layouts[TableModbusMap], decodeModbusMapping),
		status:          sheet.NewTable(layouts[TableStatus], decodeStatusPoint),
		timers:          sheet.NewTable(layouts[TableTimers], decodeTimer),
		voting:          sheet.NewTable(layouts[TableVoting], decodeVoting),
	}

	s.tables = map[string]table{
		TableAlarms:          s.alarms,
		TableShutdowns:       s.shutdowns,
		TableShutdownGeneral: s.shutdownGeneral,
		TableAnalogInputs:    s.analogInputs,
		TableDiscreteInputs:  s.discreteInputs,
		TableModbusMap:       s.modbusMap,
		TableStatus:          s.status,
		TableTimers:          s.timers,
		TableVoting:          s.voting,
	}

	return s
}

// Load imports every table from src. A sheet that src does not have leaves
// its table empty with a warning. A table that fails to import is reported in
// the returned error and the remaining tables are still imported.
func (s *Store) Load(src Source) error {
	var result *multierror.Error

	for _, name := range TableNames() {
		t := s.tables[name]
		layout := t.Layout()

		sh, ok := src.Sheet(layout.Sheet)
		if !ok {
			s.logger.Warn("sheet not found, table left empty",
				zap.String("table", name),
				zap.String("sheet", layout.Sheet))
			continue
		}

		if err := t.Import(sh, s.logger); err != nil {
			s.logger.Error("table import failed",
				zap.String("table", name),
				zap.String("sheet", layout.Sheet),
				zap.Error(err))
			result = multierror.Append(result, err)
			continue
		}

		s.logger.Info("table imported",
			zap.String("table", name),
			zap.Int("rows", t.Len()))
	}

	return result.ErrorOrNil()
}

// Import reads a single table from sh.
func (s *Store) Import(name string, sh sheet.Sheet) error {
	t, ok := s.tables[name]
	if !ok {
		return &UnknownTableError{Name: name}
	}
	return t.Import(sh, s.logger)
}

// Len returns the row count of the named table, 0 when unknown.
func (s *Store) Len(name string) int {
	t, ok := s.tables[name]
	if !ok {
		return 0
	}
	return t.Len()
}

// Records returns the rows of the named table in sheet order.
func (s *Store) Records(name string) []sheet.Record {
	t, ok := s.tables[name]
	if !ok {
		return nil
	}
	records := make([]sheet.Record, 0, t.Len())
	t.Each(func(r sheet.Record) {
		records = append(records, r)
	})
	return records
}

// FindByKey looks up a row by key in the named table. Not found, an unknown
// table and a blank key all return false and log a warning.
func (s *Store) FindByKey(name, key string) (sheet.Record, bool) {
	if blankKey(key) {
		s.logger.Warn("lookup with blank key", zap.String("table", name))
		return nil, false
	}

	t, ok := s.tables[name]
	if !ok {
		s.logger.Warn("lookup in unknown table", zap.String("table", name))
		return nil, false
	}

	r, ok := t.Find(key)
	if !ok {
		s.logger.Warn("record not found", zap.String("table", name), zap.String("key", key))
		return nil, false
	}
	return r, true
}

// FindAlarm returns the alarm with the given number.
func (s *Store) FindAlarm(number int) (Alarm, bool) {
	return lookup(s, s.alarms, strconv.Itoa(number))
}

// FindShutdown returns the shutdown input with the given number.
func (s *Store) FindShutdown(number int) (ShutdownInput, bool) {
	return lookup(s, s.shutdowns, strconv.Itoa(number))
}

// FindStatus returns the status point with the given number.
func (s *Store) FindStatus(number int) (StatusPoint, bool) {
	return lookup(s, s.status, strconv.Itoa(number))
}

// FindTimer returns the timer with the given number.
func (s *Store) FindTimer(number int) (Timer, bool) {
	return lookup(s, s.timers, strconv.Itoa(number))
}

// FindByPoint returns the analog or discrete input row for id, searching the
// analog inputs first. Unparsed identifiers never match.
func (s *Store) FindByPoint(id point.Identifier) (sheet.Record, bool) {
	key := id.Canonical()
	if key == "" {
		s.logger.Warn("lookup with unparsed point", zap.String("point", id.Raw))
		return nil, false
	}

	if ai, ok := s.analogInputs.Lookup(key); ok {
		return ai, true
	}
	if di, ok := s.discreteInputs.Lookup(key); ok {
		return di, true
	}

	s.logger.Warn("record not found",
		zap.String("table", TableAnalogInputs+","+TableDiscreteInputs),
		zap.String("key", key))
	return nil, false
}

func lookup[R sheet.Record](s *Store, t *sheet.Table[R], key string) (R, bool) {
	var zero R
	if blankKey(key) {
		s.logger.Warn("lookup with blank key", zap.String("table", t.Name()))
		return zero, false
	}

	r, ok := t.Lookup(key)
	if !ok {
		s.logger.Warn("record not found", zap.String("table", t.Name()), zap.String("key", key))
		return zero, false
	}
	return r, true
}

func blankKey(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || key == "0"
}

// UnknownTableError reports a table name the store does not define.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return "unknown table " + strconv.Quote(e.Name)
}
