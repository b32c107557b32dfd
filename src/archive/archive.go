// Package archive retrieves observation vectors from the SQLite archive
// database.
//
// The archive table holds one row per archive record: dateTime (epoch
// seconds, record end), interval (minutes covered by the record) and one
// column per observation. Retrieval returns three aligned vectors: each
// sample's interval start, interval stop and value.
package archive

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MarkCupitt/weewx/src/logger"
	"github.com/MarkCupitt/weewx/src/plot"
	"github.com/MarkCupitt/weewx/src/units"
)

// aggregates maps the configurable aggregation types onto SQL.
var aggregates = map[string]string{
	"avg":   "AVG(%s)",
	"min":   "MIN(%s)",
	"max":   "MAX(%s)",
	"sum":   "SUM(%s)",
	"count": "COUNT(%s)",
	"last":  "%s",
}

// Observation columns are interpolated into SQL, so they are restricted to
// identifier characters.
var columnRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Manager reads one archive database. The unit system its rows are stored
// in is fixed per database and tags every returned vector.
type Manager struct {
	db     *sql.DB
	system string
}

// Open opens the archive database at path, whose rows are stored in the
// given unit system.
func Open(path, system string) (*Manager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive database")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}
	logger.L().Debugw("archive database opened", "path", path, "unit_system", system)
	return &Manager{db: db, system: system}, nil
}

// NewManager wraps an already open database handle. Tests use this with a
// mocked handle.
func NewManager(db *sql.DB, system string) *Manager {
	return &Manager{db: db, system: system}
}

// Close releases the database handle.
func (m *Manager) Close() error { return m.db.Close() }

// SingleBinder resolves every configured data_binding name to one archive,
// the shape of a single-database deployment.
type SingleBinder struct {
	m *Manager
}

// Bind wraps a Manager as an ArchiveBinder.
func Bind(m *Manager) SingleBinder { return SingleBinder{m: m} }

// Archive returns the bound archive for any binding name.
func (b SingleBinder) Archive(binding string) (plot.Archive, error) { return b.m, nil }

// LastGoodStamp returns the timestamp of the most recent archive record, or
// the zero time for an empty archive.
func (m *Manager) LastGoodStamp() (time.Time, error) {
	var ts sql.NullInt64
	err := m.db.QueryRow("SELECT MAX(dateTime) FROM archive").Scan(&ts)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "querying last good stamp")
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Unix(ts.Int64, 0), nil
}

// GetVectors returns the start, stop and data vectors for varType over
// (start, stop]. With an aggregation the span is cut into aggregateInterval
// buckets and each bucket yields at most one sample; without one, every
// archive record yields a sample. Rows with NULL values are dropped.
func (m *Manager) GetVectors(start, stop time.Time, varType, aggregateType string,
	aggregateInterval time.Duration) (units.Vector, units.Vector, units.Vector, error) {

	if !columnRe.MatchString(varType) {
		return units.Vector{}, units.Vector{}, units.Vector{},
			errors.Newf("invalid observation name %q", varType)
	}

	var starts, stops, data []float64
	var err error
	if aggregateType == "" {
		starts, stops, data, err = m.rawVectors(start, stop, varType)
	} else {
		starts, stops, data, err = m.aggregateVectors(start, stop, varType, aggregateType, aggregateInterval)
	}
	if err != nil {
		return units.Vector{}, units.Vector{}, units.Vector{}, err
	}

	timeUnit, timeGroup := units.StandardUnitType(m.system, "dateTime", "")
	dataUnit, dataGroup := units.StandardUnitType(m.system, varType, aggregateType)
	return units.NewVector(starts, timeUnit, timeGroup),
		units.NewVector(stops, timeUnit, timeGroup),
		units.NewVector(data, dataUnit, dataGroup), nil
}

func (m *Manager) rawVectors(start, stop time.Time, varType string) (starts, stops, data []float64, err error) {
	rows, err := m.db.Query(
		"SELECT dateTime, `interval`, "+varType+
			" FROM archive WHERE dateTime > ? AND dateTime <= ? ORDER BY dateTime ASC",
		start.Unix(), stop.Unix())
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "querying %s", varType)
	}
	defer rows.Close()
	for rows.Next() {
		var ts, interval int64
		var v sql.NullFloat64
		if err := rows.Scan(&ts, &interval, &v); err != nil {
			return nil, nil, nil, errors.Wrap(err, "scanning archive row")
		}
		if !v.Valid {
			continue
		}
		starts = append(starts, float64(ts-interval*60))
		stops = append(stops, float64(ts))
		data = append(data, v.Float64)
	}
	return starts, stops, data, rows.Err()
}

func (m *Manager) aggregateVectors(start, stop time.Time, varType, aggregateType string,
	aggregateInterval time.Duration) (starts, stops, data []float64, err error) {

	aggregateType = strings.ToLower(aggregateType)
	tmpl, ok := aggregates[aggregateType]
	if !ok {
		return nil, nil, nil, errors.Newf("unknown aggregation %q", aggregateType)
	}
	if aggregateInterval <= 0 {
		return nil, nil, nil, errors.New("aggregation requires a positive interval")
	}
	sel := "SELECT " + fmt.Sprintf(tmpl, varType) +
		" FROM archive WHERE dateTime > ? AND dateTime <= ? AND " + varType + " IS NOT NULL"
	if aggregateType == "last" {
		sel += " ORDER BY dateTime DESC LIMIT 1"
	}

	// One query per bucket, matching the record-inclusive bucket bounds of
	// the raw retrieval: a bucket covers (t, t+interval].
	for t := start; t.Before(stop); t = t.Add(aggregateInterval) {
		b := t.Add(aggregateInterval)
		if b.After(stop) {
			b = stop
		}
		var v sql.NullFloat64
		err := m.db.QueryRow(sel, t.Unix(), b.Unix()).Scan(&v)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "aggregating %s", varType)
		}
		if !v.Valid {
			continue
		}
		starts = append(starts, float64(t.Unix()))
		stops = append(stops, float64(b.Unix()))
		data = append(data, v.Float64)
	}
	return starts, stops, data, nil
}
