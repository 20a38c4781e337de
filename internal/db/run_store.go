package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/advection/internal/timeutil"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is the persisted summary of one advection run.
type RunRecord struct {
	RunID          string          `json:"run_id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Stepping       string          `json:"stepping,omitempty"`
	Interpolation  string          `json:"interpolation,omitempty"`
	Direct         string          `json:"direct,omitempty"`
	DomainSize     float64         `json:"domain_size"`
	Samples        int             `json:"samples"`
	Velocity       float64         `json:"velocity"`
	Dt             float64         `json:"dt"`
	Substeps       int             `json:"substeps"`
	L2Error        float64         `json:"l2_error"`
	MaxError       float64         `json:"max_error"`
	MassDrift      float64         `json:"mass_drift"`
	Overshoot      float64         `json:"overshoot"`
	TotalVariation float64         `json:"total_variation"`
	DurationNanos  int64           `json:"duration_ns"`
	ConfigJSON     json.RawMessage `json:"config_json,omitempty"`
	CreatedAt      int64           `json:"created_at"`
}

// RunFilter narrows Best. Empty fields match anything.
type RunFilter struct {
	Stepping      string
	Interpolation string
	Direct        string
	Samples       int
}

// RunStore provides persistence for run summaries.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore creates a RunStore on db.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB, clock: timeutil.RealClock{}}
}

// WithClock replaces the clock used to stamp CreatedAt.
func (s *RunStore) WithClock(c timeutil.Clock) *RunStore {
	s.clock = c
	return s
}

const runColumns = `run_id, name, kind, stepping, interpolation, direct,
	domain_size, samples, velocity, dt, substeps,
	l2_error, max_error, mass_drift, overshoot, total_variation,
	duration_ns, config_json, created_at`

// Insert persists r. If RunID is empty a UUID is generated; if CreatedAt is
// zero it is stamped from the store's clock.
func (s *RunStore) Insert(r *RunRecord) error {
	if r.Name == "" {
		return fmt.Errorf("run has no name")
	}
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = s.clock.Now().UnixNano()
	}

	var configStr interface{}
	if len(r.ConfigJSON) > 0 {
		configStr = string(r.ConfigJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO advection_runs (`+runColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.Name, r.Kind, nullString(r.Stepping), nullString(r.Interpolation), nullString(r.Direct),
			r.DomainSize, r.Samples, r.Velocity, r.Dt, r.Substeps,
			r.L2Error, r.MaxError, r.MassDrift, r.Overshoot, r.TotalVariation,
			r.DurationNanos, configStr, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", r.Name, err)
		}
		return nil
	})
}

// Get returns a single run by ID.
func (s *RunStore) Get(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM advection_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *RunStore) List(limit int) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM advection_runs ORDER BY created_at DESC, name`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(query, args...)
}

// Best returns the runs matching f with the lowest L2 error first.
// Reference runs are excluded.
func (s *RunStore) Best(f RunFilter, limit int) ([]*RunRecord, error) {
	where := []string{`kind != 'reference'`}
	var args []interface{}
	if f.Stepping != "" {
		where = append(where, `stepping = ?`)
		args = append(args, f.Stepping)
	}
	if f.Interpolation != "" {
		where = append(where, `interpolation = ?`)
		args = append(args, f.Interpolation)
	}
	if f.Direct != "" {
		where = append(where, `direct = ?`)
		args = append(args, f.Direct)
	}
	if f.Samples > 0 {
		where = append(where, `samples = ?`)
		args = append(args, f.Samples)
	}

	query := `SELECT ` + runColumns + ` FROM advection_runs WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY l2_error ASC, created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(query, args...)
}

// Delete removes a run by ID.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM advection_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil
	})
}

func (s *RunStore) query(query string, args ...interface{}) ([]*RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var r RunRecord
	var stepping, interpolation, direct, configStr sql.NullString
	err := row.Scan(
		&r.RunID, &r.Name, &r.Kind, &stepping, &interpolation, &direct,
		&r.DomainSize, &r.Samples, &r.Velocity, &r.Dt, &r.Substeps,
		&r.L2Error, &r.MaxError, &r.MassDrift, &r.Overshoot, &r.TotalVariation,
		&r.DurationNanos, &configStr, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.Stepping = stepping.String
	r.Interpolation = interpolation.String
	r.Direct = direct.String
	if configStr.Valid {
		r.ConfigJSON = json.RawMessage(configStr.String)
	}
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
