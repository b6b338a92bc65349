package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"swinglab/pkg/model"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT    NOT NULL,
	as_of      TEXT    NOT NULL,
	symbol     TEXT    NOT NULL,
	timeframe  TEXT    NOT NULL,
	rule_id    INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	polarity   TEXT    NOT NULL,
	date       TEXT    NOT NULL,
	close      REAL    NOT NULL,
	stop_loss  REAL    NOT NULL,
	volume     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_run ON signals(run_id);`

const insertSignalQuery = `
	INSERT INTO signals (run_id, as_of, symbol, timeframe, rule_id, name, polarity, date, close, stop_loss, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ErrEmptyRunID is returned when saving without a run identifier
var ErrEmptyRunID = errors.New("empty run id")

// RunSummary describes one persisted scan run
type RunSummary struct {
	RunID   string
	AsOf    time.Time
	Signals int
}

// Store persists scan signals to SQLite
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening signal store: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating signal store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes all signals of one run in a single transaction
func (s *Store) Save(ctx context.Context, runID string, asOf time.Time, signals []model.Signal) error {
	if runID == "" {
		return ErrEmptyRunID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSignalQuery)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	asOfStr := asOf.UTC().Format(dateLayout)
	for _, sig := range signals {
		_, err := stmt.ExecContext(ctx,
			runID,
			asOfStr,
			sig.Symbol,
			string(sig.Timeframe),
			sig.RuleID,
			sig.Name,
			string(sig.Polarity),
			sig.Date.UTC().Format(dateLayout),
			sig.Close,
			sig.StopLoss,
			sig.Volume,
		)
		if err != nil {
			return fmt.Errorf("inserting %s %s: %w", sig.Symbol, sig.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", runID, err)
	}
	return nil
}

// ListRun returns the signals of one run in insertion order
func (s *Store) ListRun(ctx context.Context, runID string) ([]model.Signal, error) {
	const query = `
		SELECT symbol, timeframe, rule_id, name, polarity, date, close, stop_loss, volume
		FROM signals WHERE run_id = ? ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.Signal
	for rows.Next() {
		var (
			sig       model.Signal
			timeframe string
			polarity  string
			date      string
		)
		if err := rows.Scan(&sig.Symbol, &timeframe, &sig.RuleID, &sig.Name, &polarity, &date, &sig.Close, &sig.StopLoss, &sig.Volume); err != nil {
			return nil, fmt.Errorf("scanning signal: %w", err)
		}
		sig.Timeframe = model.Timeframe(timeframe)
		sig.Polarity = model.Polarity(polarity)
		if sig.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parsing signal date %q: %w", date, err)
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// Runs lists persisted runs, most recent first
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	const query = `
		SELECT run_id, as_of, COUNT(*), MAX(seq) AS last_seq
		FROM signals GROUP BY run_id, as_of ORDER BY last_seq DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r    RunSummary
			asOf string
			last int64
		)
		if err := rows.Scan(&r.RunID, &asOf, &r.Signals, &last); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.AsOf, err = time.Parse(dateLayout, asOf); err != nil {
			return nil, fmt.Errorf("parsing as_of %q: %w", asOf, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
