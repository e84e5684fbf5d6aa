package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis queries can read while the planner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			source      TEXT,
			total       INTEGER,
			classified  INTEGER,
			skipped     INTEGER,
			failed      INTEGER,
			output_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS assignments (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			current_close  REAL,
			prev_close     REAL,
			close_3ago     REAL,
			day_change     REAL,
			momentum_3d    REAL,
			rsi14          REAL,
			ema50          REAL,
			trend          TEXT,
			last_volume    REAL,
			bar_count      INTEGER,
			rule           TEXT,
			class          TEXT,
			allow_short    INTEGER,
			breakout_long  REAL,
			breakout_short REAL,
			target         REAL,
			sl             REAL,
			leverage       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_run ON assignments(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_symbol ON assignments(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, source, total, classified, skipped, failed, output_path)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.StartedAt.Unix(), rec.FinishedAt.Unix(), rec.Source,
		rec.Total, rec.Classified, rec.Skipped, rec.Failed, rec.OutputPath,
	)
	return err
}

func (r *SQLiteRecorder) RecordAssignment(rec *AssignmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := rec.Indicators
	cfg := rec.Config
	_, err := r.db.Exec(`INSERT INTO assignments
		(run_id, timestamp, symbol, current_close, prev_close, close_3ago,
		 day_change, momentum_3d, rsi14, ema50, trend, last_volume, bar_count,
		 rule, class, allow_short, breakout_long, breakout_short, target, sl, leverage)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), ind.Symbol, ind.CurrentClose, ind.PrevClose, ind.Close3Ago,
		ind.DayChange, ind.Momentum3d, ind.RSI14, ind.EMA50, string(ind.Trend), ind.LastVolume, ind.BarCount,
		rec.Rule, string(cfg.Class), cfg.AllowShort, cfg.BreakoutLong, cfg.BreakoutShort, cfg.Target, cfg.SL, cfg.Leverage,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
