package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"TradePlanner/internal/model"
)

func testRun(id string) *RunRecord {
	now := time.Now()
	return &RunRecord{
		RunID:      id,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Source:     "mock",
		Total:      3,
		Classified: 2,
		Skipped:    1,
		OutputPath: "data/config.json",
	}
}

func testAssignment(runID, symbol string) *AssignmentRecord {
	return &AssignmentRecord{
		RunID: runID,
		Indicators: &model.TickerIndicators{
			Symbol:       symbol,
			CurrentClose: 104,
			PrevClose:    102,
			RSI14:        55,
			EMA50:        101,
			Trend:        model.TrendBull,
			LastVolume:   123456,
			BarCount:     60,
		},
		Rule:   "bull-momentum",
		Config: model.StrategyConfig{Class: model.ClassA, AllowShort: true, BreakoutLong: 0.002, BreakoutShort: 0.005, Target: 0.015, SL: 0.005, Leverage: 2.0},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := r.RecordRun(testRun("run-1")); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := r.RecordAssignment(testAssignment("run-1", "SBIN")); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := r.RecordAssignment(testAssignment("run-1", "INFY")); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 1 {
		t.Errorf("expected 1 run row, got %d", runs)
	}

	var symbol, rule, class string
	var rsi float64
	err = db.QueryRow(`SELECT symbol, rule, class, rsi14 FROM assignments WHERE run_id = ? AND symbol = ?`,
		"run-1", "SBIN").Scan(&symbol, &rule, &class, &rsi)
	if err != nil {
		t.Fatalf("query assignment: %v", err)
	}
	if rule != "bull-momentum" || class != "A" || rsi != 55 {
		t.Errorf("unexpected assignment row: %s %s %s %.1f", symbol, rule, class, rsi)
	}
}

func TestSQLiteRecorder_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	for i := 0; i < 2; i++ {
		r, err := NewSQLiteRecorder(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("close #%d: %v", i+1, err)
		}
	}
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	if err := n.RecordRun(testRun("run-x")); err != nil {
		t.Errorf("noop record run: %v", err)
	}
	if err := n.RecordAssignment(testAssignment("run-x", "SBIN")); err != nil {
		t.Errorf("noop record assignment: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
