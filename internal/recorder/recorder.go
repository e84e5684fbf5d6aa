package recorder

import (
	"time"

	"TradePlanner/internal/model"
)

// RunRecord summarizes one batch run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	Total      int
	Classified int
	Skipped    int
	Failed     int
	OutputPath string
}

// AssignmentRecord holds one symbol's indicator snapshot and the strategy
// configuration it was assigned.
type AssignmentRecord struct {
	RunID      string
	Indicators *model.TickerIndicators
	Rule       string
	Config     model.StrategyConfig
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordAssignment(rec *AssignmentRecord) error
	Close() error
}
