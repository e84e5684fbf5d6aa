package runner

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"TradePlanner/internal/collector"
	"TradePlanner/internal/model"
	"TradePlanner/internal/recorder"
	"TradePlanner/internal/strategy"
)

// minBars is the minimum history depth a symbol needs to be classified.
// Shallower histories are skipped without error.
const minBars = 55

// Failure pairs a symbol with the reason it could not be classified.
type Failure struct {
	Symbol string
	Reason string
}

// Report summarizes one batch run.
type Report struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Classified int
	Skipped    int
	Failures   []Failure
	Book       model.StrategyBook
	OutputPath string
}

// Failed returns the number of symbols that errored during the run.
func (r *Report) Failed() int { return len(r.Failures) }

// Runner executes the classification batch over a watch-list.
type Runner struct {
	Collector  *collector.Collector
	Restricted map[string]bool
	Recorder   recorder.Recorder
	OutputPath string
}

// New creates a Runner. A nil recorder degrades to the no-op implementation.
func New(c *collector.Collector, restricted map[string]bool, rec recorder.Recorder, outputPath string) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Collector: c, Restricted: restricted, Recorder: rec, OutputPath: outputPath}
}

// Run processes the symbols strictly in order and replaces the strategy book
// on disk. A symbol that fails is logged and counted, never fatal; a symbol
// with fewer than minBars bars is skipped without a log line, matching the
// quiet exclusion the downstream bot expects.
func (r *Runner) Run(symbols []string) (*Report, error) {
	rep := &Report{
		RunID:      uuid.NewString(),
		Source:     r.Collector.Fetcher.Name(),
		StartedAt:  time.Now(),
		Total:      len(symbols),
		Book:       model.StrategyBook{},
		OutputPath: r.OutputPath,
	}
	log.Printf("[INFO] run %s started: %d symbols via %s", rep.RunID, rep.Total, rep.Source)

	for _, symbol := range symbols {
		bars, err := r.Collector.History(symbol)
		if err != nil {
			log.Printf("[WARN] %s: %v", symbol, err)
			rep.Failures = append(rep.Failures, Failure{Symbol: symbol, Reason: err.Error()})
			continue
		}
		if len(bars) < minBars {
			rep.Skipped++
			continue
		}

		ind := collector.BuildIndicators(symbol, bars)
		assignment := strategy.Evaluate(ind, !r.Restricted[symbol])
		rep.Book[symbol] = assignment.Config
		rep.Classified++
		log.Printf("[INFO] %s classified %s by %s (rsi=%.1f mom=%.2f%% day=%.2f%% trend=%s)",
			symbol, assignment.Config.Class, assignment.Rule,
			ind.RSI14, ind.Momentum3d, ind.DayChange, ind.Trend)

		if err := r.Recorder.RecordAssignment(&recorder.AssignmentRecord{
			RunID:      rep.RunID,
			Indicators: ind,
			Rule:       assignment.Rule,
			Config:     assignment.Config,
		}); err != nil {
			log.Printf("[WARN] record assignment %s: %v", symbol, err)
		}
	}

	if err := strategy.SaveBook(r.OutputPath, rep.Book); err != nil {
		return nil, fmt.Errorf("save strategy book: %w", err)
	}
	rep.FinishedAt = time.Now()

	if err := r.Recorder.RecordRun(&recorder.RunRecord{
		RunID:      rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Source:     rep.Source,
		Total:      rep.Total,
		Classified: rep.Classified,
		Skipped:    rep.Skipped,
		Failed:     rep.Failed(),
		OutputPath: rep.OutputPath,
	}); err != nil {
		log.Printf("[WARN] record run: %v", err)
	}

	log.Printf("[INFO] run %s finished: %d classified, %d skipped, %d failed, book at %s",
		rep.RunID, rep.Classified, rep.Skipped, rep.Failed(), r.OutputPath)
	return rep, nil
}
