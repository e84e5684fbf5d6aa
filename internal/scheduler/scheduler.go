package scheduler

import (
	"context"
	"fmt"
	"log"

	"TradePlanner/internal/notifier"
	"TradePlanner/internal/runner"

	"github.com/robfig/cron/v3"
)

// Scheduler reruns the planning batch on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Runner    *runner.Runner
	Watchlist []string
	Notifiers []notifier.Notifier
	CachePath string
	Ctx       context.Context
}

// New creates a Scheduler. Overlapping refreshes are skipped, so a slow run
// never stacks behind the next trigger.
func New(ctx context.Context, r *runner.Runner, watchlist []string, notifiers []notifier.Notifier, cachePath string) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.Default()))),
		),
		Runner:    r,
		Watchlist: watchlist,
		Notifiers: notifiers,
		CachePath: cachePath,
		Ctx:       ctx,
	}
}

// Register registers the refresh task on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one refresh immediately and returns its report.
func (s *Scheduler) RunNow() (*runner.Report, error) {
	rep, err := s.Runner.Run(s.Watchlist)
	if err != nil {
		return nil, err
	}

	if s.CachePath != "" {
		if err := s.Runner.Collector.Cache.SaveFile(s.CachePath); err != nil {
			log.Printf("[WARN] save token cache: %v", err)
		}
	}

	for _, n := range s.Notifiers {
		if err := n.NotifyRun(s.Ctx, rep); err != nil {
			log.Printf("[ERROR] send notification: %v", err)
		}
	}
	return rep, nil
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	if _, err := s.RunNow(); err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
	}
}
