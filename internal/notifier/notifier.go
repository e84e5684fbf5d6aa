package notifier

import (
	"context"

	"TradePlanner/internal/runner"
)

// Notifier delivers a finished run report somewhere a human will see it.
type Notifier interface {
	NotifyRun(ctx context.Context, rep *runner.Report) error
}
