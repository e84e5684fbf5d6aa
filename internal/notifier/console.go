package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"TradePlanner/internal/runner"
)

// ConsoleNotifier prints the run outcome to a writer, optionally as a table.
type ConsoleNotifier struct {
	Out       io.Writer
	ShowTable bool
}

// NewConsoleNotifier creates a notifier that writes to stdout.
func NewConsoleNotifier(showTable bool) *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stdout, ShowTable: showTable}
}

// NotifyRun prints a one-line summary, the failures, and when table mode is
// on the full strategy book sorted by symbol.
func (c *ConsoleNotifier) NotifyRun(_ context.Context, rep *runner.Report) error {
	fmt.Fprintf(c.Out, "[%s] %d symbols via %s → %d classified, %d skipped, %d failed\n",
		rep.StartedAt.Format("15:04:05"), rep.Total, rep.Source,
		rep.Classified, rep.Skipped, rep.Failed())

	for _, f := range rep.Failures {
		fmt.Fprintf(c.Out, "  !! %s: %s\n", f.Symbol, f.Reason)
	}

	if c.ShowTable && len(rep.Book) > 0 {
		c.printBook(rep)
	}

	fmt.Fprintf(c.Out, "  book: %s\n", rep.OutputPath)
	return nil
}

func (c *ConsoleNotifier) printBook(rep *runner.Report) {
	symbols := make([]string, 0, len(rep.Book))
	for s := range rep.Book {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	table := tablewriter.NewWriter(c.Out)
	table.Header("Symbol", "Class", "Short", "B.Long", "B.Short", "Target", "SL", "Lev")
	for _, s := range symbols {
		cfg := rep.Book[s]
		short := "no"
		if cfg.AllowShort {
			short = "yes"
		}
		table.Append(
			s,
			string(cfg.Class),
			short,
			fmt.Sprintf("%.3f", cfg.BreakoutLong),
			fmt.Sprintf("%.3f", cfg.BreakoutShort),
			fmt.Sprintf("%.3f", cfg.Target),
			fmt.Sprintf("%.3f", cfg.SL),
			fmt.Sprintf("%.1fx", cfg.Leverage),
		)
	}
	table.Render()
}
