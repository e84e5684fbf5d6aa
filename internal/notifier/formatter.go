package notifier

import (
	"fmt"
	"strings"
	"time"

	"TradePlanner/internal/model"
	"TradePlanner/internal/runner"
)

// FormatRunReport formats a finished run into a Telegram message.
func FormatRunReport(rep *runner.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>TradePlanner Daily Strategies</b> | %s\n\n", rep.StartedAt.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Source: %s\n", rep.Source))
	b.WriteString(fmt.Sprintf("Scanned %d symbols in %s\n", rep.Total, rep.FinishedAt.Sub(rep.StartedAt).Round(time.Second)))
	b.WriteString(fmt.Sprintf("Classified: %d | Skipped: %d | Failed: %d\n\n", rep.Classified, rep.Skipped, rep.Failed()))

	counts := map[model.Class]int{}
	shorts := 0
	for _, cfg := range rep.Book {
		counts[cfg.Class]++
		if cfg.AllowShort {
			shorts++
		}
	}
	b.WriteString(fmt.Sprintf("Class A: %d | Class B: %d | Class C: %d\n", counts[model.ClassA], counts[model.ClassB], counts[model.ClassC]))
	b.WriteString(fmt.Sprintf("Shorting enabled: %d\n", shorts))

	if len(rep.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Failures:</b>\n")
		for _, f := range rep.Failures {
			b.WriteString(fmt.Sprintf("  %s: %s\n", f.Symbol, f.Reason))
		}
	}

	b.WriteString(fmt.Sprintf("\nBook written to %s\n", rep.OutputPath))
	return b.String()
}
