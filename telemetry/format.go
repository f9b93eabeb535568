package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/bookkeeper/output"
)

// slowThreshold marks timings worth highlighting.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes one timing tree:
//
//	balance-sheet: 125ms
//	├─ loader.load: 85ms
//	│  └─ backup.read_csv: 45ms
//	└─ report.balance_sheet (1200 transactions): 40ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	timing := formatDuration(root.duration())
	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Header(root.name), timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", root.name, timing)
	}

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	duration := node.duration()

	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	timing := formatDuration(duration)
	if styles != nil {
		if duration >= slowThreshold {
			timing = styles.Slow(timing)
		} else {
			timing = styles.Rule(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Rule(prefix+branch), node.name, timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, timing)
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
