// Package telemetry provides hierarchical timing collection for operations.
// Report builds, store reads, imports and data loads record how long they
// take in a tree that the CLI prints with --telemetry.
//
// Collectors travel through context, so instrumentation never changes
// function signatures. Without a collector every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "balance-sheet")
//	loadTimer := timer.Child("loader.load")
//	// ... work ...
//	loadTimer.End()
//	timer.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/robinvdvleuten/bookkeeper/output"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var collectorKey = contextKey{}

// Collector is the main interface for collecting telemetry data.
type Collector interface {
	// Start begins timing an operation and returns a Timer.
	// The timer should be ended with End() when the operation completes.
	Start(name string) Timer

	// Report writes the collected timings to w. Styles may be nil for
	// plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
// Timers support hierarchical nesting via Child().
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
// The collector can be retrieved later with FromContext.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

// Measure runs fn under a timer named name and returns its error.
func Measure(ctx context.Context, name string, fn func() error) error {
	timer := StartTimer(ctx, name)
	defer timer.End()
	return fn()
}

// Span is a finished timing, flattened out of the tree.
type Span struct {
	Name     string
	Depth    int
	Duration time.Duration
}
