package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	assert.True(t, collector != nil)

	_, ok := collector.(noOpCollector)
	assert.True(t, ok, "expected noOpCollector, got %T", collector)

	timer := StartTimer(context.Background(), "ignored")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestTimingCollectorNesting(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	root := StartTimer(ctx, "balance-sheet")
	snapshot := StartTimer(ctx, "report.snapshot")
	snapshot.End()
	compute := root.Child("report.balance_sheet")
	compute.End()
	root.End()

	spans := collector.Spans()
	assert.Equal(t, 3, len(spans))
	assert.Equal(t, "balance-sheet", spans[0].Name)
	assert.Equal(t, 0, spans[0].Depth)
	assert.Equal(t, "report.snapshot", spans[1].Name)
	assert.Equal(t, 1, spans[1].Depth)
	assert.Equal(t, "report.balance_sheet", spans[2].Name)
	assert.Equal(t, 1, spans[2].Depth)

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	out := buf.String()
	assert.Contains(t, out, "balance-sheet: ")
	assert.Contains(t, out, "├─ report.snapshot: ")
	assert.Contains(t, out, "└─ report.balance_sheet: ")
}

func TestTimingCollectorSiblingRoots(t *testing.T) {
	collector := NewTimingCollector()

	collector.Start("first").End()
	collector.Start("second").End()

	spans := collector.Spans()
	assert.Equal(t, 2, len(spans))
	assert.Equal(t, 0, spans[1].Depth)

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestMeasure(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	want := errors.New("boom")
	err := Measure(ctx, "import", func() error { return want })
	assert.Equal(t, want, err)
	assert.Equal(t, "import", collector.Spans()[0].Name)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{45 * time.Millisecond, "45ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}
