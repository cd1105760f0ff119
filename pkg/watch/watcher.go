package watch

import (
	"context"
	"fmt"
	"time"
)

// Watcher drives the telemetry loop: refresh the counter snapshot,
// evaluate every column, render one row, sleep for the interval. The
// loop is cooperative and single-threaded; cancellation via ctx exits
// cleanly between rows, never mid-row.
type Watcher struct {
	columns  []Column
	renderer Renderer
	interval time.Duration
	refresh  func() error
	exporter *Exporter
}

// Config assembles a Watcher.
type Config struct {
	Columns  []Column
	Renderer Renderer
	Interval time.Duration
	// Refresh updates the snapshot the column value functions read.
	// Called once at the start of every tick.
	Refresh func() error
	// Exporter, when non-nil, receives every column's raw value each
	// tick.
	Exporter *Exporter
}

// New creates a Watcher from cfg.
func New(cfg Config) *Watcher {
	return &Watcher{
		columns:  cfg.Columns,
		renderer: cfg.Renderer,
		interval: cfg.Interval,
		refresh:  cfg.Refresh,
		exporter: cfg.Exporter,
	}
}

// Run executes the tick loop until ctx is cancelled or an error occurs.
// On cancellation it returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	cells := make([]string, len(w.columns))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if w.refresh != nil {
			if err := w.refresh(); err != nil {
				return err
			}
		}
		for i, col := range w.columns {
			v := col.Value()
			cells[i] = fmt.Sprintf(col.Format, v)
			if w.exporter != nil {
				w.exporter.Set(i, v)
			}
		}
		if err := w.renderer.WriteRow(cells); err != nil {
			return err
		}

		// Stop promptly when cancelled during rendering instead of
		// racing the next tick.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		timer.Reset(w.interval)
	}
}
