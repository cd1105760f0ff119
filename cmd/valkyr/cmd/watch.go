/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
	"github.com/ssargent/valkyr/pkg/term"
	"github.com/ssargent/valkyr/pkg/watch"
)

const megabyte = 1 << 20

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously display environment telemetry",
	Long: `Sample the environment's counters once per interval and render one
row per sample: current gauges plus sliding-window rates of change. The
table renderer re-prints its header on terminal resize and keeps it in
view on tall outputs; --csv emits machine-readable rows instead.
--listen additionally publishes every column as a Prometheus gauge.

Stop with Ctrl-C.

Examples:
  valkyr -e ./data -r watch
  valkyr -e ./data -r watch --csv --interval 5 > telemetry.csv
  valkyr -e ./data -r watch --listen :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}

		interval := intSetting(cmd, "interval", s.cfg.Watch.IntervalSeconds)
		if interval < 1 {
			return fmt.Errorf("interval must be at least 1 second")
		}
		window := intSetting(cmd, "window", s.cfg.Watch.Window)
		if window < 1 {
			return fmt.Errorf("window must be at least 1 sample")
		}

		state := &watchState{env: s.env}
		columns := watchColumns(state, window, time.Duration(interval)*time.Second)
		headers := watch.Headers(columns)

		var renderer watch.Renderer
		if csvOut, _ := cmd.Flags().GetBool("csv"); csvOut {
			renderer, err = watch.NewCSVRenderer(os.Stdout, headers)
			if err != nil {
				return err
			}
		} else {
			ws := term.NewWindowSize(os.Stdout)
			unsubscribe := ws.Subscribe()
			defer unsubscribe()
			renderer = watch.NewTableRenderer(os.Stdout, headers, ws)
		}

		var exporter *watch.Exporter
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			exporter = watch.NewExporter(headers)
			mux := http.NewServeMux()
			mux.Handle("/metrics", exporter.Handler())
			go func() {
				if err := http.ListenAndServe(listen, mux); err != nil {
					fmt.Fprintf(os.Stderr, "metrics listener: %v\n", err)
				}
			}()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = watch.New(watch.Config{
			Columns:  columns,
			Renderer: renderer,
			Interval: time.Duration(interval) * time.Second,
			Refresh:  state.refresh,
			Exporter: exporter,
		}).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// watchState is the shared snapshot all column value functions read.
// Refresh is called once per tick, before any column is evaluated, so
// every column in a row sees the same snapshot.
type watchState struct {
	env  *env.Env
	stat env.Stat
	info env.Info
}

func (w *watchState) refresh() error {
	w.stat = w.env.Stat()
	w.info = w.env.Info()
	return nil
}

func watchColumns(state *watchState, window int, interval time.Duration) []watch.Column {
	gauge := func(header, format string, value func() float64) watch.Column {
		return watch.Column{Header: header, Format: format, Value: value}
	}
	rate := func(header string, sample func() float64) watch.Column {
		s := watch.NewSampler(sample, window, interval)
		return watch.Column{Header: header, Format: "%.2f", Value: s.Tick}
	}

	entries := func() float64 { return float64(state.stat.Entries) }
	tableMB := func() float64 { return float64(state.stat.TableBytes) / megabyte }
	diskMB := func() float64 { return float64(state.info.DiskBytes) / megabyte }
	txns := func() float64 { return float64(state.info.LastTxnID) }

	return []watch.Column{
		gauge("Depth", "%.0f", func() float64 { return float64(state.stat.Depth) }),
		gauge("MemTbl", "%.0f", func() float64 { return float64(state.stat.MemTables) }),
		gauge("Tables", "%.0f", func() float64 { return float64(state.stat.Tables) }),
		gauge("TblMb", "%.2f", tableMB),
		gauge("Recs", "%.0f", entries),
		gauge("Rdrs", "%.0f", func() float64 { return float64(state.info.Readers) }),
		gauge("WalMb", "%.2f", func() float64 { return float64(state.info.WALBytes) / megabyte }),
		gauge("DiskMb", "%.2f", diskMB),
		gauge("Txs", "%.0f", txns),
		rate("Recs/s", entries),
		rate("TblMb/s", tableMB),
		rate("DiskMb/s", diskMB),
		rate("Txs/s", txns),
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	f := watchCmd.Flags()
	f.Bool("csv", false, "Emit CSV rows instead of an aligned table")
	f.Int("interval", 0, "Seconds between samples")
	f.Int("window", 0, "Samples retained for rate estimation")
	f.String("listen", "", "Address to serve Prometheus metrics on (e.g. :9090)")
}
