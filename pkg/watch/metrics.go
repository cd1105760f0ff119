package watch

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter publishes the raw (unformatted) value of every watch column
// as a Prometheus gauge, refreshed each tick.
type Exporter struct {
	registry *prometheus.Registry
	gauges   []prometheus.Gauge
}

// NewExporter registers one gauge per column header on a private
// registry. Headers map to metric names as
// valkyr_watch_<lowercased header, non-alphanumerics replaced by '_'>.
func NewExporter(headers []string) *Exporter {
	reg := prometheus.NewRegistry()
	e := &Exporter{registry: reg}
	for _, h := range headers {
		e.gauges = append(e.gauges, promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "valkyr_watch_" + sanitizeMetricName(h),
				Help: fmt.Sprintf("Current value of the %s watch column", h),
			},
		))
	}
	return e
}

// Set records the raw value of column i.
func (e *Exporter) Set(i int, v float64) {
	e.gauges[i].Set(v)
}

// Handler returns an HTTP handler serving the exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func sanitizeMetricName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
