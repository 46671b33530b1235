package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector files enqueue their metrics from init(); MustRegister flushes the
// queue into the default registry at startup. Registering the same collector
// twice panics, so the flush is once-guarded.
var (
	registerOnce sync.Once
	queued       []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	queued = append(queued, cs...)
}

// MustRegister registers every queued collector. Call once from main before
// the server starts serving /metrics.
func MustRegister() {
	registerOnce.Do(func() {
		if len(queued) > 0 {
			prometheus.MustRegister(queued...)
		}
	})
}
