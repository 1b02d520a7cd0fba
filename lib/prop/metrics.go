package prop

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// propMetrics holds the counters of all accessors bound to one suite.
// Counters are registered in the default VictoriaMetrics set, so they show up
// in metrics.WritePrometheus.
type propMetrics struct {
	reads            *metrics.Counter // reads that found a stored value
	defaultReads     *metrics.Counter // reads that returned the default
	writes           *metrics.Counter // values written to the suite
	deletes          *metrics.Counter // keys removed (absent writes and resets)
	conversionErrors *metrics.Counter // failed ToNative or FromNative calls
}

func newPropMetrics(suite string) *propMetrics {
	counter := func(name string) *metrics.Counter {
		return metrics.GetOrCreateCounter(fmt.Sprintf(`%s{suite=%q}`, name, suite))
	}
	return &propMetrics{
		reads:            counter("dprefs_prop_reads_total"),
		defaultReads:     counter("dprefs_prop_default_reads_total"),
		writes:           counter("dprefs_prop_writes_total"),
		deletes:          counter("dprefs_prop_deletes_total"),
		conversionErrors: counter("dprefs_prop_conversion_errors_total"),
	}
}
