package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(researchJobsTotal, researchJobsInFlight) }

var researchJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "research_jobs_total",
		Help: "Total number of research jobs reaching a terminal state, labeled by pipeline variant and status.",
	},
	[]string{"variant", "status"}, // 'completed', 'failed'
)

var researchJobsInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "research_jobs_in_flight",
		Help: "Number of research jobs currently running.",
	},
)

func IncResearchJob(variant, status string) {
	researchJobsTotal.WithLabelValues(norm(variant), norm(status)).Inc()
}

func JobStarted()  { researchJobsInFlight.Inc() }
func JobFinished() { researchJobsInFlight.Dec() }

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
