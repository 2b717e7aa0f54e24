package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	checkinsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkins_submitted_total",
		Help: "Total check-ins submitted, by assessed risk level",
	}, []string{"risk_level"})

	checkinScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkin_score",
		Help:    "Distribution of assessed check-in scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	checkinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkins_rejected_total",
		Help: "Check-ins rejected before scoring, by reason",
	}, []string{"reason"})

	alertsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_published_total",
		Help: "High-risk alerts handed to the alert sink, by sink and outcome",
	}, []string{"sink", "outcome"})

	alertJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_jobs_total",
		Help: "Alert messages handled by the worker, by outcome",
	}, []string{"outcome"})
)

// ObserveCheckIn records a scored submission.
func ObserveCheckIn(riskLevel string, score int) {
	checkinsSubmitted.WithLabelValues(riskLevel).Inc()
	checkinScore.Observe(float64(score))
}

// IncCheckInRejected counts a submission that never reached persistence.
func IncCheckInRejected(reason string) {
	checkinsRejected.WithLabelValues(reason).Inc()
}

// IncAlertPublished counts a publish attempt; outcome is "ok" or "error".
func IncAlertPublished(sink, outcome string) {
	alertsPublished.WithLabelValues(sink, outcome).Inc()
}

func IncAlertJobsReceived()             { alertJobs.WithLabelValues("received").Inc() }
func IncAlertJobsCompleted()            { alertJobs.WithLabelValues("completed").Inc() }
func IncAlertJobsFailed()               { alertJobs.WithLabelValues("failed").Inc() }
func IncAlertJobsDeletedUnrecoverable() { alertJobs.WithLabelValues("deleted_unrecoverable").Inc() }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
