package exposure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sitesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exposure_sites_fetched_total", Help: "Sites fetched from jurisdiction sources",
	}, []string{"jurisdiction"})
	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exposure_notifications_sent_total", Help: "Site notifications delivered",
	}, []string{"jurisdiction"})
	jobErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exposure_job_errors_total", Help: "Failed job executions by failure kind",
	}, []string{"job", "kind"})
)
