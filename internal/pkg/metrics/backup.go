package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vermy_backup_runs_total",
			Help: "Total number of backup exports and imports",
		},
		[]string{"direction", "status"},
	)

	backupRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vermy_backup_records_total",
			Help: "Records written or read by backups, per collection",
		},
		[]string{"direction", "collection"},
	)
)

// RecordBackup records one finished export or import ("export" / "import")
func RecordBackup(direction string, err error, counts map[string]int) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	backupRuns.WithLabelValues(direction, status).Inc()
	if err != nil {
		return
	}
	for collection, n := range counts {
		backupRecords.WithLabelValues(direction, collection).Add(float64(n))
	}
}
