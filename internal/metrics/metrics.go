// Package metrics counts store writes, alerts and notifications on a private
// Prometheus registry that can be dumped to a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the bistro collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry          *prometheus.Registry
	storeWrites       *prometheus.CounterVec
	storeRecords      *prometheus.GaugeVec
	alertsDispatched  *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	permissionDenials *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "store_writes_total",
			Help:      "Collection files written.",
		}, []string{"collection"}),
		storeRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bistro",
			Name:      "store_records",
			Help:      "Records in a collection after its last write.",
		}, []string{"collection"}),
		alertsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "alerts_dispatched_total",
			Help:      "Alerts delivered in successful dispatches, by rule.",
		}, []string{"rule"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "notifications_total",
			Help:      "Alert dispatch attempts, by outcome.",
		}, []string{"status"}),
		permissionDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "permission_denied_total",
			Help:      "Feature checks refused by the access policy.",
		}, []string{"feature"}),
	}

	r.registry.MustRegister(
		r.storeWrites,
		r.storeRecords,
		r.alertsDispatched,
		r.notifications,
		r.permissionDenials,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// StoreWrite records a saved collection of count records.
func (r *Recorder) StoreWrite(collection string, count int) {
	if r == nil {
		return
	}
	r.storeWrites.WithLabelValues(collection).Inc()
	r.storeRecords.WithLabelValues(collection).Set(float64(count))
}

// AlertsDispatched records n alerts of rule delivered by a dispatch.
func (r *Recorder) AlertsDispatched(rule string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.alertsDispatched.WithLabelValues(rule).Add(float64(n))
}

// Notification records a dispatch outcome.
func (r *Recorder) Notification(status string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(status).Inc()
}

// PermissionDenied records a refused feature check.
func (r *Recorder) PermissionDenied(feature string) {
	if r == nil {
		return
	}
	r.permissionDenials.WithLabelValues(feature).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
