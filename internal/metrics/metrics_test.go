package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.StoreWrite("inventory", 3)
	r.StoreWrite("inventory", 4)
	r.AlertsDispatched("low_stock", 2)
	r.AlertsDispatched("expiry", 0)
	r.Notification("sent")
	r.PermissionDenied("Menu_Management")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.storeWrites.WithLabelValues("inventory")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.storeRecords.WithLabelValues("inventory")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.alertsDispatched.WithLabelValues("low_stock")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.alertsDispatched.WithLabelValues("expiry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.permissionDenials.WithLabelValues("Menu_Management")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.StoreWrite("menu_items", 1)
		r.AlertsDispatched("expiry", 1)
		r.Notification("failed")
		r.PermissionDenied("BI_Reports")
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.StoreWrite("waste_log", 5)

	path := filepath.Join(t.TempDir(), "bistro.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `bistro_store_writes_total{collection="waste_log"} 1`), string(data))
}
