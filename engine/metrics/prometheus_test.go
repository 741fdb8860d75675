package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExporter_RegistersAndServesMetrics(t *testing.T) {
	e := NewExporter(Config{})

	e.RecordFrame(true, 5*time.Millisecond)
	e.RecordFrame(false, time.Millisecond)
	e.RecordTypingBatch(2 * time.Millisecond)
	e.RecordBiosignal(time.Millisecond)
	e.RecordRejection("rate_limited")
	e.SetFatigueScore("overall", 0.42)
	e.SetEnergyLevel(0.8)
	e.RecordAlert("warning")
	e.SetActiveSessions(3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	e.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `neuroalign_engine_frames_processed_total{face_detected="true"} 1`)
	require.Contains(t, body, `neuroalign_engine_frames_processed_total{face_detected="false"} 1`)
	require.Contains(t, body, `neuroalign_engine_events_rejected_total{reason="rate_limited"} 1`)
	require.Contains(t, body, `neuroalign_engine_fatigue_score{component="overall"} 0.42`)
	require.Contains(t, body, "neuroalign_engine_sessions_active 3")
}

func TestExporter_PrivateRegistryIsolation(t *testing.T) {
	a := NewExporter(Config{})
	b := NewExporter(Config{})

	a.SetActiveSessions(5)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Contains(t, rec.Body.String(), "neuroalign_engine_sessions_active 0")
}
