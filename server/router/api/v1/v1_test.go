package v1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/alert"
	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/internal/profile"
	"github.com/neuroalign/neuroalign/plugin/notifier"
	"github.com/neuroalign/neuroalign/store"
)

func recordsWithScores(scores ...float64) []*store.FatigueRecord {
	records := make([]*store.FatigueRecord, 0, len(scores))
	for _, score := range scores {
		records = append(records, &store.FatigueRecord{Overall: score})
	}
	return records
}

func TestFatigueTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64 // newest first
		want   string
	}{
		{"too few records", []float64{0.9}, "stable"},
		{"flat", []float64{0.5, 0.5, 0.5, 0.5}, "stable"},
		{"rising", []float64{0.8, 0.8, 0.4, 0.4}, "increasing"},
		{"falling", []float64{0.3, 0.3, 0.7, 0.7}, "decreasing"},
		{"within tolerance", []float64{0.55, 0.55, 0.5, 0.5}, "stable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, fatigueTrend(recordsWithScores(tt.scores...)))
		})
	}
}

func TestAlertBand(t *testing.T) {
	severity, _ := alertBand(0.85)
	require.Equal(t, alert.SeverityCritical, severity)

	severity, _ = alertBand(0.7)
	require.Equal(t, alert.SeverityWarning, severity)

	severity, _ = alertBand(0.5)
	require.Equal(t, alert.SeverityInfo, severity)

	severity, message := alertBand(0.4)
	require.Empty(t, severity)
	require.Empty(t, message)
}

func TestNextWindow(t *testing.T) {
	windows := []biorhythm.Window{
		{StartHour: 9, EndHour: 11},
		{StartHour: 15, EndHour: 16},
	}

	require.Nil(t, nextWindow(nil, 10))
	require.Equal(t, 9, nextWindow(windows, 8).StartHour)
	require.Equal(t, 15, nextWindow(windows, 12).StartHour)
	// Past the last window the first one of the next day is closest.
	require.Equal(t, 9, nextWindow(windows, 20).StartHour)
}

func TestShouldPushExternally(t *testing.T) {
	s := &APIV1Service{
		Profile:  &profile.Profile{FatigueThreshold: 0.7},
		Notifier: notifier.NewFanout(),
	}

	require.False(t, s.shouldPushExternally(alert.Alert{Score: 0.65}))
	require.True(t, s.shouldPushExternally(alert.Alert{Score: 0.7}))
	require.True(t, s.shouldPushExternally(alert.Alert{Score: 0.9}))

	s.Notifier = nil
	require.False(t, s.shouldPushExternally(alert.Alert{Score: 0.9}))
}

func TestValidScheduleStatus(t *testing.T) {
	for _, status := range []string{"pending", "scheduled", "done", "cancelled"} {
		require.True(t, validScheduleStatus(status), status)
	}
	require.False(t, validScheduleStatus("archived"))
	require.False(t, validScheduleStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, priority := range []float64{1, 2.5, 3, 5} {
		require.True(t, validPriority(priority), priority)
	}
	for _, priority := range []float64{0, 0.5, 5.1, -1} {
		require.False(t, validPriority(priority), priority)
	}
}
