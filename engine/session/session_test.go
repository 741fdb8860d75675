package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
	"github.com/neuroalign/neuroalign/engine/signal"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(RegistryConfig{IdleTimeout: time.Hour})
	t.Cleanup(r.Shutdown)
	return r
}

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)

	a := r.GetOrCreate("s1", "u1")
	b := r.GetOrCreate("s1", "u1")
	require.Same(t, a, b)
	require.Equal(t, 1, r.Len())
}

func TestRegistry_EmptyIDMintsNewSession(t *testing.T) {
	r := newTestRegistry(t)

	a := r.GetOrCreate("", "u1")
	b := r.GetOrCreate("", "u1")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, 2, r.Len())
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := newTestRegistry(t)

	s1 := r.GetOrCreate("s1", "u1")
	s2 := r.GetOrCreate("s2", "u2")

	s1.WithDetector(func(d *fatigue.Detector) {
		d.ProcessTypingBatch(signal.TypingBatch{})
	})

	s1.WithDetector(func(d *fatigue.Detector) {
		require.Len(t, d.TypingHistory(), 1)
	})
	s2.WithDetector(func(d *fatigue.Detector) {
		require.Empty(t, d.TypingHistory(), "state must not leak across sessions")
	})
}

func TestRegistry_TerminateDiscardsState(t *testing.T) {
	r := newTestRegistry(t)

	s := r.GetOrCreate("s1", "u1")
	s.WithDetector(func(d *fatigue.Detector) {
		d.ProcessTypingBatch(signal.TypingBatch{})
	})

	r.Terminate("s1")
	_, ok := r.Get("s1")
	require.False(t, ok)

	// Recreating the ID yields a fresh analyzer, not the old one.
	fresh := r.GetOrCreate("s1", "u1")
	fresh.WithDetector(func(d *fatigue.Detector) {
		require.Empty(t, d.TypingHistory())
	})
}

func TestRegistry_ReapIdleRemovesStaleSessions(t *testing.T) {
	r := NewRegistry(RegistryConfig{IdleTimeout: 10 * time.Millisecond})
	t.Cleanup(r.Shutdown)

	r.GetOrCreate("stale", "u1")
	time.Sleep(30 * time.Millisecond)
	r.reapIdle()

	_, ok := r.Get("stale")
	require.False(t, ok)
}

func TestSession_RateLimiterEventuallyRefuses(t *testing.T) {
	r := newTestRegistry(t)
	s := r.GetOrCreate("s1", "u1")

	refused := false
	for i := 0; i < frameRateBurst+5; i++ {
		if !s.AllowFrame() {
			refused = true
			break
		}
	}
	require.True(t, refused, "burst exhaustion must refuse frames")
}

func TestSession_WithBothSeesConsistentState(t *testing.T) {
	r := newTestRegistry(t)
	s := r.GetOrCreate("s1", "u1")

	hr := 72.0
	s.WithAnalyzer(func(a *biorhythm.Analyzer) {
		a.PredictEnergy(signal.BiosignalSample{Timestamp: time.Now(), HeartRate: &hr})
	})

	s.WithBoth(func(d *fatigue.Detector, a *biorhythm.Analyzer) {
		assessment := d.Aggregate(0.5, a.DataPoints())
		require.GreaterOrEqual(t, assessment.Confidence, 0.01)
	})
}
