package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neuroalign/neuroalign/engine/fatigue"
)

func TestGenerator_DisabledServesStaticGuidance(t *testing.T) {
	g := NewGenerator(nil, nil)
	require.False(t, g.Enabled())

	assessment := fatigue.Assessment{
		Level:           fatigue.LevelHigh,
		Recommendations: fatigue.Recommendations(fatigue.LevelHigh),
	}
	lines := g.FatigueGuidance(context.Background(), assessment)
	require.Equal(t, fatigue.Recommendations(fatigue.LevelHigh), lines)
}

func TestGenerator_EnrichesFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "Take a walk.\n\nDrink water.\n",
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	g := NewGenerator(&Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test",
		BaseURL:  srv.URL,
	}, nil)
	require.True(t, g.Enabled())

	lines := g.FatigueGuidance(context.Background(), fatigue.Assessment{Level: fatigue.LevelModerate})
	require.Equal(t, []string{"Take a walk.", "Drink water."}, lines)
}

func TestGenerator_FallsBackOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGenerator(&Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test",
		BaseURL:  srv.URL,
	}, nil)

	static := fatigue.Recommendations(fatigue.LevelCritical)
	lines := g.FatigueGuidance(context.Background(), fatigue.Assessment{
		Level:           fatigue.LevelCritical,
		Recommendations: static,
	})
	require.Equal(t, static, lines)
}
