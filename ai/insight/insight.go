// Package insight generates natural-language wellbeing guidance from
// analysis results. An OpenAI-compatible LLM enriches the built-in
// recommendations when configured; without a provider, or when a request
// fails, the static guidance is returned unchanged so the analysis path
// never depends on an external service.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
)

// Config represents the insight generator configuration.
type Config struct {
	Provider    string // openai, deepseek, ollama
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 512
	Temperature float32 // default: 0.6
	Timeout     int     // request timeout in seconds (default: 30)
}

// Generator produces guidance text for assessments and predictions.
type Generator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGenerator creates a generator. A nil config or empty provider yields
// a generator that always serves the static guidance.
func NewGenerator(cfg *Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{logger: logger}
	if cfg == nil || cfg.Provider == "" {
		return g
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = newHTTPClient()

	g.client = openai.NewClientWithConfig(clientConfig)
	g.model = cfg.Model
	g.maxTokens = cfg.MaxTokens
	if g.maxTokens <= 0 {
		g.maxTokens = 512
	}
	g.temperature = cfg.Temperature
	if g.temperature <= 0 {
		g.temperature = 0.6
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	g.timeout = time.Duration(timeout) * time.Second
	return g
}

// Enabled reports whether an LLM provider is configured.
func (g *Generator) Enabled() bool { return g.client != nil }

const systemPrompt = `You are a workplace wellbeing assistant. You receive fatigue and
energy analysis results for one user. Reply with 2-4 short, concrete,
actionable suggestions as plain sentences, one per line. No preamble, no
numbering, no medical claims.`

// FatigueGuidance returns guidance for a fatigue assessment. The static
// recommendations are the fallback and the floor; LLM output replaces
// them only on success.
func (g *Generator) FatigueGuidance(ctx context.Context, assessment fatigue.Assessment) []string {
	static := assessment.Recommendations
	if len(static) == 0 {
		static = fatigue.Recommendations(assessment.Level)
	}
	if !g.Enabled() {
		return static
	}

	prompt := fmt.Sprintf(
		"Fatigue level: %s (score %.2f, confidence %.2f). Facial component %.2f, typing component %.2f.",
		assessment.Level, assessment.Overall, assessment.Confidence,
		assessment.FacialComponent, assessment.TypingComponent)

	lines, err := g.complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("insight generation failed, using static guidance", "err", err)
		return static
	}
	return lines
}

// EnergyGuidance returns guidance for an energy prediction.
func (g *Generator) EnergyGuidance(ctx context.Context, pred biorhythm.Prediction) []string {
	if !g.Enabled() {
		return pred.Recommendations
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current energy %.2f (confidence %.2f).", pred.CurrentEnergy, pred.Confidence)
	for _, w := range pred.OptimalWindows {
		fmt.Fprintf(&sb, " High-energy window %02d:00-%02d:00 (avg %.2f).",
			w.StartHour, w.EndHour+1, w.AvgEnergy)
	}

	lines, err := g.complete(ctx, sb.String())
	if err != nil {
		g.logger.Warn("insight generation failed, using static guidance", "err", err)
		return pred.Recommendations
	}
	return lines
}

func (g *Generator) complete(ctx context.Context, prompt string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	raw := strings.Split(resp.Choices[0].Message.Content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("blank completion content")
	}
	return lines, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
