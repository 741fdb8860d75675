// Package alert evaluates fatigue assessments against configurable rules
// and emits alerts. Rule conditions are CEL expressions over the
// assessment fields, so deployments can tune thresholds without a rebuild.
package alert

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/neuroalign/neuroalign/engine/fatigue"
)

// Severity orders alerts for display and notification routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rule is one alert condition. Expression is a CEL boolean over the
// variables overall_score, facial_score, typing_score, confidence and
// fatigue_level.
type Rule struct {
	Name       string        `json:"name"`
	Severity   Severity      `json:"severity"`
	Expression string        `json:"expression"`
	Message    string        `json:"message"`
	Cooldown   time.Duration `json:"cooldown"`
}

// DefaultRules mirror the built-in fatigue thresholds.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "critical-fatigue",
			Severity:   SeverityCritical,
			Expression: "overall_score > 0.8",
			Message:    "Critical fatigue detected. Stop working and rest now.",
			Cooldown:   5 * time.Minute,
		},
		{
			Name:       "high-fatigue",
			Severity:   SeverityWarning,
			Expression: "overall_score > 0.6 && overall_score <= 0.8",
			Message:    "High fatigue detected. Take a break within the next 15 minutes.",
			Cooldown:   10 * time.Minute,
		},
		{
			Name:       "rising-fatigue",
			Severity:   SeverityInfo,
			Expression: "overall_score > 0.4 && overall_score <= 0.6",
			Message:    "Fatigue is rising. Consider a short pause soon.",
			Cooldown:   15 * time.Minute,
		},
	}
}

// Alert is one emitted alert instance.
type Alert struct {
	Rule      string    `json:"rule"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

type compiledRule struct {
	rule     Rule
	program  cel.Program
	lastFire time.Time
}

// Engine evaluates assessments against its compiled rule set.
type Engine struct {
	mu     sync.Mutex
	rules  []*compiledRule
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine compiles the given rules. A rule that fails to compile aborts
// construction; rule sets come from configuration, not user input.
func NewEngine(rules []Rule, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	env, err := cel.NewEnv(
		cel.Variable("overall_score", cel.DoubleType),
		cel.Variable("facial_score", cel.DoubleType),
		cel.Variable("typing_score", cel.DoubleType),
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("fatigue_level", cel.StringType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}

	compiled := make([]*compiledRule, 0, len(rules))
	for _, rule := range rules {
		prgAST, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, errors.Wrapf(issues.Err(), "rule %q", rule.Name)
		}
		program, err := env.Program(prgAST)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", rule.Name)
		}
		compiled = append(compiled, &compiledRule{rule: rule, program: program})
	}

	return &Engine{
		rules:  compiled,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Evaluate runs the assessment through every rule and returns the alerts
// that fired. A rule inside its cooldown window stays silent. Evaluation
// errors skip the rule rather than fail the assessment.
func (e *Engine) Evaluate(assessment fatigue.Assessment) []Alert {
	vars := map[string]any{
		"overall_score": assessment.Overall,
		"facial_score":  assessment.FacialComponent,
		"typing_score":  assessment.TypingComponent,
		"confidence":    assessment.Confidence,
		"fatigue_level": string(assessment.Level),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	alerts := make([]Alert, 0, 1)
	for _, cr := range e.rules {
		out, _, err := cr.program.Eval(vars)
		if err != nil {
			e.logger.Warn("alert rule evaluation failed", "rule", cr.rule.Name, "err", err)
			continue
		}
		fired, ok := out.Value().(bool)
		if !ok || !fired {
			continue
		}
		if !cr.lastFire.IsZero() && now.Sub(cr.lastFire) < cr.rule.Cooldown {
			continue
		}
		cr.lastFire = now
		alerts = append(alerts, Alert{
			Rule:      cr.rule.Name,
			Severity:  cr.rule.Severity,
			Message:   cr.rule.Message,
			Score:     assessment.Overall,
			Timestamp: now,
		})
	}
	return alerts
}
