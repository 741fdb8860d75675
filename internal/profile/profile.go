package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Server
	Mode    string // "prod", "dev" or "demo"
	Addr    string
	Port    int
	Data    string
	Driver  string // "sqlite" or "postgres"
	DSN     string
	Secret  string // JWT signing secret
	Version string

	// Detector tuning. Defaults match the reference constants; they are
	// exposed for experimentation, not learned from data.
	BlinkRateThreshold  float64 // blinks per second that saturates the blink score
	HesitationThreshold float64 // seconds before a pause counts as hesitation
	FatigueThreshold    float64 // overall score that triggers alerting

	// Session registry
	SessionIdleTimeoutMinutes int

	// Optional LLM-backed recommendation enrichment
	AIProvider string
	AIAPIKey   string
	AIBaseURL  string
	AIModel    string

	// Optional Telegram alert push
	TelegramBotToken string
	TelegramChatID   int64

	// Optional wearable provider connection
	WearableProvider     string // "fitbit", "whoop" or "oura"
	WearableClientID     string
	WearableClientSecret string
	WearableRedirectURL  string
	WearableDataURL      string
}

// Provider default configurations for the recommendation LLM.
// Used when NEUROALIGN_AI_BASE_URL is not explicitly set.
var aiProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the recommendation LLM is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// IsTelegramEnabled returns true if alert push is configured.
func (p *Profile) IsTelegramEnabled() bool {
	return p.TelegramBotToken != "" && p.TelegramChatID != 0
}

// IsWearableEnabled returns true if a wearable provider is configured.
func (p *Profile) IsWearableEnabled() bool {
	return p.WearableProvider != "" && p.WearableClientID != "" && p.WearableClientSecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.Secret = getEnvOrDefault("NEUROALIGN_SECRET", p.Secret)

	p.BlinkRateThreshold = getEnvOrDefaultFloat("NEUROALIGN_BLINK_RATE_THRESHOLD", 0.5)
	p.HesitationThreshold = getEnvOrDefaultFloat("NEUROALIGN_HESITATION_THRESHOLD", 0.5)
	p.FatigueThreshold = getEnvOrDefaultFloat("NEUROALIGN_FATIGUE_THRESHOLD", 0.7)
	p.SessionIdleTimeoutMinutes = getEnvOrDefaultInt("NEUROALIGN_SESSION_IDLE_TIMEOUT_MINUTES", 30)

	p.AIProvider = getEnvOrDefault("NEUROALIGN_AI_PROVIDER", "openai")
	p.AIAPIKey = getEnvOrDefault("NEUROALIGN_AI_API_KEY", "")
	p.AIBaseURL = getEnvOrDefault("NEUROALIGN_AI_BASE_URL", "")
	p.AIModel = getEnvOrDefault("NEUROALIGN_AI_MODEL", "")

	if p.AIProvider != "" {
		if _, ok := aiProviderDefaults[p.AIProvider]; !ok {
			slog.Warn("unknown AI provider, using default: openai", "provider", p.AIProvider)
			p.AIProvider = "openai"
		}
	}
	if p.AIBaseURL == "" || p.AIModel == "" {
		if defaults, ok := aiProviderDefaults[p.AIProvider]; ok {
			if p.AIBaseURL == "" {
				p.AIBaseURL = defaults.BaseURL
			}
			if p.AIModel == "" {
				p.AIModel = defaults.Model
			}
		}
	}

	p.TelegramBotToken = getEnvOrDefault("NEUROALIGN_TELEGRAM_BOT_TOKEN", "")
	if chatID := os.Getenv("NEUROALIGN_TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			p.TelegramChatID = id
		}
	}

	p.WearableProvider = getEnvOrDefault("NEUROALIGN_WEARABLE_PROVIDER", "")
	p.WearableClientID = getEnvOrDefault("NEUROALIGN_WEARABLE_CLIENT_ID", "")
	p.WearableClientSecret = getEnvOrDefault("NEUROALIGN_WEARABLE_CLIENT_SECRET", "")
	p.WearableRedirectURL = getEnvOrDefault("NEUROALIGN_WEARABLE_REDIRECT_URL", "")
	p.WearableDataURL = getEnvOrDefault("NEUROALIGN_WEARABLE_DATA_URL", "")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "neuroalign")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/neuroalign"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("neuroalign_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	if p.Secret == "" {
		if p.Mode == "prod" {
			return errors.New("secret required in prod mode")
		}
		p.Secret = "neuroalign-insecure-dev-secret"
	}

	return nil
}
