package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfile_Validate_ModeFallback(t *testing.T) {
	p := &Profile{Mode: "bogus", Driver: "sqlite", Data: t.TempDir()}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, "demo", p.Mode)
}

func TestProfile_Validate_SQLiteDSNDefault(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
	err := p.Validate()
	require.NoError(t, err)
	require.Contains(t, p.DSN, "neuroalign_dev.db")
}

func TestProfile_Validate_PostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "postgres", Data: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
}

func TestProfile_Validate_UnknownDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "mysql", Data: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
}

func TestProfile_Validate_SecretRequiredInProd(t *testing.T) {
	p := &Profile{Mode: "prod", Driver: "sqlite", Data: t.TempDir()}
	err := p.Validate()
	require.Error(t, err)
}

func TestProfile_FromEnv_DetectorDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()
	require.InDelta(t, 0.5, p.BlinkRateThreshold, 1e-9)
	require.InDelta(t, 0.5, p.HesitationThreshold, 1e-9)
	require.InDelta(t, 0.7, p.FatigueThreshold, 1e-9)
	require.Equal(t, 30, p.SessionIdleTimeoutMinutes)
}

func TestProfile_FromEnv_AIProviderDefaults(t *testing.T) {
	t.Setenv("NEUROALIGN_AI_PROVIDER", "deepseek")
	t.Setenv("NEUROALIGN_AI_API_KEY", "test-key")
	p := &Profile{}
	p.FromEnv()
	require.True(t, p.IsAIEnabled())
	require.Equal(t, "https://api.deepseek.com", p.AIBaseURL)
	require.Equal(t, "deepseek-chat", p.AIModel)
}
