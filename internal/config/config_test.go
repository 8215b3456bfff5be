package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.VisionModel)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.TextModel)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.InDelta(t, 5.0, cfg.Anthropic.RequestsPerSecond, 0.001)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 300, cfg.OCR.IdleTimeoutSecs)
	assert.Equal(t, "mistral-ocr-latest", cfg.OCR.Mistral.Model)
	assert.Equal(t, 45, cfg.Extract.ModelTimeoutSecs)
	assert.Equal(t, 45*time.Second, cfg.Extract.ModelTimeout())
	assert.Equal(t, 4, cfg.Extract.MaxContacts)
	assert.False(t, cfg.Extract.DisableVision)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500, cfg.Retry.InitialBackoffMs)
	assert.Equal(t, 5, cfg.Circuit.FailureThreshold)
	assert.Equal(t, 30, cfg.Circuit.ResetTimeoutSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
ocr:
  provider: mistral
  languages: [eng, deu]
extract:
  max_contacts: 2
pricing:
  anthropic:
    claude-haiku-4-5-20251001:
      input: 1.0
      output: 5.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mistral", cfg.OCR.Provider)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, 2, cfg.Extract.MaxContacts)
	require.Contains(t, cfg.Pricing.Anthropic, "claude-haiku-4-5-20251001")
	assert.InDelta(t, 5.0, cfg.Pricing.Anthropic["claude-haiku-4-5-20251001"].Output, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 300, cfg.OCR.IdleTimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
ocr:
  provider: none
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CARDSCAN_LOG_LEVEL", "warn")
	t.Setenv("CARDSCAN_OCR_PROVIDER", "tesseract")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("CARDSCAN_SERVER_PORT", "3000")
	t.Setenv("CARDSCAN_ANTHROPIC_KEY", "sk-ant-test")
	t.Setenv("CARDSCAN_OCR_MISTRAL_KEY", "mk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, "mk-test", cfg.OCR.Mistral.Key)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CARDSCAN_EXTRACT_MAX_CONTACTS=3\n"), 0644))
	t.Setenv("CARDSCAN_EXTRACT_MAX_CONTACTS", "")
	os.Unsetenv("CARDSCAN_EXTRACT_MAX_CONTACTS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Extract.MaxContacts)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with the defaults validation relies on.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.OCR.Provider = "tesseract"
	cfg.Extract.MaxContacts = 4
	cfg.Extract.ModelTimeoutSecs = 45
	cfg.Batch.Concurrency = 4
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()

	assert.NoError(t, cfg.Validate("extract"))
	assert.NoError(t, cfg.Validate("serve"))
	assert.NoError(t, cfg.Validate("text"))
}

func TestValidate_MissingAnthropicKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""

	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")

	cfg.Extract.DisableVision = true
	cfg.Extract.DisableTextModel = true
	assert.NoError(t, cfg.Validate("extract"))
	assert.False(t, cfg.UsesModel())
}

func TestValidate_TextModeSkipsModelChecks(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""
	cfg.OCR.Provider = "bogus"

	assert.NoError(t, cfg.Validate("text"))
}

func TestValidate_OCRProvider(t *testing.T) {
	cfg := validDefaults()

	cfg.OCR.Provider = "mistral"
	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr.mistral.key")

	cfg.OCR.Mistral.Key = "mk"
	assert.NoError(t, cfg.Validate("extract"))

	cfg.OCR.Provider = "abbyy"
	err = cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `ocr.provider "abbyy" is not supported`)
}

func TestValidate_ServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("extract"))

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidate_Bounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Extract.MaxContacts = 0
	cfg.Extract.ModelTimeoutSecs = 0
	cfg.Batch.Concurrency = 33

	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract.max_contacts must be >= 1")
	assert.Contains(t, err.Error(), "extract.model_timeout_secs must be >= 1")
	assert.Contains(t, err.Error(), "batch.concurrency must be between 1 and 32")
}

func TestValidate_UnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
