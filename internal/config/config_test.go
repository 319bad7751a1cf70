package config

import (
	"os"
	"path/filepath"
	"testing"

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
	// Change to temp dir so no config.yaml or .env is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "impact.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 64, cfg.Heatmap.CacheEntries)
	assert.Equal(t, 60, cfg.Heatmap.CacheTTLMins)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(1500), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 30, cfg.Anthropic.TimeoutSecs)
	assert.InDelta(t, 2.0, cfg.Anthropic.RequestsPerSecond, 0.001)
	assert.InDelta(t, 0.3, cfg.Analysis.StudentsPerUnit, 0.001)
	assert.InDelta(t, 0.4, cfg.Analysis.ElementaryShare, 0.001)
	assert.InDelta(t, 4000, cfg.Analysis.SchoolRadiusM, 0.001)
	assert.InDelta(t, 9.57, cfg.Analysis.TripsPerUnit, 0.001)
	assert.InDelta(t, 0.11, cfg.Analysis.AMPeakRatio, 0.001)
	assert.InDelta(t, 0.12, cfg.Analysis.PMPeakRatio, 0.001)
	assert.InDelta(t, 2400, cfg.Analysis.TrafficRadiusM, 0.001)
	assert.InDelta(t, 400, cfg.Analysis.TrafficDecayM, 0.001)
	assert.InDelta(t, 1.4, cfg.Analysis.WalkSpeedMPS, 0.001)
	assert.InDelta(t, 150, cfg.Analysis.WaterGPDPerUnit, 0.001)
	assert.InDelta(t, 0.011, cfg.Analysis.PropertyTaxRate, 0.0001)
	assert.Equal(t, 12, cfg.Analysis.FeetPerStory)

	assert.NoError(t, cfg.Validate("serve"))
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/impact
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins: ["https://planning.example.gov"]
analysis:
  students_per_unit: 0.45
catalog:
  path: denver.yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/impact", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://planning.example.gov"}, cfg.Server.CORSOrigins)
	assert.InDelta(t, 0.45, cfg.Analysis.StudentsPerUnit, 0.001)
	assert.Equal(t, "denver.yaml", cfg.Catalog.Path)
	// Defaults still apply for unset values
	assert.InDelta(t, 9.57, cfg.Analysis.TripsPerUnit, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("IMPACT_STORE_DRIVER", "none")
	t.Setenv("IMPACT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("IMPACT_SERVER_PORT", "3000")
	t.Setenv("IMPACT_ANALYSIS_WALK_SPEED_MPS", "1.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 1.2, cfg.Analysis.WalkSpeedMPS, 0.001)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMPACT_ANTHROPIC_KEY=sk-ant-from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("IMPACT_ANTHROPIC_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-dotenv", cfg.Anthropic.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
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

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "impact.db"
	cfg.Catalog.Source = "file"
	cfg.Analysis.ElementaryShare = 0.4
	cfg.Analysis.MiddleShare = 0.3
	cfg.Analysis.HighShare = 0.3
	cfg.Analysis.WalkSpeedMPS = 1.4
	cfg.Analysis.TrafficDecayM = 400
	cfg.Analysis.FeetPerStory = 12
	cfg.Server.Port = 8000
	cfg.Heatmap.CacheEntries = 64
	cfg.Heatmap.CacheTTLMins = 60
	return cfg
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_CollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"
	cfg.Analysis.HighShare = 0.5
	cfg.Heatmap.CacheEntries = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be one of sqlite, postgres, none")
	assert.Contains(t, err.Error(), "grade shares must sum to 1")
	assert.Contains(t, err.Error(), "heatmap.cache_entries must be >= 1")
}

func TestValidateAnalyze_PostgresCatalogNeedsPostgresStore(t *testing.T) {
	cfg := validDefaults()
	cfg.Catalog.Source = "postgres"

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.source postgres requires store.driver postgres")

	cfg.Store.Driver = "postgres"
	cfg.Store.DatabaseURL = "postgres://localhost/impact"
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateStore(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "none"
	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be none")

	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = ""
	err = cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateCatalogLoad(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("catalog-load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be postgres")

	cfg.Store.Driver = "postgres"
	cfg.Store.DatabaseURL = "postgres://localhost/impact"
	assert.NoError(t, cfg.Validate("catalog-load"))

	cfg.Catalog.Source = "postgres"
	err = cfg.Validate("catalog-load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be postgres")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
