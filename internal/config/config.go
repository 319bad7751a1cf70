package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Heatmap   HeatmapConfig   `yaml:"heatmap" mapstructure:"heatmap"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the analysis history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite, postgres or none
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// CatalogConfig selects the reference dataset.
type CatalogConfig struct {
	Source          string `yaml:"source" mapstructure:"source"` // file or postgres
	Path            string `yaml:"path" mapstructure:"path"`
	ZoningShapefile string `yaml:"zoning_shapefile" mapstructure:"zoning_shapefile"`
}

// AnalysisConfig holds the calculator rates.
type AnalysisConfig struct {
	StudentsPerUnit float64 `yaml:"students_per_unit" mapstructure:"students_per_unit"`
	ElementaryShare float64 `yaml:"elementary_share" mapstructure:"elementary_share"`
	MiddleShare     float64 `yaml:"middle_share" mapstructure:"middle_share"`
	HighShare       float64 `yaml:"high_share" mapstructure:"high_share"`
	SchoolRadiusM   float64 `yaml:"school_radius_m" mapstructure:"school_radius_m"`
	TripsPerUnit    float64 `yaml:"trips_per_unit" mapstructure:"trips_per_unit"`
	AMPeakRatio     float64 `yaml:"am_peak_ratio" mapstructure:"am_peak_ratio"`
	PMPeakRatio     float64 `yaml:"pm_peak_ratio" mapstructure:"pm_peak_ratio"`
	TrafficRadiusM  float64 `yaml:"traffic_radius_m" mapstructure:"traffic_radius_m"`
	TrafficDecayM   float64 `yaml:"traffic_decay_m" mapstructure:"traffic_decay_m"`
	WalkSpeedMPS    float64 `yaml:"walk_speed_mps" mapstructure:"walk_speed_mps"`
	WaterGPDPerUnit float64 `yaml:"water_gpd_per_unit" mapstructure:"water_gpd_per_unit"`
	PropertyTaxRate float64 `yaml:"property_tax_rate" mapstructure:"property_tax_rate"`
	FeetPerStory    int     `yaml:"feet_per_story" mapstructure:"feet_per_story"`
}

// AnthropicConfig holds Anthropic API settings for the planning narrative.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// HeatmapConfig sizes the GeoJSON layer cache.
type HeatmapConfig struct {
	CacheEntries int `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLMins int `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "impact.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.zoning_shapefile", "")
	v.SetDefault("analysis.students_per_unit", 0.3)
	v.SetDefault("analysis.elementary_share", 0.4)
	v.SetDefault("analysis.middle_share", 0.3)
	v.SetDefault("analysis.high_share", 0.3)
	v.SetDefault("analysis.school_radius_m", 4000)
	v.SetDefault("analysis.trips_per_unit", 9.57)
	v.SetDefault("analysis.am_peak_ratio", 0.11)
	v.SetDefault("analysis.pm_peak_ratio", 0.12)
	v.SetDefault("analysis.traffic_radius_m", 2400)
	v.SetDefault("analysis.traffic_decay_m", 400)
	v.SetDefault("analysis.walk_speed_mps", 1.4)
	v.SetDefault("analysis.water_gpd_per_unit", 150)
	v.SetDefault("analysis.property_tax_rate", 0.011)
	v.SetDefault("analysis.feet_per_story", 12)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1500)
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.requests_per_second", 2)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("heatmap.cache_entries", 64)
	v.SetDefault("heatmap.cache_ttl_mins", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
