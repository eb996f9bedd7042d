package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Proximity ProximityConfig `yaml:"proximity" mapstructure:"proximity"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ProximityConfig configures distance classification.
type ProximityConfig struct {
	ThresholdKM float64 `yaml:"threshold_km" mapstructure:"threshold_km"`
	NearBandKM  float64 `yaml:"near_band_km" mapstructure:"near_band_km"`
	Method      string  `yaml:"method" mapstructure:"method"`
	UTMZone     int     `yaml:"utm_zone" mapstructure:"utm_zone"`
	UseIndex    bool    `yaml:"use_index" mapstructure:"use_index"`
	Workers     int     `yaml:"workers" mapstructure:"workers"`
}

// FetchConfig configures dataset downloads.
type FetchConfig struct {
	CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// StoreConfig configures the run database.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WINDPROX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("proximity.threshold_km", 5.0)
	v.SetDefault("proximity.near_band_km", 2.0)
	v.SetDefault("proximity.method", "planar")
	v.SetDefault("proximity.use_index", true)
	v.SetDefault("proximity.workers", 0)
	v.SetDefault("fetch.cache_dir", "/tmp/windprox")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "windprox.db")
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

// Validate checks that the configuration is usable for a classification run.
func (c *Config) Validate() error {
	var problems []string

	if c.Proximity.ThresholdKM <= 0 {
		problems = append(problems, "proximity.threshold_km must be > 0")
	}
	if c.Proximity.NearBandKM <= 0 {
		problems = append(problems, "proximity.near_band_km must be > 0")
	}
	if c.Proximity.NearBandKM > c.Proximity.ThresholdKM {
		problems = append(problems, "proximity.near_band_km must not exceed proximity.threshold_km")
	}
	if c.Proximity.Method != "planar" && c.Proximity.Method != "haversine" {
		problems = append(problems, "proximity.method must be planar or haversine")
	}
	if c.Proximity.UTMZone < 0 || c.Proximity.UTMZone > 60 {
		problems = append(problems, "proximity.utm_zone must be between 0 and 60")
	}
	if c.Proximity.Workers < 0 {
		problems = append(problems, "proximity.workers must be >= 0")
	}
	if c.Store.Driver != "sqlite" {
		problems = append(problems, "store.driver must be sqlite")
	}
	if c.Store.Path == "" {
		problems = append(problems, "store.path is required")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
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
