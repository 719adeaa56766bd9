// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agroclim/cropgrid/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Boundary     BoundaryConfig     `yaml:"boundary" mapstructure:"boundary"`
	Ingest       IngestConfig       `yaml:"ingest" mapstructure:"ingest"`
	Demographics DemographicsConfig `yaml:"demographics" mapstructure:"demographics"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// BoundaryConfig locates the administrative boundary shapefile and its
// attribute field names.
type BoundaryConfig struct {
	Shapefile      string `yaml:"shapefile" mapstructure:"shapefile"`
	CountryField   string `yaml:"country_field" mapstructure:"country_field"`
	ContinentField string `yaml:"continent_field" mapstructure:"continent_field"`
}

// IngestConfig configures the yield grid ingest.
type IngestConfig struct {
	DataDir     string `yaml:"data_dir" mapstructure:"data_dir"`
	FilePattern string `yaml:"file_pattern" mapstructure:"file_pattern"` // one %d verb for the year
	Variable    string `yaml:"variable" mapstructure:"variable"`
	LonVar      string `yaml:"lon_var" mapstructure:"lon_var"`
	LatVar      string `yaml:"lat_var" mapstructure:"lat_var"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// DemographicsConfig configures the national indicator load.
type DemographicsConfig struct {
	AliasFile string `yaml:"alias_file" mapstructure:"alias_file"` // optional YAML override
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from ./config.yaml (optional) and the environment.
// Environment variables use the CROPGRID prefix with underscores, e.g.
// CROPGRID_STORE_DATABASE_URL.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CROPGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "cropgrid.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("boundary.country_field", "ADMIN")
	v.SetDefault("boundary.continent_field", "CONTINENT")
	v.SetDefault("ingest.file_pattern", "maize_%d.nc")
	v.SetDefault("ingest.variable", "yield")
	v.SetDefault("ingest.lon_var", "lon")
	v.SetDefault("ingest.lat_var", "lat")
	v.SetDefault("ingest.concurrency", 3)

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

// InitLogger builds the global zap logger from config.
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
