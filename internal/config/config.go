package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"research-data-pipeline/internal/model"
)

// Config is the full runtime configuration, read from config.yaml when
// present and overridable through RESEARCH_* environment variables.
type Config struct {
	Addr              string        `mapstructure:"addr"`
	DataDir           string        `mapstructure:"data_dir"`
	DatabasePath      string        `mapstructure:"database_path"`
	SchedulerInterval time.Duration `mapstructure:"scheduler_interval"`
	HistoryCap        int           `mapstructure:"history_cap"`

	Cleaning CleaningConfig `mapstructure:"cleaning"`
}

// CleaningConfig holds the tunable thresholds of the cleaning passes.
type CleaningConfig struct {
	NullRowThreshold    float64 `mapstructure:"null_row_threshold"`
	NullColumnThreshold float64 `mapstructure:"null_column_threshold"`
	OutlierMethod       string  `mapstructure:"outlier_method"`
	OutlierThreshold    float64 `mapstructure:"outlier_threshold"`
}

// Model converts the file representation into the cleaning settings the
// pipeline consumes.
func (c CleaningConfig) Model() model.CleaningConfig {
	return model.CleaningConfig{
		RowThreshold:     c.NullRowThreshold,
		ColThreshold:     c.NullColumnThreshold,
		OutlierMethod:    c.OutlierMethod,
		OutlierThreshold: c.OutlierThreshold,
	}
}

// Load reads configuration with sane defaults. A missing config file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("data_dir", "data")
	v.SetDefault("database_path", "data/research.db")
	v.SetDefault("scheduler_interval", "500ms")
	v.SetDefault("history_cap", 100)
	v.SetDefault("cleaning.null_row_threshold", 0.5)
	v.SetDefault("cleaning.null_column_threshold", 0.5)
	v.SetDefault("cleaning.outlier_method", "iqr")
	v.SetDefault("cleaning.outlier_threshold", 1.5)

	v.SetEnvPrefix("RESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
