package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-crm-dashboard/pkg/crm"
)

// EnvPrefix namespaces environment overrides, e.g. CRMBOARD_SERVER_ADDR.
const EnvPrefix = "CRMBOARD"

// Config holds the crmboard configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Charts    ChartsConfig    `mapstructure:"charts"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

// DataConfig selects the CRM provider.
type DataConfig struct {
	Source     string     `mapstructure:"source"`
	CSVDir     string     `mapstructure:"csv_dir"`
	SQLitePath string     `mapstructure:"sqlite_path"`
	HTTP       HTTPConfig `mapstructure:"http"`
}

// HTTPConfig holds the REST CRM endpoint.
type HTTPConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// DashboardConfig points at an optional layout manifest.
type DashboardConfig struct {
	Manifest string `mapstructure:"manifest"`
}

// ChartsConfig tunes chart rendering.
type ChartsConfig struct {
	Theme    string        `mapstructure:"theme"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Provider maps the data section onto the crm factory config.
func (c Config) Provider() crm.Config {
	return crm.Config{
		Source:     c.Data.Source,
		CSVDir:     c.Data.CSVDir,
		SQLitePath: c.Data.SQLitePath,
		HTTP: crm.HTTPConfig{
			BaseURL: c.Data.HTTP.BaseURL,
			APIKey:  c.Data.HTTP.APIKey,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8050")
	v.SetDefault("server.base_path", "/")
	v.SetDefault("data.source", crm.SourceMock)
	v.SetDefault("data.csv_dir", "data")
	v.SetDefault("data.sqlite_path", "crm.db")
	v.SetDefault("data.http.base_url", "")
	v.SetDefault("data.http.api_key", "")
	v.SetDefault("dashboard.manifest", "")
	v.SetDefault("charts.theme", "white")
	v.SetDefault("charts.cache_ttl", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from path (or $CRMBOARD_CONFIG), falling back to
// crmboard.yaml in the working directory, then applies CRMBOARD_ environment overrides.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("crmboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values Load cannot coerce.
func (c Config) Validate() error {
	switch strings.ToLower(c.Data.Source) {
	case crm.SourceMock, crm.SourceCSV, crm.SourceSQLite, crm.SourceHTTP:
	default:
		return fmt.Errorf("config: data.source %q: %w", c.Data.Source, crm.ErrUnknownSource)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Charts.CacheTTL < 0 {
		return errors.New("config: charts.cache_ttl must not be negative")
	}
	return nil
}
