package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Reader struct {
		Provider string
		BaseURL  string
		APIKey   string
		Timeout  time.Duration
	}
	Summarizer struct {
		Endpoint string
		APIKey   string
		Length   int
		Timeout  time.Duration
	}
	Fetch struct {
		Timeout time.Duration
	}
	FaviconService  string
	SessionLifetime time.Duration
}

// Load reads config from environment (MARQUE_ prefix) and optional marque.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MARQUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("marque")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "memory")
	v.SetDefault("reader.base_url", "https://r.jina.ai")
	v.SetDefault("reader.timeout", "12s")
	v.SetDefault("summarizer.length", 80)
	v.SetDefault("summarizer.timeout", "12s")
	v.SetDefault("fetch.timeout", "8s")
	v.SetDefault("favicon_service", "https://www.google.com/s2/favicons?domain=%s")
	v.SetDefault("session.lifetime", "168h")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Reader.Provider = v.GetString("reader.provider")
	cfg.Reader.BaseURL = v.GetString("reader.base_url")
	cfg.Reader.APIKey = v.GetString("reader.api_key")
	cfg.Summarizer.Endpoint = v.GetString("summarizer.endpoint")
	cfg.Summarizer.APIKey = v.GetString("summarizer.api_key")
	cfg.Summarizer.Length = v.GetInt("summarizer.length")
	cfg.FaviconService = v.GetString("favicon_service")

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"reader.timeout", &cfg.Reader.Timeout},
		{"summarizer.timeout", &cfg.Summarizer.Timeout},
		{"fetch.timeout", &cfg.Fetch.Timeout},
		{"session.lifetime", &cfg.SessionLifetime},
	} {
		dur, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid MARQUE_%s: %w", strings.ToUpper(strings.ReplaceAll(d.key, ".", "_")), err)
		}
		*d.dst = dur
	}

	switch cfg.DB.Driver {
	case "memory":
		// DSN unused
	case "sqlite3", "mysql", "postgres":
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("MARQUE_DB_DSN is required for driver %q", cfg.DB.Driver)
		}
	default:
		return nil, fmt.Errorf("unsupported DB driver %q: must be memory, sqlite3, mysql, or postgres", cfg.DB.Driver)
	}

	switch cfg.Reader.Provider {
	case "", "remote", "local":
	default:
		return nil, fmt.Errorf("unsupported reader provider %q: must be remote or local", cfg.Reader.Provider)
	}

	return cfg, nil
}
