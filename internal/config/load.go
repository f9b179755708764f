package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// MAGICSHOP_DATABASE_URL sets database.url.
const EnvPrefix = "MAGICSHOP"

// keys lists every leaf setting so environment variables are seen by
// Unmarshal even when neither a default nor a config file mentions them.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.log_format",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"server.allowed_origins",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"auth.refresh_token_lifetime_minutes",
	"auth.cookie_secure",
	"auth.success_redirect_url",
	"github.client_id",
	"github.client_secret",
	"github.redirect_url",
	"github.scopes",
	"llm.gemini_api_key",
	"llm.model_name",
	"llm.max_retries",
	"llm.retry_delay_seconds",
	"shop.quotas.common",
	"shop.quotas.uncommon",
	"shop.quotas.rare",
	"shop.quotas.very_rare",
	"shop.quotas.legendary",
	"shop.quotas.gachapon",
	"realtime.ping_interval",
	"realtime.write_timeout",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.cookie_secure", true)
	v.SetDefault("github.scopes", []string{"read:user"})
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("realtime.ping_interval", "30s")
	v.SetDefault("realtime.write_timeout", "10s")
}

// Load configuration from defaults, an optional config.yaml in the working
// directory, and environment variables, in increasing order of precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches
// for config.yaml in the working directory and tolerates its absence; a
// non-empty path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
