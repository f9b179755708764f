package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	GitHub   GitHubConfig   `mapstructure:"github"   validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Shop     ShopConfig     `mapstructure:"shop"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format"       validate:"required,oneof=json text"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// AllowedOrigins lists browser origins allowed to open realtime
	// connections. Empty allows same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	// CookieSecure marks the OAuth state cookie Secure. Disable only for
	// local development over plain HTTP.
	CookieSecure bool `mapstructure:"cookie_secure"`
	// SuccessRedirectURL receives the browser after sign-in, with the token
	// pair in the URL fragment. Empty returns the pair as JSON instead.
	SuccessRedirectURL string `mapstructure:"success_redirect_url" validate:"omitempty,url"`
}

// GitHubConfig holds the OAuth application used for sign-in.
type GitHubConfig struct {
	ClientID     string   `mapstructure:"client_id"     validate:"required"`
	ClientSecret string   `mapstructure:"client_secret" validate:"required"`
	RedirectURL  string   `mapstructure:"redirect_url"  validate:"required,url"`
	Scopes       []string `mapstructure:"scopes"`
}

// LLMConfig contains the optional description drafter settings.
// Drafting is disabled when GeminiAPIKey is empty.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
	// MaxRetries bounds retries of transient API failures.
	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// ShopConfig holds stocking quotas and public storefront aliases.
type ShopConfig struct {
	// StoreAliases maps a public storefront name to a store ID,
	// e.g. cosmic-curiosities: 8f1c...
	StoreAliases map[string]string `mapstructure:"store_aliases" validate:"dive,keys,min=1,endkeys,uuid"`
	Quotas       QuotaConfig       `mapstructure:"quotas"`
}

// QuotaConfig overrides the number of slots per surface. Unset fields are
// nil and keep the built-in default; 0 is a valid quota.
type QuotaConfig struct {
	Common    *int `mapstructure:"common"    validate:"omitempty,gte=0"`
	Uncommon  *int `mapstructure:"uncommon"  validate:"omitempty,gte=0"`
	Rare      *int `mapstructure:"rare"      validate:"omitempty,gte=0"`
	VeryRare  *int `mapstructure:"very_rare" validate:"omitempty,gte=0"`
	Legendary *int `mapstructure:"legendary" validate:"omitempty,gte=0"`
	Gachapon  *int `mapstructure:"gachapon"  validate:"omitempty,gte=0"`
}

// RealtimeConfig tunes websocket subscriptions.
type RealtimeConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}
