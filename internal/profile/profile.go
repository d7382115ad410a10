package profile

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/hrygo/kinsync/internal/timezone"
)

// Profile is the configuration used to start the engine and its collaborators.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Driver is the storage driver (memory, sqlite or postgres)
	Driver string
	// DSN points to where group documents are stored
	DSN string
	// DefaultTimezone is used when a request carries no timezone
	DefaultTimezone string
	// AppBaseURL is the prefix for notification deep links
	AppBaseURL string

	// AI fallback configuration
	AIFallbackEnabled    bool   // KINSYNC_AI_FALLBACK_ENABLED (default: true)
	AIModel              string // KINSYNC_AI_MODEL (default: gpt-4o-mini)
	AIMaxContextChars    int    // KINSYNC_AI_MAX_CONTEXT_CHARS (default: 2000)
	AIAPIKey             string // KINSYNC_AI_API_KEY
	AIBaseURL            string // KINSYNC_AI_BASE_URL (default: https://api.openai.com/v1)
	AIRateLimitPerMinute int    // KINSYNC_AI_RATE_LIMIT_PER_MINUTE (default: 30)
	AITimeout            time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIConfigured returns true if fallback is enabled and an API key is present.
func (p *Profile) IsAIConfigured() bool {
	return p.AIFallbackEnabled && p.AIAPIKey != ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("KINSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "dev")
	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("default_timezone", "UTC")
	v.SetDefault("app_base_url", "http://localhost:5173")
	v.SetDefault("ai.fallback_enabled", true)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_context_chars", 2000)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.rate_limit_per_minute", 30)
	v.SetDefault("ai.timeout", "20s")
	return v
}

func (p *Profile) apply(v *viper.Viper) {
	p.Mode = v.GetString("mode")
	p.Driver = v.GetString("driver")
	p.DSN = v.GetString("dsn")
	p.DefaultTimezone = v.GetString("default_timezone")
	p.AppBaseURL = strings.TrimRight(v.GetString("app_base_url"), "/")
	p.AIFallbackEnabled = v.GetBool("ai.fallback_enabled")
	p.AIModel = v.GetString("ai.model")
	p.AIMaxContextChars = v.GetInt("ai.max_context_chars")
	p.AIAPIKey = v.GetString("ai.api_key")
	p.AIBaseURL = v.GetString("ai.base_url")
	p.AIRateLimitPerMinute = v.GetInt("ai.rate_limit_per_minute")
	p.AITimeout = v.GetDuration("ai.timeout")
}

// FromEnv loads configuration from KINSYNC_* environment variables.
func (p *Profile) FromEnv() {
	p.apply(newViper())
}

// Load reads an optional config file (yaml, toml or json) and overlays
// KINSYNC_* environment variables on top of it.
func Load(path string) (*Profile, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", path)
		}
	}

	p := &Profile{}
	p.apply(v)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.DefaultTimezone == "" {
		p.DefaultTimezone = "UTC"
	}
	if _, err := timezone.ParseTimezone(p.DefaultTimezone); err != nil {
		return errors.Wrap(err, "invalid default timezone")
	}

	switch p.Driver {
	case "memory":
	case "sqlite":
		if p.DSN == "" {
			p.DSN = fmt.Sprintf("kinsync_%s.db", p.Mode)
		}
	case "postgres":
		if p.DSN == "" {
			slog.Error("postgres driver requires a dsn")
			return errors.New("dsn is required for the postgres driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", p.Driver)
	}

	if p.AIMaxContextChars < 0 {
		p.AIMaxContextChars = 0
	}
	return nil
}
