package aitime

import (
	"time"

	"github.com/hrygo/kinsync/internal/profile"
)

// Config controls the fallback behaviour of the Resolver.
type Config struct {
	// AIFallbackEnabled allows escalation of unresolved text to the external
	// resolver. It is on unless explicitly disabled.
	AIFallbackEnabled bool
	// Model is the external model identifier.
	Model string
	// MaxContextChars bounds the conversational context sent along with the
	// text. Zero sends no context.
	MaxContextChars int
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		AIFallbackEnabled: true,
		Model:             "gpt-4o-mini",
		MaxContextChars:   2000,
	}
}

// NewConfigFromProfile creates resolver config from profile.
func NewConfigFromProfile(p *profile.Profile) Config {
	cfg := DefaultConfig()
	if p == nil {
		return cfg
	}
	cfg.AIFallbackEnabled = p.AIFallbackEnabled
	if p.AIModel != "" {
		cfg.Model = p.AIModel
	}
	cfg.MaxContextChars = p.AIMaxContextChars
	return cfg
}

// NewOpenAIConfigFromProfile creates the external client config from profile.
func NewOpenAIConfigFromProfile(p *profile.Profile) OpenAIConfig {
	timeout := p.AITimeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return OpenAIConfig{
		APIKey:        p.AIAPIKey,
		BaseURL:       p.AIBaseURL,
		Model:         p.AIModel,
		RatePerMinute: p.AIRateLimitPerMinute,
		Timeout:       timeout,
	}
}
