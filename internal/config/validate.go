package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var supportedLanguages = []string{"pt", "en", "es", "fr"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in 4..31 (got %d)", c.Auth.BcryptCost)
	}

	if !slices.Contains(supportedLanguages, c.Dictionary.DefaultLanguage) {
		return fmt.Errorf("dictionary.default_language %q is not one of %s",
			c.Dictionary.DefaultLanguage, strings.Join(supportedLanguages, ", "))
	}

	if c.Dictionary.HistoryRetentionDays <= 0 {
		return fmt.Errorf("dictionary.history_retention_days must be > 0 (got %d)", c.Dictionary.HistoryRetentionDays)
	}

	if err := c.Source.validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if c.TTS.Timeout <= 0 {
		return fmt.Errorf("tts.timeout must be > 0 (got %v)", c.TTS.Timeout)
	}

	if c.RateLimit.SearchPerMinute <= 0 || c.RateLimit.AuthPerMinute <= 0 {
		return fmt.Errorf("rate_limit values must be > 0")
	}

	return nil
}

func (s *SourceConfig) validate() error {
	for name, raw := range map[string]string{"base_url": s.BaseURL, "search_url": s.SearchURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q must be an absolute URL", name, raw)
		}
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")

	if s.SearchDomain == "" {
		return fmt.Errorf("search_domain is required")
	}
	if s.FetchTimeout <= 0 || s.SearchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}
	if s.FailureThreshold <= 0 {
		return fmt.Errorf("failure_threshold must be > 0 (got %d)", s.FailureThreshold)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0 (got %d)", s.MaxBodyBytes)
	}
	return nil
}
