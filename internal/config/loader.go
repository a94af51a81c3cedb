package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PORTFOLIO_"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. the unprefixed variables the site has always read (PORT, SMTP_*, TO_EMAIL)
//  3. a YAML file named by PORTFOLIO_CONFIG
//  4. PORTFOLIO_* environment variables
func Load() (*Config, error) {
	base := New()
	applyLegacyEnv(base)

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// PORTFOLIO_SMTP_HOST -> smtp_host
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyLegacyEnv(c *Config) {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		c.SMTPPort = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		c.SMTPPass = v
	}
	if v := os.Getenv("TO_EMAIL"); v != "" {
		c.ContactTo = v
	}
}
