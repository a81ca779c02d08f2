package config

import (
	"fmt"
	"time"
)

// JWTConfig configures verification of staff access tokens (HS256, shared secret).
type JWTConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`

	ClockSkew time.Duration `yaml:"clock_skew"`
}

func (c JWTConfig) validate() error {
	if c.Secret == "" || c.Issuer == "" || c.Audience == "" {
		return fmt.Errorf("AUTH_MODE=jwt requires JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE")
	}
	if len(c.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("JWT_CLOCK_SKEW must not be negative")
	}
	return nil
}
