package auth

import "time"

// DefaultAttemptPrefix is the Redis key prefix for failed-attempt counters.
const DefaultAttemptPrefix = "vis:auth:attempts:"

// Config controls token validation for the authorize action.
// Secret: shared HS256 key for both user and device tokens.
type Config struct {
	Secret        string
	TTL           time.Duration
	ClockSkew     time.Duration
	MaxAttempts   int
	AttemptWindow time.Duration
	AttemptPrefix string
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.ClockSkew < 0 {
		c.ClockSkew = 0
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = 15 * time.Minute
	}
	if c.AttemptPrefix == "" {
		c.AttemptPrefix = DefaultAttemptPrefix
	}
}
