package config

import "time"

// Duration deserializes from YAML/JSON as a number of seconds.
type Duration int64

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// Seconds returns the raw second count.
func (d Duration) Seconds() int64 {
	return int64(d)
}
