package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DurationOrDefault parses a configured duration string such as a token
// lifetime. An empty string silently falls back to the default; a malformed
// one falls back too but logs a warning so misconfiguration is visible.
func DurationOrDefault(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration in config, using default")
		return fallback
	}
	return duration
}
