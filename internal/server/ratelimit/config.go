package ratelimit

import (
	"time"

	"github.com/jonathan/candidate-enrichment/internal/config"
)

// EndpointConfig is the token bucket shape for one route.
type EndpointConfig struct {
	Route  string        // route pattern as registered on the server mux
	Limit  int           // requests per window; 0 means unlimited
	Window time.Duration // refill period for Limit tokens
	Burst  int           // defaults to Limit
}

// FromConfig converts the service rate limit settings, expressed per minute,
// into limiter buckets.
func FromConfig(rl config.RateLimitConfig) *Config {
	cfg := &Config{
		Enabled:         rl.Enabled,
		DefaultLimit:    rl.DefaultPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: time.Duration(rl.CleanupIntervalSeconds) * time.Second,
		Whitelist:       toSet(rl.Whitelist),
		Blacklist:       toSet(rl.Blacklist),
	}
	for _, e := range rl.Endpoints {
		cfg.EndpointConfigs = append(cfg.EndpointConfigs, EndpointConfig{
			Route:  e.Route,
			Limit:  e.PerMinute,
			Window: time.Minute,
			Burst:  e.Burst,
		})
	}
	return cfg
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
