package ratelimit

import "time"

// routeTable indexes endpoint limits by route pattern.
type routeTable map[string]EndpointConfig

func newRouteTable(configs []EndpointConfig) routeTable {
	t := make(routeTable, len(configs))
	for _, c := range configs {
		t[c.Route] = c
	}
	return t
}

// match returns the limit for route, falling back to the default limit for
// routes without an entry. Unmatched requests (route "") share the default
// bucket.
func (t routeTable) match(route string, defaultLimit int, defaultWindow time.Duration) EndpointConfig {
	if c, ok := t[route]; ok {
		return c
	}
	return EndpointConfig{
		Route:  route,
		Limit:  defaultLimit,
		Window: defaultWindow,
		Burst:  defaultLimit,
	}
}
