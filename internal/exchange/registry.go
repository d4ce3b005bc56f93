package exchange

import (
	"fmt"
	"strings"
)

// Priority is the fixed order exchanges are evaluated in; the aggregator
// depends on it for tie-breaking currency merges.
var Priority = []string{"xt", "bybit", "binance", "kucoin", "bitget"}

// Registry maps exchange identifiers to their adapter singletons. Unknown
// keys are rejected at the boundary with ErrUnknownExchange.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Registry{adapters: m}
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownExchange, name, strings.Join(Priority, ", "))
	}
	return a, nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.adapters))
	for _, name := range Priority {
		if _, ok := r.adapters[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
