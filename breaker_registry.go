// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"net"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// BreakerRegistry holds one CircuitBreaker per target key.
// Breakers are created on first use and live until Remove.
type BreakerRegistry struct {
	config BreakerConfig
	opts   []BreakerOption

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerRegistry creates an empty registry. cfg and opts apply to every
// breaker it creates.
func NewBreakerRegistry(cfg BreakerConfig, opts ...BreakerOption) *BreakerRegistry {
	return &BreakerRegistry{
		config:   cfg,
		opts:     opts,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for key, creating it if needed.
func (r *BreakerRegistry) Get(key string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[key]
	if !ok {
		cb = NewCircuitBreaker(key, r.config, r.opts...)
		r.breakers[key] = cb
	}
	return cb
}

// Lookup returns the breaker for key without creating one.
func (r *BreakerRegistry) Lookup(key string) (*CircuitBreaker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[key]
	return cb, ok
}

// Reset closes the breaker of key. Returns false if there is none.
func (r *BreakerRegistry) Reset(key string) bool {
	cb, ok := r.Lookup(key)
	if ok {
		cb.Reset()
	}
	return ok
}

// Remove drops the breaker of key; the next Get starts a fresh closed one.
func (r *BreakerRegistry) Remove(key string) bool {
	r.mu.Lock()
	cb, ok := r.breakers[key]
	delete(r.breakers, key)
	r.mu.Unlock()
	if ok {
		cb.metrics.forgetBreaker(key)
	}
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *BreakerRegistry) Keys() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.breakers))
	for k := range r.breakers {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	slices.Sort(keys)
	return keys
}

// TargetKey builds the default breaker key host:port:community.
// The community is replaced by its xxhash so keys can be logged and used
// as metric labels.
//
//	TargetKey("10.0.0.1", 161, "public") // "10.0.0.1:161:" + hex(xxhash("public"))
func TargetKey(host string, port int, community string) string {
	return net.JoinHostPort(host, strconv.Itoa(port)) + ":" + strconv.FormatUint(xxhash.Sum64String(community), 16)
}
