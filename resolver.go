// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"
)

// Resolver translates symbolic object names to OIDs and back.
// Both methods return ErrNameNotFound (possibly wrapped) for unknown input.
type Resolver interface {
	Resolve(name string) (OID, error)
	ReverseLookup(oid OID) (string, error)
}

// StaticResolver resolves names from a fixed table.
//
// Names may carry an instance suffix: with "ifDescr" → 1.3.6.1.2.1.2.2.1.2
// registered, "ifDescr.3" resolves to 1.3.6.1.2.1.2.2.1.2.3 and the reverse
// lookup of that OID gives "ifDescr.3".
type StaticResolver struct {
	byName map[string]OID
	byOID  map[string]string
}

// NewStaticResolver copies names into a new resolver.
func NewStaticResolver(names map[string]OID) *StaticResolver {
	r := &StaticResolver{
		byName: make(map[string]OID, len(names)),
		byOID:  make(map[string]string, len(names)),
	}
	for name, oid := range names {
		r.byName[name] = oid.Clone()
		r.byOID[oid.String()] = name
	}
	return r
}

func (r *StaticResolver) Resolve(name string) (OID, error) {
	base, suffix, _ := strings.Cut(name, ".")
	oid, ok := r.byName[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	if suffix == "" {
		return oid.Clone(), nil
	}
	instance, err := ParseOID(suffix)
	if err != nil {
		return nil, fmt.Errorf("instance of %q: %w", base, err)
	}
	return oid.Append(instance...), nil
}

// ReverseLookup finds the longest registered prefix of oid.
func (r *StaticResolver) ReverseLookup(oid OID) (string, error) {
	for n := len(oid); n > 0; n-- {
		name, ok := r.byOID[oid[:n].String()]
		if !ok {
			continue
		}
		if n == len(oid) {
			return name, nil
		}
		return name + "." + oid[n:].String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNameNotFound, oid)
}

// CachingResolver memoizes successful lookups of another resolver in two
// LRU caches. Misses are not cached.
type CachingResolver struct {
	inner Resolver
	names *lru.Cache[string, OID]
	oids  *lru.Cache[string, string]
}

// NewCachingResolver wraps inner with caches of size entries each.
func NewCachingResolver(inner Resolver, size int) (*CachingResolver, error) {
	if inner == nil {
		return nil, &ArgumentError{Field: "resolver", Reason: "nil resolver"}
	}
	names, err := lru.New[string, OID](size)
	if err != nil {
		return nil, &ArgumentError{Field: "size", Reason: err.Error()}
	}
	oids, err := lru.New[string, string](size)
	if err != nil {
		return nil, &ArgumentError{Field: "size", Reason: err.Error()}
	}
	return &CachingResolver{inner: inner, names: names, oids: oids}, nil
}

func (r *CachingResolver) Resolve(name string) (OID, error) {
	if oid, ok := r.names.Get(name); ok {
		return oid.Clone(), nil
	}
	oid, err := r.inner.Resolve(name)
	if err != nil {
		return nil, err
	}
	r.names.Add(name, oid.Clone())
	return oid, nil
}

func (r *CachingResolver) ReverseLookup(oid OID) (string, error) {
	key := oid.String()
	if name, ok := r.oids.Get(key); ok {
		return name, nil
	}
	name, err := r.inner.ReverseLookup(oid)
	if err != nil {
		return "", err
	}
	r.oids.Add(key, name)
	return name, nil
}

// ResolveOIDs turns each argument into an OID. Dotted numeric input
// (".1.3.6.1" or "1.3.6.1") is parsed directly, anything else goes to r.
// All failures are reported together.
func ResolveOIDs(r Resolver, names ...string) ([]OID, error) {
	out := make([]OID, 0, len(names))
	var errs error
	for _, name := range names {
		if isNumericOID(name) {
			oid, err := Convert_OID_StringToIntArray_RAW(name)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out = append(out, oid)
			continue
		}
		if r == nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q (no resolver)", ErrNameNotFound, name))
			continue
		}
		oid, err := r.Resolve(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, oid)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func isNumericOID(s string) bool {
	s = strings.TrimPrefix(s, ".")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
