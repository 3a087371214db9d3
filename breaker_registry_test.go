//go:build !integration

// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerRegistry_Get(t *testing.T) {
	mock := clock.NewMock()
	reg := NewBreakerRegistry(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute}, WithClock(mock))

	a := reg.Get("a")
	assert.Same(t, a, reg.Get("a"))
	assert.NotSame(t, a, reg.Get("b"))
	assert.Equal(t, 1, a.Config().FailureThreshold)

	// breakers are independent
	require.Error(t, a.Execute(context.Background(), fail))
	assert.Equal(t, CircuitOpen, a.State())
	assert.Equal(t, CircuitClosed, reg.Get("b").State())

	// the registry clock reaches every breaker
	mock.Add(time.Minute)
	require.NoError(t, a.Execute(context.Background(), succeed))
	assert.Equal(t, CircuitClosed, a.State())
}

func TestBreakerRegistry_LookupResetRemove(t *testing.T) {
	reg := NewBreakerRegistry(BreakerConfig{FailureThreshold: 1}, WithClock(clock.NewMock()))

	_, ok := reg.Lookup("x")
	assert.False(t, ok)
	assert.False(t, reg.Reset("x"))
	assert.False(t, reg.Remove("x"))
	assert.Empty(t, reg.Keys())

	cb := reg.Get("x")
	require.Error(t, cb.Execute(context.Background(), fail))
	got, ok := reg.Lookup("x")
	require.True(t, ok)
	assert.Same(t, cb, got)

	assert.True(t, reg.Reset("x"))
	assert.Equal(t, CircuitClosed, cb.State())

	require.Error(t, cb.Execute(context.Background(), fail))
	assert.True(t, reg.Remove("x"))
	fresh := reg.Get("x")
	assert.NotSame(t, cb, fresh)
	assert.Equal(t, CircuitClosed, fresh.State())
}

func TestBreakerRegistry_Keys(t *testing.T) {
	reg := NewBreakerRegistry(BreakerConfig{})
	for _, k := range []string{"c", "a", "b"} {
		reg.Get(k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, reg.Keys())
}

func TestBreakerRegistry_RemoveForgetsMetrics(t *testing.T) {
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	reg := NewBreakerRegistry(BreakerConfig{FailureThreshold: 1}, WithClock(clock.NewMock()), WithBreakerMetrics(metrics))

	require.Error(t, reg.Get("a").Execute(context.Background(), fail))
	require.Error(t, reg.Get("b").Execute(context.Background(), fail))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.BreakerState))

	reg.Remove("a")
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.BreakerState))
}

func TestBreakerRegistry_Concurrent(t *testing.T) {
	reg := NewBreakerRegistry(BreakerConfig{})
	var wg sync.WaitGroup
	got := make([]*CircuitBreaker, 32)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = reg.Get("shared")
		}()
	}
	wg.Wait()
	for _, cb := range got {
		assert.Same(t, got[0], cb)
	}
	assert.Len(t, reg.Keys(), 1)
}

func TestTargetKey(t *testing.T) {
	k := TargetKey("10.0.0.1", 161, "public")
	assert.True(t, strings.HasPrefix(k, "10.0.0.1:161:"), k)
	assert.NotContains(t, k, "public")
	assert.Equal(t, k, TargetKey("10.0.0.1", 161, "public"))
	assert.NotEqual(t, k, TargetKey("10.0.0.1", 161, "private"))
	assert.NotEqual(t, k, TargetKey("10.0.0.1", 1161, "public"))

	assert.True(t, strings.HasPrefix(TargetKey("2001:db8::1", 161, "public"), "[2001:db8::1]:161:"))
}

func TestTarget_Normalize(t *testing.T) {
	got, err := Target{Address: "192.0.2.1", Version: V2c}.normalize()
	require.NoError(t, err)
	assert.Equal(t, SNMP_DEFAULTPORT, got.Port)
	assert.Equal(t, SNMP_DEFAULTCOMMUNITY, got.Community)
	assert.Equal(t, SNMP_DEFAULTRETRY, got.Retries)
	assert.Equal(t, SNMP_DEFAULTTIMEOUT_MS*time.Millisecond, got.Timeout)
	assert.Equal(t, SNMP_DEFAULTREPETITION, got.MaxRepetitions)
	assert.Equal(t, TargetKey("192.0.2.1", 161, "public"), got.BreakerKey)
	// 1x + 2x + 3x the attempt timeout
	assert.Equal(t, 6*SNMP_DEFAULTTIMEOUT_MS*time.Millisecond, got.attemptBudget())

	got, err = Target{
		Address: "192.0.2.1", Version: V1, Port: 1161, Community: "ro",
		Timeout: time.Minute, Retries: 99, MaxRepetitions: 500, BreakerKey: "edge",
	}.normalize()
	require.NoError(t, err)
	assert.Equal(t, 1161, got.Port)
	assert.Equal(t, "ro", got.Community)
	assert.Equal(t, SNMP_DEFAULTTIMEOUT_MS*time.Millisecond, got.Timeout)
	assert.Equal(t, SNMP_DEFAULTRETRY, got.Retries)
	assert.Equal(t, SNMP_DEFAULTREPETITION, got.MaxRepetitions)
	assert.Equal(t, "edge", got.BreakerKey)

	_, err = Target{Version: V2c}.normalize()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Target{Address: "192.0.2.1", Version: Version(3)}.normalize()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
