// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// WalkOption tunes a single walk.
type WalkOption func(*walkConfig)

type walkConfig struct {
	maxRepetitions int
	adaptive       bool
	partial        bool
	maxRows        int
	strictTable    bool
}

func newWalkConfig(opts []WalkOption) walkConfig {
	var cfg walkConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPartialResults returns the rows collected before a failure together
// with the error instead of discarding them.
func WithPartialResults() WalkOption {
	return func(c *walkConfig) { c.partial = true }
}

// WithMaxRepetitions overrides Target.MaxRepetitions for GETBULK walks.
// Values outside [1, 80] are ignored.
func WithMaxRepetitions(n int) WalkOption {
	return func(c *walkConfig) {
		if n > 0 && n <= SNMP_MAXREPETITION {
			c.maxRepetitions = n
		}
	}
}

// WithAdaptiveRepetitions halves max-repetitions when the agent answers
// tooBig and doubles it back (up to the configured value) after replies
// faster than SNMP_ADAPTIVEFASTRESPONSE.
func WithAdaptiveRepetitions() WalkOption {
	return func(c *walkConfig) { c.adaptive = true }
}

// WithMaxRows stops the walk successfully after n varbinds.
func WithMaxRows(n int) WalkOption {
	return func(c *walkConfig) {
		if n > 0 {
			c.maxRows = n
		}
	}
}

// WithStrictTable makes WalkTable fail with ErrTableBoundary on OIDs that
// are not cells of the table instead of skipping them.
func WithStrictTable() WalkOption {
	return func(c *walkConfig) { c.strictTable = true }
}

// Walk retrieves every instance below root.
//
// SNMPv2c targets are walked with GETBULK (non-repeaters 0), SNMPv1 targets
// with GETNEXT. The walk ends successfully when the agent returns an OID
// outside root, an exception value (endOfMibView, noSuchObject,
// noSuchInstance) or, for v1, noSuchName. Rows come back in agent order,
// each strictly greater than the previous one; otherwise the walk fails
// with ErrOIDNotIncreasing.
//
// On error the collected rows are dropped unless WithPartialResults is set.
//
// Example:
//
//	rows, err := client.Walk(ctx, target, MustParseOID("1.3.6.1.2.1.2.2.1.2"))
//	for _, vb := range rows {
//	    fmt.Println(vb.OID, vb.Value)
//	}
func (c *Client) Walk(ctx context.Context, target Target, root OID, opts ...WalkOption) ([]VarBind, error) {
	cfg := newWalkConfig(opts)
	var out []VarBind
	err := c.walk(ctx, target, root, cfg, func(vb VarBind) error {
		out = append(out, vb)
		return nil
	})
	if err != nil {
		if cfg.partial {
			return out, err
		}
		return nil, err
	}
	return out, nil
}

// WalkStream is Walk delivering rows through ch.
//
// Every row is sent with ValidData set. A failure is sent as a final
// element carrying Error. ch is closed when the walk ends. Stopping early is
// done by cancelling ctx.
//
// Example:
//
//	ch := make(chan ChanDataWErr, 64)
//	go client.WalkStream(ctx, target, root, ch)
//	for item := range ch {
//	    if item.Error != nil {
//	        log.Println(item.Error)
//	        break
//	    }
//	    fmt.Println(item.Data.OID, item.Data.Value)
//	}
func (c *Client) WalkStream(ctx context.Context, target Target, root OID, ch chan<- ChanDataWErr, opts ...WalkOption) {
	defer close(ch)
	cfg := newWalkConfig(opts)
	err := c.walk(ctx, target, root, cfg, func(vb VarBind) error {
		select {
		case ch <- ChanDataWErr{Data: vb, ValidData: true}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err == nil {
		return
	}
	select {
	case ch <- ChanDataWErr{Error: err}:
	case <-ctx.Done():
	}
}

// errStopWalk ends a walk early from the emit callback without an error.
var errStopWalk = errors.New("stop walk")

// walk drives the GETNEXT/GETBULK loop and hands every in-subtree row to emit.
// All state lives in this call, so concurrent walks never interfere.
func (c *Client) walk(ctx context.Context, target Target, root OID, cfg walkConfig, emit func(VarBind) error) (err error) {
	t, err := target.normalize()
	if err != nil {
		return err
	}
	if err := root.validateWire(); err != nil {
		return err
	}

	strategy := "getnext"
	if t.Version == V2c {
		strategy = "getbulk"
	}
	configured := t.MaxRepetitions
	if cfg.maxRepetitions > 0 {
		configured = cfg.maxRepetitions
	}
	maxRep := configured
	rows, requests := 0, 0
	log := c.logger.With(zap.String("target", t.Address), zap.Stringer("root", root))

	defer func() {
		result := "ok"
		if err != nil {
			result = string(ClassifyError(err, ClassifyContext{PDUType: PDUGetNextRequest, Version: t.Version}))
		}
		c.metrics.observeWalk(strategy, result, rows)
		log.Debug("walk finished",
			zap.String("strategy", strategy),
			zap.Int("varbinds", rows),
			zap.Int("requests", requests),
			zap.Error(err))
	}()

	last := root.Clone()
	for step := 0; step < SNMP_MAXIMUMWALK; step++ {
		var vbs []VarBind
		start := c.clock.Now()
		requests++
		if t.Version == V2c {
			vbs, err = c.GetBulk(ctx, t, 0, maxRep, last)
			if cfg.adaptive && maxRep > 1 && errors.Is(err, ErrTooBig) {
				maxRep = max(1, maxRep/2)
				log.Debug("agent answered tooBig, reducing max-repetitions", zap.Int("max_repetitions", maxRep))
				continue
			}
		} else {
			vbs, err = c.GetNext(ctx, t, last)
			if IsEndOfView(err, ClassifyContext{PDUType: PDUGetNextRequest, Version: V1}) {
				return nil
			}
		}
		if err != nil {
			return err
		}
		if len(vbs) == 0 {
			return nil
		}
		for _, vb := range vbs {
			if vb.Value.IsException() || !vb.OID.HasPrefix(root) {
				return nil
			}
			if vb.OID.Compare(last) <= 0 {
				return fmt.Errorf("%w: %s after %s", ErrOIDNotIncreasing, vb.OID, last)
			}
			if err := emit(vb); err != nil {
				if errors.Is(err, errStopWalk) {
					return nil
				}
				return err
			}
			last = vb.OID
			rows++
			if cfg.maxRows > 0 && rows >= cfg.maxRows {
				return nil
			}
		}
		if cfg.adaptive && maxRep < configured && c.clock.Since(start) < SNMP_ADAPTIVEFASTRESPONSE {
			maxRep = min(configured, maxRep*2)
		}
	}
	return fmt.Errorf("%w: %d requests", ErrWalkLimit, SNMP_MAXIMUMWALK)
}
