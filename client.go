// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock_transport_test.go -package=PowerSNMP . Transport

// Transport moves one request datagram to the agent and returns the reply.
//
// Implementations own the socket: they must give up after timeout (or when
// ctx is done) and report failures as *NetworkError (see NewNetworkError) so
// the client can tell timeouts from unreachable hosts.
// internal/udptransport is the reference UDP implementation.
type Transport interface {
	SendAndReceive(ctx context.Context, address string, port int, request []byte, timeout time.Duration) ([]byte, error)
}

// Client issues SNMPv1/v2c requests through a Transport.
//
// A Client is safe for concurrent use. Each request gets its own request-id,
// walks keep all their state on the stack, so independent operations run
// fully in parallel; per-target failures are isolated by circuit breakers.
type Client struct {
	transport Transport
	logger    *zap.Logger
	metrics   *Metrics
	clock     clock.Clock
	breakers  *BreakerRegistry
	breakerCf BreakerConfig
	noBreaker bool

	requestID atomic.Int32
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithClientClock sets the clock used for latency measurement and for the
// breakers the client creates.
func WithClientClock(cl clock.Clock) ClientOption {
	return func(c *Client) {
		if cl != nil {
			c.clock = cl
		}
	}
}

// WithBreakerRegistry shares a registry between clients.
func WithBreakerRegistry(r *BreakerRegistry) ClientOption {
	return func(c *Client) { c.breakers = r }
}

// WithBreakerConfig sets the configuration of breakers the client creates.
func WithBreakerConfig(cfg BreakerConfig) ClientOption {
	return func(c *Client) { c.breakerCf = cfg }
}

// WithoutBreaker sends every request directly.
func WithoutBreaker() ClientOption {
	return func(c *Client) { c.noBreaker = true }
}

// NewClient creates a client. The transport is required.
func NewClient(transport Transport, opts ...ClientOption) (*Client, error) {
	if transport == nil {
		return nil, &ArgumentError{Field: "transport", Reason: "nil transport"}
	}
	c := &Client{
		transport: transport,
		logger:    zap.NewNop(),
		clock:     clock.New(),
		breakerCf: DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breakers == nil && !c.noBreaker {
		c.breakers = NewBreakerRegistry(c.breakerCf,
			WithClock(c.clock),
			WithBreakerLogger(c.logger),
			WithBreakerMetrics(c.metrics))
	}
	c.requestID.Store(rand.Int32N(1 << 30))
	return c, nil
}

// Breakers returns the registry used by the client (nil with WithoutBreaker).
func (c *Client) Breakers() *BreakerRegistry {
	if c.noBreaker {
		return nil
	}
	return c.breakers
}

// nextRequestID returns a positive request-id; the counter wraps at 2^31.
func (c *Client) nextRequestID() int {
	for {
		id := c.requestID.Add(1) & SNMP_MAXREQUESTID
		if id != 0 {
			return int(id)
		}
	}
}

// Get performs SNMP GET for the OIDs.
//
// Returns the response varbinds in request order. Missing objects come back
// as noSuchObject/noSuchInstance values (v2c) or as *SNMPError with status
// noSuchName (v1).
//
// Example:
//
//	vbs, err := client.Get(ctx, target, MustParseOID("1.3.6.1.2.1.1.1.0"))
//	if err != nil {
//	    log.Println(FormatErr(err))
//	    return
//	}
//	fmt.Printf("sysDescr = %s\n", vbs[0].Value)
func (c *Client) Get(ctx context.Context, target Target, oids ...OID) ([]VarBind, error) {
	pdu, err := NewGetRequest(c.nextRequestID(), oids...)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, target, pdu)
}

// GetValue fetches one object and turns exception values into errors
// (ErrNoSuchObject, ErrNoSuchInstance, ErrEndOfMibView).
func (c *Client) GetValue(ctx context.Context, target Target, oid OID) (SNMPVar, error) {
	vbs, err := c.Get(ctx, target, oid)
	if err != nil {
		return SNMPVar{}, err
	}
	if len(vbs) != 1 {
		return SNMPVar{}, fmt.Errorf("%w: %d varbinds for a single GET", ErrUnexpectedPDU, len(vbs))
	}
	if k := vbs[0].Value.Exception(); k != NoException {
		return SNMPVar{}, fmt.Errorf("%w: %s", k.Err(), vbs[0].OID)
	}
	return vbs[0].Value, nil
}

// GetNext performs SNMP GETNEXT for the OIDs.
func (c *Client) GetNext(ctx context.Context, target Target, oids ...OID) ([]VarBind, error) {
	pdu, err := NewGetNextRequest(c.nextRequestID(), oids...)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, target, pdu)
}

// GetBulk performs SNMPv2c GETBULK. Fails with ErrVersionViolation for v1 targets.
func (c *Client) GetBulk(ctx context.Context, target Target, nonRepeaters, maxRepetitions int, oids ...OID) ([]VarBind, error) {
	pdu, err := NewGetBulkRequest(c.nextRequestID(), nonRepeaters, maxRepetitions, oids...)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, target, pdu)
}

// Set performs SNMP SET and returns the agent's echo of the varbinds.
//
// Example:
//
//	_, err := client.Set(ctx, target, VarBind{OID: sysContactOID, Value: StringValue("noc@example.net")})
//	if errors.Is(err, ErrNotWritable) { ... }
func (c *Client) Set(ctx context.Context, target Target, varBinds ...VarBind) ([]VarBind, error) {
	pdu, err := NewSetRequest(c.nextRequestID(), varBinds...)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, target, pdu)
}

func (c *Client) request(ctx context.Context, target Target, pdu PDU) ([]VarBind, error) {
	resp, err := c.Exchange(ctx, target, pdu)
	if err != nil {
		return nil, err
	}
	return resp.varBinds, nil
}

// Exchange sends a prebuilt PDU and returns the matching response.
//
// Steps: target defaults → BuildMessage (version rules) → Encode → breaker →
// transport with retries → Decode → request-id/community match → error-status.
// Validation and encoding errors return before any I/O. A non-zero
// error-status is returned as *SNMPError. The breaker bounds the exchange by
// the larger of CallTimeout and the sum of all attempt timeouts.
func (c *Client) Exchange(ctx context.Context, target Target, pdu PDU) (*GetResponse, error) {
	t, err := target.normalize()
	if err != nil {
		return nil, err
	}
	request, err := EncodeRequest(pdu, []byte(t.Community), t.Version)
	if err != nil {
		return nil, err
	}
	cctx := ClassifyContext{PDUType: pdu.Type(), Version: t.Version}
	isFailure := func(err error) bool {
		return BreakerRelevant(ClassifyError(err, cctx))
	}
	op := func(ctx context.Context) (*GetResponse, error) {
		return c.sendWithRetries(ctx, t, pdu, request)
	}

	start := c.clock.Now()
	var resp *GetResponse
	if c.noBreaker || c.breakers == nil {
		resp, err = op(ctx)
		if err == nil {
			err = c.statusError(pdu, resp)
		}
	} else {
		// the error-status check runs inside the guarded call so agent
		// rejections reach the breaker; the call may last as long as all
		// attempts together
		cb := c.breakers.Get(t.BreakerKey)
		timeout := max(cb.Config().CallTimeout, t.attemptBudget())
		resp, err = callWith(ctx, cb, timeout, isFailure, func(ctx context.Context) (*GetResponse, error) {
			r, err := op(ctx)
			if err != nil {
				return nil, err
			}
			if serr := c.statusError(pdu, r); serr != nil {
				return nil, serr
			}
			return r, nil
		})
	}
	c.metrics.observeRequest(pdu.Type(), resultLabel(err, cctx), c.clock.Since(start).Seconds())
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("target", t.Address),
			zap.Stringer("pdu", pdu.Type()),
			zap.Int32("request_id", pdu.RequestID()),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func resultLabel(err error, cctx ClassifyContext) string {
	if err == nil {
		return "ok"
	}
	return string(ClassifyError(err, cctx))
}

// sendWithRetries repeats the same datagram on recoverable transport
// errors. Attempt n waits n×Timeout (1x, 2x, ...). Replies with another request-id
// are stray datagrams and do not end the attempt series.
func (c *Client) sendWithRetries(ctx context.Context, t Target, pdu PDU, request []byte) (*GetResponse, error) {
	var lastErr error
	for attempt := 0; attempt < t.Retries; attempt++ {
		if err := ctxDone(ctx); err != nil {
			return nil, err
		}
		if attempt > 0 {
			c.metrics.retry()
			c.logger.Debug("retrying request",
				zap.String("target", t.Address),
				zap.Int32("request_id", pdu.RequestID()),
				zap.Int("attempt", attempt+1),
				zap.NamedError("last_error", lastErr))
		}
		timeout := t.Timeout * time.Duration(attempt+1)
		raw, err := c.transport.SendAndReceive(ctx, t.Address, t.Port, request, timeout)
		if err != nil {
			if ctxErr := ctxDone(ctx); ctxErr != nil {
				return nil, ctxErr
			}
			var nerr *NetworkError
			if !errors.As(err, &nerr) {
				err = NewNetworkError("send "+pdu.Type().String(), err)
			}
			lastErr = err
			if Recoverable(err) {
				continue
			}
			return nil, err
		}
		resp, err := c.matchResponse(raw, pdu, t)
		if errors.Is(err, ErrRequestIDMismatch) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
	return nil, lastErr
}

// matchResponse decodes raw and checks it answers pdu.
func (c *Client) matchResponse(raw []byte, pdu PDU, t Target) (*GetResponse, error) {
	msg, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	resp, ok := msg.PDU.(*GetResponse)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrUnexpectedPDU, msg.PDU.Type())
	}
	if resp.RequestID() != pdu.RequestID() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRequestIDMismatch, resp.RequestID(), pdu.RequestID())
	}
	if msg.Version != t.Version {
		return nil, fmt.Errorf("%w: response version %s, request version %s", ErrUnexpectedPDU, msg.Version, t.Version)
	}
	if !bytes.Equal(msg.Community, []byte(t.Community)) {
		return nil, ErrAuthentication
	}
	return resp, nil
}

// statusError converts a non-zero error-status into *SNMPError.
// The failing OID is taken from the response, or from the request when the
// agent sent fewer varbinds back.
func (c *Client) statusError(pdu PDU, resp *GetResponse) error {
	if resp.errorStatus == NoError {
		return nil
	}
	serr := &SNMPError{Status: resp.errorStatus, Index: resp.errorIndex, RequestType: pdu.Type()}
	if i := resp.errorIndex - 1; i >= 0 {
		switch req := pduVarBinds(pdu); {
		case i < len(resp.varBinds):
			serr.OID = resp.varBinds[i].OID.Clone()
		case i < len(req):
			serr.OID = req[i].OID.Clone()
		}
	}
	return serr
}
