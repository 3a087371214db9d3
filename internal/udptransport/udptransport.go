// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)

// Package udptransport sends SNMP datagrams over UDP.
package udptransport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	PowerSNMP "github.com/OlegPowerC/powersnmp"
	"go.uber.org/zap"
)

// Transport implements PowerSNMP.Transport with one connected UDP socket per
// exchange. A connected socket only accepts datagrams from the agent's
// address and surfaces ICMP port unreachable as ECONNREFUSED.
type Transport struct {
	logger     *zap.Logger
	bufferSize int
	dialer     net.Dialer
}

type Option func(*Transport)

func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithBufferSize sets the receive buffer; replies longer than n are truncated.
func WithBufferSize(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.bufferSize = n
		}
	}
}

// WithLocalAddr binds outgoing sockets to addr (source interface selection).
func WithLocalAddr(addr *net.UDPAddr) Option {
	return func(t *Transport) { t.dialer.LocalAddr = addr }
}

func New(opts ...Option) *Transport {
	t := &Transport{
		logger:     zap.NewNop(),
		bufferSize: PowerSNMP.SNMP_BUFFERSIZE,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SendAndReceive writes request and waits up to timeout for one datagram.
// Errors are *PowerSNMP.NetworkError; a deadline gives the timeout atom.
func (t *Transport) SendAndReceive(ctx context.Context, address string, port int, request []byte, timeout time.Duration) (reply []byte, err error) {
	dialAddress := net.JoinHostPort(address, strconv.Itoa(port))
	dialer := t.dialer
	dialer.Timeout = timeout
	conn, err := dialer.DialContext(ctx, "udp", dialAddress)
	if err != nil {
		return nil, PowerSNMP.NewNetworkError("dial "+dialAddress, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = PowerSNMP.NewNetworkError("close "+dialAddress, cerr)
		}
	}()
	// unblock Read when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, PowerSNMP.NewNetworkError("set deadline", err)
	}

	n, err := conn.Write(request)
	if err != nil {
		return nil, PowerSNMP.NewNetworkError("write "+dialAddress, err)
	}
	if n != len(request) {
		return nil, PowerSNMP.NewNetworkError("write "+dialAddress, fmt.Errorf("short write: %d of %d bytes", n, len(request)))
	}

	buf := make([]byte, t.bufferSize)
	n, err = conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, PowerSNMP.NewNetworkError("read "+dialAddress, err)
	}
	t.logger.Debug("datagram exchanged",
		zap.String("agent", dialAddress),
		zap.Int("sent", len(request)),
		zap.Int("received", n))
	return buf[:n], nil
}
