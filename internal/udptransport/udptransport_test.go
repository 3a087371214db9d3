//go:build !integration

// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package udptransport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	PowerSNMP "github.com/OlegPowerC/powersnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// listen starts a UDP responder on loopback. handle returns the reply for
// a datagram, nil means stay silent.
func listen(t *testing.T, handle func([]byte) []byte) (string, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, PowerSNMP.SNMP_BUFFERSIZE)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if reply := handle(append([]byte(nil), buf[:n]...)); reply != nil {
				_, _ = conn.WriteToUDP(reply, from)
			}
		}
	}()
	addr := conn.LocalAddr().(*net.UDPAddr)
	return addr.IP.String(), addr.Port
}

// sysDescrAgent answers every GET with a fixed sysDescr.0.
func sysDescrAgent(t *testing.T) func([]byte) []byte {
	return func(req []byte) []byte {
		msg, err := PowerSNMP.Decode(req)
		if err != nil {
			t.Errorf("agent got malformed request: %v", err)
			return nil
		}
		vbs := msg.PDU.VarBinds()
		for i := range vbs {
			vbs[i].Value = PowerSNMP.StringValue("loopback agent")
		}
		resp, err := PowerSNMP.NewGetResponse(int(msg.PDU.RequestID()), PowerSNMP.NoError, 0, vbs...)
		if err != nil {
			t.Errorf("build response: %v", err)
			return nil
		}
		out, err := PowerSNMP.EncodeRequest(resp, msg.Community, msg.Version)
		if err != nil {
			t.Errorf("encode response: %v", err)
			return nil
		}
		return out
	}
}

func TestSendAndReceive(t *testing.T) {
	host, port := listen(t, func(b []byte) []byte { return append([]byte("re:"), b...) })
	tr := New(WithLogger(zaptest.NewLogger(t)))

	reply, err := tr.SendAndReceive(context.Background(), host, port, []byte("ping"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("re:ping"), reply)
}

func TestSendAndReceive_BufferSize(t *testing.T) {
	host, port := listen(t, func(b []byte) []byte { return []byte("0123456789") })
	tr := New(WithBufferSize(4))

	reply, err := tr.SendAndReceive(context.Background(), host, port, []byte("x"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), reply)
}

func TestSendAndReceive_Timeout(t *testing.T) {
	host, port := listen(t, func([]byte) []byte { return nil })
	tr := New()

	start := time.Now()
	_, err := tr.SendAndReceive(context.Background(), host, port, []byte("x"), 50*time.Millisecond)
	assert.ErrorIs(t, err, PowerSNMP.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)

	var nerr *PowerSNMP.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, PowerSNMP.AtomTimeout, nerr.Atom)
	assert.True(t, PowerSNMP.Recoverable(err))
}

func TestSendAndReceive_ContextDeadline(t *testing.T) {
	host, port := listen(t, func([]byte) []byte { return nil })
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New().SendAndReceive(ctx, host, port, []byte("x"), 5*time.Second)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, PowerSNMP.CategoryTimeout, PowerSNMP.ClassifyError(err, PowerSNMP.ClassifyContext{}))
}

func TestSendAndReceive_Cancel(t *testing.T) {
	host, port := listen(t, func([]byte) []byte { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, err := New().SendAndReceive(ctx, host, port, []byte("x"), 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSendAndReceive_ClosedPort(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())

	_, err = New().SendAndReceive(context.Background(), "127.0.0.1", port, []byte("x"), 200*time.Millisecond)
	// loopback usually reports ICMP port unreachable, some sandboxes drop it
	assert.True(t, errors.Is(err, PowerSNMP.ErrConnectionRefused) || errors.Is(err, PowerSNMP.ErrTimeout), "%v", err)
}

func TestSendAndReceive_BadAddress(t *testing.T) {
	_, err := New().SendAndReceive(context.Background(), "256.1.1.1", 161, []byte("x"), 100*time.Millisecond)
	var nerr *PowerSNMP.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, nerr.Op, "dial")
}

func TestClientOverUDP(t *testing.T) {
	host, port := listen(t, sysDescrAgent(t))
	client, err := PowerSNMP.NewClient(New(WithLogger(zaptest.NewLogger(t))))
	require.NoError(t, err)

	target := PowerSNMP.Target{Address: host, Port: port, Version: PowerSNMP.V2c, Community: "public", Timeout: time.Second}
	vbs, err := client.Get(context.Background(), target, PowerSNMP.MustParseOID("1.3.6.1.2.1.1.1.0"))
	require.NoError(t, err)
	require.Len(t, vbs, 1)
	assert.Equal(t, "loopback agent", vbs[0].Value.String())

	target.Version = PowerSNMP.V1
	value, err := client.GetValue(context.Background(), target, PowerSNMP.MustParseOID("1.3.6.1.2.1.1.1.0"))
	require.NoError(t, err)
	assert.Equal(t, "loopback agent", value.String())
}
