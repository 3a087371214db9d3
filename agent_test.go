//go:build !integration

// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"syscall"
	"time"
)

// fakeAgent answers requests from an in-memory MIB through the real codec.
type fakeAgent struct {
	community   string
	tooBigAbove int                            // GETBULK max-repetitions above this get tooBig
	respond     func(msg *Message) (PDU, error) // replaces the MIB logic when set

	mu       sync.Mutex
	mib      []VarBind
	requests []PDU
}

func newFakeAgent(community string, entries map[string]SNMPVar) *fakeAgent {
	a := &fakeAgent{community: community}
	for oid, v := range entries {
		a.mib = append(a.mib, VarBind{OID: MustParseOID(oid), Value: v})
	}
	slices.SortFunc(a.mib, func(x, y VarBind) int { return x.OID.Compare(y.OID) })
	return a
}

func (a *fakeAgent) SendAndReceive(_ context.Context, _ string, _ int, request []byte, _ time.Duration) ([]byte, error) {
	msg, err := Decode(request)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.requests = append(a.requests, msg.PDU)
	a.mu.Unlock()
	if string(msg.Community) != a.community {
		// agents drop requests with a wrong community
		return nil, NewNetworkError("read", ErrTimeout)
	}
	var resp PDU
	if a.respond != nil {
		resp, err = a.respond(msg)
	} else {
		resp, err = a.answer(msg)
	}
	if err != nil {
		return nil, err
	}
	return Encode(&Message{Version: msg.Version, Community: msg.Community, PDU: resp})
}

func (a *fakeAgent) Requests() []PDU {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.requests)
}

func (a *fakeAgent) find(oid OID) (int, bool) {
	return slices.BinarySearchFunc(a.mib, oid, func(vb VarBind, target OID) int {
		return vb.OID.Compare(target)
	})
}

func (a *fakeAgent) next(oid OID) (VarBind, bool) {
	i, found := a.find(oid)
	if found {
		i++
	}
	if i >= len(a.mib) {
		return VarBind{}, false
	}
	return a.mib[i], true
}

func (a *fakeAgent) answer(msg *Message) (PDU, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := int(msg.PDU.RequestID())
	req := msg.PDU.VarBinds()
	var out []VarBind
	switch p := msg.PDU.(type) {
	case *GetRequest:
		for i, vb := range req {
			idx, ok := a.find(vb.OID)
			switch {
			case ok:
				out = append(out, a.mib[idx])
			case msg.Version == V1:
				return NewGetResponse(id, NoSuchName, i+1, req...)
			default:
				out = append(out, VarBind{OID: vb.OID, Value: NoSuchObjectValue()})
			}
		}
	case *GetNextRequest:
		for i, vb := range req {
			nvb, ok := a.next(vb.OID)
			switch {
			case ok:
				out = append(out, nvb)
			case msg.Version == V1:
				return NewGetResponse(id, NoSuchName, i+1, req...)
			default:
				out = append(out, VarBind{OID: vb.OID, Value: EndOfMibViewValue()})
			}
		}
	case *GetBulkRequest:
		if a.tooBigAbove > 0 && p.MaxRepetitions() > a.tooBigAbove {
			return NewGetResponse(id, TooBig, 0)
		}
		for _, vb := range req[:p.NonRepeaters()] {
			if nvb, ok := a.next(vb.OID); ok {
				out = append(out, nvb)
			} else {
				out = append(out, VarBind{OID: vb.OID, Value: EndOfMibViewValue()})
			}
		}
		cursor := make([]OID, 0, len(req)-p.NonRepeaters())
		for _, vb := range req[p.NonRepeaters():] {
			cursor = append(cursor, vb.OID)
		}
		for r := 0; r < p.MaxRepetitions() && len(cursor) > 0; r++ {
			ended := 0
			for j, oid := range cursor {
				nvb, ok := a.next(oid)
				if !ok {
					out = append(out, VarBind{OID: oid, Value: EndOfMibViewValue()})
					ended++
					continue
				}
				out = append(out, nvb)
				cursor[j] = nvb.OID
			}
			if ended == len(cursor) {
				break
			}
		}
	case *SetRequest:
		for i, vb := range req {
			if _, ok := a.find(vb.OID); !ok {
				status := NotWritable
				if msg.Version == V1 {
					status = NoSuchName
				}
				return NewGetResponse(id, status, i+1, req...)
			}
		}
		for _, vb := range req {
			idx, _ := a.find(vb.OID)
			a.mib[idx].Value = vb.Value
		}
		out = req
	default:
		return nil, fmt.Errorf("fake agent cannot answer %s", p.Type())
	}
	return NewGetResponse(id, NoError, 0, out...)
}

// agentNetwork routes requests by address; unknown hosts are unreachable.
type agentNetwork map[string]Transport

func (n agentNetwork) SendAndReceive(ctx context.Context, address string, port int, request []byte, timeout time.Duration) ([]byte, error) {
	t, ok := n[address]
	if !ok {
		return nil, NewNetworkError("send", syscall.EHOSTUNREACH)
	}
	return t.SendAndReceive(ctx, address, port, request, timeout)
}

const (
	oidSysDescr = "1.3.6.1.2.1.1.1.0"
	oidSysName  = "1.3.6.1.2.1.1.5.0"
	oidIfTable  = "1.3.6.1.2.1.2.2"
)

// testMIB is system plus a three-row ifTable (ifIndex, ifDescr, ifSpeed)
// and one ifXTable cell after it.
func testMIB() map[string]SNMPVar {
	mib := map[string]SNMPVar{
		oidSysDescr:                StringValue("PowerSNMP test agent"),
		"1.3.6.1.2.1.1.3.0":        TimeTicksValue(123456),
		oidSysName:                 StringValue("core-sw1"),
		"1.3.6.1.2.1.31.1.1.1.1.1": StringValue("eth1"),
	}
	for _, idx := range []int{1, 2, 10} {
		mib[fmt.Sprintf("%s.1.1.%d", oidIfTable, idx)] = IntegerValue(int64(idx))
		mib[fmt.Sprintf("%s.1.2.%d", oidIfTable, idx)] = StringValue(fmt.Sprintf("eth%d", idx))
		mib[fmt.Sprintf("%s.1.5.%d", oidIfTable, idx)] = Gauge32Value(1000000000)
	}
	return mib
}

func testTarget(version Version) Target {
	return Target{
		Address:   "192.0.2.1",
		Community: "public",
		Version:   version,
		Timeout:   100 * time.Millisecond,
		Retries:   3,
	}
}
