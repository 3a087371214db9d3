// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"time"

	ASNber "github.com/OlegPowerC/asn1modsnmp"
)

// snmpPacket is the outer SNMPv1/v2c message SEQUENCE.
// The PDU is kept raw: its context tag (0xA0..0xA5) is not a SEQUENCE tag,
// so it is marshalled and parsed in two steps.
type snmpPacket struct {
	Version   int
	Community []byte
	PDU       ASNber.RawValue
}

// snmpPacketPDU is the PDU body. For GetBulk ErrorStatusRaw carries
// non-repeaters and ErrorIndexRaw carries max-repetitions.
type snmpPacketPDU struct {
	RequestID      int32
	ErrorStatusRaw int32
	ErrorIndexRaw  int32
	VarBinds       []snmpPacketVarBind
}

type snmpPacketVarBind struct {
	RSnmpOID ASNber.ObjectIdentifier
	RSnmpVar ASNber.RawValue
}

// SNMPVar represents ASN.1/BER SNMP variable (VarBind value).
//
// **Exact mapping** from ASN.1 Tag byte: [Class:биты7-6][Constructed:бит5][Tag#:биты4-0]
// Contains raw Value bytes (NO auto-decoding) + metadata for type-safe processing.
//
// Fields:
//
//	ValueType  - Tag Number (0-31): INTEGER=2, OCTET STRING=4, OID=6, COUNTER32=1
//	ValueClass - Class (0-3):
//	             • 0=Universal (INTEGER/OCTET/OID/NULL)
//	             • 1=Application (COUNTER32/IPADDR/TIMETICKS)
//	             • 2=ContextSpecific (noSuchObject=0, noSuchInstance=1, endOfMibView=2)
//	IsCompound - Constructed flag: true=SEQUENCE/SET, false=primitive
//	Value      - **Raw BER content octets** (NO TLV wrapper). Empty content is nil.
//	             • INTEGER:     [0x01,0x2C] → 300
//	             • OCTET:       []byte("Cisco")
//	             • IPADDR:      [192,168,1,1]
//	             • OID:         [0x2B,0x06,0x01,0x02,0x01,0x01] → "1.3.6.1.2.1.1"
//
// Build values with the constructors (IntegerValue, OctetStringValue,
// Counter32Value, ...) and read them back with Int64, Uint64, OID or String.
//
// Exception markers (noSuchObject, noSuchInstance, endOfMibView) are values
// too: they are legal only inside SNMPv2c messages, which is checked when the
// message is built (BuildMessage), not here.
type SNMPVar struct {
	ValueType  int
	ValueClass int
	IsCompound bool
	Value      []byte
}

// VarBind is a single (OID, value) pair.
// Requests carry NullValue, responses carry the agent data or an exception.
type VarBind struct {
	OID   OID
	Value SNMPVar
}

// ChanDataWErr - streaming walk result: valid object OR terminal error.
//
// Fields:
//
//	Data      - SNMP object
//	ValidData - true when Data holds a walked object
//	Error     - nil for data items, non-nil on the last item of a failed walk
//
// Example:
//
//	ch := make(chan ChanDataWErr, 50)
//	go client.WalkStream(ctx, target, ifTableOID, ch)
//	for result := range ch {
//	    if result.Error != nil {
//	        log.Println(FormatErr(result.Error))
//	        break
//	    }
//	    fmt.Printf("%s = %s\n", result.Data.OID, result.Data.Value)
//	}
type ChanDataWErr struct {
	Data      VarBind
	ValidData bool
	Error     error
}

// Target describes one SNMP agent.
//
// Zero or out-of-range values are replaced by defaults (see normalize):
//
//	Port           - 161
//	Community      - "public"
//	Timeout        - 300ms (max 10s)
//	Retries        - 3 (max 10)
//	MaxRepetitions - 25 (max 80)
//	BreakerKey     - TargetKey(Address, Port, Community)
type Target struct {
	Address        string
	Port           int
	Community      string
	Version        Version
	Timeout        time.Duration
	Retries        int
	MaxRepetitions int
	BreakerKey     string
}

// normalize validates and fills defaults the same way for every operation.
func (t Target) normalize() (Target, error) {
	if t.Address == "" {
		return t, &ArgumentError{Field: "target.address", Reason: "empty address"}
	}
	if !t.Version.valid() {
		return t, &ArgumentError{Field: "target.version", Reason: "unsupported SNMP version " + t.Version.String()}
	}
	if t.Port <= 0 || t.Port > 65535 {
		t.Port = SNMP_DEFAULTPORT
	}
	if t.Community == "" {
		t.Community = SNMP_DEFAULTCOMMUNITY
	}
	if t.Retries <= 0 || t.Retries > SNMP_MAXIMUM_RETRY {
		t.Retries = SNMP_DEFAULTRETRY
	}
	if t.Timeout <= 0 || t.Timeout > SNMP_MAXTIMEOUT_MS*time.Millisecond {
		t.Timeout = SNMP_DEFAULTTIMEOUT_MS * time.Millisecond
	}
	if t.MaxRepetitions <= 0 || t.MaxRepetitions > SNMP_MAXREPETITION {
		t.MaxRepetitions = SNMP_DEFAULTREPETITION
	}
	if t.BreakerKey == "" {
		t.BreakerKey = TargetKey(t.Address, t.Port, t.Community)
	}
	return t, nil
}

// attemptBudget is the sum of the progressive attempt timeouts:
// Timeout·(1+2+...+Retries).
func (t Target) attemptBudget() time.Duration {
	return t.Timeout * time.Duration(t.Retries*(t.Retries+1)/2)
}
