// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"encoding/hex"
	"fmt"
	"net"
	"time"

	ASNber "github.com/OlegPowerC/asn1modsnmp"
)

// ExceptionKind identifies an SNMPv2c exception marker (RFC3416 §3).
type ExceptionKind int

const (
	NoException             ExceptionKind = -1
	ExceptionNoSuchObject   ExceptionKind = tagERR_noSuchObject
	ExceptionNoSuchInstance ExceptionKind = tagERR_noSuchInstance
	ExceptionEndOfMibView   ExceptionKind = tagERR_EndOfMib
)

func (k ExceptionKind) String() string {
	switch k {
	case ExceptionNoSuchObject:
		return "noSuchObject"
	case ExceptionNoSuchInstance:
		return "noSuchInstance"
	case ExceptionEndOfMibView:
		return "endOfMibView"
	}
	return "none"
}

// Atom returns the error atom of the exception (no_such_object, ...).
func (k ExceptionKind) Atom() ErrorAtom {
	switch k {
	case ExceptionNoSuchObject:
		return AtomNoSuchObject
	case ExceptionNoSuchInstance:
		return AtomNoSuchInstance
	case ExceptionEndOfMibView:
		return AtomEndOfMibView
	}
	return AtomNoError
}

// Err returns the sentinel matching the exception, nil for NoException.
func (k ExceptionKind) Err() error {
	switch k {
	case ExceptionNoSuchObject:
		return ErrNoSuchObject
	case ExceptionNoSuchInstance:
		return ErrNoSuchInstance
	case ExceptionEndOfMibView:
		return ErrEndOfMibView
	}
	return nil
}

// bytesOrNil copies b, returning nil for empty content so that decoded and
// constructed values compare equal.
func bytesOrNil(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// encodeSignedContent returns minimal two's complement content octets (X.690 §8.3).
func encodeSignedContent(v int64) []byte {
	n := 1
	for i := v; i > 127 || i < -128; i >>= 8 {
		n++
	}
	out := make([]byte, n)
	for j := n - 1; j >= 0; j-- {
		out[j] = byte(v)
		v >>= 8
	}
	return out
}

// encodeUnsignedContent strips leading zero octets and prepends 0x00
// when the high bit is set, so the value is not read back as negative.
func encodeUnsignedContent(v uint64) []byte {
	var buf [9]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte(v)
		v >>= 8
		if v == 0 {
			break
		}
	}
	if buf[i]&0x80 != 0 {
		i--
		buf[i] = 0
	}
	return bytesOrNil(buf[i:])
}

// NullValue is the placeholder value of GET/GETNEXT/GETBULK varbinds.
func NullValue() SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassUniversal, ValueType: ASNber.TagNull}
}

// IntegerValue creates INTEGER (Integer32) value.
func IntegerValue(v int64) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassUniversal, ValueType: ASNber.TagInteger, Value: encodeSignedContent(v)}
}

// OctetStringValue creates OCTET STRING value. The slice is copied.
func OctetStringValue(b []byte) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassUniversal, ValueType: ASNber.TagOctetString, Value: bytesOrNil(b)}
}

// StringValue creates OCTET STRING value from text (sysName.0, ifAlias).
func StringValue(s string) SNMPVar {
	return OctetStringValue([]byte(s))
}

// ObjectIdentifierValue creates OBJECT IDENTIFIER value (sysObjectID style).
func ObjectIdentifierValue(oid OID) (SNMPVar, error) {
	if err := oid.validateWire(); err != nil {
		return SNMPVar{}, err
	}
	full, err := ASNber.Marshal(ASNber.ObjectIdentifier(oid))
	if err != nil {
		return SNMPVar{}, err
	}
	content, err := ASNber.ExtractDataWOTagAndLen(full)
	if err != nil {
		return SNMPVar{}, err
	}
	return SNMPVar{ValueClass: ASNber.ClassUniversal, ValueType: ASNber.TagOID, Value: bytesOrNil(content)}, nil
}

// IPAddressValue creates IpAddress value. Only IPv4 fits the SMIv2 type.
func IPAddressValue(ip net.IP) (SNMPVar, error) {
	v4 := ip.To4()
	if v4 == nil {
		return SNMPVar{}, &ArgumentError{Field: "ip", Reason: "cannot convert IP to 4x bytes"}
	}
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_IPADDR, Value: bytesOrNil(v4)}, nil
}

func Counter32Value(v uint32) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_COUNTER32, Value: encodeUnsignedContent(uint64(v))}
}

func Gauge32Value(v uint32) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_GAUGE32, Value: encodeUnsignedContent(uint64(v))}
}

// TimeTicksValue takes hundredths of a second.
func TimeTicksValue(v uint32) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_TIMETICKS, Value: encodeUnsignedContent(uint64(v))}
}

func Counter64Value(v uint64) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_COUNTER64, Value: encodeUnsignedContent(v)}
}

func OpaqueValue(b []byte) SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassApplication, ValueType: SNMP_type_OPAQUE, Value: bytesOrNil(b)}
}

func NoSuchObjectValue() SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassContextSpecific, ValueType: tagERR_noSuchObject}
}

func NoSuchInstanceValue() SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassContextSpecific, ValueType: tagERR_noSuchInstance}
}

func EndOfMibViewValue() SNMPVar {
	return SNMPVar{ValueClass: ASNber.ClassContextSpecific, ValueType: tagERR_EndOfMib}
}

// IsNull reports a universal NULL value.
func (v SNMPVar) IsNull() bool {
	return v.ValueClass == ASNber.ClassUniversal && v.ValueType == ASNber.TagNull && !v.IsCompound
}

// Exception returns the exception kind of v or NoException.
func (v SNMPVar) Exception() ExceptionKind {
	if v.ValueClass != ASNber.ClassContextSpecific || v.IsCompound || len(v.Value) != 0 {
		return NoException
	}
	switch v.ValueType {
	case tagERR_noSuchObject, tagERR_noSuchInstance, tagERR_EndOfMib:
		return ExceptionKind(v.ValueType)
	}
	return NoException
}

// IsException reports noSuchObject, noSuchInstance or endOfMibView.
func (v SNMPVar) IsException() bool {
	return v.Exception() != NoException
}

// Int64 decodes INTEGER content (sign extended).
func (v SNMPVar) Int64() (int64, error) {
	if v.ValueClass != ASNber.ClassUniversal || v.ValueType != ASNber.TagInteger {
		return 0, fmt.Errorf("%w: %s is not INTEGER", ErrWrongValueType, Convert_ClassTag_to_String(v))
	}
	if len(v.Value) == 0 || len(v.Value) > 8 {
		return 0, fmt.Errorf("%w: INTEGER with %d content octets", ErrWrongValueType, len(v.Value))
	}
	return Convert_bytearray_to_int(v.Value), nil
}

// Uint64 decodes Counter32, Gauge32, TimeTicks and Counter64 content.
// A leading 0x00 pad octet is allowed on top of the 8 value octets.
func (v SNMPVar) Uint64() (uint64, error) {
	if v.ValueClass != ASNber.ClassApplication {
		return 0, fmt.Errorf("%w: %s is not an unsigned application type", ErrWrongValueType, Convert_ClassTag_to_String(v))
	}
	switch v.ValueType {
	case SNMP_type_COUNTER32, SNMP_type_GAUGE32, SNMP_type_TIMETICKS, SNMP_type_COUNTER64:
	default:
		return 0, fmt.Errorf("%w: %s is not an unsigned application type", ErrWrongValueType, Convert_ClassTag_to_String(v))
	}
	content := v.Value
	if len(content) == 9 && content[0] == 0 {
		content = content[1:]
	}
	if len(content) == 0 || len(content) > 8 {
		return 0, fmt.Errorf("%w: unsigned value with %d content octets", ErrWrongValueType, len(v.Value))
	}
	return Convert_bytearray_to_uint(content), nil
}

// OID decodes OBJECT IDENTIFIER content.
func (v SNMPVar) OID() (OID, error) {
	if v.ValueClass != ASNber.ClassUniversal || v.ValueType != ASNber.TagOID {
		return nil, fmt.Errorf("%w: %s is not OID", ErrWrongValueType, Convert_ClassTag_to_String(v))
	}
	full, err := ASNber.Marshal(ASNber.RawValue{Class: ASNber.ClassUniversal, Tag: ASNber.TagOID, Bytes: v.Value})
	if err != nil {
		return nil, err
	}
	var oid ASNber.ObjectIdentifier
	if _, err = ASNber.Unmarshal(full, &oid); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongValueType, err)
	}
	return OID(oid).Clone(), nil
}

// String renders v like Convert_Variable_To_String.
func (v SNMPVar) String() string {
	return Convert_Variable_To_String(v)
}

// Convert_bytearray_to_int - SNMP signed INTEGER content → int64 (1-8 bytes).
//
// **NO BER decoding** - ASN.1 parser stripped TLV. BigEndian + sign extension.
func Convert_bytearray_to_int(bytearray []byte) (intdata int64) {
	if len(bytearray) == 0 || len(bytearray) > 8 {
		return 0
	}
	if bytearray[0]&0x80 != 0 {
		intdata = -1
	}
	for _, b := range bytearray {
		intdata = intdata<<8 | int64(b)
	}
	return intdata
}

// Convert_bytearray_to_uint - SNMP unsigned content → uint64 (1-8 bytes).
//
// **NO BER decoding** - ASN.1 parser stripped TLV. Full BigEndian unsigned conversion.
// Handles Counter32, Gauge32, TimeTicks, Counter64.
//
// Usage: ifHCInOctets → [0x01,0xFF,0xFF,0xFF,0xFF] → 8589934591
func Convert_bytearray_to_uint(bytearray []byte) (intdata uint64) {
	if len(bytearray) > 8 {
		return 0
	}
	for _, b := range bytearray {
		intdata = intdata<<8 | uint64(b)
	}
	return intdata
}

func isAscii(datab []byte) (AsciiString bool, LastAsciSymbolIndex int) {
	FirstZeroPos := -1
	LastAscipos := 0
	hasPrintable := false
	for i := 0; i < len(datab); i++ {
		if datab[i] < 0x20 || datab[i] > 0x7e {
			if datab[i] == 0x09 || datab[i] == 0x0a || datab[i] == 0x0d {
				continue
			}
			if datab[i] == 0x00 {
				if FirstZeroPos == -1 {
					FirstZeroPos = i
				}
				continue
			}
			return false, LastAscipos
		}
		LastAscipos = i
		hasPrintable = true
	}
	if FirstZeroPos > -1 && FirstZeroPos < LastAscipos {
		return false, LastAscipos
	}
	return hasPrintable, LastAscipos
}

// Convert_ClassTag_to_String converts SNMPVar to human-readable ASN.1/SNMP type string.
//
// Algorithm:
//
//	**Universal Class**: INTEGER/OCTET STRING/NULL/OID/SEQUENCE
//	**OCTET_STRING**: isAscii() → "OCTET STRING" vs "HEX STRING"
//	**Application Class**: IPADDR/COUNTER32/GAUGE32/TIMETICKS/COUNTER64/OPAQUE
//	**Context Class**: SNMPv2c exceptions
//
// Returns:
//
//	StringType - Descriptive type name ("Universal OID", "COUNTER32", "IP ADDRESS")
func Convert_ClassTag_to_String(Var SNMPVar) string {
	StringType := "Unknown"
	switch Var.ValueClass {
	case ASNber.ClassUniversal:
		switch Var.ValueType {
		case ASNber.TagBoolean:
			StringType = "Universal BOOLEAN"
		case ASNber.TagInteger:
			StringType = "Universal INTEGER"
		case ASNber.TagBitString:
			StringType = "Universal BITSTRING"
		case ASNber.TagOctetString:
			AsVal, _ := isAscii(Var.Value)
			if AsVal {
				StringType = "Universal OCTET STRING"
			} else {
				StringType = "Universal HEX STRING"
			}
		case ASNber.TagNull:
			StringType = "Universal NULL"
		case ASNber.TagOID:
			StringType = "Universal OID"
		case ASNber.TagSequence:
			if Var.IsCompound {
				StringType = "Universal SEQUENCE"
			}
		default:
			StringType = "Unknown Universal"
		}

	case ASNber.ClassApplication:
		switch Var.ValueType {
		case SNMP_type_IPADDR:
			StringType = "IP ADDRESS"
		case SNMP_type_COUNTER32:
			StringType = "COUNTER32"
		case SNMP_type_GAUGE32:
			StringType = "GAUGE32"
		case SNMP_type_COUNTER64:
			StringType = "COUNTER64"
		case SNMP_type_TIMETICKS:
			StringType = "TIMETICKS"
		case SNMP_type_OPAQUE:
			StringType = "OPAQUE"
		default:
			StringType = "Unknown APPLICATION"
		}

	case ASNber.ClassContextSpecific:
		if k := Var.Exception(); k != NoException {
			StringType = k.String()
		}
	}
	return StringType
}

// Convert_setvar_toasn1raw converts SNMPVar to ASN.1 RawValue for marshaling.
//
// Direct field mapping: ValueType→Tag, ValueClass→Class, Value→Bytes.
func Convert_setvar_toasn1raw(invar SNMPVar) ASNber.RawValue {
	Retvar := ASNber.NullRawValue
	Retvar.Tag = invar.ValueType
	Retvar.Class = invar.ValueClass
	Retvar.IsCompound = invar.IsCompound
	Retvar.Bytes = invar.Value
	return Retvar
}

// Convert_asn1raw_tosetvar is the reverse of Convert_setvar_toasn1raw. Content is copied.
func Convert_asn1raw_tosetvar(raw ASNber.RawValue) SNMPVar {
	return SNMPVar{ValueType: raw.Tag, ValueClass: raw.Class, IsCompound: raw.IsCompound, Value: bytesOrNil(raw.Bytes)}
}

// Convert_Variable_To_String formats SNMPVar value as human-readable string.
//
// **Universal Types**: INTEGER→decimal, OCTET_STRING→ASCII/HEX, OID→dotted notation, NULL→""
// **Application Types**:
//   - IPADDR→"x.x.x.x"
//   - TIMETICKS→"1h2m3.45s" (×10ms → time.Duration)
//   - COUNTER32/GAUGE32/COUNTER64→decimal
//   - OPAQUE→hex
//
// **Exceptions**: "noSuchObject", "noSuchInstance", "endOfMibView"
// **Compound** (SEQUENCE/SET)→hex dump
func Convert_Variable_To_String(Var SNMPVar) string {
	if Var.IsCompound {
		//Это SEQUENCE или SET, выводим HEX строку
		return hex.EncodeToString(Var.Value)
	}
	switch Var.ValueClass {
	case ASNber.ClassUniversal:
		switch Var.ValueType {
		case ASNber.TagInteger:
			return fmt.Sprintf("%d", Convert_bytearray_to_int(Var.Value))
		case ASNber.TagOctetString:
			return formatOctetString(Var.Value)
		case ASNber.TagOID:
			oid, err := Var.OID()
			if err != nil {
				return hex.EncodeToString(Var.Value)
			}
			return oid.String()
		case ASNber.TagNull:
			return ""
		default:
			return hex.EncodeToString(Var.Value)
		}
	case ASNber.ClassApplication:
		switch Var.ValueType {
		case SNMP_type_IPADDR:
			return formatIPAddress(Var.Value)
		case SNMP_type_TIMETICKS:
			ticks, err := Var.Uint64()
			if err != nil {
				return hex.EncodeToString(Var.Value)
			}
			return (time.Duration(ticks) * 10 * time.Millisecond).String()
		case SNMP_type_COUNTER32, SNMP_type_GAUGE32, SNMP_type_COUNTER64:
			u, err := Var.Uint64()
			if err != nil {
				return hex.EncodeToString(Var.Value)
			}
			return fmt.Sprintf("%d", u)
		default:
			//Бинарные данные
			return hex.EncodeToString(Var.Value)
		}
	case ASNber.ClassContextSpecific:
		if k := Var.Exception(); k != NoException {
			return k.String()
		}
	}
	return hex.EncodeToString(Var.Value)
}

// formatIPAddress formats Application IPADDR (4-byte IPv4) as dotted decimal.
// Invalid length → "Invalid IP (len=X): <hex>" diagnostic.
func formatIPAddress(data []byte) string {
	// Проверяем длину, если это не ipv4 то вернем HEX строку
	if len(data) != 4 {
		return fmt.Sprintf("Invalid IP (len=%d): %s", len(data), hex.EncodeToString(data))
	}
	return net.IP(data).String()
}

// formatOctetString formats SNMP OCTET STRING as ASCII or HEX dump.
// Trailing NUL bytes of C strings are cut.
func formatOctetString(data []byte) string {
	// Проверяем, это ASCII текст?
	if isAsciiFl, lastIndex := isAscii(data); isAsciiFl {
		if lastIndex < len(data)-1 {
			return string(data[:lastIndex+1])
		}
		return string(data)
	}
	// Иначе выводим как HEX строку
	return hex.EncodeToString(data)
}

