// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"fmt"

	ASNber "github.com/OlegPowerC/asn1modsnmp"
)

// Encode serializes an SNMPv1/v2c message to BER.
//
// Wire layout:
//
//	SEQUENCE {
//	    INTEGER      version (0=v1, 1=v2c)
//	    OCTET STRING community
//	    [N] IMPLICIT SEQUENCE {          // 0xA0 Get, 0xA1 GetNext, 0xA2 Response, 0xA3 Set, 0xA5 GetBulk
//	        INTEGER request-id
//	        INTEGER error-status | non-repeaters
//	        INTEGER error-index  | max-repetitions
//	        SEQUENCE OF SEQUENCE { OID, value }
//	    }
//	}
//
// The PDU is validated first (ValidatePDU). Version legality is the job of
// BuildMessage; Encode only refuses versions that have no wire value.
// Every failure is an *EncodeError.
func Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, &EncodeError{Reason: "nil message"}
	}
	if !msg.Version.valid() {
		return nil, &EncodeError{Reason: "unsupported SNMP version " + msg.Version.String()}
	}
	if err := ValidatePDU(msg.PDU); err != nil {
		return nil, &EncodeError{Reason: "invalid PDU", Err: err}
	}

	var body snmpPacketPDU
	body.RequestID = msg.PDU.RequestID()
	switch p := msg.PDU.(type) {
	case *GetResponse:
		body.ErrorStatusRaw = int32(p.errorStatus)
		body.ErrorIndexRaw = int32(p.errorIndex)
	case *GetBulkRequest:
		body.ErrorStatusRaw = int32(p.nonRepeaters)
		body.ErrorIndexRaw = int32(p.maxRepetitions)
	}
	vbs := pduVarBinds(msg.PDU)
	body.VarBinds = make([]snmpPacketVarBind, 0, len(vbs))
	for _, vb := range vbs {
		body.VarBinds = append(body.VarBinds, snmpPacketVarBind{
			RSnmpOID: ASNber.ObjectIdentifier(vb.OID),
			RSnmpVar: Convert_setvar_toasn1raw(vb.Value),
		})
	}

	bodyBER, err := ASNber.Marshal(body)
	if err != nil {
		return nil, &EncodeError{Reason: "PDU body", Err: err}
	}
	//Извлекаем данные (без TAG LEN)
	content, err := ASNber.ExtractDataWOTagAndLen(bodyBER)
	if err != nil {
		return nil, &EncodeError{Reason: "PDU body", Err: err}
	}

	//Тип составной записи - класс Context-Specified
	//Тег зависит от запроса
	var pduRaw ASNber.RawValue
	pduRaw.Class = ASNber.ClassContextSpecific
	pduRaw.IsCompound = true
	pduRaw.Tag = int(msg.PDU.Type())
	pduRaw.Bytes = content

	community := msg.Community
	if community == nil {
		community = []byte{}
	}
	out, err := ASNber.Marshal(snmpPacket{Version: int(msg.Version), Community: community, PDU: pduRaw})
	if err != nil {
		return nil, &EncodeError{Reason: "message envelope", Err: err}
	}
	return out, nil
}

// Decode parses BER bytes into a message.
//
// Fails with *DecodeError on: empty or truncated input, wrong tags, length
// mismatch, trailing bytes, version other than 0/1, unknown PDU tag,
// GETBULK inside a v1 message, malformed exception value. Never panics.
//
// Exception values in v1 messages and v2c error codes in v1 responses are
// accepted here (lenient agents send them); CheckCompliance reports them.
// Returned values do not share memory with b.
func Decode(b []byte) (msg *Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg = nil
			err = &DecodeError{Reason: fmt.Sprintf("malformed message: %v", r)}
		}
	}()
	if len(b) == 0 {
		return nil, &DecodeError{Reason: "empty input"}
	}

	var packet snmpPacket
	rest, err := ASNber.Unmarshal(b, &packet)
	if err != nil {
		return nil, &DecodeError{Reason: "message envelope", Err: err}
	}
	if len(rest) != 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("%d trailing bytes after message", len(rest))}
	}

	var version Version
	switch packet.Version {
	case snmpWireVersionV1:
		version = V1
	case snmpWireVersionV2c:
		version = V2c
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported SNMP version %d", packet.Version)}
	}

	raw := packet.PDU
	if raw.Class != ASNber.ClassContextSpecific || !raw.IsCompound {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid PDU tag (class=%d, tag=%d, constructed=%t)", raw.Class, raw.Tag, raw.IsCompound)}
	}
	pduType := PDUType(raw.Tag)
	if !pduType.valid() {
		return nil, &DecodeError{Reason: fmt.Sprintf("unsupported PDU tag 0x%02X", 0xA0|raw.Tag)}
	}
	if pduType == PDUGetBulkRequest && version == V1 {
		return nil, &DecodeError{Reason: "GetBulkRequest in SNMPv1 message"}
	}
	if len(raw.FullBytes) == 0 {
		return nil, &DecodeError{Reason: "empty PDU"}
	}

	// The body is an IMPLICIT SEQUENCE: re-tag a copy as SEQUENCE to parse it
	full := make([]byte, len(raw.FullBytes))
	copy(full, raw.FullBytes)
	full[0] = 0x30
	var body snmpPacketPDU
	rest, err = ASNber.Unmarshal(full, &body)
	if err != nil {
		return nil, &DecodeError{Reason: pduType.String() + " body", Err: err}
	}
	if len(rest) != 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("%d trailing bytes after PDU", len(rest))}
	}

	vbs := make([]VarBind, 0, len(body.VarBinds))
	for i, wvb := range body.VarBinds {
		value := Convert_asn1raw_tosetvar(wvb.RSnmpVar)
		if value.ValueClass == ASNber.ClassContextSpecific && value.Exception() == NoException {
			return nil, &DecodeError{Reason: fmt.Sprintf("varbind %d: unknown exception tag 0x%02X", i+1, 0x80|wvb.RSnmpVar.Tag)}
		}
		vbs = append(vbs, VarBind{OID: OID(wvb.RSnmpOID).Clone(), Value: value})
	}

	h := pduHeader{requestID: body.RequestID, varBinds: vbs}
	var pdu PDU
	switch pduType {
	case PDUGetRequest:
		pdu = &GetRequest{h}
	case PDUGetNextRequest:
		pdu = &GetNextRequest{h}
	case PDUSetRequest:
		pdu = &SetRequest{h}
	case PDUGetResponse:
		pdu = &GetResponse{pduHeader: h, errorStatus: ErrorStatus(body.ErrorStatusRaw), errorIndex: int(body.ErrorIndexRaw)}
	case PDUGetBulkRequest:
		pdu = &GetBulkRequest{pduHeader: h, nonRepeaters: int(body.ErrorStatusRaw), maxRepetitions: int(body.ErrorIndexRaw)}
	}
	return &Message{Version: version, Community: append([]byte{}, packet.Community...), PDU: pdu}, nil
}

// EncodeRequest is BuildMessage + Encode.
func EncodeRequest(pdu PDU, community []byte, version Version) ([]byte, error) {
	msg, err := BuildMessage(pdu, community, version)
	if err != nil {
		return nil, err
	}
	return Encode(msg)
}
