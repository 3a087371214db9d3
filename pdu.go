// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Version is the SNMP message version. The numeric value is the wire value.
type Version int

const (
	V1  Version = snmpWireVersionV1
	V2c Version = snmpWireVersionV2c
)

func (v Version) valid() bool {
	return v == V1 || v == V2c
}

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2c:
		return "v2c"
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}

// ParseVersion accepts net-snmp style "1"/"2c" and "v1"/"v2c".
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "v1":
		return V1, nil
	case "2c", "v2c", "2":
		return V2c, nil
	}
	return 0, &ArgumentError{Field: "version", Reason: fmt.Sprintf("unsupported SNMP version %q", s)}
}

// PDUType is the context-specific tag number of the PDU.
type PDUType int

const (
	PDUGetRequest     PDUType = SNMPv2_REQUEST_GET
	PDUGetNextRequest PDUType = SNMPv2_REQUEST_GETNEXT
	PDUGetResponse    PDUType = SNMPv2_REQUEST_RESPONSE
	PDUSetRequest     PDUType = SNMPv2_REQUEST_SET
	PDUGetBulkRequest PDUType = SNMPv2_REQUEST_GETBULK
)

func (t PDUType) valid() bool {
	switch t {
	case PDUGetRequest, PDUGetNextRequest, PDUGetResponse, PDUSetRequest, PDUGetBulkRequest:
		return true
	}
	return false
}

func (t PDUType) String() string {
	switch t {
	case PDUGetRequest:
		return "GetRequest"
	case PDUGetNextRequest:
		return "GetNextRequest"
	case PDUGetResponse:
		return "GetResponse"
	case PDUSetRequest:
		return "SetRequest"
	case PDUGetBulkRequest:
		return "GetBulkRequest"
	}
	return "PDU(" + strconv.Itoa(int(t)) + ")"
}

// Tag returns the full identifier octet: context-specific, constructed.
func (t PDUType) Tag() byte {
	return 0xA0 | byte(t)
}

// PDU is one of *GetRequest, *GetNextRequest, *SetRequest, *GetResponse,
// *GetBulkRequest. Values are built by the New* functions and are not
// changed afterwards; VarBinds returns a copy.
type PDU interface {
	Type() PDUType
	RequestID() int32
	VarBinds() []VarBind
	sealed()
}

type pduHeader struct {
	requestID int32
	varBinds  []VarBind
}

func (h *pduHeader) RequestID() int32 { return h.requestID }

func (h *pduHeader) VarBinds() []VarBind { return cloneVarBinds(h.varBinds) }

func (h *pduHeader) sealed() {}

// GetRequest - SNMP GET (tag 0xA0).
type GetRequest struct{ pduHeader }

// GetNextRequest - SNMP GETNEXT (tag 0xA1).
type GetNextRequest struct{ pduHeader }

// SetRequest - SNMP SET (tag 0xA3).
type SetRequest struct{ pduHeader }

// GetResponse - agent answer (tag 0xA2) with error-status and 1-based error-index.
type GetResponse struct {
	pduHeader
	errorStatus ErrorStatus
	errorIndex  int
}

// GetBulkRequest - SNMPv2c GETBULK (tag 0xA5). Non-repeaters and
// max-repetitions occupy the error-status/error-index positions on the wire.
type GetBulkRequest struct {
	pduHeader
	nonRepeaters   int
	maxRepetitions int
}

func (*GetRequest) Type() PDUType     { return PDUGetRequest }
func (*GetNextRequest) Type() PDUType { return PDUGetNextRequest }
func (*SetRequest) Type() PDUType     { return PDUSetRequest }
func (*GetResponse) Type() PDUType    { return PDUGetResponse }
func (*GetBulkRequest) Type() PDUType { return PDUGetBulkRequest }

func (p *GetResponse) ErrorStatus() ErrorStatus { return p.errorStatus }
func (p *GetResponse) ErrorIndex() int          { return p.errorIndex }

func (p *GetBulkRequest) NonRepeaters() int   { return p.nonRepeaters }
func (p *GetBulkRequest) MaxRepetitions() int { return p.maxRepetitions }

// Message is the SNMPv1/v2c envelope. Build it with BuildMessage so the
// version rules are checked.
type Message struct {
	Version   Version
	Community []byte
	PDU       PDU
}

func cloneVarBinds(in []VarBind) []VarBind {
	out := make([]VarBind, len(in))
	for i, vb := range in {
		out[i] = VarBind{OID: vb.OID.Clone(), Value: SNMPVar{
			ValueType:  vb.Value.ValueType,
			ValueClass: vb.Value.ValueClass,
			IsCompound: vb.Value.IsCompound,
			Value:      bytesOrNil(vb.Value.Value),
		}}
	}
	return out
}

func nullVarBinds(oids []OID) []VarBind {
	out := make([]VarBind, len(oids))
	for i, oid := range oids {
		out[i] = VarBind{OID: oid, Value: NullValue()}
	}
	return out
}

func checkRequestID(id int64) error {
	if id < 0 || id > SNMP_MAXREQUESTID {
		return &ArgumentError{Field: "request_id", Reason: fmt.Sprintf("%d outside [0, %d]", id, SNMP_MAXREQUESTID)}
	}
	return nil
}

// checkVarBinds collects every problem of the list, not only the first one.
func checkVarBinds(t PDUType, vbs []VarBind) error {
	var err error
	if len(vbs) == 0 && t != PDUGetResponse {
		err = multierr.Append(err, &ArgumentError{Field: "varbinds", Reason: "empty varbind list"})
	}
	for i, vb := range vbs {
		if oerr := vb.OID.validateWire(); oerr != nil {
			err = multierr.Append(err, &ArgumentError{Field: fmt.Sprintf("varbinds[%d].oid", i), Reason: oerr.Error()})
		}
		if t == PDUSetRequest && (vb.Value.IsNull() || vb.Value.IsException()) {
			err = multierr.Append(err, &ArgumentError{
				Field:  fmt.Sprintf("varbinds[%d].value", i),
				Reason: "SET needs a concrete value, got " + Convert_ClassTag_to_String(vb.Value),
			})
		}
	}
	return err
}

func checkBulkFields(nonRepeaters, maxRepetitions int) error {
	var err error
	if nonRepeaters < 0 || nonRepeaters > SNMP_MAXBULKFIELD {
		err = multierr.Append(err, &ArgumentError{Field: "non_repeaters", Reason: fmt.Sprintf("%d outside [0, %d]", nonRepeaters, SNMP_MAXBULKFIELD)})
	}
	if maxRepetitions < 1 || maxRepetitions > SNMP_MAXBULKFIELD {
		err = multierr.Append(err, &ArgumentError{Field: "max_repetitions", Reason: fmt.Sprintf("%d outside [1, %d]", maxRepetitions, SNMP_MAXBULKFIELD)})
	}
	return err
}

func checkResponseFields(status ErrorStatus, index, count int) error {
	var err error
	if status < NoError || status > SNMP_MAXERRORSTATUS {
		err = multierr.Append(err, &ArgumentError{Field: "error_status", Reason: fmt.Sprintf("%d outside [0, %d]", status, SNMP_MAXERRORSTATUS)})
	}
	if index < 0 || index > count {
		err = multierr.Append(err, &ArgumentError{Field: "error_index", Reason: fmt.Sprintf("%d outside [0, %d]", index, count)})
	}
	return err
}

func newHeader(t PDUType, requestID int, vbs []VarBind) (pduHeader, error) {
	err := multierr.Append(checkRequestID(int64(requestID)), checkVarBinds(t, vbs))
	if err != nil {
		return pduHeader{}, err
	}
	return pduHeader{requestID: int32(requestID), varBinds: cloneVarBinds(vbs)}, nil
}

// NewGetRequest builds GET for the OIDs (NULL values).
//
// Example:
//
//	pdu, err := NewGetRequest(1, MustParseOID("1.3.6.1.2.1.1.1.0"), MustParseOID("1.3.6.1.2.1.1.5.0"))
func NewGetRequest(requestID int, oids ...OID) (*GetRequest, error) {
	h, err := newHeader(PDUGetRequest, requestID, nullVarBinds(oids))
	if err != nil {
		return nil, err
	}
	return &GetRequest{h}, nil
}

// NewGetNextRequest builds GETNEXT for the OIDs (NULL values).
func NewGetNextRequest(requestID int, oids ...OID) (*GetNextRequest, error) {
	h, err := newHeader(PDUGetNextRequest, requestID, nullVarBinds(oids))
	if err != nil {
		return nil, err
	}
	return &GetNextRequest{h}, nil
}

// NewSetRequest builds SET. NULL and exception values are rejected.
//
// Example:
//
//	pdu, err := NewSetRequest(7, VarBind{OID: sysNameOID, Value: StringValue("core-sw1")})
func NewSetRequest(requestID int, varBinds ...VarBind) (*SetRequest, error) {
	h, err := newHeader(PDUSetRequest, requestID, varBinds)
	if err != nil {
		return nil, err
	}
	return &SetRequest{h}, nil
}

// NewGetBulkRequest builds GETBULK.
//
// Arguments:
//
//	nonRepeaters   - number of leading OIDs fetched once (GETNEXT semantics), 0..65535;
//	                 values above the OID count are capped to it
//	maxRepetitions - rows requested for the remaining OIDs, 1..65535 (0 would ask for nothing)
func NewGetBulkRequest(requestID, nonRepeaters, maxRepetitions int, oids ...OID) (*GetBulkRequest, error) {
	h, err := newHeader(PDUGetBulkRequest, requestID, nullVarBinds(oids))
	err = multierr.Append(err, checkBulkFields(nonRepeaters, maxRepetitions))
	if err != nil {
		return nil, err
	}
	return &GetBulkRequest{pduHeader: h, nonRepeaters: min(nonRepeaters, len(oids)), maxRepetitions: maxRepetitions}, nil
}

// NewGetResponse builds RESPONSE. Empty varbind lists are legal here
// (agents answer tooBig with no varbinds).
func NewGetResponse(requestID int, status ErrorStatus, index int, varBinds ...VarBind) (*GetResponse, error) {
	h, err := newHeader(PDUGetResponse, requestID, varBinds)
	err = multierr.Append(err, checkResponseFields(status, index, len(varBinds)))
	if err != nil {
		return nil, err
	}
	return &GetResponse{pduHeader: h, errorStatus: status, errorIndex: index}, nil
}

// ValidatePDU re-checks all builder invariants. All violations are
// reported together; errors.Is(err, ErrInvalidArgument) holds for any of them.
func ValidatePDU(pdu PDU) error {
	if pdu == nil {
		return &ArgumentError{Field: "pdu", Reason: "nil PDU"}
	}
	var h *pduHeader
	var extra error
	switch p := pdu.(type) {
	case *GetRequest:
		if p == nil {
			return &ArgumentError{Field: "pdu", Reason: "nil GetRequest"}
		}
		h = &p.pduHeader
	case *GetNextRequest:
		if p == nil {
			return &ArgumentError{Field: "pdu", Reason: "nil GetNextRequest"}
		}
		h = &p.pduHeader
	case *SetRequest:
		if p == nil {
			return &ArgumentError{Field: "pdu", Reason: "nil SetRequest"}
		}
		h = &p.pduHeader
	case *GetResponse:
		if p == nil {
			return &ArgumentError{Field: "pdu", Reason: "nil GetResponse"}
		}
		h = &p.pduHeader
		extra = checkResponseFields(p.errorStatus, p.errorIndex, len(p.varBinds))
	case *GetBulkRequest:
		if p == nil {
			return &ArgumentError{Field: "pdu", Reason: "nil GetBulkRequest"}
		}
		h = &p.pduHeader
		extra = checkBulkFields(p.nonRepeaters, p.maxRepetitions)
		if p.nonRepeaters > len(p.varBinds) {
			extra = multierr.Append(extra, &ArgumentError{Field: "non_repeaters", Reason: "exceeds varbind count"})
		}
	default:
		return &ArgumentError{Field: "pdu", Reason: fmt.Sprintf("unsupported PDU type %T", pdu)}
	}
	return multierr.Combine(
		checkRequestID(int64(h.requestID)),
		checkVarBinds(pdu.Type(), h.varBinds),
		extra,
	)
}
