// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// pduVersionRules lists the versions each PDU type is defined for.
var pduVersionRules = map[PDUType][]Version{
	PDUGetRequest:     {V1, V2c},
	PDUGetNextRequest: {V1, V2c},
	PDUGetResponse:    {V1, V2c},
	PDUSetRequest:     {V1, V2c},
	PDUGetBulkRequest: {V2c},
}

// errorStatusLimits is the highest error-status defined per version:
// RFC1157 stops at genErr, RFC1905 adds noAccess..inconsistentName.
var errorStatusLimits = map[Version]ErrorStatus{
	V1:  GenErr,
	V2c: InconsistentName,
}

// exceptionVersions lists the versions that define exception values.
var exceptionVersions = []Version{V2c}

// VersionViolationError - feature used in a message of a version that does
// not define it. Matches ErrVersionViolation.
type VersionViolationError struct {
	Feature  string
	Required Version
	Actual   Version
}

func (e *VersionViolationError) Error() string {
	return fmt.Sprintf("%s requires SNMP %s, message version is %s", e.Feature, e.Required, e.Actual)
}

func (e *VersionViolationError) Unwrap() error { return ErrVersionViolation }

// IsPDULegal reports whether the PDU type exists in the version.
func IsPDULegal(t PDUType, v Version) bool {
	return slices.Contains(pduVersionRules[t], v)
}

// IsErrorStatusLegal reports whether the error-status is defined in the version.
func IsErrorStatusLegal(s ErrorStatus, v Version) bool {
	limit, ok := errorStatusLimits[v]
	return ok && s >= NoError && s <= limit
}

// compliance finding; hard findings fail even lenient builds
type finding struct {
	err  error
	hard bool
}

func complianceFindings(pdu PDU, version Version) []finding {
	var out []finding
	if !IsPDULegal(pdu.Type(), version) {
		out = append(out, finding{hard: true, err: &VersionViolationError{
			Feature:  "GETBULK",
			Required: V2c,
			Actual:   version,
		}})
	}
	if resp, ok := pdu.(*GetResponse); ok && !IsErrorStatusLegal(resp.errorStatus, version) {
		out = append(out, finding{err: &VersionViolationError{
			Feature:  fmt.Sprintf("error-status %s(%d)", resp.errorStatus, int(resp.errorStatus)),
			Required: V2c,
			Actual:   version,
		}})
	}
	if !slices.Contains(exceptionVersions, version) {
		for i, vb := range pduVarBinds(pdu) {
			if k := vb.Value.Exception(); k != NoException {
				out = append(out, finding{err: &VersionViolationError{
					Feature:  fmt.Sprintf("exception value %s in varbind %d (%s)", k, i+1, vb.OID),
					Required: V2c,
					Actual:   version,
				}})
			}
		}
	}
	return out
}

// pduVarBinds reads the list without copying; callers must not modify it.
func pduVarBinds(pdu PDU) []VarBind {
	switch p := pdu.(type) {
	case *GetRequest:
		return p.varBinds
	case *GetNextRequest:
		return p.varBinds
	case *SetRequest:
		return p.varBinds
	case *GetResponse:
		return p.varBinds
	case *GetBulkRequest:
		return p.varBinds
	}
	return pdu.VarBinds()
}

func prepareMessage(pdu PDU, community []byte, version Version) (*Message, []finding, error) {
	if !version.valid() {
		return nil, nil, &ArgumentError{Field: "version", Reason: "unsupported SNMP version " + version.String()}
	}
	if err := ValidatePDU(pdu); err != nil {
		return nil, nil, err
	}
	msg := &Message{Version: version, Community: append([]byte{}, community...), PDU: pdu}
	return msg, complianceFindings(pdu, version), nil
}

// BuildMessage wraps pdu in a message after checking version legality.
//
// Strict policy for SNMPv1:
//   - GetBulkRequest fails (VersionViolationError{Feature: "GETBULK"})
//   - error-status 6..18 fails
//   - exception values (noSuchObject/noSuchInstance/endOfMibView) fail
//
// All violations are returned together; errors.Is(err, ErrVersionViolation)
// holds. Invalid PDUs and unknown versions fail with ErrInvalidArgument.
// community is copied; nil becomes an empty community.
func BuildMessage(pdu PDU, community []byte, version Version) (*Message, error) {
	msg, findings, err := prepareMessage(pdu, community, version)
	if err != nil {
		return nil, err
	}
	for _, f := range findings {
		err = multierr.Append(err, f.err)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// BuildMessageLenient is BuildMessage for talking to lenient peers: only
// GETBULK under SNMPv1 fails, v2c-only error codes and exception values are
// returned as warnings next to the message.
func BuildMessageLenient(pdu PDU, community []byte, version Version) (msg *Message, warnings error, err error) {
	msg, findings, err := prepareMessage(pdu, community, version)
	if err != nil {
		return nil, nil, err
	}
	var hard error
	for _, f := range findings {
		if f.hard {
			hard = multierr.Append(hard, f.err)
		} else {
			warnings = multierr.Append(warnings, f.err)
		}
	}
	if hard != nil {
		return nil, nil, hard
	}
	return msg, warnings, nil
}

// CheckCompliance re-applies the strict policy to an existing message,
// for example one produced by Decode.
func CheckCompliance(msg *Message) error {
	if msg == nil {
		return &ArgumentError{Field: "message", Reason: "nil message"}
	}
	_, err := BuildMessage(msg.PDU, msg.Community, msg.Version)
	return err
}
