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
	"net"
	"strings"
	"syscall"
)

var (
	// Input validation, raised before any I/O
	ErrInvalidFormat    = errors.New("invalid OID format")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrVersionViolation = errors.New("SNMP version violation")
	ErrWrongValueType   = errors.New("wrong value type")

	// Codec
	ErrEncode = errors.New("cannot encode outgoing packet")
	ErrDecode = errors.New("cannot parse incoming packet")

	// Transport
	ErrTimeout            = errors.New("request timed out")
	ErrHostUnreachable    = errors.New("host unreachable")
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrConnectionRefused  = errors.New("connection refused")
	ErrNetwork            = errors.New("network error")

	// Response checks
	ErrRequestIDMismatch = errors.New("Wrong RequestID")
	ErrUnexpectedPDU     = errors.New("unexpected PDU type in response")
	ErrAuthentication    = errors.New("response community does not match request")

	// Walks
	ErrOIDNotIncreasing = errors.New("OID is not increased")
	ErrTableBoundary    = errors.New("OID outside table")
	ErrWalkLimit        = errors.New("walk limit reached")

	// SNMPv2c exceptions as errors (single GET helpers, classification)
	ErrNoSuchObject   = errors.New("noSuchObject")
	ErrNoSuchInstance = errors.New("noSuchInstance")
	ErrEndOfMibView   = errors.New("endOfMibView")

	// Agent error-status sentinels, matched by *SNMPError.Is
	ErrTooBig        = errors.New("tooBig")
	ErrNoSuchName    = errors.New("noSuchName")
	ErrBadValue      = errors.New("badValue")
	ErrReadOnly      = errors.New("readOnly")
	ErrGenErr        = errors.New("genErr")
	ErrNoAccess      = errors.New("noAccess")
	ErrNotWritable   = errors.New("notWritable")
	ErrAuthorization = errors.New("authorizationError")

	ErrCircuitOpen   = errors.New("circuit open")
	ErrNameNotFound  = errors.New("name not found")
	ErrNoSuggestions = errors.New("no recovery suggestions")
)

// ErrorStatus is the PDU error-status field (RFC1157 §4.1.1, RFC3416 §3).
type ErrorStatus int

const (
	NoError ErrorStatus = iota
	TooBig
	NoSuchName
	BadValue
	ReadOnly
	GenErr
	NoAccess
	WrongType
	WrongLength
	WrongEncoding
	WrongValue
	NoCreation
	InconsistentValue
	ResourceUnavailable
	CommitFailed
	UndoFailed
	AuthorizationError
	NotWritable
	InconsistentName
)

// SNMPErrorNames maps error-status codes and exception tag/class octets to names.
var SNMPErrorNames = map[int]string{
	int(NoError):             "noError",
	int(TooBig):              "tooBig",
	int(NoSuchName):          "noSuchName",
	int(BadValue):            "badValue",
	int(ReadOnly):            "readOnly",
	int(GenErr):              "genErr",
	int(NoAccess):            "noAccess",
	int(WrongType):           "wrongType",
	int(WrongLength):         "wrongLength",
	int(WrongEncoding):       "wrongEncoding",
	int(WrongValue):          "wrongValue",
	int(NoCreation):          "noCreation",
	int(InconsistentValue):   "inconsistentValue",
	int(ResourceUnavailable): "resourceUnavailable",
	int(CommitFailed):        "commitFailed",
	int(UndoFailed):          "undoFailed",
	int(AuthorizationError):  "authorizationError",
	int(NotWritable):         "notWritable",
	int(InconsistentName):    "inconsistentName",

	//Error in VarBind
	tagandclassERR_noSuchObject:   "noSuchObject",
	tagandclassERR_noSuchInstance: "noSuchInstance",
	tagandclassERR_EndOfMib:       "endOfMibView",
}

// SNMPErrorIntToText returns the name of an error-status code or exception
// octet, "unknown error code" otherwise.
func SNMPErrorIntToText(code int) string {
	if name, ok := SNMPErrorNames[code]; ok {
		return name
	}
	return "unknown error code"
}

func (s ErrorStatus) String() string {
	return SNMPErrorIntToText(int(s))
}

// Atom returns the snake_case atom of the status.
func (s ErrorStatus) Atom() ErrorAtom {
	return CodeToAtom(int(s))
}

// ErrorAtom is the symbolic name of an error condition.
type ErrorAtom string

const (
	AtomNoError             ErrorAtom = "no_error"
	AtomTooBig              ErrorAtom = "too_big"
	AtomNoSuchName          ErrorAtom = "no_such_name"
	AtomBadValue            ErrorAtom = "bad_value"
	AtomReadOnly            ErrorAtom = "read_only"
	AtomGenErr              ErrorAtom = "gen_err"
	AtomNoAccess            ErrorAtom = "no_access"
	AtomWrongType           ErrorAtom = "wrong_type"
	AtomWrongLength         ErrorAtom = "wrong_length"
	AtomWrongEncoding       ErrorAtom = "wrong_encoding"
	AtomWrongValue          ErrorAtom = "wrong_value"
	AtomNoCreation          ErrorAtom = "no_creation"
	AtomInconsistentValue   ErrorAtom = "inconsistent_value"
	AtomResourceUnavailable ErrorAtom = "resource_unavailable"
	AtomCommitFailed        ErrorAtom = "commit_failed"
	AtomUndoFailed          ErrorAtom = "undo_failed"
	AtomAuthorizationError  ErrorAtom = "authorization_error"
	AtomNotWritable         ErrorAtom = "not_writable"
	AtomInconsistentName    ErrorAtom = "inconsistent_name"

	AtomUnknownError       ErrorAtom = "unknown_error"
	AtomTimeout            ErrorAtom = "timeout"
	AtomHostUnreachable    ErrorAtom = "host_unreachable"
	AtomNetworkUnreachable ErrorAtom = "network_unreachable"
	AtomConnectionRefused  ErrorAtom = "connection_refused"
	AtomNetworkError       ErrorAtom = "network_error"
	AtomNoSuchObject       ErrorAtom = "no_such_object"
	AtomNoSuchInstance     ErrorAtom = "no_such_instance"
	AtomEndOfMibView       ErrorAtom = "end_of_mib_view"
)

// statusAtoms is indexed by error-status code.
var statusAtoms = [...]ErrorAtom{
	AtomNoError,
	AtomTooBig,
	AtomNoSuchName,
	AtomBadValue,
	AtomReadOnly,
	AtomGenErr,
	AtomNoAccess,
	AtomWrongType,
	AtomWrongLength,
	AtomWrongEncoding,
	AtomWrongValue,
	AtomNoCreation,
	AtomInconsistentValue,
	AtomResourceUnavailable,
	AtomCommitFailed,
	AtomUndoFailed,
	AtomAuthorizationError,
	AtomNotWritable,
	AtomInconsistentName,
}

var atomDescriptions = map[ErrorAtom]string{
	AtomNoError:             "No error",
	AtomTooBig:              "Response too big to fit in a single message",
	AtomNoSuchName:          "No such name",
	AtomBadValue:            "Bad value",
	AtomReadOnly:            "Object is read-only",
	AtomGenErr:              "General error",
	AtomNoAccess:            "No access",
	AtomWrongType:           "Wrong type",
	AtomWrongLength:         "Wrong length",
	AtomWrongEncoding:       "Wrong encoding",
	AtomWrongValue:          "Wrong value",
	AtomNoCreation:          "Object cannot be created",
	AtomInconsistentValue:   "Inconsistent value",
	AtomResourceUnavailable: "Resource unavailable",
	AtomCommitFailed:        "Commit failed",
	AtomUndoFailed:          "Undo failed",
	AtomAuthorizationError:  "Authorization error",
	AtomNotWritable:         "Object is not writable",
	AtomInconsistentName:    "Inconsistent name",
	AtomTimeout:             "Request timed out",
	AtomHostUnreachable:     "Host unreachable",
	AtomNetworkUnreachable:  "Network unreachable",
	AtomConnectionRefused:   "Connection refused",
	AtomNetworkError:        "Network error",
	AtomNoSuchObject:        "No such object",
	AtomNoSuchInstance:      "No such instance",
	AtomEndOfMibView:        "End of MIB view",
	AtomUnknownError:        "Unknown error",
}

// CodeToAtom maps error-status 0-18 to its atom, anything else to unknown_error.
func CodeToAtom(code int) ErrorAtom {
	if code < 0 || code >= len(statusAtoms) {
		return AtomUnknownError
	}
	return statusAtoms[code]
}

// AtomToCode is the reverse of CodeToAtom for the 19 status atoms.
func AtomToCode(atom ErrorAtom) (int, bool) {
	for code, a := range statusAtoms {
		if a == atom {
			return code, true
		}
	}
	return 0, false
}

// IsV2cError reports the 13 atoms added by RFC1905 (codes 6-18).
func IsV2cError(atom ErrorAtom) bool {
	code, ok := AtomToCode(atom)
	return ok && code >= SNMP_FIRSTV2CERRORSTATUS
}

// Description returns fixed human-readable text, "Unknown error" for unknown atoms.
func Description(atom ErrorAtom) string {
	if d, ok := atomDescriptions[atom]; ok {
		return d
	}
	return atomDescriptions[AtomUnknownError]
}

// ErrorKind selects the label of FormatError.
type ErrorKind string

const (
	KindSNMP    ErrorKind = "snmp_error"
	KindV2c     ErrorKind = "v2c_error"
	KindNetwork ErrorKind = "network_error"
	KindTimeout ErrorKind = "timeout"
)

var kindLabels = map[ErrorKind]string{
	KindSNMP:    "SNMP",
	KindV2c:     "SNMPv2c",
	KindNetwork: "Network",
	KindTimeout: "Timeout",
}

// FormatError renders "<Category> Error: <description>".
//
// detail may be an ErrorAtom, an atom string, an ErrorStatus or an int code.
// For KindTimeout detail is ignored.
//
//	FormatError(KindSNMP, 2)                    // "SNMP Error: No such name"
//	FormatError(KindV2c, AtomNotWritable)       // "SNMPv2c Error: Object is not writable"
//	FormatError(KindNetwork, "host_unreachable") // "Network Error: Host unreachable"
//	FormatError(KindTimeout, nil)               // "Timeout Error: Request timed out"
func FormatError(kind ErrorKind, detail any) string {
	label, ok := kindLabels[kind]
	if !ok {
		return fmt.Sprintf("Unknown Error: %v", detail)
	}
	if kind == KindTimeout {
		return label + " Error: " + Description(AtomTimeout)
	}
	var atom ErrorAtom
	switch d := detail.(type) {
	case ErrorAtom:
		atom = d
	case string:
		atom = ErrorAtom(d)
	case ErrorStatus:
		atom = d.Atom()
	case int:
		atom = CodeToAtom(d)
	case int32:
		atom = CodeToAtom(int(d))
	default:
		atom = AtomUnknownError
	}
	return label + " Error: " + Description(atom)
}

// FormatErr renders any error returned by this package for humans.
func FormatErr(err error) string {
	if err == nil {
		return ""
	}
	var serr *SNMPError
	var nerr *NetworkError
	switch {
	case errors.As(err, &serr):
		if IsV2cError(serr.Atom()) {
			return FormatError(KindV2c, serr.Status)
		}
		return FormatError(KindSNMP, serr.Status)
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return FormatError(KindTimeout, nil)
	case errors.As(err, &nerr):
		return FormatError(KindNetwork, nerr.Atom)
	}
	cat := ClassifyError(err, ClassifyContext{})
	return categoryLabel(cat) + " Error: " + err.Error()
}

func categoryLabel(c ErrorCategory) string {
	words := strings.Split(strings.TrimSuffix(string(c), "_error"), "_")
	for i, w := range words {
		if w == "v2c" {
			words[i] = "SNMPv2c"
			continue
		}
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ArgumentError is a builder/gate validation failure. It matches ErrInvalidArgument.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// EncodeError matches ErrEncode and unwraps to the marshaller failure.
type EncodeError struct {
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrEncode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrEncode, e.Reason)
}

func (e *EncodeError) Unwrap() []error { return compactErrors(ErrEncode, e.Err) }

// DecodeError matches ErrDecode and unwraps to the parser failure.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() []error { return compactErrors(ErrDecode, e.Err) }

// SNMPError is a non-zero error-status reported by the agent.
type SNMPError struct {
	Status      ErrorStatus
	Index       int
	OID         OID
	RequestType PDUType
}

func (e *SNMPError) Error() string {
	return fmt.Sprintf("%s (status=%d, index=%d): %s", e.Status, int(e.Status), e.Index, e.OID)
}

func (e *SNMPError) Atom() ErrorAtom { return e.Status.Atom() }

var statusSentinels = map[ErrorStatus]error{
	TooBig:             ErrTooBig,
	NoSuchName:         ErrNoSuchName,
	BadValue:           ErrBadValue,
	ReadOnly:           ErrReadOnly,
	GenErr:             ErrGenErr,
	NoAccess:           ErrNoAccess,
	NotWritable:        ErrNotWritable,
	AuthorizationError: ErrAuthorization,
}

// Is matches the status sentinels: errors.Is(err, ErrNoSuchName).
func (e *SNMPError) Is(target error) bool {
	s, ok := statusSentinels[e.Status]
	return ok && s == target
}

// NetworkError is a transport failure. Atom is one of timeout,
// host_unreachable, network_unreachable, connection_refused, network_error.
type NetworkError struct {
	Atom ErrorAtom
	Op   string
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, Description(e.Atom), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, Description(e.Atom))
}

func (e *NetworkError) Unwrap() []error {
	return compactErrors(networkSentinel(e.Atom), e.Err)
}

func networkSentinel(atom ErrorAtom) error {
	switch atom {
	case AtomTimeout:
		return ErrTimeout
	case AtomHostUnreachable:
		return ErrHostUnreachable
	case AtomNetworkUnreachable:
		return ErrNetworkUnreachable
	case AtomConnectionRefused:
		return ErrConnectionRefused
	}
	return ErrNetwork
}

// NewNetworkError classifies a socket error into a *NetworkError.
// Transports use it so callers get the same atoms regardless of implementation.
func NewNetworkError(op string, err error) *NetworkError {
	atom := AtomNetworkError
	var nerr net.Error
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		atom = AtomTimeout
	case errors.As(err, &nerr) && nerr.Timeout():
		atom = AtomTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		atom = AtomConnectionRefused
	case errors.Is(err, syscall.EHOSTUNREACH):
		atom = AtomHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		atom = AtomNetworkUnreachable
	}
	return &NetworkError{Atom: atom, Op: op, Err: err}
}

func compactErrors(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Recoverable reports whether retrying the same request may succeed.
//
// Recoverable: timeouts, tooBig, genErr, transient network errors.
// Not recoverable: semantic agent errors (noSuchName, badValue, readOnly,
// noAccess, ...), host/network unreachable, connection refused, validation
// and codec errors, open circuit.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	var serr *SNMPError
	if errors.As(err, &serr) {
		return serr.Status == TooBig || serr.Status == GenErr
	}
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		switch nerr.Atom {
		case AtomHostUnreachable, AtomNetworkUnreachable, AtomConnectionRefused:
			return false
		}
		return true
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var neterr net.Error
	return errors.As(err, &neterr) && neterr.Timeout()
}

// ErrorCategory is the coarse class used for retry and breaker decisions.
type ErrorCategory string

const (
	CategoryTimeout        ErrorCategory = "timeout"
	CategoryNetwork        ErrorCategory = "network_error"
	CategoryAuthentication ErrorCategory = "authentication_error"
	CategoryProtocol       ErrorCategory = "protocol_error"
	CategoryAuthorization  ErrorCategory = "authorization_error"
	CategoryEncoding       ErrorCategory = "encoding_error"
	CategoryValidation     ErrorCategory = "validation_error"
	CategoryConfiguration  ErrorCategory = "configuration_error"
	CategoryResource       ErrorCategory = "resource_error"
	CategorySystem         ErrorCategory = "system_error"
	CategoryDevice         ErrorCategory = "device_error"
	CategoryV2cException   ErrorCategory = "v2c_exception"
	CategoryUnknown        ErrorCategory = "unknown_error"
)

// ClassifyContext describes the request an error came from.
// Only a v1 GETNEXT changes the outcome: there noSuchName marks the end of the view.
type ClassifyContext struct {
	PDUType PDUType
	Version Version
}

func statusCategory(s ErrorStatus, ctx ClassifyContext) ErrorCategory {
	switch s {
	case NoSuchName:
		// SNMPv1 agents end a GETNEXT walk with noSuchName
		if ctx.Version == V1 && ctx.PDUType == PDUGetNextRequest {
			return CategoryV2cException
		}
		return CategoryProtocol
	case TooBig, ResourceUnavailable:
		return CategoryResource
	case GenErr, CommitFailed, UndoFailed:
		return CategoryDevice
	case ReadOnly, NoAccess, AuthorizationError, NotWritable:
		return CategoryAuthorization
	case BadValue, WrongType, WrongLength, WrongEncoding, WrongValue,
		NoCreation, InconsistentValue, InconsistentName:
		return CategoryProtocol
	}
	return CategoryUnknown
}

// ClassifyError maps err to one of the fixed categories. nil gives CategoryUnknown.
func ClassifyError(err error, ctx ClassifyContext) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}
	var serr *SNMPError
	if errors.As(err, &serr) {
		return statusCategory(serr.Status, ctx)
	}
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		if nerr.Atom == AtomTimeout {
			return CategoryTimeout
		}
		return CategoryNetwork
	}
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrVersionViolation), errors.Is(err, ErrWrongValueType):
		return CategoryValidation
	case errors.Is(err, ErrEncode), errors.Is(err, ErrDecode):
		return CategoryEncoding
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, ErrNoSuchObject), errors.Is(err, ErrNoSuchInstance), errors.Is(err, ErrEndOfMibView):
		return CategoryV2cException
	case errors.Is(err, ErrAuthentication):
		return CategoryAuthentication
	case errors.Is(err, ErrRequestIDMismatch), errors.Is(err, ErrUnexpectedPDU),
		errors.Is(err, ErrOIDNotIncreasing), errors.Is(err, ErrTableBoundary):
		return CategoryProtocol
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrWalkLimit):
		return CategoryResource
	case errors.Is(err, ErrNameNotFound):
		return CategoryConfiguration
	case errors.Is(err, context.Canceled):
		return CategorySystem
	}
	var neterr net.Error
	if errors.As(err, &neterr) {
		if neterr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}
	return CategoryUnknown
}

// IsEndOfView reports errors that mean "the MIB view ends here" rather than failure.
func IsEndOfView(err error, ctx ClassifyContext) bool {
	if errors.Is(err, ErrEndOfMibView) {
		return true
	}
	var serr *SNMPError
	return errors.As(err, &serr) && ClassifyError(err, ctx) == CategoryV2cException
}

// BreakerRelevant reports categories that count as target failures.
// Local mistakes and in-band exceptions say nothing about target health.
func BreakerRelevant(c ErrorCategory) bool {
	switch c {
	case CategoryValidation, CategoryEncoding, CategoryConfiguration, CategoryV2cException:
		return false
	}
	return true
}

var atomSuggestions = map[ErrorAtom][]string{
	AtomTimeout: {
		"Increase the request timeout or the retry count",
		"Check that the agent is reachable and SNMP is enabled on it",
		"Verify the community string: agents drop requests with a wrong community silently",
	},
	AtomTooBig: {
		"Lower max-repetitions for GETBULK",
		"Request fewer varbinds per PDU",
	},
	AtomGenErr: {
		"Retry the request",
		"Check the agent logs for the failing subsystem",
	},
	AtomNoSuchName: {
		"Verify the OID exists on the agent",
		"Use GETNEXT or a walk to discover available instances",
	},
	AtomBadValue: {
		"Check the value type and range against the MIB definition",
	},
	AtomReadOnly: {
		"Use a read-write community",
		"Check that the object has MAX-ACCESS read-write",
	},
	AtomNoAccess: {
		"Check the agent view configuration for this community",
	},
	AtomNotWritable: {
		"Check that the object has MAX-ACCESS read-write or read-create",
	},
	AtomAuthorizationError: {
		"Check the agent access control for this community",
	},
	AtomWrongType: {
		"Send the value with the ASN.1 type defined in the MIB",
	},
	AtomWrongLength: {
		"Check the value length against the MIB SIZE constraint",
	},
	AtomWrongValue: {
		"Check the value range against the MIB definition",
	},
	AtomResourceUnavailable: {
		"Retry later, the agent is short of resources",
	},
	AtomHostUnreachable: {
		"Check routing to the target host",
		"Check firewalls between manager and agent",
	},
	AtomNetworkUnreachable: {
		"Check the local routing table",
	},
	AtomConnectionRefused: {
		"Check that the agent listens on the configured UDP port",
	},
}

var categorySuggestions = map[ErrorCategory][]string{
	CategoryValidation: {
		"Fix the request parameters, the request was rejected before sending",
		"Use SNMPv2c for GETBULK, exception values and error codes 6-18",
	},
	CategoryEncoding: {
		"Capture the traffic and check the agent BER encoding",
	},
	CategoryResource: {
		"Wait for the circuit breaker recovery timeout before retrying",
		"Reset the breaker if the target is known to be healthy again",
	},
	CategoryAuthentication: {
		"Verify the community string configured for the target",
	},
	CategoryConfiguration: {
		"Check the MIB name or load the missing definitions into the resolver",
	},
}

// GetRecoverySuggestions returns operator hints for err or ErrNoSuggestions.
func GetRecoverySuggestions(err error) ([]string, error) {
	if err == nil {
		return nil, ErrNoSuggestions
	}
	var atom ErrorAtom
	var serr *SNMPError
	var nerr *NetworkError
	switch {
	case errors.As(err, &serr):
		atom = serr.Atom()
	case errors.As(err, &nerr):
		atom = nerr.Atom
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		atom = AtomTimeout
	}
	if s, ok := atomSuggestions[atom]; ok {
		return append([]string(nil), s...), nil
	}
	if s, ok := categorySuggestions[ClassifyError(err, ClassifyContext{})]; ok {
		return append([]string(nil), s...), nil
	}
	return nil, ErrNoSuggestions
}
