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
)

// maxOIDLength is the sub-identifier limit of RFC2578 §3.5.
const maxOIDLength = 128

// OID is an SNMP object identifier as raw decimal sub-identifiers.
//
//	OID{1,3,6,1,2,1,1,1,0} → "1.3.6.1.2.1.1.1.0" (sysDescr.0)
//
// Values are never modified in place: Append and Clone return new slices,
// and builders copy the OIDs they are given.
type OID []int

// ParseOID parses dotted decimal text.
//
// Fails with ErrInvalidFormat on:
//   - empty text
//   - leading or trailing dot (".1.3", "1.3.")
//   - empty segment ("1..3")
//   - non-numeric or negative segment ("1.a", "1.-3")
//   - segment above 4294967295
func ParseOID(text string) (OID, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty OID", ErrInvalidFormat)
	}
	if strings.HasPrefix(text, ".") || strings.HasSuffix(text, ".") {
		return nil, fmt.Errorf("%w: %q: leading or trailing dot", ErrInvalidFormat, text)
	}
	parts := strings.Split(text, ".")
	oid := make(OID, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q: empty segment at position %d", ErrInvalidFormat, text, i)
		}
		if part[0] == '-' {
			return nil, fmt.Errorf("%w: %q: negative segment %s", ErrInvalidFormat, text, part)
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: %q: non-numeric segment %q", ErrInvalidFormat, text, part)
			}
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: segment %s out of range", ErrInvalidFormat, text, part)
		}
		oid = append(oid, int(v))
	}
	return oid, nil
}

// MustParseOID is ParseOID for package-level constants. Panics on bad input.
func MustParseOID(text string) OID {
	oid, err := ParseOID(text)
	if err != nil {
		panic(err)
	}
	return oid
}

// NewOID validates a numeric list the same way ParseOID validates text.
func NewOID(components ...int) (OID, error) {
	oid := OID(components).Clone()
	if err := oid.Validate(); err != nil {
		return nil, err
	}
	return oid, nil
}

// Validate checks that every component is a valid unsigned 32-bit sub-identifier.
func (o OID) Validate() error {
	for i, c := range o {
		if c < 0 {
			return fmt.Errorf("%w: component %d is negative (%d)", ErrInvalidFormat, i, c)
		}
		if int64(c) > SNMP_MAXSUBID {
			return fmt.Errorf("%w: component %d exceeds 32 bits (%d)", ErrInvalidFormat, i, c)
		}
	}
	return nil
}

// validateWire adds the constraints of BER OID encoding (X.690 §8.19) and
// RFC2578 length limit on top of Validate. Used for OIDs that go on the wire.
func (o OID) validateWire() error {
	if err := o.Validate(); err != nil {
		return err
	}
	switch {
	case len(o) < 2:
		return fmt.Errorf("%w: %q: at least two sub-identifiers required", ErrInvalidFormat, o.String())
	case len(o) > maxOIDLength:
		return fmt.Errorf("%w: %d sub-identifiers, maximum is %d", ErrInvalidFormat, len(o), maxOIDLength)
	case o[0] > 2:
		return fmt.Errorf("%w: %q: first arc must be 0, 1 or 2", ErrInvalidFormat, o.String())
	case o[0] < 2 && o[1] >= 40:
		return fmt.Errorf("%w: %q: second arc must be below 40", ErrInvalidFormat, o.String())
	}
	return nil
}

// String returns dotted decimal notation. Empty OID gives "".
func (o OID) String() string {
	var sb strings.Builder
	for i, c := range o {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// Compare orders OIDs lexicographically: -1 if o < other, 0 if equal, +1 if o > other.
// A strict prefix sorts before any OID that extends it.
func (o OID) Compare(other OID) int {
	n := min(len(o), len(other))
	for i := 0; i < n; i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return 0
}

// CompareOIDs is Compare as a function, for slices.SortFunc and friends.
func CompareOIDs(a, b OID) int {
	return a.Compare(b)
}

// HasPrefix reports whether o starts with prefix. Every OID has the empty prefix.
func (o OID) HasPrefix(prefix OID) bool {
	return InSubTreeCheck(prefix, o)
}

// Equal reports component-wise equality.
func (o OID) Equal(other OID) bool {
	return o.Compare(other) == 0
}

// Append returns a new OID with components added. o is not modified.
func (o OID) Append(components ...int) OID {
	out := make(OID, 0, len(o)+len(components))
	out = append(out, o...)
	return append(out, components...)
}

// Clone returns a copy that shares no memory with o.
func (o OID) Clone() OID {
	if o == nil {
		return nil
	}
	out := make(OID, len(o))
	copy(out, o)
	return out
}

// TrimPrefix returns the components after prefix (the instance index of a
// table cell, for example) and whether o actually had that prefix.
func (o OID) TrimPrefix(prefix OID) (OID, bool) {
	if !o.HasPrefix(prefix) {
		return nil, false
	}
	return o[len(prefix):].Clone(), true
}

// InSubTreeCheck determines if OidCurrent is within the OidMain MIB subtree.
//
// Returns true if OidCurrent starts with OidMain prefix (e.g. 1.3.6.1.2.1 → 1.3.6.1.2.1.1).
// Used in walks to detect when leaving the target subtree.
//
// Example:
//
//	InSubTreeCheck([1,3,6,1,2,1], [1,3,6,1,2,1,1,1])  // true (system.1.1)
//	InSubTreeCheck([1,3,6,1,2,1], [1,3,6,1,2,2,1])    // false (interfaces.1)
func InSubTreeCheck(OidMain []int, OidCurrent []int) bool {
	if len(OidCurrent) < len(OidMain) {
		return false
	}
	for OidElementIndex, OidElement := range OidMain {
		if OidElement != OidCurrent[OidElementIndex] {
			return false
		}
	}
	return true
}

// Convert_OID_StringToIntArray_RAW converts OID string to raw decimal int array.
//
// Tolerates one leading/trailing dot as net-snmp tools print them
// (".1.3.6.1.2.1" → [1,3,6,1,2,1]); everything else follows ParseOID.
//
// SNMP Walk usage:
//
//	ifTableOID, _ := Convert_OID_StringToIntArray_RAW("1.3.6.1.2.1.2.2.1")
//	rows, _ := client.Walk(ctx, target, ifTableOID)
func Convert_OID_StringToIntArray_RAW(OIDStr string) (OIDIntArray []int, err error) {
	OIDStr = strings.TrimPrefix(strings.TrimSuffix(OIDStr, "."), ".")
	oid, err := ParseOID(OIDStr)
	if err != nil {
		return nil, err
	}
	return oid, nil
}

// Convert_OID_IntArrayToString_RAW - raw OID array → dotted string.
//
//	[1,3,6,1,2,1,2,2,1,2,1] → "1.3.6.1.2.1.2.2.1.2.1"
func Convert_OID_IntArrayToString_RAW(OIDIntArray []int) (OIDStr string) {
	return OID(OIDIntArray).String()
}
