//go:build !integration

// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseVersion(t *testing.T) {
	for in, want := range map[string]Version{"1": V1, "v1": V1, "2c": V2c, "V2C": V2c, " 2 ": V2c} {
		got, err := ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVersion("3")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "unknown(3)", Version(3).String())
}

func TestNewGetRequest(t *testing.T) {
	oids := []OID{MustParseOID(oidSysDescr), MustParseOID(oidSysName)}
	pdu, err := NewGetRequest(42, oids...)
	require.NoError(t, err)

	assert.Equal(t, PDUGetRequest, pdu.Type())
	assert.Equal(t, int32(42), pdu.RequestID())
	vbs := pdu.VarBinds()
	require.Len(t, vbs, 2)
	for i, vb := range vbs {
		assert.Equal(t, oids[i], vb.OID)
		assert.True(t, vb.Value.IsNull())
	}

	// the builder keeps its own copy
	oids[0][0] = 2
	vbs[1].OID[0] = 2
	assert.Equal(t, oidSysDescr, pdu.VarBinds()[0].OID.String())
	assert.Equal(t, oidSysName, pdu.VarBinds()[1].OID.String())
}

func TestNewRequest_Validation(t *testing.T) {
	_, err := NewGetRequest(1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewGetNextRequest(-1, MustParseOID(oidSysName))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewGetRequest(SNMP_MAXREQUESTID+1, MustParseOID(oidSysName))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	pdu, err := NewGetRequest(SNMP_MAXREQUESTID, MustParseOID(oidSysName))
	require.NoError(t, err)
	assert.Equal(t, int32(SNMP_MAXREQUESTID), pdu.RequestID())

	_, err = NewGetNextRequest(1, OID{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "varbinds[0].oid")
}

func TestNewRequest_AllViolationsReported(t *testing.T) {
	_, err := NewGetBulkRequest(-5, -1, 0, OID{1}, OID{5, 5})
	require.Error(t, err)
	errs := multierr.Errors(err)
	// request id, two OIDs, non-repeaters, max-repetitions
	assert.Len(t, errs, 5)

	var fields []string
	for _, e := range errs {
		var aerr *ArgumentError
		require.True(t, errors.As(e, &aerr), e.Error())
		fields = append(fields, aerr.Field)
	}
	assert.ElementsMatch(t, []string{"request_id", "varbinds[0].oid", "varbinds[1].oid", "non_repeaters", "max_repetitions"}, fields)
}

func TestNewSetRequest(t *testing.T) {
	pdu, err := NewSetRequest(7, VarBind{OID: MustParseOID(oidSysName), Value: StringValue("core-sw1")})
	require.NoError(t, err)
	assert.Equal(t, PDUSetRequest, pdu.Type())
	assert.Equal(t, "core-sw1", pdu.VarBinds()[0].Value.String())

	for _, v := range []SNMPVar{NullValue(), NoSuchObjectValue(), EndOfMibViewValue()} {
		_, err := NewSetRequest(7, VarBind{OID: MustParseOID(oidSysName), Value: v})
		assert.ErrorIs(t, err, ErrInvalidArgument, Convert_ClassTag_to_String(v))
	}
}

func TestNewGetBulkRequest(t *testing.T) {
	oids := []OID{MustParseOID("1.3.6.1.2.1.1.3.0"), MustParseOID(oidIfTable + ".1.2"), MustParseOID(oidIfTable + ".1.10")}
	pdu, err := NewGetBulkRequest(3, 1, 25, oids...)
	require.NoError(t, err)
	assert.Equal(t, 1, pdu.NonRepeaters())
	assert.Equal(t, 25, pdu.MaxRepetitions())
	assert.Len(t, pdu.VarBinds(), 3)

	capped, err := NewGetBulkRequest(3, 10, 25, oids...)
	require.NoError(t, err)
	assert.Equal(t, 3, capped.NonRepeaters())

	_, err = NewGetBulkRequest(3, 0, 0, oids...)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewGetBulkRequest(3, 0, SNMP_MAXBULKFIELD+1, oids...)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewGetBulkRequest(3, SNMP_MAXBULKFIELD+1, 1, oids...)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewGetResponse(t *testing.T) {
	empty, err := NewGetResponse(9, TooBig, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.VarBinds())
	assert.Equal(t, TooBig, empty.ErrorStatus())

	vb := VarBind{OID: MustParseOID(oidSysName), Value: StringValue("x")}
	resp, err := NewGetResponse(9, NoSuchName, 1, vb)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ErrorIndex())

	_, err = NewGetResponse(9, NoError, 2, vb)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewGetResponse(9, ErrorStatus(19), 0, vb)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewGetResponse(9, ErrorStatus(-1), 0, vb)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidatePDU(t *testing.T) {
	get, err := NewGetRequest(1, MustParseOID(oidSysName))
	require.NoError(t, err)
	assert.NoError(t, ValidatePDU(get))

	assert.ErrorIs(t, ValidatePDU(nil), ErrInvalidArgument)
	var nilBulk *GetBulkRequest
	assert.ErrorIs(t, ValidatePDU(nilBulk), ErrInvalidArgument)

	bulk := &GetBulkRequest{
		pduHeader:      pduHeader{requestID: 1, varBinds: nullVarBinds([]OID{MustParseOID(oidSysName)})},
		nonRepeaters:   2,
		maxRepetitions: 10,
	}
	assert.ErrorIs(t, ValidatePDU(bulk), ErrInvalidArgument)

	resp := &GetResponse{pduHeader: pduHeader{requestID: 1}, errorStatus: GenErr, errorIndex: 3}
	assert.ErrorIs(t, ValidatePDU(resp), ErrInvalidArgument)
}

func TestPDUType(t *testing.T) {
	assert.Equal(t, byte(0xA1), PDUGetNextRequest.Tag())
	assert.Equal(t, "GetBulkRequest", PDUGetBulkRequest.String())
	assert.Equal(t, "PDU(4)", PDUType(4).String())
	assert.False(t, PDUType(4).valid())
	assert.False(t, PDUType(6).valid())
}
