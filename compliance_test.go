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

func TestIsPDULegal(t *testing.T) {
	for _, pt := range []PDUType{PDUGetRequest, PDUGetNextRequest, PDUGetResponse, PDUSetRequest} {
		assert.True(t, IsPDULegal(pt, V1), pt.String())
		assert.True(t, IsPDULegal(pt, V2c), pt.String())
	}
	assert.False(t, IsPDULegal(PDUGetBulkRequest, V1))
	assert.True(t, IsPDULegal(PDUGetBulkRequest, V2c))
	assert.False(t, IsPDULegal(PDUType(4), V2c))
}

func TestIsErrorStatusLegal(t *testing.T) {
	for s := NoError; s <= InconsistentName; s++ {
		assert.Equal(t, s <= GenErr, IsErrorStatusLegal(s, V1), s.String())
		assert.True(t, IsErrorStatusLegal(s, V2c), s.String())
	}
	assert.False(t, IsErrorStatusLegal(ErrorStatus(19), V2c))
	assert.False(t, IsErrorStatusLegal(NoError, Version(3)))
}

func TestBuildMessage(t *testing.T) {
	get, err := NewGetRequest(1, MustParseOID(oidSysDescr))
	require.NoError(t, err)

	community := []byte("private")
	msg, err := BuildMessage(get, community, V1)
	require.NoError(t, err)
	community[0] = 'X'
	assert.Equal(t, []byte("private"), msg.Community)
	assert.Equal(t, V1, msg.Version)

	msg, err = BuildMessage(get, nil, V2c)
	require.NoError(t, err)
	assert.NotNil(t, msg.Community)
	assert.Empty(t, msg.Community)

	_, err = BuildMessage(get, nil, Version(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = BuildMessage(nil, nil, V2c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuildMessage_GetBulkV1(t *testing.T) {
	bulk, err := NewGetBulkRequest(1, 0, 10, MustParseOID("1.3.6.1.2.1"))
	require.NoError(t, err)

	_, err = BuildMessage(bulk, []byte("public"), V1)
	require.ErrorIs(t, err, ErrVersionViolation)
	var verr *VersionViolationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "GETBULK", verr.Feature)
	assert.Equal(t, V2c, verr.Required)
	assert.Equal(t, V1, verr.Actual)
	assert.Equal(t, CategoryValidation, ClassifyError(err, ClassifyContext{}))

	_, _, err = BuildMessageLenient(bulk, []byte("public"), V1)
	assert.ErrorIs(t, err, ErrVersionViolation)

	_, err = BuildMessage(bulk, []byte("public"), V2c)
	assert.NoError(t, err)
}

func TestBuildMessage_V1Response(t *testing.T) {
	resp, err := NewGetResponse(1, NotWritable, 2,
		VarBind{OID: MustParseOID(oidSysDescr), Value: NoSuchObjectValue()},
		VarBind{OID: MustParseOID(oidSysName), Value: EndOfMibViewValue()},
	)
	require.NoError(t, err)

	_, err = BuildMessage(resp, []byte("public"), V1)
	require.ErrorIs(t, err, ErrVersionViolation)
	// error-status and both exception values
	assert.Len(t, multierr.Errors(err), 3)

	msg, warnings, err := BuildMessageLenient(resp, []byte("public"), V1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.ErrorIs(t, warnings, ErrVersionViolation)
	assert.Len(t, multierr.Errors(warnings), 3)

	msg, warnings, err = BuildMessageLenient(resp, []byte("public"), V2c)
	require.NoError(t, err)
	assert.NotNil(t, msg)
	assert.NoError(t, warnings)
}

func TestBuildMessage_V1LegalResponse(t *testing.T) {
	resp, err := NewGetResponse(1, GenErr, 1, VarBind{OID: MustParseOID(oidSysDescr), Value: NullValue()})
	require.NoError(t, err)
	_, err = BuildMessage(resp, []byte("public"), V1)
	assert.NoError(t, err)
}

func TestCheckCompliance(t *testing.T) {
	assert.ErrorIs(t, CheckCompliance(nil), ErrInvalidArgument)

	resp, err := NewGetResponse(1, NoError, 0, VarBind{OID: MustParseOID(oidSysName), Value: NoSuchInstanceValue()})
	require.NoError(t, err)
	assert.NoError(t, CheckCompliance(&Message{Version: V2c, PDU: resp}))
	assert.ErrorIs(t, CheckCompliance(&Message{Version: V1, PDU: resp}), ErrVersionViolation)
}
