// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import "time"

// ASN.1/BER tag encoding constants.
// Bits 7-6: Class (Universal=00, Application=01, Context=10, Private=11)
// Bit 5: Constructed flag (0=primitive, 1=constructed/compound like SEQUENCE)
// Bits 4-0: Tag Number
//
// Example: Class=0x01 (Application), Tag=0x03 → 0x43 (APPLICATION 3 = SNMP TIMETICKS)

const (
	// SNMP Application Types (Class=1)
	SNMP_type_IPADDR    = 0
	SNMP_type_COUNTER32 = 1
	SNMP_type_GAUGE32   = 2
	SNMP_type_TIMETICKS = 3
	SNMP_type_OPAQUE    = 4
	SNMP_type_COUNTER64 = 6

	// Limits & Defaults
	SNMP_MAXIMUMWALK              = 1000000
	SNMP_BUFFERSIZE               = 65535
	SNMP_MAXTIMEOUT_MS            = 10000
	SNMP_DEFAULTTIMEOUT_MS        = 300
	SNMP_MAXIMUM_RETRY            = 10
	SNMP_DEFAULTRETRY             = 3
	SNMP_DEFAULTPORT              = 161
	SNMP_MAXREPETITION            = 80
	SNMP_DEFAULTREPETITION        = 25
	SNMP_MAXBULKFIELD             = 65535
	SNMP_MAXREQUESTID             = 2147483647
	SNMP_MAXSUBID                 = 4294967295
	SNMP_MAXERRORSTATUS           = 18
	SNMP_FIRSTV2CERRORSTATUS      = 6
	SNMP_DEFAULTCOMMUNITY         = "public"
	SNMP_ADAPTIVEFASTRESPONSE     = 50 * time.Millisecond
	SNMP_BREAKERDEFAULTFAILURES   = 5
	SNMP_BREAKERDEFAULTRECOVERY   = 30 * time.Second
	SNMP_BREAKERDEFAULTCALLTIMOUT = 5 * time.Second

	// SNMPv2 Exception Tags (ContextSpecific)
	tagERR_noSuchObject           = 0
	tagandclassERR_noSuchObject   = 0x80
	tagERR_noSuchInstance         = 1
	tagandclassERR_noSuchInstance = 0x81
	tagERR_EndOfMib               = 2
	tagandclassERR_EndOfMib       = 0x82
)

const (
	// SNMP PDU context tags (RFC1157, RFC3416)
	SNMPv2_REQUEST_GET      = 0
	SNMPv2_REQUEST_GETNEXT  = 1
	SNMPv2_REQUEST_RESPONSE = 2
	SNMPv2_REQUEST_SET      = 3
	SNMPv2_REQUEST_GETBULK  = 5
)

const (
	// Wire values of msgVersion
	snmpWireVersionV1  = 0
	snmpWireVersionV2c = 1
)
