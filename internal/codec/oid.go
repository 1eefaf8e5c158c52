// Package codec is the §4.A codec registry: encode/decode functions keyed
// by server type OID, covering text and binary formats, array wrapping, and
// cross-type coercion at decode. Grounded on the teacher's xsqlvar.go
// (xsqlvarTypeLength/xsqlvarTypeDisplayLength/(*xSQLVAR).value()/
// parseString — an OID-equivalent type-tag-keyed table in the Firebird
// dialect, generalized here to Postgres OIDs) and
// original_source/include/pq-async/pg_type_{net,geo,numeric,cash,range}_def.h
// for per-type wire layout.
package codec

// OID is a server-assigned type identifier (§4.A, Glossary).
type OID uint32

// Well-known scalar/base OIDs (matches the Postgres pg_type catalog).
const (
	OIDBool        OID = 16
	OIDBytea       OID = 17
	OIDChar        OID = 18
	OIDName        OID = 19
	OIDInt8        OID = 20
	OIDInt2        OID = 21
	OIDInt4        OID = 23
	OIDText        OID = 25
	OIDOid         OID = 26
	OIDJSON        OID = 114
	OIDPoint       OID = 600
	OIDLseg        OID = 601
	OIDPath        OID = 602
	OIDBox         OID = 603
	OIDPolygon     OID = 604
	OIDLine        OID = 628
	OIDCidr        OID = 650
	OIDFloat4      OID = 700
	OIDFloat8      OID = 701
	OIDCircle      OID = 718
	OIDMacAddr8    OID = 774
	OIDMoney       OID = 790
	OIDMacAddr     OID = 829
	OIDInet        OID = 869
	OIDBpchar      OID = 1042
	OIDVarchar     OID = 1043
	OIDDate        OID = 1082
	OIDTime        OID = 1083
	OIDTimestamp   OID = 1114
	OIDTimestampTZ OID = 1184
	OIDInterval    OID = 1186
	OIDTimeTZ      OID = 1266
	OIDNumeric     OID = 1700
	OIDUUID        OID = 2950
	OIDJSONB       OID = 3802
	OIDInt4Range   OID = 3904
	OIDNumRange    OID = 3906
	OIDTSRange     OID = 3908
	OIDTSTZRange   OID = 3910
	OIDDateRange   OID = 3912
	OIDInt8Range   OID = 3926
)

// Array OID for each element OID above (the server's standard "_"-prefixed
// array type naming convention; the client only needs the numeric
// correspondence to decode the dense multi-dimensional buffer of §4.A).
var arrayOID = map[OID]OID{
	OIDBool:        1000,
	OIDBytea:       1001,
	OIDChar:        1002,
	OIDName:        1003,
	OIDInt8:        1016,
	OIDInt2:        1005,
	OIDInt4:        1007,
	OIDText:        1009,
	OIDOid:         1028,
	OIDJSON:        199,
	OIDPoint:       1017,
	OIDLseg:        1018,
	OIDPath:        1019,
	OIDBox:         1020,
	OIDPolygon:     1027,
	OIDLine:        629,
	OIDCidr:        651,
	OIDFloat4:      1021,
	OIDFloat8:      1022,
	OIDCircle:      719,
	OIDMacAddr8:    775,
	OIDMoney:       791,
	OIDMacAddr:     1040,
	OIDInet:        1041,
	OIDBpchar:      1014,
	OIDVarchar:     1015,
	OIDDate:        1182,
	OIDTime:        1183,
	OIDTimestamp:   1115,
	OIDTimestampTZ: 1185,
	OIDInterval:    1187,
	OIDTimeTZ:      1270,
	OIDNumeric:     1231,
	OIDUUID:        2951,
	OIDJSONB:       3807,
}

var elementOID map[OID]OID

func init() {
	elementOID = make(map[OID]OID, len(arrayOID))
	for elem, arr := range arrayOID {
		elementOID[arr] = elem
	}
}

// ArrayOID returns the array type OID for a scalar element OID, and ok=false
// if this registry has no array mapping for it.
func ArrayOID(elem OID) (OID, bool) {
	a, ok := arrayOID[elem]
	return a, ok
}

// ElementOID returns the element OID for an array type OID.
func ElementOID(arr OID) (OID, bool) {
	e, ok := elementOID[arr]
	return e, ok
}

// IsArray reports whether oid is one of the registry's known array OIDs.
func IsArray(oid OID) bool {
	_, ok := elementOID[oid]
	return ok
}

// Format selects text (human-readable) or binary (fixed network byte
// order) wire representation (§4.A dimension 1).
type Format int16

const (
	FormatText   Format = 0
	FormatBinary Format = 1
)
