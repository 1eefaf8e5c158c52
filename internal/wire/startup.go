package wire

// BuildStartup frames the untyped startup message: protocol version 3.0,
// then key/value pairs, terminated by a zero byte (§6 "startup with user,
// database, replication=off").
func BuildStartup(params map[string]string) []byte {
	b := NewBuilder(0)
	b.Int32(196608) // protocol version 3.0: 3<<16 | 0
	for k, v := range params {
		b.CString(k)
		b.CString(v)
	}
	b.Byte(0)
	return b.Build()
}

// BuildSSLRequest frames the special SSLRequest message (no type byte,
// fixed magic code), sent before the startup message when sslmode requires it.
func BuildSSLRequest() []byte {
	b := NewBuilder(0)
	b.Int32(80877103)
	return b.Build()
}

// BuildPasswordMessage frames a PasswordMessage ('p') carrying a
// null-terminated credential (cleartext, MD5-hex, or a SASL payload).
func BuildPasswordMessage(payload []byte) []byte {
	b := NewBuilder(TagPasswordMessage)
	b.Bytes(payload)
	return b.Build()
}

// BuildSASLInitialResponse frames the SASLInitialResponse carried inside a
// PasswordMessage: mechanism name, then int32 length-prefixed client-first
// message (or -1 for none).
func BuildSASLInitialResponse(mechanism string, clientFirst []byte) []byte {
	b := NewBuilder(TagPasswordMessage)
	b.CString(mechanism)
	b.Bytes32(clientFirst)
	return b.Build()
}

// BuildSASLResponse frames a SASLResponse ('p') carrying the raw
// client-final message with no extra framing beyond the message itself.
func BuildSASLResponse(payload []byte) []byte {
	b := NewBuilder(TagPasswordMessage)
	b.Bytes(payload)
	return b.Build()
}

// BuildQuery frames a simple Query ('Q') message.
func BuildQuery(sql string) []byte {
	b := NewBuilder(TagQuery)
	b.CString(sql)
	return b.Build()
}

// BuildParse frames a Parse ('P') message: statement name, sql text, then
// parameter-OID count and the OIDs themselves.
func BuildParse(name, sql string, paramOIDs []uint32) []byte {
	b := NewBuilder(TagParse)
	b.CString(name)
	b.CString(sql)
	b.Int16(int16(len(paramOIDs)))
	for _, oid := range paramOIDs {
		b.Int32(int32(oid))
	}
	return b.Build()
}

// BindParam is one already-encoded bind parameter.
type BindParam struct {
	Format int16 // 0 text, 1 binary
	Value  []byte
}

// BuildBind frames a Bind ('B') message binding portal<-statement with the
// given parameter formats/values and the requested result-column formats.
func BuildBind(portal, statement string, params []BindParam, resultFormats []int16) []byte {
	b := NewBuilder(TagBind)
	b.CString(portal)
	b.CString(statement)
	b.Int16(int16(len(params)))
	for _, p := range params {
		b.Int16(p.Format)
	}
	b.Int16(int16(len(params)))
	for _, p := range params {
		b.Bytes32(p.Value)
	}
	b.Int16(int16(len(resultFormats)))
	for _, f := range resultFormats {
		b.Int16(f)
	}
	return b.Build()
}

// DescribeTarget selects whether Describe targets a statement ('S') or a
// portal ('P').
type DescribeTarget byte

const (
	DescribeStatement DescribeTarget = 'S'
	DescribePortal     DescribeTarget = 'P'
)

func BuildDescribe(target DescribeTarget, name string) []byte {
	b := NewBuilder(TagDescribe)
	b.Byte(byte(target))
	b.CString(name)
	return b.Build()
}

// BuildExecute frames an Execute ('E') message: portal name and a row-limit
// (0 meaning "no limit", §4.F extended query).
func BuildExecute(portal string, rowLimit int32) []byte {
	b := NewBuilder(TagExecute)
	b.CString(portal)
	b.Int32(rowLimit)
	return b.Build()
}

func BuildSync() []byte { return NewBuilder(TagSync).Build() }

func BuildFlush() []byte { return NewBuilder(TagFlush).Build() }

// BuildClose frames a Close ('C') message for a statement or portal.
func BuildClose(target DescribeTarget, name string) []byte {
	b := NewBuilder(TagClose)
	b.Byte(byte(target))
	b.CString(name)
	return b.Build()
}

func BuildTerminate() []byte { return NewBuilder(TagTerminate).Build() }

func BuildCopyData(data []byte) []byte {
	b := NewBuilder(TagCopyData)
	b.Bytes(data)
	return b.Build()
}

func BuildCopyDone() []byte { return NewBuilder(TagCopyDone).Build() }

func BuildCopyFail(reason string) []byte {
	b := NewBuilder(TagCopyFail)
	b.CString(reason)
	return b.Build()
}

// BuildFunctionCall frames a FunctionCall ('F') message, used by the
// large-object lo_* protocol extension which is exposed via the server's
// built-in functions rather than a dedicated message type.
func BuildFunctionCall(oid uint32, argFormats []int16, args [][]byte, resultFormat int16) []byte {
	b := NewBuilder(TagFunctionCall)
	b.Int32(int32(oid))
	b.Int16(int16(len(argFormats)))
	for _, f := range argFormats {
		b.Int16(f)
	}
	b.Int16(int16(len(args)))
	for _, a := range args {
		b.Bytes32(a)
	}
	b.Int16(resultFormat)
	return b.Build()
}
