// Non-UTF8 client_encoding decoding for text/varchar/bpchar, mirroring the
// teacher's xsqlvar.go (*xSQLVAR).parseString charset switch one-for-one,
// generalized from Firebird charset names (UNICODE_FSS, SJIS_0208,
// ISO8859_1, ...) to the server's client_encoding parameter values
// (UTF8, SJIS, LATIN1, ...) surfaced over ParameterStatus (§6).
package codec

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	perrors "github.com/pq-async/pqgo/errors"
)

// clientEncodings maps the subset of Postgres's client_encoding values this
// client can re-decode into UTF-8 when the server was not asked (or cannot
// be asked) to do the conversion itself.
var clientEncodings = map[string]encoding.Encoding{
	"SJIS":         japanese.ShiftJIS,
	"EUC_JP":       japanese.EUCJP,
	"EUC_KR":       korean.EUCKR,
	"EUC_CN":       simplifiedchinese.GBK,
	"GBK":          simplifiedchinese.GBK,
	"GB18030":      simplifiedchinese.GB18030,
	"BIG5":         traditionalchinese.Big5,
	"LATIN1":       charmap.ISO8859_1,
	"LATIN2":       charmap.ISO8859_2,
	"LATIN3":       charmap.ISO8859_3,
	"LATIN4":       charmap.ISO8859_4,
	"ISO_8859_5":   charmap.ISO8859_5,
	"ISO_8859_6":   charmap.ISO8859_6,
	"ISO_8859_7":   charmap.ISO8859_7,
	"ISO_8859_8":   charmap.ISO8859_8,
	"WIN1250":      charmap.Windows1250,
	"WIN1251":      charmap.Windows1251,
	"WIN1252":      charmap.Windows1252,
	"KOI8R":        charmap.KOI8R,
	"KOI8U":        charmap.KOI8U,
}

// DecodeTextCharset decodes raw column bytes as UTF-8 text, converting from
// clientEncoding first when it names anything other than UTF8/SQL_ASCII
// (the common case where the server already sends UTF-8 and no conversion
// is needed).
func DecodeTextCharset(buf []byte, clientEncoding string) (string, error) {
	switch clientEncoding {
	case "", "UTF8", "UNICODE", "SQL_ASCII":
		return string(buf), nil
	}
	enc, ok := clientEncodings[clientEncoding]
	if !ok {
		return "", perrors.Newf(perrors.KindUnsupportedFormat, "unsupported client_encoding %q", clientEncoding)
	}
	out, err := enc.NewDecoder().Bytes(buf)
	if err != nil {
		return "", perrors.Wrapf(perrors.KindInvalidArgument, err, "decoding text as %s", clientEncoding)
	}
	return string(out), nil
}

// EncodeTextCharset is the inverse conversion, used when the caller binds a
// parameter under a non-UTF8 client_encoding.
func EncodeTextCharset(s string, clientEncoding string) ([]byte, error) {
	switch clientEncoding {
	case "", "UTF8", "UNICODE", "SQL_ASCII":
		return []byte(s), nil
	}
	enc, ok := clientEncodings[clientEncoding]
	if !ok {
		return nil, perrors.Newf(perrors.KindUnsupportedFormat, "unsupported client_encoding %q", clientEncoding)
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, perrors.Wrapf(perrors.KindInvalidArgument, err, "encoding text as %s", clientEncoding)
	}
	return out, nil
}
