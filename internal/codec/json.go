// json/jsonb wire codecs (§3 JSON, §4.A json/jsonb). json is stored as raw
// text on the wire in both formats; jsonb additionally carries a leading
// version byte (currently always 1) ahead of the same text.
package codec

import perrors "github.com/pq-async/pqgo/errors"

const jsonbVersion byte = 1

// EncodeJSON returns the raw text bytes (§4.A json: "raw text, no version byte").
func EncodeJSON(text string) []byte { return []byte(text) }

// DecodeJSON returns the raw text bytes as-is.
func DecodeJSON(buf []byte) string { return string(buf) }

// EncodeJSONB prefixes the text with the version byte (§4.A jsonb).
func EncodeJSONB(text string) []byte {
	out := make([]byte, 0, len(text)+1)
	out = append(out, jsonbVersion)
	out = append(out, text...)
	return out
}

// DecodeJSONB strips and validates the version byte.
func DecodeJSONB(buf []byte) (string, error) {
	if len(buf) < 1 {
		return "", perrors.New(perrors.KindTypeMismatch, "jsonb payload missing version byte")
	}
	if buf[0] != jsonbVersion {
		return "", perrors.Newf(perrors.KindUnsupportedFormat, "unsupported jsonb version byte 0x%x", buf[0])
	}
	return string(buf[1:]), nil
}
