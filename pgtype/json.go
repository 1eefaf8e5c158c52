package pgtype

import (
	"encoding/json"

	pqcodec "github.com/pq-async/pqgo/internal/codec"

	perrors "github.com/pq-async/pqgo/errors"
)

// JSON holds a standard JSON AST value (§3 JSON: "null, bool, number,
// string, array, object"), decoded via encoding/json into its natural Go
// representation (map[string]any, []any, string, float64, bool, nil).
type JSON struct {
	Value any
}

func NewJSON(v any) JSON { return JSON{Value: v} }

func ParseJSON(text string) (JSON, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return JSON{}, perrors.Wrap(perrors.KindInvalidArgument, err, "invalid json text")
	}
	return JSON{Value: v}, nil
}

func (j JSON) String() string {
	b, err := json.Marshal(j.Value)
	if err != nil {
		return "null"
	}
	return string(b)
}

// DecodeJSON decodes the raw json wire bytes (§4.A json: no version byte).
func DecodeJSON(buf []byte) (JSON, error) {
	return ParseJSON(pqcodec.DecodeJSON(buf))
}

// DecodeJSONB decodes the jsonb wire bytes, stripping the version byte
// first (§4.A jsonb).
func DecodeJSONB(buf []byte) (JSON, error) {
	text, err := pqcodec.DecodeJSONB(buf)
	if err != nil {
		return JSON{}, err
	}
	return ParseJSON(text)
}

// EncodeJSON renders the raw json wire bytes.
func (j JSON) EncodeJSON() []byte { return pqcodec.EncodeJSON(j.String()) }

// EncodeJSONB renders the jsonb wire bytes with the version byte prefix.
func (j JSON) EncodeJSONB() []byte { return pqcodec.EncodeJSONB(j.String()) }
