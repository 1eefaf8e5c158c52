// Package result implements the row/table model of §4.E and §3 "Rows and
// tables": a column is (oid, index, lowercased name, format); a row is a
// vector of opaque byte buffers plus a shared column list; a table is an
// ordered sequence of rows. Grounded on original_source/src/data_column.h/
// .cpp, src/data_table.cpp, src/data_value.h/.cpp.
package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqdec "github.com/pq-async/pqgo/internal/decimal"

	perrors "github.com/pq-async/pqgo/errors"
	"github.com/pq-async/pqgo/pgtype"
	"github.com/shopspring/decimal"
)

// moneyFractionalDigits is the handle-level fractional-digits count applied
// to decoded money cells (Open Question resolution, see DESIGN.md: the
// count is configured, never read from the ambient locale). cmd/pqcli feeds
// config.Options.MoneyFractionalDigits through SetMoneyFractionalDigits at
// startup; the db handle does not set it.
var (
	moneyMu               sync.RWMutex
	moneyFractionalDigits = 2
)

// SetMoneyFractionalDigits overrides the fractional-digits count used to
// decode money cells into pgtype.Money. Safe to call concurrently with
// decoding; it does not affect cells already decoded.
func SetMoneyFractionalDigits(n int) {
	moneyMu.Lock()
	defer moneyMu.Unlock()
	moneyFractionalDigits = n
}

// MoneyFractionalDigits returns the count SetMoneyFractionalDigits last
// configured (default 2).
func MoneyFractionalDigits() int {
	moneyMu.RLock()
	defer moneyMu.RUnlock()
	return moneyFractionalDigits
}

// Column describes one result column (§3 Rows and tables).
type Column struct {
	Name   string // lowercased, for case-insensitive lookup
	OID    pqcodec.OID
	Index  int
	Format pqcodec.Format
}

// Columns is the immutable column list shared by every row of one Table
// (§9: "column-list is an immutable value owned by the table; rows hold an
// index plus a borrow of the column-list").
type Columns struct {
	list []Column
	byName map[string]int
}

func NewColumns(cols []Column) *Columns {
	byName := make(map[string]int, len(cols))
	for i := range cols {
		cols[i].Index = i
		cols[i].Name = strings.ToLower(cols[i].Name)
		byName[cols[i].Name] = i
	}
	return &Columns{list: cols, byName: byName}
}

func (c *Columns) Len() int         { return len(c.list) }
func (c *Columns) At(i int) Column  { return c.list[i] }
func (c *Columns) IndexOf(name string) (int, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	return i, ok
}

// Row is a vector of opaque byte buffers (nil meaning SQL NULL) plus a
// borrow of the table's column list.
type Row struct {
	cols   *Columns
	values [][]byte
}

func NewRow(cols *Columns, values [][]byte) Row {
	return Row{cols: cols, values: values}
}

func (r Row) resolveIndex(nameOrIndex any) (int, error) {
	switch v := nameOrIndex.(type) {
	case int:
		if v < 0 || v >= len(r.values) {
			return 0, perrors.Newf(perrors.KindUnknownColumn, "column index %d out of range", v)
		}
		return v, nil
	case string:
		i, ok := r.cols.IndexOf(v)
		if !ok {
			return 0, perrors.Newf(perrors.KindUnknownColumn, "no column named %q", v)
		}
		return i, nil
	}
	return 0, perrors.Newf(perrors.KindInvalidArgument, "column selector must be int or string, got %T", nameOrIndex)
}

// Cell is a thin handle over one row's raw bytes plus its column
// back-reference (§3: "implicitly convertible to every registered native
// type"). Go has no implicit conversions, so conversion is explicit via the
// As* accessors below instead.
type Cell struct {
	col pqcodec.OID
	fmt pqcodec.Format
	buf []byte
	isNull bool
}

func (r Row) Cell(nameOrIndex any) (Cell, error) {
	i, err := r.resolveIndex(nameOrIndex)
	if err != nil {
		return Cell{}, err
	}
	col := r.cols.At(i)
	buf := r.values[i]
	return Cell{col: col.OID, fmt: col.Format, buf: buf, isNull: buf == nil}, nil
}

func (c Cell) IsNull() bool { return c.isNull }

// decode dispatches through the codec registry (§4.E accessors), then wraps
// the registry's internal wire-shaped types into this module's public
// pgtype.* value types for every OID that has one. Range<T> is the one
// exception: its element type isn't known until the caller names T via
// AsRange, so a range cell is left as pqcodec.RawRange here.
func (c Cell) decode() (any, error) {
	if c.isNull {
		return nil, perrors.New(perrors.KindNullValue, "cell is null")
	}
	if c.fmt == pqcodec.FormatBinary {
		switch c.col {
		case pqcodec.OIDMoney:
			v, err := pqcodec.DecodeMoney(c.buf)
			if err != nil {
				return nil, err
			}
			return pgtype.Money{Scaled: v, FractionalDigits: MoneyFractionalDigits()}, nil
		case pqcodec.OIDPoint:
			return pgtype.DecodePoint(c.buf)
		case pqcodec.OIDLine:
			return pgtype.DecodeLine(c.buf)
		case pqcodec.OIDLseg:
			return pgtype.DecodeLseg(c.buf)
		case pqcodec.OIDBox:
			return pgtype.DecodeBox(c.buf)
		case pqcodec.OIDPath:
			return pgtype.DecodePath(c.buf)
		case pqcodec.OIDPolygon:
			return pgtype.DecodePolygon(c.buf)
		case pqcodec.OIDCircle:
			return pgtype.DecodeCircle(c.buf)
		case pqcodec.OIDInet:
			return pgtype.DecodeInet(c.buf)
		case pqcodec.OIDCidr:
			return pgtype.DecodeCidr(c.buf)
		case pqcodec.OIDMacAddr:
			return pgtype.DecodeMacAddr(c.buf)
		case pqcodec.OIDMacAddr8:
			return pgtype.DecodeMacAddr8(c.buf)
		case pqcodec.OIDUUID:
			return pgtype.DecodeUUID(c.buf)
		case pqcodec.OIDJSON:
			return pgtype.DecodeJSON(c.buf)
		case pqcodec.OIDJSONB:
			return pgtype.DecodeJSONB(c.buf)
		}
	}
	return pqcodec.Decode(c.col, c.fmt, c.buf)
}

// As decodes the cell as the requested native type, failing with
// *null-value*, *unknown-column* (resolved earlier in Cell()), or
// *type-mismatch* as documented in §4.E.
func As[T any](r Row, nameOrIndex any) (T, error) {
	var zero T
	cell, err := r.Cell(nameOrIndex)
	if err != nil {
		return zero, err
	}
	v, err := cell.decode()
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, perrors.Newf(perrors.KindTypeMismatch, "cell holds %T, requested %T", v, zero)
	}
	return t, nil
}

// AsNullable decodes into (T, ok): ok is false and T's zero value is
// returned when the cell is null, rather than failing (§3: "a nullable
// variant is available for every temporal type; nullness is a flag on the
// value").
func AsNullable[T any](r Row, nameOrIndex any) (T, bool, error) {
	var zero T
	cell, err := r.Cell(nameOrIndex)
	if err != nil {
		return zero, false, err
	}
	if cell.isNull {
		return zero, false, nil
	}
	v, err := cell.decode()
	if err != nil {
		return zero, false, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, perrors.Newf(perrors.KindTypeMismatch, "cell holds %T, requested %T", v, zero)
	}
	return t, true, nil
}

// Decimal decodes a numeric cell into github.com/shopspring/decimal's
// public Decimal type, for callers that already carry it as their
// application-wide numeric type rather than this module's internal
// arbitrary-precision engine.
func (r Row) Decimal(nameOrIndex any) (decimal.Decimal, error) {
	d, err := As[pqdec.Decimal](r, nameOrIndex)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(d.String())
}

// AsArray requires the column OID to be an array OID and decodes the
// envelope's dimensionality against dims (§4.E as_array<T,dims>).
func (r Row) AsArray(nameOrIndex any, dims int) (pqcodec.RawArray, error) {
	cell, err := r.Cell(nameOrIndex)
	if err != nil {
		return pqcodec.RawArray{}, err
	}
	if !pqcodec.IsArray(cell.col) {
		return pqcodec.RawArray{}, perrors.Newf(perrors.KindTypeMismatch, "oid %d is not an array type", cell.col)
	}
	raw, err := pqcodec.DecodeArrayHeader(cell.buf)
	if err != nil {
		return pqcodec.RawArray{}, err
	}
	if err := raw.RequireDims(dims); err != nil {
		return pqcodec.RawArray{}, err
	}
	return raw, nil
}

// rangeElementDecoder picks the per-element decode function for a range
// column's OID and casts its result to T, failing with *type-mismatch* if T
// doesn't match what that range OID actually carries. A free function,
// like AsRange itself, for the same reason As/AsNullable are free functions
// (a method can't introduce its own type parameter on a non-generic
// receiver).
func rangeElementDecoder[T any](rangeOID pqcodec.OID) (func([]byte) (T, error), error) {
	var zero T
	var decode func([]byte) (any, error)
	switch rangeOID {
	case pqcodec.OIDInt4Range:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeInt4(b) }
	case pqcodec.OIDInt8Range:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeInt8(b) }
	case pqcodec.OIDNumRange:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeNumeric(b) }
	case pqcodec.OIDDateRange:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeDate(b) }
	case pqcodec.OIDTSRange:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeTimestamp(b) }
	case pqcodec.OIDTSTZRange:
		decode = func(b []byte) (any, error) { return pqcodec.DecodeTimestampTZ(b) }
	default:
		return nil, perrors.Newf(perrors.KindTypeMismatch, "oid %d is not a range type", rangeOID)
	}
	return func(buf []byte) (T, error) {
		v, err := decode(buf)
		if err != nil {
			return zero, err
		}
		t, ok := v.(T)
		if !ok {
			return zero, perrors.Newf(perrors.KindTypeMismatch, "range element decodes as %T, requested %T", v, zero)
		}
		return t, nil
	}, nil
}

// AsRange decodes a range<T> cell into pgtype.Range[T] (§3 Range<T>),
// choosing the per-element decoder from the column's range OID (int4range,
// int8range, numrange, daterange, tsrange, tstzrange).
func AsRange[T any](r Row, nameOrIndex any) (pgtype.Range[T], error) {
	cell, err := r.Cell(nameOrIndex)
	if err != nil {
		return pgtype.Range[T]{}, err
	}
	if cell.isNull {
		return pgtype.Range[T]{}, perrors.New(perrors.KindNullValue, "cell is null")
	}
	elemDecode, err := rangeElementDecoder[T](cell.col)
	if err != nil {
		return pgtype.Range[T]{}, err
	}
	return pgtype.DecodeRange(cell.buf, elemDecode)
}

// Table owns the column list and an ordered sequence of rows (§3 Rows and
// tables: "iteration order is insertion order").
type Table struct {
	Cols *Columns
	Rows []Row
}

func NewTable(cols *Columns) *Table {
	return &Table{Cols: cols}
}

func (t *Table) Append(values [][]byte) {
	t.Rows = append(t.Rows, NewRow(t.Cols, values))
}

// ToJSON projects the table to a JSON array of objects keyed by lowercased
// column name (§3: "to_json projects to a JSON array of objects").
func (t *Table) ToJSON() (string, error) {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]any, t.Cols.Len())
		for i := 0; i < t.Cols.Len(); i++ {
			col := t.Cols.At(i)
			cell, err := row.Cell(i)
			if err != nil {
				return "", err
			}
			if cell.isNull {
				obj[col.Name] = nil
				continue
			}
			v, err := cell.decode()
			if err != nil {
				return "", err
			}
			obj[col.Name] = jsonable(v)
		}
		out = append(out, obj)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", perrors.Wrap(perrors.KindInvalidArgument, err, "json projection failed")
	}
	return string(b), nil
}

// jsonable converts decoder output (pqdec.Decimal, time.Time, etc.) into a
// representation encoding/json can marshal directly.
func jsonable(v any) any {
	switch t := v.(type) {
	case pqdec.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case pgtype.JSON:
		return t.Value
	case fmt.Stringer:
		// Covers every pgtype.* wrapper (Money, Inet, Cidr, MacAddr(8),
		// Point, Line, Lseg, Box, Path, Polygon, Circle, UUID): each has a
		// to_string()-style presentation method and no other sensible JSON
		// projection.
		return t.String()
	default:
		return v
	}
}
