package dbf

import (
	"strconv"
	"strings"
	"time"
)

// decodeContext is the narrow capability a field decoder needs: an
// encoding for text bytes and, only for memo fields, a resolver over the
// sidecar memo container. Only the memo decoder touches the sidecar;
// every other decoder ignores it entirely.
type decodeContext struct {
	encoding Encoding
	memo     MemoContainer // nil when no sidecar is open
}

// decodeFunc parses the fixed-width bytes of one field into a FieldValue.
type decodeFunc func(ctx *decodeContext, raw []byte) (FieldValue, error)

// decoders dispatches on the field-type tag byte. It is the exhaustive,
// allocation-free case match the design notes ask for in place of
// per-descriptor polymorphic decoder objects.
var decoders = map[byte]decodeFunc{
	'C': decodeText,
	'D': decodeDate,
	'N': decodeNumeric,
	'F': decodeNumeric,
	'L': decodeBoolean,
	'T': decodeDateTime,
	'I': decodeInteger,
	'M': decodeMemo,
}

// decodeField looks up and runs the decoder for tag. Header parsing
// already rejects unrecognized tags, so record decoding should never see
// one; the defensive error here only guards against a caller constructing
// a FieldDescriptor by hand with a bad tag.
func decodeField(ctx *decodeContext, tag byte, raw []byte) (FieldValue, error) {
	dec, ok := decoders[tag]
	if !ok {
		return FieldValue{}, invalidData("field decode", "unrecognized field type tag")
	}
	return dec(ctx, raw)
}

func decodeText(ctx *decodeContext, raw []byte) (FieldValue, error) {
	decoded, err := ctx.encoding.Decode(raw)
	if err != nil {
		return FieldValue{}, err
	}
	return TextValue(trimASCII(decoded)), nil
}

func decodeDate(_ *decodeContext, raw []byte) (FieldValue, error) {
	s := trimASCII(raw)
	if len(s) != 8 {
		return FieldValue{}, invalidData("date field", "expected an 8 digit YYYYMMDD value")
	}
	year, errY := strconv.Atoi(s[0:4])
	month, errM := strconv.Atoi(s[4:6])
	day, errD := strconv.Atoi(s[6:8])
	if errY != nil || errM != nil || errD != nil {
		return FieldValue{}, invalidData("date field", "non-numeric component")
	}
	t, err := civilDate(year, month, day, "date field")
	if err != nil {
		return FieldValue{}, err
	}
	return DateValue(t), nil
}

func decodeNumeric(_ *decodeContext, raw []byte) (FieldValue, error) {
	s := strings.TrimSpace(string(raw))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FieldValue{}, invalidData("numeric field", "not a valid number")
	}
	return NumericValue(f), nil
}

func decodeBoolean(_ *decodeContext, raw []byte) (FieldValue, error) {
	if len(raw) == 0 {
		return FieldValue{}, invalidData("boolean field", "empty data")
	}
	switch raw[0] {
	case 'Y', 'y':
		v := true
		return BooleanValue(&v), nil
	case 'N', 'n':
		v := false
		return BooleanValue(&v), nil
	default:
		return BooleanValue(nil), nil
	}
}

func decodeDateTime(_ *decodeContext, raw []byte) (FieldValue, error) {
	if len(raw) != 8 {
		return FieldValue{}, invalidData("datetime field", "expected 8 bytes")
	}
	dateWord := readUint32LE(raw[0:4])
	msIntoDay := int(readUint32LE(raw[4:8]))

	date, err := julianToDate(dateWord)
	if err != nil {
		return FieldValue{}, err
	}

	h := msIntoDay / 3_600_000
	m := (msIntoDay % 3_600_000) / 60_000
	s := (msIntoDay % 60_000) / 1_000

	dt := time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, time.UTC)
	return DateTimeValue(dt), nil
}

func decodeInteger(_ *decodeContext, raw []byte) (FieldValue, error) {
	if len(raw) != 4 {
		return FieldValue{}, invalidData("integer field", "expected 4 bytes")
	}
	return IntegerValue(int32(readUint32LE(raw))), nil
}

func decodeMemo(ctx *decodeContext, raw []byte) (FieldValue, error) {
	if ctx.memo == nil {
		return UnknownValue(raw), nil
	}
	data, err := ctx.memo.Resolve(raw)
	if err != nil {
		// A resolution failure against an open sidecar falls back to the
		// raw reference rather than aborting the whole record.
		return UnknownValue(raw), nil
	}
	decoded, err := ctx.encoding.Decode(data)
	if err != nil {
		return FieldValue{}, err
	}
	return TextValue(trimASCII(decoded)), nil
}
