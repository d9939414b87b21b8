package dbf

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding converts the raw bytes of a C or M field to UTF-8.
type Encoding interface {
	Decode(in []byte) ([]byte, error)
}

// strictUTF8Encoding requires the input to already be valid UTF-8, per the
// spec's "Non-UTF-8 -> InvalidData" rule for text fields. It is the
// default Encoding used by Open.
type strictUTF8Encoding struct{}

func (strictUTF8Encoding) Decode(in []byte) ([]byte, error) {
	if !utf8.Valid(in) {
		return nil, invalidData("text field", "not valid UTF-8")
	}
	return in, nil
}

var defaultEncoding Encoding = strictUTF8Encoding{}

// Windows1250Encoding transcodes legacy Windows-1250 (the common FoxPro
// and dBASE code page for Central European tables) to UTF-8. Input that is
// already valid UTF-8 passes through untouched. Use it via WithEncoding
// for tables known to predate UTF-8 text fields.
type Windows1250Encoding struct{}

// Decode implements Encoding.
func (Windows1250Encoding) Decode(in []byte) ([]byte, error) {
	if utf8.Valid(in) {
		return in, nil
	}
	r := transform.NewReader(bytes.NewReader(in), charmap.Windows1250.NewDecoder())
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapf("windows-1250 decode", err)
	}
	return out, nil
}
