package dbf

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// VersionKind is the closed set of recognized first-byte table signatures.
type VersionKind int

const (
	VersionFoxBase VersionKind = iota
	VersionDBase3
	VersionVisualFoxPro
	VersionDBase4Table
	VersionDBase4System
	VersionFoxPro2
	VersionUnknown
)

func (k VersionKind) String() string {
	switch k {
	case VersionFoxBase:
		return "FoxBase"
	case VersionDBase3:
		return "dBASE3"
	case VersionVisualFoxPro:
		return "VisualFoxPro"
	case VersionDBase4Table:
		return "dBASE4Table"
	case VersionDBase4System:
		return "dBASE4System"
	case VersionFoxPro2:
		return "FoxPro2"
	default:
		return "Unknown"
	}
}

// Version decodes the table's first byte. An unrecognized byte yields
// VersionUnknown and parsing proceeds regardless: the decoder never
// rejects a file solely because of its version signature.
type Version struct {
	Kind VersionKind
	// HasMemo is set for dBASE3, dBASE4Table, dBASE4System and FoxPro2
	// signatures whose high bit marks a memo-bearing table.
	HasMemo bool
	// AutoIncrement and VarLength are only meaningful for VisualFoxPro.
	AutoIncrement bool
	VarLength     bool
}

func versionFromByte(b byte) Version {
	switch b {
	case 0x02:
		return Version{Kind: VersionFoxBase}
	case 0x03:
		return Version{Kind: VersionDBase3}
	case 0x83:
		return Version{Kind: VersionDBase3, HasMemo: true}
	case 0x30:
		return Version{Kind: VersionVisualFoxPro}
	case 0x31:
		return Version{Kind: VersionVisualFoxPro, AutoIncrement: true}
	case 0x32:
		return Version{Kind: VersionVisualFoxPro, VarLength: true}
	case 0x33:
		return Version{Kind: VersionVisualFoxPro, AutoIncrement: true, VarLength: true}
	case 0x43:
		return Version{Kind: VersionDBase4Table}
	case 0xcb:
		return Version{Kind: VersionDBase4Table, HasMemo: true}
	case 0x63:
		return Version{Kind: VersionDBase4System}
	case 0x8b:
		return Version{Kind: VersionDBase4System, HasMemo: true}
	case 0xfb:
		return Version{Kind: VersionFoxPro2}
	case 0xf5:
		return Version{Kind: VersionFoxPro2, HasMemo: true}
	default:
		return Version{Kind: VersionUnknown}
	}
}

// fieldTypes is the closed set of recognized field-type tags. Any other
// byte in a descriptor's type slot fails header parsing with ErrInvalidData.
var fieldTypes = map[byte]bool{
	'C': true, 'D': true, 'N': true, 'F': true, 'L': true, 'T': true, 'I': true, 'M': true,
}

// FieldDescriptor is one 32-byte schema entry from the field descriptor
// array. DataAddress is informational only: decoding relies on descriptor
// order and Length, never on DataAddress.
type FieldDescriptor struct {
	Name         string
	Type         byte
	DataAddress  uint32
	Length       uint8
	DecimalCount uint8
}

// Header is the immutable result of parsing a table's leading bytes.
type Header struct {
	Version     Version
	LastUpdate  [3]int // year, month, day as stored (year already +1900)
	RecordCount uint32
	HeaderSize  uint16
	RecordSize  uint16
	Fields      []FieldDescriptor
}

// RowSize is the sum of the field descriptor lengths, i.e. RecordSize minus
// the one byte deletion marker. A well-formed file satisfies RowSize() ==
// RecordSize - 1.
func (h *Header) RowSize() int {
	total := 0
	for _, f := range h.Fields {
		total += int(f.Length)
	}
	return total
}

// ReadHeader consumes the leading bytes of a forward-only table stream and
// returns the parsed Header. r is advanced exactly to the first byte past
// the field descriptor area's 0x0D terminator, i.e. to the first record row
// (when HeaderSize matches the descriptor area, which the caller does not
// need to double check here).
func ReadHeader(r io.Reader) (*Header, error) {
	lead := make([]byte, 12)
	if _, err := io.ReadFull(r, lead); err != nil {
		return nil, wrapf("dbf header", liftIOErr(err))
	}

	version := versionFromByte(lead[0])
	year := int(lead[1]) + 1900
	month := int(lead[2])
	day := int(lead[3])
	if _, err := civilDate(year, month, day, "dbf header last-update date"); err != nil {
		return nil, err
	}

	recordCount := readUint32LE(lead[4:8])
	headerSize := readUint16LE(lead[8:10])
	recordSize := readUint16LE(lead[10:12])

	reserved := make([]byte, 20)
	if _, err := io.ReadFull(r, reserved); err != nil {
		return nil, wrapf("dbf header reserved area", liftIOErr(err))
	}

	// The descriptor area is header_size - 32 + 1 bytes: the trailing +1
	// reads one byte past the last 32-byte descriptor, taking in the 0x0D
	// terminator. parseFieldDescriptors below only parses whole 32-byte
	// chunks, so that short tail ends the scan and is never parsed as
	// field data; a 0x0D at the start of a whole chunk also ends it.
	if headerSize < 32 {
		return nil, invalidData("dbf header", "header size smaller than minimum 32 bytes")
	}
	areaSize := int(headerSize) - 32 + 1
	area := make([]byte, areaSize)
	if _, err := io.ReadFull(r, area); err != nil {
		return nil, wrapf("dbf field descriptor area", liftIOErr(err))
	}

	fields, err := parseFieldDescriptors(area)
	if err != nil {
		return nil, err
	}

	return &Header{
		Version:     version,
		LastUpdate:  [3]int{year, month, day},
		RecordCount: recordCount,
		HeaderSize:  headerSize,
		RecordSize:  recordSize,
		Fields:      fields,
	}, nil
}

// parseFieldDescriptors interprets area as a sequence of 32-byte
// descriptors, stopping at either exhaustion or a leading 0x0D terminator.
func parseFieldDescriptors(area []byte) ([]FieldDescriptor, error) {
	var fields []FieldDescriptor
	for offset := 0; offset+32 <= len(area); offset += 32 {
		chunk := area[offset : offset+32]
		if chunk[0] == 0x0D {
			break
		}
		fd, err := parseFieldDescriptor(chunk)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

func parseFieldDescriptor(b []byte) (FieldDescriptor, error) {
	nameBytes := b[0:11]
	if !utf8.Valid(nameBytes) {
		return FieldDescriptor{}, invalidData("dbf field name", "not valid UTF-8")
	}
	name := trimASCII(nameBytes)

	typ := b[11]
	if !fieldTypes[typ] {
		return FieldDescriptor{}, invalidData("dbf field type", "unrecognized field type tag")
	}

	return FieldDescriptor{
		Name:         name,
		Type:         typ,
		DataAddress:  readUint32LE(b[12:16]),
		Length:       b[16],
		DecimalCount: b[17],
	}, nil
}

// liftIOErr classifies a stream error as ErrIO: a short or absent read
// while parsing the header always indicates a truncated or malformed file,
// never a clean end of input.
func liftIOErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
