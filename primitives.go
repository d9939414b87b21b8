package dbf

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/carlosjhr64/jd"
)

// readUint16LE reads a little-endian 16-bit unsigned integer from the
// leading two bytes of b.
func readUint16LE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// readUint32LE reads a little-endian 32-bit unsigned integer from the
// leading four bytes of b.
func readUint32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// readUint32BE reads a big-endian 32-bit unsigned integer from the leading
// four bytes of b. Only the length word of an .fpt memo record is
// big-endian; the .fpt file header is little-endian.
func readUint32BE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// trimASCII cuts b at its first NUL byte (dropping everything from there
// on) and trims surrounding whitespace, the shape every fixed-width text
// field is stored in.
func trimASCII(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0x00); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// julianToDate converts an unsigned 32-bit Julian Day Number to a civil
// date. It fails with ErrInvalidData if the resulting (year, month, day)
// triple is not a valid calendar date.
func julianToDate(j uint32) (time.Time, error) {
	year, month, day := jd.J2YMD(int(j))
	return civilDate(year, month, day, fmt.Sprintf("julian day %d", j))
}

// civilDate validates a (year, month, day) triple and returns it as a UTC
// midnight time.Time, the representation used for Date and the date part
// of DateTime.
func civilDate(year, month, day int, context string) (time.Time, error) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, invalidData(context, "not a valid calendar date")
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (e.g. day 31 of a 30-day
	// month) instead of failing, so a round trip check catches it.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, invalidData(context, "not a valid calendar date")
	}
	return t, nil
}
