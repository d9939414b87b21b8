package dbf

import "testing"

func TestReadUint16LE(t *testing.T) {
	if got := readUint16LE([]byte{0x01, 0x02, 0xFF}); got != 0x0201 {
		t.Errorf("got %#x, want 0x0201", got)
	}
}

func TestReadUint32LE(t *testing.T) {
	if got := readUint32LE([]byte{0xB8, 0x83, 0x25, 0x00}); got != 0x002583B8 {
		t.Errorf("got %#x, want 0x002583B8", got)
	}
}

func TestReadUint32BE(t *testing.T) {
	if got := readUint32BE([]byte{0x00, 0x00, 0x00, 0x2A}); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestTrimASCII(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{[]byte("NIVEAU\x00\x00\x00\x00\x00"), "NIVEAU"},
		{[]byte("  srenauld  "), "srenauld"},
		{[]byte("  padded\x00"), "padded"},
		{[]byte{}, ""},
	}
	for _, c := range cases {
		if got := trimASCII(c.in); got != c.want {
			t.Errorf("trimASCII(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJulianToDate(t *testing.T) {
	cases := []struct {
		j                uint32
		y, m, d          int
	}{
		{2453738, 2006, 1, 2},
		{2458552, 2019, 3, 9},
		{2440588, 1970, 1, 1},
	}
	for _, c := range cases {
		got, err := julianToDate(c.j)
		if err != nil {
			t.Fatalf("julianToDate(%d): %v", c.j, err)
		}
		if got.Year() != c.y || int(got.Month()) != c.m || got.Day() != c.d {
			t.Errorf("julianToDate(%d) = %v, want %04d-%02d-%02d", c.j, got, c.y, c.m, c.d)
		}
	}
}

func TestCivilDateInvalid(t *testing.T) {
	cases := []struct {
		y, m, d int
	}{
		{2019, 13, 1},
		{2019, 0, 1},
		{2019, 2, 30},
		{0, 1, 1},
	}
	for _, c := range cases {
		if _, err := civilDate(c.y, c.m, c.d, "test"); err == nil {
			t.Errorf("civilDate(%d,%d,%d) succeeded, want error", c.y, c.m, c.d)
		}
	}
}
