package dbf

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// buildTable appends len(rows) fixed-width rows after a header built from
// specs, writing rows[row][col] left-aligned, space-padded on the right or
// truncated to each field's declared length, and a deletion marker of ' '
// (not deleted) unless noted in deletedRows.
func buildTable(specs []fieldSpec, rows [][]string, deletedRows map[int]bool) []byte {
	header := buildHeader(0x03, 120, 1, 1, uint32(len(rows)), specs)
	var buf bytes.Buffer
	buf.Write(header)
	for i, row := range rows {
		if deletedRows[i] {
			buf.WriteByte(0x2A)
		} else {
			buf.WriteByte(0x20)
		}
		for c, s := range specs {
			field := make([]byte, s.length)
			for i := range field {
				field[i] = ' '
			}
			copy(field, row[c])
			buf.Write(field)
		}
	}
	return buf.Bytes()
}

func TestRecordIteratorRoundTrip(t *testing.T) {
	specs := []fieldSpec{
		{"NAME", 'C', 10, 0},
		{"AGE", 'N', 3, 0},
	}
	rows := [][]string{
		{"Monet", "85"},
		{"Renoir", "78"},
	}
	raw := buildTable(specs, rows, nil)

	stream := bytes.NewReader(raw)
	h, err := ReadHeader(stream)
	if err != nil {
		t.Fatalf("unexpected header error: %v", err)
	}

	ctx := decodeContext{encoding: defaultEncoding}
	it := newRecordIterator(stream, io.NopCloser(nil), h.Fields, int(h.RecordSize), ctx)

	var got []Record
	for {
		rec, ok, err := it.Next()
		if err != nil {
			t.Fatalf("unexpected iteration error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, rec)
	}

	if len(got) != len(rows) {
		t.Fatalf("got %d records, want %d", len(got), len(rows))
	}
	for i, rec := range got {
		name, ok := rec.Get("NAME")
		if !ok {
			t.Fatalf("record %d: missing NAME", i)
		}
		s, _ := name.Text()
		if s != rows[i][0] {
			t.Errorf("record %d: NAME = %q, want %q", i, s, rows[i][0])
		}
		age, ok := rec.Get("AGE")
		if !ok {
			t.Fatalf("record %d: missing AGE", i)
		}
		f, _ := age.Numeric()
		want := map[string]float64{"85": 85, "78": 78}[rows[i][1]]
		if f != want {
			t.Errorf("record %d: AGE = %v, want %v", i, f, want)
		}
		if rec.Deleted() {
			t.Errorf("record %d: unexpectedly marked deleted", i)
		}
	}

	// A further call once exhausted stays exhausted.
	_, ok, err := it.Next()
	if ok || err != nil {
		t.Errorf("exhausted iterator returned ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestRecordIteratorExposesDeletionMarker(t *testing.T) {
	specs := []fieldSpec{{"ID", 'N', 3, 0}}
	rows := [][]string{{"1"}, {"2"}}
	raw := buildTable(specs, rows, map[int]bool{1: true})

	stream := bytes.NewReader(raw)
	h, err := ReadHeader(stream)
	if err != nil {
		t.Fatalf("unexpected header error: %v", err)
	}
	ctx := decodeContext{encoding: defaultEncoding}
	it := newRecordIterator(stream, io.NopCloser(nil), h.Fields, int(h.RecordSize), ctx)

	rec0, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("unexpected result for record 0: ok=%v err=%v", ok, err)
	}
	if rec0.Deleted() {
		t.Error("record 0 should not be marked deleted")
	}

	rec1, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("unexpected result for record 1: ok=%v err=%v", ok, err)
	}
	if !rec1.Deleted() {
		t.Error("record 1 should be marked deleted")
	}
}

func TestRecordIteratorFailsOnTruncatedRow(t *testing.T) {
	specs := []fieldSpec{{"ID", 'N', 5, 0}}
	raw := buildTable(specs, [][]string{{"1"}}, nil)
	truncated := raw[:len(raw)-2] // chop the last row short

	stream := bytes.NewReader(truncated)
	h, err := ReadHeader(stream)
	if err != nil {
		t.Fatalf("unexpected header error: %v", err)
	}
	ctx := decodeContext{encoding: defaultEncoding}
	it := newRecordIterator(stream, io.NopCloser(nil), h.Fields, int(h.RecordSize), ctx)

	_, ok, err := it.Next()
	if ok || err == nil {
		t.Fatalf("expected a read error for a truncated row, got ok=%v err=%v", ok, err)
	}
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("got %v, want an error wrapping ErrIncomplete", err)
	}
}

func TestRecordIteratorFailsOnBadFieldData(t *testing.T) {
	specs := []fieldSpec{{"WHEN", 'D', 8, 0}}
	raw := buildTable(specs, [][]string{{"20060231"}}, nil) // Feb 31st

	stream := bytes.NewReader(raw)
	h, err := ReadHeader(stream)
	if err != nil {
		t.Fatalf("unexpected header error: %v", err)
	}
	ctx := decodeContext{encoding: defaultEncoding}
	it := newRecordIterator(stream, io.NopCloser(nil), h.Fields, int(h.RecordSize), ctx)

	_, ok, err := it.Next()
	if ok || err == nil {
		t.Fatal("expected a decode error for an invalid calendar date")
	}
}
