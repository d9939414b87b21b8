package dbf

import (
	"errors"
	"io"
)

// Record is one fixed-width row decoded into named field values. Keys are
// unique per record; fields are visited in descriptor order while
// decoding, but map iteration order is not guaranteed on lookup.
type Record struct {
	fields  map[string]FieldValue
	deleted bool
}

// Get returns the value stored for name and whether it was present.
func (r Record) Get(name string) (FieldValue, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Deleted reports whether the row's deletion marker byte was 0x2A. Both
// live and deleted rows are decoded identically; this only exposes the
// flag rather than acting on it.
func (r Record) Deleted() bool { return r.deleted }

// FieldNames returns every field name present in the record.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	return names
}

// RecordIterator drives the table stream, slicing one fixed-width row at a
// time and dispatching the per-field decoders over it. It is finite,
// single-pass and not restartable, and is the sole owner of the table
// stream it was built from: consuming it exhausts the Database it came
// from.
type RecordIterator struct {
	stream     io.Reader
	closer     io.Closer // closes the table stream, if it was opened from a path
	fields     []FieldDescriptor
	recordSize int // bytes per row on disk, deletion marker included
	ctx        decodeContext
	done       bool
}

func newRecordIterator(stream io.Reader, closer io.Closer, fields []FieldDescriptor, recordSize int, ctx decodeContext) *RecordIterator {
	return &RecordIterator{stream: stream, closer: closer, fields: fields, recordSize: recordSize, ctx: ctx}
}

// Close releases the table stream and the memo container, if any. It is
// safe to call after the iterator has been exhausted, and idempotent.
func (it *RecordIterator) Close() error {
	var first error
	if it.closer != nil {
		if err := it.closer.Close(); err != nil {
			first = err
		}
		it.closer = nil
	}
	if it.ctx.memo != nil {
		if err := it.ctx.memo.Close(); err != nil && first == nil {
			first = err
		}
		it.ctx.memo = nil
	}
	return first
}

// Next advances to the next row. The three return values mirror the split
// bufio.Scanner makes between "no more input" and "something went wrong":
//
//	(rec, true, nil)    - a record was decoded
//	(Record{}, false, nil)  - clean end of stream
//	(Record{}, false, err)  - a decode or I/O failure terminated the iterator
//
// Once Next returns false the iterator is exhausted; it does not attempt
// to resynchronize mid-stream. Every later call returns
// (Record{}, false, nil): an error is reported only by the call that hit it.
func (it *RecordIterator) Next() (Record, bool, error) {
	if it.done {
		return Record{}, false, nil
	}

	row := make([]byte, it.recordSize)
	n, err := io.ReadFull(it.stream, row)
	if err != nil {
		it.done = true
		if errors.Is(err, io.EOF) && n == 0 {
			return Record{}, false, nil
		}
		return Record{}, false, wrapf("dbf record read", liftReadErr(err))
	}

	deleted := row[0] == 0x2A
	fields := make(map[string]FieldValue, len(it.fields))
	offset := 1
	for _, fd := range it.fields {
		end := offset + int(fd.Length)
		if end > len(row) {
			it.done = true
			return Record{}, false, invalidData("dbf record layout", "field descriptor lengths exceed the record size")
		}
		raw := row[offset:end]
		offset = end
		val, err := decodeField(&it.ctx, fd.Type, raw)
		if err != nil {
			it.done = true
			return Record{}, false, wrapf("field "+fd.Name, err)
		}
		fields[fd.Name] = val
	}

	return Record{fields: fields, deleted: deleted}, true, nil
}
