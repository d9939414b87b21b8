package dbf

import "io"

// Database owns the table byte stream exclusively and, optionally, a memo
// container exclusively. It holds the parsed Header. Calling Records
// transfers ownership of both streams to the returned RecordIterator;
// after that call the Database itself no longer owns anything and its
// Close becomes a no-op.
type Database struct {
	stream   io.Reader
	closer   io.Closer
	memo     MemoContainer
	header   *Header
	encoding Encoding
	consumed bool
}

// Header returns the parsed table header.
func (db *Database) Header() *Header { return db.header }

// Records returns a RecordIterator that owns the table stream (and the
// memo container, if any) for the rest of its lifetime. Records transfers
// ownership and must only be called once per Database.
func (db *Database) Records() *RecordIterator {
	ctx := decodeContext{encoding: db.encoding, memo: db.memo}
	it := newRecordIterator(db.stream, db.closer, db.header.Fields, int(db.header.RecordSize), ctx)
	db.stream = nil
	db.closer = nil
	db.memo = nil
	db.consumed = true
	return it
}

// Close releases the table stream and memo container. If Records was
// already called, ownership has moved to the RecordIterator and Close is
// a no-op here.
func (db *Database) Close() error {
	var first error
	if db.closer != nil {
		if err := db.closer.Close(); err != nil {
			first = err
		}
		db.closer = nil
	}
	if db.memo != nil {
		if err := db.memo.Close(); err != nil && first == nil {
			first = err
		}
		db.memo = nil
	}
	return first
}
