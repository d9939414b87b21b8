package dbf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MemoContainer resolves a memo field's raw reference bytes against a
// sidecar file's payload storage. It owns its own stream, which it seeks
// on every resolution; it is not safe for concurrent use.
type MemoContainer interface {
	Resolve(ref []byte) ([]byte, error)
	Close() error
}

// FoxProMemoContainer resolves memo references against a FoxPro .fpt
// sidecar: each reference is a block id, addressed as fragmentSize*id,
// where a 4-byte record header precedes a big-endian length-prefixed
// payload.
type FoxProMemoContainer struct {
	stream       io.ReadSeeker
	closer       io.Closer
	nextFree     uint32
	blockSize    uint32
	fragmentSize uint32
}

// OpenFoxProMemoContainer opens path as a FoxPro memo sidecar.
func OpenFoxProMemoContainer(path string) (*FoxProMemoContainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, liftOpenErr(path, err)
	}
	c, err := newFoxProMemoContainer(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

func newFoxProMemoContainer(r io.ReadSeeker) (*FoxProMemoContainer, error) {
	head := make([]byte, 8)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, wrapf("fpt header", liftIOErr(err))
	}
	blockSize := uint32(readUint16LE(head[4:6]))
	if blockSize == 0 {
		blockSize = 512
	}
	return &FoxProMemoContainer{
		stream:       r,
		nextFree:     readUint32LE(head[0:4]),
		blockSize:    blockSize,
		fragmentSize: uint32(head[7]),
	}, nil
}

// Resolve decodes ref as a little-endian block id and reads the memo
// record at offset fragmentSize*id: a 4-byte record header (type at byte
// 2, retained but not acted on), a big-endian u32 length, then that many
// bytes of payload.
func (c *FoxProMemoContainer) Resolve(ref []byte) ([]byte, error) {
	if len(ref) != 4 {
		return nil, invalidData("fpt memo reference", "expected a 4 byte block id")
	}
	id := readUint32LE(ref)
	offset := int64(c.fragmentSize) * int64(id)
	if _, err := c.stream.Seek(offset, io.SeekStart); err != nil {
		return nil, wrapf("fpt memo seek", liftIOErr(err))
	}

	recordHeader := make([]byte, 4)
	if _, err := io.ReadFull(c.stream, recordHeader); err != nil {
		return nil, wrapf("fpt memo record header", fmt.Errorf("%w: %w", ErrInvalidData, liftReadErr(err)))
	}
	_ = recordHeader[2] // record type: text vs picture, not acted on

	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(c.stream, lenBuf); err != nil {
		return nil, wrapf("fpt memo length", fmt.Errorf("%w: %w", ErrInvalidData, liftReadErr(err)))
	}
	memoLen := readUint32BE(lenBuf)

	payload := make([]byte, memoLen)
	if _, err := io.ReadFull(c.stream, payload); err != nil {
		return nil, wrapf("fpt memo payload", fmt.Errorf("%w: %w", ErrInvalidData, liftReadErr(err)))
	}
	return payload, nil
}

// Close closes the underlying sidecar file, if one was opened by path.
func (c *FoxProMemoContainer) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// DBaseMemoContainer resolves memo references against a dBASE .dbt
// sidecar: each reference is an ASCII decimal block id, addressed as
// blockSize*id, read block by block until a 0x1A terminator byte ends
// the memo.
type DBaseMemoContainer struct {
	stream    io.ReadSeeker
	closer    io.Closer
	nextFree  uint32
	blockSize int
}

// OpenDBaseMemoContainer opens path as a dBASE memo sidecar.
func OpenDBaseMemoContainer(path string) (*DBaseMemoContainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, liftOpenErr(path, err)
	}
	c, err := newDBaseMemoContainer(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

func newDBaseMemoContainer(r io.ReadSeeker) (*DBaseMemoContainer, error) {
	head := make([]byte, 8)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, wrapf("dbt header", liftIOErr(err))
	}
	blockSize := int(readUint16LE(head[4:6]))
	if blockSize == 0 {
		blockSize = 512
	}
	return &DBaseMemoContainer{
		stream:    r,
		nextFree:  readUint32LE(head[0:4]),
		blockSize: blockSize,
	}, nil
}

// Resolve parses ref as a left-padded ASCII decimal block id, reads
// successive blockSize blocks starting at blockSize*id until a short read
// or a 0x1A terminator byte, then truncates the concatenated bytes at (and
// drops) the first terminator.
func (c *DBaseMemoContainer) Resolve(ref []byte) ([]byte, error) {
	s := strings.TrimSpace(string(ref))
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, invalidData("dbt memo reference", "not a valid block number")
	}

	offset := int64(c.blockSize) * int64(id)
	if _, err := c.stream.Seek(offset, io.SeekStart); err != nil {
		return nil, wrapf("dbt memo seek", liftIOErr(err))
	}

	var collected []byte
	for {
		block := make([]byte, c.blockSize)
		n, err := io.ReadFull(c.stream, block)
		collected = append(collected, block[:n]...)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, wrapf("dbt memo read", liftReadErr(err))
		}
		short := n < c.blockSize
		terminated := bytes.IndexByte(block[:n], 0x1A) >= 0
		if short || terminated {
			break
		}
	}

	if idx := bytes.IndexByte(collected, 0x1A); idx >= 0 {
		collected = collected[:idx]
	}
	return collected, nil
}

// Close closes the underlying sidecar file, if one was opened by path.
func (c *DBaseMemoContainer) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func liftOpenErr(path string, err error) error {
	if os.IsNotExist(err) {
		return wrapf(path, ErrNotFound)
	}
	return wrapf(path, ErrIO)
}
