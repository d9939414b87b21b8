// Package dbf decodes dBASE/FoxPro table files (.dbf) together with their
// optional memo sidecars (.dbt for dBASE, .fpt for FoxPro) into a typed,
// streaming sequence of records. It is strictly read-only: there is no
// write path, no index support, and no interpretation of deletion markers
// beyond exposing them.
package dbf

import (
	"os"
	"path/filepath"
	"strings"
)

// Open opens path as a dBASE/FoxPro table, parses its header, and
// discovers an optional memo sidecar next to it (a .dbt sibling is tried
// first, then .fpt). It does not read any records: call Database.Records
// for that. The caller must call Database.Close (or RecordIterator.Close,
// once Records has been called) to release the underlying file handles.
func Open(path string, opts ...Option) (*Database, error) {
	cfg := openConfig{encoding: defaultEncoding}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, liftOpenErr(path, err)
	}

	header, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	memo, err := openSidecar(path)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Database{
		stream:   f,
		closer:   f,
		memo:     memo,
		header:   header,
		encoding: cfg.encoding,
	}, nil
}

// openSidecar strips path's extension and tries "<stem>.dbt" then
// "<stem>.fpt" in the same directory. It returns (nil, nil) if neither
// sidecar exists: the absence of a memo sidecar is not an error.
func openSidecar(path string) (MemoContainer, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	dbtPath := stem + ".dbt"
	if fileExists(dbtPath) {
		return OpenDBaseMemoContainer(dbtPath)
	}

	fptPath := stem + ".fpt"
	if fileExists(fptPath) {
		return OpenFoxProMemoContainer(fptPath)
	}

	return nil, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
