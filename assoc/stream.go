package assoc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// TableStream reads a whitespace-delimited plink result file one row at a
// time. The header is consumed on open; short rows are padded with NA.
type TableStream struct {
	filename  string
	file      *os.File
	scanner   *bufio.Scanner
	header    []string
	lineCount uint64
	eof       bool
	err       error
}

func NewTableStream(filename string) (*TableStream, error) {
	ts := &TableStream{filename: filename}
	if err := ts.Reset(); err != nil {
		return nil, err
	}
	return ts, nil
}

func newReaderStream(r io.Reader) (*TableStream, error) {
	ts := &TableStream{filename: "<reader>"}
	ts.scanner = newScanner(r)
	if err := ts.readHeader(); err != nil {
		return nil, err
	}
	return ts, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return s
}

// Reset reopens the file and positions the stream after the header.
func (ts *TableStream) Reset() error {
	var err error
	if ts.file == nil {
		ts.file, err = os.Open(ts.filename)
	} else {
		_, err = ts.file.Seek(0, io.SeekStart)
	}
	if err != nil {
		return err
	}

	ts.scanner = newScanner(ts.file)
	ts.lineCount = 0
	ts.eof = false
	ts.err = nil
	return ts.readHeader()
}

func (ts *TableStream) readHeader() error {
	for ts.scanner.Scan() {
		fields := strings.Fields(ts.scanner.Text())
		if len(fields) > 0 {
			ts.header = fields
			return nil
		}
	}
	if err := ts.scanner.Err(); err != nil {
		return fmt.Errorf("reading header of %s: %w", ts.filename, err)
	}
	ts.header = nil
	ts.eof = true
	return nil
}

func (ts *TableStream) Header() []string {
	return ts.header
}

func (ts *TableStream) LineCount() uint64 {
	return ts.lineCount
}

func (ts *TableStream) Err() error {
	return ts.err
}

// NextRow returns the next data row or nil once the file is exhausted or a
// malformed row is hit; check Err afterwards.
func (ts *TableStream) NextRow() []string {
	if ts.eof {
		return nil
	}

	for ts.scanner.Scan() {
		fields := strings.Fields(ts.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		ts.lineCount++

		if len(fields) > len(ts.header) {
			ts.err = fmt.Errorf("%s: row %d has %d fields, header has %d", ts.filename, ts.lineCount, len(fields), len(ts.header))
			ts.Close()
			return nil
		}
		for len(fields) < len(ts.header) {
			fields = append(fields, Missing)
		}
		return fields
	}

	ts.err = ts.scanner.Err()
	ts.Close()
	return nil
}

func (ts *TableStream) Close() error {
	ts.eof = true
	if ts.file == nil {
		return nil
	}
	err := ts.file.Close()
	ts.file = nil
	return err
}

// ToTable drains the stream into memory.
func (ts *TableStream) ToTable() (*Table, error) {
	t := NewTable(ts.header)
	for row := ts.NextRow(); row != nil; row = ts.NextRow() {
		t.Rows = append(t.Rows, row)
	}
	if ts.err != nil {
		return nil, ts.err
	}
	return t, nil
}
