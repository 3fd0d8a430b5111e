package node

import (
	"bufio"
	"fmt"
	"io"
)

const maxReadBufferSize = 64 * 1024

//LineTooLongError is returned for a line longer than the configured maximum.
//The line has been consumed entirely and the reader can be used again.
type LineTooLongError struct {
	Size int
	Max  int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line of %d bytes exceeds the maximum of %d", e.Size, e.Max)
}

//lineReader splits a transport into newline-terminated lines of at most max
//bytes, not counting the terminator.
type lineReader struct {
	r   *bufio.Reader
	max int
}

func newLineReader(r io.Reader, max int) *lineReader {
	size := max
	if size > maxReadBufferSize {
		size = maxReadBufferSize
	}

	return &lineReader{
		r:   bufio.NewReaderSize(r, size),
		max: max,
	}
}

//next returns the next line without its terminator. It returns io.EOF once
//the transport is exhausted. A *LineTooLongError only concerns the offending
//line; any other error is final.
func (l *lineReader) next() ([]byte, error) {
	var line []byte
	read := 0
	tooLong := false

	for {
		chunk, err := l.r.ReadSlice('\n')
		read += len(chunk)

		if !tooLong {
			line = append(line, chunk...)
			if len(dropNewline(line)) > l.max {
				tooLong = true
				line = nil
			}
		}

		switch err {
		case nil:
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if read == 0 {
				return nil, io.EOF
			}
		default:
			return nil, err
		}

		if tooLong {
			return nil, &LineTooLongError{Size: read, Max: l.max}
		}

		return dropNewline(line), nil
	}
}

func dropNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
