package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineLen bounds a single inbound line, delimiter excluded. Anything
// longer is a protocol violation and kills the session.
const MaxLineLen = 1024

// ErrLineTooLong reports an inbound line that exceeded MaxLineLen before a
// newline was seen.
var ErrLineTooLong = errors.New("line too long")

// InvalidCharacterError reports a non-ASCII byte in an inbound line.
// Offset is the position of the first invalid byte within the line.
type InvalidCharacterError struct {
	Offset int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character at offset %d", e.Offset)
}

// LineReader frames a byte stream into newline-terminated lines. Partial
// lines are buffered across reads. The delimiter is stripped, along with a
// trailing carriage return. Every byte must be ASCII.
//
// Transport errors pass through unchanged, so callers can tell an I/O
// failure apart from ErrLineTooLong and *InvalidCharacterError with
// errors.Is / errors.As. A stream that ends with an unterminated partial
// line yields that line first; the following call reports io.EOF.
type LineReader struct {
	r   *bufio.Reader
	max int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r), max: MaxLineLen}
}

func (lr *LineReader) Next() (string, error) {
	buf := make([]byte, 0, 64)
	for {
		b, err := lr.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return string(trimCR(buf)), nil
			}
			return "", err
		}
		if b == '\n' {
			return string(trimCR(buf)), nil
		}
		if b >= 0x80 {
			return "", &InvalidCharacterError{Offset: len(buf)}
		}
		if len(buf) >= lr.max {
			return "", ErrLineTooLong
		}
		buf = append(buf, b)
	}
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
