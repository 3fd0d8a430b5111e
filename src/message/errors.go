package message

import "fmt"

const maxQuotedLine = 120

// DecodeError is returned when a line cannot be turned into an Envelope.
type DecodeError struct {
	Line string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	line := e.Line
	if len(line) > maxQuotedLine {
		line = line[:maxQuotedLine] + "..."
	}
	return fmt.Sprintf("decoding %q: %v", line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
