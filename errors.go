package syndfeed

import (
	"fmt"
)

// UnsupportedSourceError reports a source value of a kind the parser does not
// recognize. Kind holds the Go type of the offending value.
type UnsupportedSourceError struct {
	Value any
	Kind  string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported feed source %v (type %s)", e.Value, e.Kind)
}

// ParseError reports a document that is not well-formed XML, carries a
// DOCTYPE declaration, or does not match any known syndication dialect.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feed: %s: %v", e.Reason, e.Err)
	}
	return "parse feed: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EncodingError reports a character encoding that is unknown or cannot decode
// the source bytes. Encoding holds the encoding label that was resolved (or
// declared) when the failure occurred.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode feed as %s: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
