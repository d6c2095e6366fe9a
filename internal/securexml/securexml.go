// Package securexml guards the XML ingestion path against DOCTYPE-based
// attacks. Inline DTDs are the only carrier of entity definitions, so
// refusing them up front defeats entity expansion ("billion laughs") and
// external entity injection regardless of what the document contains.
package securexml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDoctype is returned for any document carrying a DOCTYPE declaration.
var ErrDoctype = errors.New("DOCTYPE declarations are not allowed")

// Verify scans the document prefix up to the root element and rejects a
// DOCTYPE declaration or a malformed prolog. The DTD text itself is never
// interpreted and no entity is ever expanded. The document must already be
// UTF-8 text.
func Verify(doc string) error {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true
	// The text was transcoded before this point; a stale prolog charset
	// declaration must not trigger a second decode.
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return errors.New("no root element")
		}
		if err != nil {
			return fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			if isDoctype(t) {
				return ErrDoctype
			}
		case xml.StartElement:
			// DOCTYPE can only appear before the root element.
			return nil
		}
	}
}

func isDoctype(d xml.Directive) bool {
	return len(d) >= 7 && strings.EqualFold(string(d[:7]), "DOCTYPE")
}
