// Package charsetio resolves the character encoding of a raw feed document
// and transcodes it to UTF-8 for the XML layer.
package charsetio

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const utf8Name = "UTF-8"

// Decode transcodes data to UTF-8 and returns the document text together
// with the canonical name of the encoding used. The encoding is resolved in
// priority order: the charset parameter of the caller-declared contentType, a
// byte-order mark, the XML prolog encoding declaration, the charset parameter
// of connectionType (the content type an open connection advertised, which
// the document itself outranks), and finally UTF-8. The name is returned even
// on failure so callers can report which encoding was in play.
func Decode(data []byte, contentType, connectionType string) (string, string, error) {
	enc, name, err := resolve(data, contentType, connectionType)
	if err != nil {
		return "", name, err
	}
	return transcode(data, enc, name)
}

func resolve(data []byte, contentType, connectionType string) (encoding.Encoding, string, error) {
	if label := contentTypeCharset(contentType); label != "" {
		enc, name := lookup(label)
		if enc == nil {
			return nil, label, fmt.Errorf("unknown charset %q", label)
		}
		return enc, name, nil
	}

	if enc, name := sniffBOM(data); enc != nil {
		return enc, name, nil
	}

	if label := prologEncoding(data); label != "" {
		enc, name := lookup(label)
		if enc == nil {
			return nil, label, fmt.Errorf("unknown charset %q", label)
		}
		return enc, name, nil
	}

	if label := contentTypeCharset(connectionType); label != "" {
		enc, name := lookup(label)
		if enc == nil {
			return nil, label, fmt.Errorf("unknown charset %q", label)
		}
		return enc, name, nil
	}

	return unicode.UTF8, utf8Name, nil
}

// contentTypeCharset extracts the charset parameter from a media type string.
// A missing or malformed content type simply yields no declaration.
func contentTypeCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// lookup maps a charset label to an encoding and its preferred MIME name,
// the form feed consumers expect ("ISO-8859-1", not "ISO_8859-1:1987"). The
// IANA registry is consulted first; the WHATWG label set catches the
// sloppier aliases seen in the wild ("latin1" and friends).
func lookup(label string) (encoding.Encoding, string) {
	label = strings.TrimSpace(label)

	enc, err := ianaindex.MIME.Encoding(label)
	if err != nil || enc == nil {
		enc, _ = charset.Lookup(label)
	}
	if enc == nil {
		return nil, label
	}

	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return enc, name
	}
	return enc, strings.ToUpper(label)
}

func sniffBOM(data []byte) (encoding.Encoding, string) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8, utf8Name
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "UTF-16BE"
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "UTF-16LE"
	}
	return nil, ""
}

var prologEncodingRe = regexp.MustCompile(`encoding=["']([A-Za-z][A-Za-z0-9._-]*)["']`)

// prologEncoding extracts the encoding pseudo-attribute from the XML
// declaration. The scan is byte-oriented and only finds declarations in
// ASCII-compatible encodings; multi-byte encodings are expected to announce
// themselves with a BOM.
func prologEncoding(data []byte) string {
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return ""
	}
	m := prologEncodingRe.FindSubmatch(data[:end])
	if m == nil {
		return ""
	}
	return string(m[1])
}

func transcode(data []byte, enc encoding.Encoding, name string) (string, string, error) {
	// The UTF-8 decoder substitutes replacement runes instead of failing, so
	// invalid input is checked up front.
	if enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", name, errors.New("input is not valid UTF-8")
		}
		return normalize(string(data)), name, nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, err
	}
	if !utf8.Valid(decoded) {
		return "", name, errors.New("decoder produced invalid UTF-8")
	}
	return normalize(string(decoded)), name, nil
}

var prologRewriteRe = regexp.MustCompile(`^(<\?xml[^>]*?)\s+encoding=["'][^"']*["']`)

// normalize strips a leading byte-order mark and rewrites a now-stale prolog
// encoding declaration so the downstream XML parser does not try to decode
// the already-transcoded text a second time.
func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(text, "<?xml") {
		return text
	}
	return prologRewriteRe.ReplaceAllString(text, `$1 encoding="UTF-8"`)
}
