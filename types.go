package syndfeed

import (
	"time"
)

// Normalized feed types. Every slice field is non-nil after mapping: an
// absent collection is an empty slice. Optional timestamps are nil pointers,
// never a zero time.

// Feed is the top-level normalized result of a parse.
type Feed struct {
	Title       string
	Description string
	Link        string // human-facing alternate link
	URI         string // feed's own identifier (self link / atom id), distinct from Link
	FeedType    string // detected dialect and version, e.g. "rss_2.0"
	Encoding    string // character encoding the source document was read with
	Language    string
	Copyright   string
	Published   *time.Time

	Authors      []Person
	Contributors []Person
	Categories   []Category
	Links        []Link // feed-level alternate links
	Image        *Image
	Entries      []Entry
}

// Entry is a single feed item.
type Entry struct {
	Title       string
	Link        string
	URI         string   // item GUID / atom id
	Description *Content // short summary, nil when the source carries none
	Published   *time.Time
	Updated     *time.Time

	Contents     []Content // full-body representations, zero or more
	Authors      []Person
	Contributors []Person
	Categories   []Category
	Enclosures   []Enclosure
}

type Person struct {
	Name  string
	Email string
	URI   string
}

type Category struct {
	Name        string
	TaxonomyURI string // controlled vocabulary, empty when the source has none
}

type Content struct {
	Type  string // MIME or text format, empty when the source does not say
	Value string
}

type Image struct {
	URL         string
	Title       string
	Link        string
	Description string
}

type Link struct {
	Href     string
	Rel      string
	Type     string // MIME type
	HrefLang string
	Title    string
	Length   int64
}

type Enclosure struct {
	URL    string
	Type   string // MIME type
	Length int64  // byte count, 0 when the source omits or mangles it
}
