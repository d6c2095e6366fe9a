package syndfeed

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Mappers from the generic gofeed object graph to the normalized records.
// Each mapper is pure and preserves the document order of list-valued fields.

func mapFeed(src *gofeed.Feed, encodingName string) *Feed {
	f := &Feed{
		Title:        src.Title,
		Description:  src.Description,
		Link:         src.Link,
		URI:          src.FeedLink,
		FeedType:     feedType(src.FeedType, src.FeedVersion),
		Encoding:     encodingName,
		Language:     src.Language,
		Copyright:    src.Copyright,
		Published:    publishedDate(src.PublishedParsed, src.UpdatedParsed),
		Authors:      mapPersons(src.Authors, src.Author),
		Contributors: mapContributors(src.DublinCoreExt),
		Categories:   mapCategories(src.Categories),
		Links:        mapLinks(src.Links),
		Entries:      make([]Entry, 0, len(src.Items)),
	}

	if src.Image != nil {
		f.Image = mapImage(src.Image)
	}

	for _, item := range src.Items {
		if item == nil {
			continue
		}
		f.Entries = append(f.Entries, mapEntry(item))
	}

	return f
}

func mapEntry(src *gofeed.Item) Entry {
	e := Entry{
		Title:        src.Title,
		Link:         src.Link,
		URI:          src.GUID,
		Published:    src.PublishedParsed,
		Updated:      src.UpdatedParsed,
		Authors:      mapPersons(src.Authors, src.Author),
		Contributors: mapContributors(src.DublinCoreExt),
		Categories:   mapCategories(src.Categories),
		Contents:     make([]Content, 0, 1),
		Enclosures:   make([]Enclosure, 0, len(src.Enclosures)),
	}

	// Summary and full body stay separate; either may be absent.
	if src.Description != "" {
		e.Description = &Content{Value: src.Description}
	}
	if src.Content != "" {
		e.Contents = append(e.Contents, Content{Value: src.Content})
	}

	for _, enc := range src.Enclosures {
		if enc == nil {
			continue
		}
		e.Enclosures = append(e.Enclosures, mapEnclosure(enc))
	}

	return e
}

// mapPersons maps the author list, falling back to the legacy single-author
// field some dialects populate instead.
func mapPersons(persons []*gofeed.Person, single *gofeed.Person) []Person {
	if len(persons) == 0 && single != nil {
		persons = []*gofeed.Person{single}
	}

	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		if p == nil {
			continue
		}
		out = append(out, mapPerson(p))
	}
	return out
}

func mapPerson(p *gofeed.Person) Person {
	return Person{
		Name:  p.Name,
		Email: p.Email,
	}
}

// mapContributors reads dc:contributor, the one place the generic object
// surfaces contributors for both RSS and Atom documents.
func mapContributors(dc *ext.DublinCoreExtension) []Person {
	if dc == nil {
		return []Person{}
	}
	out := make([]Person, 0, len(dc.Contributor))
	for _, name := range dc.Contributor {
		out = append(out, Person{Name: name})
	}
	return out
}

func mapCategories(names []string) []Category {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, mapCategory(name))
	}
	return out
}

func mapCategory(name string) Category {
	return Category{Name: name}
}

func mapLinks(hrefs []string) []Link {
	out := make([]Link, 0, len(hrefs))
	for _, href := range hrefs {
		out = append(out, mapLink(href))
	}
	return out
}

func mapLink(href string) Link {
	return Link{Href: href}
}

func mapEnclosure(src *gofeed.Enclosure) Enclosure {
	e := Enclosure{
		URL:  src.URL,
		Type: src.Type,
	}

	// Length arrives as text and is frequently junk; an unparseable value
	// maps to 0, not an error.
	if src.Length != "" {
		if length, err := strconv.ParseInt(src.Length, 10, 64); err == nil {
			e.Length = length
		}
	}

	return e
}

func mapImage(src *gofeed.Image) *Image {
	return &Image{
		URL:   src.URL,
		Title: src.Title,
	}
}

// feedType renders the detected dialect and version as one identifier,
// e.g. "rss_2.0" or "atom_1.0".
func feedType(typ, version string) string {
	typ = strings.ToLower(typ)
	if version == "" {
		return typ
	}
	return typ + "_" + version
}

// publishedDate falls back to the updated timestamp for dialects (Atom) that
// only carry one.
func publishedDate(published, updated *time.Time) *time.Time {
	if published != nil {
		return published
	}
	return updated
}
