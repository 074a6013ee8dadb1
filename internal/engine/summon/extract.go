package summon

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

var highlight = strings.NewReplacer("<h>", "", "</h>", "")

// values returns the highlight-free strings of a document field, scalar or
// array alike, or nil.
func values(doc *tree.Node, key string) []string {
	raw := doc.Get(key).Strings()
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = highlight.Replace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func first(doc *tree.Node, key string) *string {
	vs := values(doc, key)
	if vs == nil {
		return nil
	}
	return &vs[0]
}

func authors(doc *tree.Node) []search.Author {
	var out []search.Author
	for _, a := range doc.Get("Author_xml").Items() {
		if name := highlight.Replace(a.Get("fullname").String()); name != "" {
			out = append(out, search.Author{FullName: name})
		}
	}
	return out
}

func joinPresent(sep string, parts ...*string) string {
	var present []string
	for _, p := range parts {
		if p != nil && *p != "" {
			present = append(present, *p)
		}
	}
	return strings.Join(present, sep)
}

// publication is always set; its parts are nil when missing.
func publication(doc *tree.Node) *search.PublicationData {
	d := doc.Get("PublicationDate_xml").First()
	date := search.PublicationDate{
		Day:   first(d, "day"),
		Month: first(d, "month"),
		Year:  first(d, "year"),
	}
	date.Label = joinPresent("-", date.Day, date.Month, date.Year)

	page := search.PublicationPage{
		Start: first(doc, "StartPage"),
		End:   first(doc, "EndPage"),
	}
	page.Label = joinPresent("-", page.Start, page.End)

	return &search.PublicationData{
		Title:  values(doc, "PublicationTitle"),
		Date:   date,
		Volume: values(doc, "Volume"),
		Issue:  values(doc, "Issue"),
		Page:   page,
	}
}

func thumbnails(doc *tree.Node) []string {
	var out []string
	for _, key := range []string{"thumbnail_s", "thumbnail_m", "thumbnail_l"} {
		if t := first(doc, key); t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// AssembleResult implements search.Adapter. Documents need no further
// lookups, so it never blocks.
func (e *Engine) AssembleResult(_ context.Context, doc *tree.Node, _ search.Request) (*search.Result, error) {
	id := first(doc, "ID")
	if id == nil {
		return nil, search.ErrMissingID
	}

	source := Name
	if db := first(doc, "DBID"); db != nil {
		source = *db
	}

	return &search.Result{
		ID:          *id,
		Source:      source,
		ExternalID:  first(doc, "ExternalDocumentID"),
		Titles:      values(doc, "Title"),
		ISBN:        values(doc, "ISBN"),
		EISBN:       values(doc, "EISBN"),
		ISSN:        values(doc, "ISSN"),
		SSID:        values(doc, "SSID"),
		Authors:     authors(doc),
		Published:   publication(doc),
		Subjects:    values(doc, "SubjectTerms"),
		Series:      values(doc, "PublicationSeriesTitle"),
		Notes:       values(doc, "Notes"),
		ContentType: first(doc, "ContentType"),
		Thumbnails:  thumbnails(doc),
		Links:       values(doc, "link"),
	}, nil
}
