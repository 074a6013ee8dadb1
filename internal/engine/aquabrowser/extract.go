package aquabrowser

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

// A catalogue record carries its identifiers as attributes and its
// bibliographic data under <fields>:
//
//	<record id="..." src="cambrdgedb" extID="|cambrdgedb|2099538">
//	  <fields><title>...</title><author>...</author>...</fields>
//	</record>
//
// Every extractor returns nil when its element is missing.

func fields(rec *tree.Node) *tree.Node {
	if f := rec.Get("fields"); f.Kind() == tree.KindObject {
		return f
	}
	return rec
}

func optional(n *tree.Node) *string {
	s, ok := n.Text()
	if !ok || s == "" {
		return nil
	}
	return &s
}

func recordID(rec *tree.Node) string     { return rec.Get("id").String() }
func recordSource(rec *tree.Node) string { return rec.Get("src").String() }
func recordExtID(rec *tree.Node) *string { return optional(rec.Get("extID")) }

func titles(rec *tree.Node) []string     { return fields(rec).Get("title").Strings() }
func isbn(rec *tree.Node) []string       { return fields(rec).Get("isbn").Strings() }
func subjects(rec *tree.Node) []string   { return fields(rec).Get("subject").Strings() }
func series(rec *tree.Node) []string     { return fields(rec).Get("series").Strings() }
func notes(rec *tree.Node) []string      { return fields(rec).Get("note").Strings() }
func thumbnails(rec *tree.Node) []string { return fields(rec).Get("coverimage").Strings() }
func links(rec *tree.Node) []string      { return fields(rec).Get("link").Strings() }

func contentType(rec *tree.Node) *string {
	return optional(fields(rec).Get("format").First())
}

func authors(rec *tree.Node) []search.Author {
	var out []search.Author
	for _, name := range fields(rec).Get("author").Strings() {
		out = append(out, search.Author{FullName: name})
	}
	return out
}

// publication maps publisher and pubyear; the catalogue has no day, month,
// volume, issue or page data.
func publication(rec *tree.Node) *search.PublicationData {
	f := fields(rec)
	publisher := f.Get("publisher").Strings()
	year := optional(f.Get("pubyear").First())
	if publisher == nil && year == nil {
		return nil
	}

	date := search.PublicationDate{Year: year}
	if year != nil {
		date.Label = *year
	}
	return &search.PublicationData{Title: publisher, Date: date}
}

// AssembleResult implements search.Adapter. Detail requests also resolve the
// availability of the record; a failure there fails the record.
func (e *Engine) AssembleResult(ctx context.Context, rec *tree.Node, req search.Request) (*search.Result, error) {
	r := &search.Result{
		ID:          recordID(rec),
		Source:      recordSource(rec),
		ExternalID:  recordExtID(rec),
		Titles:      titles(rec),
		ISBN:        isbn(rec),
		Authors:     authors(rec),
		Published:   publication(rec),
		Subjects:    subjects(rec),
		Series:      series(rec),
		Notes:       notes(rec),
		ContentType: contentType(rec),
		Thumbnails:  thumbnails(rec),
		Links:       links(rec),
	}
	if r.ID == "" {
		return nil, search.ErrMissingID
	}

	if req.Detail {
		branches, err := e.Availability(ctx, r.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch availability of %s: %w", r.ID, err)
		}
		r.Branches = branches
	}
	return r, nil
}
