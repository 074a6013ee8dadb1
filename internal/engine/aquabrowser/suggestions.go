package aquabrowser

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

var errNoCloud = errors.New("suggestion response has no cloud element")

// Suggestions asks the spelling endpoint for alternatives to the free-text
// term. Each candidate links to the same query with q replaced.
func (e *Engine) Suggestions(ctx context.Context, req search.Request) (*search.Suggestions, error) {
	term := req.Query.Get(search.ParamQuery)
	body, err := e.client.Get(ctx, e.cfg.SuggestionsURL+"?q="+encodeComponent(term), nil)
	if err != nil {
		return nil, err
	}

	doc, err := tree.FromXML(body)
	if err != nil {
		return nil, err
	}
	cloud := doc.Get("cloud")
	if !cloud.Present() {
		return nil, errNoCloud
	}

	out := &search.Suggestions{OriginalQuery: term, Items: []search.Suggestion{}}
	if concept := cloud.Get("concept").First().String(); concept != "" {
		out.OriginalQuery = concept
	}

	for _, item := range cloud.Get("i").Items() {
		label, ok := item.Text()
		if !ok || label == "" {
			continue
		}
		q := req.Query.Clone()
		q.Set(search.ParamQuery, label)
		out.Items = append(out.Items, search.Suggestion{Label: label, URL: q.Encode()})
	}
	return out, nil
}
