package aquabrowser

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

// Availability fetches the holdings of a record by external id. Every child
// of the root is a database contributing its availability rows in order. A
// record without an external id has no holdings to look up.
func (e *Engine) Availability(ctx context.Context, extID *string) ([]search.Branch, error) {
	if extID == nil {
		return []search.Branch{}, nil
	}

	rawURL := e.cfg.AvailabilityURL + "?hreciid=" + encodeComponent(*extID) + "&output=xml"
	body, err := e.client.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := tree.FromXML(body)
	if err != nil {
		return nil, err
	}
	root := doc.Get("root")
	if !root.Present() {
		return nil, fmt.Errorf("availability: %w", errNoRoot)
	}

	branches := []search.Branch{}
	for _, key := range root.Keys() {
		for _, database := range root.Get(key).Items() {
			for _, row := range database.Get("availability").Items() {
				branches = append(branches, branch(row))
			}
		}
	}
	return branches, nil
}

func branch(row *tree.Node) search.Branch {
	b := search.Branch{
		Location:               row.Get("location").String(),
		Sublocation:            row.Get("sublocation").String(),
		Status:                 row.Get("status").String(),
		ExternalDatasourceName: optional(row.Get("externalDatasourceName")),
		NativeID:               optional(row.Get("nativeId")),
		PlaceHoldURL:           optional(row.Get("placeHoldUrl")),
		Notes:                  optional(row.Get("notes")),
	}
	if n, ok := row.Get("itemcount").Int(); ok {
		b.ItemCount = &n
	}
	return b
}
