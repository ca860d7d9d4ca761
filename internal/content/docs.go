package content

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/kyangwi/portfolio/internal/docstore"
)

// normalizeDoc rewrites native timestamp values into RFC3339 strings so a
// decoded record has exactly the shape a cache round-trip would give it.
// Reads that hit the store and reads that hit the cache must be
// indistinguishable to callers.
func normalizeDoc(doc docstore.Doc) docstore.Doc {
	for k, v := range doc.Data {
		if t, ok := v.(time.Time); ok {
			doc.Data[k] = t.UTC().Format(time.RFC3339)
		}
	}
	return doc
}

func decodeDoc[T any](doc docstore.Doc) (T, error) {
	var out T
	err := normalizeDoc(doc).DataTo(&out)
	return out, err
}

func decodeDocs[T any](docs []docstore.Doc) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := decodeDoc[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// scan is the plain whole-collection fetch used as the miss path of every
// list accessor.
func scan[T any](ctx context.Context, r *Repository, entity Entity) ([]T, error) {
	docs, err := r.store.GetAll(ctx, entity.Collection())
	if err != nil {
		return nil, err
	}
	return decodeDocs[T](docs)
}

// getOne fetches a single record by document id. Absence is not an error
// here; it returns (zero, false, nil) so callers can fall back to a slug
// query.
func getOne[T any](ctx context.Context, r *Repository, entity Entity, id string) (T, bool, error) {
	var zero T
	doc, err := r.store.Get(ctx, entity.Collection(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}
	v, err := decodeDoc[T](doc)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// whenLayouts are the date shapes documents carry: normalized timestamps
// plus the date-only and month-only values hand-entered records use.
var whenLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

// parseWhen turns a stored date string into a sortable instant.
// Unparseable or empty values sort last under a descending order.
func parseWhen(s string) time.Time {
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sortByWhenDesc orders items newest first by the timestamp the selector
// extracts. The sort is stable so records without a timestamp keep their
// scan order at the tail.
func sortByWhenDesc[T any](items []T, when func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return parseWhen(when(items[i])).After(parseWhen(when(items[j])))
	})
}

// parseYear reads a stored year string ("2024", or "" for ongoing).
// Non-numeric values sort as zero.
func parseYear(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
