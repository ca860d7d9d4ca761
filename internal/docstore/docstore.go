// Package docstore defines the contract the content layer has with the
// remote document database: schemaless documents addressed by
// (collection, id), whole-collection scans, equality-filtered queries,
// add/merge-update/delete and server-assigned timestamps. Nothing above this
// package knows which engine actually holds the documents.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("document not found")

// Doc is a single stored document. Data values are JSON-compatible; native
// timestamp values may surface as time.Time and are normalized by the caller.
type Doc struct {
	ID   string
	Data map[string]any
}

type serverTimestamp struct{}

// ServerTimestamp is a write placeholder the store replaces with its own
// clock, so document timestamps never depend on the client's clock.
var ServerTimestamp = serverTimestamp{}

type Store interface {
	// GetAll scans a whole collection.
	GetAll(ctx context.Context, collection string) ([]Doc, error)

	// Get fetches one document. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Doc, error)

	// Query returns documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Doc, error)

	// Add stores a new document under a generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Set merge-writes a document at a known id, creating it when absent.
	// Fields not present in data are preserved.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Update merge-writes fields into an existing document.
	// Returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, data map[string]any) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// DataTo decodes the document's fields into out via JSON, injecting the
// document id under the "id" key the way every entity type expects it.
func (d Doc) DataTo(out any) error {
	m := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		m[k] = v
	}
	m["id"] = d.ID

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document %q: %w", d.ID, err)
	}
	return nil
}

// ToData encodes a typed entity back into a document field map, dropping the
// "id" key so it never gets persisted inside the document body.
func ToData(in any) (map[string]any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	delete(m, "id")
	return m, nil
}
