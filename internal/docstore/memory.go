package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by unit tests and local development.
// Server timestamps materialize as time.Time values, mimicking an engine
// with a native timestamp type, so the read path has to normalize them.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	// Now is the store clock. Overridable in tests.
	Now func() time.Time

	// FailReads makes every read operation return the given error,
	// simulating an unreachable backend.
	FailReads error
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]any),
		Now:         time.Now,
	}
}

func (m *Memory) GetAll(_ context.Context, collection string) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads != nil {
		return nil, m.FailReads
	}

	docs := make([]Doc, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		docs = append(docs, Doc{ID: id, Data: copyData(data)})
	}
	sortDocs(docs)
	return docs, nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads != nil {
		return Doc{}, m.FailReads
	}

	data, ok := m.collections[collection][id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	return Doc{ID: id, Data: copyData(data)}, nil
}

func (m *Memory) Query(_ context.Context, collection, field string, value any) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads != nil {
		return nil, m.FailReads
	}

	var docs []Doc
	for id, data := range m.collections[collection] {
		if data[field] == value {
			docs = append(docs, Doc{ID: id, Data: copyData(data)})
		}
	}
	sortDocs(docs)
	return docs, nil
}

// sortDocs keeps scan and query results in id order so tests are
// deterministic; a real engine gives no ordering guarantee either way.
func sortDocs(docs []Doc) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func (m *Memory) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.ensure(collection)[id] = m.resolve(data)
	return id, nil
}

func (m *Memory) Set(_ context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.ensure(collection)
	existing, ok := coll[id]
	if !ok {
		existing = make(map[string]any)
		coll[id] = existing
	}
	for k, v := range m.resolve(data) {
		existing[k] = v
	}
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range m.resolve(data) {
		existing[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

// Seed inserts a document under a known id, bypassing timestamp resolution.
func (m *Memory) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(collection)[id] = copyData(data)
}

func (m *Memory) ensure(collection string) map[string]map[string]any {
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]map[string]any)
		m.collections[collection] = coll
	}
	return coll
}

func (m *Memory) resolve(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	now := m.Now().UTC()
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
