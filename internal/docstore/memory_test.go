package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAddAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Add(ctx, "things", map[string]any{"name": "one"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := m.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "one", doc.Data["name"])

	_, err = m.Get(ctx, "things", "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryServerTimestampResolvesToStoreClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.Now = func() time.Time { return now }

	id, err := m.Add(ctx, "things", map[string]any{"created_at": ServerTimestamp})
	require.NoError(t, err)

	doc, err := m.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, now, doc.Data["created_at"])
}

func TestMemorySetMergesAndCreates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "things", "t1", map[string]any{"a": "1", "b": "2"}))
	require.NoError(t, m.Set(ctx, "things", "t1", map[string]any{"b": "3"}))

	doc, err := m.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Data["a"])
	assert.Equal(t, "3", doc.Data["b"])
}

func TestMemoryUpdateRequiresExistingDoc(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Update(ctx, "things", "absent", map[string]any{"a": "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryQueryMatchesFieldEquality(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed("things", "a", map[string]any{"kind": "x"})
	m.Seed("things", "b", map[string]any{"kind": "y"})
	m.Seed("things", "c", map[string]any{"kind": "x"})

	docs, err := m.Query(ctx, "things", "kind", "x")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
}

func TestMemoryFailReads(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Seed("things", "a", map[string]any{"kind": "x"})
	m.FailReads = assert.AnError

	_, err := m.GetAll(ctx, "things")
	assert.ErrorIs(t, err, assert.AnError)
	_, err = m.Get(ctx, "things", "a")
	assert.ErrorIs(t, err, assert.AnError)
	_, err = m.Query(ctx, "things", "kind", "x")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDocDataToInjectsID(t *testing.T) {
	doc := Doc{ID: "d1", Data: map[string]any{"title": "T"}}

	var out struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, doc.DataTo(&out))
	assert.Equal(t, "d1", out.ID)
	assert.Equal(t, "T", out.Title)
}

func TestToDataDropsID(t *testing.T) {
	in := struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}{ID: "d1", Title: "T"}

	data, err := ToData(in)
	require.NoError(t, err)
	assert.NotContains(t, data, "id")
	assert.Equal(t, "T", data["title"])
}
