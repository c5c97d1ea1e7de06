package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Group   *string   `json:"group"`
	Tags    []string  `json:"tags"`
	Count   int       `json:"count"`
	Created time.Time `json:"created"`
}

func (i *item) SetID(id string) { i.ID = id }

func strp(s string) *string { return &s }

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Create(ctx, "items", item{Name: "bola", Count: 2, Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := GetAs[item](ctx, m, "items", id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "bola", got.Name)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.Created.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, m.Update(ctx, "items", id, map[string]any{"count": 5}))
	got, err = GetAs[item](ctx, m, "items", id)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, "bola", got.Name)

	require.NoError(t, m.Delete(ctx, "items", id))
	_, err = m.Get(ctx, "items", id)
	assert.True(t, IsNotFound(err))
}

func TestMemoryUpdateMissing(t *testing.T) {
	err := NewMemory().Update(context.Background(), "items", "nope", map[string]any{"a": 1})
	assert.True(t, IsNotFound(err))
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "items", "a", item{Name: "a", Group: strp("t1"), Count: 1}))
	require.NoError(t, m.Set(ctx, "items", "b", item{Name: "b", Group: strp("t1"), Count: 2}))
	require.NoError(t, m.Set(ctx, "items", "c", item{Name: "c", Group: nil, Count: 1}))

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"no filter", nil, []string{"a", "b", "c"}},
		{"by group", []Filter{Eq("group", "t1")}, []string{"a", "b"}},
		{"null group", []Filter{Eq("group", nil)}, []string{"c"}},
		{"conjunctive", []Filter{Eq("group", "t1"), Eq("count", 2)}, []string{"b"}},
		{"no match", []Filter{Eq("name", "z")}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := ListAs[item](ctx, m, "items", tc.filters...)
			require.NoError(t, err)
			ids := []string{}
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestMemoryArrayOps(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "items", "a", item{Name: "a"}))

	require.NoError(t, m.ArrayUnion(ctx, "items", "a", "tags", "x"))
	require.NoError(t, m.ArrayUnion(ctx, "items", "a", "tags", "x", "y"))
	got, err := GetAs[item](ctx, m, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Tags)

	require.NoError(t, m.ArrayRemove(ctx, "items", "a", "tags", "x", "missing"))
	got, err = GetAs[item](ctx, m, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got.Tags)

	assert.True(t, IsNotFound(m.ArrayUnion(ctx, "items", "b", "tags", "x")))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().List(ctx, "items")
	assert.ErrorIs(t, err, context.Canceled)
}
