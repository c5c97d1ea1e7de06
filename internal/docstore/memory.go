package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Documents are kept as JSON-normalised maps,
// so models round-trip through their json tags (which match the firestore
// tags field for field).
type Memory struct {
	mu   sync.RWMutex
	cols map[string]map[string]map[string]any
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{cols: map[string]map[string]map[string]any{}}
}

type memDoc struct {
	id   string
	data map[string]any
}

func (d memDoc) ID() string { return d.id }

func (d memDoc) DataTo(dst any) error {
	b, err := json.Marshal(d.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (m *Memory) List(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	norm := make([]Filter, 0, len(filters))
	for _, f := range filters {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, err
		}
		norm = append(norm, Filter{Field: f.Field, Value: v})
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.cols[collection]
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []Doc{}
	for _, id := range ids {
		data := col[id]
		if !matches(data, norm) {
			continue
		}
		out = append(out, memDoc{id: id, data: copyMap(data)})
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.cols[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return memDoc{id: id, data: copyMap(data)}, nil
}

func (m *Memory) Create(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := normalizeDoc(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.cols[collection]
	if !ok {
		col = map[string]map[string]any{}
		m.cols[collection] = col
	}
	col[id] = doc
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	norm := make(map[string]any, len(fields))
	for k, v := range fields {
		nv, err := normalizeValue(v)
		if err != nil {
			return err
		}
		norm[k] = nv
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.cols[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	for k, v := range norm {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols[collection], id)
	return nil
}

func (m *Memory) ArrayUnion(ctx context.Context, collection, id, field string, values ...any) error {
	return m.editArray(ctx, collection, id, field, values, func(cur []any, v any) []any {
		for _, c := range cur {
			if reflect.DeepEqual(c, v) {
				return cur
			}
		}
		return append(cur, v)
	})
}

func (m *Memory) ArrayRemove(ctx context.Context, collection, id, field string, values ...any) error {
	return m.editArray(ctx, collection, id, field, values, func(cur []any, v any) []any {
		out := cur[:0]
		for _, c := range cur {
			if !reflect.DeepEqual(c, v) {
				out = append(out, c)
			}
		}
		return out
	})
}

func (m *Memory) editArray(ctx context.Context, collection, id, field string, values []any, apply func([]any, any) []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	norm := make([]any, 0, len(values))
	for _, v := range values {
		nv, err := normalizeValue(v)
		if err != nil {
			return err
		}
		norm = append(norm, nv)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.cols[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	cur, _ := doc[field].([]any)
	next := append([]any{}, cur...)
	for _, v := range norm {
		next = apply(next, v)
	}
	doc[field] = next
	return nil
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(data[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func normalizeDoc(data any) (map[string]any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("document must encode to an object: %w", err)
	}
	// ids live outside the stored fields
	delete(out, "id")
	return out, nil
}

func normalizeValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if arr, ok := v.([]any); ok {
			v = append([]any{}, arr...)
		}
		out[k] = v
	}
	return out
}
