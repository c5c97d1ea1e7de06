// Package docstore is the document gateway every domain repo writes through.
// It mirrors the subset of Firestore the app relies on: equality-filtered
// listing, get/create/set/update/delete by id and atomic array edits.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrTransient = errors.New("transient store failure")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Filter is an equality predicate on a single top-level field.
type Filter struct {
	Field string
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

type Doc interface {
	ID() string
	DataTo(dst any) error
}

type Store interface {
	List(ctx context.Context, collection string, filters ...Filter) ([]Doc, error)
	Get(ctx context.Context, collection, id string) (Doc, error)
	Create(ctx context.Context, collection string, data any) (string, error)
	Set(ctx context.Context, collection, id string, data any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	ArrayUnion(ctx context.Context, collection, id, field string, values ...any) error
	ArrayRemove(ctx context.Context, collection, id, field string, values ...any) error
}

// Identifiable is satisfied by model pointers that carry their document id
// outside the stored fields.
type Identifiable[T any] interface {
	*T
	SetID(id string)
}

// All decodes docs into models. Documents that do not decode are skipped.
func All[T any, PT Identifiable[T]](docs []Doc) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := d.DataTo(&v); err != nil {
			continue
		}
		PT(&v).SetID(d.ID())
		out = append(out, v)
	}
	return out
}

func One[T any, PT Identifiable[T]](d Doc) (*T, error) {
	var v T
	if err := d.DataTo(&v); err != nil {
		return nil, err
	}
	PT(&v).SetID(d.ID())
	return &v, nil
}

// GetAs fetches and decodes a single document.
func GetAs[T any, PT Identifiable[T]](ctx context.Context, s Store, collection, id string) (*T, error) {
	d, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return One[T, PT](d)
}

// ListAs lists and decodes a collection.
func ListAs[T any, PT Identifiable[T]](ctx context.Context, s Store, collection string, filters ...Filter) ([]T, error) {
	docs, err := s.List(ctx, collection, filters...)
	if err != nil {
		return nil, err
	}
	return All[T, PT](docs), nil
}
