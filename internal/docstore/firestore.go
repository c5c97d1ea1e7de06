package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	fs *firestore.Client
}

var _ Store = (*Firestore)(nil)

func NewFirestore(fs *firestore.Client) *Firestore {
	return &Firestore{fs: fs}
}

type fsDoc struct {
	snap *firestore.DocumentSnapshot
}

func (d fsDoc) ID() string { return d.snap.Ref.ID }

func (d fsDoc) DataTo(dst any) error { return d.snap.DataTo(dst) }

func (f *Firestore) List(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	q := f.fs.Collection(collection).Query
	for _, flt := range filters {
		q = q.Where(flt.Field, "==", flt.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []Doc{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out = append(out, fsDoc{snap: doc})
	}
	return out, nil
}

func (f *Firestore) Get(ctx context.Context, collection, id string) (Doc, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s/<empty>", ErrNotFound, collection)
	}
	snap, err := f.fs.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err, collection, id)
	}
	return fsDoc{snap: snap}, nil
}

func (f *Firestore) Create(ctx context.Context, collection string, data any) (string, error) {
	ref := f.fs.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, data); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (f *Firestore) Set(ctx context.Context, collection, id string, data any) error {
	if _, err := f.fs.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *Firestore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if len(updates) == 0 {
		return nil
	}
	if _, err := f.fs.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return mapErr(err, collection, id)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	if _, err := f.fs.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return mapErr(err, collection, id)
	}
	return nil
}

func (f *Firestore) ArrayUnion(ctx context.Context, collection, id, field string, values ...any) error {
	_, err := f.fs.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayUnion(values...)},
	})
	if err != nil {
		return mapErr(err, collection, id)
	}
	return nil
}

func (f *Firestore) ArrayRemove(ctx context.Context, collection, id, field string, values ...any) error {
	_, err := f.fs.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayRemove(values...)},
	})
	if err != nil {
		return mapErr(err, collection, id)
	}
	return nil
}

func mapErr(err error, collection, id string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return fmt.Errorf("%s/%s: %w", collection, id, err)
}
