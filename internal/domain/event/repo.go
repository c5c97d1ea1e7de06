package event

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "eventos"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, e Event) (*Event, error) {
	id, err := r.db.Create(ctx, Collection, e)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	e.ID = id
	return &e, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Event, error) {
	e, err := docstore.GetAs[Event](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: event not found", ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *Repo) List(ctx context.Context, filters ...docstore.Filter) ([]Event, error) {
	return docstore.ListAs[Event](ctx, r.db, Collection, filters...)
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]any) (*Event, error) {
	updates["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, id, updates); err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: event not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// Confirm adds userID to Confirmados. Adding an id already present is a
// no-op.
func (r *Repo) Confirm(ctx context.Context, id, userID string) error {
	if err := r.db.ArrayUnion(ctx, Collection, id, "Confirmados", userID); err != nil {
		if docstore.IsNotFound(err) {
			return fmt.Errorf("%w: event not found", ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *Repo) Cancel(ctx context.Context, id, userID string) error {
	if err := r.db.ArrayRemove(ctx, Collection, id, "Confirmados", userID); err != nil {
		if docstore.IsNotFound(err) {
			return fmt.Errorf("%w: event not found", ErrNotFound)
		}
		return err
	}
	return nil
}
