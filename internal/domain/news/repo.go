package news

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "novidades"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, n Novidade) (*Novidade, error) {
	id, err := r.db.Create(ctx, Collection, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	n.ID = id
	return &n, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Novidade, error) {
	n, err := docstore.GetAs[Novidade](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: news not found", ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *Repo) List(ctx context.Context) ([]Novidade, error) {
	return docstore.ListAs[Novidade](ctx, r.db, Collection)
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]any) (*Novidade, error) {
	updates["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, id, updates); err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: news not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update news: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	return nil
}
