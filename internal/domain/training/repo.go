package training

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "treinos"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, t Treino) (*Treino, error) {
	id, err := r.db.Create(ctx, Collection, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}
	t.ID = id
	return &t, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Treino, error) {
	t, err := docstore.GetAs[Treino](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: training not found", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *Repo) List(ctx context.Context, filters ...docstore.Filter) ([]Treino, error) {
	return docstore.ListAs[Treino](ctx, r.db, Collection, filters...)
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]any) (*Treino, error) {
	updates["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, id, updates); err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: training not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update training: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete training: %w", err)
	}
	return nil
}
