package turma

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "turmas"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, t Turma) (*Turma, error) {
	id, err := r.db.Create(ctx, Collection, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create turma: %w", err)
	}
	t.ID = id
	return &t, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Turma, error) {
	t, err := docstore.GetAs[Turma](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: turma not found", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *Repo) List(ctx context.Context) ([]Turma, error) {
	return docstore.ListAs[Turma](ctx, r.db, Collection)
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]any) (*Turma, error) {
	updates["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, id, updates); err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: turma not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update turma: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete turma: %w", err)
	}
	return nil
}
