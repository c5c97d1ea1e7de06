package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "chamadas"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, c Chamada) (*Chamada, error) {
	id, err := r.db.Create(ctx, Collection, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create chamada: %w", err)
	}
	c.ID = id
	return &c, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Chamada, error) {
	c, err := docstore.GetAs[Chamada](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: chamada not found", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// FindExisting returns the chamada of a turma on a date, nil when none.
func (r *Repo) FindExisting(ctx context.Context, turmaID, data string) (*Chamada, error) {
	list, err := docstore.ListAs[Chamada](ctx, r.db, Collection,
		docstore.Eq("turma_id", turmaID),
		docstore.Eq("data", data),
	)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *Repo) ListByClass(ctx context.Context, turmaID string) ([]Chamada, error) {
	return docstore.ListAs[Chamada](ctx, r.db, Collection, docstore.Eq("turma_id", turmaID))
}

func (r *Repo) ListAll(ctx context.Context) ([]Chamada, error) {
	return docstore.ListAs[Chamada](ctx, r.db, Collection)
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]any) (*Chamada, error) {
	updates["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, id, updates); err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: chamada not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update chamada: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete chamada: %w", err)
	}
	return nil
}
