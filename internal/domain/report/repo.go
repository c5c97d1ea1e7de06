package report

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "relatorios"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, rel Relatorio) (*Relatorio, error) {
	id, err := r.db.Create(ctx, Collection, rel)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	rel.ID = id
	return &rel, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Relatorio, error) {
	rel, err := docstore.GetAs[Relatorio](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: report not found", ErrNotFound)
		}
		return nil, err
	}
	return rel, nil
}

// List filters by turma and author when they are non-empty.
func (r *Repo) List(ctx context.Context, turmaID, authorID string) ([]Relatorio, error) {
	var filters []docstore.Filter
	if turmaID != "" {
		filters = append(filters, docstore.Eq("turmaId", turmaID))
	}
	if authorID != "" {
		filters = append(filters, docstore.Eq("userId", authorID))
	}
	return docstore.ListAs[Relatorio](ctx, r.db, Collection, filters...)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
