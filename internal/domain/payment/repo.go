package payment

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "historico_pagamentos"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Append(ctx context.Context, h Historico) (*Historico, error) {
	id, err := r.db.Create(ctx, Collection, h)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	h.ID = id
	return &h, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Historico, error) {
	return docstore.ListAs[Historico](ctx, r.db, Collection, docstore.Eq("userId", userID))
}

func (r *Repo) ListByAthlete(ctx context.Context, athleteID string) ([]Historico, error) {
	return docstore.ListAs[Historico](ctx, r.db, Collection, docstore.Eq("athleteId", athleteID))
}

func (r *Repo) ListAll(ctx context.Context) ([]Historico, error) {
	return docstore.ListAs[Historico](ctx, r.db, Collection)
}
