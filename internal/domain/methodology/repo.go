package methodology

import (
	"context"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "metodologias"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

// Get returns the professional's list. A missing document is an empty list.
func (r *Repo) Get(ctx context.Context, userID string) (*List, error) {
	l, err := docstore.GetAs[List](ctx, r.db, Collection, userID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return &List{ID: userID, UserID: userID, Metodologias: []string{}}, nil
		}
		return nil, err
	}
	if l.Metodologias == nil {
		l.Metodologias = []string{}
	}
	return l, nil
}

// Add appends value unless present, creating the document on first use.
func (r *Repo) Add(ctx context.Context, userID, value string) error {
	err := r.db.ArrayUnion(ctx, Collection, userID, "metodologias", value)
	if docstore.IsNotFound(err) {
		return r.db.Set(ctx, Collection, userID, List{UserID: userID, Metodologias: []string{value}})
	}
	return err
}

func (r *Repo) Remove(ctx context.Context, userID, value string) error {
	err := r.db.ArrayRemove(ctx, Collection, userID, "metodologias", value)
	if docstore.IsNotFound(err) {
		return nil
	}
	return err
}
