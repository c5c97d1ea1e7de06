package notifications

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "notificacoes"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, n Notification) (*Notification, error) {
	id, err := r.db.Create(ctx, Collection, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	n.ID = id
	return &n, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Notification, error) {
	n, err := docstore.GetAs[Notification](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: notification not found", ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *Repo) ListForUser(ctx context.Context, uid string, unreadOnly bool) ([]Notification, error) {
	filters := []docstore.Filter{docstore.Eq("userId", uid)}
	if unreadOnly {
		filters = append(filters, docstore.Eq("read", false))
	}
	return docstore.ListAs[Notification](ctx, r.db, Collection, filters...)
}

func (r *Repo) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.db.Update(ctx, Collection, id, fields); err != nil {
		if docstore.IsNotFound(err) {
			return fmt.Errorf("%w: notification not found", ErrNotFound)
		}
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
