package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "users"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Get(ctx context.Context, userID string) (*User, error) {
	u, err := docstore.GetAs[User](ctx, r.db, Collection, userID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	if u.UserID == "" {
		u.UserID = u.ID
	}
	return u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := docstore.ListAs[User](ctx, r.db, Collection, docstore.Eq("email", strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return &users[0], nil
}

// List returns users, optionally narrowed by role and status. An empty role
// or a nil status skips that filter.
func (r *Repo) List(ctx context.Context, role Role, status *string) ([]User, error) {
	var filters []docstore.Filter
	if role != "" {
		filters = append(filters, docstore.Eq("role", string(role)))
	}
	if status != nil {
		filters = append(filters, docstore.Eq("status", *status))
	}
	return docstore.ListAs[User](ctx, r.db, Collection, filters...)
}

func (r *Repo) Create(ctx context.Context, u User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.Set(ctx, Collection, u.UserID, u)
}

func (r *Repo) Update(ctx context.Context, userID string, fields map[string]any) error {
	fields["updatedAt"] = time.Now().UTC()
	if err := r.db.Update(ctx, Collection, userID, fields); err != nil {
		if docstore.IsNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string) error {
	return r.db.Delete(ctx, Collection, userID)
}
