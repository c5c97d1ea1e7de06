package gallery

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const Collection = "galeria"

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, img Image) (*Image, error) {
	id, err := r.db.Create(ctx, Collection, img)
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}
	img.ID = id
	return &img, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Image, error) {
	img, err := docstore.GetAs[Image](ctx, r.db, Collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: image not found", ErrNotFound)
		}
		return nil, err
	}
	return img, nil
}

func (r *Repo) List(ctx context.Context) ([]Image, error) {
	return docstore.ListAs[Image](ctx, r.db, Collection)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.Delete(ctx, Collection, id)
}
