package profile

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

const (
	ColProfessionals = "profissionais"
	ColAthletes      = "alunos"
	ColGuardians     = "responsaveis"
)

// CollectionFor is the profile collection of a role.
func CollectionFor(role user.Role) string {
	switch role {
	case user.RoleProfissional:
		return ColProfessionals
	case user.RoleAtleta:
		return ColAthletes
	case user.RoleResponsavel:
		return ColGuardians
	}
	return ""
}

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

func notFound(err error, what string) error {
	if docstore.IsNotFound(err) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return err
}

func (r *Repo) Professional(ctx context.Context, userID string) (*Professional, error) {
	p, err := docstore.GetAs[Professional](ctx, r.db, ColProfessionals, userID)
	if err != nil {
		return nil, notFound(err, "professional")
	}
	return p, nil
}

func (r *Repo) Athlete(ctx context.Context, userID string) (*Athlete, error) {
	a, err := docstore.GetAs[Athlete](ctx, r.db, ColAthletes, userID)
	if err != nil {
		return nil, notFound(err, "athlete")
	}
	return a, nil
}

func (r *Repo) Guardian(ctx context.Context, userID string) (*Guardian, error) {
	g, err := docstore.GetAs[Guardian](ctx, r.db, ColGuardians, userID)
	if err != nil {
		return nil, notFound(err, "guardian")
	}
	return g, nil
}

func (r *Repo) Professionals(ctx context.Context) ([]Professional, error) {
	return docstore.ListAs[Professional](ctx, r.db, ColProfessionals)
}

func (r *Repo) Athletes(ctx context.Context, filters ...docstore.Filter) ([]Athlete, error) {
	return docstore.ListAs[Athlete](ctx, r.db, ColAthletes, filters...)
}

// AthletesInClass is the membership query: athletes whose turmaId equals
// turmaID.
func (r *Repo) AthletesInClass(ctx context.Context, turmaID string) ([]Athlete, error) {
	return r.Athletes(ctx, docstore.Eq("turmaId", turmaID))
}

func (r *Repo) Guardians(ctx context.Context, filters ...docstore.Filter) ([]Guardian, error) {
	return docstore.ListAs[Guardian](ctx, r.db, ColGuardians, filters...)
}

func (r *Repo) CreateProfessional(ctx context.Context, p Professional) error {
	return r.db.Set(ctx, ColProfessionals, p.UserID, p)
}

func (r *Repo) CreateAthlete(ctx context.Context, a Athlete) error {
	return r.db.Set(ctx, ColAthletes, a.UserID, a)
}

func (r *Repo) CreateGuardian(ctx context.Context, g Guardian) error {
	return r.db.Set(ctx, ColGuardians, g.UserID, g)
}

func (r *Repo) Update(ctx context.Context, role user.Role, userID string, fields map[string]any) error {
	col := CollectionFor(role)
	if col == "" {
		return fmt.Errorf("%w: unknown role %q", ErrBadRequest, role)
	}
	if err := r.db.Update(ctx, col, userID, fields); err != nil {
		return notFound(err, string(role))
	}
	return nil
}

func (r *Repo) UpdateAthlete(ctx context.Context, userID string, fields map[string]any) error {
	return r.Update(ctx, user.RoleAtleta, userID, fields)
}

func (r *Repo) Delete(ctx context.Context, role user.Role, userID string) error {
	return r.db.Delete(ctx, CollectionFor(role), userID)
}
