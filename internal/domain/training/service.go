package training

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

type Service struct {
	repo     *Repo
	profiles *profile.Repo
}

func NewService(repo *Repo, profiles *profile.Repo) *Service {
	return &Service{repo: repo, profiles: profiles}
}

func (s *Service) Create(ctx context.Context, v user.Viewer, in CreateInput) (*Treino, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can assign trainings", ErrUnauthorized)
	}
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if _, err := s.profiles.Athlete(ctx, in.Aluno); err != nil {
		if profile.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: athlete not found", ErrBadRequest)
		}
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, Treino{
		Titulo:    in.Titulo,
		Descricao: in.Descricao,
		Link:      in.Link,
		Professor: v.UserID,
		Aluno:     in.Aluno,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) Get(ctx context.Context, v user.Viewer, id string) (*Treino, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canRead(ctx, v, t.Aluno); err != nil {
		return nil, err
	}
	return t, nil
}

// List filters by aluno or professor. Without filters, athletes get their
// own trainings and professionals the ones they wrote.
func (s *Service) List(ctx context.Context, v user.Viewer, aluno, professor string) ([]Treino, error) {
	aluno, professor = strings.TrimSpace(aluno), strings.TrimSpace(professor)
	if aluno == "" && professor == "" && !v.IsAdmin() {
		switch v.Role {
		case user.RoleAtleta:
			aluno = v.UserID
		case user.RoleProfissional:
			professor = v.UserID
		default:
			return nil, fmt.Errorf("%w: aluno is required", ErrBadRequest)
		}
	}
	if aluno != "" {
		if err := s.canRead(ctx, v, aluno); err != nil {
			return nil, err
		}
	} else if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can list by professor", ErrUnauthorized)
	}

	var filters []docstore.Filter
	if aluno != "" {
		filters = append(filters, docstore.Eq("aluno", aluno))
	}
	if professor != "" {
		filters = append(filters, docstore.Eq("professor", professor))
	}
	list, err := s.repo.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *Service) Update(ctx context.Context, v user.Viewer, id string, in UpdateInput) (*Treino, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsAdmin() && current.Professor != v.UserID {
		return nil, fmt.Errorf("%w: only the author or an admin can edit", ErrUnauthorized)
	}

	next := CreateInput{Titulo: current.Titulo, Descricao: current.Descricao, Link: current.Link, Aluno: current.Aluno}
	if in.Titulo != nil {
		next.Titulo = *in.Titulo
	}
	if in.Descricao != nil {
		next.Descricao = *in.Descricao
	}
	if in.Link != nil {
		next.Link = *in.Link
	}
	next.Trim()
	if err := validate.Struct(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return s.repo.Update(ctx, id, map[string]any{
		"titulo":    next.Titulo,
		"descricao": next.Descricao,
		"link":      next.Link,
	})
}

func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && current.Professor != v.UserID {
		return fmt.Errorf("%w: only the author or an admin can delete", ErrUnauthorized)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) canRead(ctx context.Context, v user.Viewer, alunoID string) error {
	if v.IsStaff() || v.UserID == alunoID {
		return nil
	}
	a, err := s.profiles.Athlete(ctx, alunoID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return err
	}
	if !a.VisibleTo(v) {
		return fmt.Errorf("%w: not allowed to view these trainings", ErrUnauthorized)
	}
	return nil
}
