package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

type Service struct {
	repo   *Repo
	turmas *turma.Repo
	blobs  blob.Store
}

func NewService(repo *Repo, turmas *turma.Repo, blobs blob.Store) *Service {
	return &Service{repo: repo, turmas: turmas, blobs: blobs}
}

// Create stores the report and its photos. Photos are encoded in parallel;
// if any fails, the ones already stored are removed.
func (s *Service) Create(ctx context.Context, v user.Viewer, in CreateInput, images []io.Reader) (*View, error) {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if len(images) > MaxImages {
		return nil, fmt.Errorf("%w: at most %d images", ErrBadRequest, MaxImages)
	}
	t, err := s.turmas.Get(ctx, in.TurmaID)
	if err != nil {
		if turma.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: turma not found", ErrBadRequest)
		}
		return nil, err
	}
	if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
		return nil, fmt.Errorf("%w: only the class professionals can write reports", ErrUnauthorized)
	}

	ids, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}

	rel, err := s.repo.Create(ctx, Relatorio{
		UserID:       v.UserID,
		TurmaID:      in.TurmaID,
		Data:         in.Data,
		Hora:         in.Hora,
		Metodologias: in.Metodologias,
		Observacoes:  in.Observacoes,
		Imagens:      ids,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.deleteAll(ctx, ids)
		return nil, err
	}
	view := s.view(ctx, *rel)
	return &view, nil
}

func (s *Service) uploadAll(ctx context.Context, images []io.Reader) ([]string, error) {
	ids := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range images {
		g.Go(func() error {
			id, err := blob.UploadImage(gctx, s.blobs, blob.BucketReports, r, blob.ReportImage)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.deleteAll(ctx, ids)
		if errors.Is(err, blob.ErrInvalidImage) {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return nil, fmt.Errorf("failed to store images: %w", err)
	}
	return ids, nil
}

func (s *Service) deleteAll(ctx context.Context, ids []string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, blob.BucketReports, id); err != nil {
			log.Printf("[report] delete image %s: %v", id, err)
		}
	}
}

func (s *Service) Get(ctx context.Context, v user.Viewer, id string) (*View, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can read reports", ErrUnauthorized)
	}
	rel, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, *rel)
	return &view, nil
}

// List returns reports filtered by turma and/or author, newest date first.
func (s *Service) List(ctx context.Context, v user.Viewer, turmaID, authorID string) ([]View, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can read reports", ErrUnauthorized)
	}
	list, err := s.repo.List(ctx, turmaID, authorID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return dateKey(list[i]).After(dateKey(list[j]))
	})
	out := make([]View, 0, len(list))
	for _, rel := range list {
		out = append(out, s.view(ctx, rel))
	}
	return out, nil
}

// Delete removes the report and its photos. Only the author or an admin.
func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	rel, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && rel.UserID != v.UserID {
		return fmt.Errorf("%w: only the author or an admin can delete", ErrUnauthorized)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteAll(ctx, rel.Imagens)
	return nil
}

func (s *Service) view(ctx context.Context, rel Relatorio) View {
	urls := make([]string, 0, len(rel.Imagens))
	for _, id := range rel.Imagens {
		u, err := s.blobs.URL(ctx, blob.BucketReports, id)
		if err != nil {
			log.Printf("[report] url %s: %v", id, err)
			continue
		}
		urls = append(urls, u)
	}
	return View{Relatorio: rel, ImageURLs: urls}
}

func dateKey(r Relatorio) time.Time {
	t, err := utils.ParseDate(r.Data)
	if err != nil {
		return r.CreatedAt
	}
	return t
}
