package methodology

import (
	"context"
	"fmt"
	"strings"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/keylock"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

const maxLen = 120

type Service struct {
	repo  *Repo
	locks *keylock.Map
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo, locks: keylock.New()}
}

// List returns the methodologies of ownerID, or of the viewer when empty.
func (s *Service) List(ctx context.Context, v user.Viewer, ownerID string) (*List, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff have methodologies", ErrUnauthorized)
	}
	if ownerID == "" {
		ownerID = v.UserID
	}
	return s.repo.Get(ctx, ownerID)
}

func (s *Service) Add(ctx context.Context, v user.Viewer, value string) (*List, error) {
	value, err := clean(value)
	if err != nil {
		return nil, err
	}
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff have methodologies", ErrUnauthorized)
	}

	unlock := s.locks.Lock(v.UserID)
	defer unlock()
	if err := s.repo.Add(ctx, v.UserID, value); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, v.UserID)
}

func (s *Service) Remove(ctx context.Context, v user.Viewer, value string) (*List, error) {
	value, err := clean(value)
	if err != nil {
		return nil, err
	}
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff have methodologies", ErrUnauthorized)
	}

	unlock := s.locks.Lock(v.UserID)
	defer unlock()
	if err := s.repo.Remove(ctx, v.UserID, value); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, v.UserID)
}

func clean(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: value is required", ErrBadRequest)
	}
	return utils.TrimMax(value, maxLen), nil
}
