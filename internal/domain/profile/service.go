package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// Refresher reloads a user's merged profile after it changes.
type Refresher interface {
	Refresh(ctx context.Context, userID string)
}

type Service struct {
	repo      *Repo
	users     *user.Repo
	blobs     blob.Store
	idp       user.IdentityProvider
	refresher Refresher
}

func NewService(repo *Repo, users *user.Repo, blobs blob.Store, idp user.IdentityProvider) *Service {
	if idp == nil {
		idp = user.NopIdentity{}
	}
	return &Service{repo: repo, users: users, blobs: blobs, idp: idp}
}

// SetRefresher wires the identity store so profile edits are republished.
func (s *Service) SetRefresher(r Refresher) {
	s.refresher = r
}

func (s *Service) refresh(ctx context.Context, userID string) {
	if s.refresher != nil {
		s.refresher.Refresh(ctx, userID)
	}
}

// UpdateOwn applies edits to the caller's role document. Only the role's
// editable fields are accepted; values must be strings.
func (s *Service) UpdateOwn(ctx context.Context, v user.Viewer, in map[string]any) error {
	allowed := editableFields(v.Role)
	if allowed == nil {
		return fmt.Errorf("%w: unknown role", ErrBadRequest)
	}
	updates, err := filterUpdates(in, allowed)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, v.Role, v.UserID, updates); err != nil {
		return err
	}
	if nome, ok := updates["nome"]; ok {
		if err := s.users.Update(ctx, v.UserID, map[string]any{"nome": nome}); err != nil {
			log.Printf("[profile] sync nome for %s: %v", v.UserID, err)
		}
	}
	s.refresh(ctx, v.UserID)
	return nil
}

// UpdateAthlete lets staff edit an athlete's record.
func (s *Service) UpdateAthlete(ctx context.Context, v user.Viewer, athleteID string, in map[string]any) (*Athlete, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can edit athletes", ErrUnauthorized)
	}
	updates, err := filterUpdates(in, athleteFields)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAthlete(ctx, athleteID, updates); err != nil {
		return nil, err
	}
	s.refresh(ctx, athleteID)
	return s.repo.Athlete(ctx, athleteID)
}

// LinkGuardian sets the id reference and keeps nomeResponsavel in sync for
// older readers.
func (s *Service) LinkGuardian(ctx context.Context, v user.Viewer, athleteID, guardianID string) error {
	if !v.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	g, err := s.repo.Guardian(ctx, guardianID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateAthlete(ctx, athleteID, map[string]any{
		"responsavelId":   g.UserID,
		"nomeResponsavel": g.CPF,
	}); err != nil {
		return err
	}
	s.refresh(ctx, athleteID)
	return nil
}

func (s *Service) Athlete(ctx context.Context, v user.Viewer, athleteID string) (*Athlete, error) {
	a, err := s.repo.Athlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(v) {
		return nil, fmt.Errorf("%w: not allowed to view this athlete", ErrUnauthorized)
	}
	return a, nil
}

func (s *Service) Athletes(ctx context.Context, v user.Viewer) ([]Athlete, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can list athletes", ErrUnauthorized)
	}
	return s.repo.Athletes(ctx)
}

func (s *Service) Professionals(ctx context.Context) ([]Professional, error) {
	return s.repo.Professionals(ctx)
}

// GuardianAthletes lists the athletes linked to a guardian.
func (s *Service) GuardianAthletes(ctx context.Context, v user.Viewer, guardianID string) ([]Athlete, error) {
	if !v.IsStaff() && v.UserID != guardianID {
		return nil, fmt.Errorf("%w: not allowed", ErrUnauthorized)
	}
	g, err := s.repo.Guardian(ctx, guardianID)
	if err != nil {
		return nil, err
	}
	athletes, err := s.repo.Athletes(ctx)
	if err != nil {
		return nil, err
	}
	return LinkedAthletes(*g, athletes), nil
}

// SetAvatar stores a resized avatar and points the role document at it.
func (s *Service) SetAvatar(ctx context.Context, v user.Viewer, r io.Reader) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("file storage is not configured")
	}
	previous := s.currentAvatar(ctx, v)

	fileID, err := blob.UploadImage(ctx, s.blobs, blob.BucketAvatars, r, blob.AvatarImage)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidImage) {
			return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.repo.Update(ctx, v.Role, v.UserID, map[string]any{"avatar": fileID}); err != nil {
		_ = s.blobs.Delete(ctx, blob.BucketAvatars, fileID)
		return "", err
	}
	if previous != "" {
		if err := s.blobs.Delete(ctx, blob.BucketAvatars, previous); err != nil {
			log.Printf("[profile] delete old avatar %s: %v", previous, err)
		}
	}
	s.refresh(ctx, v.UserID)
	return fileID, nil
}

func (s *Service) currentAvatar(ctx context.Context, v user.Viewer) string {
	switch v.Role {
	case user.RoleProfissional:
		if p, err := s.repo.Professional(ctx, v.UserID); err == nil {
			return p.Avatar
		}
	case user.RoleAtleta:
		if a, err := s.repo.Athlete(ctx, v.UserID); err == nil {
			return a.Avatar
		}
	case user.RoleResponsavel:
		if g, err := s.repo.Guardian(ctx, v.UserID); err == nil {
			return g.Avatar
		}
	}
	return ""
}

func (s *Service) AvatarURL(ctx context.Context, fileID string) (string, error) {
	if fileID == "" || s.blobs == nil {
		return "", nil
	}
	return s.blobs.URL(ctx, blob.BucketAvatars, fileID)
}

// ListUsers is the admin user directory. status "all" disables the status
// filter; the default lists active accounts.
func (s *Service) ListUsers(ctx context.Context, v user.Viewer, role, status string) ([]user.User, error) {
	if !v.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	r := user.Role(strings.TrimSpace(role))
	if r != "" && !r.Valid() {
		return nil, fmt.Errorf("%w: invalid role", ErrBadRequest)
	}
	var st *string
	switch status {
	case "all":
	case "archived", user.StatusArchived:
		archived := user.StatusArchived
		st = &archived
	default:
		active := ""
		st = &active
	}
	return s.users.List(ctx, r, st)
}

// Archive marks the account archived and disables sign-in.
func (s *Service) Archive(ctx context.Context, v user.Viewer, targetID string) error {
	return s.setArchived(ctx, v, targetID, true)
}

func (s *Service) Restore(ctx context.Context, v user.Viewer, targetID string) error {
	return s.setArchived(ctx, v, targetID, false)
}

func (s *Service) setArchived(ctx context.Context, v user.Viewer, targetID string, archived bool) error {
	if !v.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	if targetID == "" {
		return fmt.Errorf("%w: userId is required", ErrBadRequest)
	}
	if archived && targetID == v.UserID {
		return ErrCannotArchiveSelf
	}

	status := ""
	if archived {
		status = user.StatusArchived
	}
	if err := s.users.Update(ctx, targetID, map[string]any{"status": status}); err != nil {
		if user.IsErrNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	if err := s.idp.SetDisabled(ctx, targetID, archived); err != nil {
		log.Printf("[profile] identity provider disable=%v for %s: %v", archived, targetID, err)
	}
	s.refresh(ctx, targetID)
	return nil
}

func editableFields(role user.Role) []string {
	switch role {
	case user.RoleProfissional:
		return professionalFields
	case user.RoleAtleta:
		return athleteFields
	case user.RoleResponsavel:
		return guardianFields
	}
	return nil
}

func filterUpdates(in map[string]any, allowed []string) (map[string]any, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrBadRequest)
	}
	ok := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		ok[f] = true
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if !ok[k] {
			return nil, fmt.Errorf("%w: field %q cannot be updated", ErrBadRequest, k)
		}
		str, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("%w: field %q must be a string", ErrBadRequest, k)
		}
		str = utils.TrimMax(str, 500)
		if k == "nome" && str == "" {
			return nil, fmt.Errorf("%w: nome cannot be empty", ErrBadRequest)
		}
		out[k] = str
	}
	return out, nil
}
