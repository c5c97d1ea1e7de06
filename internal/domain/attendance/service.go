package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/keylock"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

type Service struct {
	repo     *Repo
	turmas   *turma.Repo
	profiles *profile.Repo
	locks    *keylock.Map
}

func NewService(repo *Repo, turmas *turma.Repo, profiles *profile.Repo) *Service {
	return &Service{repo: repo, turmas: turmas, profiles: profiles, locks: keylock.New()}
}

// Record takes the roll call of a turma for a date. A second call for the
// same turma and date replaces the lists of the existing chamada.
func (s *Service) Record(ctx context.Context, v user.Viewer, turmaID string, in RecordInput) (*Chamada, error) {
	in.Trim()
	if err := s.authorize(ctx, v, turmaID); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := checkDisjoint(in.Presentes, in.Ausentes); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(turmaID + "|" + in.Data)
	defer unlock()

	existing, err := s.repo.FindExisting(ctx, turmaID, in.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to look up chamada: %w", err)
	}
	if existing != nil {
		return s.repo.Update(ctx, existing.ID, map[string]any{
			"presentes":     in.Presentes,
			"ausentes":      in.Ausentes,
			"registradoPor": v.UserID,
		})
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, Chamada{
		TurmaID:       turmaID,
		Data:          in.Data,
		Presentes:     in.Presentes,
		Ausentes:      in.Ausentes,
		RegistradoPor: v.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Service) Update(ctx context.Context, v user.Viewer, id string, in UpdateInput) (*Chamada, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeExisting(ctx, v, current.TurmaID); err != nil {
		return nil, err
	}

	presentes, ausentes := current.Presentes, current.Ausentes
	if in.Presentes != nil {
		presentes = dedupe(*in.Presentes)
	}
	if in.Ausentes != nil {
		ausentes = dedupe(*in.Ausentes)
	}
	if err := checkDisjoint(presentes, ausentes); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, map[string]any{
		"presentes":     presentes,
		"ausentes":      ausentes,
		"registradoPor": v.UserID,
	})
}

func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeExisting(ctx, v, current.TurmaID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListByClass returns the chamadas of a turma, most recent date first.
func (s *Service) ListByClass(ctx context.Context, v user.Viewer, turmaID string) ([]Chamada, error) {
	t, err := s.getTurma(ctx, turmaID)
	if err != nil {
		return nil, err
	}
	if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
		return nil, fmt.Errorf("%w: only admins or the class professionals can list chamadas", ErrUnauthorized)
	}
	list, err := s.repo.ListByClass(ctx, turmaID)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(list)
	return list, nil
}

// ListByAthlete returns every chamada that mentions the athlete. Staff, the
// athlete and the athlete's guardians may read it.
func (s *Service) ListByAthlete(ctx context.Context, v user.Viewer, athleteID string) ([]AthleteRecord, error) {
	if err := s.canSeeAthlete(ctx, v, athleteID); err != nil {
		return nil, err
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(all)

	out := []AthleteRecord{}
	for _, c := range all {
		if !c.Mentions(athleteID) {
			continue
		}
		out = append(out, AthleteRecord{
			ChamadaID: c.ID,
			TurmaID:   c.TurmaID,
			Data:      c.Data,
			Presente:  c.IsPresent(athleteID),
		})
	}
	return out, nil
}

func (s *Service) canSeeAthlete(ctx context.Context, v user.Viewer, athleteID string) error {
	if v.IsStaff() || v.UserID == athleteID {
		return nil
	}
	a, err := s.profiles.Athlete(ctx, athleteID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return err
	}
	if !a.VisibleTo(v) {
		return fmt.Errorf("%w: cannot view this athlete's attendance", ErrUnauthorized)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, v user.Viewer, turmaID string) error {
	t, err := s.getTurma(ctx, turmaID)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
		return fmt.Errorf("%w: only admins or the class professionals can take the roll call", ErrUnauthorized)
	}
	return nil
}

// authorizeExisting is authorize for chamadas already stored. Deleting a
// turma leaves its chamadas behind; admins can still edit or remove them.
func (s *Service) authorizeExisting(ctx context.Context, v user.Viewer, turmaID string) error {
	err := s.authorize(ctx, v, turmaID)
	if v.IsAdmin() && (IsErrNotFound(err) || IsErrBadRequest(err)) {
		return nil
	}
	return err
}

func (s *Service) getTurma(ctx context.Context, turmaID string) (*turma.Turma, error) {
	if turmaID == "" {
		return nil, fmt.Errorf("%w: turma_id is required", ErrBadRequest)
	}
	t, err := s.turmas.Get(ctx, turmaID)
	if err != nil {
		if turma.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: turma not found", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func checkDisjoint(presentes, ausentes []string) error {
	for _, id := range presentes {
		if contains(ausentes, id) {
			return fmt.Errorf("%w: athlete %s is both present and absent", ErrBadRequest, id)
		}
	}
	return nil
}

// sortByDateDesc orders by the parsed DD-MM-YYYY date. Unparseable dates go
// last.
func sortByDateDesc(list []Chamada) {
	key := func(c Chamada) time.Time {
		t, err := utils.ParseDate(c.Data)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(list, func(i, j int) bool {
		return key(list[i]).After(key(list[j]))
	})
}
