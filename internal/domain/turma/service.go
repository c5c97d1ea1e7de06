package turma

import (
	"context"
	"fmt"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/keylock"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

type Service struct {
	repo      *Repo
	profiles  *profile.Repo
	locks     *keylock.Map
	refresher profile.Refresher
}

func NewService(repo *Repo, profiles *profile.Repo) *Service {
	return &Service{repo: repo, profiles: profiles, locks: keylock.New()}
}

// SetRefresher republishes an athlete's merged profile after enrollment
// changes.
func (s *Service) SetRefresher(r profile.Refresher) {
	s.refresher = r
}

func (s *Service) refresh(ctx context.Context, userID string) {
	if s.refresher != nil {
		s.refresher.Refresh(ctx, userID)
	}
}

func (s *Service) Create(ctx context.Context, v user.Viewer, in CreateInput) (*Turma, error) {
	if !v.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create turmas", ErrUnauthorized)
	}
	in.Trim()
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, Turma{
		Title:          in.Title,
		QtdSemana:      in.QtdSemana,
		Dia1:           in.Dia1,
		Dia2:           in.Dia2,
		Dia3:           in.Dia3,
		Local:          in.Local,
		MaxAlunos:      in.MaxAlunos,
		HorarioInicio:  in.HorarioInicio,
		HorarioTermino: in.HorarioTermino,
		ProfissionalID: in.ProfissionalID,
		Sub:            in.Sub,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*Turma, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: turmaId is required", ErrBadRequest)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Turma, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, v user.Viewer, id string, in UpdateInput) (*Turma, error) {
	if !v.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can update turmas", ErrUnauthorized)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := in.apply(*current)
	if err := s.validate(ctx, &next); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, map[string]any{
		"title":              next.Title,
		"Qtd_Semana":         next.QtdSemana,
		"Dia1":               next.Dia1,
		"Dia2":               next.Dia2,
		"Dia3":               next.Dia3,
		"Local":              next.Local,
		"MaxAlunos":          next.MaxAlunos,
		"Horario_de_inicio":  next.HorarioInicio,
		"Horario_de_termino": next.HorarioTermino,
		"profissionalId":     next.ProfissionalID,
		"Sub":                next.Sub,
	})
}

// Delete unassigns every member, then deletes the class. Each member is
// re-read first and skipped if it has already moved to another class. The
// unassignments are independent writes: if a later step fails, athletes
// already unassigned stay unassigned.
func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	if !v.IsAdmin() {
		return fmt.Errorf("%w: only admins can delete turmas", ErrUnauthorized)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	members, err := s.profiles.AthletesInClass(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	for _, a := range members {
		// enrollments elsewhere only hold the other class's lock
		cur, err := s.profiles.Athlete(ctx, a.UserID)
		if err != nil {
			if profile.IsErrNotFound(err) {
				continue
			}
			return fmt.Errorf("failed to reload athlete %s: %w", a.UserID, err)
		}
		if !cur.InClass(id) {
			continue
		}
		if err := s.profiles.UpdateAthlete(ctx, a.UserID, map[string]any{"turmaId": nil}); err != nil {
			return fmt.Errorf("failed to unassign athlete %s: %w", a.UserID, err)
		}
		s.refresh(ctx, a.UserID)
	}
	return s.repo.Delete(ctx, id)
}

// EnrollAthlete assigns the athlete to the class if a seat is free. The
// membership count and the write happen under the class lock.
func (s *Service) EnrollAthlete(ctx context.Context, v user.Viewer, turmaID, athleteID string) error {
	t, err := s.repo.Get(ctx, turmaID)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
		return fmt.Errorf("%w: only admins or the class professionals can enroll", ErrUnauthorized)
	}
	a, err := s.profiles.Athlete(ctx, athleteID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return err
	}
	if a.InClass(turmaID) {
		return nil
	}

	unlock := s.locks.Lock(turmaID)
	defer unlock()

	// the class may have been deleted while we waited
	t, err = s.repo.Get(ctx, turmaID)
	if err != nil {
		return err
	}
	members, err := s.profiles.AthletesInClass(ctx, turmaID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if len(members) >= t.MaxAlunos {
		return fmt.Errorf("%w: %d/%d", ErrClassFull, len(members), t.MaxAlunos)
	}
	if err := s.profiles.UpdateAthlete(ctx, athleteID, map[string]any{"turmaId": turmaID}); err != nil {
		return err
	}
	s.refresh(ctx, athleteID)
	return nil
}

func (s *Service) UnassignAthlete(ctx context.Context, v user.Viewer, turmaID, athleteID string) error {
	t, err := s.repo.Get(ctx, turmaID)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
		return fmt.Errorf("%w: only admins or the class professionals can unassign", ErrUnauthorized)
	}
	a, err := s.profiles.Athlete(ctx, athleteID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return err
	}
	if !a.InClass(turmaID) {
		return fmt.Errorf("%w: athlete is not in this turma", ErrBadRequest)
	}

	unlock := s.locks.Lock(turmaID)
	defer unlock()

	if err := s.profiles.UpdateAthlete(ctx, athleteID, map[string]any{"turmaId": nil}); err != nil {
		return err
	}
	s.refresh(ctx, athleteID)
	return nil
}

func (s *Service) Members(ctx context.Context, turmaID string) ([]profile.Athlete, error) {
	if _, err := s.repo.Get(ctx, turmaID); err != nil {
		return nil, err
	}
	return s.profiles.AthletesInClass(ctx, turmaID)
}

func (s *Service) validate(ctx context.Context, in *CreateInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	days := []string{in.Dia1, in.Dia2, in.Dia3}
	for i := 1; i < 3; i++ {
		if i < in.QtdSemana && days[i] == "" {
			return fmt.Errorf("%w: Dia%d is required when Qtd_Semana is %d", ErrBadRequest, i+1, in.QtdSemana)
		}
		if i >= in.QtdSemana {
			days[i] = ""
		}
	}
	in.Dia2, in.Dia3 = days[1], days[2]

	seen := map[time.Weekday]bool{}
	for _, d := range days {
		if d == "" {
			continue
		}
		wd, _ := utils.ParseWeekday(d)
		if seen[wd] {
			return fmt.Errorf("%w: weekdays must be distinct", ErrBadRequest)
		}
		seen[wd] = true
	}

	if utils.HHMMToMinutes(in.HorarioInicio) >= utils.HHMMToMinutes(in.HorarioTermino) {
		return fmt.Errorf("%w: Horario_de_inicio must be before Horario_de_termino", ErrBadRequest)
	}

	for _, pid := range in.ProfissionalID {
		if _, err := s.profiles.Professional(ctx, pid); err != nil {
			if profile.IsErrNotFound(err) {
				return fmt.Errorf("%w: professional %s not found", ErrBadRequest, pid)
			}
			return err
		}
	}
	return nil
}
