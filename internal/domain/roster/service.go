package roster

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// fanOut bounds the concurrent per-class lookups.
const fanOut = 8

type Service struct {
	turmas   *turma.Repo
	profiles *profile.Repo
	chamadas *attendance.Repo
}

func NewService(turmas *turma.Repo, profiles *profile.Repo, chamadas *attendance.Repo) *Service {
	return &Service{turmas: turmas, profiles: profiles, chamadas: chamadas}
}

// DayFilterFor parses the day query value. Empty means every day.
func DayFilterFor(day string) (DayFilter, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return AnyDay, nil
	}
	if _, ok := utils.ParseWeekday(day); !ok {
		return nil, fmt.Errorf("%w: unknown weekday %q", ErrBadRequest, day)
	}
	return OnWeekday(day), nil
}

func (s *Service) load(ctx context.Context, v user.Viewer) ([]turma.Turma, []profile.Athlete, error) {
	classes, err := s.turmas.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load turmas: %w", err)
	}
	athletes, err := s.profiles.Athletes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load athletes: %w", err)
	}
	return VisibleClasses(v, classes, athletes), athletes, nil
}

// Build resolves the viewer's classes for a day with their members. A failed
// class or membership fetch fails the whole roster; a failed attendance
// lookup only marks that class's rows as unavailable.
func (s *Service) Build(ctx context.Context, v user.Viewer, day string, by SortBy) (*Roster, error) {
	keep, err := DayFilterFor(day)
	if err != nil {
		return nil, err
	}
	visible, _, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	visible = FilterDay(visible, keep)
	sortBySchedule(visible)

	out := make([]ClassRoster, len(visible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, t := range visible {
		g.Go(func() error {
			members, err := s.profiles.AthletesInClass(gctx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to load members of %s: %w", t.ID, err)
			}
			chamadas, cerr := s.chamadas.ListByClass(gctx, t.ID)
			if cerr != nil {
				log.Printf("[roster] chamadas of %s: %v", t.ID, cerr)
			}

			rows := []MemberRow{}
			for _, a := range members {
				if !memberVisible(v, a) {
					continue
				}
				row := NewMemberRow(a, t.Title)
				if cerr != nil {
					row.Frequencia = Unavailable
				} else {
					row.Frequencia = AttendancePercentage(a.UserID, chamadas)
				}
				rows = append(rows, row)
			}
			SortMembers(rows, by)
			out[i] = ClassRoster{Turma: t, MemberCount: len(members), Members: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Roster{Day: strings.TrimSpace(day), Classes: out}, nil
}

// memberVisible hides classmates from athletes and guardians.
func memberVisible(v user.Viewer, a profile.Athlete) bool {
	switch {
	case v.IsStaff():
		return true
	case v.Role == user.RoleAtleta:
		return a.UserID == v.UserID
	}
	return a.VisibleTo(v)
}

// Week lists, for each day of the window around today, the visible classes
// meeting that day.
func (s *Service) Week(ctx context.Context, v user.Viewer, today time.Time) ([]DaySchedule, error) {
	visible, _, err := s.load(ctx, v)
	if err != nil {
		return nil, err
	}
	out := []DaySchedule{}
	for _, d := range WeekWindow(today) {
		classes := FilterDay(visible, OnWeekday(d.Weekday))
		sortBySchedule(classes)
		out = append(out, DaySchedule{Day: d, Classes: classes})
	}
	return out, nil
}

func (s *Service) AthleteAttendance(ctx context.Context, v user.Viewer, athleteID string) (*AthleteAttendance, error) {
	a, err := s.profiles.Athlete(ctx, athleteID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return nil, err
	}
	if !a.VisibleTo(v) {
		return nil, fmt.Errorf("%w: not allowed to view this athlete", ErrUnauthorized)
	}

	title := NoClassTitle
	chamadas := []attendance.Chamada{}
	if a.TurmaID != nil && *a.TurmaID != "" {
		if t, err := s.turmas.Get(ctx, *a.TurmaID); err == nil {
			title = t.Title
		}
		chamadas, err = s.chamadas.ListByClass(ctx, *a.TurmaID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chamadas: %w", err)
		}
	}

	records := make([]AttendanceRecord, 0, len(chamadas))
	present := 0
	for _, c := range chamadas {
		p := c.IsPresent(a.UserID)
		if p {
			present++
		}
		records = append(records, AttendanceRecord{ChamadaID: c.ID, Data: c.Data, Presente: p})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return dateKey(records[i].Data).After(dateKey(records[j].Data))
	})

	return &AthleteAttendance{
		Athlete:    NewMemberRow(*a, title),
		Frequencia: AttendancePercentage(a.UserID, chamadas),
		Total:      len(chamadas),
		Presencas:  present,
		Records:    records,
	}, nil
}

// Chamada resolves a chamada's athlete ids to names for staff.
func (s *Service) Chamada(ctx context.Context, v user.Viewer, id string) (*ChamadaView, error) {
	c, err := s.chamadas.Get(ctx, id)
	if err != nil {
		if attendance.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: chamada not found", ErrNotFound)
		}
		return nil, err
	}

	title := NoClassTitle
	t, err := s.turmas.Get(ctx, c.TurmaID)
	switch {
	case err == nil:
		title = t.Title
		if !v.IsAdmin() && !t.HasProfessional(v.UserID) {
			return nil, fmt.Errorf("%w: only admins or the class professionals can view chamadas", ErrUnauthorized)
		}
	case !v.IsAdmin():
		return nil, fmt.Errorf("%w: only admins can view chamadas of removed turmas", ErrUnauthorized)
	}

	athletes, err := s.profiles.Athletes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load athletes: %w", err)
	}
	return &ChamadaView{
		ID:        c.ID,
		TurmaID:   c.TurmaID,
		Turma:     title,
		Data:      c.Data,
		Presentes: AthleteNames(c.Presentes, athletes),
		Ausentes:  AthleteNames(c.Ausentes, athletes),
	}, nil
}

func sortBySchedule(classes []turma.Turma) {
	sort.SliceStable(classes, func(i, j int) bool {
		return utils.HHMMToMinutes(classes[i].HorarioInicio) < utils.HHMMToMinutes(classes[j].HorarioInicio)
	})
}

func dateKey(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
