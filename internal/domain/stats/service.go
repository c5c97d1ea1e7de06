package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/event"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/report"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/roster"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

type Service struct {
	turmas   *turma.Repo
	profiles *profile.Repo
	chamadas *attendance.Repo
	events   *event.Repo
	reports  *report.Repo
}

func NewService(turmas *turma.Repo, profiles *profile.Repo, chamadas *attendance.Repo, events *event.Repo, reports *report.Repo) *Service {
	return &Service{turmas: turmas, profiles: profiles, chamadas: chamadas, events: events, reports: reports}
}

// Source is everything the dashboard is computed from.
type Source struct {
	Classes  []turma.Turma
	Athletes []profile.Athlete
	Chamadas []attendance.Chamada
	Events   []event.Event
	Reports  []report.Relatorio
}

// GetDashboard loads every collection the dashboard needs in parallel and
// summarises them for v. Any failed fetch fails the whole dashboard.
func (s *Service) GetDashboard(ctx context.Context, v user.Viewer, now time.Time) (*Dashboard, error) {
	var src Source
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.Classes, err = s.turmas.List(gctx)
		return wrap("classes", err)
	})
	g.Go(func() (err error) {
		src.Athletes, err = s.profiles.Athletes(gctx)
		return wrap("athletes", err)
	})
	g.Go(func() (err error) {
		src.Chamadas, err = s.chamadas.ListAll(gctx)
		return wrap("chamadas", err)
	})
	g.Go(func() (err error) {
		src.Events, err = s.events.List(gctx)
		return wrap("events", err)
	})
	if v.IsStaff() {
		g.Go(func() (err error) {
			src.Reports, err = s.reports.List(gctx, "", "")
			return wrap("reports", err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d := Compute(v, src, now)
	return &d, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}

// counts reports whether a belongs in v's athlete figures. Professionals see
// the members of their own classes, like the rest of the dashboard.
func counts(v user.Viewer, a profile.Athlete, classIDs map[string]bool) bool {
	if v.IsAdmin() {
		return true
	}
	if v.Role == user.RoleProfissional {
		return a.TurmaID != nil && classIDs[*a.TurmaID]
	}
	return a.VisibleTo(v)
}

// Compute builds the dashboard from already loaded data. Classes, athletes,
// chamadas and reports are scoped to what v can see; events are public.
func Compute(v user.Viewer, src Source, now time.Time) Dashboard {
	now = now.In(utils.Location)
	classes := roster.VisibleClasses(v, src.Classes, src.Athletes)
	classIDs := make(map[string]bool, len(classes))
	for _, t := range classes {
		classIDs[t.ID] = true
	}

	d := Dashboard{
		Date:         utils.FormatDate(now),
		ClassesToday: len(roster.FilterDay(classes, roster.OnWeekday(utils.WeekdayName(now.Weekday())))),
	}

	for _, a := range src.Athletes {
		if !counts(v, a, classIDs) {
			continue
		}
		d.Athletes++
		switch PaymentOf(a, now) {
		case EmDia:
			d.Payments.EmDia++
		case Vencido:
			d.Payments.Vencido++
		default:
			d.Payments.SemPlano++
		}
	}

	months := make([]time.Time, HistoryMonths)
	first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, utils.Location)
	for i := range months {
		months[i] = first.AddDate(0, i-(HistoryMonths-1), 0)
	}
	d.History = make([]MonthlyCounts, HistoryMonths)
	for i, m := range months {
		d.History[i].Month = m.Format("01-2006")
	}
	bucket := func(date string) *MonthlyCounts {
		t, err := utils.ParseDate(date)
		if err != nil {
			return nil
		}
		for i, m := range months {
			if utils.SameMonth(t, m) {
				return &d.History[i]
			}
		}
		return nil
	}

	for _, c := range src.Chamadas {
		if !classIDs[c.TurmaID] {
			continue
		}
		if b := bucket(c.Data); b != nil {
			b.Chamadas++
			b.Present += len(c.Presentes)
			b.Absent += len(c.Ausentes)
		}
	}
	for _, e := range src.Events {
		if b := bucket(e.DateEvent); b != nil {
			b.Events++
		}
	}
	if v.IsStaff() {
		for _, r := range src.Reports {
			if !v.IsAdmin() && !classIDs[r.TurmaID] {
				continue
			}
			if b := bucket(r.Data); b != nil {
				b.Reports++
			}
		}
	}

	for i := range d.History {
		h := &d.History[i]
		h.Rate = rate(h.Present, h.Present+h.Absent)
	}
	d.ThisMonth = d.History[HistoryMonths-1]
	return d
}

// PaymentOf classifies an athlete's plan at now. A cancelled or missing plan
// counts as no plan even when an end date is still recorded.
func PaymentOf(a profile.Athlete, now time.Time) PaymentState {
	if a.StatusPagamento == "" || a.StatusPagamento == profile.PaymentCancelled || a.EndDate == nil {
		return SemPlano
	}
	if a.EndDate.After(now) {
		return EmDia
	}
	return Vencido
}

func rate(part, total int) string {
	if total == 0 {
		return "0.0"
	}
	return formatFloat(float64(part) / float64(total) * 100)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
