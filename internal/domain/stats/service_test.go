package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/event"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/report"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// Wednesday.
var now = time.Date(2024, time.March, 13, 10, 0, 0, 0, utils.Location)

func ptr(s string) *string { return &s }

func at(t time.Time) *time.Time { return &t }

func fixture() Source {
	return Source{
		Classes: []turma.Turma{
			{ID: "t1", Title: "Sub-11", QtdSemana: 1, Dia1: "Quarta-feira", ProfissionalID: []string{"p1"}},
			{ID: "t2", Title: "Sub-13", QtdSemana: 1, Dia1: "Segunda-feira", ProfissionalID: []string{"p2"}},
		},
		Athletes: []profile.Athlete{
			{UserID: "a1", TurmaID: ptr("t1"), StatusPagamento: "mensal", EndDate: at(now.AddDate(0, 1, 0))},
			{UserID: "a2", TurmaID: ptr("t2"), StatusPagamento: "mensal", EndDate: at(now.AddDate(0, 0, -1))},
			{UserID: "a3", TurmaID: ptr("t1"), ResponsavelID: "g1"},
			{UserID: "a4", StatusPagamento: profile.PaymentCancelled, EndDate: at(now.AddDate(0, 2, 0))},
		},
		Chamadas: []attendance.Chamada{
			{TurmaID: "t1", Data: "05-03-2024", Presentes: []string{"a1"}, Ausentes: []string{"a3"}},
			{TurmaID: "t2", Data: "10-02-2024", Presentes: []string{"a2"}},
			{TurmaID: "t1", Data: "01-01-2023", Presentes: []string{"a1"}},
		},
		Events: []event.Event{
			{DateEvent: "20-03-2024"},
			{DateEvent: "01-10-2023"},
			{DateEvent: "sometime"},
		},
		Reports: []report.Relatorio{
			{TurmaID: "t1", Data: "06-03-2024"},
			{TurmaID: "t2", Data: "07-03-2024"},
		},
	}
}

func TestComputeAdmin(t *testing.T) {
	d := Compute(user.Viewer{UserID: "admin", Admin: true}, fixture(), now)

	assert.Equal(t, "13-03-2024", d.Date)
	assert.Equal(t, 1, d.ClassesToday)
	assert.Equal(t, 4, d.Athletes)
	assert.Equal(t, PaymentStats{EmDia: 1, Vencido: 1, SemPlano: 2}, d.Payments)

	assert.Equal(t, "03-2024", d.ThisMonth.Month)
	assert.Equal(t, 1, d.ThisMonth.Chamadas)
	assert.Equal(t, 1, d.ThisMonth.Events)
	assert.Equal(t, 2, d.ThisMonth.Reports)
	assert.Equal(t, "50.0", d.ThisMonth.Rate)

	require.Len(t, d.History, HistoryMonths)
	assert.Equal(t, "10-2023", d.History[0].Month)
	assert.Equal(t, 1, d.History[0].Events)
	assert.Equal(t, "02-2024", d.History[4].Month)
	assert.Equal(t, 1, d.History[4].Chamadas)
	assert.Equal(t, "100.0", d.History[4].Rate)
	assert.Equal(t, "0.0", d.History[1].Rate)
}

func TestComputeScopedByRole(t *testing.T) {
	coach := Compute(user.Viewer{UserID: "p2", Role: user.RoleProfissional}, fixture(), now)
	assert.Equal(t, 0, coach.ClassesToday)
	assert.Equal(t, 1, coach.Athletes)
	assert.Equal(t, PaymentStats{Vencido: 1}, coach.Payments)
	assert.Equal(t, 0, coach.ThisMonth.Chamadas)
	assert.Equal(t, 1, coach.ThisMonth.Reports)
	assert.Equal(t, 1, coach.History[4].Chamadas)

	parent := Compute(user.Viewer{UserID: "g1", Role: user.RoleResponsavel}, fixture(), now)
	assert.Equal(t, 1, parent.ClassesToday)
	assert.Equal(t, 1, parent.Athletes)
	assert.Equal(t, PaymentStats{SemPlano: 1}, parent.Payments)
	assert.Equal(t, 1, parent.ThisMonth.Chamadas)
	assert.Equal(t, 1, parent.ThisMonth.Events)
	assert.Zero(t, parent.ThisMonth.Reports)

	stranger := Compute(user.Viewer{UserID: "a9", Role: user.RoleAtleta}, fixture(), now)
	assert.Zero(t, stranger.ClassesToday)
	assert.Zero(t, stranger.Athletes)
	assert.Zero(t, stranger.ThisMonth.Chamadas)
}

func TestPaymentOf(t *testing.T) {
	tests := []struct {
		name string
		a    profile.Athlete
		want PaymentState
	}{
		{"no plan", profile.Athlete{}, SemPlano},
		{"plan without end", profile.Athlete{StatusPagamento: "anual"}, SemPlano},
		{"active", profile.Athlete{StatusPagamento: "anual", EndDate: at(now.Add(time.Hour))}, EmDia},
		{"expired", profile.Athlete{StatusPagamento: "anual", EndDate: at(now.Add(-time.Hour))}, Vencido},
		{"cancelled", profile.Athlete{StatusPagamento: profile.PaymentCancelled, EndDate: at(now.Add(time.Hour))}, SemPlano},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PaymentOf(tc.a, now))
		})
	}
}

func TestGetDashboard(t *testing.T) {
	db := docstore.NewMemory()
	ctx := context.Background()
	turmas := turma.NewRepo(db)
	profiles := profile.NewRepo(db)
	chamadas := attendance.NewRepo(db)
	events := event.NewRepo(db)
	reports := report.NewRepo(db)

	cls, err := turmas.Create(ctx, turma.Turma{Title: "Sub-11", QtdSemana: 1, Dia1: "Quarta-feira", MaxAlunos: 10})
	require.NoError(t, err)
	require.NoError(t, profiles.CreateAthlete(ctx, profile.Athlete{UserID: "a1", TurmaID: ptr(cls.ID)}))
	_, err = chamadas.Create(ctx, attendance.Chamada{TurmaID: cls.ID, Data: utils.FormatDate(time.Now()), Presentes: []string{"a1"}})
	require.NoError(t, err)
	_, err = reports.Create(ctx, report.Relatorio{TurmaID: cls.ID, Data: utils.FormatDate(time.Now())})
	require.NoError(t, err)

	svc := NewService(turmas, profiles, chamadas, events, reports)
	d, err := svc.GetDashboard(ctx, user.Viewer{UserID: "admin", Admin: true}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Athletes)
	assert.Equal(t, 1, d.ThisMonth.Chamadas)
	assert.Equal(t, 1, d.ThisMonth.Reports)
	assert.Equal(t, "100.0", d.ThisMonth.Rate)
	assert.Equal(t, PaymentStats{SemPlano: 1}, d.Payments)

	// Reports are not loaded for families.
	d, err = svc.GetDashboard(ctx, user.Viewer{UserID: "a1", Role: user.RoleAtleta}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, d.ThisMonth.Reports)
	assert.Equal(t, 1, d.ThisMonth.Chamadas)
}
