package turma

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

var (
	admin = user.Viewer{UserID: "admin-1", Role: user.RoleProfissional, Admin: true}
	coach = user.Viewer{UserID: "prof-1", Role: user.RoleProfissional}
)

// failingDeletes refuses to delete documents of one collection.
type failingDeletes struct {
	*docstore.Memory
	collection string
}

func (f failingDeletes) Delete(ctx context.Context, collection, id string) error {
	if collection == f.collection {
		return errors.New("delete unavailable")
	}
	return f.Memory.Delete(ctx, collection, id)
}

// gatedGets parks the first athlete read after arm() until release is
// closed.
type gatedGets struct {
	*docstore.Memory
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newGatedGets() *gatedGets {
	return &gatedGets{Memory: docstore.NewMemory(), reached: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedGets) arm() { g.armed.Store(true) }

func (g *gatedGets) Get(ctx context.Context, collection, id string) (docstore.Doc, error) {
	if collection == profile.ColAthletes && g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return g.Memory.Get(ctx, collection, id)
}

func setup(t *testing.T, db docstore.Store) (*Service, *profile.Repo) {
	t.Helper()
	profiles := profile.NewRepo(db)
	require.NoError(t, profiles.CreateProfessional(context.Background(), profile.Professional{UserID: "prof-1", Nome: "Carla"}))
	return NewService(NewRepo(db), profiles), profiles
}

func validInput() CreateInput {
	return CreateInput{
		Title:          "Sub-11 Manhã",
		QtdSemana:      2,
		Dia1:           "Segunda-feira",
		Dia2:           "Quarta-feira",
		Local:          "Campo 1",
		MaxAlunos:      20,
		HorarioInicio:  "08:00",
		HorarioTermino: "09:30",
		ProfissionalID: []string{"prof-1"},
		Sub:            "Sub-11",
	}
}

func seedAthletes(t *testing.T, profiles *profile.Repo, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("aluno-%d", i)
		require.NoError(t, profiles.CreateAthlete(context.Background(), profile.Athlete{UserID: id, Nome: id}))
		ids = append(ids, id)
	}
	return ids
}

func TestCreateValidation(t *testing.T) {
	svc, _ := setup(t, docstore.NewMemory())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing title", func(in *CreateInput) { in.Title = "" }},
		{"qtd out of range", func(in *CreateInput) { in.QtdSemana = 4 }},
		{"missing second day", func(in *CreateInput) { in.Dia2 = "" }},
		{"unknown weekday", func(in *CreateInput) { in.Dia1 = "Funday" }},
		{"repeated weekday", func(in *CreateInput) { in.Dia2 = "segunda-feira" }},
		{"end before start", func(in *CreateInput) { in.HorarioTermino = "07:00" }},
		{"bad time", func(in *CreateInput) { in.HorarioInicio = "8h" }},
		{"no capacity", func(in *CreateInput) { in.MaxAlunos = 0 }},
		{"unknown professional", func(in *CreateInput) { in.ProfissionalID = []string{"ghost"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, admin, in)
			assert.True(t, IsErrBadRequest(err), "got %v", err)
		})
	}
}

func TestCreateDropsDaysBeyondQtdSemana(t *testing.T) {
	svc, _ := setup(t, docstore.NewMemory())
	in := validInput()
	in.QtdSemana = 1
	in.Dia2 = "Quarta-feira"

	tm, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, "", tm.Dia2)
	assert.Equal(t, []string{"Segunda-feira"}, tm.Days())
}

func TestOnlyAdminsManageClasses(t *testing.T) {
	svc, _ := setup(t, docstore.NewMemory())
	ctx := context.Background()

	_, err := svc.Create(ctx, coach, validInput())
	assert.True(t, IsErrUnauthorized(err))

	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	assert.True(t, IsErrUnauthorized(svc.Delete(ctx, coach, tm.ID)))
}

func TestEnrollScenario(t *testing.T) {
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())

	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)

	for _, id := range seedAthletes(t, profiles, 3) {
		require.NoError(t, svc.EnrollAthlete(ctx, admin, tm.ID, id))
	}
	members, err := svc.Members(ctx, tm.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	// enrolling an existing member is a no-op
	require.NoError(t, svc.EnrollAthlete(ctx, coach, tm.ID, "aluno-0"))
	members, err = svc.Members(ctx, tm.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestEnrollEnforcesCapacity(t *testing.T) {
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())
	in := validInput()
	in.MaxAlunos = 2
	tm, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	ids := seedAthletes(t, profiles, 3)
	require.NoError(t, svc.EnrollAthlete(ctx, admin, tm.ID, ids[0]))
	require.NoError(t, svc.EnrollAthlete(ctx, admin, tm.ID, ids[1]))

	err = svc.EnrollAthlete(ctx, admin, tm.ID, ids[2])
	assert.True(t, IsErrClassFull(err))

	a, err := profiles.Athlete(ctx, ids[2])
	require.NoError(t, err)
	assert.Nil(t, a.TurmaID)
}

func TestConcurrentEnrollmentNeverOverfills(t *testing.T) {
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())
	in := validInput()
	in.MaxAlunos = 5
	tm, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	ids := seedAthletes(t, profiles, 20)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = svc.EnrollAthlete(ctx, admin, tm.ID, id)
		}(id)
	}
	wg.Wait()

	members, err := svc.Members(ctx, tm.ID)
	require.NoError(t, err)
	assert.Len(t, members, 5)
}

func TestDirectWritesCanExceedCapacity(t *testing.T) {
	// Only EnrollAthlete checks MaxAlunos; rows written by other paths
	// (imports, legacy data) are counted as they are.
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())
	in := validInput()
	in.MaxAlunos = 1
	tm, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	for _, id := range seedAthletes(t, profiles, 3) {
		require.NoError(t, profiles.UpdateAthlete(ctx, id, map[string]any{"turmaId": tm.ID}))
	}
	members, err := svc.Members(ctx, tm.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestDeleteUnassignsMembersFirst(t *testing.T) {
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())
	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	for _, id := range seedAthletes(t, profiles, 3) {
		require.NoError(t, svc.EnrollAthlete(ctx, admin, tm.ID, id))
	}

	require.NoError(t, svc.Delete(ctx, admin, tm.ID))

	_, err = svc.Get(ctx, tm.ID)
	assert.True(t, IsErrNotFound(err))
	athletes, err := profiles.Athletes(ctx)
	require.NoError(t, err)
	for _, a := range athletes {
		assert.False(t, a.InClass(tm.ID), a.UserID)
		assert.Nil(t, a.TurmaID)
	}
}

func TestDeleteFailureLeavesAthletesUnassigned(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	db := failingDeletes{Memory: mem, collection: Collection}
	svc, profiles := setup(t, db)

	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	for _, id := range seedAthletes(t, profiles, 2) {
		require.NoError(t, svc.EnrollAthlete(ctx, admin, tm.ID, id))
	}

	err = svc.Delete(ctx, admin, tm.ID)
	require.Error(t, err)

	// class still exists, nobody points at it any more
	still, err := svc.Get(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, tm.ID, still.ID)
	members, err := svc.Members(ctx, tm.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestUpdateRevalidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, docstore.NewMemory())
	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)

	three := 3
	_, err = svc.Update(ctx, admin, tm.ID, UpdateInput{QtdSemana: &three})
	assert.True(t, IsErrBadRequest(err))

	dia3 := "Sexta-feira"
	out, err := svc.Update(ctx, admin, tm.ID, UpdateInput{QtdSemana: &three, Dia3: &dia3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Segunda-feira", "Quarta-feira", "Sexta-feira"}, out.Days())
	assert.True(t, out.MeetsOn("sexta-feira"))
}

func TestUnassign(t *testing.T) {
	ctx := context.Background()
	svc, profiles := setup(t, docstore.NewMemory())
	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	ids := seedAthletes(t, profiles, 1)
	require.NoError(t, svc.EnrollAthlete(ctx, coach, tm.ID, ids[0]))

	require.NoError(t, svc.UnassignAthlete(ctx, coach, tm.ID, ids[0]))
	assert.True(t, IsErrBadRequest(svc.UnassignAthlete(ctx, coach, tm.ID, ids[0])))
}

func TestEnrollAfterConcurrentDeleteFails(t *testing.T) {
	ctx := context.Background()
	db := newGatedGets()
	svc, profiles := setup(t, db)
	tm, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	ids := seedAthletes(t, profiles, 1)

	db.arm()
	done := make(chan error, 1)
	go func() { done <- svc.EnrollAthlete(ctx, admin, tm.ID, ids[0]) }()

	<-db.reached
	require.NoError(t, svc.Delete(ctx, admin, tm.ID))
	close(db.release)

	assert.True(t, IsErrNotFound(<-done))
	a, err := profiles.Athlete(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, a.TurmaID)
}

func TestDeleteKeepsAthleteMovedMeanwhile(t *testing.T) {
	ctx := context.Background()
	db := newGatedGets()
	svc, profiles := setup(t, db)
	from, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	to, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	ids := seedAthletes(t, profiles, 1)
	require.NoError(t, svc.EnrollAthlete(ctx, admin, from.ID, ids[0]))

	db.arm()
	done := make(chan error, 1)
	go func() { done <- svc.Delete(ctx, admin, from.ID) }()

	<-db.reached
	require.NoError(t, svc.EnrollAthlete(ctx, admin, to.ID, ids[0]))
	close(db.release)

	require.NoError(t, <-done)
	a, err := profiles.Athlete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, a.InClass(to.ID))
}
