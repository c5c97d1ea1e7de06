package identity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

type recorder struct {
	mu    sync.Mutex
	rooms []string
}

func (r *recorder) Publish(room, _ string, _ any) {
	r.mu.Lock()
	r.rooms = append(r.rooms, room)
	r.mu.Unlock()
}

func seed(t *testing.T) (*Loader, *profile.Repo) {
	t.Helper()
	db := docstore.NewMemory()
	ctx := context.Background()
	users := user.NewRepo(db)
	profiles := profile.NewRepo(db)

	require.NoError(t, users.Create(ctx, user.User{UserID: "g1", Email: "g1@x.com", Nome: "Ana", Role: user.RoleResponsavel}))
	require.NoError(t, profiles.CreateGuardian(ctx, profile.Guardian{UserID: "g1", Nome: "Ana Souza", CPF: "111.222.333-44"}))
	require.NoError(t, users.Create(ctx, user.User{UserID: "a1", Email: "a1@x.com", Role: user.RoleAtleta}))
	require.NoError(t, profiles.CreateAthlete(ctx, profile.Athlete{UserID: "a1", Nome: "Pedro", NomeResponsavel: "11122233344"}))
	require.NoError(t, profiles.CreateAthlete(ctx, profile.Athlete{UserID: "a2", Nome: "Lia", ResponsavelID: "g9"}))
	require.NoError(t, users.Create(ctx, user.User{UserID: "p1", Email: "p1@x.com", Role: user.RoleProfissional, IsAdmin: true}))

	return NewLoader(users, profiles), profiles
}

func TestLoaderMergesRoleProfile(t *testing.T) {
	l, _ := seed(t)
	ctx := context.Background()

	g, err := l.Load(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, g.Guardian)
	assert.Equal(t, "Ana Souza", g.Nome())
	require.Len(t, g.Athletes, 1)
	assert.Equal(t, "a1", g.Athletes[0].UserID)
	assert.Equal(t, user.Viewer{UserID: "g1", Role: user.RoleResponsavel, CPF: "111.222.333-44"}, g.Viewer())

	a, err := l.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a.Athlete)
	assert.Nil(t, a.Guardian)

	// No role document yet.
	p, err := l.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p.Professional)
	assert.True(t, p.Viewer().IsAdmin())

	_, err = l.Load(ctx, "nobody")
	assert.True(t, IsErrNotFound(err))
}

func TestStoreSetNotifiesSubscribers(t *testing.T) {
	l, profiles := seed(t)
	pub := &recorder{}
	s := NewStore(l, pub)
	ctx := context.Background()

	ch, cancel := s.Subscribe("a1")
	defer cancel()

	_, err := s.Load(ctx, "a1")
	require.NoError(t, err)
	got := <-ch
	assert.Equal(t, "Pedro", got.Nome())

	// Two writes without a read coalesce into the latest.
	require.NoError(t, profiles.UpdateAthlete(ctx, "a1", map[string]any{"nome": "Pedro H."}))
	s.Refresh(ctx, "a1")
	require.NoError(t, profiles.UpdateAthlete(ctx, "a1", map[string]any{"nome": "Pedro Henrique"}))
	s.Refresh(ctx, "a1")
	got = <-ch
	assert.Equal(t, "Pedro Henrique", got.Nome())
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra notification %v", extra.Nome())
	default:
	}

	cached, ok := s.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "Pedro Henrique", cached.Nome())
	assert.Equal(t, []string{"user:a1", "user:a1", "user:a1"}, pub.rooms)

	s.Clear("a1")
	_, ok = s.Get("a1")
	assert.False(t, ok)
}

func TestStoreCancelStopsNotifications(t *testing.T) {
	l, _ := seed(t)
	s := NewStore(l, nil)

	ch, cancel := s.Subscribe("g1")
	cancel()
	cancel()
	s.Refresh(context.Background(), "g1")
	select {
	case <-ch:
		t.Fatal("cancelled subscriber was notified")
	default:
	}

	// A failed refresh leaves the store untouched.
	s.Refresh(context.Background(), "nobody")
	_, ok := s.Get("nobody")
	assert.False(t, ok)
}
