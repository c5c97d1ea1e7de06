package profile

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

var (
	admin    = user.Viewer{UserID: "adm", Role: user.RoleProfissional, Admin: true}
	coach    = user.Viewer{UserID: "p1", Role: user.RoleProfissional}
	guardian = user.Viewer{UserID: "g1", Role: user.RoleResponsavel, CPF: "111.222.333-44"}
	stranger = user.Viewer{UserID: "g2", Role: user.RoleResponsavel, CPF: "999.888.777-66"}
	athlete  = user.Viewer{UserID: "a1", Role: user.RoleAtleta}
)

type refreshes struct {
	mu  sync.Mutex
	ids []string
}

func (r *refreshes) Refresh(_ context.Context, userID string) {
	r.mu.Lock()
	r.ids = append(r.ids, userID)
	r.mu.Unlock()
}

type fakeIDP struct {
	user.NopIdentity
	disabled map[string]bool
}

func (f *fakeIDP) SetDisabled(_ context.Context, uid string, disabled bool) error {
	f.disabled[uid] = disabled
	return nil
}

type fixture struct {
	svc   *Service
	repo  *Repo
	users *user.Repo
	blobs *blob.Memory
	idp   *fakeIDP
	ref   *refreshes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := docstore.NewMemory()
	f := &fixture{
		repo:  NewRepo(db),
		users: user.NewRepo(db),
		blobs: blob.NewMemory(),
		idp:   &fakeIDP{disabled: map[string]bool{}},
		ref:   &refreshes{},
	}
	f.svc = NewService(f.repo, f.users, f.blobs, f.idp)
	f.svc.SetRefresher(f.ref)

	require.NoError(t, f.users.Create(ctx, user.User{UserID: "adm", Email: "adm@x.com", Role: user.RoleProfissional, IsAdmin: true}))
	require.NoError(t, f.users.Create(ctx, user.User{UserID: "p1", Email: "p1@x.com", Role: user.RoleProfissional}))
	require.NoError(t, f.users.Create(ctx, user.User{UserID: "g1", Email: "g1@x.com", Nome: "Ana", Role: user.RoleResponsavel}))
	require.NoError(t, f.users.Create(ctx, user.User{UserID: "g2", Email: "g2@x.com", Role: user.RoleResponsavel}))
	require.NoError(t, f.users.Create(ctx, user.User{UserID: "a1", Email: "a1@x.com", Role: user.RoleAtleta}))
	require.NoError(t, f.repo.CreateProfessional(ctx, Professional{UserID: "p1", Nome: "Carlos"}))
	require.NoError(t, f.repo.CreateGuardian(ctx, Guardian{UserID: "g1", Nome: "Ana", CPF: "111.222.333-44"}))
	require.NoError(t, f.repo.CreateGuardian(ctx, Guardian{UserID: "g2", Nome: "Bia", CPF: "999.888.777-66"}))
	require.NoError(t, f.repo.CreateAthlete(ctx, Athlete{UserID: "a1", Nome: "Pedro", NomeResponsavel: "11122233344"}))
	return f
}

func TestUpdateOwnFiltersFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateOwn(ctx, guardian, map[string]any{"nome": " Ana Souza ", "whatsapp": "5199999"}))
	g, err := f.repo.Guardian(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", g.Nome)
	assert.Equal(t, "5199999", g.Whatsapp)
	u, err := f.users.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", u.Nome)
	assert.Equal(t, []string{"g1"}, f.ref.ids)

	for _, in := range []map[string]any{
		{"cpf": "000"},
		{"turmaId": "t1"},
		{"nome": 42},
		{"nome": "  "},
		{},
	} {
		assert.True(t, IsErrBadRequest(f.svc.UpdateOwn(ctx, guardian, in)), "%v", in)
	}
}

func TestAthleteVisibilityAndStaffEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, v := range []user.Viewer{admin, coach, guardian, athlete} {
		_, err := f.svc.Athlete(ctx, v, "a1")
		assert.NoError(t, err, v.UserID)
	}
	_, err := f.svc.Athlete(ctx, stranger, "a1")
	assert.True(t, IsErrUnauthorized(err))

	_, err = f.svc.UpdateAthlete(ctx, guardian, "a1", map[string]any{"peso": "40"})
	assert.True(t, IsErrUnauthorized(err))
	a, err := f.svc.UpdateAthlete(ctx, coach, "a1", map[string]any{"peso": "40", "posicao": "Goleiro"})
	require.NoError(t, err)
	assert.Equal(t, "40", a.Peso)
	assert.Equal(t, "Goleiro", a.Posicao)

	_, err = f.svc.Athletes(ctx, guardian)
	assert.True(t, IsErrUnauthorized(err))
	list, err := f.svc.Athletes(ctx, coach)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGuardianLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kids, err := f.svc.GuardianAthletes(ctx, guardian, "g1")
	require.NoError(t, err)
	require.Len(t, kids, 1)
	_, err = f.svc.GuardianAthletes(ctx, stranger, "g1")
	assert.True(t, IsErrUnauthorized(err))

	assert.True(t, IsErrUnauthorized(f.svc.LinkGuardian(ctx, coach, "a1", "g2")))
	require.NoError(t, f.svc.LinkGuardian(ctx, admin, "a1", "g2"))

	kids, err = f.svc.GuardianAthletes(ctx, stranger, "g2")
	require.NoError(t, err)
	assert.Len(t, kids, 1)
	kids, err = f.svc.GuardianAthletes(ctx, guardian, "g1")
	require.NoError(t, err)
	assert.Empty(t, kids)
}

func TestArchiveRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, IsErrUnauthorized(f.svc.Archive(ctx, coach, "g1")))
	assert.True(t, IsErrBadRequest(f.svc.Archive(ctx, admin, "adm")))
	assert.True(t, IsErrNotFound(f.svc.Archive(ctx, admin, "nobody")))

	require.NoError(t, f.svc.Archive(ctx, admin, "g1"))
	u, err := f.users.Get(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, u.Archived())
	assert.True(t, f.idp.disabled["g1"])

	archived, err := f.svc.ListUsers(ctx, admin, "", "archived")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "g1", archived[0].UserID)

	active, err := f.svc.ListUsers(ctx, admin, "responsavel", "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "g2", active[0].UserID)

	require.NoError(t, f.svc.Restore(ctx, admin, "g1"))
	assert.False(t, f.idp.disabled["g1"])
	all, err := f.svc.ListUsers(ctx, admin, "", "all")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = f.svc.ListUsers(ctx, admin, "coach", "")
	assert.True(t, IsErrBadRequest(err))
	_, err = f.svc.ListUsers(ctx, coach, "", "")
	assert.True(t, IsErrUnauthorized(err))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestSetAvatarReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SetAvatar(ctx, coach, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	second, err := f.svc.SetAvatar(ctx, coach, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, f.blobs.Len())

	p, err := f.repo.Professional(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, second, p.Avatar)

	url, err := f.svc.AvatarURL(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "memory://avatars/"+second, url)

	_, err = f.svc.SetAvatar(ctx, coach, bytes.NewReader([]byte("not an image")))
	assert.True(t, IsErrBadRequest(err))
}
