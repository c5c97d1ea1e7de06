package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/authctx"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

type fakeAuth map[string]*identity.MergedProfile

func (f fakeAuth) Current(_ context.Context, token string) (*identity.MergedProfile, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, errors.New("invalid")
}

type recordingReporter struct {
	msgs []string
}

func (r *recordingReporter) Error(msg string, _ ...interface{}) {
	r.msgs = append(r.msgs, msg)
}

var auth = fakeAuth{
	"admin-token": {User: user.User{UserID: "a1", IsAdmin: true}},
	"coach-token": {User: user.User{UserID: "p1", Role: user.RoleProfissional}},
}

func whoami(w http.ResponseWriter, r *http.Request) {
	uid, _ := authctx.UID(r.Context())
	_, _ = w.Write([]byte(uid + "|" + authctx.Token(r.Context())))
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", header)
		assert.Equal(t, want, BearerToken(r), header)
	}
}

func TestWithAuth(t *testing.T) {
	h := WithAuth(auth)(http.HandlerFunc(whoami))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 401, rec.Code)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, 401, rec.Code)

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer coach-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "p1|coach-token", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/?token=coach-token", nil))
	assert.Equal(t, 401, rec.Code)

	rec = httptest.NewRecorder()
	WithQueryAuth(auth)(http.HandlerFunc(whoami)).ServeHTTP(rec, httptest.NewRequest("GET", "/?token=coach-token", nil))
	assert.Equal(t, 200, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	h := WithAuth(auth)(RequireAdmin(http.HandlerFunc(whoami)))

	for token, want := range map[string]int{"admin-token": 200, "coach-token": 403} {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, want, rec.Code, token)
	}
}

func TestRecoverer(t *testing.T) {
	rep := &recordingReporter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	mux.HandleFunc("/fail", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(503) })
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(204) })
	h := Recoverer(rep)(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/fail", nil))
	assert.Equal(t, 503, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ok", nil))
	assert.Equal(t, 204, rec.Code)

	assert.Equal(t, []string{"panic GET /panic", "GET /fail -> 503"}, rep.msgs)
}
