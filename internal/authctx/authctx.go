package authctx

import (
	"context"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

type ctxKey string

const (
	profileKey ctxKey = "profile"
	tokenKey   ctxKey = "token"
)

func WithProfile(ctx context.Context, p *identity.MergedProfile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

func Profile(ctx context.Context) (*identity.MergedProfile, bool) {
	p, ok := ctx.Value(profileKey).(*identity.MergedProfile)
	return p, ok && p != nil
}

// Viewer is the zero Viewer when the request is anonymous.
func Viewer(ctx context.Context) user.Viewer {
	if p, ok := Profile(ctx); ok {
		return p.Viewer()
	}
	return user.Viewer{}
}

func UID(ctx context.Context) (string, bool) {
	p, ok := Profile(ctx)
	if !ok {
		return "", false
	}
	uid := p.UserID()
	return uid, uid != ""
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func Token(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
