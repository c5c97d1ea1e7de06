package user

import "context"

// IdentityProvider mirrors accounts into the external auth provider
// (Firebase Auth in production).
type IdentityProvider interface {
	CreateUser(ctx context.Context, uid, email, password, displayName string) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	CustomToken(ctx context.Context, uid string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// NopIdentity is used when no external provider is configured.
type NopIdentity struct{}

func (NopIdentity) CreateUser(context.Context, string, string, string, string) error { return nil }
func (NopIdentity) SetDisabled(context.Context, string, bool) error                  { return nil }
func (NopIdentity) CustomToken(context.Context, string) (string, error)              { return "", nil }
func (NopIdentity) DeleteUser(context.Context, string) error                         { return nil }
