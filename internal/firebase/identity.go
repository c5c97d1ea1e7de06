package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

// Identity mirrors accounts into Firebase Auth under the same uid.
type Identity struct {
	client *auth.Client
}

var _ user.IdentityProvider = (*Identity)(nil)

func NewIdentity(client *auth.Client) *Identity {
	return &Identity{client: client}
}

func (i *Identity) CreateUser(ctx context.Context, uid, email, password, displayName string) error {
	params := (&auth.UserToCreate{}).
		UID(uid).
		Email(email).
		Password(password).
		DisplayName(displayName)
	if _, err := i.client.CreateUser(ctx, params); err != nil {
		if auth.IsUIDAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("firebase create user: %w", err)
	}
	return nil
}

func (i *Identity) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	_, err := i.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(disabled))
	if err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("firebase update user: %w", err)
	}
	return nil
}

func (i *Identity) CustomToken(ctx context.Context, uid string) (string, error) {
	return i.client.CustomToken(ctx, uid)
}

func (i *Identity) DeleteUser(ctx context.Context, uid string) error {
	if err := i.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("firebase delete user: %w", err)
	}
	return nil
}

// SetAdmin writes the admin custom claim, keeping any other claims.
func (i *Identity) SetAdmin(ctx context.Context, uid string, admin bool) error {
	u, err := i.client.GetUser(ctx, uid)
	if err != nil {
		return fmt.Errorf("firebase get user: %w", err)
	}
	claims := map[string]interface{}{}
	for k, v := range u.CustomClaims {
		claims[k] = v
	}
	claims["admin"] = admin
	return i.client.SetCustomUserClaims(ctx, uid, claims)
}
