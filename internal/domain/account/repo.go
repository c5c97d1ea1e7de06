package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
)

const (
	CredentialCollection = "credenciais"
	SessionCollection    = "sessions"
	ResetCollection      = "password_resets"
)

type Repo struct {
	db docstore.Store
}

func NewRepo(db docstore.Store) *Repo {
	return &Repo{db: db}
}

// ---- credentials ----

func (r *Repo) Credential(ctx context.Context, userID string) (*Credential, error) {
	c, err := docstore.GetAs[Credential](ctx, r.db, CredentialCollection, userID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: credential not found", ErrUnauthorized)
		}
		return nil, err
	}
	return c, nil
}

func (r *Repo) SetCredential(ctx context.Context, c Credential) error {
	if err := r.db.Set(ctx, CredentialCollection, c.UserID, c); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *Repo) DeleteCredential(ctx context.Context, userID string) error {
	return r.db.Delete(ctx, CredentialCollection, userID)
}

// ---- sessions ----

func (r *Repo) CreateSession(ctx context.Context, s Session) error {
	if err := r.db.Set(ctx, SessionCollection, s.ID, s); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *Repo) Session(ctx context.Context, id string) (*Session, error) {
	s, err := docstore.GetAs[Session](ctx, r.db, SessionCollection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: session not found", ErrUnauthorized)
		}
		return nil, err
	}
	return s, nil
}

func (r *Repo) DeleteSession(ctx context.Context, id string) error {
	return r.db.Delete(ctx, SessionCollection, id)
}

// DeleteSessionsFor revokes every session of the user.
func (r *Repo) DeleteSessionsFor(ctx context.Context, userID string) error {
	sessions, err := docstore.ListAs[Session](ctx, r.db, SessionCollection, docstore.Eq("userId", userID))
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, s := range sessions {
		g.Go(func() error { return r.db.Delete(gctx, SessionCollection, s.ID) })
	}
	return g.Wait()
}

// ---- password resets ----

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *Repo) CreateReset(ctx context.Context, token string, p PasswordReset) error {
	if err := r.db.Set(ctx, ResetCollection, hashToken(token), p); err != nil {
		return fmt.Errorf("failed to save password reset: %w", err)
	}
	return nil
}

func (r *Repo) Reset(ctx context.Context, token string) (*PasswordReset, error) {
	p, err := docstore.GetAs[PasswordReset](ctx, r.db, ResetCollection, hashToken(token))
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid or expired token", ErrBadRequest)
		}
		return nil, err
	}
	return p, nil
}

func (r *Repo) MarkResetUsed(ctx context.Context, id string) error {
	return r.db.Update(ctx, ResetCollection, id, map[string]any{"used": true})
}
