package identity

import (
	"context"
	"fmt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

type Loader struct {
	users    *user.Repo
	profiles *profile.Repo
}

func NewLoader(users *user.Repo, profiles *profile.Repo) *Loader {
	return &Loader{users: users, profiles: profiles}
}

// Load fetches the user and branches on its role for the profile document.
// A missing role document is not an error: the account is returned with no
// role profile, as during an interrupted signup.
func (l *Loader) Load(ctx context.Context, userID string) (*MergedProfile, error) {
	u, err := l.users.Get(ctx, userID)
	if err != nil {
		if user.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}

	p := &MergedProfile{User: *u}
	switch u.Role {
	case user.RoleProfissional:
		p.Professional, err = l.profiles.Professional(ctx, userID)
	case user.RoleAtleta:
		p.Athlete, err = l.profiles.Athlete(ctx, userID)
	case user.RoleResponsavel:
		p.Guardian, err = l.profiles.Guardian(ctx, userID)
		if err == nil {
			var athletes []profile.Athlete
			athletes, err = l.profiles.Athletes(ctx)
			if err == nil {
				p.Athletes = profile.LinkedAthletes(*p.Guardian, athletes)
			}
		}
	}
	if err != nil && !profile.IsErrNotFound(err) {
		return nil, fmt.Errorf("failed to load %s profile: %w", u.Role, err)
	}
	return p, nil
}
