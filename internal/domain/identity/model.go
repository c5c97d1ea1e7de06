package identity

import (
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

// MergedProfile is the account plus its role document. Exactly one of the
// role pointers is set for a fully registered account; Athletes lists the
// athletes linked to a guardian.
type MergedProfile struct {
	User         user.User             `json:"user"`
	Professional *profile.Professional `json:"profissional,omitempty"`
	Athlete      *profile.Athlete      `json:"aluno,omitempty"`
	Guardian     *profile.Guardian     `json:"responsavel,omitempty"`
	Athletes     []profile.Athlete     `json:"alunos,omitempty"`
}

func (p MergedProfile) UserID() string { return p.User.UserID }

// Viewer is the authorization view of the profile.
func (p MergedProfile) Viewer() user.Viewer {
	v := user.Viewer{UserID: p.User.UserID, Role: p.User.Role, Admin: p.User.IsAdmin}
	switch {
	case p.Guardian != nil:
		v.CPF = p.Guardian.CPF
	case p.Professional != nil:
		v.CPF = p.Professional.CPF
	case p.Athlete != nil:
		v.CPF = p.Athlete.CPF
	}
	return v
}

// Nome prefers the role document's name, which is the one users edit.
func (p MergedProfile) Nome() string {
	switch {
	case p.Professional != nil && p.Professional.Nome != "":
		return p.Professional.Nome
	case p.Athlete != nil && p.Athlete.Nome != "":
		return p.Athlete.Nome
	case p.Guardian != nil && p.Guardian.Nome != "":
		return p.Guardian.Nome
	}
	return p.User.Nome
}
