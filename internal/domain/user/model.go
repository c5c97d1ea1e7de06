package user

import "time"

type Role string

const (
	RoleProfissional Role = "profissional"
	RoleAtleta       Role = "atleta"
	RoleResponsavel  Role = "responsavel"

	// RoleAdmin is never stored as a role. It is derived from User.IsAdmin.
	RoleAdmin Role = "admin"
)

const StatusArchived = "Arquivado"

func (r Role) Valid() bool {
	switch r {
	case RoleProfissional, RoleAtleta, RoleResponsavel:
		return true
	}
	return false
}

// User is the account document. Role is fixed at signup; status is toggled by
// archive/restore.
type User struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	Email     string    `firestore:"email" json:"email"`
	Nome      string    `firestore:"nome" json:"nome"`
	Role      Role      `firestore:"role" json:"role"`
	Status    string    `firestore:"status" json:"status"`
	IsAdmin   bool      `firestore:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (u *User) SetID(id string) { u.ID = id }

func (u User) Archived() bool { return u.Status == StatusArchived }

// Viewer is who is asking: the role used for scoping reads and checking
// writes.
type Viewer struct {
	UserID string
	Role   Role
	CPF    string
	Admin  bool
}

func (v Viewer) IsAdmin() bool { return v.Admin }

// EffectiveRole is admin for admins, the stored role otherwise.
func (v Viewer) EffectiveRole() Role {
	if v.Admin {
		return RoleAdmin
	}
	return v.Role
}

// IsStaff is true for admins and professionals.
func (v Viewer) IsStaff() bool {
	return v.Admin || v.Role == RoleProfissional
}
