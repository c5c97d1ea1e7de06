package account

import (
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

// Credential holds the password hash. The document id is the user id.
type Credential struct {
	ID           string    `firestore:"-" json:"id"`
	UserID       string    `firestore:"userId" json:"userId"`
	PasswordHash string    `firestore:"passwordHash" json:"passwordHash"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (c *Credential) SetID(id string) { c.ID = id }

// Session backs one issued token. Deleting it revokes the token.
type Session struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `firestore:"expiresAt" json:"expiresAt"`
}

func (s *Session) SetID(id string) { s.ID = id }

// PasswordReset is keyed by the sha256 of the emailed token.
type PasswordReset struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	ExpiresAt time.Time `firestore:"expiresAt" json:"expiresAt"`
	Used      bool      `firestore:"used" json:"used"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func (p *PasswordReset) SetID(id string) { p.ID = id }

// SignUpInput carries the account fields plus the role profile fields.
// Fields that do not apply to the chosen role are ignored.
type SignUpInput struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=6,max=72"`
	Nome     string    `json:"nome" validate:"required,max=120"`
	Role     user.Role `json:"role" validate:"required,oneof=profissional atleta responsavel"`
	CPF      string    `json:"cpf" validate:"omitempty,cpf"`
	Whatsapp string    `json:"whatsapp" validate:"max=30"`

	// profissional
	Profissao   string `json:"profissao" validate:"max=80"`
	Modalidade  string `json:"modalidade" validate:"max=80"`
	FaixaEtaria string `json:"faixa_etaria" validate:"max=40"`

	// atleta
	BirthDate      string `json:"birthDate" validate:"max=20"`
	Posicao        string `json:"posicao" validate:"max=40"`
	ResponsavelCPF string `json:"responsavelCpf" validate:"omitempty,cpf"`

	// responsavel
	Parentesco string `json:"parentesco" validate:"max=40"`
}

func (in *SignUpInput) Trim() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Nome = strings.TrimSpace(in.Nome)
	in.Role = user.Role(strings.TrimSpace(string(in.Role)))
	in.CPF = strings.TrimSpace(in.CPF)
	in.Whatsapp = strings.TrimSpace(in.Whatsapp)
	in.Profissao = strings.TrimSpace(in.Profissao)
	in.Modalidade = strings.TrimSpace(in.Modalidade)
	in.FaixaEtaria = strings.TrimSpace(in.FaixaEtaria)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Posicao = strings.TrimSpace(in.Posicao)
	in.ResponsavelCPF = strings.TrimSpace(in.ResponsavelCPF)
	in.Parentesco = strings.TrimSpace(in.Parentesco)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthResult is returned by sign-up and login. FirebaseToken is empty when
// Firebase Auth is not configured.
type AuthResult struct {
	Token         string                  `json:"token"`
	ExpiresAt     time.Time               `json:"expiresAt"`
	FirebaseToken string                  `json:"firebaseToken,omitempty"`
	Profile       *identity.MergedProfile `json:"profile"`
}
