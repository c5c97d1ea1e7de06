package profile

import (
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// Professional is a coach or staff member.
type Professional struct {
	ID          string `firestore:"-" json:"id"`
	UserID      string `firestore:"userId" json:"userId"`
	Nome        string `firestore:"nome" json:"nome"`
	CPF         string `firestore:"cpf" json:"cpf"`
	Whats       string `firestore:"whats" json:"whats"`
	Profissao   string `firestore:"profissao" json:"profissao"`
	Modalidade  string `firestore:"modalidade" json:"modalidade"`
	FaixaEtaria string `firestore:"faixa_etaria" json:"faixa_etaria"`
	Avatar      string `firestore:"avatar" json:"avatar"`
}

func (p *Professional) SetID(id string) { p.ID = id }

// Athlete ("aluno"). TurmaID is nil while unassigned. NomeResponsavel holds the
// guardian's cpf for records created before ResponsavelID existed.
type Athlete struct {
	ID               string     `firestore:"-" json:"id"`
	UserID           string     `firestore:"userId" json:"userId"`
	Nome             string     `firestore:"nome" json:"nome"`
	CPF              string     `firestore:"cpf" json:"cpf"`
	RG               string     `firestore:"rg" json:"rg"`
	Whatsapp         string     `firestore:"whatsapp" json:"whatsapp"`
	Endereco         string     `firestore:"endereco" json:"endereco"`
	NomeResponsavel  string     `firestore:"nomeResponsavel" json:"nomeResponsavel"`
	ResponsavelID    string     `firestore:"responsavelId" json:"responsavelId"`
	Posicao          string     `firestore:"posicao" json:"posicao"`
	PeDominante      string     `firestore:"peDominante" json:"peDominante"`
	Altura           string     `firestore:"altura" json:"altura"`
	Peso             string     `firestore:"peso" json:"peso"`
	Objetivo         string     `firestore:"objetivo" json:"objetivo"`
	BirthDate        string     `firestore:"birthDate" json:"birthDate"`
	Alergias         string     `firestore:"alergias" json:"alergias"`
	CondicoesMedicas string     `firestore:"condicoesMedicas" json:"condicoesMedicas"`
	LesoesAnteriores string     `firestore:"lesoesAnteriores" json:"lesoesAnteriores"`
	TurmaID          *string    `firestore:"turmaId" json:"turmaId"`
	StatusPagamento  string     `firestore:"status_pagamento" json:"status_pagamento"`
	EndDate          *time.Time `firestore:"end_date" json:"end_date"`
	IDTransacao      string     `firestore:"id_transacao" json:"id_transacao"`
	Avatar           string     `firestore:"avatar" json:"avatar"`
}

func (a *Athlete) SetID(id string) { a.ID = id }

// PaymentCancelled is written to status_pagamento when a subscription ends.
const PaymentCancelled = "Cancelado"

// InClass reports whether the athlete is enrolled in turmaID.
func (a Athlete) InClass(turmaID string) bool {
	return a.TurmaID != nil && *a.TurmaID == turmaID
}

// HasGuardian links by guardian id, falling back to cpf equality for
// records that only carry nomeResponsavel.
func (a Athlete) HasGuardian(g Guardian) bool {
	if a.ResponsavelID != "" {
		return a.ResponsavelID == g.UserID
	}
	if a.NomeResponsavel == "" || g.CPF == "" {
		return false
	}
	return utils.OnlyDigits(a.NomeResponsavel) == utils.OnlyDigits(g.CPF)
}

// VisibleTo reports whether v may read this athlete: staff, the athlete
// and linked guardians.
func (a Athlete) VisibleTo(v user.Viewer) bool {
	switch {
	case v.IsStaff(), v.UserID == a.UserID:
		return true
	case v.Role == user.RoleResponsavel:
		return a.HasGuardian(Guardian{UserID: v.UserID, CPF: v.CPF})
	}
	return false
}

// Guardian ("responsável").
type Guardian struct {
	ID         string `firestore:"-" json:"id"`
	UserID     string `firestore:"userId" json:"userId"`
	Nome       string `firestore:"nome" json:"nome"`
	CPF        string `firestore:"cpf" json:"cpf"`
	Whatsapp   string `firestore:"whatsapp" json:"whatsapp"`
	RG         string `firestore:"rg" json:"rg"`
	Endereco   string `firestore:"endereco" json:"endereco"`
	Bairro     string `firestore:"bairro" json:"bairro"`
	BirthDate  string `firestore:"birthDate" json:"birthDate"`
	Parentesco string `firestore:"parentesco" json:"parentesco"`
	Avatar     string `firestore:"avatar" json:"avatar"`
}

func (g *Guardian) SetID(id string) { g.ID = id }

// GuardiansOf returns the guardians linked to a. Empty when none match.
func GuardiansOf(a Athlete, guardians []Guardian) []Guardian {
	out := []Guardian{}
	for _, g := range guardians {
		if a.HasGuardian(g) {
			out = append(out, g)
		}
	}
	return out
}

// LinkedAthletes returns the athletes linked to g.
func LinkedAthletes(g Guardian, athletes []Athlete) []Athlete {
	out := []Athlete{}
	for _, a := range athletes {
		if a.HasGuardian(g) {
			out = append(out, a)
		}
	}
	return out
}

// Editable fields per role. Everything else (userId, cpf, turmaId, payment
// fields, links) is written by dedicated operations.
var (
	professionalFields = []string{"nome", "whats", "profissao", "modalidade", "faixa_etaria"}
	athleteFields      = []string{"nome", "rg", "whatsapp", "endereco", "posicao", "peDominante", "altura", "peso", "objetivo", "birthDate", "alergias", "condicoesMedicas", "lesoesAnteriores"}
	guardianFields     = []string{"nome", "whatsapp", "rg", "endereco", "bairro", "birthDate", "parentesco"}
)
