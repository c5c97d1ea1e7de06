package turma

import (
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// Turma is a class: fixed weekdays, a time window, a place and a declared
// capacity. Membership is derived from athletes' turmaId.
type Turma struct {
	ID             string    `firestore:"-" json:"id"`
	Title          string    `firestore:"title" json:"title"`
	QtdSemana      int       `firestore:"Qtd_Semana" json:"Qtd_Semana"`
	Dia1           string    `firestore:"Dia1" json:"Dia1"`
	Dia2           string    `firestore:"Dia2" json:"Dia2"`
	Dia3           string    `firestore:"Dia3" json:"Dia3"`
	Local          string    `firestore:"Local" json:"Local"`
	MaxAlunos      int       `firestore:"MaxAlunos" json:"MaxAlunos"`
	HorarioInicio  string    `firestore:"Horario_de_inicio" json:"Horario_de_inicio"`
	HorarioTermino string    `firestore:"Horario_de_termino" json:"Horario_de_termino"`
	ProfissionalID []string  `firestore:"profissionalId" json:"profissionalId"`
	Sub            string    `firestore:"Sub" json:"Sub"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (t *Turma) SetID(id string) { t.ID = id }

// Days returns the configured weekday names, at most Qtd_Semana of them.
func (t Turma) Days() []string {
	all := []string{t.Dia1, t.Dia2, t.Dia3}
	n := t.QtdSemana
	if n < 1 || n > 3 {
		n = 3
	}
	out := make([]string, 0, n)
	for _, d := range all[:n] {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// MeetsOn reports whether the class meets on the given weekday name.
func (t Turma) MeetsOn(day string) bool {
	for _, d := range []string{t.Dia1, t.Dia2, t.Dia3} {
		if d != "" && utils.SameWeekday(d, day) {
			return true
		}
	}
	return false
}

func (t Turma) HasProfessional(userID string) bool {
	for _, id := range t.ProfissionalID {
		if id == userID {
			return true
		}
	}
	return false
}

type CreateInput struct {
	Title          string   `json:"title" validate:"required,max=120"`
	QtdSemana      int      `json:"Qtd_Semana" validate:"min=1,max=3"`
	Dia1           string   `json:"Dia1" validate:"weekday"`
	Dia2           string   `json:"Dia2" validate:"omitempty,weekday"`
	Dia3           string   `json:"Dia3" validate:"omitempty,weekday"`
	Local          string   `json:"Local" validate:"required,max=200"`
	MaxAlunos      int      `json:"MaxAlunos" validate:"min=1,max=500"`
	HorarioInicio  string   `json:"Horario_de_inicio" validate:"hhmm"`
	HorarioTermino string   `json:"Horario_de_termino" validate:"hhmm"`
	ProfissionalID []string `json:"profissionalId"`
	Sub            string   `json:"Sub" validate:"max=40"`
}

func (in *CreateInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Dia1 = strings.TrimSpace(in.Dia1)
	in.Dia2 = strings.TrimSpace(in.Dia2)
	in.Dia3 = strings.TrimSpace(in.Dia3)
	in.Local = strings.TrimSpace(in.Local)
	in.HorarioInicio = strings.TrimSpace(in.HorarioInicio)
	in.HorarioTermino = strings.TrimSpace(in.HorarioTermino)
	in.Sub = strings.TrimSpace(in.Sub)
	in.ProfissionalID = dedupe(in.ProfissionalID)
}

type UpdateInput struct {
	Title          *string   `json:"title,omitempty"`
	QtdSemana      *int      `json:"Qtd_Semana,omitempty"`
	Dia1           *string   `json:"Dia1,omitempty"`
	Dia2           *string   `json:"Dia2,omitempty"`
	Dia3           *string   `json:"Dia3,omitempty"`
	Local          *string   `json:"Local,omitempty"`
	MaxAlunos      *int      `json:"MaxAlunos,omitempty"`
	HorarioInicio  *string   `json:"Horario_de_inicio,omitempty"`
	HorarioTermino *string   `json:"Horario_de_termino,omitempty"`
	ProfissionalID *[]string `json:"profissionalId,omitempty"`
	Sub            *string   `json:"Sub,omitempty"`
}

// apply returns the create-shaped view of t with the patch applied, so the
// same validation covers both paths.
func (in UpdateInput) apply(t Turma) CreateInput {
	out := CreateInput{
		Title:          t.Title,
		QtdSemana:      t.QtdSemana,
		Dia1:           t.Dia1,
		Dia2:           t.Dia2,
		Dia3:           t.Dia3,
		Local:          t.Local,
		MaxAlunos:      t.MaxAlunos,
		HorarioInicio:  t.HorarioInicio,
		HorarioTermino: t.HorarioTermino,
		ProfissionalID: t.ProfissionalID,
		Sub:            t.Sub,
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Title, in.Title)
	set(&out.Dia1, in.Dia1)
	set(&out.Dia2, in.Dia2)
	set(&out.Dia3, in.Dia3)
	set(&out.Local, in.Local)
	set(&out.HorarioInicio, in.HorarioInicio)
	set(&out.HorarioTermino, in.HorarioTermino)
	set(&out.Sub, in.Sub)
	if in.QtdSemana != nil {
		out.QtdSemana = *in.QtdSemana
	}
	if in.MaxAlunos != nil {
		out.MaxAlunos = *in.MaxAlunos
	}
	if in.ProfissionalID != nil {
		out.ProfissionalID = *in.ProfissionalID
	}
	out.Trim()
	return out
}

func dedupe(ids []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
