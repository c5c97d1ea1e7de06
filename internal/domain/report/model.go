package report

import (
	"strings"
	"time"
)

// MaxImages is the number of photos a report may carry.
const MaxImages = 6

// Relatorio is a training report written by a professional for a turma.
type Relatorio struct {
	ID           string    `firestore:"-" json:"id"`
	UserID       string    `firestore:"userId" json:"userId"`
	TurmaID      string    `firestore:"turmaId" json:"turmaId"`
	Data         string    `firestore:"data" json:"data"`
	Hora         string    `firestore:"hora" json:"hora"`
	Metodologias []string  `firestore:"metodologias" json:"metodologias"`
	Observacoes  string    `firestore:"observacoes" json:"observacoes"`
	Imagens      []string  `firestore:"imagens" json:"imagens"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}

func (r *Relatorio) SetID(id string) { r.ID = id }

type CreateInput struct {
	TurmaID      string   `json:"turmaId" validate:"required"`
	Data         string   `json:"data" validate:"ddmmyyyy"`
	Hora         string   `json:"hora" validate:"omitempty,hhmm"`
	Metodologias []string `json:"metodologias" validate:"max=20,dive,max=120"`
	Observacoes  string   `json:"observacoes" validate:"max=4000"`
}

func (in *CreateInput) Trim() {
	in.TurmaID = strings.TrimSpace(in.TurmaID)
	in.Data = strings.TrimSpace(in.Data)
	in.Hora = strings.TrimSpace(in.Hora)
	in.Observacoes = strings.TrimSpace(in.Observacoes)
	out := []string{}
	for _, m := range in.Metodologias {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	in.Metodologias = out
}

// View carries resolved image URLs.
type View struct {
	Relatorio
	ImageURLs []string `json:"imageUrls"`
}
