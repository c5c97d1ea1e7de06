package training

import (
	"strings"
	"time"
)

// Treino is a personalised training a professional assigns to an athlete.
type Treino struct {
	ID        string    `firestore:"-" json:"id"`
	Titulo    string    `firestore:"titulo" json:"titulo"`
	Descricao string    `firestore:"descricao" json:"descricao"`
	Link      string    `firestore:"link" json:"link"`
	Professor string    `firestore:"professor" json:"professor"`
	Aluno     string    `firestore:"aluno" json:"aluno"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (t *Treino) SetID(id string) { t.ID = id }

type CreateInput struct {
	Titulo    string `json:"titulo" validate:"required,max=120"`
	Descricao string `json:"descricao" validate:"max=4000"`
	Link      string `json:"link" validate:"omitempty,url"`
	Aluno     string `json:"aluno" validate:"required"`
}

func (in *CreateInput) Trim() {
	in.Titulo = strings.TrimSpace(in.Titulo)
	in.Descricao = strings.TrimSpace(in.Descricao)
	in.Link = strings.TrimSpace(in.Link)
	in.Aluno = strings.TrimSpace(in.Aluno)
}

type UpdateInput struct {
	Titulo    *string `json:"titulo,omitempty"`
	Descricao *string `json:"descricao,omitempty"`
	Link      *string `json:"link,omitempty"`
}
