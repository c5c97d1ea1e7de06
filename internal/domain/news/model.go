package news

import "time"

// Novidade is a news post shown on the home feed.
type Novidade struct {
	ID        string    `firestore:"-" json:"id"`
	Novidade  string    `firestore:"novidade" json:"novidade"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (n *Novidade) SetID(id string) { n.ID = id }

type Input struct {
	Novidade string `json:"novidade" validate:"required,max=2000"`
}
