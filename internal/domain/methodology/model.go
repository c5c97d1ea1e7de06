package methodology

// List is the set of methodologies a professional reuses in reports. The
// document id is the professional's userId.
type List struct {
	ID           string   `firestore:"-" json:"id"`
	UserID       string   `firestore:"userId" json:"userId"`
	Metodologias []string `firestore:"metodologias" json:"metodologias"`
}

func (l *List) SetID(id string) { l.ID = id }
