package gallery

import "time"

// Image is a gallery entry. ImageID is the blob file id.
type Image struct {
	ID        string    `firestore:"-" json:"id"`
	ImageID   string    `firestore:"ImageId" json:"ImageId"`
	Title     string    `firestore:"title" json:"title"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func (i *Image) SetID(id string) { i.ID = id }

type View struct {
	Image
	URL string `json:"url"`
}
