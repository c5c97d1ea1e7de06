package event

import (
	"strings"
	"time"
)

type Type string

const (
	TypeEvento  Type = "evento"
	TypePartida Type = "partida"
)

// Event is an academy event or a match. Confirmados holds the user ids that
// RSVP'd.
type Event struct {
	ID          string    `firestore:"-" json:"id"`
	Title       string    `firestore:"Title" json:"Title"`
	DateEvent   string    `firestore:"Date_event" json:"Date_event"`
	Description string    `firestore:"Description" json:"Description"`
	HoraEvent   string    `firestore:"Hora_event" json:"Hora_event"`
	Type        Type      `firestore:"Type" json:"Type"`
	Local       string    `firestore:"Local" json:"Local"`
	Confirmados []string  `firestore:"Confirmados" json:"Confirmados"`
	ImageID     string    `firestore:"ImageID" json:"ImageID"`
	CreatedBy   string    `firestore:"userId" json:"userId"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (e *Event) SetID(id string) { e.ID = id }

func (e Event) IsConfirmed(userID string) bool {
	for _, id := range e.Confirmados {
		if id == userID {
			return true
		}
	}
	return false
}

type CreateInput struct {
	Title       string `json:"Title" validate:"required,max=120"`
	DateEvent   string `json:"Date_event" validate:"ddmmyyyy"`
	Description string `json:"Description" validate:"max=2000"`
	HoraEvent   string `json:"Hora_event" validate:"omitempty,hhmm"`
	Type        Type   `json:"Type" validate:"oneof=evento partida"`
	Local       string `json:"Local" validate:"max=200"`
}

func (in *CreateInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.DateEvent = strings.TrimSpace(in.DateEvent)
	in.Description = strings.TrimSpace(in.Description)
	in.HoraEvent = strings.TrimSpace(in.HoraEvent)
	in.Type = Type(strings.ToLower(strings.TrimSpace(string(in.Type))))
	in.Local = strings.TrimSpace(in.Local)
}

type UpdateInput struct {
	Title       *string `json:"Title,omitempty"`
	DateEvent   *string `json:"Date_event,omitempty"`
	Description *string `json:"Description,omitempty"`
	HoraEvent   *string `json:"Hora_event,omitempty"`
	Type        *Type   `json:"Type,omitempty"`
	Local       *string `json:"Local,omitempty"`
}

func (in UpdateInput) apply(e Event) CreateInput {
	out := CreateInput{
		Title:       e.Title,
		DateEvent:   e.DateEvent,
		Description: e.Description,
		HoraEvent:   e.HoraEvent,
		Type:        e.Type,
		Local:       e.Local,
	}
	if in.Title != nil {
		out.Title = *in.Title
	}
	if in.DateEvent != nil {
		out.DateEvent = *in.DateEvent
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.HoraEvent != nil {
		out.HoraEvent = *in.HoraEvent
	}
	if in.Type != nil {
		out.Type = *in.Type
	}
	if in.Local != nil {
		out.Local = *in.Local
	}
	out.Trim()
	return out
}
