package notifications

import (
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

// Notification is an inbox entry of one user.
type Notification struct {
	ID        string            `firestore:"-" json:"id"`
	UserID    string            `firestore:"userId" json:"userId"`
	Title     string            `firestore:"title" json:"title"`
	Body      string            `firestore:"body" json:"body"`
	Type      string            `firestore:"type" json:"type"`
	Data      map[string]string `firestore:"data,omitempty" json:"data,omitempty"`
	Read      bool              `firestore:"read" json:"read"`
	ReadAt    *time.Time        `firestore:"readAt,omitempty" json:"readAt,omitempty"`
	SenderUID string            `firestore:"senderUid,omitempty" json:"senderUid,omitempty"`
	CreatedAt time.Time         `firestore:"createdAt" json:"createdAt"`
}

func (n *Notification) SetID(id string) { n.ID = id }

// CreateNotificationInput represents input for creating a notification
type CreateNotificationInput struct {
	TargetUID string            `json:"targetUid" validate:"required"`
	Title     string            `json:"title" validate:"required,max=120"`
	Body      string            `json:"body,omitempty" validate:"max=2000"`
	Type      string            `json:"type,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

func (in *CreateNotificationInput) Trim() {
	in.TargetUID = strings.TrimSpace(in.TargetUID)
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Type = strings.TrimSpace(in.Type)
}

// BroadcastInput represents input for sending one notification to an audience
type BroadcastInput struct {
	Title    string `json:"title" validate:"required,max=120"`
	Body     string `json:"body,omitempty" validate:"max=2000"`
	Type     string `json:"type,omitempty"`
	Audience string `json:"audience,omitempty"`
}

func (in *BroadcastInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Type = strings.TrimSpace(in.Type)
	in.Audience = strings.TrimSpace(in.Audience)
}

// MarkReadInput represents input for marking notifications as read
type MarkReadInput struct {
	NotificationID string `json:"notificationId,omitempty"`
	MarkAll        bool   `json:"markAll,omitempty"`
}

func (in *MarkReadInput) Trim() {
	in.NotificationID = strings.TrimSpace(in.NotificationID)
}

// NotificationsListResult represents the result of listing notifications
type NotificationsListResult struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// ---- Validation helpers ----

var ValidAudiences = []string{"all", "atletas", "responsaveis", "profissionais"}

func IsValidAudience(audience string) bool {
	if audience == "" {
		return true
	}
	for _, v := range ValidAudiences {
		if v == audience {
			return true
		}
	}
	return false
}

// audienceRole is the user role an audience targets, empty for everyone.
func audienceRole(audience string) user.Role {
	switch audience {
	case "atletas":
		return user.RoleAtleta
	case "responsaveis":
		return user.RoleResponsavel
	case "profissionais":
		return user.RoleProfissional
	}
	return ""
}
