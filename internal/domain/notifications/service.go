package notifications

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Pusher sends a push notification to every device subscribed to topic.
type Pusher interface {
	SendTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

type Publisher interface {
	Publish(room, kind string, payload any)
}

type Service struct {
	repo  *Repo
	users *user.Repo
	push  Pusher
	pub   Publisher
	topic string
}

func NewService(repo *Repo, users *user.Repo, push Pusher, pub Publisher, topic string) *Service {
	return &Service{repo: repo, users: users, push: push, pub: pub, topic: topic}
}

// ---- Get Notifications ----

func (s *Service) GetNotifications(ctx context.Context, v user.Viewer, unreadOnly bool, limit int) (*NotificationsListResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	all, err := s.repo.ListForUser(ctx, v.UserID, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	res := &NotificationsListResult{Notifications: make([]Notification, 0, limit)}
	for _, n := range all {
		if !n.Read {
			res.UnreadCount++
		}
		if unreadOnly && n.Read {
			continue
		}
		if len(res.Notifications) < limit {
			res.Notifications = append(res.Notifications, n)
		}
	}
	return res, nil
}

// ---- Mark as Read ----

// MarkRead marks one notification, or every unread one when MarkAll is set.
// It returns how many were changed.
func (s *Service) MarkRead(ctx context.Context, v user.Viewer, in MarkReadInput) (int, error) {
	in.Trim()
	now := time.Now().UTC()
	fields := map[string]any{"read": true, "readAt": now}

	if in.MarkAll {
		unread, err := s.repo.ListForUser(ctx, v.UserID, true)
		if err != nil {
			return 0, err
		}
		for _, n := range unread {
			if err := s.repo.Update(ctx, n.ID, fields); err != nil {
				return 0, err
			}
		}
		return len(unread), nil
	}

	if in.NotificationID == "" {
		return 0, fmt.Errorf("%w: notificationId or markAll is required", ErrBadRequest)
	}
	n, err := s.own(ctx, v, in.NotificationID)
	if err != nil {
		return 0, err
	}
	if n.Read {
		return 0, nil
	}
	if err := s.repo.Update(ctx, n.ID, fields); err != nil {
		return 0, err
	}
	return 1, nil
}

// ---- Delete Notification ----

func (s *Service) DeleteNotification(ctx context.Context, v user.Viewer, id string) error {
	n, err := s.own(ctx, v, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, n.ID)
}

func (s *Service) own(ctx context.Context, v user.Viewer, id string) (*Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Someone else's notification reads as missing.
	if n.UserID != v.UserID {
		return nil, fmt.Errorf("%w: notification not found", ErrNotFound)
	}
	return n, nil
}

// ---- Create Notification (Staff) ----

func (s *Service) CreateNotification(ctx context.Context, v user.Viewer, in CreateNotificationInput) (*Notification, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only admins and professionals can send notifications", ErrUnauthorized)
	}
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	target, err := s.users.Get(ctx, in.TargetUID)
	if err != nil {
		if user.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: target user not found", ErrNotFound)
		}
		return nil, err
	}
	if in.Type == "" {
		in.Type = "general"
	}
	return s.deliver(ctx, Notification{
		UserID:    target.UserID,
		Title:     in.Title,
		Body:      in.Body,
		Type:      in.Type,
		Data:      in.Data,
		SenderUID: v.UserID,
		CreatedAt: time.Now().UTC(),
	})
}

// ---- Broadcast (Admin) ----

// SendBulkNotification writes one notification per active user in the
// audience and pushes once to the broadcast topic. It returns the number of
// recipients.
func (s *Service) SendBulkNotification(ctx context.Context, v user.Viewer, in BroadcastInput) (int, error) {
	if !v.IsAdmin() {
		return 0, fmt.Errorf("%w: only admins can broadcast", ErrUnauthorized)
	}
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if !IsValidAudience(in.Audience) {
		return 0, fmt.Errorf("%w: invalid audience (allowed: %v)", ErrBadRequest, ValidAudiences)
	}
	if in.Type == "" {
		in.Type = "announcement"
	}

	users, err := s.users.List(ctx, audienceRole(in.Audience), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	now := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	sent := 0
	for _, u := range users {
		if u.Archived() || u.UserID == "" {
			continue
		}
		sent++
		g.Go(func() error {
			_, err := s.deliver(gctx, Notification{
				UserID:    u.UserID,
				Title:     in.Title,
				Body:      in.Body,
				Type:      in.Type,
				SenderUID: v.UserID,
				CreatedAt: now,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if s.push != nil && s.topic != "" {
		data := map[string]string{"type": in.Type}
		if err := s.push.SendTopic(ctx, s.topic, in.Title, utils.TrimMax(in.Body, 140), data); err != nil {
			log.Printf("[notifications] broadcast push: %v", err)
		}
	}
	return sent, nil
}

func (s *Service) deliver(ctx context.Context, n Notification) (*Notification, error) {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	if s.pub != nil {
		s.pub.Publish(realtime.UserRoom(created.UserID), "notification.created", created)
	}
	return created, nil
}
