package news

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
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
	push  Pusher
	pub   Publisher
	topic string
}

func NewService(repo *Repo, push Pusher, pub Publisher, topic string) *Service {
	return &Service{repo: repo, push: push, pub: pub, topic: topic}
}

// Create posts a news item and notifies subscribed devices. A failed push
// does not fail the post.
func (s *Service) Create(ctx context.Context, v user.Viewer, in Input) (*Novidade, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only admins and professionals can post news", ErrUnauthorized)
	}
	in.Novidade = strings.TrimSpace(in.Novidade)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	now := time.Now().UTC()
	n, err := s.repo.Create(ctx, Novidade{Novidade: in.Novidade, UserID: v.UserID, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, err
	}

	if s.push != nil && s.topic != "" {
		if err := s.push.SendTopic(ctx, s.topic, "Novidade", utils.TrimMax(n.Novidade, 140), map[string]string{"newsId": n.ID}); err != nil {
			log.Printf("[news] push %s: %v", n.ID, err)
		}
	}
	if s.pub != nil {
		s.pub.Publish(realtime.RoomNews, "news.created", n)
	}
	return n, nil
}

// List returns the newest first.
func (s *Service) List(ctx context.Context) ([]Novidade, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *Service) Update(ctx context.Context, v user.Viewer, id string, in Input) (*Novidade, error) {
	if err := s.checkAuthor(ctx, v, id); err != nil {
		return nil, err
	}
	in.Novidade = strings.TrimSpace(in.Novidade)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	n, err := s.repo.Update(ctx, id, map[string]any{"novidade": in.Novidade})
	if err != nil {
		return nil, err
	}
	if s.pub != nil {
		s.pub.Publish(realtime.RoomNews, "news.updated", n)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	if err := s.checkAuthor(ctx, v, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.pub != nil {
		s.pub.Publish(realtime.RoomNews, "news.deleted", map[string]string{"id": id})
	}
	return nil
}

func (s *Service) checkAuthor(ctx context.Context, v user.Viewer, id string) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && n.UserID != v.UserID {
		return fmt.Errorf("%w: only the author or an admin can change this post", ErrUnauthorized)
	}
	return nil
}
