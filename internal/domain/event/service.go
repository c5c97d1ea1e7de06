package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

// Publisher fans changes out to connected clients.
type Publisher interface {
	Publish(room, kind string, payload any)
}

// View is an event with its cover image URL resolved.
type View struct {
	Event
	ImageURL string `json:"imageUrl,omitempty"`
}

type Service struct {
	repo  *Repo
	blobs blob.Store
	pub   Publisher
}

func NewService(repo *Repo, blobs blob.Store, pub Publisher) *Service {
	return &Service{repo: repo, blobs: blobs, pub: pub}
}

func (s *Service) publish(kind string, payload any) {
	if s.pub != nil {
		s.pub.Publish(realtime.RoomEvents, kind, payload)
	}
}

// Create stores a new event. image may be nil.
func (s *Service) Create(ctx context.Context, v user.Viewer, in CreateInput, image io.Reader) (*Event, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can create events", ErrUnauthorized)
	}
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	imageID, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e, err := s.repo.Create(ctx, Event{
		Title:       in.Title,
		DateEvent:   in.DateEvent,
		Description: in.Description,
		HoraEvent:   in.HoraEvent,
		Type:        in.Type,
		Local:       in.Local,
		Confirmados: []string{},
		ImageID:     imageID,
		CreatedBy:   v.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.deleteImage(ctx, imageID)
		return nil, err
	}
	s.publish("event.created", e)
	return e, nil
}

func (s *Service) Update(ctx context.Context, v user.Viewer, id string, in UpdateInput, image io.Reader) (*Event, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can edit events", ErrUnauthorized)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := in.apply(*current)
	if err := validate.Struct(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	updates := map[string]any{
		"Title":       next.Title,
		"Date_event":  next.DateEvent,
		"Description": next.Description,
		"Hora_event":  next.HoraEvent,
		"Type":        string(next.Type),
		"Local":       next.Local,
	}
	imageID, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if imageID != "" {
		updates["ImageID"] = imageID
	}

	e, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.deleteImage(ctx, imageID)
		return nil, err
	}
	if imageID != "" {
		s.deleteImage(ctx, current.ImageID)
	}
	s.publish("event.updated", e)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	if !v.IsStaff() {
		return fmt.Errorf("%w: only staff can delete events", ErrUnauthorized)
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteImage(ctx, e.ImageID)
	s.publish("event.deleted", map[string]string{"id": id})
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(ctx, *e)
	return &v, nil
}

// List returns events ordered by date, then time.
func (s *Service) List(ctx context.Context) ([]View, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := dateKey(events[i].DateEvent), dateKey(events[j].DateEvent)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return utils.HHMMToMinutes(events[i].HoraEvent) < utils.HHMMToMinutes(events[j].HoraEvent)
	})
	out := make([]View, 0, len(events))
	for _, e := range events {
		out = append(out, s.view(ctx, e))
	}
	return out, nil
}

// Confirm RSVPs the viewer. Confirming twice keeps a single entry.
func (s *Service) Confirm(ctx context.Context, v user.Viewer, id string) (*Event, error) {
	if err := s.repo.Confirm(ctx, id, v.UserID); err != nil {
		return nil, err
	}
	return s.afterRSVP(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, v user.Viewer, id string) (*Event, error) {
	if err := s.repo.Cancel(ctx, id, v.UserID); err != nil {
		return nil, err
	}
	return s.afterRSVP(ctx, id)
}

func (s *Service) afterRSVP(ctx context.Context, id string) (*Event, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish("event.rsvp", map[string]any{"id": e.ID, "Confirmados": e.Confirmados})
	return e, nil
}

func (s *Service) view(ctx context.Context, e Event) View {
	v := View{Event: e}
	if e.ImageID == "" || s.blobs == nil {
		return v
	}
	url, err := s.blobs.URL(ctx, blob.BucketEvents, e.ImageID)
	if err != nil {
		log.Printf("[event] image url %s: %v", e.ImageID, err)
		return v
	}
	v.ImageURL = url
	return v
}

func (s *Service) uploadImage(ctx context.Context, r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	if s.blobs == nil {
		return "", fmt.Errorf("file storage is not configured")
	}
	id, err := blob.UploadImage(ctx, s.blobs, blob.BucketEvents, r, blob.GalleryImage)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidImage) {
			return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return id, nil
}

func (s *Service) deleteImage(ctx context.Context, id string) {
	if id == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, blob.BucketEvents, id); err != nil {
		log.Printf("[event] delete image %s: %v", id, err)
	}
}

func dateKey(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
