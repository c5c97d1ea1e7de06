package identity

import (
	"context"
	"log"
	"sync"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
)

type Publisher interface {
	Publish(room, kind string, payload any)
}

// Store holds the current merged profile of every signed-in user. Set is the
// only writer; readers use Get or Subscribe.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]MergedProfile
	subs     map[string]map[chan MergedProfile]struct{}

	loader *Loader
	pub    Publisher
}

func NewStore(loader *Loader, pub Publisher) *Store {
	return &Store{
		profiles: map[string]MergedProfile{},
		subs:     map[string]map[chan MergedProfile]struct{}{},
		loader:   loader,
		pub:      pub,
	}
}

func (s *Store) Get(userID string) (MergedProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

// Set replaces the profile and notifies subscribers and the user's room.
func (s *Store) Set(p MergedProfile) {
	id := p.UserID()
	if id == "" {
		return
	}
	s.mu.Lock()
	s.profiles[id] = p
	for ch := range s.subs[id] {
		notify(ch, p)
	}
	s.mu.Unlock()

	if s.pub != nil {
		s.pub.Publish(realtime.UserRoom(id), "profile.updated", p)
	}
}

// notify never blocks: a subscriber that has not read the previous value
// gets it replaced by the latest one.
func notify(ch chan MergedProfile, p MergedProfile) {
	for {
		select {
		case ch <- p:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Clear forgets the user, as on logout.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.profiles, userID)
	s.mu.Unlock()
}

// Subscribe returns a channel receiving the latest profile after every Set
// for userID. Call cancel to stop receiving.
func (s *Store) Subscribe(userID string) (<-chan MergedProfile, func()) {
	ch := make(chan MergedProfile, 1)
	s.mu.Lock()
	if s.subs[userID] == nil {
		s.subs[userID] = map[chan MergedProfile]struct{}{}
	}
	s.subs[userID][ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[userID], ch)
			if len(s.subs[userID]) == 0 {
				delete(s.subs, userID)
			}
			s.mu.Unlock()
		})
	}
}

// Load reads the profile through the loader and stores it.
func (s *Store) Load(ctx context.Context, userID string) (*MergedProfile, error) {
	p, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.Set(*p)
	return p, nil
}

// Refresh reloads a profile after an edit. Failures keep the previous value.
func (s *Store) Refresh(ctx context.Context, userID string) {
	if _, err := s.Load(ctx, userID); err != nil {
		log.Printf("[identity] refresh %s: %v", userID, err)
	}
}
