package auth

import (
	"sync"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "securevault-cli"
	keyringUser    = "api-token"
)

// Store holds the current bearer token. The token is persisted in the
// system keyring and cached in memory. Every token change bumps the
// session epoch; in-flight results tagged with an older epoch must be
// discarded by their callers.
type Store struct {
	mu     sync.RWMutex
	token  string
	epoch  string
	subs   []*Subscription
	loaded bool
}

// Event describes a token change delivered to subscribers
type Event struct {
	SignedIn bool
	Epoch    string
}

// Subscription delivers token-change events until Stop is called
type Subscription struct {
	C      chan Event
	store  *Store
	active bool
}

func NewStore() *Store {
	return &Store{epoch: uuid.NewString()}
}

// Token returns the current bearer token. ok is false when signed out.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if v, err := keyring.Get(keyringService, keyringUser); err == nil {
			s.token = v
		}
		s.loaded = true
	}
	return s.token, s.token != ""
}

// Epoch identifies the current sign-in session. Results of requests
// issued under a different epoch are stale.
func (s *Store) Epoch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// SetToken stores a new bearer token and notifies subscribers
func (s *Store) SetToken(token string) error {
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.loaded = true
	s.epoch = uuid.NewString()
	s.notifyLocked(Event{SignedIn: true, Epoch: s.epoch})
	return nil
}

// Clear signs out: the token is removed and subscribers receive an
// explicit reset event so staging, catalog, and preview state can be
// cleared together.
func (s *Store) Clear() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && err != keyring.ErrNotFound {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	s.epoch = uuid.NewString()
	s.notifyLocked(Event{SignedIn: false, Epoch: s.epoch})
	return nil
}

// Subscribe registers for token-change events. The caller must Stop the
// subscription when done.
func (s *Store) Subscribe() *Subscription {
	sub := &Subscription{
		C:      make(chan Event, 4),
		store:  s,
		active: true,
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// Stop deregisters the subscription and closes its channel
func (sub *Subscription) Stop() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sub.active {
		return
	}
	sub.active = false
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	close(sub.C)
}

// notifyLocked fans the event out to active subscribers. Sends happen
// under the store lock so a concurrent Stop cannot close a channel
// mid-send; sends are non-blocking so slow subscribers drop events
// instead of stalling a sign-in or sign-out.
func (s *Store) notifyLocked(ev Event) {
	for _, sub := range s.subs {
		select {
		case sub.C <- ev:
		default:
		}
	}
}
