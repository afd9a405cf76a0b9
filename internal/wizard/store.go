package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrDraftNotFound is returned for unknown or expired drafts.
var ErrDraftNotFound = errors.New("draft not found")

// Store keeps drafts in memory. Drafts idle longer than the TTL are gone.
type Store struct {
	mu     sync.Mutex
	drafts map[string]Draft
	ttl    time.Duration
	now    func() time.Time
}

// NewStore returns an empty store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		drafts: make(map[string]Draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a new draft at the guideline step.
func (s *Store) Create() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()[:8]
	for {
		if _, taken := s.drafts[id]; !taken {
			break
		}
		id = uuid.New().String()[:8]
	}

	d := Draft{ID: id, Step: StepGuidelines, UpdatedAt: s.now()}
	s.drafts[id] = d
	return d.Clone()
}

// Get returns the draft for id.
func (s *Store) Get(id string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(id)
	if err != nil {
		return Draft{}, err
	}
	return d.Clone(), nil
}

// Update runs fn against a wizard for the draft and stores the result when
// fn succeeds. A draft past the guideline step must keep a guideline selected.
func (s *Store) Update(id string, fn func(w *Wizard) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.lookup(id)
	if err != nil {
		return Draft{}, err
	}

	w := Resume(d)
	if err := fn(w); err != nil {
		return d.Clone(), err
	}

	next := w.Draft()
	if next.Step > StepGuidelines && !next.Guidelines.Any() {
		return d.Clone(), ErrNoGuidelines
	}
	next.ID = id
	next.UpdatedAt = s.now()
	s.drafts[id] = next
	return next.Clone(), nil
}

// Delete forgets a draft.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Sweep drops expired drafts and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, d := range s.drafts {
		if s.expired(d) {
			delete(s.drafts, id)
			n++
		}
	}
	return n
}

// Len is the number of live drafts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *Store) lookup(id string) (Draft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if s.expired(d) {
		delete(s.drafts, id)
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

func (s *Store) expired(d Draft) bool {
	return s.ttl > 0 && s.now().Sub(d.UpdatedAt) > s.ttl
}
