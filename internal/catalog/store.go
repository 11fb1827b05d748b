package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier receives catalog change events. Notifications are
// fire-and-forget; the store expects nothing back from subscribers.
type Notifier interface {
	TemplateAdded(t Template)
	TemplateUpdated(t Template)
	TemplateDeleted(id string)
	CollectionChanged()
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) TemplateAdded(Template)   {}
func (NopNotifier) TemplateUpdated(Template) {}
func (NopNotifier) TemplateDeleted(string)   {}
func (NopNotifier) CollectionChanged()       {}

// Store owns the in-memory template collection and keeps it in sync with
// its persistence backend. All mutations are serialized by an internal
// mutex; the simulation itself runs single-threaded, the lock only guards
// against stray callers from other goroutines.
//
// Persistence failures never propagate: a collection that fails to load is
// replaced with an empty one, and a failed save is logged and dropped.
// A stale on-disk document is considered better replaced than fatal.
type Store struct {
	mu         sync.Mutex
	collection Collection
	backend    Backend
	notifier   Notifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewStore wires a store to its backend. Pass nil for notifier to discard
// events.
func NewStore(backend Backend, notifier Notifier, log zerolog.Logger) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		backend:  backend,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// LoadAll replaces the in-memory collection with the persisted one. A
// missing or malformed document falls back to an empty collection.
func (s *Store) LoadAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.backend.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("formation catalog unreadable, starting empty")
		s.collection = Collection{}
		return
	}
	s.collection = c
}

// SaveAll persists the current collection. Failures are logged and
// swallowed.
func (s *Store) SaveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist()
}

// persist writes the collection through the backend. Callers hold the lock.
func (s *Store) persist() {
	if err := s.backend.Save(s.collection.clone()); err != nil {
		s.log.Error().Err(err).Msg("failed to persist formation catalog")
	}
}

// Create adds a new empty template under the given name and returns it.
func (s *Store) Create(name string) Template {
	s.mu.Lock()
	t := newTemplate(name, s.now())
	s.collection.Templates = append(s.collection.Templates, t)
	s.notifier.TemplateAdded(t.Clone())
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return t.Clone()
}

// Get returns the template with the given ID.
func (s *Store) Get(id string) (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.collection.Templates {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return Template{}, false
}

// GetByName returns the first template whose name matches, case-insensitively.
func (s *Store) GetByName(name string) (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.collection.Templates {
		if strings.EqualFold(t.Name, name) {
			return t.Clone(), true
		}
	}
	return Template{}, false
}

// All returns a copy of every template, in collection order.
func (s *Store) All() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Template, len(s.collection.Templates))
	for i, t := range s.collection.Templates {
		out[i] = t.Clone()
	}
	return out
}

// Count returns the number of stored templates.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collection.Templates)
}

// Update replaces the stored template whose ID matches t.ID and touches
// its modified timestamp. Returns false when the ID is unknown.
func (s *Store) Update(t Template) bool {
	s.mu.Lock()
	idx := s.indexOf(t.ID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	t = t.Clone()
	t.ModifiedAt = s.now()
	s.collection.Templates[idx] = t
	s.notifier.TemplateUpdated(t.Clone())
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return true
}

// Rename changes only the template's display name. Uniqueness is not
// enforced here; callers validate with NameExists/UniqueName first.
func (s *Store) Rename(id, newName string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.collection.Templates[idx].Name = newName
	s.collection.Templates[idx].ModifiedAt = s.now()
	s.notifier.TemplateUpdated(s.collection.Templates[idx].Clone())
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return true
}

// SetPinned flips the template's quick-list flag.
func (s *Store) SetPinned(id string, pinned bool) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.collection.Templates[idx].Pinned = pinned
	s.collection.Templates[idx].ModifiedAt = s.now()
	s.notifier.TemplateUpdated(s.collection.Templates[idx].Clone())
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return true
}

// Delete removes every template with the given ID (expected 0 or 1).
// Returns true when anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	kept := s.collection.Templates[:0]
	removed := false
	for _, t := range s.collection.Templates {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.collection.Templates = kept
	if !removed {
		s.mu.Unlock()
		return false
	}
	s.notifier.TemplateDeleted(id)
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return true
}

// Duplicate deep-copies a template under a fresh ID. The copy's name gets
// a " (Copy)" suffix, its timestamps reset and its pin flag cleared.
func (s *Store) Duplicate(id string) (Template, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return Template{}, false
	}
	dup := s.collection.Templates[idx].Clone()
	dup.ID = uuid.NewString()
	dup.Name = dup.Name + " (Copy)"
	dup.CreatedAt = s.now()
	dup.ModifiedAt = dup.CreatedAt
	dup.Pinned = false
	s.collection.Templates = append(s.collection.Templates, dup)
	s.notifier.TemplateAdded(dup.Clone())
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return dup.Clone(), true
}

// NameExists reports whether any template other than excludeID already
// carries the given name, compared case-insensitively. Pass "" to exclude
// nothing.
func (s *Store) NameExists(name, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameExists(name, excludeID)
}

func (s *Store) nameExists(name, excludeID string) bool {
	for _, t := range s.collection.Templates {
		if t.ID == excludeID {
			continue
		}
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// UniqueName appends " (n)" with increasing n until the base name no
// longer collides with a stored template.
func (s *Store) UniqueName(base string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uniqueName(base)
}

func (s *Store) uniqueName(base string) string {
	if !s.nameExists(base, "") {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !s.nameExists(candidate, "") {
			return candidate
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.collection.Templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}
