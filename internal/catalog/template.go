// Package catalog stores user-authored formation templates: named,
// ID-keyed grids of normalized slot positions that the group coordinator
// scales onto the battlefield. The collection is process-wide state,
// persisted as a single document through a pluggable backend.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/veldt/warband/internal/formation"
)

// Slot is one grid-normalized position of a template, relative to the
// formation center. Both coordinates are expected in [-1, 1].
type Slot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Template is a user-authored formation. Slot order is significant: slot i
// is assigned to the i-th unit of the selection.
type Template struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slots      []Slot    `json:"slots"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Pinned     bool      `json:"pinned"` // quick-list flag, consumed by the UI
}

// Collection is the persisted aggregate: every template of one profile,
// serialized as one document.
type Collection struct {
	Templates []Template `json:"formations"`
}

// newTemplate builds an empty template with a fresh ID and now-timestamps.
func newTemplate(name string, now time.Time) Template {
	return Template{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Clone deep-copies the template, including its slot list.
func (t Template) Clone() Template {
	out := t
	out.Slots = make([]Slot, len(t.Slots))
	copy(out.Slots, t.Slots)
	return out
}

// GridSlots converts the template's slots into the geometry layer's
// representation.
func (t Template) GridSlots() []formation.GridSlot {
	out := make([]formation.GridSlot, len(t.Slots))
	for i, s := range t.Slots {
		out[i] = formation.GridSlot{X: s.X, Y: s.Y}
	}
	return out
}

// clone deep-copies the whole collection.
func (c Collection) clone() Collection {
	out := Collection{Templates: make([]Template, len(c.Templates))}
	for i, t := range c.Templates {
		out.Templates[i] = t.Clone()
	}
	return out
}
