// Package group positions a selected set of units as one body. The
// coordinator tracks which formation is active for the current selection,
// recomputes slot positions when it changes, and pushes a forced
// relocation to every selected unit's controller.
package group

import (
	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/ai"
	"github.com/veldt/warband/internal/catalog"
	"github.com/veldt/warband/internal/formation"
	"github.com/veldt/warband/internal/geom"
)

// Policy carries the coordinator's tuning knobs.
type Policy struct {
	BaseSpacing         float64
	LargeGroupThreshold int     // at this selection size the spacing widens
	LargeGroupScale     float64 // multiplier applied past the threshold
	DefaultFacing       geom.Vec3
	ValidatePositions   bool
	ValidationRadius    float64
}

// DefaultPolicy returns a workable baseline.
func DefaultPolicy() Policy {
	return Policy{
		BaseSpacing:         2,
		LargeGroupThreshold: 10,
		LargeGroupScale:     1.5,
		DefaultFacing:       geom.Vec3{Z: 1},
		ValidatePositions:   false,
		ValidationRadius:    5,
	}
}

// Notifier receives formation changes. Fire-and-forget.
type Notifier interface {
	FormationChanged(kind formation.Kind)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) FormationChanged(formation.Kind) {}

// Coordinator owns the active formation of one command context. At most
// one of preset kind / custom template is active at a time.
type Coordinator struct {
	policy   Policy
	store    *catalog.Store
	oracle   formation.PathOracle
	notifier Notifier
	log      zerolog.Logger

	selection []*ai.Controller
	facing    geom.Vec3
	kind      formation.Kind
	customID  string
}

// NewCoordinator wires a coordinator. store may be nil when custom
// formations are unavailable; oracle may be nil to skip validation.
func NewCoordinator(policy Policy, store *catalog.Store, oracle formation.PathOracle, notifier Notifier, log zerolog.Logger) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Coordinator{
		policy:   policy,
		store:    store,
		oracle:   oracle,
		notifier: notifier,
		log:      log,
		facing:   policy.DefaultFacing,
		kind:     formation.KindNone,
	}
}

// Kind returns the active preset kind. KindCustom means a template is
// active; see CustomID.
func (c *Coordinator) Kind() formation.Kind { return c.kind }

// CustomID returns the active custom template's ID, or "" when a preset is
// active.
func (c *Coordinator) CustomID() string { return c.customID }

// SetSelection replaces the selected units. Selection order matters: slot
// i goes to unit i.
func (c *Coordinator) SetSelection(units []*ai.Controller) {
	c.selection = units
}

// SetFacing overrides the formation facing, e.g. from the viewer's
// orientation. The vector is projected onto the ground plane.
func (c *Coordinator) SetFacing(facing geom.Vec3) {
	c.facing = facing.GroundProject()
}

// SetKind activates a preset formation. Re-selecting the active kind is a
// no-op; switching clears any active custom template. KindNone clears the
// layout without relocating anyone.
func (c *Coordinator) SetKind(kind formation.Kind) {
	if kind == c.kind && c.customID == "" {
		return
	}
	c.customID = ""
	c.kind = kind
	if kind == formation.KindNone {
		c.notifier.FormationChanged(kind)
		return
	}
	c.apply()
	c.notifier.FormationChanged(kind)
}

// SetCustom activates a stored template. An unknown ID is a logged no-op;
// re-selecting the active template is a plain no-op.
func (c *Coordinator) SetCustom(id string) {
	if id == c.customID {
		return
	}
	if c.store == nil {
		c.log.Warn().Msg("no formation catalog wired, ignoring custom formation")
		return
	}
	if _, ok := c.store.Get(id); !ok {
		c.log.Warn().Str("template", id).Msg("custom formation not found")
		return
	}
	c.kind = formation.KindCustom
	c.customID = id
	c.apply()
	c.notifier.FormationChanged(formation.KindCustom)
}

// Reapply recomputes and reissues positions for the active formation, e.g.
// after the selection was reordered.
func (c *Coordinator) Reapply() {
	if c.kind == formation.KindNone {
		return
	}
	c.apply()
}

// apply computes one position per live selected unit and relocates each.
// Dead units contribute nothing and receive nothing.
func (c *Coordinator) apply() {
	live := c.liveSelection()
	if len(live) == 0 {
		return
	}

	points := make([]geom.Vec3, len(live))
	for i, u := range live {
		points[i] = u.Self().Position()
	}
	center, _ := geom.Centroid(points)
	spacing := c.spacingFor(len(live))

	var positions []geom.Vec3
	if c.kind == formation.KindCustom {
		tpl, ok := c.store.Get(c.customID)
		if !ok {
			c.log.Warn().Str("template", c.customID).Msg("active custom formation vanished")
			return
		}
		positions = formation.ComputeCustomPositions(center, tpl.GridSlots(), len(live), spacing, c.facing)
	} else {
		positions = formation.ComputePositions(center, len(live), c.kind, spacing, c.facing)
	}

	if c.policy.ValidatePositions && c.oracle != nil {
		positions = formation.Validate(positions, c.oracle, c.policy.ValidationRadius)
	}

	// All destinations are assigned synchronously, before any controller
	// re-evaluates its own state this tick.
	for i, u := range live {
		u.SetForcedMove(true, positions[i])
		u.Movement().SetDestination(positions[i])
	}
}

// spacingFor widens the slot gap once the group is large enough that tight
// ranks would jam on the move.
func (c *Coordinator) spacingFor(count int) float64 {
	spacing := c.policy.BaseSpacing
	if c.policy.LargeGroupThreshold > 0 && count >= c.policy.LargeGroupThreshold {
		spacing *= c.policy.LargeGroupScale
	}
	return spacing
}

func (c *Coordinator) liveSelection() []*ai.Controller {
	live := make([]*ai.Controller, 0, len(c.selection))
	for _, u := range c.selection {
		if u == nil || u.State() == ai.StateDead {
			continue
		}
		live = append(live, u)
	}
	return live
}
