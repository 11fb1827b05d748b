package ai

import (
	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/geom"
)

// stubUnit doubles as the controlled unit and as anything the perception
// stub can see.
type stubUnit struct {
	id     string
	pos    geom.Vec3
	frac   float64
	dead   bool
	healed float64
}

func (u *stubUnit) ID() string             { return u.id }
func (u *stubUnit) Position() geom.Vec3    { return u.pos }
func (u *stubUnit) HealthFraction() float64 { return u.frac }
func (u *stubUnit) IsDead() bool           { return u.dead }
func (u *stubUnit) Heal(amount float64, source string) {
	u.healed += amount
}

type stubMovement struct {
	dest      geom.Vec3
	destSet   bool
	following string
	moving    bool
	stops     int
	speed     float64
}

func (m *stubMovement) SetDestination(p geom.Vec3) { m.dest, m.destSet, m.moving = p, true, true }
func (m *stubMovement) FollowTarget(id string)     { m.following, m.moving = id, true }
func (m *stubMovement) Stop()                      { m.stops++; m.moving = false }
func (m *stubMovement) IsMoving() bool             { return m.moving }
func (m *stubMovement) HasReachedDestination() bool {
	return !m.moving
}
func (m *stubMovement) SetSpeedScale(s float64) { m.speed = s }

type stubHealth struct {
	cur, max float64
	dead     bool
}

func (h *stubHealth) CurrentHealth() float64 { return h.cur }
func (h *stubHealth) MaxHealth() float64     { return h.max }
func (h *stubHealth) HealthFraction() float64 {
	if h.max <= 0 {
		return 0
	}
	return h.cur / h.max
}
func (h *stubHealth) IsDead() bool                  { return h.dead }
func (h *stubHealth) Heal(amount float64, _ string) { h.cur += amount }

type stubCombat struct {
	target  string
	clears  int
	inRange map[string]bool
	rate    float64
}

func (c *stubCombat) SetTarget(id string)     { c.target = id }
func (c *stubCombat) ClearTarget()            { c.clears++; c.target = "" }
func (c *stubCombat) IsInRange(id string) bool { return c.inRange[id] }
func (c *stubCombat) AttackRate() float64 {
	if c.rate == 0 {
		return 1
	}
	return c.rate
}

// stubPerception serves two flat unit lists, filtered by distance from the
// query point.
type stubPerception struct {
	hostiles []*stubUnit
	allies   []*stubUnit
}

func (p *stubPerception) Resolve(id string) (Unit, bool) {
	for _, u := range append(append([]*stubUnit{}, p.hostiles...), p.allies...) {
		if u.id == id {
			return u, true
		}
	}
	return nil, false
}

func (p *stubPerception) HostilesWithin(center geom.Vec3, radius float64) []Unit {
	return within(p.hostiles, center, radius)
}

func (p *stubPerception) AlliesWithin(center geom.Vec3, radius float64) []Unit {
	return within(p.allies, center, radius)
}

func within(units []*stubUnit, center geom.Vec3, radius float64) []Unit {
	var out []Unit
	for _, u := range units {
		if u.pos.Dist(center) <= radius {
			out = append(out, u)
		}
	}
	return out
}

// recordStates collects every state transition for assertions.
type recordStates struct {
	transitions []UnitState
}

func (r *recordStates) UnitStateChanged(_ string, _, next UnitState) {
	r.transitions = append(r.transitions, next)
}

// testRig bundles one controller with all its stubs.
type testRig struct {
	unit       *stubUnit
	movement   *stubMovement
	health     *stubHealth
	combat     *stubCombat
	perception *stubPerception
	states     *recordStates
	ctrl       *Controller
}

func newRig(profile Profile, cfg Config) *testRig {
	r := &testRig{
		unit:       &stubUnit{id: "u1", frac: 1},
		movement:   &stubMovement{speed: 1},
		health:     &stubHealth{cur: 100, max: 100},
		combat:     &stubCombat{inRange: map[string]bool{}},
		perception: &stubPerception{},
		states:     &recordStates{},
	}
	r.ctrl = NewController(profile, cfg, Deps{
		Self:       r.unit,
		Movement:   r.movement,
		Health:     r.health,
		Combat:     r.combat,
		Perception: r.perception,
		Notifier:   r.states,
		Log:        zerolog.Nop(),
	})
	return r
}
