package ai

import "github.com/veldt/warband/internal/geom"

// Unit is the controller's view of any entity on the field, its own
// included. References obtained through Perception are weak: a unit may
// despawn between ticks, so handles are re-resolved every tick and a
// failed resolution is treated the same as "no target".
type Unit interface {
	ID() string
	Position() geom.Vec3
	HealthFraction() float64
	IsDead() bool
	Heal(amount float64, source string)
}

// Movement is the steering collaborator. The AI core never integrates
// positions itself; it only sets intents.
type Movement interface {
	SetDestination(p geom.Vec3)
	FollowTarget(id string)
	Stop()
	IsMoving() bool
	HasReachedDestination() bool
	// SetSpeedScale adjusts movement speed relative to the unit's base
	// speed. Kiting archetypes fall back faster than they advance.
	SetSpeedScale(scale float64)
}

// Health exposes the unit's own vitality.
type Health interface {
	CurrentHealth() float64
	MaxHealth() float64
	HealthFraction() float64
	IsDead() bool
	Heal(amount float64, source string)
}

// Combat is the weapon collaborator. Damage application lives outside the
// AI core; the controller only aims it.
type Combat interface {
	SetTarget(id string)
	ClearTarget()
	IsInRange(id string) bool
	// AttackRate is the delay between attacks, in seconds.
	AttackRate() float64
}

// Perception resolves weak unit handles and answers proximity queries
// relative to the controller's own unit.
type Perception interface {
	Resolve(id string) (Unit, bool)
	HostilesWithin(center geom.Vec3, radius float64) []Unit
	AlliesWithin(center geom.Vec3, radius float64) []Unit
}

// Notifier receives unit state transitions. Fire-and-forget.
type Notifier interface {
	UnitStateChanged(id string, old, new UnitState)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) UnitStateChanged(string, UnitState, UnitState) {}
