// Package ai drives one controllable unit per tick: a small state machine
// with aggro/leash bookkeeping and pluggable targeting and retreat
// behavior per unit archetype. Movement, health and weapon mechanics stay
// behind collaborator interfaces; the controller only decides.
package ai

// UnitState is the high-level behaviour state of one unit.
type UnitState int

const (
	StateIdle             UnitState = iota // holding, scanning for targets
	StateMoving                            // approaching a target or ordered point
	StateAttacking                         // in weapon range of a live target
	StateRetreating                        // falling back under the retreat policy
	StateHealing                           // support archetype tending an ally
	StateReturningToOrigin                 // leashed back toward the aggro origin
	StateDead                              // terminal, no transition leaves it
)

func (s UnitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateAttacking:
		return "attacking"
	case StateRetreating:
		return "retreating"
	case StateHealing:
		return "healing"
	case StateReturningToOrigin:
		return "returning"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}
