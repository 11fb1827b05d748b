package ai

import "github.com/veldt/warband/internal/geom"

// TargetingStrategy picks what a unit should engage. Implementations never
// return dead candidates.
type TargetingStrategy interface {
	FindTarget(c *Controller) (Unit, bool)
	// Heals reports whether engaging means healing instead of attacking.
	Heals() bool
}

// RetreatPolicy decides when and where a unit falls back. A controller
// holds exactly one strategy/policy pair; archetypes are composed from
// these rather than subclassed.
type RetreatPolicy interface {
	ShouldRetreat(c *Controller) bool
	// Destination is where to fall back this tick; false means hold in
	// place.
	Destination(c *Controller) (geom.Vec3, bool)
	// SpeedScale is the movement speed multiplier while retreating.
	SpeedScale(c *Controller) float64
}

// Profile selects a unit archetype: one targeting strategy and one retreat
// policy.
type Profile int

const (
	ProfileAggressive Profile = iota // nearest hostile, health-gated retreat
	ProfileDefensive                 // weakest hostile, health-gated retreat
	ProfileRanged                    // preferred-distance scoring, kites when crowded
	ProfileSupport                   // heals the most injured ally, avoids danger
)

func (p Profile) String() string {
	switch p {
	case ProfileAggressive:
		return "aggressive"
	case ProfileDefensive:
		return "defensive"
	case ProfileRanged:
		return "ranged"
	case ProfileSupport:
		return "support"
	default:
		return "unknown"
	}
}

// behaviors returns the strategy/policy pair for the profile. Unknown
// profiles behave aggressively.
func (p Profile) behaviors() (TargetingStrategy, RetreatPolicy) {
	switch p {
	case ProfileDefensive:
		return weakestTargeting{}, healthRetreat{}
	case ProfileRanged:
		return rangedTargeting{}, kitingRetreat{}
	case ProfileSupport:
		return supportTargeting{}, supportRetreat{}
	default:
		return nearestTargeting{}, healthRetreat{}
	}
}

// nearestTargeting picks the closest live hostile inside the detection
// radius.
type nearestTargeting struct{}

func (nearestTargeting) Heals() bool { return false }

func (nearestTargeting) FindTarget(c *Controller) (Unit, bool) {
	pos := c.self.Position()
	hostiles := c.perception.HostilesWithin(pos, c.cfg.DetectionRadius)

	var best Unit
	bestDist := 0.0
	for _, h := range hostiles {
		if h.IsDead() {
			continue
		}
		d := h.Position().Dist(pos)
		if best == nil || d < bestDist {
			best, bestDist = h, d
		}
	}
	return best, best != nil
}

// weakestTargeting picks the hostile with the lowest health fraction,
// finishing wounded attackers before fresh ones.
type weakestTargeting struct{}

func (weakestTargeting) Heals() bool { return false }

func (weakestTargeting) FindTarget(c *Controller) (Unit, bool) {
	hostiles := c.perception.HostilesWithin(c.self.Position(), c.cfg.DetectionRadius)

	var best Unit
	for _, h := range hostiles {
		if h.IsDead() {
			continue
		}
		if best == nil || h.HealthFraction() < best.HealthFraction() {
			best = h
		}
	}
	return best, best != nil
}

// healthRetreat is the default policy: fall back when configured to and
// when health drops to the threshold. The fallback direction is away from
// the nearest hostile, or toward the aggro origin when nothing resolves.
type healthRetreat struct{}

func (healthRetreat) ShouldRetreat(c *Controller) bool {
	if !c.cfg.RetreatEnabled {
		return false
	}
	return c.health.HealthFraction()*100 <= c.cfg.RetreatThresholdPct
}

func (healthRetreat) Destination(c *Controller) (geom.Vec3, bool) {
	return awayFromNearestHostile(c, c.cfg.DetectionRadius)
}

func (healthRetreat) SpeedScale(*Controller) float64 { return 1 }

// awayFromNearestHostile points a retreat step directly away from the
// closest live hostile. With no hostile in sight the unit heads for its
// aggro origin instead; with neither, there is nowhere meaningful to go.
func awayFromNearestHostile(c *Controller, radius float64) (geom.Vec3, bool) {
	pos := c.self.Position()
	hostiles := c.perception.HostilesWithin(pos, radius)

	var nearest Unit
	nearestDist := 0.0
	for _, h := range hostiles {
		if h.IsDead() {
			continue
		}
		d := h.Position().Dist(pos)
		if nearest == nil || d < nearestDist {
			nearest, nearestDist = h, d
		}
	}
	if nearest == nil {
		if origin, ok := c.aggro.Origin(); ok {
			return origin, true
		}
		return geom.Vec3{}, false
	}

	away := pos.Sub(nearest.Position()).GroundProject()
	return pos.Add(away.Scale(retreatStepDistance)), true
}

// retreatStepDistance is how far ahead a retreat destination is projected.
// Re-issued every tick, so the unit keeps sliding away while the pressure
// lasts.
const retreatStepDistance = 6.0
