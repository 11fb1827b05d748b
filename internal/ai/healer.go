package ai

import "github.com/veldt/warband/internal/geom"

// supportTargeting searches allies instead of hostiles: the target is the
// lowest-health-fraction ally strictly below the heal threshold. Engaging
// it heals rather than hurts.
type supportTargeting struct{}

func (supportTargeting) Heals() bool { return true }

func (supportTargeting) FindTarget(c *Controller) (Unit, bool) {
	pos := c.self.Position()
	allies := c.perception.AlliesWithin(pos, c.cfg.DetectionRadius)

	var best Unit
	for _, a := range allies {
		if a.IsDead() || a.ID() == c.self.ID() {
			continue
		}
		if a.HealthFraction() >= c.cfg.Support.HealThreshold {
			continue
		}
		if best == nil || a.HealthFraction() < best.HealthFraction() {
			best = a
		}
	}
	return best, best != nil
}

// supportRetreat keeps the healer out of the fight. It breaks off at a
// higher health threshold than the line archetypes, and it also backs away
// whenever any hostile stands inside the danger radius, sliding along the
// summed repulsion from all of them.
type supportRetreat struct{}

func (supportRetreat) ShouldRetreat(c *Controller) bool {
	if c.cfg.RetreatEnabled && c.health.HealthFraction()*100 <= c.cfg.Support.RetreatThresholdPct {
		return true
	}
	return len(liveHostilesWithin(c, c.cfg.Support.DangerRadius)) > 0
}

func (supportRetreat) Destination(c *Controller) (geom.Vec3, bool) {
	pos := c.self.Position()
	threats := liveHostilesWithin(c, c.cfg.Support.DangerRadius)
	if len(threats) == 0 {
		return awayFromNearestHostile(c, c.cfg.DetectionRadius)
	}

	var repulsion geom.Vec3
	for _, h := range threats {
		repulsion = repulsion.Add(pos.Sub(h.Position()).GroundProject())
	}
	dir := repulsion.GroundProject()
	return pos.Add(dir.Scale(retreatStepDistance)), true
}

func (supportRetreat) SpeedScale(*Controller) float64 { return 1 }

func liveHostilesWithin(c *Controller, radius float64) []Unit {
	hostiles := c.perception.HostilesWithin(c.self.Position(), radius)
	live := hostiles[:0]
	for _, h := range hostiles {
		if !h.IsDead() {
			live = append(live, h)
		}
	}
	return live
}
