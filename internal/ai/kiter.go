package ai

import (
	"math"

	"github.com/veldt/warband/internal/geom"
)

// rangedTargeting scores every visible hostile by closeness to the
// archetype's preferred engagement distance and picks the best. A target
// sitting exactly at the sweet spot scores 1; the score decays
// hyperbolically on both sides.
type rangedTargeting struct{}

func (rangedTargeting) Heals() bool { return false }

func (rangedTargeting) FindTarget(c *Controller) (Unit, bool) {
	pos := c.self.Position()
	preferred := c.cfg.Kiter.PreferredDistance
	hostiles := c.perception.HostilesWithin(pos, c.cfg.DetectionRadius)

	var best Unit
	bestScore := 0.0
	for _, h := range hostiles {
		if h.IsDead() {
			continue
		}
		d := h.Position().Dist(pos)
		score := 1 / (1 + math.Abs(d-preferred))
		if best == nil || score > bestScore {
			best, bestScore = h, score
		}
	}
	return best, best != nil
}

// kitingRetreat extends the default health gate with distance keeping:
// whenever the live target crowds inside the minimum safe distance the
// unit falls straight back from it at increased speed, regardless of
// health. Past 1.5x the preferred distance the boost ends and the attack
// state re-approaches on its own.
type kitingRetreat struct{}

func (kitingRetreat) ShouldRetreat(c *Controller) bool {
	if (healthRetreat{}).ShouldRetreat(c) {
		return true
	}
	target, dist, ok := kiteTarget(c)
	return ok && target != nil && dist < c.cfg.Kiter.MinSafeDistance
}

func (kitingRetreat) Destination(c *Controller) (geom.Vec3, bool) {
	target, _, ok := kiteTarget(c)
	if !ok {
		return awayFromNearestHostile(c, c.cfg.DetectionRadius)
	}
	pos := c.self.Position()
	away := pos.Sub(target.Position()).GroundProject()
	return pos.Add(away.Scale(retreatStepDistance)), true
}

func (kitingRetreat) SpeedScale(c *Controller) float64 {
	target, dist, ok := kiteTarget(c)
	if !ok || target == nil {
		return 1
	}
	if dist > c.cfg.Kiter.PreferredDistance*1.5 {
		return 1
	}
	return c.cfg.Kiter.RetreatSpeedScale
}

// kiteTarget resolves the current target and its distance. ok is false
// when the unit has no live target to keep distance from.
func kiteTarget(c *Controller) (Unit, float64, bool) {
	id, has := c.aggro.TargetID()
	if !has {
		return nil, 0, false
	}
	target, found := c.perception.Resolve(id)
	if !found || target.IsDead() {
		return nil, 0, false
	}
	return target, target.Position().Dist(c.self.Position()), true
}
