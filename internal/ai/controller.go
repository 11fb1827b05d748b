package ai

import (
	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/geom"
)

// Controller is the per-unit decision engine. It owns the unit's state and
// aggro context and re-evaluates both once per simulation tick. Everything
// physical happens in the collaborators.
type Controller struct {
	self       Unit
	movement   Movement
	health     Health
	combat     Combat
	perception Perception
	notifier   Notifier
	log        zerolog.Logger
	cfg        Config

	targeting TargetingStrategy
	retreat   RetreatPolicy

	state UnitState
	aggro AggroContext

	healCooldown int
	warnedNoop   bool
}

// Deps bundles the collaborators a controller is built from.
type Deps struct {
	Self       Unit
	Movement   Movement
	Health     Health
	Combat     Combat
	Perception Perception
	Notifier   Notifier
	Log        zerolog.Logger
}

// NewController builds a controller for the given archetype profile.
func NewController(profile Profile, cfg Config, deps Deps) *Controller {
	c := &Controller{
		self:       deps.Self,
		movement:   deps.Movement,
		health:     deps.Health,
		combat:     deps.Combat,
		perception: deps.Perception,
		notifier:   deps.Notifier,
		log:        deps.Log,
		cfg:        cfg,
		state:      StateIdle,
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}
	c.targeting, c.retreat = profile.behaviors()
	return c
}

// State returns the unit's current state.
func (c *Controller) State() UnitState { return c.state }

// Aggro returns a read-only snapshot of the aggro context.
func (c *Controller) Aggro() AggroContext { return c.aggro }

// Self returns the controlled unit.
func (c *Controller) Self() Unit { return c.self }

// Movement exposes the steering collaborator so group commands can set
// destinations in the same tick they flag the relocation.
func (c *Controller) Movement() Movement { return c.movement }

// SetTarget engages the given unit. The aggro origin is recorded only on
// first acquisition: re-targeting mid-fight must not walk the leash anchor
// forward. Ignored once dead. A forced move stays in effect; the flag is
// only cleared explicitly or on arrival.
func (c *Controller) SetTarget(id string) {
	if c.state == StateDead {
		return
	}
	if !c.aggro.hasOrigin {
		c.aggro.origin = c.self.Position()
		c.aggro.hasOrigin = true
	}
	c.aggro.targetID = id
	if c.combat != nil {
		c.combat.SetTarget(id)
	}
}

// ClearTarget drops the target reference. The leash anchor stays: a unit
// that lost its target mid-chase still has somewhere to walk back to.
func (c *Controller) ClearTarget() {
	c.aggro.targetID = ""
	if c.combat != nil {
		c.combat.ClearTarget()
	}
}

// ClearAggroOrigin drops the leash anchor. Called when the unit makes it
// home or receives fresh orders.
func (c *Controller) ClearAggroOrigin() {
	c.aggro.hasOrigin = false
	c.aggro.origin = geom.Vec3{}
}

// SetForcedMove starts or ends a player/group-issued relocation. Starting
// one clears the current target and leash anchor: an explicit order always
// overrides an engagement. Ending one clears only the stored destination.
func (c *Controller) SetForcedMove(on bool, dest ...geom.Vec3) {
	if c.state == StateDead {
		return
	}
	if !on {
		c.aggro.forced = false
		c.aggro.hasForcedDst = false
		c.aggro.forcedDest = geom.Vec3{}
		return
	}

	c.ClearTarget()
	c.ClearAggroOrigin()
	c.aggro.forced = true
	if len(dest) > 0 {
		c.aggro.forcedDest = dest[0]
		c.aggro.hasForcedDst = true
	}
}

// FindTarget runs the archetype's targeting strategy.
func (c *Controller) FindTarget() (Unit, bool) {
	if c.targeting == nil || c.perception == nil {
		return nil, false
	}
	return c.targeting.FindTarget(c)
}

// ShouldRetreat runs the archetype's retreat policy.
func (c *Controller) ShouldRetreat() bool {
	if c.retreat == nil {
		return false
	}
	return c.retreat.ShouldRetreat(c)
}

// HasExceededChaseDistance reports whether the unit chased past its leash.
func (c *Controller) HasExceededChaseDistance() bool {
	if !c.aggro.hasOrigin {
		return false
	}
	return c.self.Position().Dist(c.aggro.origin) > c.cfg.MaxChaseDistance
}

// HasReachedForcedMoveDestination reports arrival at the ordered point.
func (c *Controller) HasReachedForcedMoveDestination() bool {
	if !c.aggro.hasForcedDst {
		return false
	}
	return c.self.Position().Dist(c.aggro.forcedDest) <= arrivalTolerance
}

// Tick re-evaluates the unit's state once. Priority order, documented in
// DESIGN.md: death, forced move, retreat, leash, target handling, idle.
func (c *Controller) Tick() {
	if c.state == StateDead {
		return
	}
	if !c.ready() {
		if !c.warnedNoop {
			c.log.Warn().Str("unit", c.unitID()).Msg("ai controller missing collaborators, ticking as no-op")
			c.warnedNoop = true
		}
		return
	}

	if c.health.IsDead() {
		c.movement.Stop()
		c.ClearTarget()
		c.transition(StateDead)
		return
	}

	if c.aggro.forced {
		c.tickForcedMove()
		return
	}

	// Reset any kiting speed boost; the retreat branch re-applies it.
	c.movement.SetSpeedScale(1)

	if c.retreat != nil && c.retreat.ShouldRetreat(c) {
		c.tickRetreat()
		return
	}

	if c.state == StateReturningToOrigin || c.HasExceededChaseDistance() {
		c.tickReturn()
		return
	}

	c.tickEngage()
}

// tickForcedMove walks the unit to the ordered point and clears the order
// on arrival.
func (c *Controller) tickForcedMove() {
	if c.HasReachedForcedMoveDestination() {
		c.SetForcedMove(false)
		c.movement.Stop()
		c.transition(StateIdle)
		return
	}
	if dest, ok := c.aggro.ForcedDestination(); ok {
		c.movement.SetDestination(dest)
	}
	c.transition(StateMoving)
}

// tickRetreat falls back along the policy's direction at its speed.
func (c *Controller) tickRetreat() {
	c.transition(StateRetreating)
	c.movement.SetSpeedScale(c.retreat.SpeedScale(c))
	if dest, ok := c.retreat.Destination(c); ok {
		c.movement.SetDestination(dest)
	} else {
		c.movement.Stop()
	}
}

// tickReturn leashes the unit back toward its aggro origin. Arrival clears
// the anchor.
func (c *Controller) tickReturn() {
	origin, ok := c.aggro.Origin()
	if !ok {
		c.transition(StateIdle)
		return
	}
	c.ClearTarget()
	if c.self.Position().Dist(origin) <= arrivalTolerance {
		c.ClearAggroOrigin()
		c.movement.Stop()
		c.transition(StateIdle)
		return
	}
	c.movement.SetDestination(origin)
	c.transition(StateReturningToOrigin)
}

// tickEngage resolves the current target (acquiring one if needed) and
// either fights, closes in, or idles.
func (c *Controller) tickEngage() {
	target, ok := c.resolveTarget()
	if ok && c.targeting.Heals() && target.HealthFraction() >= c.cfg.Support.HealThreshold {
		// The patient has recovered; release them and look for the next.
		c.ClearTarget()
		target, ok = nil, false
	}
	if !ok {
		if found, acquired := c.FindTarget(); acquired {
			c.SetTarget(found.ID())
			target, ok = found, true
		}
	}

	if !ok {
		if c.movement.IsMoving() {
			c.movement.Stop()
		}
		c.transition(StateIdle)
		return
	}

	if c.combat.IsInRange(target.ID()) {
		if c.targeting.Heals() {
			c.tickHeal(target)
			return
		}
		// Damage application is the combat collaborator's business.
		c.transition(StateAttacking)
		return
	}

	c.movement.FollowTarget(target.ID())
	c.transition(StateMoving)
}

// tickHeal applies the support archetype's heal, rate-limited by the
// weapon's attack rate.
func (c *Controller) tickHeal(target Unit) {
	c.transition(StateHealing)
	if c.healCooldown > 0 {
		c.healCooldown--
		return
	}
	target.Heal(c.cfg.Support.HealAmount, c.unitID())
	interval := int(c.combat.AttackRate() * float64(c.cfg.TickRate))
	if interval < 1 {
		interval = 1
	}
	// The healing tick itself counts toward the interval.
	c.healCooldown = interval - 1
}

// resolveTarget re-resolves the weak target handle. A target that died or
// despawned since last tick is dropped as if it never existed.
func (c *Controller) resolveTarget() (Unit, bool) {
	id, ok := c.aggro.TargetID()
	if !ok {
		return nil, false
	}
	target, found := c.perception.Resolve(id)
	if !found || target.IsDead() {
		c.ClearTarget()
		return nil, false
	}
	return target, true
}

// transition moves to the next state and announces it. Dead is terminal.
func (c *Controller) transition(next UnitState) {
	if c.state == next || c.state == StateDead {
		return
	}
	old := c.state
	c.state = next
	c.notifier.UnitStateChanged(c.unitID(), old, next)
}

func (c *Controller) ready() bool {
	return c.self != nil && c.movement != nil && c.health != nil &&
		c.combat != nil && c.perception != nil && c.cfg.TickRate > 0
}

func (c *Controller) unitID() string {
	if c.self == nil {
		return ""
	}
	return c.self.ID()
}
