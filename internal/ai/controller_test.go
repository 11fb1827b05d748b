package ai

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/geom"
)

func TestController_SetTarget_RecordsOriginOnce(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.unit.pos = geom.Vec3{X: 5}

	r.ctrl.SetTarget("enemy-1")
	origin, ok := r.ctrl.Aggro().Origin()
	if !ok || origin != (geom.Vec3{X: 5}) {
		t.Fatalf("first acquisition should anchor the leash at (5,0,0), got %+v ok=%v", origin, ok)
	}

	// Re-targeting mid-fight must not walk the anchor forward.
	r.unit.pos = geom.Vec3{X: 50}
	r.ctrl.SetTarget("enemy-2")
	origin, _ = r.ctrl.Aggro().Origin()
	if origin != (geom.Vec3{X: 5}) {
		t.Fatalf("re-targeting moved the leash anchor to %+v", origin)
	}
}

func TestController_HasExceededChaseDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChaseDistance = 10
	r := newRig(ProfileAggressive, cfg)

	if r.ctrl.HasExceededChaseDistance() {
		t.Fatal("no aggro origin yet, leash cannot be exceeded")
	}

	r.ctrl.SetTarget("enemy-1")
	if r.ctrl.HasExceededChaseDistance() {
		t.Fatal("just acquired: distance from origin is zero")
	}

	r.unit.pos = geom.Vec3{X: 11}
	if !r.ctrl.HasExceededChaseDistance() {
		t.Fatal("11 units from origin with a 10 unit leash should trip")
	}
}

func TestController_ClearTargetKeepsOrigin(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.ctrl.SetTarget("enemy-1")
	r.ctrl.ClearTarget()

	if _, ok := r.ctrl.Aggro().TargetID(); ok {
		t.Fatal("target should be dropped")
	}
	if _, ok := r.ctrl.Aggro().Origin(); !ok {
		t.Fatal("clearTarget must not drop the leash anchor")
	}
	if r.combat.clears != 1 {
		t.Fatalf("combat collaborator should be cleared once, got %d", r.combat.clears)
	}
}

func TestController_SetForcedMove_OverridesEngagement(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.ctrl.SetTarget("enemy-1")

	dest := geom.Vec3{X: 20, Z: 20}
	r.ctrl.SetForcedMove(true, dest)

	if _, ok := r.ctrl.Aggro().TargetID(); ok {
		t.Fatal("forced move should clear the target")
	}
	if _, ok := r.ctrl.Aggro().Origin(); ok {
		t.Fatal("forced move should clear the aggro origin")
	}
	got, ok := r.ctrl.Aggro().ForcedDestination()
	if !ok || got != dest {
		t.Fatalf("forced destination not recorded, got %+v ok=%v", got, ok)
	}

	// Re-acquiring a target does not cancel the order.
	r.ctrl.SetTarget("enemy-2")
	if !r.ctrl.Aggro().ForcedMove() {
		t.Fatal("setTarget must not clear the forced-move flag")
	}

	// Ending the order clears only the destination.
	r.ctrl.SetForcedMove(false)
	if r.ctrl.Aggro().ForcedMove() {
		t.Fatal("flag should be off")
	}
	if _, ok := r.ctrl.Aggro().ForcedDestination(); ok {
		t.Fatal("destination should be cleared")
	}
	if _, ok := r.ctrl.Aggro().TargetID(); !ok {
		t.Fatal("ending a forced move must not touch the target")
	}
}

func TestController_Tick_ForcedMoveUntilArrival(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	dest := geom.Vec3{X: 20}
	r.ctrl.SetForcedMove(true, dest)

	r.ctrl.Tick()
	if r.ctrl.State() != StateMoving {
		t.Fatalf("expected moving, got %s", r.ctrl.State())
	}
	if !r.movement.destSet || r.movement.dest != dest {
		t.Fatalf("destination not pushed to movement: %+v", r.movement.dest)
	}

	// Inside the arrival tolerance (3.0) the order completes.
	r.unit.pos = geom.Vec3{X: 18}
	r.ctrl.Tick()
	if r.ctrl.State() != StateIdle {
		t.Fatalf("expected idle after arrival, got %s", r.ctrl.State())
	}
	if r.ctrl.Aggro().ForcedMove() {
		t.Fatal("arrival should clear the forced-move flag")
	}
}

func TestController_Tick_AcquiresAndApproaches(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.perception.hostiles = []*stubUnit{
		{id: "far", pos: geom.Vec3{X: 25}, frac: 1},
		{id: "near", pos: geom.Vec3{X: 8}, frac: 1},
	}

	r.ctrl.Tick()
	if id, _ := r.ctrl.Aggro().TargetID(); id != "near" {
		t.Fatalf("aggressive profile should pick the nearest hostile, got %q", id)
	}
	if r.ctrl.State() != StateMoving {
		t.Fatalf("out of range target should mean moving, got %s", r.ctrl.State())
	}
	if r.movement.following != "near" {
		t.Fatalf("movement should follow the target, got %q", r.movement.following)
	}
}

func TestController_Tick_AttacksInRange(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.perception.hostiles = []*stubUnit{{id: "near", pos: geom.Vec3{X: 2}, frac: 1}}
	r.combat.inRange["near"] = true

	r.ctrl.Tick()
	if r.ctrl.State() != StateAttacking {
		t.Fatalf("expected attacking, got %s", r.ctrl.State())
	}
	if r.combat.target != "near" {
		t.Fatalf("combat collaborator should be aimed at near, got %q", r.combat.target)
	}
}

func TestController_Tick_IdleWhenNothingAround(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.movement.moving = true

	r.ctrl.Tick()
	if r.ctrl.State() != StateIdle {
		t.Fatalf("expected idle, got %s", r.ctrl.State())
	}
	if r.movement.stops != 1 {
		t.Fatalf("a unit with nothing to do should stop, got %d stops", r.movement.stops)
	}
}

func TestController_Tick_DeadTargetIsDropped(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	enemy := &stubUnit{id: "e", pos: geom.Vec3{X: 5}, frac: 1}
	r.perception.hostiles = []*stubUnit{enemy}

	r.ctrl.Tick()
	if id, _ := r.ctrl.Aggro().TargetID(); id != "e" {
		t.Fatalf("expected engagement, got %q", id)
	}

	enemy.dead = true
	r.ctrl.Tick()
	if id, ok := r.ctrl.Aggro().TargetID(); ok {
		t.Fatalf("dead target should be dropped, still on %q", id)
	}
	if r.ctrl.State() != StateIdle {
		t.Fatalf("expected idle after target died, got %s", r.ctrl.State())
	}
}

func TestController_Tick_RetreatsOnLowHealth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetreatThresholdPct = 25
	r := newRig(ProfileAggressive, cfg)
	r.perception.hostiles = []*stubUnit{{id: "e", pos: geom.Vec3{X: 5}, frac: 1}}
	r.health.cur = 20 // 20% <= 25%

	r.ctrl.Tick()
	if r.ctrl.State() != StateRetreating {
		t.Fatalf("expected retreating at 20%% health, got %s", r.ctrl.State())
	}
	if !r.movement.destSet {
		t.Fatal("retreat should set a fallback destination")
	}
	// Fallback direction: away from the hostile at +X, so -X of the unit.
	if r.movement.dest.X >= 0 {
		t.Fatalf("retreat destination should be away from the threat, got %+v", r.movement.dest)
	}
}

func TestController_Tick_RetreatDisabledByConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetreatEnabled = false
	r := newRig(ProfileAggressive, cfg)
	r.health.cur = 5

	r.ctrl.Tick()
	if r.ctrl.State() == StateRetreating {
		t.Fatal("retreat disabled units must hold")
	}
}

func TestController_Tick_LeashPullsBackAndClearsOnArrival(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChaseDistance = 10
	r := newRig(ProfileAggressive, cfg)
	enemy := &stubUnit{id: "e", pos: geom.Vec3{X: 5}, frac: 1}
	r.perception.hostiles = []*stubUnit{enemy}

	r.ctrl.Tick() // acquires, anchors leash at (0,0,0)

	// Chase drags the unit past the leash.
	r.unit.pos = geom.Vec3{X: 15}
	enemy.pos = geom.Vec3{X: 20}
	r.ctrl.Tick()
	if r.ctrl.State() != StateReturningToOrigin {
		t.Fatalf("expected returning, got %s", r.ctrl.State())
	}
	if _, ok := r.ctrl.Aggro().TargetID(); ok {
		t.Fatal("returning units should drop their target")
	}
	if r.movement.dest != (geom.Vec3{}) {
		t.Fatalf("return destination should be the origin, got %+v", r.movement.dest)
	}

	// Keep returning even once back inside the leash radius.
	r.unit.pos = geom.Vec3{X: 8}
	r.ctrl.Tick()
	if r.ctrl.State() != StateReturningToOrigin {
		t.Fatalf("should keep returning until arrival, got %s", r.ctrl.State())
	}

	// Arrival clears the anchor.
	r.unit.pos = geom.Vec3{X: 1}
	r.ctrl.Tick()
	if r.ctrl.State() != StateIdle {
		t.Fatalf("expected idle at home, got %s", r.ctrl.State())
	}
	if _, ok := r.ctrl.Aggro().Origin(); ok {
		t.Fatal("arrival should clear the aggro origin")
	}
}

func TestController_DeathIsTerminal(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.health.dead = true

	r.ctrl.Tick()
	if r.ctrl.State() != StateDead {
		t.Fatalf("expected dead, got %s", r.ctrl.State())
	}

	// Nothing brings a corpse back.
	r.ctrl.SetTarget("e")
	r.ctrl.SetForcedMove(true, geom.Vec3{X: 5})
	r.health.dead = false
	r.ctrl.Tick()
	if r.ctrl.State() != StateDead {
		t.Fatalf("dead is terminal, got %s", r.ctrl.State())
	}
	if _, ok := r.ctrl.Aggro().TargetID(); ok {
		t.Fatal("dead units must ignore setTarget")
	}
	if r.ctrl.Aggro().ForcedMove() {
		t.Fatal("dead units must ignore setForcedMove")
	}
}

func TestController_MissingCollaboratorsIsNoopTick(t *testing.T) {
	c := NewController(ProfileAggressive, DefaultConfig(), Deps{Self: &stubUnit{id: "u"}, Log: zerolog.Nop()})
	c.Tick() // must not panic
	if c.State() != StateIdle {
		t.Fatalf("degraded controller should stay idle, got %s", c.State())
	}
}

func TestController_StateChangeNotifications(t *testing.T) {
	r := newRig(ProfileAggressive, DefaultConfig())
	r.perception.hostiles = []*stubUnit{{id: "e", pos: geom.Vec3{X: 5}, frac: 1}}

	r.ctrl.Tick() // idle -> moving
	r.combat.inRange["e"] = true
	r.ctrl.Tick() // moving -> attacking
	r.ctrl.Tick() // attacking -> attacking: no event

	want := []UnitState{StateMoving, StateAttacking}
	if len(r.states.transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), r.states.transitions)
	}
	for i := range want {
		if r.states.transitions[i] != want[i] {
			t.Fatalf("transition %d: expected %s, got %s", i, want[i], r.states.transitions[i])
		}
	}
}
