package harness

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/ai"
	"github.com/veldt/warband/internal/formation"
	"github.com/veldt/warband/internal/geom"
	"github.com/veldt/warband/internal/group"
)

func lineWorld(t *testing.T, count int) (*World, []string) {
	t.Helper()
	w := NewWorld(ai.DefaultConfig())
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := string(rune('a' + i))
		w.Spawn(UnitSpec{
			ID:    id,
			Team:  "green",
			Pos:   geom.Vec3{X: 0, Z: float64(-i)},
			HP:    100,
			Speed: 0.5,
		})
		ids = append(ids, id)
	}
	return w, ids
}

func TestLineFormationEndToEnd(t *testing.T) {
	w, ids := lineWorld(t, 5)

	coord := group.NewCoordinator(group.DefaultPolicy(), nil, nil,
		FormationLogger{World: w}, zerolog.Nop())
	coord.SetSelection(w.Controllers(ids...))
	coord.SetFacing(geom.Vec3{Z: 1})
	coord.SetKind(formation.KindLine)

	// Destinations are issued synchronously: five slots perpendicular to
	// facing, spacing 2, around the group centroid.
	wantX := map[float64]bool{-4: false, -2: false, 0: false, 2: false, 4: false}
	centerZ := -2.0
	for _, id := range ids {
		e := w.Get(id)
		if e.mode != moveDest {
			t.Fatalf("unit %s not ordered to a destination", id)
		}
		if math.Abs(e.dest.Z-centerZ) > 1e-9 {
			t.Fatalf("unit %s slot z = %v, want %v", id, e.dest.Z, centerZ)
		}
		seen, ok := wantX[e.dest.X]
		if !ok {
			t.Fatalf("unit %s slot x = %v, not a line offset", id, e.dest.X)
		}
		if seen {
			t.Fatalf("line offset x = %v assigned twice", e.dest.X)
		}
		wantX[e.dest.X] = true
	}

	w.Run(60)

	for _, id := range ids {
		e := w.Get(id)
		if got := e.Ctrl.State(); got != ai.StateIdle {
			t.Fatalf("unit %s state after run = %v, want idle", id, got)
		}
		if d := e.pos.Dist(e.dest); d > 3.0 {
			t.Fatalf("unit %s ended %.2f from its slot", id, d)
		}
	}

	if !w.Log().HasEntry("formation", "changed", "line") {
		t.Fatalf("formation change not logged:\n%s", w.Log().Format())
	}
}

func TestSkirmishRunsToADecision(t *testing.T) {
	w := NewWorld(ai.DefaultConfig())
	w.Spawn(UnitSpec{ID: "r0", Team: "red", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: -5}, HP: 100, Speed: 0.5, Range: 2, Damage: 10, Rate: 0.1})
	w.Spawn(UnitSpec{ID: "r1", Team: "red", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: -5, Z: 2}, HP: 100, Speed: 0.5, Range: 2, Damage: 10, Rate: 0.1})
	w.Spawn(UnitSpec{ID: "b0", Team: "blue", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: 5}, HP: 40, Speed: 0.5, Range: 2, Damage: 5, Rate: 0.2})

	w.Run(600)

	if !w.Get("b0").IsDead() {
		t.Fatalf("outnumbered unit survived:\n%s", w.Summary())
	}
	if w.Get("b0").Ctrl.State() != ai.StateDead {
		t.Fatalf("dead unit's controller state = %v", w.Get("b0").Ctrl.State())
	}
	if w.Get("r0").IsDead() && w.Get("r1").IsDead() {
		t.Fatalf("both attackers died:\n%s", w.Summary())
	}

	if n := w.Log().CountCategory("combat", "hit"); n == 0 {
		t.Fatal("no combat hits logged")
	}
	if !w.Log().HasEntry("state", "transition", "moving") {
		t.Fatal("no movement transitions logged")
	}
	if !w.Log().HasEntry("state", "transition", "dead") {
		t.Fatal("death transition not logged")
	}
}

func TestSupportHealsWoundedAlly(t *testing.T) {
	w := NewWorld(ai.DefaultConfig())
	medic := w.Spawn(UnitSpec{ID: "m0", Team: "red", Profile: ai.ProfileSupport,
		Pos: geom.Vec3{}, HP: 100, Speed: 0.5, Range: 4, Rate: 0.1})
	wounded := w.Spawn(UnitSpec{ID: "r0", Team: "red", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: 2}, HP: 100, Speed: 0.5})
	wounded.hp = 30

	w.Run(120)

	if wounded.hp <= 30 {
		t.Fatalf("ally health did not rise, still %.0f", wounded.hp)
	}
	if !w.Log().HasEntry("state", "transition", "healing") {
		t.Fatalf("medic never entered healing:\n%s", w.Log().Format())
	}
	if w.Log().CountCategory("heal", "received") == 0 {
		t.Fatalf("no heals logged:\n%s", w.Log().Format())
	}
	// Healing stops once the ally is back over the injury threshold.
	if medic.Ctrl.State() != ai.StateIdle {
		t.Fatalf("medic state after topping up = %v, want idle", medic.Ctrl.State())
	}
}

func TestForcedMoveOverridesEngagement(t *testing.T) {
	w := NewWorld(ai.DefaultConfig())
	r := w.Spawn(UnitSpec{ID: "r0", Team: "red", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: -5}, HP: 100, Speed: 0.5, Range: 2, Damage: 10, Rate: 0.1})
	w.Spawn(UnitSpec{ID: "b0", Team: "blue", Profile: ai.ProfileAggressive,
		Pos: geom.Vec3{X: 5}, HP: 100, Speed: 0, Range: 2, Damage: 0, Rate: 1})

	w.Run(5)
	if r.Ctrl.State() != ai.StateMoving {
		t.Fatalf("attacker not closing, state = %v", r.Ctrl.State())
	}

	rally := geom.Vec3{X: -20}
	r.Ctrl.SetForcedMove(true, rally)
	r.SetDestination(rally)

	// The first idle tick is the arrival tick: the forced move outranks any
	// engagement until the unit gets there.
	arrived := false
	for i := 0; i < 200; i++ {
		w.Step()
		if r.Ctrl.State() == ai.StateIdle {
			arrived = true
			break
		}
	}
	if !arrived {
		t.Fatalf("rally order never completed:\n%s", w.Summary())
	}
	if d := r.pos.Dist(rally); d > 3.0 {
		t.Fatalf("attacker ended %.2f from the rally point", d)
	}
}
