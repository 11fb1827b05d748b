// Package harness is a headless tick world for scenario tests and the
// report command. It supplies real (if simple) movement, health and
// combat collaborators so whole engagements can run without an engine.
package harness

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/ai"
	"github.com/veldt/warband/internal/formation"
	"github.com/veldt/warband/internal/geom"
	"github.com/veldt/warband/internal/group"
)

// movement arrival threshold, in distance units.
const arriveEpsilon = 0.5

// Entity is one unit in the harness world. It implements the AI core's
// Unit, Movement, Health and Combat collaborator interfaces itself.
type Entity struct {
	id    string
	team  string
	pos   geom.Vec3
	world *World

	// health
	hp, maxHP float64

	// movement
	speed      float64
	speedScale float64
	dest       geom.Vec3
	follow     string
	mode       moveMode

	// combat
	target       string
	attackRange  float64
	attackDamage float64
	attackRate   float64
	attackCD     int

	Ctrl *ai.Controller
}

type moveMode int

const (
	moveNone moveMode = iota
	moveDest
	moveFollow
)

// --- ai.Unit ---

func (e *Entity) ID() string          { return e.id }
func (e *Entity) Position() geom.Vec3 { return e.pos }
func (e *Entity) IsDead() bool        { return e.hp <= 0 }

func (e *Entity) HealthFraction() float64 {
	if e.maxHP <= 0 {
		return 0
	}
	return e.hp / e.maxHP
}

func (e *Entity) Heal(amount float64, source string) {
	if e.IsDead() {
		return
	}
	e.hp += amount
	if e.hp > e.maxHP {
		e.hp = e.maxHP
	}
	e.world.log.Add(e.world.tick, e.id, e.team, "heal", "received",
		fmt.Sprintf("%.0f from %s", amount, source), amount)
}

// --- ai.Health ---

func (e *Entity) CurrentHealth() float64 { return e.hp }
func (e *Entity) MaxHealth() float64     { return e.maxHP }

// --- ai.Movement ---

func (e *Entity) SetDestination(p geom.Vec3) { e.dest, e.mode = p, moveDest }
func (e *Entity) FollowTarget(id string)     { e.follow, e.mode = id, moveFollow }
func (e *Entity) Stop()                      { e.mode = moveNone }
func (e *Entity) IsMoving() bool             { return e.mode != moveNone }
func (e *Entity) SetSpeedScale(s float64)    { e.speedScale = s }

func (e *Entity) HasReachedDestination() bool {
	return e.mode != moveDest || e.pos.Dist(e.dest) <= arriveEpsilon
}

// --- ai.Combat ---

func (e *Entity) SetTarget(id string)      { e.target = id }
func (e *Entity) ClearTarget()             { e.target = "" }
func (e *Entity) AttackRate() float64      { return e.attackRate }
func (e *Entity) IsInRange(id string) bool {
	other, ok := e.world.byID[id]
	if !ok {
		return false
	}
	return e.pos.Dist(other.pos) <= e.attackRange
}

// step integrates one tick of movement.
func (e *Entity) step() {
	if e.IsDead() {
		return
	}
	var target geom.Vec3
	switch e.mode {
	case moveDest:
		target = e.dest
	case moveFollow:
		other, ok := e.world.byID[e.follow]
		if !ok {
			e.mode = moveNone
			return
		}
		target = other.pos
	default:
		return
	}

	delta := target.Sub(e.pos)
	dist := delta.Len()
	if dist <= arriveEpsilon {
		if e.mode == moveDest {
			e.mode = moveNone
		}
		return
	}
	stepLen := e.speed * e.speedScale
	if stepLen > dist {
		stepLen = dist
	}
	e.pos = e.pos.Add(delta.Normalize().Scale(stepLen))
}

// swing applies one tick of the attack cycle against the combat target.
func (e *Entity) swing(tickRate int) {
	if e.IsDead() || e.target == "" {
		return
	}
	if e.attackCD > 0 {
		e.attackCD--
		return
	}
	other, ok := e.world.byID[e.target]
	if !ok || other.IsDead() || !e.IsInRange(e.target) {
		return
	}
	other.hp -= e.attackDamage
	e.world.log.Add(e.world.tick, e.id, e.team, "combat", "hit",
		fmt.Sprintf("%s for %.0f", other.id, e.attackDamage), e.attackDamage)
	interval := int(e.attackRate * float64(tickRate))
	if interval < 1 {
		interval = 1
	}
	e.attackCD = interval - 1
}

// World owns the entities and advances them in lockstep.
type World struct {
	cfg      ai.Config
	log      *SimLog
	entities []*Entity
	byID     map[string]*Entity
	tick     int
}

// NewWorld creates an empty world running under the given AI config.
func NewWorld(cfg ai.Config) *World {
	return &World{
		cfg:  cfg,
		log:  NewSimLog(),
		byID: map[string]*Entity{},
	}
}

// Log exposes the structured event log.
func (w *World) Log() *SimLog { return w.log }

// Tick returns the current tick number.
func (w *World) Tick() int { return w.tick }

// UnitSpec describes one entity to spawn.
type UnitSpec struct {
	ID      string
	Team    string
	Profile ai.Profile
	Pos     geom.Vec3
	HP      float64
	Speed   float64
	Range   float64
	Damage  float64
	Rate    float64 // seconds between attacks
}

// Spawn adds a unit to the world and wires its controller.
func (w *World) Spawn(spec UnitSpec) *Entity {
	e := &Entity{
		id:           spec.ID,
		team:         spec.Team,
		pos:          spec.Pos,
		world:        w,
		hp:           spec.HP,
		maxHP:        spec.HP,
		speed:        spec.Speed,
		speedScale:   1,
		attackRange:  spec.Range,
		attackDamage: spec.Damage,
		attackRate:   spec.Rate,
	}
	if e.speed <= 0 {
		e.speed = 0.5
	}
	if e.attackRange <= 0 {
		e.attackRange = 2
	}
	if e.attackRate <= 0 {
		e.attackRate = 1
	}

	e.Ctrl = ai.NewController(spec.Profile, w.cfg, ai.Deps{
		Self:       e,
		Movement:   e,
		Health:     e,
		Combat:     e,
		Perception: &perception{world: w, team: spec.Team},
		Notifier:   &stateLogger{world: w, entity: e},
		Log:        zerolog.Nop(),
	})
	w.entities = append(w.entities, e)
	w.byID[e.id] = e
	return e
}

// Get returns the entity with the given ID.
func (w *World) Get(id string) *Entity { return w.byID[id] }

// Controllers returns the controllers of the given units in order,
// suitable for a group selection.
func (w *World) Controllers(ids ...string) []*ai.Controller {
	out := make([]*ai.Controller, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.byID[id]; ok {
			out = append(out, e.Ctrl)
		}
	}
	return out
}

// Step advances the world one tick: every controller decides first, then
// movement integrates, then weapons swing.
func (w *World) Step() {
	w.tick++
	for _, e := range w.entities {
		e.Ctrl.Tick()
	}
	for _, e := range w.entities {
		e.step()
	}
	for _, e := range w.entities {
		if e.Ctrl.State() == ai.StateAttacking {
			e.swing(w.cfg.TickRate)
		}
	}
}

// Run advances the world n ticks.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

// Summary returns a short human-readable snapshot of the run.
func (w *World) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", w.tick)
	alive := map[string]int{}
	for _, e := range w.entities {
		if !e.IsDead() {
			alive[e.team]++
		}
		fmt.Fprintf(&sb, "%-4s %-5s %-10s hp=%.0f/%.0f pos=(%.1f, %.1f)\n",
			e.id, e.team, e.Ctrl.State(), e.hp, e.maxHP, e.pos.X, e.pos.Z)
	}
	for team, n := range alive {
		fmt.Fprintf(&sb, "alive %s: %d\n", team, n)
	}
	return sb.String()
}

// perception gives one team's units their view of the field.
type perception struct {
	world *World
	team  string
}

func (p *perception) Resolve(id string) (ai.Unit, bool) {
	e, ok := p.world.byID[id]
	if !ok {
		return nil, false
	}
	return e, true
}

func (p *perception) HostilesWithin(center geom.Vec3, radius float64) []ai.Unit {
	return p.within(center, radius, false)
}

func (p *perception) AlliesWithin(center geom.Vec3, radius float64) []ai.Unit {
	return p.within(center, radius, true)
}

func (p *perception) within(center geom.Vec3, radius float64, allied bool) []ai.Unit {
	var out []ai.Unit
	for _, e := range p.world.entities {
		if (e.team == p.team) != allied {
			continue
		}
		if e.pos.Dist(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// stateLogger records controller transitions into the sim log.
type stateLogger struct {
	world  *World
	entity *Entity
}

func (l *stateLogger) UnitStateChanged(id string, old, next ai.UnitState) {
	l.world.log.Add(l.world.tick, id, l.entity.team, "state", "transition",
		fmt.Sprintf("%s → %s", old, next), 0)
}

// FormationLogger records coordinator events into the sim log.
type FormationLogger struct {
	World *World
}

func (l FormationLogger) FormationChanged(kind formation.Kind) {
	l.World.log.Add(l.World.tick, "--", "--", "formation", "changed", kind.String(), 0)
}

var _ group.Notifier = FormationLogger{}
