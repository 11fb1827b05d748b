// Command warband-sim runs headless skirmish and formation-drill
// scenarios and prints a report from the simulation event log. It is the
// tuning loop for the unit AI and the group positioning code.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/veldt/warband/internal/ai"
	"github.com/veldt/warband/internal/catalog"
	"github.com/veldt/warband/internal/catalog/sqlite"
	"github.com/veldt/warband/internal/config"
	"github.com/veldt/warband/internal/formation"
	"github.com/veldt/warband/internal/geom"
	"github.com/veldt/warband/internal/group"
	"github.com/veldt/warband/internal/harness"
	"github.com/veldt/warband/internal/logging"
)

func main() {
	var ticks int
	var scenario string
	var configDir string
	var formationName string
	var verbose bool

	flag.IntVar(&ticks, "ticks", 600, "ticks per run")
	flag.StringVar(&scenario, "scenario", "skirmish", "scenario name (skirmish, drill)")
	flag.StringVar(&configDir, "config", ".", "directory holding warband.cfg.json")
	flag.StringVar(&formationName, "formation", "line", "formation for the red squad, or a stored template name")
	flag.BoolVar(&verbose, "verbose", false, "print the full event log")
	flag.Parse()

	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	if err := config.Load(configDir); err != nil {
		fmt.Printf("error: loading config: %v\n", err)
		return
	}
	log := logging.New(os.Stderr, config.LogLevel())

	store, closeStore, err := openCatalog(log)
	if err != nil {
		fmt.Printf("error: opening formation catalog: %v\n", err)
		return
	}
	defer closeStore()

	switch scenario {
	case "skirmish":
		runSkirmish(ticks, formationName, store, log, verbose)
	case "drill":
		runDrill(store, log)
	default:
		fmt.Printf("error: unsupported scenario %q (supported: skirmish, drill)\n", scenario)
	}
}

// openCatalog wires the template store against the configured backend.
func openCatalog(log zerolog.Logger) (*catalog.Store, func(), error) {
	var backend catalog.Backend
	switch name := config.CatalogBackend(); name {
	case "sqlite":
		b, err := sqlite.New(config.CatalogDBPath())
		if err != nil {
			return nil, nil, err
		}
		backend = b
	case "file":
		backend = catalog.NewFileBackend(catalog.OSTransport{}, config.CatalogPath())
	default:
		log.Warn().Str("backend", name).Msg("unknown catalog backend, using file")
		backend = catalog.NewFileBackend(catalog.OSTransport{}, config.CatalogPath())
	}

	store := catalog.NewStore(backend, catalog.NopNotifier{}, log)
	store.LoadAll()
	closeStore := func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("closing catalog backend")
		}
	}
	return store, closeStore, nil
}

func runSkirmish(ticks int, formationName string, store *catalog.Store, log zerolog.Logger, verbose bool) {
	fmt.Printf("=== Skirmish Report ===\n")
	fmt.Printf("ticks=%d formation=%s\n\n", ticks, formationName)

	w := harness.NewWorld(config.AI())

	redIDs := []string{"r0", "r1", "r2", "r3", "r4"}
	squads := []harness.UnitSpec{
		{ID: "r0", Team: "red", Profile: ai.ProfileAggressive, Pos: geom.Vec3{X: -20}, HP: 120, Speed: 0.5, Range: 2, Damage: 10, Rate: 1},
		{ID: "r1", Team: "red", Profile: ai.ProfileAggressive, Pos: geom.Vec3{X: -20, Z: 2}, HP: 120, Speed: 0.5, Range: 2, Damage: 10, Rate: 1},
		{ID: "r2", Team: "red", Profile: ai.ProfileDefensive, Pos: geom.Vec3{X: -20, Z: -2}, HP: 120, Speed: 0.5, Range: 2, Damage: 10, Rate: 1},
		{ID: "r3", Team: "red", Profile: ai.ProfileRanged, Pos: geom.Vec3{X: -22}, HP: 80, Speed: 0.6, Range: 14, Damage: 8, Rate: 1.5},
		{ID: "r4", Team: "red", Profile: ai.ProfileSupport, Pos: geom.Vec3{X: -24}, HP: 80, Speed: 0.6, Range: 8, Rate: 1},
		{ID: "b0", Team: "blue", Profile: ai.ProfileAggressive, Pos: geom.Vec3{X: 20}, HP: 120, Speed: 0.5, Range: 2, Damage: 12, Rate: 1},
		{ID: "b1", Team: "blue", Profile: ai.ProfileAggressive, Pos: geom.Vec3{X: 20, Z: 3}, HP: 120, Speed: 0.5, Range: 2, Damage: 12, Rate: 1},
		{ID: "b2", Team: "blue", Profile: ai.ProfileDefensive, Pos: geom.Vec3{X: 20, Z: -3}, HP: 120, Speed: 0.5, Range: 2, Damage: 12, Rate: 1},
	}
	for _, spec := range squads {
		w.Spawn(spec)
	}

	coord := group.NewCoordinator(config.Group(), store, nil, harness.FormationLogger{World: w}, log)
	coord.SetSelection(w.Controllers(redIDs...))
	coord.SetFacing(geom.Vec3{X: 1})
	applyFormation(coord, store, formationName)

	w.Run(ticks)

	if verbose {
		fmt.Println(w.Log().Format())
	} else {
		printHighlights(w)
	}
	fmt.Println(w.Summary())
}

// applyFormation resolves the flag value against the preset kinds first
// and the stored templates second.
func applyFormation(coord *group.Coordinator, store *catalog.Store, name string) {
	if kind, ok := parseKind(name); ok {
		coord.SetKind(kind)
		return
	}
	if tpl, ok := store.GetByName(name); ok {
		coord.SetCustom(tpl.ID)
		return
	}
	fmt.Printf("warning: unknown formation %q, using scatter\n", name)
	coord.SetKind(formation.KindScatter)
}

func parseKind(name string) (formation.Kind, bool) {
	switch strings.ToLower(name) {
	case "none":
		return formation.KindNone, true
	case "line":
		return formation.KindLine, true
	case "column":
		return formation.KindColumn, true
	case "box":
		return formation.KindBox, true
	case "wedge":
		return formation.KindWedge, true
	case "circle":
		return formation.KindCircle, true
	case "scatter":
		return formation.KindScatter, true
	}
	return formation.KindNone, false
}

// printHighlights condenses the event log to the moments worth reading.
func printHighlights(w *harness.World) {
	logbook := w.Log()
	fmt.Printf("events: %d state transitions, %d hits, %d heals\n",
		logbook.CountCategory("state", "transition"),
		logbook.CountCategory("combat", "hit"),
		logbook.CountCategory("heal", "received"))

	if e, ok := logbook.LastOf("formation", "changed"); ok {
		fmt.Printf("formation: %s\n", e.Value)
	}
	if e, ok := logbook.LastOf("combat", "hit"); ok {
		fmt.Printf("last hit:  %s\n", e.String())
	}
	for _, e := range logbook.Entries() {
		if e.Category == "state" && strings.Contains(e.Value, "dead") {
			fmt.Printf("death:     %s\n", e.String())
		}
	}
	fmt.Println()
}

// runDrill walks one squad through every preset and one stored template,
// printing the slot layout each time. Useful when eyeballing spacing
// changes.
func runDrill(store *catalog.Store, log zerolog.Logger) {
	fmt.Printf("=== Formation Drill ===\n\n")

	w := harness.NewWorld(config.AI())
	ids := make([]string, 0, 9)
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("u%d", i)
		w.Spawn(harness.UnitSpec{ID: id, Team: "green", Pos: geom.Vec3{Z: float64(-i)}, HP: 100, Speed: 1})
		ids = append(ids, id)
	}

	coord := group.NewCoordinator(config.Group(), store, nil, harness.FormationLogger{World: w}, log)
	coord.SetSelection(w.Controllers(ids...))
	coord.SetFacing(geom.Vec3{Z: 1})

	kinds := []formation.Kind{
		formation.KindLine, formation.KindColumn, formation.KindBox,
		formation.KindWedge, formation.KindCircle, formation.KindScatter,
	}
	for _, kind := range kinds {
		coord.SetKind(kind)
		printLayout(w, ids, kind.String())
		w.Run(240)
	}

	tpl := drillTemplate(store)
	coord.SetCustom(tpl.ID)
	printLayout(w, ids, tpl.Name)
}

// drillTemplate returns the bundled arrowhead template, creating it in the
// catalog on first use.
func drillTemplate(store *catalog.Store) catalog.Template {
	if tpl, ok := store.GetByName("Arrowhead"); ok {
		return tpl
	}
	tpl := store.Create("Arrowhead")
	tpl.Slots = []catalog.Slot{
		{X: 0, Y: 1},
		{X: -0.4, Y: 0.5}, {X: 0.4, Y: 0.5},
		{X: -0.8, Y: 0}, {X: 0.8, Y: 0},
		{X: -0.6, Y: -0.5}, {X: 0.6, Y: -0.5},
		{X: -0.2, Y: -1}, {X: 0.2, Y: -1},
	}
	store.Update(tpl)
	return tpl
}

func printLayout(w *harness.World, ids []string, label string) {
	fmt.Printf("--- %s ---\n", label)
	for _, id := range ids {
		e := w.Get(id)
		dest, ok := e.Ctrl.Aggro().ForcedDestination()
		if !ok {
			dest = e.Position()
		}
		fmt.Printf("%-3s -> (%6.2f, %6.2f)\n", id, dest.X, dest.Z)
	}
	fmt.Println()
}
