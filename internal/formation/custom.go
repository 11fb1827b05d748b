package formation

import (
	"math"

	"github.com/veldt/warband/internal/geom"
)

// GridSlot is one grid-normalized slot of a user-authored formation.
// X is across the facing (right positive), Y along it (forward positive);
// both are expected in [-1, 1].
type GridSlot struct {
	X float64
	Y float64
}

// ComputeCustomPositions lays out count slots from a user-authored grid.
// The grid is scaled by spacing*sqrt(count) so the same template stays
// usable across group sizes, then rotated into world space using the
// facing direction's right/forward basis. When count exceeds the number
// of authored slots the slots are reused in order, so oversized groups
// stack onto the pattern instead of falling off it. An empty slot list
// falls back to Scatter.
func ComputeCustomPositions(center geom.Vec3, slots []GridSlot, count int, spacing float64, facing geom.Vec3) []geom.Vec3 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []geom.Vec3{center}
	}
	if len(slots) == 0 {
		return scatterPositions(center, count, spacing)
	}

	fwd := facing.GroundProject()
	right := geom.RightOf(fwd)
	scale := spacing * math.Sqrt(float64(count))

	out := make([]geom.Vec3, count)
	for i := range out {
		s := slots[i%len(slots)]
		out[i] = center.
			Add(right.Scale(s.X * scale)).
			Add(fwd.Scale(s.Y * scale))
	}
	return out
}
