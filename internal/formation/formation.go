package formation

import (
	"math"
	"math/rand"

	"github.com/veldt/warband/internal/geom"
)

// Kind identifies the shape a selected group arranges itself into.
type Kind int

const (
	KindNone    Kind = iota // no layout: every unit targets the same point
	KindLine                // side-by-side perpendicular to facing
	KindColumn              // single axis along facing, front half a depth ahead
	KindBox                 // near-square grid, row-major fill
	KindWedge               // apex forward, widening rows behind
	KindCircle              // even angular spread, radius from circumference
	KindScatter             // uniform random disk; also the unknown-kind fallback
	KindCustom              // user-authored template, laid out by the caller
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLine:
		return "line"
	case KindColumn:
		return "column"
	case KindBox:
		return "box"
	case KindWedge:
		return "wedge"
	case KindCircle:
		return "circle"
	case KindScatter:
		return "scatter"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// SpacingFor returns the recommended slot gap for units of the given
// collision radius. The 2.5 factor leaves a buffer so neighbours do not
// shove each other while settling into slots.
func SpacingFor(unitRadius float64) float64 {
	return unitRadius * 2.5
}

// ComputePositions lays out count slots of the given kind around center.
// Facing orients Line/Column/Wedge; spacing is the gap between adjacent
// slots. count <= 0 yields an empty list and count == 1 yields [center]
// for every kind. Unknown kinds (including KindCustom, whose slots live
// with the caller) fall back to Scatter.
func ComputePositions(center geom.Vec3, count int, kind Kind, spacing float64, facing geom.Vec3) []geom.Vec3 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []geom.Vec3{center}
	}

	fwd := facing.GroundProject()
	right := geom.RightOf(fwd)

	switch kind {
	case KindNone:
		out := make([]geom.Vec3, count)
		for i := range out {
			out[i] = center
		}
		return out
	case KindLine:
		return linePositions(center, count, spacing, right)
	case KindColumn:
		return columnPositions(center, count, spacing, fwd)
	case KindBox:
		return boxPositions(center, count, spacing, fwd, right)
	case KindWedge:
		return wedgePositions(center, count, spacing, fwd, right)
	case KindCircle:
		return circlePositions(center, count, spacing, fwd, right)
	default:
		return scatterPositions(center, count, spacing)
	}
}

// linePositions spreads slots along the axis perpendicular to facing,
// symmetric about center: offsets (i - (n-1)/2) * spacing.
func linePositions(center geom.Vec3, count int, spacing float64, right geom.Vec3) []geom.Vec3 {
	out := make([]geom.Vec3, count)
	half := float64(count-1) / 2
	for i := range out {
		out[i] = center.Add(right.Scale((float64(i) - half) * spacing))
	}
	return out
}

// columnPositions spreads slots along facing, frontmost a half depth ahead
// of center so the column straddles it.
func columnPositions(center geom.Vec3, count int, spacing float64, fwd geom.Vec3) []geom.Vec3 {
	out := make([]geom.Vec3, count)
	halfDepth := float64(count-1) / 2 * spacing
	for i := range out {
		out[i] = center.Add(fwd.Scale(halfDepth - float64(i)*spacing))
	}
	return out
}

// boxPositions fills a near-square grid row-major from the front-left
// corner. The last row may be partially filled.
func boxPositions(center geom.Vec3, count int, spacing float64, fwd, right geom.Vec3) []geom.Vec3 {
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := int(math.Ceil(float64(count) / float64(cols)))

	out := make([]geom.Vec3, count)
	corner := center.
		Sub(right.Scale(float64(cols-1) / 2 * spacing)).
		Add(fwd.Scale(float64(rows-1) / 2 * spacing))
	for i := range out {
		row := i / cols
		col := i % cols
		out[i] = corner.
			Add(right.Scale(float64(col) * spacing)).
			Sub(fwd.Scale(float64(row) * spacing))
	}
	return out
}

// wedgePositions places slot 0 at the apex and grows rows behind it.
// Row r sits r*spacing behind the apex and holds up to 2*r slots, centered,
// half a spacing apart so the arms widen gradually.
func wedgePositions(center geom.Vec3, count int, spacing float64, fwd, right geom.Vec3) []geom.Vec3 {
	out := make([]geom.Vec3, 0, count)
	out = append(out, center)

	for row := 1; len(out) < count; row++ {
		capacity := 2 * row
		remaining := count - len(out)
		if remaining < capacity {
			capacity = remaining
		}
		depth := fwd.Scale(-float64(row) * spacing)
		half := float64(capacity-1) / 2
		for s := 0; s < capacity; s++ {
			side := right.Scale((float64(s) - half) * spacing / 2)
			out = append(out, center.Add(depth).Add(side))
		}
	}
	return out
}

// circlePositions spaces slots evenly on a ring whose circumference is
// roughly count*spacing, so neighbours stay a spacing apart.
func circlePositions(center geom.Vec3, count int, spacing float64, fwd, right geom.Vec3) []geom.Vec3 {
	radius := float64(count) * spacing / (2 * math.Pi)
	step := 2 * math.Pi / float64(count)

	out := make([]geom.Vec3, count)
	for i := range out {
		a := float64(i) * step
		out[i] = center.
			Add(right.Scale(radius * math.Cos(a))).
			Add(fwd.Scale(radius * math.Sin(a)))
	}
	return out
}

// scatterPositions samples each slot uniformly from a disk of radius
// spacing*sqrt(count). Non-deterministic; only used as a fallback.
func scatterPositions(center geom.Vec3, count int, spacing float64) []geom.Vec3 {
	radius := spacing * math.Sqrt(float64(count))
	out := make([]geom.Vec3, count)
	for i := range out {
		r := radius * math.Sqrt(rand.Float64())
		a := rand.Float64() * 2 * math.Pi
		out[i] = center.Add(geom.Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)})
	}
	return out
}
