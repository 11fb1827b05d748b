package formation

import "github.com/veldt/warband/internal/geom"

// PathOracle answers reachability queries. The formation core never walks
// the navigation mesh itself; it only asks for the nearest reachable point.
type PathOracle interface {
	// SampleNearestValid returns the closest reachable point within
	// maxRadius of p, or false when none exists.
	SampleNearestValid(p geom.Vec3, maxRadius float64) (geom.Vec3, bool)
}

// Validate substitutes each position with the nearest reachable point
// within searchRadius. Positions with no reachable neighbour are kept
// as-is; the movement layer has to cope with those. The input slice is
// modified in place and returned.
func Validate(positions []geom.Vec3, oracle PathOracle, searchRadius float64) []geom.Vec3 {
	if oracle == nil {
		return positions
	}
	for i, p := range positions {
		if valid, ok := oracle.SampleNearestValid(p, searchRadius); ok {
			positions[i] = valid
		}
	}
	return positions
}
