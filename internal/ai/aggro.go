package ai

import "github.com/veldt/warband/internal/geom"

// AggroContext is the transient engagement bookkeeping of one unit: where
// it was standing when it first picked a fight (the leash anchor), which
// target it is on, and whether a player-issued move overrides all of it.
type AggroContext struct {
	origin    geom.Vec3
	hasOrigin bool

	targetID string

	forced       bool
	forcedDest   geom.Vec3
	hasForcedDst bool
}

// Origin returns the leash anchor, if one is recorded.
func (a AggroContext) Origin() (geom.Vec3, bool) {
	return a.origin, a.hasOrigin
}

// TargetID returns the current target handle, or false when disengaged.
func (a AggroContext) TargetID() (string, bool) {
	return a.targetID, a.targetID != ""
}

// ForcedMove reports whether a player/group relocation is in effect.
func (a AggroContext) ForcedMove() bool {
	return a.forced
}

// ForcedDestination returns the ordered destination, if one was given.
func (a AggroContext) ForcedDestination() (geom.Vec3, bool) {
	return a.forcedDest, a.hasForcedDst
}
