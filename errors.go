package frite

import "errors"

// InvalidID is the reserved id that never resolves. It marks absent links
// (no previous trajectory, no corresponding group, ...).
const InvalidID = -1

var (
	ErrNotFound       = errors.New("frite: not found")
	ErrTooFewPoints   = errors.New("frite: a polyline needs at least two points")
	ErrSingular       = errors.New("frite: singular deformation system")
	ErrOrphanedPoints = errors.New("frite: stroke points would lose their quad")
	ErrFrozenTopology = errors.New("frite: lattice topology is frozen")
	ErrCycle          = errors.New("frite: cycle in trajectory chain")
	ErrInvalidConfig  = errors.New("frite: invalid configuration")
)
