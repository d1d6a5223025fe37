// Package frite holds what the packages of the group deformation engine
// share: the engine [Config], the sentinel errors, and the package logger.
//
// # Packages
//
// The engine animates vector drawings between keyframes. Strokes are bound
// to groups; every group carries a lattice of square cells that encloses
// its strokes. Inbetweens are produced by deforming that lattice from its
// reference shape towards a target shape with an as-rigid-as-possible
// solve, then re-evaluating the strokes inside it.
//
//   - geom: points, vectors, affine and rigid maps, lines and cubic Béziers
//   - monotone: invertible piecewise-linear functions, used for spacing and
//     arclength reparametrisation
//   - stroke: stroke points, polylines, resampling and point intervals
//   - lattice: the quad lattice, stroke binding and the ARAP interpolation
//   - trajectory: cubic motion paths that constrain a group
//   - anim: layers, keyframes, groups and inbetweening
//   - tools: pointer-driven editing on top of anim
//
// # Identifiers
//
// Strokes, groups, trajectories and lattice corners are addressed by
// integer ids. [InvalidID] stands for "none".
//
// # Logging
//
// Nothing is logged unless a logger is installed with [SetLogger].
package frite
