package lattice

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"gonum.org/v1/gonum/mat"
)

// Constraint pulls a point of the lattice towards a position, the way a
// trajectory drags its group along.
type Constraint struct {
	// Anchor is the constrained point, bound in the reference
	// configuration.
	Anchor UVInfo
	// Weight scales the penalty of missing Target.
	Weight float64
	// Target is where Anchor should be, in canvas space.
	Target geom.Point
}

// SetConstraints replaces the solver constraints. Changing only the
// targets keeps the factorization; passing the current constraints again
// keeps the last solve.
func (l *Lattice) SetConstraints(cs []Constraint) {
	sameRows, sameTargets := len(cs) == len(l.constraints), true
	for i := 0; sameRows && i < len(cs); i++ {
		sameRows = cs[i].Anchor == l.constraints[i].Anchor && cs[i].Weight == l.constraints[i].Weight
		sameTargets = sameTargets && cs[i].Target == l.constraints[i].Target
	}
	if sameRows && sameTargets {
		return
	}
	l.constraints = slices.Clone(cs)
	l.solved = false
	if !sameRows {
		l.SetArapPrecomputeDirty()
	}
}

// Constraints returns the solver constraints.
func (l *Lattice) Constraints() []Constraint { return l.constraints }

type solveKey struct {
	alpha, spacing float64
	rigid          geom.Affine
}

type component struct {
	corners []int
	// anchor is the corner held in place while solving a component nothing
	// else pins down, or -1.
	anchor int
}

// arapSystem is the factorized global step of the solver.
type arapSystem struct {
	quads []*Quad
	// vars maps corner indices to unknowns; prescribed and unused corners
	// map to -1.
	vars   []int
	n      int
	comps  []component
	compOf []int
	// constraints whose anchor quad exists
	constraints []Constraint
	chol        mat.Cholesky
}

// Precompute builds and factorizes the global step of the ARAP solver for
// the current topology, pins and constraints, and clears the precompute
// dirty flag. [Lattice.InterpolateARAP] calls it when needed.
//
// The system is the normal equations of Σ_q Σ_k |(p_k − p̄_q) − R_q s_k|²
// over the unknown corners, plus a penalty row per constraint. A connected
// part of the lattice with neither pinned corners nor constraints only
// determines its shape up to a translation; one of its corners is held
// fixed during the solve and the part is placed afterwards.
func (l *Lattice) Precompute() error {
	nc := len(l.corners)
	sys := &arapSystem{
		vars:   make([]int, nc),
		compOf: make([]int, nc),
	}

	parent := make([]int, nc)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, k := range l.Keys() {
		q := l.quads[k]
		sys.quads = append(sys.quads, q)
		for _, c := range q.Corners[1:] {
			parent[find(c)] = find(q.Corners[0])
		}
	}

	held := make(map[int]bool)
	for i := range l.corners {
		if l.corners[i].refs > 0 && !l.corners[i].Deformable {
			held[find(i)] = true
		}
	}
	for _, c := range l.constraints {
		q, ok := l.quads[c.Anchor.Quad]
		if !ok {
			frite.Logger().Warn("lattice: constraint anchored in a missing quad", "quad", c.Anchor.Quad)
			continue
		}
		held[find(q.Corners[0])] = true
		sys.constraints = append(sys.constraints, c)
	}

	compIdx := make(map[int]int)
	for i := range l.corners {
		sys.vars[i] = -1
		sys.compOf[i] = -1
		if l.corners[i].refs == 0 {
			continue
		}
		r := find(i)
		ci, ok := compIdx[r]
		if !ok {
			ci = len(sys.comps)
			compIdx[r] = ci
			sys.comps = append(sys.comps, component{anchor: -1})
		}
		sys.compOf[i] = ci
		comp := &sys.comps[ci]
		comp.corners = append(comp.corners, i)
		if !held[r] && comp.anchor < 0 {
			comp.anchor = i
			continue
		}
		if l.corners[i].Deformable {
			sys.vars[i] = sys.n
			sys.n++
		}
	}

	if n := sys.n; n > 0 {
		a := make([]float64, n*n)
		for _, q := range sys.quads {
			for i, ci := range q.Corners {
				vi := sys.vars[ci]
				if vi < 0 {
					continue
				}
				for j, cj := range q.Corners {
					if vj := sys.vars[cj]; vj >= 0 {
						a[vi*n+vj] += laplacian(i, j)
					}
				}
			}
		}
		for _, c := range sys.constraints {
			q := l.quads[c.Anchor.Quad]
			w := geom.BilinearWeights(c.Anchor.UV.X, c.Anchor.UV.Y)
			for i, ci := range q.Corners {
				vi := sys.vars[ci]
				if vi < 0 {
					continue
				}
				for j, cj := range q.Corners {
					if vj := sys.vars[cj]; vj >= 0 {
						a[vi*n+vj] += c.Weight * w[i] * w[j]
					}
				}
			}
		}
		if !sys.chol.Factorize(mat.NewSymDense(n, a)) {
			return fmt.Errorf("lattice: factorizing %d unknowns: %w", n, frite.ErrSingular)
		}
	}

	l.arap = sys
	l.arapDirty = false
	l.solved = false
	frite.Logger().Debug("lattice: arap precomputed",
		"quads", len(sys.quads), "unknowns", sys.n, "components", len(sys.comps), "constraints", len(sys.constraints))
	return nil
}

// laplacian is the coefficient linking corners i and j of a quad in the
// normal equations: the centering matrix I − 11ᵀ/4.
func laplacian(i, j int) float64 {
	if i == j {
		return 0.75
	}
	return -0.25
}

// CurrentPrecomputedTime returns the interpolation factor of the last
// solve, and whether its result is still valid.
func (l *Lattice) CurrentPrecomputedTime() (alpha float64, ok bool) {
	return l.solvedAt.alpha, l.solved
}

// InterpolateARAP computes the interpolated configuration at spacingAlpha
// between the reference and the target configuration, and stores it, mapped
// through rigid, in [InterpPos]. alpha is the frame's linear interpolation
// factor; together with spacingAlpha and rigid it identifies the solve, and
// repeating the last solve is free.
//
// The lattice's own rigid motion is taken out of the target first. What
// remains is interpolated as rigidly as possible: every quad starts from a
// rest shape blended between its reference shape and its target shape with
// the quad's rotation removed, turned by its share of that rotation. At
// spacingAlpha 0 and 1 the reference and the residual target are
// reproduced. Pinned corners move straight from reference to residual
// target.
//
// Solving alternates a local step, fitting every quad's rotation to the
// current estimate, and a global step, solving for the corners, for at
// most Iterations rounds or until no corner moves by more than Tolerance.
func (l *Lattice) InterpolateARAP(alpha, spacingAlpha float64, rigid geom.Affine) error {
	key := solveKey{alpha: alpha, spacing: spacingAlpha, rigid: rigid}
	if l.arapDirty || l.arap == nil {
		if err := l.Precompute(); err != nil {
			return err
		}
	}
	if l.solved && l.solvedAt == key {
		return nil
	}
	sys := l.arap
	a := spacingAlpha
	n := sys.n

	undo := l.Rigid.Affine().Invert()
	goal := make([]geom.Point, len(l.corners))
	x := make([]geom.Point, len(l.corners))
	for i := range l.corners {
		c := &l.corners[i]
		if c.refs == 0 {
			continue
		}
		goal[i] = c.coords[TargetPos].Transform(undo)
		x[i] = c.coords[RefPos].Lerp(goal[i], a)
	}

	// rest shapes and initial rotations
	nq := len(sys.quads)
	targets := make([][4]geom.Vec2, nq)
	thetas := make([]float64, nq)
	sin := make([]float64, len(sys.comps))
	cos := make([]float64, len(sys.comps))
	for qi, q := range sys.quads {
		var pts [4]geom.Point
		for k, c := range q.Corners {
			pts[k] = goal[c]
		}
		cen := geom.Centroid(pts[:])
		for k := range pts {
			targets[qi][k] = pts[k].Sub(cen)
		}
		thetas[qi] = geom.FitRotation(q.rest[:], targets[qi][:])
		ci := sys.compOf[q.Corners[0]]
		sin[ci] += math.Sin(thetas[qi])
		cos[ci] += math.Cos(thetas[qi])
	}
	shapes := make([][4]geom.Vec2, nq)
	rots := make([]geom.Mat2, nq)
	for qi, q := range sys.quads {
		ci := sys.compOf[q.Corners[0]]
		mean := math.Atan2(sin[ci], cos[ci])
		th := mean + geom.WrapAngle(thetas[qi]-mean)
		back := geom.Rotation(-th)
		for k := range 4 {
			shapes[qi][k] = q.rest[k].Mul(1 - a).Add(back.MulVec(targets[qi][k]).Mul(a))
		}
		rots[qi] = geom.Rotation(a * th)
		thetas[qi] = a * th
	}

	// right-hand side terms of the prescribed corners
	baseX := make([]float64, n)
	baseY := make([]float64, n)
	for _, q := range sys.quads {
		for i, ci := range q.Corners {
			vi := sys.vars[ci]
			if vi < 0 {
				continue
			}
			for j, cj := range q.Corners {
				if sys.vars[cj] < 0 {
					baseX[vi] -= laplacian(i, j) * x[cj].X
					baseY[vi] -= laplacian(i, j) * x[cj].Y
				}
			}
		}
	}
	invRigid := rigid.Invert()
	for _, c := range sys.constraints {
		q := l.quads[c.Anchor.Quad]
		w := geom.BilinearWeights(c.Anchor.UV.X, c.Anchor.UV.Y)
		t := c.Target.Transform(invRigid)
		fixed := geom.Vec2{}
		for j, cj := range q.Corners {
			if sys.vars[cj] < 0 {
				fixed = fixed.Add(geom.Vec2(x[cj]).Mul(w[j]))
			}
		}
		rhs := geom.Vec2(t).Sub(fixed).Mul(c.Weight)
		for i, ci := range q.Corners {
			if vi := sys.vars[ci]; vi >= 0 {
				baseX[vi] += w[i] * rhs.X
				baseY[vi] += w[i] * rhs.Y
			}
		}
	}

	var bx, by, solX, solY *mat.VecDense
	if n > 0 {
		bx = mat.NewVecDense(n, nil)
		by = mat.NewVecDense(n, nil)
		solX = mat.NewVecDense(n, nil)
		solY = mat.NewVecDense(n, nil)
	}
	iters, delta := 0, 0.0
	for iters < max(l.Iterations, 1) {
		iters++
		delta = 0
		if n > 0 {
			for i := range n {
				bx.SetVec(i, baseX[i])
				by.SetVec(i, baseY[i])
			}
			for qi, q := range sys.quads {
				for k, c := range q.Corners {
					if vi := sys.vars[c]; vi >= 0 {
						r := rots[qi].MulVec(shapes[qi][k])
						bx.SetVec(vi, bx.AtVec(vi)+r.X)
						by.SetVec(vi, by.AtVec(vi)+r.Y)
					}
				}
			}
			if err := sys.solve(solX, bx); err != nil {
				return err
			}
			if err := sys.solve(solY, by); err != nil {
				return err
			}
			for i, vi := range sys.vars {
				if vi < 0 {
					continue
				}
				p := geom.Pt(solX.AtVec(vi), solY.AtVec(vi))
				delta = max(delta, p.Distance(x[i]))
				x[i] = p
			}
		}

		for qi, q := range sys.quads {
			var pts [4]geom.Point
			for k, c := range q.Corners {
				pts[k] = x[c]
			}
			cen := geom.Centroid(pts[:])
			var cur [4]geom.Vec2
			for k := range pts {
				cur[k] = pts[k].Sub(cen)
			}
			thetas[qi] = geom.FitRotation(shapes[qi][:], cur[:])
			rots[qi] = geom.Rotation(thetas[qi])
		}
		if delta <= l.Tolerance {
			break
		}
	}

	// place the parts the solve left free
	for _, comp := range sys.comps {
		if comp.anchor < 0 {
			continue
		}
		refs := make([]geom.Point, len(comp.corners))
		goals := make([]geom.Point, len(comp.corners))
		cur := make([]geom.Point, len(comp.corners))
		for i, c := range comp.corners {
			refs[i] = l.corners[c].coords[RefPos]
			goals[i] = goal[c]
			cur[i] = x[c]
		}
		want := geom.Centroid(refs).Lerp(geom.Centroid(goals), a)
		shift := want.Sub(geom.Centroid(cur))
		for _, c := range comp.corners {
			x[c] = x[c].Translate(shift)
		}
	}

	for i := range l.corners {
		if l.corners[i].refs > 0 {
			l.corners[i].coords[InterpPos] = x[i].Transform(rigid)
			l.corners[i].Rotation = 0
		}
	}
	for qi, q := range sys.quads {
		q.Rotation = thetas[qi]
		for _, c := range q.Corners {
			l.corners[c].Rotation += thetas[qi] / float64(l.corners[c].refs)
		}
	}

	l.solved = true
	l.solvedAt = key
	frite.Logger().Debug("lattice: arap solved",
		"alpha", alpha, "spacing", spacingAlpha, "iterations", iters, "delta", delta, "unknowns", n)
	return nil
}

func (sys *arapSystem) solve(dst, b *mat.VecDense) error {
	err := sys.chol.SolveVecTo(dst, b)
	var cond mat.Condition
	if errors.As(err, &cond) {
		frite.Logger().Debug("lattice: ill-conditioned arap system", "condition", float64(cond))
		return nil
	}
	if err != nil {
		return fmt.Errorf("lattice: arap global step: %w", errors.Join(frite.ErrSingular, err))
	}
	return nil
}
