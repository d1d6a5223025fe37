package lattice

import "math"

// Key identifies a grid cell (or a grid vertex) of a lattice. Keys are
// dense: the cells close to the origin get the small keys.
type Key int64

func zigzag(n int) int64 {
	if n >= 0 {
		return 2 * int64(n)
	}
	return -2*int64(n) - 1
}

func unzigzag(z int64) int {
	if z&1 == 0 {
		return int(z / 2)
	}
	return int(-(z + 1) / 2)
}

// CoordToKey maps the grid coordinate (x, y) to its key. The map is a
// bijection between Z² and the non-negative integers: both coordinates are
// folded onto the naturals and paired with Szudzik's function.
func CoordToKey(x, y int) Key {
	a, b := zigzag(x), zigzag(y)
	if a >= b {
		return Key(a*a + a + b)
	}
	return Key(a + b*b)
}

// KeyToCoord is the inverse of [CoordToKey].
func KeyToCoord(k Key) (x, y int) {
	z := int64(k)
	s := int64(math.Sqrt(float64(z)))
	// fix up rounding of the float square root
	for s*s > z {
		s--
	}
	for (s+1)*(s+1) <= z {
		s++
	}
	r := z - s*s
	if r < s {
		return unzigzag(r), unzigzag(s)
	}
	return unzigzag(s), unzigzag(r - s)
}

// Neighbor returns the key of the cell offset by (dx, dy) from k.
func Neighbor(k Key, dx, dy int) Key {
	x, y := KeyToCoord(k)
	return CoordToKey(x+dx, y+dy)
}
