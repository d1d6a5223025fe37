package trajectory

import (
	"fmt"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
)

// SetSyncNext couples the end tangent of trajectory id with the start
// tangent of its successor. Both tangents are replaced by their average,
// written back symmetrically. A collapsed handle contributes the direction
// of the curve instead. With on set the coupling persists and later
// edits to either handle carry over; with on unset the tangents are still
// averaged once, but the link stops propagating.
func (s *Store) SetSyncNext(id int, on bool) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if t.Next == frite.InvalidID {
		return fmt.Errorf("trajectory %d has no successor: %w", id, frite.ErrNotFound)
	}
	n, err := s.Get(t.Next)
	if err != nil {
		return err
	}
	_, out := t.cubic.Tangents()
	in, _ := n.cubic.Tangents()
	v := out.Add(in).Mul(0.5)

	c := t.cubic
	c.P2 = c.P3.Translate(v.Negate())
	t.setCubic(c)
	c = n.cubic
	c.P1 = c.P0.Translate(v)
	n.setCubic(c)

	t.SyncNext = on
	n.SyncPrev = on
	return nil
}

// SetSyncPrev is SetSyncNext applied to the link with the predecessor.
func (s *Store) SetSyncPrev(id int, on bool) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if t.Prev == frite.InvalidID {
		return fmt.Errorf("trajectory %d has no predecessor: %w", id, frite.ErrNotFound)
	}
	return s.SetSyncNext(t.Prev, on)
}

// MakeC1 syncs every existing link of trajectory id, making the path
// tangent-continuous across both of its ends.
func (s *Store) MakeC1(id int) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if t.Prev != frite.InvalidID {
		if err := s.SetSyncPrev(id, true); err != nil {
			return err
		}
	}
	if t.Next != frite.InvalidID {
		if err := s.SetSyncNext(id, true); err != nil {
			return err
		}
	}
	return nil
}

// SetCubic replaces the whole path of a trajectory and carries its end
// tangents over synced links.
func (s *Store) SetCubic(id int, c geom.CubicBez) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	t.setCubic(c)
	s.propagate(t)
	return nil
}

// SetP0 moves the start of a trajectory's path.
func (s *Store) SetP0(id int, p geom.Point) error { return s.setPoint(id, 0, p) }

// SetP1 moves the start handle of a trajectory's path.
func (s *Store) SetP1(id int, p geom.Point) error { return s.setPoint(id, 1, p) }

// SetP2 moves the end handle of a trajectory's path.
func (s *Store) SetP2(id int, p geom.Point) error { return s.setPoint(id, 2, p) }

// SetP3 moves the end of a trajectory's path.
func (s *Store) SetP3(id int, p geom.Point) error { return s.setPoint(id, 3, p) }

func (s *Store) setPoint(id, i int, p geom.Point) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	c := t.cubic
	switch i {
	case 0:
		c.P0 = p
	case 1:
		c.P1 = p
	case 2:
		c.P2 = p
	case 3:
		c.P3 = p
	}
	t.setCubic(c)
	s.propagate(t)
	return nil
}

// propagate mirrors t's end tangents onto its synced neighbours.
func (s *Store) propagate(t *Trajectory) {
	if t.SyncPrev {
		if p, ok := s.items[t.Prev]; ok {
			c := p.cubic
			c.P2 = c.P3.Translate(t.cubic.P1.Sub(t.cubic.P0).Negate())
			p.setCubic(c)
		}
	}
	if t.SyncNext {
		if n, ok := s.items[t.Next]; ok {
			c := n.cubic
			c.P1 = c.P0.Translate(t.cubic.P3.Sub(t.cubic.P2))
			n.setCubic(c)
		}
	}
}
