package trajectory

import (
	"fmt"
	"maps"
	"slices"

	"github.com/MoStyle/frite"
	"github.com/MoStyle/frite/geom"
	"github.com/MoStyle/frite/lattice"
)

// Store owns trajectories and hands out their ids. The zero value is not
// usable; call [NewStore].
type Store struct {
	items  map[int]*Trajectory
	nextID int
}

func NewStore() *Store {
	return &Store{items: make(map[int]*Trajectory)}
}

// New adds an unlinked trajectory.
func (s *Store) New(group int, c geom.CubicBez, anchor lattice.UVInfo) *Trajectory {
	t := &Trajectory{
		ID:     s.nextID,
		Group:  group,
		Anchor: anchor,
		Prev:   frite.InvalidID,
		Next:   frite.InvalidID,
		cubic:  c,
	}
	s.nextID++
	s.items[t.ID] = t
	return t
}

// Get resolves an id. [frite.InvalidID] and removed ids fail with
// [frite.ErrNotFound].
func (s *Store) Get(id int) (*Trajectory, error) {
	t, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("trajectory %d: %w", id, frite.ErrNotFound)
	}
	return t, nil
}

// Len returns the number of trajectories.
func (s *Store) Len() int { return len(s.items) }

// IDs returns the ids of all trajectories in increasing order.
func (s *Store) IDs() []int {
	return slices.Sorted(maps.Keys(s.items))
}

// ByGroup returns the trajectories of a group in id order.
func (s *Store) ByGroup(group int) []*Trajectory {
	var out []*Trajectory
	for _, id := range s.IDs() {
		if t := s.items[id]; t.Group == group {
			out = append(out, t)
		}
	}
	return out
}

// Remove unlinks and drops a trajectory. Removing an unknown id is a
// no-op.
func (s *Store) Remove(id int) {
	if _, ok := s.items[id]; !ok {
		return
	}
	s.Unlink(id)
	delete(s.items, id)
}

// Link chains prev before next, replacing the links either had on that
// side.
func (s *Store) Link(prev, next int) error {
	p, err := s.Get(prev)
	if err != nil {
		return err
	}
	n, err := s.Get(next)
	if err != nil {
		return err
	}
	if prev == next {
		return fmt.Errorf("linking trajectory %d to itself: %w", prev, frite.ErrCycle)
	}
	s.unlinkNext(p)
	s.unlinkPrev(n)
	p.Next = next
	n.Prev = prev
	return nil
}

// Unlink detaches a trajectory from both of its neighbours.
func (s *Store) Unlink(id int) {
	t, ok := s.items[id]
	if !ok {
		return
	}
	s.unlinkPrev(t)
	s.unlinkNext(t)
}

func (s *Store) unlinkPrev(t *Trajectory) {
	if p, ok := s.items[t.Prev]; ok {
		p.Next = frite.InvalidID
		p.SyncNext = false
	}
	t.Prev = frite.InvalidID
	t.SyncPrev = false
}

func (s *Store) unlinkNext(t *Trajectory) {
	if n, ok := s.items[t.Next]; ok {
		n.Prev = frite.InvalidID
		n.SyncPrev = false
	}
	t.Next = frite.InvalidID
	t.SyncNext = false
}

// Chain returns the ids of the chain through id, from its first to its
// last trajectory. A chain that loops back on itself fails with
// [frite.ErrCycle].
func (s *Store) Chain(id int) ([]int, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{id: true}
	head := t
	for head.Prev != frite.InvalidID {
		p, err := s.Get(head.Prev)
		if err != nil {
			return nil, fmt.Errorf("chain of %d: %w", id, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("chain of %d: %w", id, frite.ErrCycle)
		}
		seen[p.ID] = true
		head = p
	}
	out := []int{head.ID}
	clear(seen)
	seen[head.ID] = true
	for cur := head; cur.Next != frite.InvalidID; {
		n, err := s.Get(cur.Next)
		if err != nil {
			return nil, fmt.Errorf("chain of %d: %w", id, err)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("chain of %d: %w", id, frite.ErrCycle)
		}
		seen[n.ID] = true
		out = append(out, n.ID)
		cur = n
	}
	return out, nil
}
