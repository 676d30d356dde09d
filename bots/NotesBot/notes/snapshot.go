package notes

import "sort"

// Snapshot is a point-in-time copy of a collection that storages persist
type Snapshot struct {
	NextID uint64
	Notes  []Note // ascending id
}

// Snapshot copies the whole collection under the read lock
func (c *Collection) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		NextID: c.nextID,
		Notes:  make([]Note, 0, len(c.notes)),
	}
	for _, n := range c.notes {
		s.Notes = append(s.Notes, n.clone())
	}

	sort.Slice(s.Notes, func(i, j int) bool {
		return s.Notes[i].ID < s.Notes[j].ID
	})
	return s
}

// Restore builds a collection from a snapshot. The id counter never goes
// below the largest stored id + 1, so ids aren't reissued after a restart.
func Restore(s Snapshot) *Collection {
	c := NewCollection()
	if s.NextID > c.nextID {
		c.nextID = s.NextID
	}

	for i := range s.Notes {
		n := s.Notes[i].clone()
		c.notes[n.ID] = &n
		if n.ID >= c.nextID {
			c.nextID = n.ID + 1
		}
	}

	return c
}
