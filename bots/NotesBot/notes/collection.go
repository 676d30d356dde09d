package notes

import (
	"sort"
	"sync"
	"time"
)

const agendaDays = 7

// Collection owns every note and hands out ids. Reads return copies, so a
// caller never keeps a reference into the collection.
type Collection struct {
	mu     sync.RWMutex
	notes  map[uint64]*Note
	nextID uint64
}

func NewCollection() *Collection {
	return &Collection{
		notes:  make(map[uint64]*Note),
		nextID: 1,
	}
}

// Create adds a note to the chat and returns its id
func (c *Collection) Create(header string, chat int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.notes[id] = newNote(id, header, chat)

	return id
}

// Get returns a copy of the note
func (c *Collection) Get(id uint64) (Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.notes[id]
	if !ok {
		return Note{}, false
	}
	return n.clone(), true
}

// Update runs f on the note while holding the write lock. The change is
// visible to the next read. f's error is returned as is.
func (c *Collection) Update(id uint64, f func(n *Note) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.notes[id]
	if !ok {
		return ErrNotFound
	}
	return f(n)
}

// Delete removes the note. Unknown ids are ignored.
func (c *Collection) Delete(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.notes, id)
}

// ListByChat returns the chat's ToDo and Doing notes
func (c *Collection) ListByChat(chat int64) []Note {
	return c.filter(func(n *Note) bool {
		return n.Chat == chat && n.State != StateDone
	})
}

// ListByChatAll returns all notes of the chat
func (c *Collection) ListByChatAll(chat int64) []Note {
	return c.filter(func(n *Note) bool {
		return n.Chat == chat
	})
}

// Agenda returns the chat's notes due between today and a week after today,
// both ends included, ordered by deadline.
func (c *Collection) Agenda(chat int64, today time.Time) []Note {
	from := Day(today)
	till := from.AddDate(0, 0, agendaDays)

	agenda := c.filter(func(n *Note) bool {
		if n.Chat != chat || n.Deadline == nil {
			return false
		}
		return !n.Deadline.Before(from) && !n.Deadline.After(till)
	})

	sort.SliceStable(agenda, func(i, j int) bool {
		return agenda[i].Deadline.Before(*agenda[j].Deadline)
	})
	return agenda
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.notes)
}

// NextID returns the id the next created note will get
func (c *Collection) NextID() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.nextID
}

// filter returns copies of the matching notes in ascending id order
func (c *Collection) filter(match func(n *Note) bool) []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var res []Note
	for _, n := range c.notes {
		if match(n) {
			res = append(res, n.clone())
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res
}
