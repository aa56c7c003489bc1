// Package cursor implements §4.2: the full resumption state for one
// Playout build, persisted as an opaque JSON blob on the playouts row.
package cursor

import (
	"encoding/json"
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/enumerator"
)

// Cursor is a value type: the build driver threads a new Cursor through the
// slot loop and writes it exactly once at the end (§9). Its methods return
// modified copies and leave the receiver unchanged; the fields are exported,
// and the build driver and dispatcher assign NextStart on their own copies.
type Cursor struct {
	NextStart         time.Time                 `json:"next_start"`
	SlotIndex         int                        `json:"slot_index"`
	CountRemaining    *int                       `json:"count_remaining"`
	BlockEndsAt       *time.Time                 `json:"block_ends_at"`
	InFlood           bool                       `json:"in_flood"`
	InDurationFiller  bool                       `json:"in_duration_filler"`
	NextGuideGroup    int                        `json:"next_guide_group"`
	EnumeratorStates  map[string]enumerator.State `json:"enumerator_states"`
}

// Init returns a fresh cursor starting at start, with no enumerator state
// and guide_group counting from 1.
func Init(start time.Time) Cursor {
	return Cursor{
		NextStart:        start,
		SlotIndex:        0,
		NextGuideGroup:   1,
		EnumeratorStates: map[string]enumerator.State{},
	}
}

// GetEnumerator restores the enumerator bucketed under key if present, or
// builds a fresh one over items under order seeded by seed.
func (c Cursor) GetEnumerator(key string, items []common.MediaItem, order common.PlaybackOrder, seed int64) enumerator.Enumerator {
	if state, ok := c.EnumeratorStates[key]; ok {
		return enumerator.Restore(items, state)
	}
	return enumerator.New(items, order, seed)
}

// SaveEnumerator returns a copy of c with key's bucket overwritten by e's
// projection.
func (c Cursor) SaveEnumerator(key string, e enumerator.Enumerator) Cursor {
	next := c.clone()
	next.EnumeratorStates[key] = e.Project()
	return next
}

// BumpGuideGroup returns a copy of c with next_guide_group incremented.
func (c Cursor) BumpGuideGroup() Cursor {
	next := c.clone()
	next.NextGuideGroup = c.NextGuideGroup + 1
	return next
}

// AdvanceSlot returns a copy of c with slot_index moved to the next slot,
// wrapping modulo nSlots.
func (c Cursor) AdvanceSlot(nSlots int) Cursor {
	next := c.clone()
	if nSlots > 0 {
		next.SlotIndex = (c.SlotIndex + 1) % nSlots
	}
	return next
}

// clone returns a shallow copy of c with its own EnumeratorStates map, so
// callers can safely mutate the copy without aliasing the original.
func (c Cursor) clone() Cursor {
	next := c
	next.EnumeratorStates = make(map[string]enumerator.State, len(c.EnumeratorStates))
	for k, v := range c.EnumeratorStates {
		next.EnumeratorStates[k] = v
	}
	return next
}

// ToJSON serialises c to its durable blob form.
func (c Cursor) ToJSON() (string, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// FromJSON parses a durable blob into a Cursor.
func FromJSON(blob string) (Cursor, error) {
	var c Cursor
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		return Cursor{}, err
	}
	if c.EnumeratorStates == nil {
		c.EnumeratorStates = map[string]enumerator.State{}
	}
	return c, nil
}
