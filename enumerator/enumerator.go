// Package enumerator implements §4.1: a finite, restartable, looping
// iterator over a fixed media item vector with four selectable playback
// orders.
package enumerator

import (
	"math/rand"
	"sort"

	"github.com/pseudovision/pseudovision/common"
)

// State is the JSON-serialisable projection of an Enumerator, the shape
// threaded through cursor.Cursor.EnumeratorStates.
type State struct {
	Index         int                  `json:"index"`
	Seed          int64                `json:"seed"`
	PlaybackOrder common.PlaybackOrder `json:"playback_order"`
}

// Enumerator is a restartable iterator over a fixed item vector. It is a
// value type: Next returns the advanced copy rather than mutating in place.
type Enumerator struct {
	items       []common.MediaItem
	order       common.PlaybackOrder
	index       int
	seed        int64
	permutation []int // nil for chronological / season_episode
}

// New builds a fresh Enumerator over items under order, seeded by seed.
// items is sorted in-place into season_episode order when that order is
// requested; callers that need the original ordering preserved should pass
// a copy.
func New(items []common.MediaItem, order common.PlaybackOrder, seed int64) Enumerator {
	e := Enumerator{items: items, order: normalizeOrder(order), seed: seed}
	if e.order == common.PlaybackOrderSeasonEpisode {
		sortSeasonEpisode(e.items)
	}
	if e.order == common.PlaybackOrderShuffle || e.order == common.PlaybackOrderRandom {
		e.permutation = permute(len(items), seed)
	}
	return e
}

// Restore rebuilds an Enumerator from a previously-projected State over the
// current items vector (§4.1: "adding/removing items between builds is
// tolerated but may shift future selections").
func Restore(items []common.MediaItem, state State) Enumerator {
	e := New(items, state.PlaybackOrder, state.Seed)
	e.index = state.Index
	return e
}

// Project returns the JSON-serialisable state of e.
func (e Enumerator) Project() State {
	return State{Index: e.index, Seed: e.seed, PlaybackOrder: e.order}
}

// Len reports the size of the underlying item vector.
func (e Enumerator) Len() int {
	return len(e.items)
}

// Next draws the next item. ok is false when the vector is empty, in which
// case callers MUST terminate their loop and leave the slot unfilled.
func (e Enumerator) Next() (item common.MediaItem, next Enumerator, ok bool) {
	n := len(e.items)
	if n == 0 {
		return common.MediaItem{}, e, false
	}

	next = e
	switch e.order {
	case common.PlaybackOrderShuffle:
		item = e.items[e.permutation[e.index%n]]
		next.index = e.index + 1

	case common.PlaybackOrderRandom:
		if e.index%n == 0 && e.index > 0 {
			next.seed = e.seed + 1
			next.permutation = permute(n, next.seed)
		} else if e.permutation == nil {
			next.permutation = permute(n, e.seed)
		}
		item = e.items[next.permutation[e.index%n]]
		next.index = e.index + 1

	default: // chronological, season_episode
		item = e.items[e.index%n]
		next.index = e.index + 1
	}
	return item, next, true
}

// NextPlayable draws the next item with a positive duration, advancing past
// zero-duration placeholders (§3: "items with zero duration are skippable
// placeholders") without emitting an event for them. ok is false when the
// vector is empty, or when a full pass over it turns up nothing playable.
func (e Enumerator) NextPlayable() (item common.MediaItem, next Enumerator, ok bool) {
	n := e.Len()
	if n == 0 {
		return common.MediaItem{}, e, false
	}
	cur := e
	for i := 0; i < n; i++ {
		item, next, ok = cur.Next()
		if !ok {
			return common.MediaItem{}, e, false
		}
		if item.Duration > 0 {
			return item, next, true
		}
		cur = next
	}
	return common.MediaItem{}, cur, false
}

func normalizeOrder(order common.PlaybackOrder) common.PlaybackOrder {
	switch order {
	case common.PlaybackOrderShuffle, common.PlaybackOrderRandom, common.PlaybackOrderSeasonEpisode:
		return order
	default:
		return common.PlaybackOrderChronological
	}
}

func sortSeasonEpisode(items []common.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := parentKey(items[i]), parentKey(items[j])
		if pi != pj {
			return pi < pj
		}
		return items[i].Position < items[j].Position
	})
}

func parentKey(item common.MediaItem) string {
	if item.ParentID == nil {
		return ""
	}
	return *item.ParentID
}

// permute returns a deterministic Fisher-Yates permutation of {0..n-1}
// derived from seed.
func permute(n int, seed int64) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	r := rand.New(rand.NewSource(seed))
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
