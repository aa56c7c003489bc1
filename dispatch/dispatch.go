// Package dispatch implements §4.5: turning one Slot into a run of Events
// against the current build cursor.
package dispatch

import (
	"time"

	"github.com/apex/log"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/cursor"
	"github.com/pseudovision/pseudovision/enumerator"
	"github.com/pseudovision/pseudovision/filler"
)

// floodFallback is the window flood fills toward when the build driver finds
// no later fixed-anchor slot to bound it against (§4.5).
const floodFallback = 2 * time.Hour

// Result is the outcome of dispatching one slot: the events it produced and
// the cursor advanced past it.
type Result struct {
	Events []common.Event
	Cursor cursor.Cursor
}

// Dispatch processes slot against items (the resolved content source) and
// the current cursor, returning the emitted events and the advanced cursor.
// seed is the playout's deterministic randomness root (§3), used only when
// a fresh enumerator must be created for a collection key the cursor has
// not seen before. floodEnd is the flood fill mode's bound, computed by the
// build driver (§4.6 step 4b); it is ignored by every other fill mode.
// tailPreset and tailItems are the block tail's resolved filler preset and
// its content source, used only by block mode when tail_mode=filler. ok is
// false for an unknown fill mode, in which case the slot is left entirely
// untouched.
func Dispatch(
	items []common.MediaItem, slot common.Slot, cur cursor.Cursor, seed int64,
	floodEnd *time.Time, tailPreset *common.FillerPreset, tailItems []common.MediaItem,
) (Result, bool) {
	key := slot.CollectionKey()
	order := slot.PlaybackOrder
	if order == "" {
		order = common.PlaybackOrderChronological
	}
	enum := cur.GetEnumerator(key, items, order, seed)
	guideGroup := cur.NextGuideGroup

	switch slot.FillMode {
	case common.FillModeOnce:
		return once(items, slot, cur, enum, guideGroup), true

	case common.FillModeCount:
		n := 1
		if slot.ItemCount != nil {
			n = *slot.ItemCount
		}
		return count(slot, cur, enum, guideGroup, n), true

	case common.FillModeBlock:
		var blockDuration time.Duration
		if slot.BlockDuration != nil {
			blockDuration = *slot.BlockDuration
		}
		blockEnd := cur.NextStart.Add(blockDuration)
		return block(slot, cur, enum, guideGroup, blockEnd, true, seed, tailPreset, tailItems), true

	case common.FillModeFlood:
		end := resolveFloodEnd(cur.NextStart, floodEnd)
		return block(slot, cur, enum, guideGroup, end, false, seed, tailPreset, tailItems), true

	default:
		log.WithField("slot", slot.ID).WithField("fill_mode", slot.FillMode).
			Warn("Unknown fill mode, leaving slot untouched")
		return Result{Cursor: cur}, false
	}
}

func resolveFloodEnd(from time.Time, floodEnd *time.Time) time.Time {
	if floodEnd != nil {
		return *floodEnd
	}
	return from.Add(floodFallback)
}

func once(
	items []common.MediaItem, slot common.Slot, cur cursor.Cursor,
	enum enumerator.Enumerator, guideGroup int,
) Result {
	item, next, ok := enum.NextPlayable()
	if !ok {
		return Result{Cursor: cur.BumpGuideGroup()}
	}

	start := cur.NextStart
	finish := start.Add(item.Duration)
	event := common.Event{
		MediaItemID: item.ID, Kind: common.EventKindContent,
		StartAt: start, FinishAt: finish, GuideGroup: guideGroup,
		SlotID: &slot.ID, IsManual: false,
	}

	result := cur.SaveEnumerator(slot.CollectionKey(), next)
	result.NextStart = finish
	result = result.BumpGuideGroup()
	return Result{Events: []common.Event{event}, Cursor: result}
}

func count(
	slot common.Slot, cur cursor.Cursor, enum enumerator.Enumerator, guideGroup, n int,
) Result {
	var events []common.Event
	start := cur.NextStart
	for i := 0; i < n; i++ {
		item, next, ok := enum.NextPlayable()
		if !ok {
			break
		}
		finish := start.Add(item.Duration)
		events = append(events, common.Event{
			MediaItemID: item.ID, Kind: common.EventKindContent,
			StartAt: start, FinishAt: finish, GuideGroup: guideGroup,
			SlotID: &slot.ID, IsManual: false,
		})
		start = finish
		enum = next
	}

	result := cur.SaveEnumerator(slot.CollectionKey(), enum)
	result.NextStart = start
	result = result.BumpGuideGroup()
	return Result{Events: events, Cursor: result}
}

// block fills [cur.next_start, end) by repeatedly drawing items, stopping
// before any item would cross end. When hasTail is true (plain block mode)
// the leftover gap is resolved per slot.tail_mode; flood mode passes
// hasTail=false, dropping the overflowing item and simply advancing to end.
func block(
	slot common.Slot, cur cursor.Cursor, enum enumerator.Enumerator, guideGroup int,
	end time.Time, hasTail bool, seed int64, tailPreset *common.FillerPreset, tailItems []common.MediaItem,
) Result {
	var events []common.Event
	curTime := cur.NextStart
	for {
		item, next, ok := enum.NextPlayable()
		if !ok {
			break
		}
		finish := curTime.Add(item.Duration)
		if finish.After(end) {
			break
		}
		events = append(events, common.Event{
			MediaItemID: item.ID, Kind: common.EventKindContent,
			StartAt: curTime, FinishAt: finish, GuideGroup: guideGroup,
			SlotID: &slot.ID, IsManual: false,
		})
		curTime = finish
		enum = next
	}

	result := cur.SaveEnumerator(slot.CollectionKey(), enum)

	if hasTail && curTime.Before(end) {
		switch slot.TailMode {
		case common.TailModeFiller:
			if tailPreset != nil {
				tailKey := tailPreset.CollectionKey()
				tailEnum := result.GetEnumerator(tailKey, tailItems, common.PlaybackOrderChronological, seed)
				tailEvents, tailEnum, tailCur := filler.Duration(
					tailItems, tailEnum, curTime, end, tailPreset.Role, guideGroup,
				)
				events = append(events, tailEvents...)
				result = result.SaveEnumerator(tailKey, tailEnum)
				curTime = tailCur
			}

		case common.TailModeOffline:
			events = append(events, common.Event{
				Kind: common.EventKindOffline, StartAt: curTime, FinishAt: end,
				GuideGroup: guideGroup, SlotID: &slot.ID, IsManual: false,
			})

		case common.TailModeNone:
			// leave [curTime, end) as a gap

		default:
			log.WithField("slot", slot.ID).WithField("tail_mode", slot.TailMode).
				Warn("Unknown tail mode, leaving gap")
		}
	}

	result.NextStart = end
	result = result.BumpGuideGroup()
	return Result{Events: events, Cursor: result}
}
