package dispatch_test

import (
	"testing"
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/cursor"
	"github.com/pseudovision/pseudovision/dispatch"
	"github.com/stretchr/testify/assert"
)

func movieItems(durationsMin ...int) []common.MediaItem {
	var out []common.MediaItem
	for i, m := range durationsMin {
		out = append(out, common.MediaItem{
			ID: string(rune('0' + i)), Duration: time.Duration(m) * time.Minute,
		})
	}
	return out
}

func baseSlot(id string, fillMode common.FillMode) common.Slot {
	collectionID := "coll"
	return common.Slot{
		ID: id, CollectionID: &collectionID, FillMode: fillMode,
		PlaybackOrder: common.PlaybackOrderChronological,
	}
}

func TestDispatchOnceEmitsSingleEvent(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30)
	slot := baseSlot("slot-1", common.FillModeOnce)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 1)
	assert.True(result.Cursor.NextStart.Equal(start.Add(20 * time.Minute)))
	assert.Equal(2, result.Cursor.NextGuideGroup)
}

func TestDispatchCountEmitsNBackToBack(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(10, 10, 10, 10)
	n := 3
	slot := baseSlot("slot-2", common.FillModeCount)
	slot.ItemCount = &n
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 3)
	assert.True(result.Cursor.NextStart.Equal(start.Add(30 * time.Minute)))
	for _, e := range result.Events {
		assert.Equal(1, e.GuideGroup)
	}
}

func TestDispatchBlockTailModeNoneLeavesGap(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30)
	d := 50 * time.Minute
	slot := baseSlot("slot-3", common.FillModeBlock)
	slot.BlockDuration = &d
	slot.TailMode = common.TailModeNone
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 2)
	assert.True(result.Cursor.NextStart.Equal(start.Add(50 * time.Minute)))
}

func TestDispatchBlockTailModeOfflineFillsGap(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30)
	d := 50 * time.Minute
	slot := baseSlot("slot-4", common.FillModeBlock)
	slot.BlockDuration = &d
	slot.TailMode = common.TailModeOffline
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 3)
	assert.Equal(common.EventKindOffline, result.Events[2].Kind)
	assert.True(result.Events[2].FinishAt.Equal(start.Add(50 * time.Minute)))
}

func TestDispatchBlockTailModeFillerDrawsFromTailPresetItems(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30)
	fillerItems := movieItems(5, 5, 5)
	d := 50 * time.Minute
	slot := baseSlot("slot-filler", common.FillModeBlock)
	slot.BlockDuration = &d
	slot.TailMode = common.TailModeFiller
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	fillerCollection := "filler-coll"
	preset := &common.FillerPreset{
		ID: "tail-preset", Role: common.FillerRolePost, CollectionID: &fillerCollection,
	}

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, preset, fillerItems)
	assert.True(ok)
	// Main content: 20+25=45m leaves a 5m gap to the 50m block boundary,
	// filled by exactly one 5m filler item drawn from fillerItems, not items.
	assert.Len(result.Events, 3)
	assert.Equal(common.EventKind(common.FillerRolePost), result.Events[2].Kind)
	assert.Equal(fillerItems[0].ID, result.Events[2].MediaItemID)
	assert.True(result.Events[2].FinishAt.Equal(start.Add(50 * time.Minute)))
	assert.True(result.Cursor.NextStart.Equal(start.Add(50 * time.Minute)))
}

func TestDispatchFloodStopsAtFloodEndWithoutTailBranch(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30)
	slot := baseSlot("slot-5", common.FillModeFlood)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	floodEnd := start.Add(50 * time.Minute)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, &floodEnd, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 2)
	assert.True(result.Cursor.NextStart.Equal(floodEnd))
}

func TestDispatchFloodFallsBackToTwoHourWindow(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(30)
	slot := baseSlot("slot-6", common.FillModeFlood)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.True(result.Cursor.NextStart.Equal(start.Add(2 * time.Hour)))
}

// §3: a zero-duration media item is a skippable placeholder, not a
// start==finish event.
func TestDispatchOnceSkipsZeroDurationPlaceholder(t *testing.T) {
	assert := assert.New(t)
	items := []common.MediaItem{
		{ID: "placeholder", Duration: 0},
		{ID: "real", Duration: 20 * time.Minute},
	}
	slot := baseSlot("slot-skip", common.FillModeOnce)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.True(ok)
	assert.Len(result.Events, 1)
	assert.Equal("real", result.Events[0].MediaItemID)
	assert.True(result.Events[0].FinishAt.Equal(start.Add(20 * time.Minute)))
}

func TestDispatchThreadsPlayoutSeedIntoFreshEnumerator(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(20, 25, 30, 15, 40, 35, 22, 28, 18, 33)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	slotA := baseSlot("slot-seed-a", common.FillModeOnce)
	slotA.PlaybackOrder = common.PlaybackOrderShuffle
	resultA, ok := dispatch.Dispatch(items, slotA, cursor.Init(start), 1, nil, nil, nil)
	assert.True(ok)

	slotB := baseSlot("slot-seed-b", common.FillModeOnce)
	slotB.PlaybackOrder = common.PlaybackOrderShuffle
	resultB, ok := dispatch.Dispatch(items, slotB, cursor.Init(start), 2, nil, nil, nil)
	assert.True(ok)

	// Two playouts with different seeds over the same collection must not be
	// forced onto the same shuffle permutation (§3's "deterministic
	// randomness root" must actually reach the enumerator).
	assert.NotEqual(resultA.Events[0].MediaItemID, resultB.Events[0].MediaItemID)
}

func TestDispatchUnknownFillModeLeavesSlotUntouched(t *testing.T) {
	assert := assert.New(t)
	items := movieItems(30)
	slot := baseSlot("slot-7", common.FillMode("bogus"))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := cursor.Init(start)

	result, ok := dispatch.Dispatch(items, slot, cur, 0, nil, nil, nil)
	assert.False(ok)
	assert.Len(result.Events, 0)
}
