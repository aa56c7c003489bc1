package enumerator_test

import (
	"testing"
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/enumerator"
	"github.com/stretchr/testify/assert"
)

func items(ids ...string) []common.MediaItem {
	out := make([]common.MediaItem, len(ids))
	for i, id := range ids {
		out[i] = common.MediaItem{ID: id}
	}
	return out
}

// Scenario 1 (§8): chronological wrap over three items yields 1,2,3,1.
func TestChronologicalWraps(t *testing.T) {
	assert := assert.New(t)
	e := enumerator.New(items("1", "2", "3"), common.PlaybackOrderChronological, 0)

	var got []string
	for i := 0; i < 4; i++ {
		var item common.MediaItem
		var ok bool
		item, e, ok = e.Next()
		assert.True(ok)
		got = append(got, item.ID)
	}
	assert.Equal([]string{"1", "2", "3", "1"}, got)
}

// Scenario 2 (§8): same seed, same first draw.
func TestShuffleDeterministicAcrossInstances(t *testing.T) {
	assert := assert.New(t)
	v := items("1", "2", "3", "4", "5")

	e1 := enumerator.New(v, common.PlaybackOrderShuffle, 99)
	e2 := enumerator.New(append([]common.MediaItem{}, v...), common.PlaybackOrderShuffle, 99)

	i1, _, ok1 := e1.Next()
	i2, _, ok2 := e2.Next()
	assert.True(ok1)
	assert.True(ok2)
	assert.Equal(i1.ID, i2.ID)
}

// Scenario 3 (§8): two next calls then restore yields the third item.
func TestCursorRestoreResumesAtIndex(t *testing.T) {
	assert := assert.New(t)
	v := items("1", "2", "3")
	e := enumerator.New(v, common.PlaybackOrderChronological, 0)

	var item common.MediaItem
	item, e, _ = e.Next()
	assert.Equal("1", item.ID)
	item, e, _ = e.Next()
	assert.Equal("2", item.ID)

	state := e.Project()
	restored := enumerator.Restore(v, state)

	item, _, ok := restored.Next()
	assert.True(ok)
	assert.Equal("3", item.ID)
}

func TestEmptyEnumeratorYieldsNothing(t *testing.T) {
	assert := assert.New(t)
	e := enumerator.New(nil, common.PlaybackOrderChronological, 0)
	_, _, ok := e.Next()
	assert.False(ok)
}

func TestSeasonEpisodeOrdersByParentThenPosition(t *testing.T) {
	assert := assert.New(t)
	seasonB, seasonA := "b", "a"
	v := []common.MediaItem{
		{ID: "b2", ParentID: &seasonB, Position: 2},
		{ID: "a1", ParentID: &seasonA, Position: 1},
		{ID: "b1", ParentID: &seasonB, Position: 1},
		{ID: "a2", ParentID: &seasonA, Position: 2},
	}
	e := enumerator.New(v, common.PlaybackOrderSeasonEpisode, 0)

	var got []string
	for i := 0; i < 4; i++ {
		var item common.MediaItem
		item, e, _ = e.Next()
		got = append(got, item.ID)
	}
	assert.Equal([]string{"a1", "a2", "b1", "b2"}, got)
}

// §3: items with zero duration are skippable placeholders.
func TestNextPlayableSkipsZeroDurationItems(t *testing.T) {
	assert := assert.New(t)
	v := []common.MediaItem{
		{ID: "1", Duration: 0},
		{ID: "2", Duration: 20 * time.Minute},
		{ID: "3", Duration: 0},
		{ID: "4", Duration: 30 * time.Minute},
	}
	e := enumerator.New(v, common.PlaybackOrderChronological, 0)

	var got []string
	for i := 0; i < 2; i++ {
		var item common.MediaItem
		var ok bool
		item, e, ok = e.NextPlayable()
		assert.True(ok)
		got = append(got, item.ID)
	}
	assert.Equal([]string{"2", "4"}, got)
}

func TestNextPlayableFailsWhenEveryItemIsZeroDuration(t *testing.T) {
	assert := assert.New(t)
	v := []common.MediaItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	e := enumerator.New(v, common.PlaybackOrderChronological, 0)

	_, _, ok := e.NextPlayable()
	assert.False(ok)
}

func TestNextPlayableOnEmptyVectorFails(t *testing.T) {
	assert := assert.New(t)
	e := enumerator.New(nil, common.PlaybackOrderChronological, 0)
	_, _, ok := e.NextPlayable()
	assert.False(ok)
}

func TestRandomOrderReshufflesAtPassBoundary(t *testing.T) {
	assert := assert.New(t)
	v := items("1", "2", "3")
	e := enumerator.New(v, common.PlaybackOrderRandom, 7)

	for i := 0; i < 3; i++ {
		_, e, _ = e.Next()
	}
	before := e.Project().Seed
	_, e, _ = e.Next()
	assert.Equal(before+1, e.Project().Seed)
}
