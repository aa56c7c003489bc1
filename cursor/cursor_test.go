package cursor_test

import (
	"testing"
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/cursor"
	"github.com/pseudovision/pseudovision/enumerator"
	"github.com/stretchr/testify/assert"
)

func TestInitStartsAtGuideGroupOne(t *testing.T) {
	assert := assert.New(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cursor.Init(start)
	assert.Equal(start, c.NextStart)
	assert.Equal(1, c.NextGuideGroup)
	assert.Empty(c.EnumeratorStates)
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	assert := assert.New(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cursor.Init(start)
	c = c.BumpGuideGroup()
	c = c.AdvanceSlot(3)

	blob, err := c.ToJSON()
	assert.NoError(err)

	restored, err := cursor.FromJSON(blob)
	assert.NoError(err)
	assert.True(c.NextStart.Equal(restored.NextStart))
	assert.Equal(c.NextGuideGroup, restored.NextGuideGroup)
	assert.Equal(c.SlotIndex, restored.SlotIndex)
}

func TestAdvanceSlotWraps(t *testing.T) {
	assert := assert.New(t)
	c := cursor.Init(time.Now())
	c = c.AdvanceSlot(2)
	assert.Equal(1, c.SlotIndex)
	c = c.AdvanceSlot(2)
	assert.Equal(0, c.SlotIndex)
}

func TestGetEnumeratorBuildsFreshWhenAbsent(t *testing.T) {
	assert := assert.New(t)
	c := cursor.Init(time.Now())
	items := []common.MediaItem{{ID: "1"}, {ID: "2"}}
	e := c.GetEnumerator("collection:x", items, common.PlaybackOrderChronological, 42)
	assert.Equal(2, e.Len())
}

func TestSaveEnumeratorThenGetEnumeratorRestoresSamePosition(t *testing.T) {
	assert := assert.New(t)
	c := cursor.Init(time.Now())
	items := []common.MediaItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	e := c.GetEnumerator("collection:x", items, common.PlaybackOrderChronological, 0)
	var item common.MediaItem
	item, e, _ = e.Next()
	assert.Equal("1", item.ID)

	c = c.SaveEnumerator("collection:x", e)

	restored := c.GetEnumerator("collection:x", items, common.PlaybackOrderChronological, 0)
	item, _, ok := restored.Next()
	assert.True(ok)
	assert.Equal("2", item.ID)
}

func TestSaveEnumeratorDoesNotMutateOriginal(t *testing.T) {
	assert := assert.New(t)
	c1 := cursor.Init(time.Now())
	e := enumerator.New([]common.MediaItem{{ID: "1"}}, common.PlaybackOrderChronological, 0)
	c2 := c1.SaveEnumerator("item:1", e)
	assert.Empty(c1.EnumeratorStates)
	assert.NotEmpty(c2.EnumeratorStates)
}
