package build_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pseudovision/pseudovision/build"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

// fixedClock pins "now" for deterministic builds.
type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newTestPersistence(t *testing.T) db.PersistenceManager {
	uut, err := db.NewManager(db.GetSqliteDialector(fmt.Sprintf("/tmp/build-ut-%s.db", uuid.NewString())), logger.Silent)
	if err != nil {
		t.Fatalf("failed to build test persistence: %s", err)
	}
	return uut
}

// movieFixture seeds the 10-movie fixture used by spec §8's literal
// scenarios and returns the media item IDs in declaration order.
func movieFixture(t *testing.T, persist db.PersistenceManager) []string {
	durations := []int{20, 25, 30, 15, 40, 35, 22, 28, 18, 33}
	ids := make([]string, len(durations))
	for i, minutes := range durations {
		id, err := persist.DefineMediaItem(context.Background(), common.MediaItem{
			Title: fmt.Sprintf("movie-%d", i+1), Duration: time.Duration(minutes) * time.Minute,
		})
		assert.Nil(t, err)
		ids[i] = id
	}
	return ids
}

func manualCollection(t *testing.T, persist db.PersistenceManager, itemIDs []string) string {
	collectionID, err := persist.DefineCollection(context.Background(), common.Collection{
		Name: "coll-" + uuid.NewString(), Kind: common.CollectionKindManual,
	})
	assert.Nil(t, err)
	for _, itemID := range itemIDs {
		_, err := persist.AddCollectionItem(context.Background(), collectionID, itemID, nil)
		assert.Nil(t, err)
	}
	return collectionID
}

func TestBuildOnceThenCountSchedule(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	resolve := resolver.NewDBResolver(persist)
	ctxt := context.Background()

	items := movieFixture(t, persist)
	collectionA := manualCollection(t, persist, items[0:5])
	collectionB := manualCollection(t, persist, items[5:10])

	scheduleID, err := persist.DefineSchedule(ctxt, common.Schedule{
		Name: "S1", FixedStartTimeBehavior: common.FixedStartTimeBehaviorPlay,
	})
	assert.Nil(err)

	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 0, Anchor: common.SlotAnchorSequential,
		FillMode: common.FillModeOnce, CollectionID: &collectionA,
		PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)
	n := 3
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 1, Anchor: common.SlotAnchorSequential,
		FillMode: common.FillModeCount, ItemCount: &n, CollectionID: &collectionB,
		PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, &scheduleID, 1)
	assert.Nil(err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := build.Build(ctxt, persist, resolve, fixedClock{at: now}, build.Options{LookaheadHours: 1}, playoutEntry.ID)
	assert.Nil(err)
	assert.Equal(build.OutcomeBuilt, report.Outcome)

	events, err := persist.ListUpcomingEvents(ctxt, playoutEntry.ID, now, 10)
	assert.Nil(err)
	assert.GreaterOrEqual(len(events), 4)

	// Events are back-to-back with no gaps and no overlap (§8 invariants 1-3).
	for i := 1; i < len(events); i++ {
		assert.True(events[i].StartAt.Equal(events[i-1].FinishAt))
	}
	// First event comes from CollectionA, the next three from CollectionB.
	assert.Contains(items[0:5], events[0].MediaItemID)
	for _, e := range events[1:4] {
		assert.Contains(items[5:10], e.MediaItemID)
	}
}

func TestBuildBlockScheduleNeverCrossesBoundary(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	resolve := resolver.NewDBResolver(persist)
	ctxt := context.Background()

	items := movieFixture(t, persist)
	collectionC := manualCollection(t, persist, items)

	scheduleID, err := persist.DefineSchedule(ctxt, common.Schedule{
		Name: "S2", FixedStartTimeBehavior: common.FixedStartTimeBehaviorPlay,
	})
	assert.Nil(err)

	blockDuration := 2 * time.Hour
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 0, Anchor: common.SlotAnchorSequential,
		FillMode: common.FillModeBlock, BlockDuration: &blockDuration, TailMode: common.TailModeNone,
		CollectionID: &collectionC, PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, &scheduleID, 1)
	assert.Nil(err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := build.Build(ctxt, persist, resolve, fixedClock{at: now}, build.Options{LookaheadHours: 1}, playoutEntry.ID)
	assert.Nil(err)
	assert.Equal(build.OutcomeBuilt, report.Outcome)

	events, err := persist.ListUpcomingEvents(ctxt, playoutEntry.ID, now, 20)
	assert.Nil(err)
	assert.NotEmpty(events)

	blockBoundary := now.Add(2 * time.Hour)
	for _, e := range events {
		assert.True(!e.FinishAt.After(blockBoundary))
	}
}

func TestBuildFloodBetweenFixedAnchors(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	resolve := resolver.NewDBResolver(persist)
	ctxt := context.Background()

	items := movieFixture(t, persist)
	collectionA := manualCollection(t, persist, items[0:5])
	collectionB := manualCollection(t, persist, items[5:10])
	collectionC := manualCollection(t, persist, items[0:1])

	scheduleID, err := persist.DefineSchedule(ctxt, common.Schedule{
		Name: "S3", FixedStartTimeBehavior: common.FixedStartTimeBehaviorPlay,
	})
	assert.Nil(err)

	midnight := time.Duration(0)
	sixAM := 6 * time.Hour
	noon := 12 * time.Hour

	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 0, Anchor: common.SlotAnchorFixed, StartTime: &midnight,
		FillMode: common.FillModeFlood, CollectionID: &collectionA, PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 1, Anchor: common.SlotAnchorFixed, StartTime: &sixAM,
		FillMode: common.FillModeFlood, CollectionID: &collectionB, PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 2, Anchor: common.SlotAnchorFixed, StartTime: &noon,
		FillMode: common.FillModeOnce, CollectionID: &collectionC, PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, &scheduleID, 1)
	assert.Nil(err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := build.Build(ctxt, persist, resolve, fixedClock{at: now}, build.Options{LookaheadHours: 12}, playoutEntry.ID)
	assert.Nil(err)
	assert.Equal(build.OutcomeBuilt, report.Outcome)

	events, err := persist.ListUpcomingEvents(ctxt, playoutEntry.ID, now, 50)
	assert.Nil(err)
	assert.NotEmpty(events)

	sixAMInstant := now.Add(6 * time.Hour)
	noonInstant := now.Add(12 * time.Hour)
	for _, e := range events {
		inFirstWindow := !e.StartAt.Before(now) && !e.FinishAt.After(sixAMInstant)
		inSecondWindow := !e.StartAt.Before(sixAMInstant) && !e.FinishAt.After(noonInstant)
		atNoon := e.StartAt.Equal(noonInstant)
		assert.True(inFirstWindow || inSecondWindow || atNoon)
	}
}

// §7: resolution_failure is non-fatal. A slot with a dangling collection
// reference logs a warning and produces no events, but the build still
// succeeds and later slots still run.
func TestBuildResolutionFailureSkipsSlotWithoutAbortingBuild(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	resolve := resolver.NewDBResolver(persist)
	ctxt := context.Background()

	items := movieFixture(t, persist)
	collectionB := manualCollection(t, persist, items[5:10])

	scheduleID, err := persist.DefineSchedule(ctxt, common.Schedule{
		Name: "S-dangling", FixedStartTimeBehavior: common.FixedStartTimeBehaviorPlay,
	})
	assert.Nil(err)

	dangling := uuid.NewString()
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 0, Anchor: common.SlotAnchorSequential,
		FillMode: common.FillModeOnce, CollectionID: &dangling,
		PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)
	n := 2
	_, err = persist.DefineSlot(ctxt, common.Slot{
		ScheduleID: scheduleID, SlotIndex: 1, Anchor: common.SlotAnchorSequential,
		FillMode: common.FillModeCount, ItemCount: &n, CollectionID: &collectionB,
		PlaybackOrder: common.PlaybackOrderChronological,
	})
	assert.Nil(err)

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, &scheduleID, 1)
	assert.Nil(err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := build.Build(ctxt, persist, resolve, fixedClock{at: now}, build.Options{LookaheadHours: 1}, playoutEntry.ID)
	assert.Nil(err)
	assert.Equal(build.OutcomeBuilt, report.Outcome)

	events, err := persist.ListUpcomingEvents(ctxt, playoutEntry.ID, now, 50)
	assert.Nil(err)
	assert.NotEmpty(events)
	for _, e := range events {
		assert.Contains(items[5:10], e.MediaItemID)
	}

	playout, err := persist.GetPlayout(ctxt, playoutEntry.ID)
	assert.Nil(err)
	assert.True(playout.BuildSuccess)
}

func TestBuildNoScheduleLeavesPlayoutUntouched(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	resolve := resolver.NewDBResolver(persist)
	ctxt := context.Background()

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, nil, 1)
	assert.Nil(err)

	report, err := build.Build(ctxt, persist, resolve, fixedClock{at: time.Now()}, build.DefaultOptions(), playoutEntry.ID)
	assert.Nil(err)
	assert.Equal(build.OutcomeNoSchedule, report.Outcome)
}
