// Package build implements §4.6/§4.7: compiling a Playout's Schedule into
// Events against its Cursor, inside one transaction.
package build

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/cursor"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/dispatch"
	"github.com/pseudovision/pseudovision/filler"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/pseudovision/pseudovision/timeutil"
)

// maxPassesPerBuild bounds the slot loop so a schedule that never advances
// next_start (e.g. one fill mode typo'd past validation) cannot hang a
// build forever; exceeding it truncates the build with a warning rather
// than failing it outright.
const maxPassesPerBuild = 500

// Outcome classifies how a build concluded.
type Outcome string

const (
	OutcomeBuilt      Outcome = "built"
	OutcomeNoSchedule Outcome = "no_schedule"
	OutcomeFailed     Outcome = "failed"
)

// Options are the build driver's tunables (§4.6).
type Options struct {
	LookaheadHours int
	ZoneID         string
}

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() Options {
	return Options{LookaheadHours: 72, ZoneID: "UTC"}
}

func (o Options) normalize() Options {
	if o.LookaheadHours <= 0 {
		o.LookaheadHours = 72
	}
	if o.ZoneID == "" {
		o.ZoneID = "UTC"
	}
	return o
}

// Report summarises one build attempt.
type Report struct {
	Outcome       Outcome
	EventsEmitted int
	Message       string
}

// Build compiles playoutID's schedule forward to its lookahead horizon and
// atomically applies the result. Rebuild is identical — the engine is
// idempotent by virtue of the auto-suffix reap and cursor continuity.
func Build(
	ctxt context.Context, persist db.PersistenceManager, resolve resolver.CollectionResolver,
	clock timeutil.Clock, opts Options, playoutID string,
) (Report, error) {
	opts = opts.normalize()
	wallStart := time.Now()

	playout, err := persist.GetPlayout(ctxt, playoutID)
	if err != nil {
		return Report{}, err
	}

	if playout.ScheduleID == nil {
		return Report{Outcome: OutcomeNoSchedule}, nil
	}
	schedule, err := persist.GetSchedule(ctxt, *playout.ScheduleID)
	if err != nil {
		return Report{Outcome: OutcomeNoSchedule}, nil
	}
	slots, err := persist.ListSlotsBySchedule(ctxt, schedule.ID)
	if err != nil {
		return Report{}, err
	}
	if len(slots) == 0 {
		return Report{Outcome: OutcomeNoSchedule}, nil
	}

	channel, err := persist.GetChannel(ctxt, playout.ChannelID)
	if err != nil {
		return Report{}, err
	}

	presetList, err := persist.ListFillerPresets(ctxt)
	if err != nil {
		return Report{}, err
	}
	presets := make(map[string]common.FillerPreset, len(presetList))
	for _, preset := range presetList {
		presets[preset.ID] = preset
	}

	loc, err := time.LoadLocation(opts.ZoneID)
	if err != nil {
		loc = time.UTC
	}

	now := clock.Now()
	cur, err := cursor.FromJSON(playout.Cursor)
	if err != nil || cur.EnumeratorStates == nil {
		cur = cursor.Init(now)
	}

	lookahead := now.Add(time.Duration(opts.LookaheadHours) * time.Hour)
	ptr := cur.SlotIndex
	if ptr < 0 || ptr >= len(slots) {
		ptr = 0
	}

	var accumulated []common.Event
	for iterations := 0; !cur.NextStart.After(lookahead); iterations++ {
		if iterations >= maxPassesPerBuild {
			log.WithField("playout", playoutID).
				Warn("Build loop exceeded its pass budget, truncating")
			break
		}

		slot := slots[ptr]

		if slot.Anchor == common.SlotAnchorFixed &&
			schedule.FixedStartTimeBehavior == common.FixedStartTimeBehaviorSkip &&
			slot.StartTime != nil {
			fire := timeutil.NextFixedAnchor(cur.NextStart, *slot.StartTime, loc)
			if fire.After(cur.NextStart) {
				cur.NextStart = fire
			}
		}

		var floodEnd *time.Time
		if slot.FillMode == common.FillModeFlood {
			floodEnd = nextFixedAnchorSlot(slots, ptr, cur.NextStart, loc)
		}

		// resolution_failure (§7) is non-fatal: a dangling collection/item
		// reference is logged as a warning and the offending slot produces no
		// events; the build continues past it rather than aborting outright.
		items, err := resolveSource(ctxt, resolve, persist, slot.CollectionID, slot.MediaItemID)
		if err != nil {
			log.WithError(err).WithField("slot", slot.ID).
				Warn("Slot content resolution failed, skipping slot")
			ptr = (ptr + 1) % len(slots)
			cur = cur.AdvanceSlot(len(slots))
			continue
		}

		var tailPreset *common.FillerPreset
		var tailItems []common.MediaItem
		if slot.FillMode == common.FillModeBlock || slot.FillMode == common.FillModeFlood {
			tailPreset = filler.ResolvePreset(slot.Filler.Tail, channel.FillerDefaults.Tail, presets)
			if tailPreset != nil {
				tailItems, err = resolveSource(ctxt, resolve, persist, tailPreset.CollectionID, tailPreset.MediaItemID)
				if err != nil {
					log.WithError(err).WithField("slot", slot.ID).
						Warn("Tail filler preset resolution failed, proceeding without tail items")
					tailItems = nil
				}
			}
		}

		result, ok := dispatch.Dispatch(items, slot, cur, playout.Seed, floodEnd, tailPreset, tailItems)
		if ok {
			accumulated = append(accumulated, result.Events...)
			cur = result.Cursor
		}

		ptr = (ptr + 1) % len(slots)
		cur = cur.AdvanceSlot(len(slots))
	}

	manualEvents, err := persist.ListManualEventsInWindow(ctxt, playoutID, now, lookahead)
	if err != nil {
		return Report{}, err
	}
	accumulated = dropOverlappingManual(accumulated, manualEvents)

	cursorJSON, err := cur.ToJSON()
	if err != nil {
		return Report{}, err
	}

	if err := persist.ApplyBuild(ctxt, playoutID, now, accumulated, cursorJSON, now); err != nil {
		_ = persist.RecordBuildFailure(ctxt, playoutID, err.Error(), now)
		buildFailures.With(prometheus.Labels{"channel_id": playout.ChannelID}).Inc()
		buildDuration.With(prometheus.Labels{"outcome": string(OutcomeFailed)}).Observe(time.Since(wallStart).Seconds())
		return Report{Outcome: OutcomeFailed, Message: err.Error()}, nil
	}

	eventsEmitted.With(prometheus.Labels{"channel_id": playout.ChannelID}).Add(float64(len(accumulated)))
	buildDuration.With(prometheus.Labels{"outcome": string(OutcomeBuilt)}).Observe(time.Since(wallStart).Seconds())

	return Report{Outcome: OutcomeBuilt, EventsEmitted: len(accumulated)}, nil
}

// Rebuild is identical to Build: the auto-suffix reap and cursor continuity
// make every build idempotent regardless of what triggered it (§4.6).
func Rebuild(
	ctxt context.Context, persist db.PersistenceManager, resolve resolver.CollectionResolver,
	clock timeutil.Clock, opts Options, playoutID string,
) (Report, error) {
	return Build(ctxt, persist, resolve, clock, opts, playoutID)
}

// nextFixedAnchorSlot finds the first slot after ptr (wrapping, excluding
// ptr) whose anchor is fixed, and returns its next fire time relative to
// after — a flood slot's flood_end (§4.6 step 4b). nil means no such slot
// exists, leaving the caller to fall back to the flood default window.
func nextFixedAnchorSlot(slots []common.Slot, ptr int, after time.Time, loc *time.Location) *time.Time {
	n := len(slots)
	for i := 1; i < n; i++ {
		candidate := slots[(ptr+i)%n]
		if candidate.Anchor == common.SlotAnchorFixed && candidate.StartTime != nil {
			fire := timeutil.NextFixedAnchor(after, *candidate.StartTime, loc)
			return &fire
		}
	}
	return nil
}

// resolveSource fetches a slot's or filler preset's content source: a
// resolved collection, or a single directly-referenced media item.
func resolveSource(
	ctxt context.Context, resolve resolver.CollectionResolver, persist db.PersistenceManager,
	collectionID, mediaItemID *string,
) ([]common.MediaItem, error) {
	if collectionID != nil {
		return resolve.Resolve(ctxt, *collectionID)
	}
	if mediaItemID != nil {
		item, err := persist.GetMediaItem(ctxt, *mediaItemID)
		if err != nil {
			return nil, err
		}
		return []common.MediaItem{item}, nil
	}
	return nil, nil
}

// dropOverlappingManual implements §9's recommended overlap policy: an
// automatic event that overlaps any manual event in the build window is
// dropped rather than persisted alongside it.
func dropOverlappingManual(events, manual []common.Event) []common.Event {
	if len(manual) == 0 {
		return events
	}
	var kept []common.Event
	for _, event := range events {
		overlaps := false
		for _, m := range manual {
			if event.Overlaps(m) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, event)
		}
	}
	return kept
}
