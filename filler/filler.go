// Package filler implements §4.4: selecting filler items to bridge a time
// gap using one of three fill algorithms: Duration, Count and PadToBoundary.
// The random_count filler mode has no fill algorithm in this package.
package filler

import (
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/enumerator"
	"github.com/pseudovision/pseudovision/timeutil"
)

// Duration repeatedly draws items from enum, starting at from, stopping
// before any item would cross to (no partial items). It emits events of
// kind role, all sharing guideGroup, and returns the advanced enumerator
// and the instant filling actually stopped at.
//
// An empty item vector terminates immediately with no events and no
// enumerator advance (§4.4).
func Duration(
	items []common.MediaItem, enum enumerator.Enumerator, from, to time.Time,
	role common.FillerRole, guideGroup int,
) ([]common.Event, enumerator.Enumerator, time.Time) {
	if len(items) == 0 || !from.Before(to) {
		return nil, enum, from
	}

	var events []common.Event
	cur := from
	for {
		item, next, ok := enum.NextPlayable()
		if !ok {
			break
		}
		finish := cur.Add(item.Duration)
		if finish.After(to) {
			break
		}
		events = append(events, common.Event{
			MediaItemID: item.ID, Kind: common.EventKind(role),
			StartAt: cur, FinishAt: finish, GuideGroup: guideGroup,
		})
		cur = finish
		enum = next
	}
	return events, enum, cur
}

// Count draws exactly n items back-to-back from enum starting at from,
// irrespective of end time.
func Count(
	items []common.MediaItem, enum enumerator.Enumerator, from time.Time, n int,
	role common.FillerRole, guideGroup int,
) ([]common.Event, enumerator.Enumerator, time.Time) {
	if len(items) == 0 || n <= 0 {
		return nil, enum, from
	}

	var events []common.Event
	cur := from
	for i := 0; i < n; i++ {
		item, next, ok := enum.NextPlayable()
		if !ok {
			break
		}
		finish := cur.Add(item.Duration)
		events = append(events, common.Event{
			MediaItemID: item.ID, Kind: common.EventKind(role),
			StartAt: cur, FinishAt: finish, GuideGroup: guideGroup,
		})
		cur = finish
		enum = next
	}
	return events, enum, cur
}

// PadToBoundary computes the next multiple of n minutes at or after from,
// clamps it to ceil, then delegates to Duration with that instant as the
// target (§4.4's pad_to_boundary).
func PadToBoundary(
	items []common.MediaItem, enum enumerator.Enumerator, from, ceil time.Time, n int,
	role common.FillerRole, guideGroup int,
) ([]common.Event, enumerator.Enumerator, time.Time) {
	target := timeutil.NextMinuteBoundary(from, n)
	if target.After(ceil) {
		target = ceil
	}
	return Duration(items, enum, from, target, role, guideGroup)
}

// ResolvePreset implements §4.4's resolution order: slot-level override
// first, then the channel-level default, then none (caller leaves a gap).
func ResolvePreset(
	slotOverride, channelDefault *string, presets map[string]common.FillerPreset,
) *common.FillerPreset {
	if slotOverride != nil {
		if preset, ok := presets[*slotOverride]; ok {
			return &preset
		}
	}
	if channelDefault != nil {
		if preset, ok := presets[*channelDefault]; ok {
			return &preset
		}
	}
	return nil
}
