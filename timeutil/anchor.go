package timeutil

import "time"

// RoundToMinute truncates t down to the start of its containing minute.
func RoundToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// NextMinuteBoundary returns the earliest instant at or after from that is
// a multiple of n minutes on the UTC epoch-second axis, per §4.4's
// pad_to_boundary rounding rule.
func NextMinuteBoundary(from time.Time, n int) time.Time {
	if n <= 0 {
		return from
	}
	step := time.Duration(n) * time.Minute
	epoch := from.Unix()
	stepSecs := int64(step / time.Second)
	rem := epoch % stepSecs
	if rem == 0 {
		return from
	}
	return from.Add(time.Duration(stepSecs-rem) * time.Second)
}

// NextFixedAnchor computes the next fire time of a fixed-anchor slot whose
// time-of-day offset from local midnight is timeOfDay, relative to the
// instant after, in the zone loc (§4.7).
//
// DST transitions are deliberately unhandled at fine grain: a "day" is
// treated as exactly 24h, matching the day-is-86400-seconds assumption the
// underlying system makes. This diverges from wall-clock local time across a
// DST boundary; documented here rather than silently patched.
func NextFixedAnchor(after time.Time, timeOfDay time.Duration, loc *time.Location) time.Time {
	local := after.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	candidate := midnight.Add(timeOfDay)
	if candidate.After(after) {
		return candidate
	}
	return candidate.Add(24 * time.Hour)
}
