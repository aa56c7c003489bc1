package timeutil_test

import (
	"testing"
	"time"

	"github.com/pseudovision/pseudovision/timeutil"
	"github.com/stretchr/testify/assert"
)

func TestNextFixedAnchorFuture(t *testing.T) {
	assert := assert.New(t)
	after := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got := timeutil.NextFixedAnchor(after, 18*time.Hour, time.UTC)
	assert.Equal(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), got)
}

func TestNextFixedAnchorRollsToNextDay(t *testing.T) {
	assert := assert.New(t)
	after := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got := timeutil.NextFixedAnchor(after, 6*time.Hour, time.UTC)
	assert.Equal(time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC), got)
}

func TestNextFixedAnchorExactlyAtCandidateRollsForward(t *testing.T) {
	assert := assert.New(t)
	after := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	got := timeutil.NextFixedAnchor(after, 6*time.Hour, time.UTC)
	assert.Equal(time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC), got)
}

func TestNextMinuteBoundaryAlreadyAligned(t *testing.T) {
	assert := assert.New(t)
	from := time.Unix(600, 0).UTC()
	assert.Equal(from, timeutil.NextMinuteBoundary(from, 10))
}

func TestNextMinuteBoundaryRoundsUp(t *testing.T) {
	assert := assert.New(t)
	from := time.Unix(605, 0).UTC()
	got := timeutil.NextMinuteBoundary(from, 10)
	assert.Equal(time.Unix(600+10*60, 0).UTC(), got)
}
