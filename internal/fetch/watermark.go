package fetch

import (
	"strconv"
	"strings"

	"github.com/rohunvora/twitter-feedback/internal/twitter"
)

// Mode selects the pagination direction of a pass.
type Mode string

const (
	// ModeForward fetches tweets strictly newer than the newest watermark.
	ModeForward Mode = "forward"
	// ModeBackfill fetches tweets strictly older than the oldest watermark.
	ModeBackfill Mode = "backfill"
)

// Bounds are the ID limits applied to every page of a single pass.
type Bounds struct {
	SinceID string // lower bound, exclusive (forward mode)
	UntilID string // upper bound, exclusive (backfill mode)
}

// PageBounds computes the pagination bounds for a pass from the stored
// watermarks. Forward mode fetches everything after newest (from the beginning
// when newest is empty). Backfill mode fetches everything before oldest; an
// empty oldest means there is nothing to backfill from and the caller decides
// whether a fallback boundary exists.
func PageBounds(mode Mode, newest, oldest string) Bounds {
	if mode == ModeBackfill {
		return Bounds{UntilID: oldest}
	}
	return Bounds{SinceID: newest}
}

// ShouldContinue reports whether pagination should request another page:
// the API must advertise a continuation token and the page must be non-empty.
func ShouldContinue(page *twitter.Page) bool {
	return page.HasMore && len(page.Tweets) > 0
}

// advanceNewest returns the forward watermark after a successful forward pass.
// The newest boundary only ever moves forward.
func advanceNewest(current, runMax string) (string, bool) {
	if runMax == "" {
		return current, false
	}
	if current == "" || compareIDs(runMax, current) > 0 {
		return runMax, true
	}
	return current, false
}

// regressOldest returns the backward watermark after a successful backfill
// pass. The oldest boundary only ever moves backward.
func regressOldest(current, runMin string) (string, bool) {
	if runMin == "" {
		return current, false
	}
	if current == "" || compareIDs(runMin, current) < 0 {
		return runMin, true
	}
	return current, false
}

// compareIDs orders two tweet IDs. Snowflake IDs are numeric, so compare as
// integers; anything unparseable falls back to length-then-lexicographic,
// which preserves numeric order for decimal strings of any size.
func compareIDs(a, b string) int {
	ai, aerr := strconv.ParseUint(a, 10, 64)
	bi, berr := strconv.ParseUint(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
