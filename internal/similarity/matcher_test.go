package similarity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aurinko-app/daycal/internal/imagestore"
)

func birthdayRecord() *imagestore.ImageRecord {
	return &imagestore.ImageRecord{
		ID:            "rec-1",
		TitleQuery:    "birthday party",
		LocationQuery: "New York",
		Tags:          []string{"birthday", "cake", "balloons"},
		CachedAt:      time.Now(),
	}
}

func TestScoreExactTitleAndLocation(t *testing.T) {
	record := birthdayRecord()
	score := Score(record, []string{"birthday", "party"}, "New York", ProfileResolution())

	// Exact title match alone is 3.0, location adds 1.0, plus one tag hit.
	assert.Greater(t, score, ProfileResolution().AutoAcceptThreshold,
		"exact title plus location must clear the auto-accept threshold")
	assert.InDelta(t, 3.0+1.0+0.3, score, 1e-9)
}

func TestScoreSubstringContainment(t *testing.T) {
	record := birthdayRecord()

	// "birthday" is contained in "birthday party"
	score := Score(record, []string{"birthday"}, "", ProfileResolution())
	assert.InDelta(t, 2.0+0.3, score, 1e-9)

	// Containment works in the other direction too
	record2 := &imagestore.ImageRecord{TitleQuery: "party"}
	score2 := Score(record2, []string{"birthday", "party"}, "", ProfileResolution())
	assert.InDelta(t, 2.0, score2, 1e-9)
}

func TestScoreWordOverlapFallback(t *testing.T) {
	record := &imagestore.ImageRecord{TitleQuery: "party hats galore"}

	// No containment either direction, one overlapping word
	score := Score(record, []string{"birthday", "party"}, "", ProfileResolution())
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestScoreTagOverlap(t *testing.T) {
	record := &imagestore.ImageRecord{
		TitleQuery: "unrelated",
		Tags:       []string{"cake", "birthday cake", "garden"},
	}

	// "cake" and "birthday cake" both overlap title words
	score := Score(record, []string{"birthday", "cake"}, "", ProfileResolution())
	assert.InDelta(t, 2*0.3, score, 1e-9)
}

func TestScoreLocationOnly(t *testing.T) {
	record := &imagestore.ImageRecord{LocationQuery: "Downtown New York"}

	score := Score(record, nil, "new york", ProfileResolution())
	assert.InDelta(t, 1.0, score, 1e-9)

	// Empty locations never match
	empty := &imagestore.ImageRecord{}
	assert.Zero(t, Score(empty, nil, "new york", ProfileResolution()))
	assert.Zero(t, Score(record, nil, "", ProfileResolution()))
}

func TestScoreNoMatch(t *testing.T) {
	record := &imagestore.ImageRecord{
		TitleQuery:    "mountain landscape",
		LocationQuery: "Alps",
		Tags:          []string{"snow", "peak"},
	}
	score := Score(record, []string{"birthday", "party"}, "New York", ProfileResolution())
	assert.Zero(t, score)
}

func TestProfilesDiverge(t *testing.T) {
	record := &imagestore.ImageRecord{
		TitleQuery:    "unrelated",
		LocationQuery: "New York",
		Tags:          []string{"party"},
	}
	words := []string{"birthday", "party"}

	resolution := Score(record, words, "New York", ProfileResolution())
	browse := Score(record, words, "New York", ProfileBrowse())

	// Same record, different weights: 0.3+1.0 vs 0.5+2.0
	assert.InDelta(t, 1.3, resolution, 1e-9)
	assert.InDelta(t, 2.5, browse, 1e-9)
	assert.Greater(t, browse, resolution)
}

func TestScoreOrderIndependence(t *testing.T) {
	record := birthdayRecord()
	a := Score(record, []string{"birthday", "party"}, "New York", ProfileBrowse())
	b := Score(record, []string{"party", "birthday"}, "New York", ProfileBrowse())

	// Word order changes the joined title string, but tag and location
	// contributions are independent of ordering
	assert.InDelta(t, a, b, 2.0+1e-9)
	assert.Positive(t, a)
	assert.Positive(t, b)
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t, []string{"birthday", "party"}, TitleWords("  Birthday   PARTY "))
	assert.Empty(t, TitleWords(""))
}
