// Package similarity scores cached image records against an event's title
// and location. Two weight profiles exist because the resolution path and
// the "similar images" browsing path historically used different weights;
// they are kept as named profiles rather than merged.
package similarity

import (
	"strings"

	"github.com/aurinko-app/daycal/internal/imagestore"
)

// Profile is a named weight set for scoring.
type Profile struct {
	Name string

	ExactTitleWeight    float64 // normalized title queries are equal
	TitleContainsWeight float64 // one title query contains the other
	WordOverlapWeight   float64 // per overlapping whitespace-split word
	TagMatchWeight      float64 // per tag overlapping a title word
	LocationMatchWeight float64 // stored and target location overlap

	AutoAcceptThreshold float64 // resolver assigns without further checks
	MinThreshold        float64 // lowest score still counted a match
}

// ProfileResolution is the strict profile used when resolving the best
// image for an event.
func ProfileResolution() Profile {
	return Profile{
		Name:                "resolution",
		ExactTitleWeight:    3.0,
		TitleContainsWeight: 2.0,
		WordOverlapWeight:   0.5,
		TagMatchWeight:      0.3,
		LocationMatchWeight: 1.0,
		AutoAcceptThreshold: 1.5,
		MinThreshold:        0.5,
	}
}

// ProfileBrowse is the looser profile used when browsing similar images.
func ProfileBrowse() Profile {
	return Profile{
		Name:                "browse",
		ExactTitleWeight:    3.0,
		TitleContainsWeight: 2.0,
		WordOverlapWeight:   0.5,
		TagMatchWeight:      0.5,
		LocationMatchWeight: 2.0,
		AutoAcceptThreshold: 1.5,
		MinThreshold:        0.5,
	}
}

// Score rates how well a cached record matches an event described by its
// lowercase title words and optional location. Contributions are
// independent and summed, so the result does not depend on evaluation
// order. Higher is better; zero means no overlap at all.
func Score(record *imagestore.ImageRecord, titleWords []string, locationQuery string, profile Profile) float64 {
	score := 0.0

	targetTitle := strings.TrimSpace(strings.ToLower(strings.Join(titleWords, " ")))
	recordTitle := strings.TrimSpace(strings.ToLower(record.TitleQuery))

	switch {
	case recordTitle != "" && recordTitle == targetTitle:
		score += profile.ExactTitleWeight
	case recordTitle != "" && targetTitle != "" &&
		(strings.Contains(recordTitle, targetTitle) || strings.Contains(targetTitle, recordTitle)):
		score += profile.TitleContainsWeight
	default:
		score += profile.WordOverlapWeight * float64(overlappingWords(recordTitle, titleWords))
	}

	for _, tag := range record.Tags {
		if tagMatchesAnyWord(tag, titleWords) {
			score += profile.TagMatchWeight
		}
	}

	if locationsOverlap(record.LocationQuery, locationQuery) {
		score += profile.LocationMatchWeight
	}

	return score
}

// overlappingWords counts words of the record title that appear among the
// event's title words.
func overlappingWords(recordTitle string, titleWords []string) int {
	if recordTitle == "" || len(titleWords) == 0 {
		return 0
	}
	recordWords := strings.Fields(recordTitle)
	count := 0
	for _, rw := range recordWords {
		for _, tw := range titleWords {
			if rw == strings.ToLower(tw) {
				count++
				break
			}
		}
	}
	return count
}

// tagMatchesAnyWord reports whether the tag substring-overlaps any title
// word in either direction, case-insensitive.
func tagMatchesAnyWord(tag string, titleWords []string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, word := range titleWords {
		word = strings.ToLower(word)
		if word == "" {
			continue
		}
		if strings.Contains(tag, word) || strings.Contains(word, tag) {
			return true
		}
	}
	return false
}

// locationsOverlap reports whether the stored and target location queries
// substring-overlap in either direction, case-insensitive. Empty values
// never match.
func locationsOverlap(stored, target string) bool {
	stored = strings.ToLower(strings.TrimSpace(stored))
	target = strings.ToLower(strings.TrimSpace(target))
	if stored == "" || target == "" {
		return false
	}
	return strings.Contains(stored, target) || strings.Contains(target, stored)
}

// TitleWords splits an event title into lowercase words for scoring.
func TitleWords(title string) []string {
	return strings.Fields(strings.ToLower(title))
}
