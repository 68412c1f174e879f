package systm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libContent(name string, durationSeconds int, tss int) LibraryContent {
	return LibraryContent{
		ID:       "id-" + name,
		Name:     name,
		Duration: intPtr(durationSeconds),
		Metrics:  &LibraryMetrics{TSS: intPtr(tss)},
	}
}

func contentNames(content []LibraryContent) []string {
	names := make([]string, 0, len(content))
	for _, c := range content {
		names = append(names, c.Name)
	}
	return names
}

func TestApplyFilters_nilFilters(t *testing.T) {
	content := []LibraryContent{libContent("b", 100, 10), libContent("a", 200, 20)}
	// nil filters means passthrough, not even default sorting
	assert.Equal(t, content, applyFilters(content, nil))
}

func TestApplyFilters_defaultSortByName(t *testing.T) {
	content := []LibraryContent{
		libContent("The Omnium", 3600, 80),
		libContent("angels", 3000, 70),
		libContent("Butter", 2400, 40),
	}
	got := applyFilters(content, &Filters{})
	// name sort is case-insensitive
	assert.Equal(t, []string{"angels", "Butter", "The Omnium"}, contentNames(got))
}

func TestApplyFilters_durationBounds(t *testing.T) {
	content := []LibraryContent{
		libContent("Short", 1800, 30),  // 30m
		libContent("Medium", 5400, 60), // 90m
		libContent("NoDuration", 0, 50),
	}
	content[2].Duration = nil

	minDuration := 45
	got := applyFilters(content, &Filters{MinDuration: &minDuration})
	// min_duration is minutes, catalog durations are seconds: 45m keeps the
	// 5400s workout and drops the 1800s one; missing duration never matches
	assert.Equal(t, []string{"Medium"}, contentNames(got))
}

func TestApplyFilters_tssAndSearch(t *testing.T) {
	content := []LibraryContent{
		libContent("Nine Hammers", 3500, 90),
		libContent("The Shovel", 3600, 95),
		libContent("Recharger", 1800, 20),
	}

	minTSS := 80
	search := "hammer"
	got := applyFilters(content, &Filters{MinTSS: &minTSS, Search: &search})
	assert.Equal(t, []string{"Nine Hammers"}, contentNames(got))
}

func TestApplyFilters_sortThenLimit(t *testing.T) {
	content := []LibraryContent{
		libContent("A", 1000, 10),
		libContent("B", 3000, 30),
		libContent("C", 2000, 20),
	}

	sortBy := "duration"
	direction := "desc"
	limit := 2
	got := applyFilters(content, &Filters{SortBy: &sortBy, SortDirection: &direction, Limit: &limit})
	// limit truncates AFTER sorting: the two longest, longest first
	assert.Equal(t, []string{"B", "C"}, contentNames(got))
}

func TestApplyFilters_sportChannelIntensity(t *testing.T) {
	cycling := "Cycling"
	yoga := "Yoga"
	sufChannel := "The Sufferfest"
	high := "High"

	content := []LibraryContent{
		{ID: "1", Name: "ride", WorkoutType: &cycling, Channel: &sufChannel, Intensity: &high},
		{ID: "2", Name: "stretch", WorkoutType: &yoga, Channel: &sufChannel},
		{ID: "3", Name: "ride no channel", WorkoutType: &cycling},
	}

	sport := "cycling" // case-insensitive
	channel := "The Sufferfest"
	got := applyFilters(content, &Filters{Sport: &sport, Channel: &channel})
	assert.Equal(t, []string{"ride"}, contentNames(got))

	intensity := "high"
	got = applyFilters(content, &Filters{Intensity: &intensity})
	assert.Equal(t, []string{"ride"}, contentNames(got))
}

func TestFilterFourDPFocus(t *testing.T) {
	withRatings := func(name string, mapRating int) LibraryContent {
		return LibraryContent{
			Name: name,
			Metrics: &LibraryMetrics{
				Ratings: &WorkoutRatings{MAP: intPtr(mapRating)},
			},
		}
	}

	content := []LibraryContent{
		withRatings("hard map", 5),
		withRatings("moderate map", 3),
		{Name: "no metrics"},
	}

	got := filterFourDPFocus(content, "map")
	require.Len(t, got, 1)
	assert.Equal(t, "hard map", got[0].Name)

	// rating must be at least 4; entries without ratings are excluded
	got = filterFourDPFocus(content, " MAP ")
	require.Len(t, got, 1)

	// an unrecognized focus skips the filter instead of erroring
	got = filterFourDPFocus(content, "VO2")
	assert.Len(t, got, 3)
}
