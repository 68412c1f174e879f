package systm

import (
	"sort"
	"strings"
)

// Filters narrows a library query. The upstream catalog endpoint accepts no
// filter parameters, so everything here is evaluated client-side against the
// full fetched catalog. Nil fields mean "not filtered".
type Filters struct {
	Sport     *string
	Channel   *string
	Category  *string
	Intensity *string

	// Durations are in minutes; catalog durations are seconds.
	MinDuration *int
	MaxDuration *int

	MinTSS *int
	MaxTSS *int

	// Search is a case-insensitive substring match on the workout name.
	Search *string

	// SortBy is one of "name" (default), "duration", "tss";
	// SortDirection "asc" (default) or "desc".
	SortBy        *string
	SortDirection *string

	Limit *int

	// FourDPFocus keeps only cycling workouts whose rating for the given
	// energy system (NM, AC, MAP, FTP) is at least 4. Only honored by
	// GetCyclingWorkouts.
	FourDPFocus *string
}

// applyFilters runs the fixed evaluation order over the translated catalog:
// sport, channel, category, intensity, durations, TSS, search, then sorting,
// then limit truncation.
func applyFilters(content []LibraryContent, f *Filters) []LibraryContent {
	if f == nil {
		return content
	}

	filtered := content

	if f.Sport != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.WorkoutType != nil && strings.EqualFold(*c.WorkoutType, *f.Sport)
		})
	}
	if f.Channel != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Channel != nil && strings.EqualFold(*c.Channel, *f.Channel)
		})
	}
	if f.Category != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Category != nil && strings.EqualFold(*c.Category, *f.Category)
		})
	}
	if f.Intensity != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Intensity != nil && strings.EqualFold(*c.Intensity, *f.Intensity)
		})
	}
	if f.MinDuration != nil {
		minSeconds := *f.MinDuration * 60
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Duration != nil && *c.Duration >= minSeconds
		})
	}
	if f.MaxDuration != nil {
		maxSeconds := *f.MaxDuration * 60
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Duration != nil && *c.Duration <= maxSeconds
		})
	}
	if f.MinTSS != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Metrics != nil && c.Metrics.TSS != nil && *c.Metrics.TSS >= *f.MinTSS
		})
	}
	if f.MaxTSS != nil {
		filtered = keep(filtered, func(c LibraryContent) bool {
			return c.Metrics != nil && c.Metrics.TSS != nil && *c.Metrics.TSS <= *f.MaxTSS
		})
	}
	if f.Search != nil {
		needle := strings.ToLower(*f.Search)
		filtered = keep(filtered, func(c LibraryContent) bool {
			return strings.Contains(strings.ToLower(c.Name), needle)
		})
	}

	sortContent(filtered, f)

	if f.Limit != nil && *f.Limit >= 0 && len(filtered) > *f.Limit {
		filtered = filtered[:*f.Limit]
	}

	return filtered
}

func keep(content []LibraryContent, pred func(LibraryContent) bool) []LibraryContent {
	kept := make([]LibraryContent, 0, len(content))
	for _, c := range content {
		if pred(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func sortContent(content []LibraryContent, f *Filters) {
	sortBy := "name"
	if f.SortBy != nil {
		sortBy = *f.SortBy
	}
	desc := f.SortDirection != nil && strings.EqualFold(*f.SortDirection, "desc")

	var less func(a, b LibraryContent) bool
	switch sortBy {
	case "name":
		less = func(a, b LibraryContent) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "duration":
		less = func(a, b LibraryContent) bool {
			return durationOrZero(a) < durationOrZero(b)
		}
	case "tss":
		less = func(a, b LibraryContent) bool {
			return tssOrZero(a) < tssOrZero(b)
		}
	default:
		return
	}

	sort.SliceStable(content, func(i, j int) bool {
		if desc {
			return less(content[j], content[i])
		}
		return less(content[i], content[j])
	})
}

func durationOrZero(c LibraryContent) int {
	if c.Duration == nil {
		return 0
	}
	return *c.Duration
}

func tssOrZero(c LibraryContent) int {
	if c.Metrics == nil || c.Metrics.TSS == nil {
		return 0
	}
	return *c.Metrics.TSS
}

// filterFourDPFocus keeps entries whose rating for the given energy system is
// at least 4. An unrecognized focus value skips the filter entirely, on
// purpose: a bad focus must not turn a valid cycling query into an error.
func filterFourDPFocus(content []LibraryContent, focus string) []LibraryContent {
	system := strings.ToUpper(strings.TrimSpace(focus))
	switch system {
	case "NM", "AC", "MAP", "FTP":
	default:
		return content
	}

	kept := make([]LibraryContent, 0, len(content))
	for _, c := range content {
		if c.Metrics == nil || c.Metrics.Ratings == nil {
			continue
		}
		var rating int
		switch system {
		case "NM":
			rating = ratingOrZero(c.Metrics.Ratings.NM)
		case "AC":
			rating = ratingOrZero(c.Metrics.Ratings.AC)
		case "MAP":
			rating = ratingOrZero(c.Metrics.Ratings.MAP)
		case "FTP":
			rating = ratingOrZero(c.Metrics.Ratings.FTP)
		}
		if rating >= 4 {
			kept = append(kept, c)
		}
	}
	return kept
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}
