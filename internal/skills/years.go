package skills

import (
	"math"
	"time"

	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// estimateYears spans the earliest start to the latest end of the dated
// experience entries that list the skill among their technologies, capped and
// rounded to one decimal. Returns nil when no dated entry lists the skill.
func (a *Analyzer) estimateYears(key string, experience []types.ExperienceEntry) *float64 {
	now := a.now()
	var earliest, latest time.Time
	found := false

	for _, entry := range experience {
		if !listsSkill(entry, key) {
			continue
		}
		r, err := parsing.ParseDateRange(entry.StartDate, entry.EndDate, now)
		if err != nil {
			continue
		}
		if !found || r.Start.Before(earliest) {
			earliest = r.Start
		}
		if !found || r.End.After(latest) {
			latest = r.End
		}
		found = true
	}

	if !found {
		return nil
	}

	years := parsing.DateRange{Start: earliest, End: latest}.Years()
	years = math.Min(years, a.cfg.MaxEstimatedYears)
	years = math.Round(years*10) / 10
	return &years
}

// listsSkill reports whether an experience entry names the skill in its
// technologies. Titles and descriptions are free text and are not searched.
func listsSkill(entry types.ExperienceEntry, key string) bool {
	for _, tech := range entry.Technologies {
		if parsing.SkillKey(tech) == key {
			return true
		}
	}
	return false
}
