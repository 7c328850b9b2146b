package integration

import (
	"sort"
	"time"

	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// annotateExperience marks experience entries corroborated by a profile
// whose company matches or whose headline names the company.
func annotateExperience(entries []types.ExperienceEntry, accepted []acceptedProfile) []types.AnnotatedExperience {
	out := make([]types.AnnotatedExperience, 0, len(entries))
	for _, e := range entries {
		annotated := types.AnnotatedExperience{ExperienceEntry: e}
		for _, p := range accepted {
			if parsing.NormalizeText(e.Company) == "" {
				break
			}
			if parsing.EqualText(p.Attributes.Company, e.Company) || parsing.ContainsText(p.Attributes.Headline, e.Company) {
				annotated.CorroboratedBy = annotated.CorroboratedBy.Add(p.Source)
			}
		}
		out = append(out, annotated)
	}
	return out
}

// annotateEducation marks education entries whose institution appears in
// a profile's institution list.
func annotateEducation(entries []types.EducationEntry, accepted []acceptedProfile) []types.AnnotatedEducation {
	out := make([]types.AnnotatedEducation, 0, len(entries))
	for _, e := range entries {
		annotated := types.AnnotatedEducation{EducationEntry: e}
		for _, p := range accepted {
			for _, inst := range p.Attributes.Institutions {
				if parsing.ContainsText(inst, e.Institution) || parsing.ContainsText(e.Institution, inst) {
					annotated.CorroboratedBy = annotated.CorroboratedBy.Add(p.Source)
					break
				}
			}
		}
		out = append(out, annotated)
	}
	return out
}

type datedEntry struct {
	company string
	r       parsing.DateRange
}

// findGaps reports periods longer than thresholdDays between consecutive
// jobs. Overlapping jobs extend coverage; undated entries are ignored.
func findGaps(entries []types.ExperienceEntry, now time.Time, thresholdDays int) []types.EmploymentGap {
	dated := make([]datedEntry, 0, len(entries))
	for _, e := range entries {
		r, err := parsing.ParseDateRange(e.StartDate, e.EndDate, now)
		if err != nil {
			continue
		}
		dated = append(dated, datedEntry{company: e.Company, r: r})
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].r.Start.Before(dated[j].r.Start)
	})

	gaps := []types.EmploymentGap{}
	if len(dated) < 2 {
		return gaps
	}

	coveredUntil := dated[0].r.End
	lastCompany := dated[0].company
	for _, d := range dated[1:] {
		days := int(d.r.Start.Sub(coveredUntil).Hours() / 24)
		if days > thresholdDays {
			gaps = append(gaps, types.EmploymentGap{
				After:     lastCompany,
				Before:    d.company,
				StartDate: coveredUntil.Format("2006-01-02"),
				EndDate:   d.r.Start.Format("2006-01-02"),
				Days:      days,
			})
		}
		if d.r.End.After(coveredUntil) {
			coveredUntil = d.r.End
			lastCompany = d.company
		}
	}
	return gaps
}
