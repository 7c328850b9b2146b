// Package observability provides formatted output utilities for verbose CLI mode
// and the Prometheus metrics for enrichment.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-enrichment/internal/ranking"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// field formats one personal field as "value (confidence, sources)".
func field(v types.ConfidenceValue[string]) string {
	if !v.Present() {
		return "(absent)"
	}
	return fmt.Sprintf("%s (%.2f, %s)", v.OrZero(), v.Confidence, sourceList(v.Sources))
}

func sourceList(s types.SourceSet) string {
	tags := s.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, "+")
}

// PrintProfile outputs the merged identity fields and activity summary.
func (p *Printer) PrintProfile(profile *types.UnifiedCandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", profile.CandidateID))
	sb.WriteString(fmt.Sprintf("Name:      %s\n", field(profile.Name)))
	sb.WriteString(fmt.Sprintf("Email:     %s\n", field(profile.Email)))
	sb.WriteString(fmt.Sprintf("Phone:     %s\n", field(profile.Phone)))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", field(profile.Location)))
	sb.WriteString(fmt.Sprintf("Overall confidence: %.2f\n", profile.OverallConfidence))

	if a := profile.Activity; a.ProfilesConsidered > 0 {
		sb.WriteString(fmt.Sprintf("\nRepositories: %d  Stars: %d  Activity: %.2f\n", a.TotalRepositories, a.TotalStars, a.ActivityScore))
	}
	if len(profile.EmploymentGaps) > 0 {
		sb.WriteString("\nEmployment gaps:\n")
		for _, g := range profile.EmploymentGaps {
			sb.WriteString(fmt.Sprintf("  • %s → %s (%d days)\n", g.After, g.Before, g.Days))
		}
	}

	p.printBox("UNIFIED CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs the strongest merged skills.
func (p *Printer) PrintSkills(skills []types.SkillAssessment) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills assessed: %d\n\n", len(skills)))

	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := skills[i]
		years := "-"
		if s.EstimatedYears != nil {
			years = fmt.Sprintf("%.1fy", *s.EstimatedYears)
		}
		// sources last: printBox cuts the line at the box edge
		sb.WriteString(fmt.Sprintf("%-14s %-12s %.2f %5s  [%s]\n",
			truncate(s.Name, 14), s.Proficiency, s.Confidence, years, sourceList(s.EvidenceSources)))
	}

	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more skills", len(skills)-maxItemsToShow))
	}

	p.printBox("TOP SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobMatch outputs the job relevance breakdown.
func (p *Printer) PrintJobMatch(match *types.JobRelevance) {
	if match == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Relevance: %.2f\n", match.RelevanceScore))
	sb.WriteString(fmt.Sprintf("Required skills matched: %.0f%%\n", match.MatchPercentage*100))
	if len(match.Gaps) > 0 {
		sb.WriteString(fmt.Sprintf("Gaps: %s\n", strings.Join(match.Gaps, ", ")))
	}
	if len(match.Strengths) > 0 {
		sb.WriteString(fmt.Sprintf("Strengths: %s\n", strings.Join(match.Strengths, ", ")))
	}
	if len(match.ImprovementAreas) > 0 {
		sb.WriteString(fmt.Sprintf("Improve: %s\n", strings.Join(match.ImprovementAreas, ", ")))
	}

	p.printBox("JOB MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs integration warnings.
func (p *Printer) PrintWarnings(warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s: %s\n", w.Code, w.Message))
	}
	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult prints every section of an enrichment result.
func (p *Printer) PrintResult(result *types.EnrichedProfileResult) {
	if result == nil {
		return
	}
	p.PrintProfile(&result.Profile)
	p.PrintSkills(result.Profile.Skills)
	p.PrintJobMatch(result.JobMatch)
	p.PrintWarnings(result.Metadata.Warnings)
}

// PrintRanking outputs a candidate shortlist.
func (p *Printer) PrintRanking(ranked []ranking.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	for i, r := range ranked {
		name := r.Name
		if name == "" {
			name = r.CandidateID
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Relevance: %.2f  Match: %.0f%%\n", r.RelevanceScore, r.MatchPercentage*100))
		if r.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", r.Notes))
		}
	}
	p.printBox("CANDIDATE RANKING", strings.TrimSuffix(sb.String(), "\n"))
}
