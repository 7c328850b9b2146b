package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-enrichment/internal/ranking"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

func sampleResult() *types.EnrichedProfileResult {
	years := 5.4
	return &types.EnrichedProfileResult{
		Profile: types.UnifiedCandidateProfile{
			CandidateID: uuid.MustParse("3f1c2a5e-9d0b-5a7e-8c11-2b4d6f8a0c13"),
			Name:        types.Known("Ada Lovelace", 0.95, types.SourceResume),
			Email:       types.Known("ada@example.com", 0.9, types.SourceResume, types.SourceCodeProfile),
			Phone:       types.Absent[string](),
			Location:    types.Known("London", 0.8, types.SourceNetworkProfile),
			Skills: []types.SkillAssessment{
				{Name: "Python", Proficiency: types.ProficiencyExpert, Confidence: 0.92, EvidenceSources: types.NewSourceSet(types.SourceResume, types.SourceCodeProfile), EstimatedYears: &years},
				{Name: "Docker", Proficiency: types.ProficiencyIntermediate, Confidence: 0.4, EvidenceSources: types.NewSourceSet(types.SourceResume)},
			},
			EmploymentGaps:    []types.EmploymentGap{{After: "Globex", Before: "Acme Corp", Days: 365}},
			Activity:          types.ActivitySummary{TotalRepositories: 12, TotalStars: 40, ActivityScore: 0.6, ProfilesConsidered: 1},
			OverallConfidence: 0.71,
		},
		JobMatch: &types.JobRelevance{
			RelevanceScore:   0.75,
			MatchPercentage:  0.5,
			Gaps:             []string{"AWS"},
			Strengths:        []string{"Python"},
			ImprovementAreas: []string{},
		},
		Metadata: types.EnrichmentMetadata{
			Warnings: []types.Warning{{Code: types.WarningSourceExcluded, Message: "profile 1 below match threshold"}},
		},
	}
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&sampleResult().Profile)
	output := buf.String()

	assert.Contains(t, output, "UNIFIED CANDIDATE PROFILE")
	assert.Contains(t, output, "Ada Lovelace (0.95, resume)")
	assert.Contains(t, output, "Phone:     (absent)")
	assert.Contains(t, output, "Repositories: 12")
	assert.Contains(t, output, "Globex → Acme Corp (365 days)")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil)
	p.PrintJobMatch(nil)
	p.PrintResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkills(sampleResult().Profile.Skills)
	output := buf.String()

	assert.Contains(t, output, "TOP SKILLS")
	assert.Contains(t, output, "Skills assessed: 2")
	assert.Contains(t, output, "Docker")

	// years survive even when the source list runs past the box edge
	var pythonLine string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Python") {
			pythonLine = line
		}
	}
	assert.Contains(t, pythonLine, "5.4y")
	assert.Contains(t, pythonLine, "[resume+")
}

func TestPrintSkills_Truncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	skills := make([]types.SkillAssessment, 8)
	for i := range skills {
		skills[i] = types.SkillAssessment{Name: "Skill", Proficiency: types.ProficiencyBeginner}
	}
	p.PrintSkills(skills)

	assert.Contains(t, buf.String(), "... and 3 more skills")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(sampleResult())
	output := buf.String()

	assert.Contains(t, output, "JOB MATCH")
	assert.Contains(t, output, "Relevance: 0.75")
	assert.Contains(t, output, "Required skills matched: 50%")
	assert.Contains(t, output, "Gaps: AWS")
	assert.NotContains(t, output, "Improve:")
	assert.Contains(t, output, "WARNINGS")
	assert.Contains(t, output, "source_excluded")
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRanking([]ranking.RankedCandidate{
		{Name: "Ada Lovelace", RelevanceScore: 0.9, MatchPercentage: 1, Notes: "All required skills present"},
		{CandidateID: "c-2", RelevanceScore: 0.3, MatchPercentage: 0.5},
	})
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE RANKING")
	assert.Contains(t, output, "#1  Ada Lovelace")
	assert.Contains(t, output, "#2  c-2")
	assert.Contains(t, output, "Match: 100%")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
