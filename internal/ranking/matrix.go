package ranking

import (
	"strings"

	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// skillIndex looks up a candidate's merged skills by job-posting name.
type skillIndex struct {
	exact     map[string]*types.SkillAssessment
	canonical map[string]*types.SkillAssessment
	aliases   map[string]string
}

// newSkillIndex indexes skills by lowercased name and by canonical key.
// Skills arrive strongest first, so the first entry for a key wins.
func newSkillIndex(skills []types.SkillAssessment, aliases map[string]string) *skillIndex {
	idx := &skillIndex{
		exact:     make(map[string]*types.SkillAssessment, len(skills)),
		canonical: make(map[string]*types.SkillAssessment, len(skills)),
		aliases:   make(map[string]string, len(aliases)),
	}
	for i := range skills {
		s := &skills[i]
		if key := exactKey(s.Name); key != "" {
			if _, ok := idx.exact[key]; !ok {
				idx.exact[key] = s
			}
		}
		if key := parsing.SkillKey(s.Name); key != "" {
			if _, ok := idx.canonical[key]; !ok {
				idx.canonical[key] = s
			}
		}
	}
	for alias, skill := range aliases {
		idx.aliases[parsing.NormalizeText(alias)] = skill
	}
	return idx
}

// lookup matches a job skill name: case-insensitive exact name first, then
// the built-in normalization table, then the configured alias table.
// There is no fuzzy fallback.
func (idx *skillIndex) lookup(name string) *types.SkillAssessment {
	if s, ok := idx.exact[exactKey(name)]; ok {
		return s
	}
	if s, ok := idx.canonical[parsing.SkillKey(name)]; ok {
		return s
	}
	target, ok := idx.aliases[parsing.NormalizeText(name)]
	if !ok {
		return nil
	}
	if s, ok := idx.exact[exactKey(target)]; ok {
		return s
	}
	return idx.canonical[parsing.SkillKey(target)]
}

// requirementKey identifies a job skill for deduplication, so that "JS"
// and "JavaScript" in one posting count once.
func (idx *skillIndex) requirementKey(name string) string {
	if target, ok := idx.aliases[parsing.NormalizeText(name)]; ok {
		return parsing.SkillKey(target)
	}
	return parsing.SkillKey(name)
}

func exactKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
