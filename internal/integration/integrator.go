// Package integration merges a resume with matched external profiles into
// one confidence-scored candidate profile.
package integration

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/resolve"
	"github.com/jonathan/candidate-enrichment/internal/skills"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// candidateNamespace scopes the name-based candidate identifiers.
var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("candidate-enrichment/candidate"))

// Result is the output of one integration run.
type Result struct {
	Profile          types.UnifiedCandidateProfile
	Warnings         []types.Warning
	Resolutions      []types.Resolution
	SourcesUsed      types.SourceSet
	ProfilesUsed     int
	ProfilesExcluded int
}

// Integrator merges resume and profile evidence. It holds only immutable
// configuration and is safe for concurrent use.
type Integrator struct {
	cfg      config.IntegrationConfig
	resolver *resolve.Resolver
	analyzer *skills.Analyzer
	now      func() time.Time
}

// Option configures an Integrator.
type Option func(*Integrator)

// WithClock sets the reference time for recency and ongoing employment.
func WithClock(now func() time.Time) Option {
	return func(i *Integrator) {
		i.now = now
	}
}

// New creates an Integrator with its resolver and skill analyzer.
func New(cfg config.Config, opts ...Option) *Integrator {
	i := &Integrator{
		cfg:      cfg.Integration,
		resolver: resolve.New(cfg.Resolver),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.analyzer = skills.NewAnalyzer(cfg.Skills, skills.WithClock(i.now))
	return i
}

// acceptedProfile is a profile that passed validation and the match floor.
type acceptedProfile struct {
	types.ExternalProfileRecord
	index   int
	recency *float64
}

// Integrate merges the resume with the given profiles. Invalid profiles and
// profiles below the match-confidence floor are skipped with a warning;
// missing fields never abort the merge.
func (i *Integrator) Integrate(resume types.ResumeRecord, profiles []types.ExternalProfileRecord) *Result {
	res := &Result{SourcesUsed: types.NewSourceSet(types.SourceResume)}
	now := i.now()

	var accepted []acceptedProfile
	for idx, p := range profiles {
		index := idx
		if err := checkProfile(p); err != nil {
			res.Warnings = append(res.Warnings, types.Warning{
				Code:         types.WarningInvalidProfile,
				Message:      err.Error(),
				Source:       p.Source,
				ProfileIndex: &index,
			})
			res.ProfilesExcluded++
			continue
		}
		if p.MatchConfidence < i.cfg.MinMatchConfidence {
			res.Warnings = append(res.Warnings, types.Warning{
				Code:         types.WarningSourceExcluded,
				Message:      fmt.Sprintf("match confidence %.2f is below the %.2f floor", p.MatchConfidence, i.cfg.MinMatchConfidence),
				Source:       p.Source,
				ProfileIndex: &index,
			})
			res.ProfilesExcluded++
			continue
		}
		accepted = append(accepted, acceptedProfile{
			ExternalProfileRecord: p,
			index:                 idx,
			recency:               i.recency(p.Attributes.LastActive, now),
		})
		res.SourcesUsed = res.SourcesUsed.Add(p.Source)
	}
	res.ProfilesUsed = len(accepted)

	profile := &res.Profile
	profile.Name = i.resolveField(res, config.FieldName, resume.Name, accepted, func(a types.ProfileAttributes) string { return a.DisplayName })
	profile.Email = i.resolveField(res, config.FieldEmail, resume.Email, accepted, func(a types.ProfileAttributes) string { return a.Email })
	profile.Phone = i.resolveField(res, config.FieldPhone, resume.Phone, accepted, func(types.ProfileAttributes) string { return "" })
	profile.Location = i.resolveField(res, config.FieldLocation, resume.Location, accepted, func(a types.ProfileAttributes) string { return a.Location })
	profile.Bio = i.resolveField(res, config.FieldBio, types.Absent[string](), accepted, profileBio)

	for _, field := range []struct {
		name  string
		value types.ConfidenceValue[string]
	}{
		{config.FieldName, profile.Name},
		{config.FieldEmail, profile.Email},
	} {
		if !field.value.Present() {
			res.Warnings = append(res.Warnings, types.Warning{
				Code:    types.WarningMissingIdentity,
				Message: fmt.Sprintf("no source provided a value for %s", field.name),
			})
		}
	}

	profile.ProfileURLs = collectLinks(resume.Links, accepted)
	profile.Skills = i.analyzer.Analyze(buildEvidence(resume, accepted))
	profile.Experience = annotateExperience(resume.Experience, accepted)
	profile.Education = annotateEducation(resume.Education, accepted)
	profile.EmploymentGaps = findGaps(resume.Experience, now, i.cfg.GapThresholdDays)
	profile.Activity = i.summarizeActivity(accepted)
	profile.OverallConfidence = i.overallConfidence(profile)
	profile.CandidateID = CandidateID(profile.Name.OrZero(), profile.Email.OrZero(), profile.Phone.OrZero())

	return res
}

// resolveField gathers the resume value and one candidate per accepted
// profile, then resolves them with the field's configured strategy.
func (i *Integrator) resolveField(
	res *Result,
	field string,
	fromResume types.ConfidenceValue[string],
	accepted []acceptedProfile,
	extract func(types.ProfileAttributes) string,
) types.ConfidenceValue[string] {
	candidates := []types.ConfidenceValue[string]{fromResume}
	for _, p := range accepted {
		v := strings.TrimSpace(extract(p.Attributes))
		if v == "" {
			continue
		}
		candidates = append(candidates, types.Known(v, p.MatchConfidence, p.Source))
	}

	strategy, ok := i.cfg.FieldStrategies[field]
	if !ok {
		strategy = types.StrategyHighestConfidence
	}

	value, rec := resolve.ResolveText(i.resolver, field, candidates, strategy)
	if rec.Candidates > 0 {
		res.Resolutions = append(res.Resolutions, rec)
	}
	return value
}

// profileBio prefers the free-text bio, falling back to a headline.
func profileBio(a types.ProfileAttributes) string {
	if strings.TrimSpace(a.Bio) != "" {
		return a.Bio
	}
	return a.Headline
}

// recency maps a last-active date to [0,1]: 1 when active now, falling
// linearly to 0 at the configured window. Unknown dates return nil.
func (i *Integrator) recency(lastActive *time.Time, now time.Time) *float64 {
	if lastActive == nil || lastActive.IsZero() {
		return nil
	}
	days := now.Sub(*lastActive).Hours() / 24
	score := types.ClampConfidence(1 - days/float64(i.cfg.RecentActivityDays))
	return &score
}

// buildEvidence turns accepted profiles into skill analyzer input.
// Languages are visited in sorted order so results are reproducible.
func buildEvidence(resume types.ResumeRecord, accepted []acceptedProfile) skills.EvidenceInput {
	in := skills.EvidenceInput{
		Claims:     resume.Skills,
		Experience: resume.Experience,
	}
	for _, p := range accepted {
		for _, lang := range sortedKeys(p.LanguageUsage) {
			in.Usage = append(in.Usage, skills.LanguageUsage{
				Source:          p.Source,
				Language:        lang,
				Percent:         p.LanguageUsage[lang],
				MatchConfidence: p.MatchConfidence,
				Recency:         p.recency,
			})
		}
		for _, fw := range parsing.NormalizeSkillList(p.Frameworks) {
			in.Frameworks = append(in.Frameworks, skills.FrameworkSignal{
				Source:          p.Source,
				Name:            fw,
				MatchConfidence: p.MatchConfidence,
			})
		}
	}
	return in
}

// collectLinks merges resume links with profile URLs, dropping duplicates.
func collectLinks(resumeLinks []types.ProfileLink, accepted []acceptedProfile) []types.ProfileLink {
	links := make([]types.ProfileLink, 0, len(resumeLinks)+len(accepted))
	seen := make(map[string]bool)
	add := func(l types.ProfileLink) {
		key := strings.TrimSuffix(parsing.NormalizeText(l.URL), "/")
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		links = append(links, l)
	}
	for _, l := range resumeLinks {
		add(l)
	}
	for _, p := range accepted {
		add(types.ProfileLink{Source: p.Source, URL: strings.TrimSpace(p.Attributes.ProfileURL)})
	}
	return links
}

// overallConfidence averages the core personal fields (absent counts as 0)
// with the top-N skill confidences.
func (i *Integrator) overallConfidence(p *types.UnifiedCandidateProfile) float64 {
	values := []float64{p.Name.Confidence, p.Email.Confidence, p.Phone.Confidence, p.Location.Confidence}
	for idx, s := range p.Skills {
		if idx >= i.cfg.TopNSkills {
			break
		}
		values = append(values, s.Confidence)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return types.ClampConfidence(sum / float64(len(values)))
}

// CandidateID derives a stable identifier from resolved identity fields.
func CandidateID(name, email, phone string) uuid.UUID {
	key := strings.Join([]string{
		parsing.NormalizeText(name),
		parsing.NormalizeText(email),
		parsing.NormalizeText(phone),
	}, "|")
	return uuid.NewSHA1(candidateNamespace, []byte(key))
}

// checkProfile performs structural validation of one profile record.
func checkProfile(p types.ExternalProfileRecord) error {
	if p.Source != types.SourceCodeProfile && p.Source != types.SourceNetworkProfile {
		return fmt.Errorf("unsupported profile source %q", p.Source)
	}
	if math.IsNaN(p.MatchConfidence) || p.MatchConfidence < 0 || p.MatchConfidence > 1 {
		return fmt.Errorf("match confidence %v is outside [0, 1]", p.MatchConfidence)
	}
	for _, lang := range sortedKeys(p.LanguageUsage) {
		pct := p.LanguageUsage[lang]
		if math.IsNaN(pct) || pct < 0 || pct > 100 {
			return fmt.Errorf("language usage for %s is %v, expected a percentage", lang, pct)
		}
	}
	if p.Attributes.RepositoryCount < 0 || p.Attributes.TotalStars < 0 || p.Attributes.Followers < 0 {
		return fmt.Errorf("repository statistics must be non-negative")
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
