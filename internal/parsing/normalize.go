// Package parsing normalizes free-text values (skill names, field values, dates)
// so that evidence from different sources can be compared.
package parsing

import (
	"strings"
	"unicode"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":              "Go",
	"go lang":             "Go",
	"go":                  "Go",
	"javascript":          "JavaScript",
	"js":                  "JavaScript",
	"ecmascript":          "JavaScript",
	"typescript":          "TypeScript",
	"ts":                  "TypeScript",
	"python":              "Python",
	"python3":             "Python",
	"py":                  "Python",
	"c++":                 "C++",
	"cpp":                 "C++",
	"c#":                  "C#",
	"csharp":              "C#",
	"objective-c":         "Objective-C",
	"k8s":                 "Kubernetes",
	"kubernetes":          "Kubernetes",
	"react.js":            "React",
	"reactjs":             "React",
	"react":               "React",
	"vue.js":              "Vue",
	"vuejs":               "Vue",
	"angular.js":          "Angular",
	"angularjs":           "Angular",
	"node.js":             "Node.js",
	"nodejs":              "Node.js",
	"node":                "Node.js",
	"next.js":             "Next.js",
	"nextjs":              "Next.js",
	"express.js":          "Express",
	"expressjs":           "Express",
	"postgres":            "PostgreSQL",
	"postgresql":          "PostgreSQL",
	"psql":                "PostgreSQL",
	"mysql":               "MySQL",
	"mongo":               "MongoDB",
	"mongodb":             "MongoDB",
	"redis":               "Redis",
	"sql":                 "SQL",
	"nosql":               "NoSQL",
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"gcp":                 "GCP",
	"google cloud":        "GCP",
	"azure":               "Azure",
	"docker":              "Docker",
	"terraform":           "Terraform",
	"graphql":             "GraphQL",
	"html":                "HTML",
	"html5":               "HTML",
	"css":                 "CSS",
	"css3":                "CSS",
	"scikit-learn":        "scikit-learn",
	"sklearn":             "scikit-learn",
	"tensorflow":          "TensorFlow",
	"pytorch":             "PyTorch",
	"ci/cd":               "CI/CD",
	"github actions":      "GitHub Actions",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	if skillName == "" {
		return ""
	}

	// Trim and collapse inner whitespace
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	// Check for exact match in normalization map (case-insensitive)
	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case or all caps (acronyms) are kept as written
	if normalized != lower {
		return normalized
	}

	// If all lowercase and single word, capitalize first letter
	if !strings.Contains(normalized, " ") {
		runes := []rune(normalized)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}

	return normalized
}

// SkillKey returns the comparison key for a skill name: the canonical
// name, lowercased.
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// NormalizeText folds a free-text field value for equality checks:
// lowercase, whitespace collapsed, and no whitespace next to punctuation.
// "San Francisco, CA" and "san francisco,ca" normalize identically.
func NormalizeText(s string) string {
	collapsed := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if collapsed == "" {
		return ""
	}

	runes := []rune(collapsed)
	var b strings.Builder
	b.Grow(len(collapsed))
	for i, r := range runes {
		if r == ' ' && (isSeparator(runes[i-1]) || isSeparator(runes[i+1])) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// EqualText reports whether two values are equal after NormalizeText.
func EqualText(a, b string) bool {
	return NormalizeText(a) == NormalizeText(b)
}

// ContainsText reports whether needle appears in haystack after both are
// normalized. An empty needle never matches.
func ContainsText(haystack, needle string) bool {
	n := NormalizeText(needle)
	if n == "" {
		return false
	}
	return strings.Contains(NormalizeText(haystack), n)
}

// NormalizeSkillList canonicalizes and deduplicates skill names, keeping
// the first occurrence of each.
func NormalizeSkillList(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		canonical := NormalizeSkillName(name)
		if canonical == "" {
			continue // Skip empty skill names
		}
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, canonical)
	}
	return out
}
