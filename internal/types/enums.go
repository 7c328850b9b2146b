// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Strategy selects how conflicting values for one field are resolved.
type Strategy string

const (
	// StrategyResumePriority prefers the resume value when its confidence exceeds the floor.
	StrategyResumePriority Strategy = "resume_priority"
	// StrategySourcePriority applies a fixed source precedence.
	StrategySourcePriority Strategy = "source_priority"
	// StrategyHighestConfidence picks the value with the highest combined confidence.
	StrategyHighestConfidence Strategy = "highest_confidence"
)

// KnownStrategies lists every supported Strategy.
var KnownStrategies = []Strategy{StrategyResumePriority, StrategySourcePriority, StrategyHighestConfidence}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyResumePriority, StrategySourcePriority, StrategyHighestConfidence:
		return true
	}
	return false
}

// ParseStrategy converts a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown resolution strategy: %q", s)
	}
	return st, nil
}

// ProficiencyLevel is the discrete skill level derived from confidence.
type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyExpert       ProficiencyLevel = "expert"
)

// Rank orders levels from beginner (1) to expert (4). Unknown levels rank 0.
func (p ProficiencyLevel) Rank() int {
	switch p {
	case ProficiencyBeginner:
		return 1
	case ProficiencyIntermediate:
		return 2
	case ProficiencyAdvanced:
		return 3
	case ProficiencyExpert:
		return 4
	}
	return 0
}

// SkillCategory groups skills by kind.
type SkillCategory string

const (
	CategoryLanguage  SkillCategory = "language"
	CategoryFramework SkillCategory = "framework"
	CategoryDatabase  SkillCategory = "database"
	CategoryTool      SkillCategory = "tool"
)

// KnownCategories lists every SkillCategory.
var KnownCategories = []SkillCategory{CategoryLanguage, CategoryFramework, CategoryDatabase, CategoryTool}

// Valid reports whether c is a known category.
func (c SkillCategory) Valid() bool {
	switch c {
	case CategoryLanguage, CategoryFramework, CategoryDatabase, CategoryTool:
		return true
	}
	return false
}
