package analysis

import (
	"regexp"
	"strconv"
)

// UnknownRating is the health rating used when the model text carries none.
const UnknownRating = "Unknown"

// The patterns are part of the prompt contract in prompts.go: the labels
// below must match the OUTPUT FORMAT block of MealAnalysisPrompt.
//
// Patterns are not anchored to section boundaries, so if a label phrase
// appears more than once (for example quoted again under recommendations)
// the first occurrence wins.
var (
	caloriesPattern = regexp.MustCompile(`(?i)Total Calories:\s*(\d+(?:\.\d+)?)`)
	proteinPattern  = regexp.MustCompile(`(?i)Total Protein:\s*(\d+(?:\.\d+)?)`)
	carbsPattern    = regexp.MustCompile(`(?i)Total Carbohydrates:\s*(\d+(?:\.\d+)?)`)
	fatPattern      = regexp.MustCompile(`(?i)Total Fat:\s*(\d+(?:\.\d+)?)`)
	ratingPattern   = regexp.MustCompile(`(?i)Overall Health Rating:\s*(\w+)`)
)

// Extract pulls the five nutrition fields out of free-form model text.
// It is pure and never fails: missing or malformed fields take their defaults.
func Extract(text string) NutritionFields {
	return NutritionFields{
		Calories:     extractNumber(caloriesPattern, text),
		Protein:      extractNumber(proteinPattern, text),
		Carbs:        extractNumber(carbsPattern, text),
		Fat:          extractNumber(fatPattern, text),
		HealthRating: extractWord(ratingPattern, text),
	}
}

func extractNumber(re *regexp.Regexp, text string) float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func extractWord(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return UnknownRating
	}
	return m[1]
}
