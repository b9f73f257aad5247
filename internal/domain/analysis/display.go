package analysis

import "strings"

var analysisHeadings = []struct{ header, heading string }{
	{HeaderFoodIdentification, "### Food Identification"},
	{HeaderNutritionalBreakdown, "### Nutritional Breakdown"},
	{HeaderHealthAssessment, "### Health Assessment"},
	{HeaderRecommendations, "### Professional Recommendations"},
}

var suggestionHeadings = []struct{ header, heading string }{
	{HeaderAvailableIngredients, "### Available Ingredients Detected"},
	{HeaderMealSuggestions, "### Meal Suggestions"},
}

// FormatForDisplay rewrites the bold section headers of a model reply into
// markdown headings. Text without the headers (e.g. translated) is returned as is.
func FormatForDisplay(kind Kind, text string) string {
	headings := suggestionHeadings
	if kind == KindMealAnalysis {
		headings = analysisHeadings
	}

	for _, h := range headings {
		text = strings.ReplaceAll(text, "**"+h.header+"**", h.heading)
	}
	return text
}
