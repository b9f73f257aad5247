package analysis

import (
	"fmt"
	"strings"
)

// PromptVersion versions the prompt templates together with the extraction
// patterns in nutrition.go and the headers below. Bump it whenever either side changes.
const PromptVersion = "2025-01"

// Section headers the model must reproduce verbatim.
const (
	HeaderFoodIdentification   = "FOOD IDENTIFICATION:"
	HeaderNutritionalBreakdown = "NUTRITIONAL BREAKDOWN:"
	HeaderHealthAssessment     = "HEALTH ASSESSMENT:"
	HeaderRecommendations      = "PROFESSIONAL RECOMMENDATIONS:"
	HeaderAvailableIngredients = "AVAILABLE INGREDIENTS DETECTED:"
	HeaderMealSuggestions      = "MEAL SUGGESTIONS:"
)

const chefPersona = `You are an expert chef and nutritionist with extensive knowledge of global cuisines and recipe creation. Your task is to analyze ingredients and suggest creative, delicious meal options.`

const suggestionEntryFormat = `**1. [Meal Name]**
- Cuisine: [Type]
- Description: [Brief description]
- Prep Time: [X minutes]
- Cook Time: [X minutes]
- Difficulty: [Easy/Medium/Hard]
- Calories: ~[X] kcal per serving
- Ingredients Used: [List]
- Optional Additions: [If any]

[Repeat for each meal suggestion]`

const suggestionSteps = `2. Suggest 5-7 diverse meal options that can be made with these ingredients
3. For each meal, provide:
   - Meal name and cuisine type
   - Brief description (1-2 sentences)
   - Estimated prep/cook time
   - Difficulty level (Easy/Medium/Hard)
   - Approximate calories per serving
   - Key ingredients used from the available ones
4. Be creative and suggest meals from different cuisines
5. Consider both simple and more complex recipes
6. If some common ingredients are missing, suggest what could be added (optional)`

// MealAnalysisPrompt builds the nutritionist instruction block. Detection labels,
// when present, are interpolated as auxiliary context.
func MealAnalysisPrompt(labels []string) string {
	var b strings.Builder

	b.WriteString("You are a certified nutritionist and registered dietitian with 15+ years of experience in food analysis and dietary assessment. ")
	b.WriteString("Your expertise includes macro and micronutrient analysis, portion estimation, and health evaluation.\n\n")

	if len(labels) > 0 {
		fmt.Fprintf(&b, "ADDITIONAL CONTEXT: Vision AI detected these food items: %s. Use this to enhance your analysis.\n\n",
			strings.Join(labels, ", "))
	}

	b.WriteString(`INSTRUCTIONS:
1. Analyze the food image with precision and identify all visible food items
2. Estimate portion sizes using standard serving measurements
3. Calculate nutritional values based on recognized food databases (USDA, etc.)
4. Provide specific numerical values, not ranges
5. Give actionable dietary recommendations
6. Be concise but comprehensive

OUTPUT FORMAT:
`)
	fmt.Fprintf(&b, "**%s**\n", HeaderFoodIdentification)
	b.WriteString("- List each food item with estimated portion size\n\n")

	fmt.Fprintf(&b, "**%s**\n", HeaderNutritionalBreakdown)
	b.WriteString(`- Total Calories: [exact number] kcal
- Total Protein: [number] g
- Total Carbohydrates: [number] g
- Total Fat: [number] g
- Total Fiber: [number] g
- Total Sugar: [number] g
- Sodium: [number] mg
- Key Vitamins & Minerals: [list top 3-4]

`)
	fmt.Fprintf(&b, "**%s**\n", HeaderHealthAssessment)
	b.WriteString(`- Overall Health Rating: [Excellent/Good/Fair/Poor]
- Justification: [2-3 specific reasons]

`)
	fmt.Fprintf(&b, "**%s**\n", HeaderRecommendations)
	b.WriteString(`- Immediate suggestions for meal improvement
- Portion adjustments if needed
- Complementary foods to add nutritional balance

Analyze this meal image and provide the complete nutritional assessment following the format above. No disclaimers or liability statements.`)

	return b.String()
}

// MealSuggestionImagePrompt asks the model to list the pictured ingredients and suggest meals.
func MealSuggestionImagePrompt() string {
	var b strings.Builder
	b.WriteString(chefPersona)
	b.WriteString("\n\nINSTRUCTIONS:\n1. Identify all visible ingredients in the image\n")
	b.WriteString(suggestionSteps)
	b.WriteString("\n\nOUTPUT FORMAT:\n")
	fmt.Fprintf(&b, "**%s**\n- List all ingredients identified\n\n", HeaderAvailableIngredients)
	fmt.Fprintf(&b, "**%s**\n\n", HeaderMealSuggestions)
	b.WriteString(suggestionEntryFormat)
	b.WriteString("\n\nAnalyze the ingredients in this image and provide creative meal suggestions following the format above.")
	return b.String()
}

// MealSuggestionTextPrompt embeds a free-form ingredient list.
func MealSuggestionTextPrompt(ingredients string) string {
	var b strings.Builder
	b.WriteString(chefPersona)
	fmt.Fprintf(&b, "\n\nAVAILABLE INGREDIENTS:\n%s\n\n", strings.TrimSpace(ingredients))
	b.WriteString("INSTRUCTIONS:\n1. Analyze the provided ingredients\n")
	b.WriteString(suggestionSteps)
	b.WriteString("\n\nOUTPUT FORMAT:\n")
	fmt.Fprintf(&b, "**%s**\n\n", HeaderMealSuggestions)
	b.WriteString(suggestionEntryFormat)
	b.WriteString("\n\nAnalyze the provided ingredients and suggest creative meal options following the format above.")
	return b.String()
}
