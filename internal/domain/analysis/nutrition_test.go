package analysis

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

const sampleAnalysis = `**FOOD IDENTIFICATION:**
- Grilled chicken breast (4 oz) with steamed broccoli (1 cup) and brown rice (0.5 cup)

**NUTRITIONAL BREAKDOWN:**
- Total Calories: 425 kcal
- Total Protein: 35 g
- Total Carbohydrates: 45 g
- Total Fat: 8 g
- Total Fiber: 6 g

**HEALTH ASSESSMENT:**
- Overall Health Rating: Excellent
- Justification: balanced macros

**PROFESSIONAL RECOMMENDATIONS:**
- Add a source of healthy fat`

func TestExtract_HappyPath(t *testing.T) {
	got := Extract("Total Calories: 425 kcal\nTotal Protein: 35g\nTotal Carbohydrates: 45g\nTotal Fat: 8g\nOverall Health Rating: Excellent")

	assert.Equal(t, NutritionFields{
		Calories:     425,
		Protein:      35,
		Carbs:        45,
		Fat:          8,
		HealthRating: "Excellent",
	}, got)
}

func TestExtract_Defaults(t *testing.T) {
	got := Extract("no nutrition info here")

	assert.Equal(t, NutritionFields{HealthRating: UnknownRating}, got)
}

func TestExtract_CanonicalReply(t *testing.T) {
	got := Extract(sampleAnalysis)

	assert.Equal(t, 425.0, got.Calories)
	assert.Equal(t, 35.0, got.Protein)
	assert.Equal(t, 45.0, got.Carbs)
	assert.Equal(t, 8.0, got.Fat)
	assert.Equal(t, "Excellent", got.HealthRating)
}

func TestExtract_Variants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want NutritionFields
	}{
		{
			name: "decimals",
			text: "Total Calories: 512.5 kcal, Total Protein: 22.75 g, Total Fat: 0.5 g",
			want: NutritionFields{Calories: 512.5, Protein: 22.75, Fat: 0.5, HealthRating: UnknownRating},
		},
		{
			name: "case insensitive",
			text: "TOTAL CARBOHYDRATES: 60 g\noverall health rating: good",
			want: NutritionFields{Carbs: 60, HealthRating: "good"},
		},
		{
			name: "first match wins",
			text: "Total Calories: 300 kcal\n... aim for Total Calories: 600 kcal next time",
			want: NutritionFields{Calories: 300, HealthRating: UnknownRating},
		},
		{
			name: "label without number",
			text: "Total Calories: unknown\nOverall Health Rating: ",
			want: NutritionFields{HealthRating: UnknownRating},
		},
		{
			name: "markdown bullets",
			text: "- **Total Protein:** 12 g",
			want: NutritionFields{HealthRating: UnknownRating},
		},
		{
			name: "empty",
			text: "",
			want: NutritionFields{HealthRating: UnknownRating},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtract_DeterministicAndNeverPanics(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		text := faker.Paragraph(3, 5, 12, "\n")
		if i%3 == 0 {
			text += "\nTotal Fat: " + faker.DigitN(2)
		}

		assert.NotPanics(t, func() {
			first := Extract(text)
			second := Extract(text)
			assert.Equal(t, first, second)
		})
	}
}
