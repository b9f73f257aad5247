package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfie/shelfie/internal/application/capability"
	"github.com/shelfie/shelfie/internal/domain/analysis"
)

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitCodeUsage, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Commands:")

	stderr.Reset()
	assert.Equal(t, exitCodeUsage, run([]string{"frobnicate"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "frobnicate"`)
}

func TestParseAnalyze(t *testing.T) {
	var stderr bytes.Buffer
	_, _, code := parseAnalyze(nil, &stderr)
	assert.Equal(t, exitCodeUsage, code)

	path := filepath.Join(t.TempDir(), "meal.png")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o600))

	req, asJSON, code := parseAnalyze([]string{"-image", path, "-detect", "-lang", "es", "-persist", "-json"}, &stderr)
	require.Equal(t, exitCodeSuccess, code)
	assert.True(t, asJSON)
	assert.Equal(t, analysis.AnalysisRequest{
		Image:          []byte("img"),
		UseDetection:   true,
		TargetLanguage: "es",
		Persist:        true,
	}, req)
}

func TestParseSuggest_ExactlyOneInput(t *testing.T) {
	var stderr bytes.Buffer

	_, _, code := parseSuggest(nil, &stderr)
	assert.Equal(t, exitCodeUsage, code)

	_, _, code = parseSuggest([]string{"-image", "x.png", "-ingredients", "eggs"}, &stderr)
	assert.Equal(t, exitCodeUsage, code)

	req, _, code := parseSuggest([]string{"-ingredients", "eggs, rice", "-narrate"}, &stderr)
	require.Equal(t, exitCodeSuccess, code)
	assert.Equal(t, "eggs, rice", req.IngredientsText)
	assert.True(t, req.Narrate)
	assert.Nil(t, req.Image)
}

func TestRender(t *testing.T) {
	var stdout, stderr bytes.Buffer
	result := &analysis.AnalysisResult{
		Kind:             analysis.KindMealAnalysis,
		TranslatedText:   "**FOOD IDENTIFICATION:**\n- Salad",
		StructuredFields: &analysis.NutritionFields{Calories: 425, Protein: 35, Carbs: 45, Fat: 8, HealthRating: "Excellent"},
		Warnings:         []string{"analysis could not be saved to the analytics store"},
		Usage:            analysis.UsageMetadata{TotalTokens: 120, Estimated: true},
	}

	assert.Equal(t, exitCodeSuccess, render(&stdout, &stderr, result, nil, false))
	assert.Contains(t, stdout.String(), "### Food Identification")
	assert.Contains(t, stdout.String(), "Calories: 425 kcal")
	assert.Contains(t, stdout.String(), "Tokens: 120 (estimated)")
	assert.Contains(t, stderr.String(), "warning: analysis could not be saved")

	stdout.Reset()
	assert.Equal(t, exitCodeSuccess, render(&stdout, &stderr, result, nil, true))
	assert.Contains(t, stdout.String(), `"health_rating": "Excellent"`)

	assert.Equal(t, exitCodeFailure, render(&stdout, &stderr, nil, errors.New("boom"), false))
}

type statusOnly struct{ analysisStub }

type analysisStub struct{}

func (analysisStub) AnalyzeMeal(context.Context, analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	return nil, nil
}
func (analysisStub) SuggestMeals(context.Context, analysis.AnalysisRequest) (*analysis.AnalysisResult, error) {
	return nil, nil
}
func (analysisStub) Narrate(context.Context, string, string) string { return "" }
func (analysisStub) ValidateNarration(string, string) error         { return nil }
func (analysisStub) History(context.Context, analysis.HistoryKind) ([]analysis.HistoryEntry, error) {
	return nil, nil
}
func (analysisStub) Capabilities() capability.Status {
	return capability.Status{
		GenerativeProvider: "gemini",
		GenerativeModel:    "gemini-2.5-flash",
		Translator:         true,
		TranslatorBackend:  "google-translate",
		SpeechChain:        []string{"local", "console"},
	}
}

func TestRenderStatus(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, exitCodeSuccess, renderStatus(&stdout, statusOnly{}))

	out := stdout.String()
	assert.Contains(t, out, "gemini (gemini-2.5-flash)")
	assert.Contains(t, out, "Object detection: unavailable")
	assert.Contains(t, out, "Translation:      available via google-translate")
	assert.Contains(t, out, "local -> console")
	assert.Contains(t, out, "Spanish (es)")
}
