package analysis

import "strings"

// SupportedLanguages are offered for selection; any BCP-47 tag is accepted.
var SupportedLanguages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"hi": "Hindi",
	"zh": "Chinese",
}

// NormalizeLanguage trims and lower-cases a language tag, defaulting to English.
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return DefaultLanguage
	}
	return tag
}

// NeedsTranslation reports whether text in the model language must be translated for tag.
func NeedsTranslation(tag string) bool {
	return NormalizeLanguage(tag) != DefaultLanguage
}

// SpeechLanguageCode maps a target language to a voice locale ("en" -> "en-US").
func SpeechLanguageCode(tag string) string {
	tag = NormalizeLanguage(tag)
	if tag == DefaultLanguage {
		return "en-US"
	}
	return tag
}
