package analysis

import "time"

// HistoryKind partitions the session history.
type HistoryKind string

const (
	HistoryAnalysis   HistoryKind = "analysis"
	HistorySuggestion HistoryKind = "suggestion"
)

// HistoryEntry is a compact record of a finished request.
type HistoryEntry struct {
	ID            string      `json:"id"`
	Kind          HistoryKind `json:"kind"`
	Timestamp     time.Time   `json:"timestamp"`
	Language      string      `json:"language"`
	Calories      float64     `json:"calories,omitempty"`
	DetectionUsed bool        `json:"detection_used,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Text          string      `json:"text"`
}

// NewHistoryEntry summarizes a result for the history store.
func NewHistoryEntry(result *AnalysisResult) HistoryEntry {
	entry := HistoryEntry{
		ID:        result.RequestID,
		Timestamp: result.CompletedAt,
		Language:  result.Language,
		Text:      result.TranslatedText,
	}

	switch result.Kind {
	case KindMealAnalysis:
		entry.Kind = HistoryAnalysis
		entry.DetectionUsed = result.Detection != nil
		if result.StructuredFields != nil {
			entry.Calories = result.StructuredFields.Calories
		}
	case KindSuggestionFromImage:
		entry.Kind = HistorySuggestion
		entry.Mode = "image"
	default:
		entry.Kind = HistorySuggestion
		entry.Mode = "text"
	}

	return entry
}
