// Package capability wraps the optional external services behind adapters
// that never fail the pipeline. Each adapter resolves its availability once,
// at construction, and degrades to a documented no-op when unavailable.
package capability

// Capability names used in logs, metrics and status output.
const (
	NameDetector   = "detector"
	NameTranslator = "translator"
	NameSpeech     = "speech"
	NameAnalytics  = "analytics"
)

// FailureRecorder counts absorbed failures. *monitoring.MetricsCollector satisfies it.
type FailureRecorder interface {
	SoftFailure(capability string)
}

type nopRecorder struct{}

func (nopRecorder) SoftFailure(string) {}

func recorderOrNop(r FailureRecorder) FailureRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// Status is the startup snapshot of which capabilities are usable.
// It is built once and handed out by value.
type Status struct {
	GenerativeProvider string   `json:"generative_provider"`
	GenerativeModel    string   `json:"generative_model"`
	Detector           bool     `json:"detector"`
	DetectorBackend    string   `json:"detector_backend,omitempty"`
	Translator         bool     `json:"translator"`
	TranslatorBackend  string   `json:"translator_backend,omitempty"`
	CloudSpeech        bool     `json:"cloud_speech"`
	LocalSpeech        bool     `json:"local_speech"`
	SpeechChain        []string `json:"speech_chain"`
	Analytics          bool     `json:"analytics"`
	AnalyticsDriver    string   `json:"analytics_driver,omitempty"`
}

// NewStatus snapshots the adapters.
func NewStatus(provider, model string, detector *Detector, translator *Translator, narrator *Narrator, sink *AnalyticsSink) Status {
	status := Status{
		GenerativeProvider: provider,
		GenerativeModel:    model,
	}
	if detector != nil {
		status.Detector = detector.Available()
		status.DetectorBackend = detector.Backend()
	}
	if translator != nil {
		status.Translator = translator.Available()
		status.TranslatorBackend = translator.Backend()
	}
	if narrator != nil {
		status.SpeechChain = narrator.Chain()
		for _, name := range status.SpeechChain {
			switch name {
			case "cloud":
				status.CloudSpeech = true
			case "local":
				status.LocalSpeech = true
			}
		}
	}
	if sink != nil {
		status.Analytics = sink.Available()
		status.AnalyticsDriver = sink.Backend()
	}
	return status
}

// Clone returns a copy that shares no memory with s.
func (s Status) Clone() Status {
	out := s
	out.SpeechChain = append([]string(nil), s.SpeechChain...)
	return out
}

// Flags lists availability per capability, for gauges and health output.
func (s Status) Flags() map[string]bool {
	return map[string]bool{
		NameDetector:   s.Detector,
		NameTranslator: s.Translator,
		"cloud_speech": s.CloudSpeech,
		"local_speech": s.LocalSpeech,
		NameAnalytics:  s.Analytics,
	}
}
