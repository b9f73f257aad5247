package capability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// Translator converts model output into the requested language, or returns it untouched
type Translator struct {
	client   outbound.TextTranslator
	timeout  time.Duration
	logger   *zap.Logger
	failures FailureRecorder
}

// NewTranslator creates a translator. A nil client makes it permanently unavailable.
func NewTranslator(client outbound.TextTranslator, timeout time.Duration, logger *zap.Logger, failures FailureRecorder) *Translator {
	return &Translator{
		client:   client,
		timeout:  timeout,
		logger:   logger.Named("translator"),
		failures: recorderOrNop(failures),
	}
}

func (t *Translator) Available() bool {
	return t.client != nil
}

func (t *Translator) Backend() string {
	if t.client == nil {
		return ""
	}
	return t.client.Name()
}

// Translate returns text in lang. English targets, an unavailable backend
// and backend errors all yield the input unchanged.
func (t *Translator) Translate(ctx context.Context, text, lang string) string {
	if t.client == nil || !analysis.NeedsTranslation(lang) || text == "" {
		return text
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	translated, err := t.client.Translate(ctx, text, analysis.NormalizeLanguage(lang))
	if err != nil {
		t.logger.Warn("Translation failed, returning original text",
			zap.String("backend", t.client.Name()),
			zap.String("target", lang),
			zap.Error(err))
		t.failures.SoftFailure(NameTranslator)
		return text
	}
	return translated
}
