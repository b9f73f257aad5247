package capability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// Narrator speaks text through an ordered fallback chain. The first
// strategy that succeeds wins; each failure is logged before falling through.
type Narrator struct {
	chain    []outbound.SpeechStrategy
	timeout  time.Duration
	logger   *zap.Logger
	failures FailureRecorder
}

// BuildSpeechChain orders the strategies as cloud, local, console, skipping
// nil (unavailable) entries. console is mandatory and always last.
func BuildSpeechChain(cloud, local, console outbound.SpeechStrategy) []outbound.SpeechStrategy {
	chain := make([]outbound.SpeechStrategy, 0, 3)
	if cloud != nil {
		chain = append(chain, cloud)
	}
	if local != nil {
		chain = append(chain, local)
	}
	return append(chain, console)
}

// NewNarrator creates a narrator over chain. timeout bounds each strategy separately.
func NewNarrator(chain []outbound.SpeechStrategy, timeout time.Duration, logger *zap.Logger, failures FailureRecorder) *Narrator {
	return &Narrator{
		chain:    chain,
		timeout:  timeout,
		logger:   logger.Named("narrator"),
		failures: recorderOrNop(failures),
	}
}

// Chain returns the strategy names in order
func (n *Narrator) Chain() []string {
	names := make([]string, 0, len(n.chain))
	for _, s := range n.chain {
		names = append(names, s.Name())
	}
	return names
}

// Speak narrates text and returns the name of the strategy that succeeded,
// or "" if every strategy failed.
func (n *Narrator) Speak(ctx context.Context, text, languageCode string) string {
	for _, strategy := range n.chain {
		err := n.speakOne(ctx, strategy, text, languageCode)
		if err == nil {
			return strategy.Name()
		}
		n.logger.Warn("Speech strategy failed, falling through",
			zap.String("strategy", strategy.Name()),
			zap.Error(err))
		n.failures.SoftFailure(NameSpeech + ":" + strategy.Name())
	}

	n.logger.Error("All speech strategies failed")
	return ""
}

func (n *Narrator) speakOne(ctx context.Context, strategy outbound.SpeechStrategy, text, languageCode string) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	return strategy.Speak(ctx, text, languageCode)
}
