package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// Strategy names as reported in results and metrics.
const (
	StrategyCloud   = "cloud"
	StrategyLocal   = "local"
	StrategyConsole = "console"
)

// ErrNoLocalEngine is returned when no local speech engine is installed.
var ErrNoLocalEngine = errors.New("speech: no local speech engine found")

// CloudStrategy synthesizes MP3 remotely and plays it from a temp file.
type CloudStrategy struct {
	synth   outbound.SpeechSynthesizer
	player  AudioPlayer
	tempDir string
}

// NewCloudStrategy creates the cloud strategy. An empty tempDir uses os.TempDir.
func NewCloudStrategy(synth outbound.SpeechSynthesizer, player AudioPlayer, tempDir string) *CloudStrategy {
	return &CloudStrategy{synth: synth, player: player, tempDir: tempDir}
}

func (s *CloudStrategy) Name() string { return StrategyCloud }

// Speak synthesizes, writes and plays. The temp file is removed on every path.
func (s *CloudStrategy) Speak(ctx context.Context, text, languageCode string) error {
	audio, err := s.synth.Synthesize(ctx, text, languageCode)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.tempDir, "shelfie-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp audio file: %w", err)
	}

	return s.player.Play(ctx, f.Name())
}

// CommandRunner runs an external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, out)
	}
	return nil
}

// LocalStrategy speaks through an installed engine: say, espeak-ng or espeak.
type LocalStrategy struct {
	engine string
	path   string
	run    CommandRunner
}

// DetectLocalStrategy finds an installed engine, trying preferred first when set.
func DetectLocalStrategy(preferred string) (*LocalStrategy, error) {
	candidates := []string{"say", "espeak-ng", "espeak"}
	if preferred != "" {
		candidates = []string{preferred}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return NewLocalStrategy(name, path, runCommand), nil
		}
	}
	return nil, ErrNoLocalEngine
}

// NewLocalStrategy creates a local strategy with an explicit runner
func NewLocalStrategy(engine, path string, run CommandRunner) *LocalStrategy {
	return &LocalStrategy{engine: engine, path: path, run: run}
}

func (s *LocalStrategy) Name() string { return StrategyLocal }

// Engine returns the detected engine name
func (s *LocalStrategy) Engine() string { return s.engine }

// Speak blocks until the engine finishes
func (s *LocalStrategy) Speak(ctx context.Context, text, languageCode string) error {
	return s.run(ctx, s.path, s.args(text, languageCode)...)
}

func (s *LocalStrategy) args(text, languageCode string) []string {
	switch s.engine {
	case "say":
		// say picks the system voice; it has no language flag
		return []string{text}
	default:
		voice := strings.ToLower(strings.SplitN(languageCode, "-", 2)[0])
		if voice == "" {
			voice = "en"
		}
		return []string{"-v", voice, text}
	}
}

// ConsoleStrategy prints the text. It is the terminal link of every chain and never fails.
type ConsoleStrategy struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleStrategy creates the console strategy writing to out
func NewConsoleStrategy(out io.Writer, logger *zap.Logger) *ConsoleStrategy {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleStrategy{out: out, logger: logger}
}

func (s *ConsoleStrategy) Name() string { return StrategyConsole }

func (s *ConsoleStrategy) Speak(_ context.Context, text, _ string) error {
	s.logger.Info("Speech output unavailable, printing narration", zap.Int("chars", len(text)))
	fmt.Fprintf(s.out, "[TTS not available]: %s\n", text)
	return nil
}
