package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoPlayer is returned when no supported audio player is installed.
var ErrNoPlayer = errors.New("speech: no audio player found")

// AudioPlayer plays an audio file to completion.
type AudioPlayer interface {
	Play(ctx context.Context, path string) error
}

// known players in preference order, with the flags that make them play and exit
var knownPlayers = []struct {
	name string
	args []string
}{
	{"afplay", nil},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"mpg123", []string{"-q"}},
	{"paplay", nil},
}

// CommandPlayer shells out to an installed player binary
type CommandPlayer struct {
	path string
	args []string
}

// DetectPlayer finds an installed player. A non-empty preferred name is tried first.
func DetectPlayer(preferred string) (*CommandPlayer, error) {
	if preferred != "" {
		path, err := exec.LookPath(preferred)
		if err != nil {
			return nil, fmt.Errorf("configured player %q not found: %w", preferred, err)
		}
		for _, p := range knownPlayers {
			if p.name == preferred {
				return &CommandPlayer{path: path, args: p.args}, nil
			}
		}
		return &CommandPlayer{path: path}, nil
	}

	for _, p := range knownPlayers {
		if path, err := exec.LookPath(p.name); err == nil {
			return &CommandPlayer{path: path, args: p.args}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Play blocks until the player exits or ctx is done
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)
	if out, err := exec.CommandContext(ctx, p.path, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", p.path, err, out)
	}
	return nil
}
