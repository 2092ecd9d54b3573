package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// DefaultStepDelay is the pause between two states during playback.
const DefaultStepDelay = 350 * time.Millisecond

// Player replays an already computed trace step by step.
// It never runs the automaton itself.
type Player struct {
	w     io.Writer
	out   *termenv.Output
	delay time.Duration
}

// PlayerOption configures the Player.
type PlayerOption func(*Player)

// WithDelay sets the pause between steps. Zero disables the animation.
func WithDelay(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// NewPlayer creates a Player writing to w.
func NewPlayer(w io.Writer, opts ...PlayerOption) *Player {
	p := &Player{
		w:     w,
		out:   termenv.NewOutput(w),
		delay: DefaultStepDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play prints the trace of res one state at a time, then the verdict.
// input is the string that produced res; it labels each step with its symbol.
// Cancelling ctx stops the playback and returns ctx.Err().
func (p *Player) Play(ctx context.Context, def *domain.Automaton, input string, res domain.Result) error {
	symbols := []rune(input)

	for i, state := range res.Trace {
		if i > 0 {
			if err := p.wait(ctx); err != nil {
				return err
			}
		}

		name := p.out.String(state).Bold().String()
		if def != nil {
			if label := def.Label(state); label != "" {
				name = fmt.Sprintf("%s (%s)", name, label)
			}
		}

		if i == 0 {
			fmt.Fprintf(p.w, "  ▶ %s\n", name)
			continue
		}
		sym := ""
		if i-1 < len(symbols) {
			sym = string(symbols[i-1])
		}
		fmt.Fprintf(p.w, "  %d ─%s→ %s\n", i, sym, name)
	}

	if res.Failed() && res.Consumed < len(symbols) {
		fmt.Fprintf(p.w, "  ✗ stopped at symbol %d %q\n", res.Consumed+1, string(symbols[res.Consumed]))
	}

	fmt.Fprintln(p.w, Verdict(p.out, res))
	return nil
}

func (p *Player) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Verdict renders the one-line summary of a run: green when accepted, red otherwise.
func Verdict(out *termenv.Output, res domain.Result) string {
	color := "#f87171"
	if res.Accepted {
		color = "#4ade80"
	}
	return out.String(res.Summary()).Foreground(out.Color(color)).String()
}
