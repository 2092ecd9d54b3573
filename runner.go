package regexrunner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/session"
)

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// TracePlayer replays a finished run to the player.
type TracePlayer interface {
	Play(ctx context.Context, def *domain.Automaton, input string, res domain.Result) error
}

// EmptyInputMessage is shown when the player submits a blank line.
const EmptyInputMessage = "Please enter a binary string."

// Runner handles the interactive play loop using provided IO.
// This allows for easy testing and integration with different frontends.
//
// Each line is one attempt against the active challenge. Lines starting with
// ':' are commands (:hint, :list, :select <id>, :score, :help).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	Player   TracePlayer

	// Sessions keeps the score across runs when set.
	Sessions  *session.Manager
	SessionID string
}

// Run executes the play loop until EOF, "exit" or "quit".
func (r *Runner) Run(ctx context.Context, engine *Engine, challengeID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	w := r.Output

	if challengeID == "" && r.Sessions != nil {
		sess, err := r.Sessions.LoadOrStart(ctx, r.SessionID, "")
		if err != nil {
			return fmt.Errorf("session error: %w", err)
		}
		challengeID = sess.ChallengeID
	}
	if challengeID == "" {
		challengeID = domain.DefaultChallengeID
	}

	challenge, err := engine.Challenge(challengeID)
	if err != nil {
		return err
	}
	r.introduce(challenge)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !r.Headless {
			fmt.Fprint(w, "> ")
		}

		text, err := lineReader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && text != "") {
			if errors.Is(err, io.EOF) {
				// Graceful exit on EOF
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		switch {
		case input == "exit" || input == "quit":
			fmt.Fprintln(w, "Bye!")
			return nil
		case input == "":
			fmt.Fprintln(w, EmptyInputMessage)
		case strings.HasPrefix(input, ":"):
			next, err := r.command(ctx, engine, challenge, input)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				continue
			}
			challenge = next
		default:
			if err := r.attempt(ctx, engine, challenge, input); err != nil {
				return err
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func (r *Runner) introduce(c domain.Challenge) {
	text := fmt.Sprintf("# Level %d: %s\n\n%s", c.Level, c.Name, c.Description)
	if len(c.Examples) > 0 {
		text += "\n\nAccepted examples: `" + strings.Join(c.Examples, "`, `") + "`"
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(r.render(text)))
}

func (r *Runner) render(text string) string {
	if r.Renderer == nil {
		return text
	}
	rendered, err := r.Renderer(text)
	if err != nil {
		return text
	}
	return rendered
}

func (r *Runner) attempt(ctx context.Context, engine *Engine, c domain.Challenge, input string) error {
	// Pick up definitions reloaded since the challenge was selected.
	if fresh, err := engine.Challenge(c.ID); err == nil {
		c = fresh
	}
	res := engine.Run(ctx, c.ID, &c.DFA, input)

	if r.Player != nil {
		if err := r.Player.Play(ctx, &c.DFA, input, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(r.Output, res.Summary())
	}

	if r.Sessions == nil {
		return nil
	}
	before, after, err := r.Sessions.Record(ctx, r.SessionID, c.ID, input, res)
	if err != nil {
		return fmt.Errorf("session error: %w", err)
	}
	fmt.Fprintf(r.Output, "Score: %d (+%d)\n", after.Score, after.Score-before.Score)
	return nil
}

func (r *Runner) command(ctx context.Context, engine *Engine, current domain.Challenge, line string) (domain.Challenge, error) {
	fields := strings.Fields(line)
	w := r.Output

	switch fields[0] {
	case ":hint":
		if current.Hint == "" {
			fmt.Fprintln(w, "No hint for this challenge.")
		} else {
			fmt.Fprintln(w, strings.TrimSpace(r.render(current.Hint)))
		}
	case ":list":
		list, err := engine.Challenges()
		if err != nil {
			return current, err
		}
		for _, c := range list {
			marker := " "
			if c.ID == current.ID {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %d. %s (%s)\n", marker, c.Level, c.Name, c.ID)
		}
	case ":select":
		if len(fields) != 2 {
			return current, fmt.Errorf("usage: :select <challenge-id>")
		}
		next, err := engine.Challenge(fields[1])
		if err != nil {
			return current, err
		}
		if r.Sessions != nil {
			if _, err := r.Sessions.Select(ctx, r.SessionID, next.ID); err != nil {
				return current, err
			}
		}
		r.introduce(next)
		return next, nil
	case ":score":
		if r.Sessions == nil {
			return current, fmt.Errorf("no session")
		}
		sess, err := r.Sessions.Load(ctx, r.SessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			fmt.Fprintln(w, "Score: 0")
			return current, nil
		}
		if err != nil {
			return current, err
		}
		fmt.Fprintf(w, "Score: %d after %d runs\n", sess.Score, sess.Runs)
	case ":help":
		fmt.Fprintln(w, "Type a string to run it. Commands: :hint, :list, :select <id>, :score, exit")
	default:
		return current, fmt.Errorf("unknown command %q (try :help)", fields[0])
	}
	return current, nil
}
