package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/regexrunner/internal/presentation/tui"
	"github.com/aretw0/regexrunner/pkg/adapters/file"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// RunOptions configures a single non-interactive run.
type RunOptions struct {
	EngineOptions
	ChallengeID string
	// DefinitionPath runs the first challenge of a YAML/JSON file instead of the pack.
	DefinitionPath string
	Input          string
	JSON           bool
	Animate        bool
	Delay          time.Duration
}

// RunOnce simulates one input and writes the verdict to w.
// Rejections are results, not errors; only lookup and decoding failures return an error.
func RunOnce(ctx context.Context, w io.Writer, opts RunOptions) (domain.Result, error) {
	logger := createLogger(opts.Debug)
	engine, err := createEngine(opts.EngineOptions, logger)
	if err != nil {
		return domain.Result{}, err
	}

	var c domain.Challenge
	if opts.DefinitionPath != "" {
		list, err := file.ReadChallenges(opts.DefinitionPath)
		if err != nil {
			return domain.Result{}, err
		}
		if len(list) == 0 {
			return domain.Result{}, fmt.Errorf("%s: no challenge found", opts.DefinitionPath)
		}
		c = list[0]
	} else {
		id := opts.ChallengeID
		if id == "" {
			id = domain.DefaultChallengeID
		}
		if c, err = engine.Challenge(id); err != nil {
			return domain.Result{}, err
		}
	}

	res := engine.Run(ctx, c.ID, &c.DFA, opts.Input)

	switch {
	case opts.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return res, err
		}
	case opts.Animate:
		delay := opts.Delay
		if delay == 0 {
			delay = tui.DefaultStepDelay
		}
		if err := tui.NewPlayer(w, tui.WithDelay(delay)).Play(ctx, &c.DFA, opts.Input, res); err != nil {
			return res, err
		}
	default:
		fmt.Fprintln(w, res.Summary())
	}
	return res, nil
}
