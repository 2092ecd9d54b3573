package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/regexrunner"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/observability"
)

// EngineOptions holds the flags shared by every command that needs an engine.
type EngineOptions struct {
	Dir    string
	Strict bool
	Debug  bool
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(opts EngineOptions, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*regexrunner.Engine, error) {
	engineOpts := []regexrunner.Option{
		regexrunner.WithLogger(logger),
		regexrunner.WithStrict(opts.Strict),
	}

	if opts.Debug {
		engineOpts = append(engineOpts, regexrunner.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, regexrunner.WithLifecycleHooks(h))
	}

	// Smart Convention: a directory without challenge files plays the built-in pack.
	dir := opts.Dir
	if dir != "" && !hasChallenges(dir) {
		logger.Info("No challenge files found, using built-in pack", "dir", dir)
		dir = ""
	}

	engine, err := regexrunner.New(dir, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// hasChallenges checks if dir holds at least one challenge file.
func hasChallenges(dir string) bool {
	for _, ext := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, _ := filepath.Glob(filepath.Join(dir, ext))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}

// NewEngine builds an engine the way every CLI command does.
func NewEngine(opts EngineOptions) (*regexrunner.Engine, error) {
	return createEngine(opts, createLogger(opts.Debug))
}
