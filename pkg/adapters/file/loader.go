package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/regexrunner/internal/logging"
	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// Loader implements ports.ChallengeLoader and ports.Watchable over a directory
// of challenge files (*.yaml, *.yml, *.json).
//
// A file holds either one challenge document or a list under "challenges".
// Definitions are read eagerly and cached; Reload re-reads the directory.
type Loader struct {
	dir    string
	strict bool
	logger *slog.Logger

	mu         sync.RWMutex
	challenges map[string]domain.Challenge
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithStrict rejects definitions that break the structural invariants
// (see runtime.ValidateStructure). Partial transition tables are still allowed.
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithLogger configures a logger for reload events.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader reads every challenge file in dir.
func NewLoader(dir string, opts ...LoaderOption) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	l := &Loader{
		dir:    absPath,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the absolute directory the loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// Reload re-reads the directory. On error the previous definitions are kept.
func (l *Loader) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read challenge directory: %w", err)
	}

	loaded := make(map[string]domain.Challenge)
	for _, entry := range entries {
		if entry.IsDir() || !isChallengeFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		challenges, err := ReadChallenges(path)
		if err != nil {
			return err
		}
		for _, c := range challenges {
			if prev, dup := loaded[c.ID]; dup {
				return fmt.Errorf("%s: duplicate challenge ID %q (also defined as %q)", entry.Name(), c.ID, prev.Name)
			}
			if l.strict {
				if err := runtime.ValidateStructure(&c.DFA); err != nil {
					return fmt.Errorf("%s: challenge %q: %w", entry.Name(), c.ID, err)
				}
			}
			loaded[c.ID] = c
		}
	}

	l.mu.Lock()
	l.challenges = loaded
	l.mu.Unlock()

	l.logger.Debug("challenges loaded", "dir", l.dir, "count", len(loaded))
	return nil
}

// GetChallenge retrieves a challenge by ID.
func (l *Loader) GetChallenge(id string) (domain.Challenge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.challenges[id]
	if !ok {
		return domain.Challenge{}, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	return c, nil
}

// ListChallenges returns all challenges ordered by level then ID.
func (l *Loader) ListChallenges() ([]domain.Challenge, error) {
	l.mu.RLock()
	list := make([]domain.Challenge, 0, len(l.challenges))
	for _, c := range l.challenges {
		list = append(list, c)
	}
	l.mu.RUnlock()

	memory.SortChallenges(list)
	return list, nil
}

// Watch reloads the definitions whenever a challenge file changes and
// forwards the file name on the returned channel.
// Reload failures are logged and the previous definitions stay active.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	out := make(chan string, 10)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isChallengeFile(ev.Name) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if err := l.Reload(); err != nil {
					l.logger.Warn("challenge reload failed", "file", ev.Name, "err", err)
					continue
				}
				select {
				case out <- filepath.Base(ev.Name):
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("watcher error", "err", err)
			}
		}
	}()

	return out, nil
}

// ReadChallenges parses one challenge file.
func ReadChallenges(path string) ([]domain.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return decodeDocument(filepath.Base(path), doc)
}

func decodeDocument(name string, doc map[string]any) ([]domain.Challenge, error) {
	rawList, isList := doc["challenges"]
	if !isList {
		c, err := decodeChallenge(name, doc)
		if err != nil {
			return nil, err
		}
		return []domain.Challenge{c}, nil
	}

	items, ok := rawList.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: challenges must be a list, got %T", name, rawList)
	}
	out := make([]domain.Challenge, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: challenges[%d] must be a mapping, got %T", name, i, item)
		}
		c, err := decodeChallenge(name, m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeChallenge(name string, m map[string]any) (domain.Challenge, error) {
	c, err := domain.ChallengeFromMap(m)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("%s: %w", name, err)
	}
	if c.ID == "" {
		// Single-challenge files may omit the ID; the file name stands in.
		c.ID = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return c, nil
}

func isChallengeFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return !strings.HasPrefix(filepath.Base(name), ".")
	}
	return false
}
