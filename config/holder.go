package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/domain/rule"
)

// RulesHolder publishes the active RuleSet snapshot and supports hot
// reload from the rule file.
//
// Readers call Get and keep using the returned snapshot for as long as
// they need; a concurrent publish never affects a transformation already
// in flight. Publication is a single atomic pointer swap: there is no
// torn read and no partially-visible rule list. A failed reload leaves
// the previous snapshot in place.
type RulesHolder struct {
	snapshot atomic.Pointer[rule.RuleSet]
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}

	mu     sync.Mutex // serializes reloads and guards onSwap
	onSwap []func(*rule.RuleSet)
}

// NewRulesHolder loads the rule file and publishes the initial snapshot.
func NewRulesHolder(path string, logger zerolog.Logger) (*RulesHolder, error) {
	rs, err := LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	h := &RulesHolder{
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	h.snapshot.Store(rs)
	return h, nil
}

// Get returns the currently published snapshot.
func (h *RulesHolder) Get() *rule.RuleSet {
	return h.snapshot.Load()
}

// Reload re-reads the rule file and publishes a new snapshot. On
// validation failure the previous snapshot stays active and the error
// is returned to the caller.
func (h *RulesHolder) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Info().Str("path", h.path).Msg("reloading rules")

	rs, err := LoadRules(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("rules reload failed, keeping active snapshot")
		return fmt.Errorf("reload rules: %w", err)
	}

	old := h.snapshot.Swap(rs)

	if old.Len() != rs.Len() {
		h.logger.Info().
			Int("old", old.Len()).
			Int("new", rs.Len()).
			Msg("rule count changed")
	}
	for _, fn := range h.onSwap {
		fn(rs)
	}

	h.logger.Info().Int("rules", rs.Len()).Msg("rules reloaded successfully")
	return nil
}

// OnSwap registers a callback invoked after each successful publish.
func (h *RulesHolder) OnSwap(fn func(*rule.RuleSet)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSwap = append(h.onSwap, fn)
}

// WatchFile starts watching the rule file for changes.
// Changes trigger automatic reload.
func (h *RulesHolder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching rule file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *RulesHolder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading rules")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload rules")
}

// Stop stops watching for file changes and signals.
func (h *RulesHolder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *RulesHolder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Only react to our rule file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("rule file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
