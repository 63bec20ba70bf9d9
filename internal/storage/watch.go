package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"pomodoro/internal/ui/preferences"
)

// WatchSettings calls onChange with freshly loaded settings whenever the
// settings file is written or replaced. It blocks until ctx is done.
func WatchSettings(ctx context.Context, appName string, onChange func(preferences.Settings)) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("watch %s: %w", configDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := LoadSettings(appName)
			if err != nil {
				log.Warn().Err(err).Str("path", configPath).Msg("reload settings")
				continue
			}
			log.Debug().Str("path", configPath).Msg("settings reloaded")
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("settings watcher")
		}
	}
}
