package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"hirescan/internal/errors"
)

// FontWatcher watches font files for changes and triggers reloads
type FontWatcher struct {
	mu sync.RWMutex

	// File paths to watch
	regularFile string
	boldFile    string

	// File metadata
	lastModTime map[string]time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	// Callback and logging
	reloadCallback func()
	logger         *errors.Logger

	// State
	running bool
}

// NewFontWatcher creates a new font file watcher
func NewFontWatcher(regularFile, boldFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*FontWatcher, error) {
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &FontWatcher{
		regularFile:    regularFile,
		boldFile:       boldFile,
		lastModTime:    make(map[string]time.Time),
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1), // Buffered to prevent blocking
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching font files for changes
func (fw *FontWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("font watcher is already running")
	}

	if err := fw.initializeWatcher(); err != nil {
		return err
	}

	filesToWatch := fw.watchedFiles()
	fw.addFilesToWatcher(filesToWatch)

	fw.running = true
	go fw.watchLoop()

	if fw.logger != nil {
		fw.logger.Info("Font file watcher started",
			"files", filesToWatch,
			"debounce_delay", fw.debounceDelay)
	}
	return nil
}

// initializeWatcher creates and initializes the file system watcher
func (fw *FontWatcher) initializeWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.fsWatcher = watcher

	if err := fw.updateModTimes(); err != nil {
		fw.cleanupWatcher()
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	return nil
}

// cleanupWatcher closes the file watcher and logs any errors
func (fw *FontWatcher) cleanupWatcher() {
	if fw.fsWatcher != nil {
		if closeErr := fw.fsWatcher.Close(); closeErr != nil && fw.logger != nil {
			fw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// addFilesToWatcher adds all files to the file system watcher
func (fw *FontWatcher) addFilesToWatcher(filesToWatch []string) {
	for _, file := range filesToWatch {
		if err := fw.addFileToWatcher(file); err != nil && fw.logger != nil {
			fw.logger.Warn("Failed to watch font file", "file", file, "error", err)
		}
	}
}

// Stop stops the font file watcher
func (fw *FontWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	// Signal stop
	close(fw.stopChan)

	// Stop debounce timer if running
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	// Close file system watcher
	if fw.fsWatcher != nil {
		if err := fw.fsWatcher.Close(); err != nil {
			if fw.logger != nil {
				fw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	fw.running = false

	if fw.logger != nil {
		fw.logger.Info("Font file watcher stopped")
	}

	return nil
}

// addFileToWatcher adds a file and its directory to the file system watcher
func (fw *FontWatcher) addFileToWatcher(file string) error {
	// Watch the file itself
	if err := fw.fsWatcher.Add(file); err != nil {
		// If the file doesn't exist, watch its directory instead
		if os.IsNotExist(err) {
			dir := filepath.Dir(file)
			if err := fw.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if fw.logger != nil {
				fw.logger.Info("Watching directory for font file",
					"file", file, "directory", dir)
			}
		} else {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(file)
	if err := fw.fsWatcher.Add(dir); err != nil {
		if fw.logger != nil {
			fw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// updateModTimes updates the stored modification times for all watched files
func (fw *FontWatcher) updateModTimes() error {
	for _, file := range fw.watchedFiles() {
		if stat, err := os.Stat(file); err == nil {
			fw.lastModTime[file] = stat.ModTime()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}

	return nil
}

// hasFileChanged checks if a file has been modified since last check
func (fw *FontWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted
			if _, exists := fw.lastModTime[file]; exists {
				delete(fw.lastModTime, file)
				return true
			}
		}
		return false
	}

	lastMod, exists := fw.lastModTime[file]
	if !exists || stat.ModTime().After(lastMod) {
		fw.lastModTime[file] = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (fw *FontWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}

			if fw.shouldProcessEvent(event) {
				fw.scheduleReload()
			}

		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			if fw.logger != nil {
				fw.logger.LogError(err, "File watcher error")
			}

		case <-fw.reloadChan:
			// Debounced reload trigger
			if fw.hasAnyFileChanged() {
				if fw.logger != nil {
					fw.logger.Info("Font files changed, triggering reload")
				}
				fw.reloadCallback()
			}

		case <-fw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (fw *FontWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Check if the event is for one of our watched files
	isWatchedFile := false
	for _, file := range fw.watchedFiles() {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			isWatchedFile = true
			break
		}
	}

	if !isWatchedFile {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasAnyFileChanged checks if any of the watched files have changed
func (fw *FontWatcher) hasAnyFileChanged() bool {
	return slices.ContainsFunc(fw.watchedFiles(), fw.hasFileChanged)
}

// scheduleReload schedules a debounced reload
func (fw *FontWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	// Reset the debounce timer
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, func() {
		select {
		case fw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (fw *FontWatcher) IsRunning() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// watchedFiles returns the configured font file paths
func (fw *FontWatcher) watchedFiles() []string {
	files := []string{}
	if fw.regularFile != "" {
		files = append(files, fw.regularFile)
	}
	if fw.boldFile != "" {
		files = append(files, fw.boldFile)
	}
	return files
}

// GetWatchedFiles returns the list of files being watched
func (fw *FontWatcher) GetWatchedFiles() []string {
	return fw.watchedFiles()
}
