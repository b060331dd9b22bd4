package gitstat

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies on branch changes by watching the repository's git
// directory for HEAD updates. It supplements the periodic git poll so a
// checkout shows up in the next frame instead of up to ten seconds later.
type Watcher struct {
	// C receives a signal after HEAD changes and is closed when the
	// watcher stops. Signals are coalesced: a slow consumer sees at most
	// one pending notification.
	C chan struct{}

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchHead starts watching HEAD for the repository containing dir.
func WatchHead(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	gitDir, err := resolveGitDir(dir)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not HEAD itself: git replaces HEAD atomically
	// via rename, which drops a watch on the file.
	if err := fsw.Add(gitDir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		C:    make(chan struct{}, 1),
		fsw:  fsw,
		done: make(chan struct{}),
	}

	go w.loop(logger)

	return w, nil
}

func (w *Watcher) loop(logger *slog.Logger) {
	// Only this goroutine sends on C, so closing here cannot race a send
	// and lets consumers range over C without watching done themselves.
	defer close(w.C)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if filepath.Base(ev.Name) != "HEAD" {
				continue
			}

			select {
			case w.C <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			logger.Debug("git watcher error", "error", err)
		}
	}
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// resolveGitDir locates the git directory for dir, following the
// "gitdir: <path>" indirection used by linked worktrees.
func resolveGitDir(dir string) (string, error) {
	gitPath := filepath.Join(dir, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return gitPath, nil
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}

	target := strings.TrimSpace(strings.TrimPrefix(string(data), "gitdir:"))
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}

	return filepath.Clean(target), nil
}
