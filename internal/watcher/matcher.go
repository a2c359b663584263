package watcher

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// relevantOps are the operations that can change a file's content.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// matcher decides whether a directory event concerns the watched file.
type matcher struct {
	path     string
	resolved string
}

func newMatcher(path string) (*matcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	m := &matcher{path: abs}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil && resolved != abs {
		m.resolved = resolved
	}
	return m, nil
}

// matches returns true for content-changing events on the watched file.
func (m *matcher) matches(ev fsnotify.Event) bool {
	if ev.Op&relevantOps == 0 {
		return false
	}
	return m.matchPath(ev.Name)
}

// matchPath compares name with the watched path, also trying symlink
// resolution.
func (m *matcher) matchPath(name string) bool {
	name = filepath.Clean(name)
	if !filepath.IsAbs(name) {
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
	}
	if name == m.path || (m.resolved != "" && name == m.resolved) {
		return true
	}

	resolved, err := filepath.EvalSymlinks(name)
	if err == nil && resolved != name {
		return resolved == m.path || resolved == m.resolved
	}
	return false
}
