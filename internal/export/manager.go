package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// Manager writes timestamped report files into a directory.
type Manager struct {
	dir string
	now func() time.Time
}

// NewManager creates a Manager writing into dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, now: time.Now}
}

// WriteFile writes report as YYYY-MM-DD-HHMMSS.<ext> and returns the path.
// A numeric suffix is added when a file with that name already exists.
func (m *Manager) WriteFile(report *Report, format string) (string, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create export directory")
	}

	timestamp := m.now().Format("2006-01-02-150405")
	ext := Extension(format)

	var (
		f    *os.File
		path string
	)
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s.%s", timestamp, ext)
		if i > 0 {
			name = fmt.Sprintf("%s-%d.%s", timestamp, i, ext)
		}
		path = filepath.Join(m.dir, name)

		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", errors.Wrapf(err, "failed to create export file %s", path)
		}
	}

	if err := Write(f, format, report); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close export file %s", path)
	}
	return path, nil
}
