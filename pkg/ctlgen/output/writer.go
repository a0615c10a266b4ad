// Package output writes rendered sheets to text files.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ukaji3/ctlgen-go/pkg/ctlgen/engine"
)

// BackupLayout is the time format appended to backup file names.
const BackupLayout = "20060102_150405"

// Writer writes one file per output into Dir.
type Writer struct {
	Dir string
	// Extension is appended to output names that have none, e.g. ".txt".
	Extension string
	// Backup renames an existing file to <name>_<timestamp><ext> before it
	// is overwritten.
	Backup bool

	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Write writes every output and returns the written paths in order. A file
// that cannot be written is reported in the returned error; the remaining
// outputs are still written. When two outputs map to the same file the
// first one is kept and the second is reported.
func (w *Writer) Write(outputs []engine.Output) ([]string, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var (
		written []string
		result  *multierror.Error
		owners  = make(map[string]string)
	)

	for _, out := range outputs {
		path, ok := w.Path(out.Name)
		if !ok {
			path, ok = w.Path(out.Sheet)
			if !ok {
				result = multierror.Append(result, fmt.Errorf("sheet %q: no usable output name in %q", out.Sheet, out.Name))
				continue
			}
			logger.Warn("unusable output name, using sheet name",
				zap.String("sheet", out.Sheet),
				zap.String("name", out.Name),
				zap.String("path", path))
		}

		if owner, dup := owners[path]; dup {
			logger.Warn("output file already written by another sheet",
				zap.String("sheet", out.Sheet),
				zap.String("owner", owner),
				zap.String("path", path))
			result = multierror.Append(result, fmt.Errorf("sheet %q: %s already written by sheet %q", out.Sheet, path, owner))
			continue
		}
		owners[path] = out.Sheet

		if w.Backup {
			backup, err := w.backup(path)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("backup %s: %w", path, err))
				continue
			}
			if backup != "" {
				logger.Info("backed up output", zap.String("path", path), zap.String("backup", backup))
			}
		}

		text := out.Text
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			result = multierror.Append(result, fmt.Errorf("write %s: %w", path, err))
			continue
		}

		logger.Info("wrote output",
			zap.String("sheet", out.Sheet),
			zap.String("path", path),
			zap.Int("bytes", len(text)))
		written = append(written, path)
	}

	return written, result.ErrorOrNil()
}

// Path returns the file path for an output name. Directory parts of name are
// dropped so every output lands in Dir. It returns false when nothing of
// name is left, e.g. for "", ".." or "/".
func (w *Writer) Path(name string) (string, bool) {
	name = filepath.Base(filepath.Clean("/" + strings.TrimSpace(name)))
	if name == "/" || name == "." || name == string(filepath.Separator) {
		return "", false
	}
	if filepath.Ext(name) == "" {
		name += w.Extension
	}
	return filepath.Join(w.Dir, name), true
}

// BackupPath returns the backup name of path for time t.
func BackupPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + t.Format(BackupLayout) + ext
}

func (w *Writer) backup(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	target := BackupPath(path, now())
	if err := os.Rename(path, target); err != nil {
		return "", err
	}
	return target, nil
}
