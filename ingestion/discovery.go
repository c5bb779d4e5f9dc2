package ingestion

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Discovery is the result of looking for input files.
type Discovery struct {
	// Dir is the directory the files were found in ("." for the working
	// directory fallback). Empty when nothing was found.
	Dir string

	// Files are regular files matching the pattern, in lexical order.
	Files []string

	// FellBack is true when the files came from the working directory.
	FellBack bool
}

// DiscoverFiles finds files matching pattern in sourceDir.
//
// When sourceDir holds no match, or does not exist, and fallback is set,
// the working directory is searched instead. A missing sourceDir without
// fallback is ErrSourceDirMissing. Finding nothing at all is not an error.
func DiscoverFiles(sourceDir, pattern string, fallback bool, logger *slog.Logger) (*Discovery, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(sourceDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !fallback {
			return nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, sourceDir)
		}
		logger.Warn("source directory not found, trying working directory", "dir", sourceDir)
	case err != nil:
		return nil, fmt.Errorf("stat source directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrSourceNotDirectory, sourceDir)
	default:
		files, err := globFiles(sourceDir, pattern)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			return &Discovery{Dir: sourceDir, Files: files}, nil
		}
		logger.Warn("no matching files in source directory", "dir", sourceDir, "pattern", pattern)
		if !fallback || sameDir(sourceDir, ".") {
			return &Discovery{}, nil
		}
	}

	files, err := globFiles(".", pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("no matching files in working directory either", "pattern", pattern)
		return &Discovery{}, nil
	}
	return &Discovery{Dir: ".", Files: files, FellBack: true}, nil
}

// globFiles returns the regular files under dir matching pattern, sorted.
func globFiles(dir, pattern string) ([]string, error) {
	full := pattern
	if dir != "." {
		full = filepath.Join(escapeMeta(dir), pattern)
	}
	matches, err := doublestar.Glob(full)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", full, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	slices.Sort(files)
	return files, nil
}

// escapeMeta quotes glob metacharacters in a literal directory path.
func escapeMeta(path string) string {
	if os.PathSeparator == '\\' {
		// Backslash is a separator there, not an escape.
		return path
	}
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
