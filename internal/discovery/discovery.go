package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/flagfile/internal/ctxlog"
	"github.com/vk/flagfile/internal/decode"
)

// Result reports the outcome of a config file search. Found is false when
// the walk reached the filesystem root without a match.
type Result struct {
	Found  bool
	Path   string
	Format decode.Format
}

// ConflictError reports two or more candidate config files in the same
// directory. A conflict at any level is terminal; the walk does not
// continue upward past it.
type ConflictError struct {
	Dir   string
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting config files in %s: %s", e.Dir, strings.Join(e.Paths, ", "))
}

// Discover walks from startDir (the process working directory when empty)
// up to and including the filesystem root, looking for baseName.<ext> for
// each allowed format.
func Discover(ctx context.Context, baseName string, formats []decode.Format, startDir string) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Result{}, fmt.Errorf("cannot determine working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Result{}, fmt.Errorf("cannot resolve start directory %s: %w", startDir, err)
	}
	logger.Debug("Config discovery started.", "base_name", baseName, "start_dir", dir, "formats", len(formats))

	for {
		var matches []string
		var matchedFormats []decode.Format
		for _, format := range formats {
			candidate := filepath.Join(dir, baseName+"."+string(format))
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				matches = append(matches, candidate)
				matchedFormats = append(matchedFormats, format)
			}
		}

		switch len(matches) {
		case 0:
			// Keep walking up.
		case 1:
			logger.Debug("Config file discovered.", "path", matches[0], "format", matchedFormats[0])
			return Result{Found: true, Path: matches[0], Format: matchedFormats[0]}, nil
		default:
			return Result{}, &ConflictError{Dir: dir, Paths: matches}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	logger.Debug("No config file found walking up to the root.", "base_name", baseName)
	return Result{}, nil
}

// Explicit returns the Result for an explicitly named config file,
// bypassing the search entirely. The format comes from the override when
// given, otherwise from the file's own extension.
func Explicit(path string, override decode.Format) (Result, error) {
	format := override
	if format == "" {
		ext := filepath.Ext(path)
		f, ok := decode.FromExtension(ext)
		if !ok {
			return Result{}, fmt.Errorf("cannot infer config format from extension %q of %s", ext, path)
		}
		format = f
	}
	return Result{Found: true, Path: path, Format: format}, nil
}
