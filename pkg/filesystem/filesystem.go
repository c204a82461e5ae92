// Package filesystem persists generated artifacts into a run-scoped
// directory tree. All writes go through path-safety checks, and the save
// contract is non-throwing: failures are logged and reported via the
// return values so one file's failure cannot abort a concurrent batch.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alantheprice/siteforge/pkg/logging"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SaveRunFile writes content to <root>/<runID>/<filename>, creating
// intermediate directories as needed. It returns whether the write
// succeeded and the resolved path. Absolute filenames and filenames with
// parent-traversal segments are rejected without writing.
func SaveRunFile(root, runID, filename, content string) (bool, string) {
	logger := logging.GetLogger()

	path, err := safeJoin(root, runID, filename)
	if err != nil {
		logger.LogError(err)
		return false, ""
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.LogError(fmt.Errorf("could not create directory for %s: %w", path, err))
		return false, ""
	}

	// A duplicate filename within one run means a later task is
	// overwriting an earlier result. Last write wins, but log the diff
	// so the collision is visible in the run log.
	if old, err := os.ReadFile(path); err == nil {
		logOverwriteDiff(path, string(old), content)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		logger.LogError(fmt.Errorf("could not write file %s: %w", path, err))
		return false, ""
	}

	logger.Logf("Wrote file: %s (%d bytes)", path, len(content))
	return true, path
}

// SaveSidecar writes a diagnostic file alongside the intended artifact
// location, e.g. index.html.error.txt. Best effort: failures are logged
// and swallowed.
func SaveSidecar(root, runID, filename, suffix, content string) {
	ok, path := SaveRunFile(root, runID, filename+suffix, content)
	if !ok {
		logging.GetLogger().Logf("Could not write diagnostic sidecar for %s%s", filename, suffix)
		return
	}
	logging.GetLogger().Logf("Wrote diagnostic sidecar: %s", path)
}

// safeJoin resolves filename under the run directory, failing closed on
// absolute paths and parent-directory traversal.
func safeJoin(root, runID, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("empty filename provided")
	}
	if filepath.IsAbs(filename) || strings.HasPrefix(filename, "/") {
		return "", fmt.Errorf("security violation: absolute filename rejected: %s", filename)
	}
	// Split on both separators so a backslash-delimited traversal is
	// caught on every platform.
	for _, segment := range strings.FieldsFunc(filename, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return "", fmt.Errorf("security violation: parent traversal rejected: %s", filename)
		}
	}

	runDir := filepath.Join(root, runID)
	path := filepath.Join(runDir, filepath.FromSlash(filename))

	// Clean may still have folded the path outside the run directory
	// (e.g. a runID containing separators); verify containment.
	rel, err := filepath.Rel(runDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("security violation: %s resolves outside run directory", filename)
	}
	return path, nil
}

// RunDir returns the on-disk directory for a run.
func RunDir(root, runID string) string {
	return filepath.Join(root, runID)
}

func logOverwriteDiff(path, old, updated string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, updated, false)
	logging.GetLogger().Logf("Overwriting %s; diff:\n%s", path, dmp.DiffPrettyText(diffs))
}
