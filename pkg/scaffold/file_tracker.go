package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var fileTrackerLog = logger.New("scaffold:file_tracker")

// FileTracker writes files under a project root and remembers what it
// created or changed so a failed synth can be undone.
type FileTracker struct {
	CreatedFiles    []string
	ModifiedFiles   []string
	OriginalContent map[string][]byte
	root            string
}

// NewFileTracker creates a tracker for files under root.
func NewFileTracker(root string) *FileTracker {
	fileTrackerLog.Printf("Creating file tracker for %s", root)
	return &FileTracker{
		OriginalContent: make(map[string][]byte),
		root:            root,
	}
}

// WriteFile writes content to rel, relative to the tracker root, creating
// parent directories as needed. Files whose content already matches are
// left alone and reported as unchanged.
func (ft *FileTracker) WriteFile(rel string, content []byte) (FileStatus, error) {
	path := filepath.Join(ft.root, rel)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			fileTrackerLog.Printf("Unchanged: %s", path)
			return StatusUnchanged, nil
		}
		if _, stored := ft.OriginalContent[path]; !stored {
			ft.OriginalContent[path] = existing
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", rel, err)
		}
		ft.ModifiedFiles = append(ft.ModifiedFiles, path)
		fileTrackerLog.Printf("Updated: %s (%d -> %d bytes)", path, len(existing), len(content))
		return StatusUpdated, nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", rel, err)
		}
		ft.CreatedFiles = append(ft.CreatedFiles, path)
		fileTrackerLog.Printf("Created: %s (%d bytes)", path, len(content))
		return StatusCreated, nil
	default:
		return "", fmt.Errorf("failed to read %s: %w", rel, err)
	}
}

// GetAllFiles returns all tracked files (created and modified)
func (ft *FileTracker) GetAllFiles() []string {
	all := make([]string, 0, len(ft.CreatedFiles)+len(ft.ModifiedFiles))
	all = append(all, ft.CreatedFiles...)
	all = append(all, ft.ModifiedFiles...)
	return all
}

// RollbackCreatedFiles deletes all files that were created during the operation
func (ft *FileTracker) RollbackCreatedFiles(verbose bool) error {
	if len(ft.CreatedFiles) == 0 {
		return nil
	}

	fileTrackerLog.Printf("Rolling back %d created files", len(ft.CreatedFiles))
	console.LogVerbose(verbose, fmt.Sprintf("Rolling back %d created files...", len(ft.CreatedFiles)))

	var errs []string
	for _, file := range ft.CreatedFiles {
		console.LogVerbose(verbose, fmt.Sprintf("  - Deleting %s", file))
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("failed to delete %s: %v", file, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("rollback errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RollbackModifiedFiles restores all modified files to their original state
func (ft *FileTracker) RollbackModifiedFiles(verbose bool) error {
	if len(ft.ModifiedFiles) == 0 {
		return nil
	}

	console.LogVerbose(verbose, fmt.Sprintf("Rolling back %d modified files...", len(ft.ModifiedFiles)))

	var errs []string
	for _, file := range ft.ModifiedFiles {
		original, ok := ft.OriginalContent[file]
		if !ok {
			continue
		}
		console.LogVerbose(verbose, fmt.Sprintf("  - Restoring %s", file))
		if err := os.WriteFile(file, original, 0644); err != nil {
			errs = append(errs, fmt.Sprintf("failed to restore %s: %v", file, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("rollback errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RollbackAllFiles rolls back both created and modified files
func (ft *FileTracker) RollbackAllFiles(verbose bool) error {
	var errs []string

	if err := ft.RollbackCreatedFiles(verbose); err != nil {
		errs = append(errs, fmt.Sprintf("created files rollback: %v", err))
	}
	if err := ft.RollbackModifiedFiles(verbose); err != nil {
		errs = append(errs, fmt.Sprintf("modified files rollback: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("rollback errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
