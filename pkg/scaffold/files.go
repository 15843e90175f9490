package scaffold

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/workflow"
)

// gitIgnoreEntries lists build output and dependency directories per
// runtime.
func gitIgnoreEntries(runtime workflow.RuntimeKind) []string {
	switch runtime {
	case workflow.RuntimePython:
		return []string{"__pycache__/", "*.pyc", ".venv/", "venv/"}
	case workflow.RuntimeGo:
		return []string{"*.exe", "*.test"}
	case workflow.RuntimeDotnet:
		return []string{"bin/", "obj/"}
	case workflow.RuntimeJava:
		return []string{"target/", "build/", ".gradle/"}
	case workflow.RuntimeYAML:
		return nil
	default:
		return []string{"node_modules/", "bin/"}
	}
}

// mergeManagedBlock replaces or appends the block between
// ManagedBlockMarker and ManagedBlockEndMarker. Lines outside the block are
// kept as they are, and entries the user already lists outside it are not
// repeated. A block without an end marker ends at the first line that is
// blank or not one of entries.
func mergeManagedBlock(existing string, entries []string) string {
	lines := splitLines(existing)
	closed := slices.Contains(lines, constants.ManagedBlockEndMarker)

	var kept []string
	inBlock, justClosed := false, false
	for _, line := range lines {
		if inBlock {
			if closed {
				if line == constants.ManagedBlockEndMarker {
					inBlock, justClosed = false, true
				}
				continue
			}
			if strings.TrimSpace(line) != "" && slices.Contains(entries, line) {
				continue
			}
			inBlock, justClosed = false, true
		}

		if line == constants.ManagedBlockMarker {
			inBlock = true
			continue
		}
		// The blank line that separated the removed block is not repeated
		if justClosed && strings.TrimSpace(line) == "" && (len(kept) == 0 || strings.TrimSpace(kept[len(kept)-1]) == "") {
			justClosed = false
			continue
		}
		justClosed = false
		kept = append(kept, line)
	}

	var missing []string
	for _, entry := range entries {
		if !slices.Contains(kept, entry) && !slices.Contains(missing, entry) {
			missing = append(missing, entry)
		}
	}

	// Drop trailing blank lines so the block is separated by exactly one
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	var b strings.Builder
	for _, line := range kept {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(missing) > 0 {
		if len(kept) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(constants.ManagedBlockMarker)
		b.WriteString("\n")
		for _, entry := range missing {
			b.WriteString(entry)
			b.WriteString("\n")
		}
		b.WriteString(constants.ManagedBlockEndMarker)
		b.WriteString("\n")
	}
	return b.String()
}

// renderGitIgnore merges the runtime's ignore entries into existing.
func renderGitIgnore(existing string, runtime workflow.RuntimeKind) string {
	return mergeManagedBlock(existing, gitIgnoreEntries(runtime))
}

// renderGitAttributes marks the workflow file as generated so GitHub
// collapses it in diffs.
func renderGitAttributes(existing string, workflowPath string) string {
	return mergeManagedBlock(existing, []string{
		filepath.ToSlash(workflowPath) + " linguist-generated=true",
	})
}

// renderJustfile writes install, preview and up recipes for the project.
func renderJustfile(cfg workflow.WorkflowConfig, runtime workflow.RuntimeResolution) string {
	cd := ""
	if cfg.WorkDir != "" && cfg.WorkDir != "." {
		cd = fmt.Sprintf("cd %s && ", workflow.ShellEscapeArg(cfg.WorkDir))
	}

	var b strings.Builder
	b.WriteString(constants.ManagedBlockMarker + "\n")
	fmt.Fprintf(&b, "# Regenerate with: %s synth\n\n", constants.CLIName)

	b.WriteString("# Install project dependencies\n")
	b.WriteString("install:\n")
	fmt.Fprintf(&b, "    %s%s\n\n", cd, runtime.InstallCommand)

	b.WriteString("# Preview changes to a stack\n")
	fmt.Fprintf(&b, "preview stack=%q: install\n", cfg.TestStack)
	fmt.Fprintf(&b, "    %spulumi preview --stack {{stack}}\n\n", cd)

	b.WriteString("# Deploy a stack\n")
	fmt.Fprintf(&b, "up stack=%q: install\n", cfg.TestStack)
	fmt.Fprintf(&b, "    %spulumi up --stack {{stack}}\n", cd)
	return b.String()
}

// isManagedJustfile reports whether content was written by this tool.
func isManagedJustfile(content string) bool {
	return strings.HasPrefix(content, constants.ManagedBlockMarker+"\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
