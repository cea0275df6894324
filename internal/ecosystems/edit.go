package ecosystems

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/depman-cli/depman/internal/normalize"
)

// Byte-level removal for manifest formats that no tool edits on our behalf.
// Lines are matched by normalized package name, so any spelling of the same
// logical dependency is removed. Unrelated lines, comments, and flags are
// written back untouched.

var depLineRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)

// removeFromRequirements drops the package's line from a requirements-style
// file.
func removeFromRequirements(path, pkgName string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Sprintf("%s not found", filepath.Base(path))
	}

	norm := normalize.Normalize(pkgName)
	var kept []string
	removed := false
	for _, line := range strings.Split(string(data), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped != "" && !strings.HasPrefix(stripped, "#") && !strings.HasPrefix(stripped, "-") {
			if m := depLineRe.FindStringSubmatch(stripped); m != nil && normalize.Normalize(m[1]) == norm {
				removed = true
				continue
			}
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, fmt.Sprintf("'%s' not found in %s", pkgName, filepath.Base(path))
	}
	if err := writeBackLines(path, kept); err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("Removed '%s' from %s", pkgName, filepath.Base(path))
}

// removeFromSetupCfg drops the package from [options] install_requires,
// rewriting only the lines inside that block.
func removeFromSetupCfg(path, pkgName string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, "setup.cfg not found"
	}

	norm := normalize.Normalize(pkgName)
	lines := strings.Split(string(data), "\n")
	var kept []string
	removed := false
	inOptions := false
	inRequires := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		indented := line != "" && (line[0] == ' ' || line[0] == '\t')

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inOptions = strings.EqualFold(trimmed, "[options]")
			inRequires = false
		} else if inOptions && !indented && trimmed != "" {
			key := trimmed
			if idx := strings.IndexAny(trimmed, "=:"); idx >= 0 {
				key = strings.TrimSpace(trimmed[:idx])
			}
			inRequires = strings.EqualFold(key, "install_requires")
		} else if inRequires && indented && trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			if m := depLineRe.FindStringSubmatch(trimmed); m != nil && normalize.Normalize(m[1]) == norm {
				removed = true
				continue
			}
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, fmt.Sprintf("'%s' not found in setup.cfg", pkgName)
	}
	if err := writeBackLines(path, kept); err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("Removed '%s' from setup.cfg", pkgName)
}

var pipfileKeyRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*=`)

// removeFromPipfile drops the package key from whichever Pipfile table
// declares it.
func removeFromPipfile(path, pkgName string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, "Pipfile not found"
	}

	norm := normalize.Normalize(pkgName)
	var kept []string
	removed := false
	for _, line := range strings.Split(string(data), "\n") {
		stripped := strings.TrimSpace(line)
		if m := pipfileKeyRe.FindStringSubmatch(stripped); m != nil && normalize.Normalize(m[1]) == norm {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, fmt.Sprintf("'%s' not found in Pipfile", pkgName)
	}
	if err := writeBackLines(path, kept); err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("Removed '%s' from Pipfile", pkgName)
}

func writeBackLines(path string, lines []string) error {
	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n") + "\n"
	return os.WriteFile(path, []byte(out), 0o644)
}
