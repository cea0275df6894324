package parsers

import (
	"regexp"
	"sort"
	"strings"
)

// sortedKeys returns a map's keys in sorted order, for deterministic
// declaration ordering out of TOML tables.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// depRe matches a PEP 508-style dependency string: a package name, optional
// extras in brackets, and an optional comma-separated constraint list.
var depRe = regexp.MustCompile(
	`^\s*(?P<name>[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)` +
		`(?:\[[^\]]*\])?` +
		`\s*(?P<spec>(?:[><=!~^]+\s*[A-Za-z0-9.*+!_-]+\s*,?\s*)*)`,
)

// parseDepString extracts (name, specifier) from a dependency string as
// written in requirements files, pyproject arrays, and setup metadata.
// The specifier defaults to "*" when no constraint is present. Environment
// markers after ';' are ignored.
func parseDepString(raw string) (name, spec string, ok bool) {
	if idx := strings.Index(raw, ";"); idx >= 0 {
		raw = raw[:idx]
	}
	m := depRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || m[1] == "" {
		return "", "", false
	}
	spec = strings.TrimSpace(m[2])
	if spec == "" {
		spec = "*"
	}
	return m[1], spec, true
}
