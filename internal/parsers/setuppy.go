package parsers

import (
	"github.com/depman-cli/depman/internal/models"
)

// SetupPyParser extracts install_requires entries from setup.py. It scans
// the source with a small lexer that tracks string and comment state, so an
// "install_requires" spelled inside an arbitrary string literal is never
// mistaken for the keyword argument. Only literal list values are handled;
// dynamically computed requirement lists are out of reach without running
// the file.
type SetupPyParser struct{}

// CanParse matches setup.py.
func (p *SetupPyParser) CanParse(filename string) bool {
	return filename == "setup.py"
}

// Parse scans for install_requires=[...] at a code position and parses the
// string literals inside the list.
func (p *SetupPyParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	var decls []models.Declaration
	for _, raw := range extractLiteralList(string(content), "install_requires") {
		name, spec, ok := parseDepString(raw)
		if !ok {
			continue
		}
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: spec,
			Group:     models.GroupMain,
			File:      "setup.py",
		})
	}
	return decls, nil
}

// extractLiteralList finds `keyword = [ ... ]` occurrences outside strings
// and comments and returns the string literals of the first literal list.
func extractLiteralList(src, keyword string) []string {
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '#':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			i = skipPyString(src, i)
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			if src[start:i] != keyword {
				continue
			}
			j := skipSpace(src, i)
			if j >= n || src[j] != '=' {
				continue
			}
			// '==' is comparison, not a keyword argument
			if j+1 < n && src[j+1] == '=' {
				continue
			}
			j = skipSpace(src, j+1)
			if j < n && (src[j] == '[' || src[j] == '(') {
				return parsePyStringList(src, j+1)
			}
		default:
			i++
		}
	}
	return nil
}

// parsePyStringList collects string literals until the closing bracket,
// concatenating adjacent literals the way Python does.
func parsePyStringList(src string, i int) []string {
	var items []string
	var current string
	haveCurrent := false
	n := len(src)

	flush := func() {
		if haveCurrent {
			items = append(items, current)
			current = ""
			haveCurrent = false
		}
	}

	for i < n {
		c := src[i]
		switch {
		case c == ']' || c == ')':
			flush()
			return items
		case c == ',':
			flush()
			i++
		case c == '#':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			lit, next := readPyString(src, i)
			current += lit
			haveCurrent = true
			i = next
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		default:
			// Non-literal element (variable, f-string, call): skip to the
			// next comma or closing bracket and drop the element.
			haveCurrent = false
			current = ""
			for i < n && src[i] != ',' && src[i] != ']' && src[i] != ')' {
				if src[i] == '\'' || src[i] == '"' {
					i = skipPyString(src, i)
				} else {
					i++
				}
			}
		}
	}
	return items
}

// readPyString reads a quoted Python string starting at i and returns its
// unescaped-enough value plus the index after the closing quote. Triple
// quotes are handled; escape sequences beyond \' \" \\ are kept verbatim.
func readPyString(src string, i int) (string, int) {
	quote := src[i]
	n := len(src)
	triple := i+2 < n && src[i+1] == quote && src[i+2] == quote
	var b []byte
	if triple {
		i += 3
	} else {
		i++
	}
	for i < n {
		c := src[i]
		if c == '\\' && i+1 < n {
			next := src[i+1]
			if next == quote || next == '\\' {
				b = append(b, next)
			} else {
				b = append(b, c, next)
			}
			i += 2
			continue
		}
		if c == quote {
			if !triple {
				return string(b), i + 1
			}
			if i+2 < n && src[i+1] == quote && src[i+2] == quote {
				return string(b), i + 3
			}
		}
		if !triple && c == '\n' {
			// Unterminated single-quoted string; bail at end of line.
			return string(b), i + 1
		}
		b = append(b, c)
		i++
	}
	return string(b), n
}

func skipPyString(src string, i int) int {
	_, next := readPyString(src, i)
	return next
}

func skipSpace(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
