// Package normalize canonicalizes package names for identity comparison
// across manifest formats.
package normalize

import (
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[-_.]+`)

// Normalize folds a package name to its canonical form: lowercase, with any
// run of '-', '_', '.' collapsed to a single '-'. This follows PEP 503 and
// is the sole merge key used by aggregation; "Foo_Bar", "foo.bar" and
// "FOO-BAR" all normalize to "foo-bar".
func Normalize(name string) string {
	return strings.ToLower(separators.ReplaceAllString(name, "-"))
}
