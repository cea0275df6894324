package parsers

import (
	"testing"

	"github.com/depman-cli/depman/internal/models"
)

func TestRequirementsCanParse(t *testing.T) {
	p := &RequirementsParser{}
	for filename, want := range map[string]bool{
		"requirements.txt":      true,
		"requirements-dev.txt":  true,
		"requirements_test.txt": true,
		"requirements.in":       false,
		"package.json":          false,
	} {
		if got := p.CanParse(filename); got != want {
			t.Errorf("CanParse(%q) = %v, want %v", filename, got, want)
		}
	}
}

func TestRequirementsParse(t *testing.T) {
	content := []byte(`# comment line
requests>=2.31
flask[async]==2.0.1
-r other.txt
--index-url https://example.invalid/simple

click  # inline comment
pyyaml
`)
	p := &RequirementsParser{}
	decls, err := p.Parse("requirements.txt", content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []models.Declaration{
		{Name: "requests", Specifier: ">=2.31", Group: "main", File: "requirements.txt"},
		{Name: "flask", Specifier: "==2.0.1", Group: "main", File: "requirements.txt"},
		{Name: "click", Specifier: "*", Group: "main", File: "requirements.txt"},
		{Name: "pyyaml", Specifier: "*", Group: "main", File: "requirements.txt"},
	}
	if len(decls) != len(want) {
		t.Fatalf("got %d declarations, want %d: %+v", len(decls), len(want), decls)
	}
	for i, w := range want {
		if decls[i] != w {
			t.Errorf("decl[%d] = %+v, want %+v", i, decls[i], w)
		}
	}
}

func TestRequirementsParseEmptyAndGarbage(t *testing.T) {
	p := &RequirementsParser{}
	for name, content := range map[string][]byte{
		"empty":   nil,
		"garbage": {0xff, 0xfe, 0x00, 0x01},
		"flags":   []byte("-e .\n--no-binary :all:\n"),
	} {
		t.Run(name, func(t *testing.T) {
			decls, err := p.Parse("requirements.txt", content)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(decls) != 0 {
				t.Errorf("got %d declarations, want 0", len(decls))
			}
		})
	}
}
