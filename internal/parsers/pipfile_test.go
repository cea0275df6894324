package parsers

import (
	"testing"

	"github.com/depman-cli/depman/internal/models"
)

func TestPipfileParse(t *testing.T) {
	content := []byte(`
[[source]]
url = "https://pypi.org/simple"
name = "pypi"

[packages]
requests = ">=2.31"
flask = {version = "==2.0.1", extras = ["async"]}
click = "*"

[dev-packages]
pytest = "==8.0.0"
`)
	p := &PipfileParser{}
	decls, err := p.Parse("Pipfile", content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []models.Declaration{
		{Name: "click", Specifier: "*", Group: "main", File: "Pipfile"},
		{Name: "flask", Specifier: "==2.0.1", Group: "main", File: "Pipfile"},
		{Name: "requests", Specifier: ">=2.31", Group: "main", File: "Pipfile"},
		{Name: "pytest", Specifier: "==8.0.0", Group: "dev", File: "Pipfile"},
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

func TestPipfileMalformed(t *testing.T) {
	p := &PipfileParser{}
	if _, err := p.Parse("Pipfile", []byte("[packages\nrequests =")); err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}
}
