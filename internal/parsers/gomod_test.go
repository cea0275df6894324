package parsers

import (
	"testing"
)

func TestGoModParse(t *testing.T) {
	content := []byte(`module example.com/demo

go 1.22

require (
	github.com/spf13/cobra v1.10.2
	golang.org/x/mod v0.31.0
)

require github.com/inconshreveable/mousetrap v1.1.0 // indirect
`)
	p := &GoModParser{}
	decls, err := p.Parse("go.mod", content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2 (indirect skipped): %+v", len(decls), decls)
	}
	if decls[0].Name != "github.com/spf13/cobra" || decls[0].Specifier != "v1.10.2" {
		t.Errorf("decl[0] = %+v", decls[0])
	}

	p.IncludeIndirect = true
	decls, err = p.Parse("go.mod", content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(decls) != 3 {
		t.Errorf("got %d declarations with indirect, want 3", len(decls))
	}
}

func TestGoModMalformed(t *testing.T) {
	p := &GoModParser{}
	if _, err := p.Parse("go.mod", []byte("require (((")); err == nil {
		t.Fatal("expected parse error for malformed go.mod")
	}
}

// Every parser must return cleanly for arbitrary byte input: either an error
// or declarations, never a panic.
func TestParserTotality(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x00, 0xff, 0x80, 0x01},
		[]byte("\xed\xa0\x80 truncated utf8"),
		[]byte("[[[[[[["),
		[]byte("{{{{"),
	}
	all := []Parser{
		&RequirementsParser{},
		&PyProjectParser{},
		&SetupPyParser{},
		&SetupCfgParser{},
		&PipfileParser{},
		&PackageJSONParser{},
		&GoModParser{},
	}
	for _, p := range all {
		for i, in := range inputs {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("%T panicked on input %d: %v", p, i, r)
					}
				}()
				p.Parse("manifest", in)
			}()
		}
	}
}
