package aggregate

import (
	"testing"

	"github.com/depman-cli/depman/internal/models"
)

func TestMergeAcrossFiles(t *testing.T) {
	decls := []models.Declaration{
		{Name: "requests", Specifier: ">=2.0", Group: "main", File: "requirements.txt"},
		{Name: "Requests", Specifier: "==2.31.0", Group: "main", File: "pyproject.toml"},
	}

	pkgs := Merge(decls, nil)
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1: %+v", len(pkgs), pkgs)
	}
	p := pkgs[0]
	if p.NormalizedName != "requests" {
		t.Errorf("NormalizedName = %q", p.NormalizedName)
	}
	if p.Name != "requests" {
		t.Errorf("display name = %q, want first-seen spelling %q", p.Name, "requests")
	}
	if len(p.Sources) != 2 {
		t.Fatalf("got %d sources, want 2: %+v", len(p.Sources), p.Sources)
	}
	if p.Sources[0].File != "requirements.txt" || p.Sources[1].File != "pyproject.toml" {
		t.Errorf("sources = %+v", p.Sources)
	}
}

func TestMergeNormalizationEquivalence(t *testing.T) {
	decls := []models.Declaration{
		{Name: "Foo_Bar", Specifier: "*", Group: "main", File: "a.txt"},
		{Name: "foo.bar", Specifier: ">=1.0", Group: "main", File: "b.txt"},
	}
	pkgs := Merge(decls, nil)
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1", len(pkgs))
	}
	if pkgs[0].NormalizedName != "foo-bar" || pkgs[0].Name != "Foo_Bar" {
		t.Errorf("pkg = %+v", pkgs[0])
	}
}

func TestMergeSameFileTwoGroups(t *testing.T) {
	decls := []models.Declaration{
		{Name: "pytest", Specifier: ">=8.0", Group: "main", File: "pyproject.toml"},
		{Name: "pytest", Specifier: ">=8.0", Group: "dev", File: "pyproject.toml"},
		{Name: "pytest", Specifier: ">=8.0", Group: "dev", File: "pyproject.toml"}, // exact dup collapsed
	}
	pkgs := Merge(decls, nil)
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1", len(pkgs))
	}
	if len(pkgs[0].Sources) != 2 {
		t.Errorf("got %d sources, want 2 (one per group): %+v", len(pkgs[0].Sources), pkgs[0].Sources)
	}
}

func TestMergeAttachesInstalledVersion(t *testing.T) {
	decls := []models.Declaration{
		{Name: "flask", Specifier: ">=2.0", Group: "main", File: "pyproject.toml"},
	}
	installed := []models.Installed{{Name: "Flask", Version: "2.0.3"}}

	pkgs := Merge(decls, installed)
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1", len(pkgs))
	}
	if pkgs[0].InstalledVersion != "2.0.3" {
		t.Errorf("InstalledVersion = %q", pkgs[0].InstalledVersion)
	}
	if len(pkgs[0].Sources) != 1 {
		t.Errorf("installed entry must not add a source: %+v", pkgs[0].Sources)
	}
}

func TestMergeInstalledButUndeclared(t *testing.T) {
	pkgs := Merge(nil, []models.Installed{{Name: "httpx", Version: "0.27.0"}})
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1", len(pkgs))
	}
	p := pkgs[0]
	if p.Declared() {
		t.Errorf("undeclared package reports Declared: %+v", p)
	}
	if p.InstalledVersion != "0.27.0" {
		t.Errorf("InstalledVersion = %q", p.InstalledVersion)
	}
}

func TestMergeEmptyProject(t *testing.T) {
	if pkgs := Merge(nil, nil); len(pkgs) != 0 {
		t.Errorf("empty project yielded %d packages", len(pkgs))
	}
}

func TestMergeSortedCaseInsensitive(t *testing.T) {
	decls := []models.Declaration{
		{Name: "zope-interface", Specifier: "*", Group: "main", File: "a.txt"},
		{Name: "Django", Specifier: "*", Group: "main", File: "a.txt"},
		{Name: "aiohttp", Specifier: "*", Group: "main", File: "a.txt"},
	}
	pkgs := Merge(decls, nil)
	wantOrder := []string{"aiohttp", "Django", "zope-interface"}
	for i, want := range wantOrder {
		if pkgs[i].Name != want {
			t.Errorf("pkgs[%d].Name = %q, want %q", i, pkgs[i].Name, want)
		}
	}
}
