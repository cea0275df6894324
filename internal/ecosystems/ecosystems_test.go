package ecosystems

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/depman-cli/depman/internal/models"
)

func TestDetect(t *testing.T) {
	all := All(Config{})

	t.Run("empty dir", func(t *testing.T) {
		if _, err := Detect(t.TempDir(), all); err != ErrNoEcosystem {
			t.Errorf("expected ErrNoEcosystem, got %v", err)
		}
	})

	t.Run("python", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "requirements.txt", "requests\n")
		found, err := Detect(dir, all)
		if err != nil {
			t.Fatal(err)
		}
		if len(found) != 1 || found[0].Name() != models.EcosystemPython {
			t.Errorf("expected python only, got %d ecosystems", len(found))
		}
	})

	t.Run("mixed project", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pyproject.toml", "[project]\nname = \"x\"\n")
		writeFile(t, dir, "package.json", "{}")
		found, err := Detect(dir, all)
		if err != nil {
			t.Fatal(err)
		}
		if len(found) != 2 {
			t.Fatalf("expected 2 ecosystems, got %d", len(found))
		}
		if found[0].Name() != models.EcosystemPython || found[1].Name() != models.EcosystemJavaScript {
			t.Errorf("detection order wrong: %s, %s", found[0].Name(), found[1].Name())
		}
	})
}

func TestByName(t *testing.T) {
	all := All(Config{})
	for _, name := range []string{"python", "javascript", "go"} {
		if _, ok := ByName(name, all); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("rust", all); ok {
		t.Error("ByName(rust) should not be found")
	}
}

func TestPythonManifestPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.py", "")
	writeFile(t, dir, "requirements-dev.txt", "")
	writeFile(t, dir, "requirements.txt", "")
	writeFile(t, dir, "pyproject.toml", "")

	p := NewPython(Config{}.registryOptions(""))
	paths := p.ManifestPaths(dir)

	want := []string{"pyproject.toml", "requirements-dev.txt", "requirements.txt", "setup.py"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i, w := range want {
		if filepath.Base(paths[i]) != w {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(paths[i]), w)
		}
	}
}

func TestAddSpec(t *testing.T) {
	tests := []struct {
		spec AddSpec
		want string
	}{
		{AddSpec{Name: "requests"}, "requests"},
		{AddSpec{Name: "requests", Version: "2.31.0"}, "requests==2.31.0"},
		{AddSpec{Name: "requests", Version: "2.0", Constraint: ">="}, "requests>=2.0"},
	}
	for _, tt := range tests {
		if got := tt.spec.Spec(); got != tt.want {
			t.Errorf("Spec() = %q, want %q", got, tt.want)
		}
	}
}

func TestPythonRemoveRoundTrip(t *testing.T) {
	// Remove against a file-backed source must leave the manifest parseable
	// and without the package.
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests>=2.28\nFlask==2.3.0\nnumpy\n")

	p := NewPython(Config{}.registryOptions(""))

	ok, msg := p.Remove(context.Background(), dir, "flask",
		models.DepSource{File: "requirements.txt", Group: models.GroupMain})
	if !ok {
		t.Fatalf("remove failed: %s", msg)
	}

	content, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	decls := parseRequirementsForTest(t, string(content))
	for _, d := range decls {
		if d == "flask" {
			t.Error("flask still declared after removal")
		}
	}
	if len(decls) != 2 {
		t.Errorf("expected 2 remaining declarations, got %v", decls)
	}
}

func parseRequirementsForTest(t *testing.T, content string) []string {
	t.Helper()
	p := NewPython(Config{}.registryOptions(""))
	for _, parser := range p.Parsers() {
		if !parser.CanParse("requirements.txt") {
			continue
		}
		decls, err := parser.Parse("requirements.txt", []byte(content))
		if err != nil {
			t.Fatalf("file unparsable after edit: %v", err)
		}
		names := make([]string, 0, len(decls))
		for _, d := range decls {
			names = append(names, d.Name)
		}
		return names
	}
	t.Fatal("no requirements parser registered")
	return nil
}

func TestPythonRemoveSetupPyRefused(t *testing.T) {
	p := NewPython(Config{}.registryOptions(""))
	ok, msg := p.Remove(context.Background(), t.TempDir(), "requests",
		models.DepSource{File: "setup.py"})
	if ok {
		t.Fatal("setup.py removal must be refused")
	}
	if msg == "" {
		t.Error("refusal should carry a message")
	}
}

func TestParsePackageLock(t *testing.T) {
	t.Run("v3 packages map", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package-lock.json", `{
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "app"},
    "node_modules/express": {"version": "4.19.2"},
    "node_modules/lodash": {"version": "4.17.21"},
    "node_modules/express/node_modules/debug": {"version": "2.6.9"}
  }
}`)
		got := parsePackageLock(filepath.Join(dir, "package-lock.json"))
		want := []models.Installed{
			{Name: "express", Version: "4.19.2"},
			{Name: "lodash", Version: "4.17.21"},
		}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("v1 dependencies map", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package-lock.json", `{
  "lockfileVersion": 1,
  "dependencies": {
    "express": {"version": "4.18.0"}
  }
}`)
		got := parsePackageLock(filepath.Join(dir, "package-lock.json"))
		if len(got) != 1 || got[0].Name != "express" || got[0].Version != "4.18.0" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if got := parsePackageLock(filepath.Join(t.TempDir(), "package-lock.json")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestParseUvLock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "uv.lock", `version = 1

[[package]]
name = "requests"
version = "2.31.0"

[[package]]
name = "urllib3"
version = "2.2.1"
`)
	got := parseUvLock(filepath.Join(dir, "uv.lock"))
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Name != "requests" || got[0].Version != "2.31.0" {
		t.Errorf("first entry = %v", got[0])
	}
}

func TestDocsURL(t *testing.T) {
	all := All(Config{})
	want := map[models.Ecosystem]string{
		models.EcosystemPython:     "https://pypi.org/project/requests/",
		models.EcosystemJavaScript: "https://www.npmjs.com/package/requests",
		models.EcosystemGo:         "https://pkg.go.dev/requests",
	}
	for _, eco := range all {
		if got := eco.DocsURL("requests"); got != want[eco.Name()] {
			t.Errorf("%s DocsURL = %q, want %q", eco.Name(), got, want[eco.Name()])
		}
	}
}
