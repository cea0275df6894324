package reporter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/depman-cli/depman/internal/models"
)

func TestGet(t *testing.T) {
	if _, ok := Get("json").(*JSONReporter); !ok {
		t.Error("Get(json) should return JSONReporter")
	}
	if _, ok := Get("table").(*TerminalReporter); !ok {
		t.Error("Get(table) should return TerminalReporter")
	}
	if _, ok := Get("").(*TerminalReporter); !ok {
		t.Error("Get with empty format should default to terminal")
	}
}

func TestJSONPackages(t *testing.T) {
	r := &JSONReporter{}
	out, err := r.Packages([]PackageRow{
		{Name: "requests", Specifier: ">=2.28", Installed: "2.31.0", Latest: "2.32.0", Status: StatusOutdated,
			Sources: []string{"pyproject.toml"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var parsed struct {
		Total    int          `json:"total"`
		Packages []PackageRow `json:"packages"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Total != 1 || parsed.Packages[0].Name != "requests" {
		t.Errorf("unexpected payload: %+v", parsed)
	}
}

func TestJSONPackagesEmpty(t *testing.T) {
	r := &JSONReporter{}
	out, err := r.Packages(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"packages": []`) {
		t.Errorf("nil rows should serialize as empty array: %s", out)
	}
}

func TestTerminalPackages(t *testing.T) {
	r := NewTerminalReporter()
	out, err := r.Packages([]PackageRow{
		{Name: "requests", Specifier: ">=2.28", Installed: "2.31.0", Status: StatusUpToDate,
			Sources: []string{"pyproject.toml", "requirements.txt"}},
		{Name: "leftover", Status: StatusUndeclared, Installed: "1.0.0"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	for _, want := range []string{"PACKAGE", "requests", "pyproject.toml, requirements.txt", "leftover", "2 packages"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTerminalPackagesEmpty(t *testing.T) {
	r := NewTerminalReporter()
	out, err := r.Packages(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "No dependencies") {
		t.Errorf("unexpected empty output: %s", out)
	}
}

func TestTerminalSearch(t *testing.T) {
	r := NewTerminalReporter()
	out, err := r.Search([]models.RegistryPackageInfo{
		{Name: "flask", LatestVersion: "3.0.3", Description: "A simple framework for building complex web applications."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "flask") || !strings.Contains(string(out), "3.0.3") {
		t.Errorf("search output incomplete: %s", out)
	}
}

func TestInfoSkipsEmptyFields(t *testing.T) {
	r := NewTerminalReporter()
	out, err := r.Info([]Field{
		{Key: "Name", Value: "requests"},
		{Key: "License", Value: ""},
		{Key: "Homepage", Value: "https://requests.readthedocs.io"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "License") {
		t.Errorf("empty field should be skipped: %s", out)
	}
}

func TestEnv(t *testing.T) {
	info := models.EnvInfo{
		LanguageName: "Python", LanguageVersion: "3.12.1",
		ToolName: "uv", ToolVersion: "0.4.0",
		EnvLabel: ".venv", EnvExists: true,
	}

	term, err := NewTerminalReporter().Env(info)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Python", "3.12.1", "uv", ".venv"} {
		if !strings.Contains(string(term), want) {
			t.Errorf("terminal env output missing %q: %s", want, term)
		}
	}

	raw, err := (&JSONReporter{}).Env(info)
	if err != nil {
		t.Fatal(err)
	}
	var parsed models.EnvInfo
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed != info {
		t.Errorf("JSON round trip mismatch: %+v", parsed)
	}
}
