package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/depman-cli/depman/internal/cache"
)

func pypiHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/requests/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"info": {"name": "requests", "version": "2.31.0", "summary": "HTTP for Humans",
				"license": "Apache-2.0", "author": "Kenneth Reitz", "home_page": "https://requests.readthedocs.io",
				"requires_dist": ["urllib3", "certifi"]},
			"releases": {"2.31.0": [], "2.30.0": []}
		}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return mux
}

func TestPyPIResolveLatest(t *testing.T) {
	srv := httptest.NewServer(pypiHandler(t))
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL})
	valid, reason, resolved := c.Resolve(context.Background(), "requests", "")
	if !valid || reason != "" {
		t.Fatalf("Resolve = (%v, %q, %q)", valid, reason, resolved)
	}
	if resolved != "2.31.0" {
		t.Errorf("resolved = %q, want 2.31.0", resolved)
	}
}

func TestPyPIResolveKnownVersion(t *testing.T) {
	srv := httptest.NewServer(pypiHandler(t))
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL})
	valid, _, resolved := c.Resolve(context.Background(), "requests", "2.30.0")
	if !valid || resolved != "2.30.0" {
		t.Errorf("Resolve = (%v, %q)", valid, resolved)
	}
}

func TestPyPIResolveUnknownVersion(t *testing.T) {
	srv := httptest.NewServer(pypiHandler(t))
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL})
	valid, reason, resolved := c.Resolve(context.Background(), "requests", "9.9.9")
	if valid {
		t.Fatal("unknown version resolved as valid")
	}
	if !strings.Contains(reason, "version 9.9.9 not found") {
		t.Errorf("reason = %q", reason)
	}
	if resolved != "2.31.0" {
		t.Errorf("resolved latest = %q, want 2.31.0", resolved)
	}
}

func TestPyPIResolveNotFoundVsNetworkError(t *testing.T) {
	srv := httptest.NewServer(pypiHandler(t))
	c := NewPyPI(Options{BaseURL: srv.URL})

	valid, reason, _ := c.Resolve(context.Background(), "no-such-package", "")
	if valid {
		t.Fatal("missing package resolved as valid")
	}
	if !strings.Contains(reason, "not found") {
		t.Errorf("not-found reason = %q", reason)
	}

	// Same lookup against a dead server must say "network", not "not found".
	srv.Close()
	valid, reason, _ = c.Resolve(context.Background(), "requests", "")
	if valid {
		t.Fatal("resolve against dead server reported valid")
	}
	if !strings.Contains(reason, "network error") {
		t.Errorf("network reason = %q", reason)
	}
}

func TestPyPILatestVersionsBoundedConcurrency(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := maxInFlight.Load()
			if cur <= old || maxInFlight.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, `{"info": {"version": "1.0.0"}, "releases": {}}`)
	}))
	defer srv.Close()

	const limit = 10
	c := NewPyPI(Options{BaseURL: srv.URL, Concurrency: limit})

	names := make([]string, 25)
	for i := range names {
		names[i] = fmt.Sprintf("pkg-%d", i)
	}
	got := c.LatestVersions(context.Background(), names)

	if len(got) != len(names) {
		t.Errorf("got %d results, want %d", len(got), len(names))
	}
	if m := maxInFlight.Load(); m > limit {
		t.Errorf("max in-flight requests = %d, cap is %d", m, limit)
	}
}

func TestPyPILatestVersionsPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"info": {"version": "3.0.0"}, "releases": {}}`)
	}))
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL})
	got := c.LatestVersions(context.Background(), []string{"present", "missing-one", "also-present"})

	if len(got) != 2 {
		t.Fatalf("got %v, want the two present names", got)
	}
	if got["present"] != "3.0.0" || got["also-present"] != "3.0.0" {
		t.Errorf("got %v", got)
	}
	if _, ok := got["missing-one"]; ok {
		t.Error("failed lookup should be omitted, not present")
	}
}

func TestPyPISearchUsesCachedIndex(t *testing.T) {
	var indexFetches atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/simple/", func(w http.ResponseWriter, r *http.Request) {
		indexFetches.Add(1)
		fmt.Fprint(w, `{"projects": [{"name": "flask"}, {"name": "flask-login"}, {"name": "django"}]}`)
	})
	mux.HandleFunc("/pypi/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"info": {"version": "1.2.3", "summary": "a web thing"}, "releases": {}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL, Cache: cache.NewAt(t.TempDir(), time.Hour)})

	results := c.Search(context.Background(), "flask")
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if !strings.Contains(r.Name, "flask") {
			t.Errorf("unexpected match %q", r.Name)
		}
		if r.LatestVersion != "1.2.3" || r.Description != "a web thing" {
			t.Errorf("result not enriched: %+v", r)
		}
	}

	c.Search(context.Background(), "django")
	if n := indexFetches.Load(); n != 1 {
		t.Errorf("index fetched %d times, want 1 (second search served from cache)", n)
	}
}

func TestPyPISearchErrorYieldsEmpty(t *testing.T) {
	c := NewPyPI(Options{BaseURL: "http://127.0.0.1:1"})
	if got := c.Search(context.Background(), "anything"); len(got) != 0 {
		t.Errorf("search against dead server returned %v", got)
	}
}

func TestPyPIMetadata(t *testing.T) {
	srv := httptest.NewServer(pypiHandler(t))
	defer srv.Close()

	c := NewPyPI(Options{BaseURL: srv.URL})
	meta := c.Metadata(context.Background(), "requests")
	want := map[string]string{
		"latest_version": "2.31.0",
		"description":    "HTTP for Humans",
		"license":        "Apache-2.0",
		"author":         "Kenneth Reitz",
		"homepage":       "https://requests.readthedocs.io",
		"requires":       "urllib3, certifi",
	}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("meta[%q] = %q, want %q", k, meta[k], v)
		}
	}

	if got := c.Metadata(context.Background(), "no-such-package"); got != nil {
		t.Errorf("metadata for missing package = %v, want nil", got)
	}
}
