package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := NewAt(t.TempDir(), time.Hour)

	in := map[string]string{"requests": "2.31.0"}
	if err := c.Set("latest", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out map[string]string
	if !c.Get("latest", &out) {
		t.Fatal("Get: miss, want hit")
	}
	if out["requests"] != "2.31.0" {
		t.Errorf("payload = %v", out)
	}
}

func TestGetMiss(t *testing.T) {
	c := NewAt(t.TempDir(), time.Hour)
	var out []string
	if c.Get("absent", &out) {
		t.Error("Get on absent key reported a hit")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := NewAt(t.TempDir(), time.Hour)
	if err := c.Set("k", []string{"a"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	var out []string
	if c.Get("k", &out) {
		t.Error("expired entry reported as hit")
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c := NewAt(dir, time.Hour)
	if err := c.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		os.WriteFile(filepath.Join(dir, e.Name()), []byte("not json{"), 0o644)
	}
	var out string
	if c.Get("k", &out) {
		t.Error("corrupt entry reported as hit")
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	c := NewAt(dir, time.Hour)
	if err := c.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		os.WriteFile(path, []byte(`{"version":99,"saved_at":"2026-01-01T00:00:00Z","payload":"\"v\""}`), 0o644)
	}
	var out string
	if c.Get("k", &out) {
		t.Error("schema-mismatched entry reported as hit")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	if err := c.Set("k", "v"); err != nil {
		t.Errorf("nil Set: %v", err)
	}
	var out string
	if c.Get("k", &out) {
		t.Error("nil Get reported a hit")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	c := NewAt(dir, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	var out int
	if c.Get("a", &out) || c.Get("b", &out) {
		t.Error("entries survived Clear")
	}
}
