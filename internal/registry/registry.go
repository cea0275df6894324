// Package registry implements read-only package index clients for each
// ecosystem. All operations are idempotent; errors never escape the client
// boundary except as negative results with a human-readable reason.
package registry

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/depman-cli/depman/internal/cache"
	"github.com/depman-cli/depman/internal/models"
	"golang.org/x/sync/semaphore"
)

// Sentinel errors kept distinguishable so callers can tell "nothing found"
// from "the network is broken".
var (
	ErrNotFound = errors.New("not found")
	ErrNetwork  = errors.New("network error")
)

// DefaultConcurrency caps simultaneous in-flight lookups per batch.
const DefaultConcurrency = 10

// Client is the uniform registry surface per ecosystem.
type Client interface {
	// Resolve checks that name exists; with a version it checks that the
	// version is published, otherwise it resolves the latest release.
	// It fails closed: valid is false on any lookup problem, with reason
	// distinguishing not-found from network failure.
	Resolve(ctx context.Context, name, version string) (valid bool, reason string, resolved string)

	// LatestVersions fetches the latest version per name under the bounded
	// concurrency cap. Names whose lookup fails are omitted.
	LatestVersions(ctx context.Context, names []string) map[string]string

	// Search returns ranked matches for query; empty on error or no match.
	Search(ctx context.Context, query string) []models.RegistryPackageInfo

	// Metadata returns best-effort enrichment fields; absent fields are
	// simply omitted.
	Metadata(ctx context.Context, name string) map[string]string
}

// Options configures a registry client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Cache       *cache.Cache
	Concurrency int
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Timeout == 0 {
		o.Timeout = 15 * time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

func (o Options) httpClient() *http.Client {
	return &http.Client{Timeout: o.Timeout}
}

// latestAll fans out one fetch per name, never exceeding limit in-flight
// requests. Individual failures drop the name from the result; the batch
// itself always completes.
func latestAll(ctx context.Context, names []string, limit int, fetch func(context.Context, string) (string, error)) map[string]string {
	sem := semaphore.NewWeighted(int64(limit))
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]string, len(names))
	)
	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)
			version, err := fetch(ctx, name)
			if err != nil || version == "" {
				return
			}
			mu.Lock()
			out[name] = version
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	return out
}
