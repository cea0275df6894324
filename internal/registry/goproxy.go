package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"golang.org/x/mod/module"
)

// DefaultGoProxyURL is the public Go module proxy.
const DefaultGoProxyURL = "https://proxy.golang.org"

// GoProxyClient resolves module versions against a GOPROXY endpoint. The
// proxy protocol has no search or rich-metadata surface, so those
// operations degrade to empty results by design of the collaborator, not of
// this client.
type GoProxyClient struct {
	opts Options
	http *http.Client
}

// NewGoProxy creates a Go module proxy client.
func NewGoProxy(opts Options) *GoProxyClient {
	opts = opts.withDefaults(DefaultGoProxyURL)
	return &GoProxyClient{opts: opts, http: opts.httpClient()}
}

type proxyInfo struct {
	Version string `json:"Version"`
}

func (c *GoProxyClient) fetchInfo(ctx context.Context, path, suffix string) (*proxyInfo, error) {
	escaped, err := module.EscapePath(path)
	if err != nil {
		return nil, ErrNotFound
	}
	url := fmt.Sprintf("%s/%s/%s", c.opts.BaseURL, escaped, suffix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	// The proxy answers 404 for unknown modules and 410 for known-missing.
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: proxy returned status %d", ErrNetwork, resp.StatusCode)
	}

	var info proxyInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}
	return &info, nil
}

// Resolve implements Client.
func (c *GoProxyClient) Resolve(ctx context.Context, name, version string) (bool, string, string) {
	if version != "" {
		v := canonicalGoVersion(version)
		info, err := c.fetchInfo(ctx, name, "@v/"+v+".info")
		if err != nil {
			return false, resolveReason(name+"@"+version, err), ""
		}
		return true, "", info.Version
	}
	info, err := c.fetchInfo(ctx, name, "@latest")
	if err != nil {
		return false, resolveReason(name, err), ""
	}
	return true, "", info.Version
}

// LatestVersions implements Client.
func (c *GoProxyClient) LatestVersions(ctx context.Context, names []string) map[string]string {
	return latestAll(ctx, names, c.opts.Concurrency, func(ctx context.Context, name string) (string, error) {
		info, err := c.fetchInfo(ctx, name, "@latest")
		if err != nil {
			return "", err
		}
		return info.Version, nil
	})
}

// Search implements Client. The proxy protocol has no search endpoint.
func (c *GoProxyClient) Search(ctx context.Context, query string) []models.RegistryPackageInfo {
	log.Debug("go proxy has no search endpoint, query %q ignored", query)
	return nil
}

// Metadata implements Client.
func (c *GoProxyClient) Metadata(ctx context.Context, name string) map[string]string {
	info, err := c.fetchInfo(ctx, name, "@latest")
	if err != nil {
		log.Debug("go proxy metadata for %s: %v", name, err)
		return nil
	}
	return map[string]string{
		"name":           name,
		"latest_version": info.Version,
		"homepage":       "https://pkg.go.dev/" + name,
	}
}

func canonicalGoVersion(v string) string {
	if v == "" || v[0] == 'v' {
		return v
	}
	return "v" + v
}
