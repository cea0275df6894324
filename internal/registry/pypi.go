package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/depman-cli/depman/internal/cache"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"github.com/sahilm/fuzzy"
)

// DefaultPyPIURL is the public PyPI instance.
const DefaultPyPIURL = "https://pypi.org"

const (
	searchLimit       = 20
	searchConcurrency = 5
)

// PyPIClient queries the PyPI JSON API, plus the Simple index for search.
type PyPIClient struct {
	opts  Options
	http  *http.Client
	cache *cache.Cache
}

// NewPyPI creates a PyPI client.
func NewPyPI(opts Options) *PyPIClient {
	opts = opts.withDefaults(DefaultPyPIURL)
	return &PyPIClient{opts: opts, http: opts.httpClient(), cache: opts.Cache}
}

type pypiDoc struct {
	Info struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		Summary      string            `json:"summary"`
		License      string            `json:"license"`
		HomePage     string            `json:"home_page"`
		Author       string            `json:"author"`
		ProjectURLs  map[string]string `json:"project_urls"`
		RequiresDist []string          `json:"requires_dist"`
	} `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}

func (c *PyPIClient) fetchDoc(ctx context.Context, name string) (*pypiDoc, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", c.opts.BaseURL, name)
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
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: pypi returned status %d", ErrNetwork, resp.StatusCode)
	}

	var doc pypiDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}
	return &doc, nil
}

// Resolve implements Client.
func (c *PyPIClient) Resolve(ctx context.Context, name, version string) (bool, string, string) {
	doc, err := c.fetchDoc(ctx, name)
	if err != nil {
		return false, resolveReason(name, err), ""
	}
	latest := doc.Info.Version
	if version != "" {
		if _, ok := doc.Releases[version]; !ok {
			return false, fmt.Sprintf("version %s not found for '%s'", version, name), latest
		}
		return true, "", version
	}
	return true, "", latest
}

// LatestVersions implements Client.
func (c *PyPIClient) LatestVersions(ctx context.Context, names []string) map[string]string {
	return latestAll(ctx, names, c.opts.Concurrency, func(ctx context.Context, name string) (string, error) {
		doc, err := c.fetchDoc(ctx, name)
		if err != nil {
			return "", err
		}
		return doc.Info.Version, nil
	})
}

// Search matches query against the cached Simple-index name list, ranks the
// matches, and enriches the top results with their registry metadata.
func (c *PyPIClient) Search(ctx context.Context, query string) []models.RegistryPackageInfo {
	names, err := c.indexNames(ctx)
	if err != nil {
		log.Debug("pypi index fetch failed: %v", err)
		return nil
	}

	matches := fuzzy.Find(query, names)
	if len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}
	if len(matches) == 0 {
		return nil
	}

	top := make([]string, len(matches))
	for i, m := range matches {
		top[i] = m.Str
	}

	versions := latestAll(ctx, top, searchConcurrency, func(ctx context.Context, name string) (string, error) {
		doc, err := c.fetchDoc(ctx, name)
		if err != nil {
			return "", err
		}
		// Pack version and summary so one fetch serves both fields.
		return doc.Info.Version + "\x00" + doc.Info.Summary, nil
	})

	results := make([]models.RegistryPackageInfo, 0, len(top))
	for _, name := range top {
		info := models.RegistryPackageInfo{Name: name}
		if packed, ok := versions[name]; ok {
			if version, summary, found := strings.Cut(packed, "\x00"); found {
				info.LatestVersion = version
				info.Description = summary
			}
		}
		results = append(results, info)
	}
	return results
}

// Metadata implements Client.
func (c *PyPIClient) Metadata(ctx context.Context, name string) map[string]string {
	doc, err := c.fetchDoc(ctx, name)
	if err != nil {
		log.Debug("pypi metadata for %s: %v", name, err)
		return nil
	}

	meta := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			meta[k] = v
		}
	}
	put("name", doc.Info.Name)
	put("latest_version", doc.Info.Version)
	put("description", doc.Info.Summary)
	put("license", doc.Info.License)
	put("author", doc.Info.Author)
	homepage := doc.Info.HomePage
	if homepage == "" {
		homepage = doc.Info.ProjectURLs["Homepage"]
	}
	put("homepage", homepage)
	put("requires", strings.Join(doc.Info.RequiresDist, ", "))
	return meta
}

// simpleIndex is the JSON form of the PyPI Simple API project list.
type simpleIndex struct {
	Projects []struct {
		Name string `json:"name"`
	} `json:"projects"`
}

const pypiIndexCacheKey = "pypi-simple-index"

// indexNames returns the full PyPI project name list, served from the TTL
// cache when fresh. The first fetch is large and slow; that is the price of
// offline-rankable search.
func (c *PyPIClient) indexNames(ctx context.Context) ([]string, error) {
	var names []string
	if c.cache.Get(pypiIndexCacheKey, &names) {
		return names, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/simple/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/vnd.pypi.simple.v1+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: simple index returned status %d", ErrNetwork, resp.StatusCode)
	}

	var index simpleIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("%w: malformed index: %v", ErrNetwork, err)
	}
	names = make([]string, 0, len(index.Projects))
	for _, p := range index.Projects {
		names = append(names, p.Name)
	}

	if err := c.cache.Set(pypiIndexCacheKey, names); err != nil {
		log.Debug("caching pypi index: %v", err)
	}
	return names, nil
}

// resolveReason renders a lookup error for display, keeping the not-found /
// network distinction.
func resolveReason(name string, err error) string {
	if errors.Is(err, ErrNotFound) {
		return fmt.Sprintf("package '%s' not found", name)
	}
	return err.Error()
}
