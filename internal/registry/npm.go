package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
)

// DefaultNpmURL is the public npm registry.
const DefaultNpmURL = "https://registry.npmjs.org"

// NpmClient queries the npm registry document and search endpoints.
type NpmClient struct {
	opts Options
	http *http.Client
}

// NewNpm creates an npm registry client.
func NewNpm(opts Options) *NpmClient {
	opts = opts.withDefaults(DefaultNpmURL)
	return &NpmClient{opts: opts, http: opts.httpClient()}
}

type npmDoc struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
	// license and author appear both as strings and as objects in the wild.
	License     json.RawMessage `json:"license"`
	Author      json.RawMessage `json:"author"`
	Description string          `json:"description"`
	Homepage    string          `json:"homepage"`
}

func (c *NpmClient) fetchDoc(ctx context.Context, name string) (*npmDoc, error) {
	// Scoped names keep the '@' but escape the slash.
	docURL := c.opts.BaseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
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
		return nil, fmt.Errorf("%w: npm registry returned status %d", ErrNetwork, resp.StatusCode)
	}

	var doc npmDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}
	return &doc, nil
}

// Resolve implements Client.
func (c *NpmClient) Resolve(ctx context.Context, name, version string) (bool, string, string) {
	doc, err := c.fetchDoc(ctx, name)
	if err != nil {
		return false, resolveReason(name, err), ""
	}
	latest := doc.DistTags["latest"]
	if version != "" {
		if _, ok := doc.Versions[version]; !ok {
			return false, fmt.Sprintf("version %s not found for '%s'", version, name), latest
		}
		return true, "", version
	}
	return true, "", latest
}

// LatestVersions implements Client.
func (c *NpmClient) LatestVersions(ctx context.Context, names []string) map[string]string {
	return latestAll(ctx, names, c.opts.Concurrency, func(ctx context.Context, name string) (string, error) {
		doc, err := c.fetchDoc(ctx, name)
		if err != nil {
			return "", err
		}
		return doc.DistTags["latest"], nil
	})
}

type npmSearchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Description string `json:"description"`
			Links       struct {
				Homepage string `json:"homepage"`
			} `json:"links"`
			Publisher struct {
				Username string `json:"username"`
			} `json:"publisher"`
		} `json:"package"`
	} `json:"objects"`
}

// Search uses the registry's full-text search endpoint.
func (c *NpmClient) Search(ctx context.Context, query string) []models.RegistryPackageInfo {
	searchURL := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d",
		c.opts.BaseURL, url.QueryEscape(query), searchLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("npm search: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Debug("npm search: status %d", resp.StatusCode)
		return nil
	}

	var sr npmSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		log.Debug("npm search: %v", err)
		return nil
	}

	results := make([]models.RegistryPackageInfo, 0, len(sr.Objects))
	for _, obj := range sr.Objects {
		results = append(results, models.RegistryPackageInfo{
			Name:          obj.Package.Name,
			LatestVersion: obj.Package.Version,
			Description:   obj.Package.Description,
			Homepage:      obj.Package.Links.Homepage,
			Author:        obj.Package.Publisher.Username,
		})
	}
	return results
}

// Metadata implements Client.
func (c *NpmClient) Metadata(ctx context.Context, name string) map[string]string {
	doc, err := c.fetchDoc(ctx, name)
	if err != nil {
		log.Debug("npm metadata for %s: %v", name, err)
		return nil
	}

	meta := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			meta[k] = v
		}
	}
	put("name", doc.Name)
	put("latest_version", doc.DistTags["latest"])
	put("description", doc.Description)
	put("homepage", doc.Homepage)
	put("license", flattenJSONField(doc.License, "type"))
	put("author", flattenJSONField(doc.Author, "name"))
	return meta
}

// flattenJSONField renders a field that may be either a bare string or an
// object carrying the value under key.
func flattenJSONField(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		if v, ok := obj[key].(string); ok {
			return v
		}
	}
	return ""
}
