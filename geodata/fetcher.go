// Package geodata orchestrates fetch-or-cache loading of boundary,
// constituency and district payloads, normalizing every payload to the
// canonical FeatureCollection shape and filtering malformed features on the
// way in.
package geodata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/politic-in/atlas/types"
)

// Fetcher retrieves a raw payload by relative path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPFetcher fetches payloads from a base URL. Timeout handling is left to
// the supplied client; this core adds no deadline logic of its own.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher. client may be nil, in which case
// http.DefaultClient is used.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := f.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: HTTP %d", types.ErrFetchFailed, path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, err)
	}
	return data, nil
}

// FileFetcher reads payloads from a local data directory. Used by tests and
// offline tooling.
type FileFetcher struct {
	Dir string
}

func (f *FileFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}
