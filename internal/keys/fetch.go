package keys

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/hostprep/internal/errors"
)

// Fetcher retrieves key listings over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher builds a fetcher with the given timeout. Zero disables the
// limit for hosts behind very slow proxies.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves url and returns the response body as text.
func (f *Fetcher) Fetch(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't build the request for %s", url), "")
	}
	req.Header.Set("User-Agent", "hostprep")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't fetch keys from %s", url),
			"Check the URL and this host's network connectivity.")
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close, error not actionable

	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrFetch,
			fmt.Sprintf("%s returned %s", url, resp.Status),
			"Check that the URL points at a plain-text key listing.")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't read the response from %s", url), "")
	}
	return string(body), nil
}
