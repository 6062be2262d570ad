package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/akozlenkov/faptget/download"
)

// ErrUnavailable is returned when no repository component yielded an index.
var ErrUnavailable = errors.New("failed to download Packages.gz from any component")

// Fetcher retrieves compressed Packages indexes from a mirror.
type Fetcher struct {
	client     *http.Client
	dist       string
	components []string
}

func NewFetcher(dist string, components []string) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: 5 * time.Minute},
		dist:       dist,
		components: components,
	}
}

// Fetch downloads and decompresses the index of every component and returns
// the concatenated text. A component that fails to download or decompress is
// logged and skipped; Fetch only fails when all components do.
func (f *Fetcher) Fetch(ctx context.Context, mirror, arch string) (string, error) {
	var all strings.Builder

	for _, component := range f.components {
		url := fmt.Sprintf("%s/dists/%s/%s/binary-%s/Packages.gz", mirror, f.dist, component, arch)
		fmt.Printf("Trying to download from: %s\n", url)

		text, err := f.fetchComponent(ctx, url)
		if err != nil {
			fmt.Printf("Failed to download %s repository: %v\n", component, err)
			continue
		}

		fmt.Printf("Successfully downloaded %s repository information\n", component)
		all.WriteString(text)
		all.WriteString("\n")
	}

	if all.Len() == 0 {
		return "", ErrUnavailable
	}
	return all.String(), nil
}

func (f *Fetcher) fetchComponent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", download.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", err
	}
	defer gz.Close()

	text, err := io.ReadAll(gz)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
