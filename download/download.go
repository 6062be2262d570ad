package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akozlenkov/faptget/storage"
)

// UserAgent is sent on every request; some mirrors vary behavior by client.
const UserAgent = "Debian APT-HTTP/1.3 (2.0.9)"

// Task describes one artifact to fetch.
type Task struct {
	URL string
	Dir string
	MD5 string // hex digest; empty skips verification
	// Size is the declared artifact size; negative skips the check.
	Size int64
}

// Result pairs a task with its outcome so batch callers can tell which
// downloads failed.
type Result struct {
	Task Task
	Err  error
}

type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

type ChecksumError struct {
	URL      string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("MD5 checksum mismatch for %s. Expected: %s, got: %s", e.URL, e.Expected, e.Actual)
}

type SizeError struct {
	URL      string
	Expected int64
	Actual   int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("size mismatch for %s. Expected: %d bytes, got: %d", e.URL, e.Expected, e.Actual)
}

// Downloader fetches artifacts and writes them through a storage backend.
type Downloader struct {
	client *http.Client
	store  storage.Storage
}

func New(store storage.Storage) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: 5 * time.Minute},
		store:  store,
	}
}

// One downloads a single artifact into task.Dir, named after the final URL
// path segment. The body is buffered and verified before anything is written,
// so a failed check never leaves a file behind.
func (d *Downloader) One(ctx context.Context, task Task) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	name, err := basename(task.URL)
	if err != nil {
		return err
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to get response content: %w", err)
	}

	if task.Size >= 0 && int64(len(content)) != task.Size {
		return &SizeError{URL: task.URL, Expected: task.Size, Actual: int64(len(content))}
	}

	if task.MD5 != "" {
		sum := md5.Sum(content)
		actual := hex.EncodeToString(sum[:])
		if !strings.EqualFold(actual, task.MD5) {
			return &ChecksumError{URL: task.URL, Expected: task.MD5, Actual: actual}
		}
		fmt.Printf("MD5 checksum verified successfully\n")
	}

	if err := d.store.WriteFile(path.Join(task.Dir, name), content); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Many downloads all tasks concurrently and waits for every one to finish;
// this is fan-out/fan-in, not fail-fast cancellation. The returned error is
// the first failure, and the per-task results let callers see the rest.
func (d *Downloader) Many(ctx context.Context, tasks []Task) ([]Result, error) {
	results := make([]Result, len(tasks))

	var group errgroup.Group
	for i, task := range tasks {
		group.Go(func() error {
			err := d.One(ctx, task)
			results[i] = Result{Task: task, Err: err}
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return results, fmt.Errorf("failed to download packages: %w", err)
	}
	return results, nil
}

func basename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("invalid URL %s: no file name", rawURL)
	}
	return name, nil
}
