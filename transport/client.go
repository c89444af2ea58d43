package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Toxikuu/to/internal/fs"
	"golang.org/x/sync/errgroup"
)

// connectTimeout is the default dial timeout.
const connectTimeout = 32 * time.Second

// maxRedirects bounds the client's redirect chain.
const maxRedirects = 16

// maxConcurrentTransfers bounds PullAll/PushAll's fan-out, mirroring
// versionfetch.FetchAll's SetLimit discipline for subprocess/network
// tasks spawned one per package.
const maxConcurrentTransfers = 16

// Client pulls distfiles from, and pushes distfiles to, a server
// implementing Server's routes.
type Client struct {
	BaseURL string
	DistDir string
	Force   bool

	httpClient *http.Client
}

// NewClient builds a Client with the spec-mandated connect timeout and
// redirect cap.
func NewClient(baseURL, distDir string, force bool) *Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &Client{
		BaseURL: baseURL,
		DistDir: distDir,
		Force:   force,
		httpClient: &http.Client{
			Transport: &http.Transport{DialContext: dialer.DialContext},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("transport: stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// TransferOutcome pairs a filename with its pull/push error, if any. A
// failure for one package never aborts the batch.
type TransferOutcome struct {
	Filename string
	Err      error
}

// PullAll pulls each filename concurrently, one task per file.
func (c *Client) PullAll(ctx context.Context, filenames []string) []TransferOutcome {
	return c.transferAll(ctx, filenames, c.Pull)
}

// PushAll pushes each filename concurrently, one task per file.
func (c *Client) PushAll(ctx context.Context, filenames []string) []TransferOutcome {
	return c.transferAll(ctx, filenames, c.Push)
}

func (c *Client) transferAll(ctx context.Context, filenames []string, op func(context.Context, string) error) []TransferOutcome {
	outcomes := make([]TransferOutcome, len(filenames))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentTransfers)

	for i, name := range filenames {
		i, name := i, name
		eg.Go(func() error {
			outcomes[i] = TransferOutcome{Filename: name, Err: op(ctx, name)}
			return nil
		})
	}
	eg.Wait()

	return outcomes
}

// Pull fetches filename if should-download holds. Grounded on
// fetch.downloadStrategy.attempt's .part-staging GET, extended with the
// Last-Modified-driven should-download decision and a final mtime set
// from the server's header.
func (c *Client) Pull(ctx context.Context, filename string) error {
	url := c.BaseURL + "/" + filename
	final := filepath.Join(c.DistDir, filename)

	localFi, localErr := os.Stat(final)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("transport: build request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transport: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("transport: %s not found on server", filename)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transport: GET %s: unexpected status %s", url, resp.Status)
	}

	remoteModified, hasRemoteModified := parseLastModified(resp.Header.Get("Last-Modified"))

	shouldDownload := c.Force || os.IsNotExist(localErr)
	if !shouldDownload && localErr == nil && hasRemoteModified {
		shouldDownload = remoteModified.After(localFi.ModTime())
	}
	if !shouldDownload {
		return nil
	}

	if err := os.MkdirAll(c.DistDir, 0o755); err != nil {
		return fmt.Errorf("transport: mkdir %s: %w", c.DistDir, err)
	}

	part := final + ".part"
	f, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("transport: open %s: %w", part, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("transport: write %s: %w", part, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("transport: close %s: %w", part, err)
	}
	if err := fs.RenameWithFallback(part, final); err != nil {
		return fmt.Errorf("transport: rename %s: %w", part, err)
	}

	if hasRemoteModified {
		os.Chtimes(final, remoteModified, remoteModified)
	}
	return nil
}

// Push pushes filename if it is newer than the server's copy or Force
// is set.
func (c *Client) Push(ctx context.Context, filename string) error {
	local := filepath.Join(c.DistDir, filename)
	localFi, err := os.Stat(local)
	if err != nil {
		return fmt.Errorf("transport: stat %s: %w", local, err)
	}

	if !c.Force {
		remoteModified, hasRemoteModified, err := c.remoteLastModified(ctx, filename)
		if err != nil {
			return err
		}
		if hasRemoteModified && !localFi.ModTime().After(remoteModified) {
			return nil
		}
	}

	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("transport: open %s: %w", local, err)
	}
	defer f.Close()

	url := c.BaseURL + "/up/" + filename
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return fmt.Errorf("transport: build request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transport: POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transport: POST %s: unexpected status %s", url, resp.Status)
	}
	return nil
}

// remoteLastModified issues a HEAD request for filename. The server
// registers HEAD on the same handler as GET (httprouter doesn't map HEAD
// onto GET routes on its own); net/http's response writer then discards
// the body it writes for a HEAD request, so only headers cross the wire.
func (c *Client) remoteLastModified(ctx context.Context, filename string) (time.Time, bool, error) {
	url := c.BaseURL + "/" + filename
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("transport: build request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("transport: HEAD %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return time.Time{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("transport: HEAD %s: unexpected status %s", url, resp.Status)
	}

	t, ok := parseLastModified(resp.Header.Get("Last-Modified"))
	return t, ok, nil
}

func parseLastModified(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
