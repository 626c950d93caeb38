package figma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// cliTransferTool is the command-line transfer tool used as a fallback when
// the native HTTP client fails. curl is installed on essentially every host
// this binary runs on; corporate proxies that intercept Go's TLS stack
// usually leave curl alone.
const cliTransferTool = "curl"

// retryableStatus reports whether an HTTP status code should trigger a retry
// of the native fetch (rate limiting or a transient server error).
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// httpStatusError carries the upstream status and body for a non-2xx
// response, corresponding to the UpstreamHTTP error kind.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("figma api request failed with status %d: %s", e.status, e.body)
}

// Fetcher performs an authenticated HTTP GET and falls back to a
// command-line transfer tool when the native client fails outright or after
// exhausting retries on a transient status.
type Fetcher struct {
	httpClient *http.Client
	cliTool    string
}

// NewFetcher builds a Fetcher around the given HTTP client.
func NewFetcher(httpClient *http.Client) *Fetcher {
	return &Fetcher{httpClient: httpClient, cliTool: cliTransferTool}
}

// FetchJSON performs the GET with up to 3 attempts (2 retries) on transient failures and
// falls back to the CLI transfer tool on final native failure. On fallback
// failure it re-surfaces the original native error, never the fallback's.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, nativeErr := f.fetchNative(ctx, url, headers)
	if nativeErr == nil {
		return body, nil
	}

	fallbackBody, fallbackErr := f.fetchFallback(ctx, url, headers)
	if fallbackErr != nil {
		return nil, nativeErr
	}
	return fallbackBody, nil
}

func (f *Fetcher) fetchNative(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		req.Header.Set("Connection", "close")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return err // retryable: network-level failure
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &httpStatusError{status: resp.StatusCode, body: string(respBody)}
			if retryableStatus(resp.StatusCode) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = respBody
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// fetchFallback shells out to the CLI transfer tool. The invocation must
// fail on non-2xx bodies, not merely print them (-f), follows redirects
// (-L), and suppresses the progress meter while still surfacing errors
// (-sS).
func (f *Fetcher) fetchFallback(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	args := []string{"-sS", "-L", "-f"}
	for k, v := range headers {
		args = append(args, "-H", fmt.Sprintf("%s: %s", k, v))
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, f.cliTool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	stderrText := strings.ToLower(stderr.String())
	if runErr != nil || stdout.Len() == 0 || strings.Contains(stderrText, "error") || strings.Contains(stderrText, "fail") {
		return nil, errors.New("fallback transfer failed")
	}
	return stdout.Bytes(), nil
}

// defaultHTTPTransport returns a transport tuned for Figma's occasionally
// very large file payloads: HTTP/2 disabled (it has been observed to drop
// mid-stream on some proxies for multi-megabyte bodies) and a generous idle
// connection pool.
func defaultHTTPTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   false,
	}
}
