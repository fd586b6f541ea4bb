package grammar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ProgressFunc receives (bytesRead, totalBytes) updates during a download.
// totalBytes is -1 when the server does not report Content-Length.
type ProgressFunc func(bytesRead, totalBytes int64)

// NoProgress is the no-op ProgressFunc sentinel, so callers that don't
// need progress updates can pass it instead of nil.
var NoProgress ProgressFunc = func(int64, int64) {}

const (
	maxDownloadAttempts = 3
	initialBackoff      = 250 * time.Millisecond
)

// downloader fetches grammar shared libraries over HTTP, verifying their
// SHA-256 digest and retrying transient failures with exponential backoff.
type downloader struct {
	client *http.Client
	cache  *cacheLayout
}

func newDownloader(cache *cacheLayout) *downloader {
	return &downloader{client: &http.Client{Timeout: 2 * time.Minute}, cache: cache}
}

// fetch downloads the library artifact at url, verifies it against
// expectedSHA256 (skipped when empty), and installs it into the cache at
// the path dictated by spec. Partial files from failed attempts are
// removed before each retry.
func (d *downloader) fetch(ctx context.Context, spec Spec, url, expectedSHA256 string, progress ProgressFunc) error {
	if progress == nil {
		progress = NoProgress
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 1; attempt <= maxDownloadAttempts; attempt++ {
		size, err := d.attempt(ctx, spec, url, expectedSHA256, progress)
		if err == nil {
			return d.cache.writeMetadata(spec, size)
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
		if attempt < maxDownloadAttempts {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "grammar download cancelled")
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return errors.Wrapf(ErrDownloadFailed, "language %s version %s: %v", spec.Language, spec.Version, lastErr)
}

func (d *downloader) attempt(ctx context.Context, spec Spec, url, expectedSHA256 string, progress ProgressFunc) (int64, error) {
	destDir := d.cache.platformDir(spec.Language, spec.Version)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, errors.Wrap(err, "create cache directory")
	}

	tmpPath := d.cache.libraryPath(spec) + "." + uuid.NewString() + ".tmp"
	defer os.Remove(tmpPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}

	hasher := sha256.New()
	counter := &countingReader{r: io.TeeReader(resp.Body, hasher), total: resp.ContentLength, progress: progress}
	size, err := io.Copy(out, counter)
	closeErr := out.Close()
	if err != nil {
		return 0, errors.Wrap(err, "write response body")
	}
	if closeErr != nil {
		return 0, errors.Wrap(closeErr, "close temp file")
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	if expectedSHA256 != "" && digest != expectedSHA256 {
		return 0, errors.Wrapf(ErrIntegrityFailure, "digest mismatch: want %s got %s", expectedSHA256, digest)
	}

	if err := os.Rename(tmpPath, d.cache.libraryPath(spec)); err != nil {
		return 0, errors.Wrap(err, "install downloaded library")
	}
	return size, nil
}

type countingReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.progress(c.read, c.total)
	return n, err
}

// isRetryable reports whether a download failure is worth retrying.
// Integrity failures are not retried: a corrupt mirror will not fix itself.
func isRetryable(err error) bool {
	return !errors.Is(err, ErrIntegrityFailure)
}

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of data,
// exposed for callers that verify artifacts obtained outside fetch (e.g.
// config-supplied local grammar files).
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
