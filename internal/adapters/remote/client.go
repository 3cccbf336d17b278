// Package remote transfers build outputs to and from an HTTP artifact store addressed
// by the master hash of the source tree.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"resty.dev/v3"
)

const (
	// ChecksumHeader carries the xxhash64 of the archive bytes, hex encoded.
	ChecksumHeader = "X-Forge-Checksum"

	defaultTimeout  = 5 * time.Minute
	maxArtifactSize = 2 << 30
)

// Client implements ports.RemoteCache over plain HTTP GET and PUT.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// WithRetries retries failed requests count times.
func WithRetries(count int) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count)
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := resty.New().
		SetTimeout(defaultTimeout).
		SetResponseBodyLimit(maxArtifactSize).
		SetHeader("User-Agent", "forge").
		SetLogger(slogBridge{})
	for _, opt := range opts {
		opt(c)
	}
	return &Client{http: c}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Upload archives outputDir and stores it at {url}/cache/{masterHash}.tar.gz.
// It does nothing unless pushing is enabled and outputDir exists.
func (c *Client) Upload(ctx context.Context, cfg domain.RemoteCacheConfig, masterHash, outputDir string) error {
	if !cfg.Enabled() || !cfg.Push {
		return nil
	}
	if _, err := os.Stat(outputDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrArchiveFailed, err.Error()), "path", outputDir)
	}

	data, err := Archive(outputDir)
	if err != nil {
		return err
	}

	url := cfg.ArtifactURL(masterHash)
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/gzip").
		SetHeader(ChecksumHeader, Checksum(data)).
		SetBody(data)
	if cfg.Token != "" {
		req.SetAuthToken(cfg.Token)
	}

	resp, err := req.Put(url)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrRemoteRequestFailed, err.Error()), "url", url)
	}
	if !resp.IsSuccess() {
		err := zerr.With(zerr.Wrap(domain.ErrRemoteRequestFailed, "upload rejected"), "url", url)
		return zerr.With(err, "status", resp.StatusCode())
	}
	return nil
}

// Download fetches the artifact for masterHash and replaces outputDir with its contents.
// Any non-2xx answer is a miss. The output directory is only touched once the archive
// has been fully unpacked next to it.
func (c *Client) Download(ctx context.Context, cfg domain.RemoteCacheConfig, masterHash, outputDir string) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}

	url := cfg.ArtifactURL(masterHash)
	req := c.http.R().SetContext(ctx)
	if cfg.Token != "" {
		req.SetAuthToken(cfg.Token)
	}

	resp, err := req.Get(url)
	if err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrRemoteRequestFailed, err.Error()), "url", url)
	}
	if !resp.IsSuccess() {
		return false, nil
	}

	data := resp.Bytes()
	if want := resp.Header().Get(ChecksumHeader); want != "" {
		if got := Checksum(data); got != want {
			err := zerr.With(zerr.Wrap(domain.ErrRemoteChecksumMismatch, url), "expected", want)
			return false, zerr.With(err, "actual", got)
		}
	}

	if err := replaceDir(data, outputDir); err != nil {
		return false, err
	}
	return true, nil
}

// slogBridge routes transport diagnostics to slog at debug level so they never
// interleave with task output.
type slogBridge struct{}

func (slogBridge) Errorf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...), "severity", "error") }
func (slogBridge) Warnf(format string, v ...any)  { slog.Debug(fmt.Sprintf(format, v...), "severity", "warn") }
func (slogBridge) Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }

// Checksum returns the hex xxhash64 of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func replaceDir(data []byte, outputDir string) error {
	parent := filepath.Dir(outputDir)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", parent)
	}
	staging, err := os.MkdirTemp(parent, ".forge-restore-*")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", parent)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := Extract(bytes.NewReader(data), staging); err != nil {
		return err
	}
	if err := os.Chmod(staging, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", staging)
	}
	if err := os.RemoveAll(outputDir); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", outputDir)
	}
	if err := os.Rename(staging, outputDir); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, err.Error()), "path", outputDir)
	}
	return nil
}
