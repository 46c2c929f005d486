// Package fetch downloads submitted result files over HTTP and stores them
// under deterministic content-hash names.
package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

type client struct {
	httpClient *http.Client
	dir        string
}

// Option is a functional option for the fetch client
type Option func(*client)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a Fetcher that writes downloads into dir. Returned paths are
// relative to dir so the caller can rename them within the same tree.
func New(dir string, opts ...Option) interfaces.Fetcher {
	c := &client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		dir:        dir,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch downloads the full body of url into memory, hashes it and writes it
// verbatim to result-<md5>.json.gz. The filename is a pure function of the
// content: byte-identical downloads collide onto the same file, which is the
// dedup key. An existing file of the same name is overwritten.
func (x *client) Fetch(ctx context.Context, url string) (*model.DownloadedResult, error) {
	logger := ctxlog.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(types.ErrFetchFailed, "building request",
			goerr.V("url", url), goerr.V("cause", err.Error()))
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(types.ErrFetchFailed, "requesting result file",
			goerr.V("url", url), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, goerr.Wrap(types.ErrFetchFailed, "unexpected response status",
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	// Results are bounded benchmark-report sizes, reading the whole body is fine
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(types.ErrFetchFailed, "reading response body",
			goerr.V("url", url), goerr.V("cause", err.Error()))
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])
	name := model.ResultFileName(hash)

	if err := os.WriteFile(filepath.Join(x.dir, name), data, 0644); err != nil {
		return nil, goerr.Wrap(types.ErrFetchFailed, "writing downloaded file",
			goerr.V("url", url), goerr.V("path", name), goerr.V("cause", err.Error()))
	}

	logger.Debug("Downloaded result file",
		"url", url,
		"path", name,
		"size_bytes", len(data),
	)

	return &model.DownloadedResult{
		URL:  url,
		Path: name,
		Hash: hash,
		Size: int64(len(data)),
	}, nil
}
