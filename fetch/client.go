// Package fetch retrieves stylesheets and font files over the network.
//
// All requests are credential-less: no cookies are kept or sent and user
// information embedded in URLs is never used for authentication.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"fontpack/config"
)

// Doer sends HTTP requests, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues credential-less GET requests according to configuration.
type Client struct {
	doer        Doer
	userAgent   string
	maxSize     int64
	concurrency int
	log         *zap.Logger
}

// NewClient creates client with its own transport. Besides http and https
// the transport serves file:// URLs from local file system.
func NewClient(cfg *config.FetchConfig, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if len(cfg.Proxy) > 0 {
		proxy, err := url.Parse(string(cfg.Proxy))
		if err != nil {
			// do not leak proxy credentials into error message
			return nil, errors.New("unable to parse proxy url")
		}
		tr.Proxy = http.ProxyURL(proxy)
	}
	tr.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	hc := &http.Client{
		Transport:     tr,
		Timeout:       cfg.Timeout,
		CheckRedirect: checkRedirect,
		// Jar is nil so cookies are never stored or sent
	}
	return NewClientWithDoer(hc, cfg, log), nil
}

const maxRedirects = 10

// checkRedirect keeps default redirect limit and refuses to follow remote
// responses into local file system.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if len(via) > 0 {
		return checkLocalAccess(req.URL, via[0].URL)
	}
	return nil
}

// checkLocalAccess fails when target is a file:// URL and origin is not.
func checkLocalAccess(target, origin *url.URL) error {
	if target.Scheme != "file" || (origin != nil && origin.Scheme == "file") {
		return nil
	}
	return ErrLocalAccess
}

// NewClientWithDoer creates client sending requests through doer.
func NewClientWithDoer(doer Doer, cfg *config.FetchConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		doer:        doer,
		userAgent:   cfg.UserAgent,
		maxSize:     cfg.MaxSize,
		concurrency: cfg.Concurrency,
		log:         log.Named("fetch"),
	}
}

// ResolveSource turns stylesheet source into URL. Source without scheme is
// treated as local file path.
func ResolveSource(src string) (*url.URL, error) {
	u, err := url.Parse(src)
	if err == nil && len(u.Scheme) > 1 {
		// single letter scheme is a windows drive
		return u, nil
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve path %q: %w", src, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("unable to access stylesheet: %w", err)
	}
	path := filepath.ToSlash(abs)
	if path[0] != '/' {
		path = "/" + path
	}
	return &url.URL{Scheme: "file", Path: path}, nil
}

// get performs single GET request and returns response body. Non-success
// status is reported as *Error, body is limited by configured maximum size.
func (c *Client) get(ctx context.Context, u *url.URL) (*http.Response, []byte, error) {
	target := *u
	target.User = nil

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, nil, &Error{URL: target.String(), Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, nil, &Error{URL: target.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &Error{URL: target.String(), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if c.maxSize > 0 {
		body = io.LimitReader(resp.Body, c.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, &Error{URL: target.String(), StatusCode: resp.StatusCode, Err: err}
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, nil, &Error{URL: target.String(), StatusCode: resp.StatusCode,
			Err: fmt.Errorf("response is larger than %d bytes", c.maxSize)}
	}
	return resp, data, nil
}

// LoadStylesheet fetches stylesheet text decoded to UTF-8.
func (c *Client) LoadStylesheet(ctx context.Context, u *url.URL) (string, error) {
	resp, data, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	text, err := decodeStylesheet(data, contentType)
	if err != nil {
		c.log.Warn("Unable to decode stylesheet, using as is", zap.String("content-type", contentType), zap.Error(err))
		text = string(data)
	}

	c.log.Debug("Loaded stylesheet", zap.String("url", u.Redacted()), zap.String("content-type", contentType), zap.Int("bytes", len(data)))
	return text, nil
}
