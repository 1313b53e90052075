package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/freeboard/pkg/buildinfo"
	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/observability"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTP talks to a remote layout endpoint:
//
//	GET  {base}/api/workspaces/{id}/layout  -> envelope, 404 when absent
//	POST {base}/api/workspaces/{id}/layout  <- envelope
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP returns a client for the endpoint rooted at baseURL.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTP{base: u, client: &http.Client{Timeout: timeout}}, nil
}

// LayoutURL returns the endpoint of one workspace.
func (h *HTTP) LayoutURL(workspaceID string) string {
	return h.base.JoinPath("api", "workspaces", workspaceID, "layout").String()
}

func (h *HTTP) Get(ctx context.Context, workspaceID string) ([]byte, error) {
	resp, err := h.do(ctx, http.MethodGet, workspaceID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, notFound(workspaceID)
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read layout %s", workspaceID))
	}
	return data, nil
}

func (h *HTTP) Put(ctx context.Context, workspaceID string, data []byte) error {
	resp, err := h.do(ctx, http.MethodPost, workspaceID, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return checkStatus(resp.StatusCode)
}

func (h *HTTP) do(ctx context.Context, method, workspaceID string, body []byte) (*http.Response, error) {
	endpoint := h.LayoutURL(workspaceID)
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, endpoint))
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
