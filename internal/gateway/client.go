// Package gateway talks to the calculation backend over HTTP.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Endpoint paths, relative to the base URL.
const (
	LoginPath    = "auth/login"
	UploadPath   = "api/excel/upload"
	DownloadPath = "api/excel/download"
)

// User-facing messages for each failure kind.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUploadFailed       = "Failed to process file"
	MsgParseFailed        = "Invalid response from server"
	MsgDownloadFailed     = "Failed to download file"
	MsgNetworkFailed      = "Unable to reach the calculation service"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Backend is the set of operations the UI needs from the calculation service.
type Backend interface {
	Login(ctx context.Context, username, password string) error
	Compute(ctx context.Context, file model.SourceFile, mode model.Mode) (*model.UploadResponse, error)
	Download(ctx context.Context, payload *model.UploadResponse) ([]byte, error)
}

// SessionResetter is implemented by backends that keep a login session.
type SessionResetter interface {
	ResetSession()
}

// Config configures a Client.
type Config struct {
	// HTTPClient is copied when set and its Jar replaced by the client's session jar.
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
}

// Client implements Backend. The session cookie set by Login is kept in the
// client's cookie jar and sent with every later request.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *sessionJar
}

var (
	_ Backend         = (*Client)(nil)
	_ SessionResetter = (*Client)(nil)
)

// New creates a client for the backend rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", common.ErrInvalidConfig, cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	httpClient.Jar = jar

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		jar:        jar,
	}, nil
}

// ResetSession forgets every cookie, so the next request is unauthenticated.
func (c *Client) ResetSession() {
	c.jar.reset()
	common.LogDebug("Backend session cleared", common.Fields{"base_url": c.baseURL.String()})
}

// BaseURL returns the resolved backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login posts credentials. A rejected login returns an error whose user
// message is the backend's response body, or "Invalid credentials" when empty.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(model.Credentials{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := c.do(ctx, LoginPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		return common.NewUserError(msg, fmt.Errorf("%w: status %d", common.ErrAuth, resp.StatusCode))
	}

	return nil
}

// Compute uploads file with mode and returns the backend's calculation.
func (c *Client) Compute(ctx context.Context, file model.SourceFile, mode model.Mode) (*model.UploadResponse, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := form.WriteField("mode", mode.String()); err != nil {
		return nil, fmt.Errorf("failed to write mode field: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	resp, err := c.do(ctx, UploadPath, form.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return nil, common.NewUserError(MsgUploadFailed, fmt.Errorf("%w: status %d", common.ErrUpload, resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewUserError(MsgNetworkFailed, fmt.Errorf("%w: %v", common.ErrNetwork, err))
	}

	var result model.UploadResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, common.NewUserError(MsgParseFailed, fmt.Errorf("%w: %v", common.ErrParse, err))
	}
	result.Raw = raw

	return &result, nil
}

// Download posts a previously received calculation and returns the regenerated
// spreadsheet. A payload from Compute is sent back byte for byte.
func (c *Client) Download(ctx context.Context, payload *model.UploadResponse) ([]byte, error) {
	if payload == nil {
		return nil, common.NewUserError(MsgDownloadFailed, fmt.Errorf("%w: no calculation to download", common.ErrDownload))
	}

	body, err := payload.Payload()
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := c.do(ctx, DownloadPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return nil, common.NewUserError(MsgDownloadFailed, fmt.Errorf("%w: status %d", common.ErrDownload, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewUserError(MsgNetworkFailed, fmt.Errorf("%w: %v", common.ErrNetwork, err))
	}

	return data, nil
}

// do issues a POST to path. Transport failures are mapped to network errors.
func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		common.LogDebug("Backend request failed", common.Fields{
			"request_id": requestID,
			"path":       path,
			"error":      err,
		})
		return nil, common.NewUserError(MsgNetworkFailed, fmt.Errorf("%w: %v", common.ErrNetwork, err))
	}

	common.LogDebug("Backend request completed", common.Fields{
		"request_id": requestID,
		"path":       path,
		"status":     resp.StatusCode,
		"duration":   time.Since(start),
	})

	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// sessionJar is a cookie jar that can be emptied while requests are in flight.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := newCookieJar()
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: jar}, nil
}

func newCookieJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return jar, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

func (j *sessionJar) reset() {
	// cookiejar.New only fails on a bad options struct, which this never passes.
	jar, _ := newCookieJar()
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
}
