// Package vtapi is a client for the VirusTotal private API (v2).
//
// Remote failures are never returned as Go errors: they come back as a
// structured Response ({"error": ...} or {"response_code": ...}) so callers
// can print them verbatim. A Go error means the request could not be built
// or sent for a local reason (unreadable file, cancelled context).
package vtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buemura/vtcli/internal/logging"
	"github.com/buemura/vtcli/pkg/types"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the VirusTotal private API v2 endpoint.
	DefaultBaseURL = "https://www.virustotal.com/vtapi/v2"

	// MaxBatch is the upstream limit on resources per query.
	MaxBatch = 25

	msgRateLimited = "You exceeded the public API request rate limit (4 requests of any nature per minute)"
	msgForbidden   = "You tried to perform calls to functions for which you require a Private API key."
)

// Client talks to the VirusTotal v2 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client. The client passed in
// is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout, applied to a copy of the
// underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a logger. The API key is never logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// ScanFile uploads the file at path for scanning.
func (c *Client) ScanFile(ctx context.Context, path string) (Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return Response{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("apikey", c.apiKey); err != nil {
		return Response{}, err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Response{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return Response{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/file/scan", &body)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doJSON(req, "/file/scan")
}

// RescanFile asks for a rescan of already uploaded samples.
func (c *Client) RescanFile(ctx context.Context, hashes []string) (Response, error) {
	return c.postForm(ctx, "/file/rescan", url.Values{"resource": {types.JoinResources(hashes)}})
}

// FileReport fetches the most recent scan reports for up to MaxBatch hashes.
func (c *Client) FileReport(ctx context.Context, hashes []string) (Response, error) {
	return c.getJSON(ctx, "/file/report", url.Values{
		"resource": {types.JoinResources(hashes)},
		"allinfo":  {"1"},
	})
}

// FileBehaviour fetches the sandbox behaviour report for a sample.
func (c *Client) FileBehaviour(ctx context.Context, hash string) (Response, error) {
	return c.getJSON(ctx, "/file/behaviour", url.Values{"hash": {hash}})
}

// NetworkTraffic fetches the pcap recorded while the sample ran in a sandbox.
func (c *Client) NetworkTraffic(ctx context.Context, hash string) (Response, error) {
	return c.getBinary(ctx, "/file/network-traffic", url.Values{"hash": {hash}})
}

// FileSearch runs a search query. Only the first page of hashes is returned.
func (c *Client) FileSearch(ctx context.Context, query string) (Response, error) {
	return c.getJSON(ctx, "/file/search", url.Values{"query": {query}})
}

// GetFile downloads a sample.
func (c *Client) GetFile(ctx context.Context, hash string) (Response, error) {
	return c.getBinary(ctx, "/file/download", url.Values{"hash": {hash}})
}

// ScanURL submits URLs for scanning.
func (c *Client) ScanURL(ctx context.Context, urls []string) (Response, error) {
	return c.postForm(ctx, "/url/scan", url.Values{"url": {types.JoinURLs(urls)}})
}

// URLReport fetches scan reports for URLs. When scan is true, URLs with no
// report are submitted for analysis.
func (c *Client) URLReport(ctx context.Context, urls []string, scan bool) (Response, error) {
	scanFlag := "0"
	if scan {
		scanFlag = "1"
	}
	return c.getJSON(ctx, "/url/report", url.Values{
		"resource": {types.JoinURLs(urls)},
		"scan":     {scanFlag},
		"allinfo":  {"1"},
	})
}

// IPReport fetches reputation data for an IPv4 address.
func (c *Client) IPReport(ctx context.Context, ip string) (Response, error) {
	return c.getJSON(ctx, "/ip-address/report", url.Values{"ip": {ip}})
}

// DomainReport fetches reputation data for a domain.
func (c *Client) DomainReport(ctx context.Context, domain string) (Response, error) {
	return c.getJSON(ctx, "/domain/report", url.Values{"domain": {domain}})
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (Response, error) {
	req, err := c.newGet(ctx, endpoint, params)
	if err != nil {
		return Response{}, err
	}
	return c.doJSON(req, endpoint)
}

func (c *Client) getBinary(ctx context.Context, endpoint string, params url.Values) (Response, error) {
	req, err := c.newGet(ctx, endpoint, params)
	if err != nil {
		return Response{}, err
	}

	resp, err := c.send(req, endpoint)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeStatus(resp), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	c.logger.Debug("payload received", logging.Endpoint(endpoint), logging.Bytes(len(data)))
	return Bytes(data), nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values) (Response, error) {
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(req, endpoint)
}

func (c *Client) newGet(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	params.Set("apikey", c.apiKey)
	return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
}

func (c *Client) doJSON(req *http.Request, endpoint string) (Response, error) {
	resp, err := c.send(req, endpoint)
	if err != nil {
		return c.transportFailure(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeStatus(resp), nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var results any
	if err := dec.Decode(&results); err != nil {
		return Structured(map[string]any{
			"error":         err.Error(),
			"response_code": resp.StatusCode,
		}), nil
	}

	return Structured(map[string]any{
		"response_code": resp.StatusCode,
		"results":       results,
	}), nil
}

func (c *Client) send(req *http.Request, endpoint string) (*http.Response, error) {
	req.Header.Set("User-Agent", "vtcli")

	c.logger.Debug("api request", logging.Method(req.Method), logging.Endpoint(endpoint))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", logging.Endpoint(endpoint), zap.Error(redact(err, c.apiKey)))
		return nil, err
	}
	c.logger.Debug("api response", logging.Endpoint(endpoint), logging.Status(resp.StatusCode))
	return resp, nil
}

// decodeStatus maps a non-200 response to the structured failure shape.
func decodeStatus(resp *http.Response) Response {
	_, _ = io.Copy(io.Discard, resp.Body)
	switch resp.StatusCode {
	case http.StatusNoContent:
		return Structured(map[string]any{"error": msgRateLimited})
	case http.StatusForbidden:
		return Structured(map[string]any{"error": msgForbidden})
	default:
		return Structured(map[string]any{"response_code": resp.StatusCode})
	}
}

// transportFailure reports a failed round trip as a structured error unless
// the context was cancelled, which is a local condition.
func (c *Client) transportFailure(ctx context.Context, err error) (Response, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, ctxErr
	}
	return Structured(map[string]any{"error": redact(err, c.apiKey).Error()}), nil
}

// redact strips the API key from errors that embed the request URL. For a
// *url.Error only the apikey query value is replaced; other errors fall back
// to replacing the key wherever it occurs.
func redact(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			q := u.Query()
			if q.Has("apikey") {
				q.Set("apikey", "REDACTED")
				u.RawQuery = q.Encode()
			}
			return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
		}
	}

	msg := err.Error()
	if !strings.Contains(msg, apiKey) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, apiKey, "REDACTED"))
}
