// Package api is a minimal HTTP client for the ads aggregation backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/job"
)

// DefaultServer is used when no base URL is configured.
const DefaultServer = "http://localhost:5000"

// Error is a non-2xx response. Message is the body's message (or error)
// field verbatim, empty when the body carried none.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsTransport reports whether err happened before any HTTP response arrived.
func IsTransport(err error) bool {
	var apiErr *Error
	if err == nil || errors.As(err, &apiErr) {
		return false
	}
	return errors.Is(err, errTransport)
}

var errTransport = errors.New("send request")

// Client talks to one backend.
type Client struct {
	base       string
	httpClient *http.Client
}

// NewClient creates a client for server (DefaultServer when empty).
// timeout <= 0 means 30 seconds.
func NewClient(server string, timeout time.Duration) *Client {
	if server == "" {
		server = DefaultServer
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base: strings.TrimRight(server, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Server returns the base URL.
func (c *Client) Server() string {
	return c.base
}

// FetchAds lists the ads of watch, or of every watch when watch is empty.
func (c *Client) FetchAds(ctx context.Context, watch string) ([]ad.Ad, error) {
	path := "/api/ads"
	if watch != "" {
		path += "?search_name=" + url.QueryEscape(watch)
	}
	var ads []ad.Ad
	if err := c.do(ctx, http.MethodGet, path, nil, &ads); err != nil {
		return nil, fmt.Errorf("fetch ads: %w", err)
	}
	return ads, nil
}

// CountAds returns how many ads the server holds for watch.
func (c *Client) CountAds(ctx context.Context, watch string) (int, error) {
	var ads []json.RawMessage
	path := "/api/ads?search_name=" + url.QueryEscape(watch)
	if err := c.do(ctx, http.MethodGet, path, nil, &ads); err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return len(ads), nil
}

// FetchJobStatus reads the analysis job status.
func (c *Client) FetchJobStatus(ctx context.Context) (job.Report, error) {
	var r job.Report
	if err := c.do(ctx, http.MethodGet, "/api/ai-status", nil, &r); err != nil {
		return job.Report{}, fmt.Errorf("job status: %w", err)
	}
	r.Status = job.ParseStatus(string(r.Status))
	return r, nil
}

// RequestStopJob asks the server to stop the analysis job.
func (c *Client) RequestStopJob(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/stop-analysis", nil, nil); err != nil {
		return fmt.Errorf("stop analysis: %w", err)
	}
	return nil
}

// HideAd hides one ad server-side.
func (c *Client) HideAd(ctx context.Context, id ad.ID) error {
	if err := c.do(ctx, http.MethodPost, "/api/ads/"+url.PathEscape(string(id))+"/hide", nil, nil); err != nil {
		return fmt.Errorf("hide ad %s: %w", id, err)
	}
	return nil
}

// MoveAds reassigns ads to the target watch.
func (c *Client) MoveAds(ctx context.Context, ids []ad.ID, target string) error {
	body := moveRequest{IDs: ids, Target: target}
	if err := c.do(ctx, http.MethodPost, "/api/ads/move-to-watch", body, nil); err != nil {
		return fmt.Errorf("move ads: %w", err)
	}
	return nil
}

// RefreshResult is the outcome of a server-side re-scan.
type RefreshResult struct {
	Message    string  `json:"message"`
	Gems       []ad.Ad `json:"pépites"`
	PriceDrops []ad.Ad `json:"price_drops"`
}

// RefreshWatch re-scans watch on the server.
func (c *Client) RefreshWatch(ctx context.Context, watch string) (RefreshResult, error) {
	var r RefreshResult
	if err := c.do(ctx, http.MethodPost, "/api/searches/"+url.PathEscape(watch)+"/refresh", nil, &r); err != nil {
		return RefreshResult{}, fmt.Errorf("refresh %s: %w", watch, err)
	}
	return r, nil
}

// AnalyzeRequest starts an analysis job. With IDs only, the server analyses
// stored ads; AdsData lets the client ship ads the server has not stored yet.
type AnalyzeRequest struct {
	IDs          []ad.ID `json:"ad_ids,omitempty"`
	CustomPrompt string  `json:"custom_prompt,omitempty"`
	AdsData      []ad.Ad `json:"ads_data,omitempty"`
}

// StartAnalysis launches the analysis job and returns the server's
// acknowledgement message.
func (c *Client) StartAnalysis(ctx context.Context, req AnalyzeRequest) (string, error) {
	var r messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/analyze", req, &r); err != nil {
		return "", fmt.Errorf("start analysis: %w", err)
	}
	return r.Message, nil
}

// Comparison is the server's side-by-side verdict on a few ads. HTML is only
// set by servers that render a table.
type Comparison struct {
	Analysis string `json:"analysis"`
	HTML     string `json:"comparison_html,omitempty"`
}

// CompareAds asks the AI to compare ads. The full records are sent, so ads
// the server no longer lists can still be compared.
func (c *Client) CompareAds(ctx context.Context, ads []ad.Ad) (Comparison, error) {
	var r Comparison
	if err := c.do(ctx, http.MethodPost, "/api/compare-ads", compareRequest{Ads: ads}, &r); err != nil {
		return Comparison{}, fmt.Errorf("compare ads: %w", err)
	}
	return r, nil
}

// ClearAnalysisRequest names the ads whose AI results are dropped: the given
// ids, or every ad of Watch when IDs is empty.
type ClearAnalysisRequest struct {
	IDs   []ad.ID `json:"ad_ids,omitempty"`
	Watch string  `json:"search_name,omitempty"`
}

// ClearAnalyses deletes AI scores and summaries server-side.
func (c *Client) ClearAnalyses(ctx context.Context, req ClearAnalysisRequest) error {
	if err := c.do(ctx, http.MethodPost, "/api/clear-analysis", req, nil); err != nil {
		return fmt.Errorf("clear analysis: %w", err)
	}
	return nil
}

// ListWatches returns every watch.
func (c *Client) ListWatches(ctx context.Context) ([]ad.Watch, error) {
	var ws []ad.Watch
	if err := c.do(ctx, http.MethodGet, "/api/searches", nil, &ws); err != nil {
		return nil, fmt.Errorf("list watches: %w", err)
	}
	return ws, nil
}

// GetWatch returns one watch by name.
func (c *Client) GetWatch(ctx context.Context, name string) (ad.Watch, error) {
	var w ad.Watch
	if err := c.do(ctx, http.MethodGet, "/api/searches/"+url.PathEscape(name), nil, &w); err != nil {
		return ad.Watch{}, fmt.Errorf("get watch %s: %w", name, err)
	}
	return w, nil
}

// MarkViewed records that the user opened watch.
func (c *Client) MarkViewed(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodPost, "/api/searches/"+url.PathEscape(name)+"/viewed", nil, nil); err != nil {
		return fmt.Errorf("mark viewed %s: %w", name, err)
	}
	return nil
}

// PriceHistory returns the recorded price changes of an ad, oldest first.
func (c *Client) PriceHistory(ctx context.Context, id ad.ID) ([]ad.PricePoint, error) {
	var pts []ad.PricePoint
	if err := c.do(ctx, http.MethodGet, "/api/ads/"+url.PathEscape(string(id))+"/history", nil, &pts); err != nil {
		return nil, fmt.Errorf("price history %s: %w", id, err)
	}
	return pts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", errTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

func errorMessage(body []byte) string {
	var r struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return ""
	}
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

type moveRequest struct {
	IDs    []ad.ID `json:"ad_ids"`
	Target string  `json:"target_watch"`
}

type compareRequest struct {
	Ads []ad.Ad `json:"ads"`
}

type messageResponse struct {
	Message string `json:"message"`
}
