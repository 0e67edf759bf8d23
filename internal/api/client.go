// Package api talks to the local OpenAI-compatible completion server.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"railchat/internal/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"
)

type Config struct {
	BaseURL string // Server root, e.g. http://localhost:8000
	APIKey  string // Sent as a bearer token on every request
	Timeout time.Duration

	// HTTPClient is optional; tests point it at an httptest server
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// RawResult is the undecoded answer of a completion call
type RawResult struct {
	Status int
	Body   []byte
}

type Client struct {
	client  openai.Client
	baseURL string
	log     *slog.Logger
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base + "/v1/"),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		client:  openai.NewClient(opts...),
		baseURL: base,
		log:     log,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// capture records the status and body of the single response a call
// produces, independently of how the SDK decodes it.
type capture struct {
	status int
	body   []byte
}

func (cp *capture) middleware() option.RequestOption {
	return option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		res, err := next(req)
		if err != nil || res == nil {
			return res, err
		}
		cp.status = res.StatusCode
		data, rerr := io.ReadAll(res.Body)
		_ = res.Body.Close()
		cp.body = data
		res.Body = io.NopCloser(bytes.NewReader(data))
		if rerr != nil {
			return res, rerr
		}
		return res, nil
	})
}

// ok reports a 2xx answer whose body is JSON. The SDK refuses such bodies
// when the Content-Type is not application/json, so callers decode them here.
func (cp *capture) ok() bool {
	return cp.status >= 200 && cp.status <= 299 && gjson.ValidBytes(cp.body)
}

// classify maps an SDK error onto the package taxonomy
func (cp *capture) classify(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindHTTPStatus, Status: apiErr.StatusCode, Err: err}
	}
	if cp.status == 0 {
		return &Error{Kind: KindTransport, Err: err}
	}
	if cp.status < 200 || cp.status > 299 {
		return &Error{Kind: KindHTTPStatus, Status: cp.status, Err: err}
	}
	return &Error{Kind: KindMalformed, Status: cp.status, Err: err}
}

func (c *Client) completionParams(req CompletionRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}
}

// Complete sends a single user turn and returns the first choice's text.
// A decoded body without a usable choice yields ErrNoChoices.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var cp capture
	start := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, c.completionParams(req),
		option.WithJSONSet("stream", false),
		cp.middleware(),
	)
	if err != nil {
		if cp.ok() {
			c.log.Debug("chat completion decoded from captured body", "status", cp.status, "err", err)
			return completionFromBody(cp.body)
		}
		e := cp.classify(err)
		c.log.Warn("chat completion failed", "kind", e.Kind.String(), "status", e.Status, "err", err)
		return "", e
	}

	c.log.Debug("chat completion", "status", cp.status, "elapsed", time.Since(start))

	if len(resp.Choices) == 0 || !resp.Choices[0].JSON.Message.Valid() {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteRaw performs the API test call. Any JSON answer is returned as is,
// whatever its status, so the caller can echo it.
func (c *Client) CompleteRaw(ctx context.Context, req CompletionRequest) (RawResult, error) {
	var cp capture

	_, err := c.client.Chat.Completions.New(ctx, c.completionParams(req), cp.middleware())
	if cp.status == 0 {
		if err == nil {
			err = errors.New("no response")
		}
		return RawResult{}, &Error{Kind: KindTransport, Err: err}
	}
	if !gjson.ValidBytes(cp.body) {
		return RawResult{Status: cp.status}, &Error{
			Kind:   KindMalformed,
			Status: cp.status,
			Err:    fmt.Errorf("body is not JSON (status %d)", cp.status),
		}
	}
	return RawResult{Status: cp.status, Body: cp.body}, nil
}

// Health probes GET /health. Any 2xx is healthy whatever the body says; the
// proxy's status fields are only kept as detail.
func (c *Client) Health(ctx context.Context) models.HealthReport {
	var cp capture
	var body []byte

	err := c.client.Get(ctx, c.baseURL+"/health", nil, &body, cp.middleware())
	report := models.HealthReport{CheckedAt: time.Now()}

	switch {
	case cp.status == 0:
		report.State = models.HealthUnreachable
		c.log.Debug("health probe unreachable", "err", err)
	case cp.status >= 200 && cp.status <= 299:
		report.State = models.HealthHealthy
		report.Detail = healthDetail(cp.body)
	default:
		report.State = models.HealthDegraded
		report.StatusCode = cp.status
		report.Detail = healthDetail(cp.body)
	}
	return report
}

func healthDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	res := gjson.GetManyBytes(body, "status", "method", "error")
	var parts []string
	if s := res[0].String(); s != "" {
		parts = append(parts, s)
	}
	if m := res[1].String(); m != "" {
		parts = append(parts, "via "+m)
	}
	if e := res[2].String(); e != "" {
		parts = append(parts, e)
	}
	return strings.Join(parts, ", ")
}

func (c *Client) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	var cp capture

	page, err := c.client.Models.List(ctx, cp.middleware())
	if err != nil {
		if cp.ok() {
			c.log.Debug("model listing decoded from captured body", "status", cp.status, "err", err)
			return modelsFromBody(cp.body), nil
		}
		e := cp.classify(err)
		c.log.Warn("model listing failed", "kind", e.Kind.String(), "status", e.Status, "err", err)
		return nil, e
	}

	out := make([]models.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		out = append(out, models.ModelInfo{ID: m.ID, Object: string(m.Object)})
	}
	return out, nil
}

func completionFromBody(body []byte) (string, error) {
	msg := gjson.GetBytes(body, "choices.0.message")
	if !msg.IsObject() {
		return "", ErrNoChoices
	}
	return msg.Get("content").String(), nil
}

func modelsFromBody(body []byte) []models.ModelInfo {
	data := gjson.GetBytes(body, "data").Array()
	out := make([]models.ModelInfo, 0, len(data))
	for _, m := range data {
		out = append(out, models.ModelInfo{ID: m.Get("id").String(), Object: m.Get("object").String()})
	}
	return out
}
