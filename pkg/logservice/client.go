// Package logservice is a thin client for the remote conversation-log REST
// service. Every operation maps to exactly one HTTP request; there are no
// retries and no caching.
package logservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulseai/pulsedesk/pkg/reqctx"
)

const (
	tracerName      = "github.com/pulseai/pulsedesk/pkg/logservice"
	headerRequestID = "X-Request-Id"
	logPath         = "/log"
)

// API is the set of operations the rest of the service needs from the log
// service.
type API interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	Create(ctx context.Context, req CreateRequest) (*Conversation, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Conversation, error)
	Delete(ctx context.Context, id string) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

var _ API = (*Client)(nil)

func New(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		tracer:     otel.Tracer(tracerName),
	}
}

// Get fetches one conversation. A 404 (or a null body) matches ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*Conversation, error) {
	var conv *Conversation
	if err := c.do(ctx, "get", http.MethodGet, idPath(id), nil, &conv); err != nil {
		return nil, fmt.Errorf("fetch conversation %s: %w", id, err)
	}
	if conv == nil {
		return nil, fmt.Errorf("fetch conversation %s: %w", id, ErrNotFound)
	}
	return conv, nil
}

// List fetches every conversation.
func (c *Client) List(ctx context.Context) ([]Conversation, error) {
	var convs []Conversation
	if err := c.do(ctx, "list", http.MethodGet, logPath, nil, &convs); err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	return convs, nil
}

// Create stores a new conversation and returns the saved record.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Conversation, error) {
	var resp saveResponse
	if err := c.do(ctx, "create", http.MethodPost, logPath, req, &resp); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	if !resp.Success || resp.Saved == nil {
		return nil, fmt.Errorf("save conversation: %w: %s", ErrRejected, resp.Error)
	}
	return resp.Saved, nil
}

// Update sends a partial document; fields left nil are not touched.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*Conversation, error) {
	var resp updateResponse
	if err := c.do(ctx, "update", http.MethodPut, idPath(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update conversation %s: %w", id, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("update conversation %s: %w: %s", id, ErrRejected, resp.Error)
	}
	return resp.Updated, nil
}

// Delete asks the service to retire the conversation.
func (c *Client) Delete(ctx context.Context, id string) error {
	var resp deleteResponse
	if err := c.do(ctx, "delete", http.MethodDelete, idPath(id), nil, &resp); err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	if !resp.Success {
		return fmt.Errorf("delete conversation %s: %w: %s", id, ErrRejected, resp.Error)
	}
	return nil
}

// Ping checks that the service answers the list endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+logPath, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode >= 300 {
		return &StatusError{Method: http.MethodGet, Path: logPath, StatusCode: res.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "logservice."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("logservice.path", path),
		),
	)
	defer span.End()

	err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		attrs := append([]any{"op", op, "method", method, "path", path, "error", err}, reqctx.LogAttrs(ctx)...)
		slog.WarnContext(ctx, "log service request failed", attrs...)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set(headerRequestID, rid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return &StatusError{Method: method, Path: path, StatusCode: res.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func idPath(id string) string {
	return logPath + "/" + url.PathEscape(id)
}
