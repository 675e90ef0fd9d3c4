// CLAUDE:SUMMARY Dispatcher interface and the HTTP implementation posting decisions to action endpoints.
// Package dispatch delivers follow-up actions to external systems.
//
// Delivery is best-effort and fire-and-forget: the pipeline records the
// Outcome in the trace but never fails because a target was unreachable.
// Failed dispatches are not retried.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/moncel/intake/decide"
	"github.com/moncel/intake/idgen"
)

// Status of one dispatch attempt.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome describes what happened to one dispatch attempt.
type Outcome struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Dispatcher notifies an external system of a decision. Implementations
// must not block past ctx cancellation.
type Dispatcher interface {
	Dispatch(ctx context.Context, d decide.Decision) Outcome
}

// Nop is a Dispatcher that delivers nothing. Used when no downstream
// system is configured and as a default in tests.
type Nop struct{}

// Dispatch always reports skipped.
func (Nop) Dispatch(_ context.Context, _ decide.Decision) Outcome {
	return Outcome{Status: StatusSkipped, Detail: "dispatch disabled"}
}

// HTTP posts decisions as JSON to baseURL + Decision.Target.
type HTTP struct {
	base   string
	client *http.Client
	logger *slog.Logger
	newID  idgen.Generator
}

// HTTPOption configures an HTTP dispatcher.
type HTTPOption func(*HTTP)

// WithClient sets a custom http.Client (timeouts, transport).
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTP) { h.logger = l }
}

// NewHTTP creates an HTTP dispatcher for the given base URL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
		logger: slog.Default(),
		newID:  idgen.NanoID(12),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Dispatch posts the decision to its target endpoint. Decisions without a
// network target (LogOnly) are skipped without any call.
func (h *HTTP) Dispatch(ctx context.Context, d decide.Decision) Outcome {
	if d.Target == "" || d.Action == decide.ActionLogOnly {
		return Outcome{Status: StatusSkipped, Detail: "no network target"}
	}

	body, err := json.Marshal(d)
	if err != nil {
		return Outcome{Status: StatusFailed, Detail: fmt.Sprintf("encode decision: %v", err)}
	}

	url := h.base + d.Target
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Outcome{Status: StatusFailed, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", h.newID())

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("dispatch failed", "target", d.Target, "error", err)
		return Outcome{Status: StatusFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.logger.Warn("dispatch rejected", "target", d.Target, "status", resp.StatusCode)
		return Outcome{
			Status: StatusFailed,
			Detail: fmt.Sprintf("%s returned %d", d.Target, resp.StatusCode),
		}
	}
	return Outcome{Status: StatusDelivered, Detail: d.Target}
}
