// CLAUDE:SUMMARY Pipeline orchestrator — classify, extract, decide, dispatch, trace, in that causal order.
// Package pipeline sequences the intake stages for one input:
// classify → extract → decide → dispatch → trace.
//
// Each Process call is synchronous and side-effect ordered: no stage
// starts before the prior stage returns. Concurrent Process calls share
// no mutable state beyond the trace Recorder, which serializes appends.
// Dispatch is fire-and-forget: its failure is recorded in the trace, not
// surfaced to the caller. A failed trace append is the only fatal error,
// since dropping the audit record would break traceability.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/moncel/intake/classify"
	"github.com/moncel/intake/decide"
	"github.com/moncel/intake/dispatch"
	"github.com/moncel/intake/extract"
	"github.com/moncel/intake/idgen"
	"github.com/moncel/intake/trace"
)

// Config configures a Pipeline.
type Config struct {
	// Extract configures the per-format extractors.
	Extract extract.Config

	// Rules overrides the default intent rule list when non-empty.
	Rules []classify.Rule

	// DispatchTimeout bounds the follow-up action call. Default: 10s.
	DispatchTimeout time.Duration

	// TraceTimeout bounds the trace append. Default: 5s.
	TraceTimeout time.Duration

	// Logger for pipeline events.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = 10 * time.Second
	}
	if c.TraceTimeout <= 0 {
		c.TraceTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the single entry point external callers use.
type Pipeline struct {
	classifier *classify.Classifier
	extractors *extract.Set
	dispatcher dispatch.Dispatcher
	recorder   trace.Recorder
	cfg        Config
	logger     *slog.Logger
	newInputID idgen.Generator
}

// New creates a Pipeline. A nil dispatcher disables follow-up delivery
// (every dispatch is recorded as skipped); the recorder is required.
func New(cfg Config, d dispatch.Dispatcher, r trace.Recorder) *Pipeline {
	cfg.defaults()
	if d == nil {
		d = dispatch.Nop{}
	}
	opts := []classify.Option{classify.WithLogger(cfg.Logger)}
	if len(cfg.Rules) > 0 {
		opts = append(opts, classify.WithRules(cfg.Rules))
	}
	return &Pipeline{
		classifier: classify.New(opts...),
		extractors: extract.NewSet(cfg.Extract),
		dispatcher: d,
		recorder:   r,
		cfg:        cfg,
		logger:     cfg.Logger,
		newInputID: idgen.Prefixed("in_", idgen.UUIDv7()),
	}
}

// Process runs one input through the full pipeline and returns its trace
// record. The record is returned even when dispatch failed; an error is
// returned only when the trace append failed, in which case no record
// exists and the caller must retry or queue the input.
func (p *Pipeline) Process(ctx context.Context, input classify.RawInput) (*trace.Record, error) {
	if input.ID == "" {
		input.ID = p.newInputID()
	}
	if input.ReceivedAt.IsZero() {
		input.ReceivedAt = time.Now().UTC()
	}

	cls := p.classifier.Classify(input)
	res := p.extractors.Extract(ctx, input, cls)
	dec := decide.Decide(cls, res)

	dispatchCtx, cancel := context.WithTimeout(ctx, p.cfg.DispatchTimeout)
	outcome := p.dispatcher.Dispatch(dispatchCtx, dec)
	cancel()

	if outcome.Status == dispatch.StatusFailed {
		p.logger.Warn("dispatch failed",
			"input", input.ID, "action", dec.Action, "detail", outcome.Detail)
	}

	rec := &trace.Record{
		InputID:        input.ID,
		ReceivedAt:     input.ReceivedAt,
		Format:         string(cls.Format),
		Intent:         string(cls.Intent),
		Extraction:     summarize(res),
		Action:         string(dec.Action),
		Reason:         dec.Reason,
		Target:         dec.Target,
		DispatchStatus: string(outcome.Status),
		DispatchDetail: outcome.Detail,
	}

	traceCtx, cancel := context.WithTimeout(ctx, p.cfg.TraceTimeout)
	defer cancel()
	if err := p.recorder.Append(traceCtx, rec); err != nil {
		return nil, fmt.Errorf("pipeline: trace append for %s: %w", input.ID, err)
	}

	p.logger.Info("processed input",
		"input", input.ID,
		"format", cls.Format, "intent", cls.Intent,
		"action", dec.Action, "dispatch", outcome.Status)
	return rec, nil
}

// summarize renders the extraction result as the JSON stored in the
// trace. Marshal failure degrades to an error marker rather than losing
// the record.
func summarize(res *extract.Result) string {
	data, err := json.Marshal(res)
	if err != nil {
		return `{"error":"unserializable extraction result"}`
	}
	return string(data)
}
