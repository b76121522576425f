package model

import (
	"context"
	"fmt"
	"time"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/metrics"
	"bharat-seva/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result is the raw reply and which backend produced it.
type Result struct {
	Text      string
	BackendID string
	Attempts  int
}

// Invoker dispatches requests to backends by ID or by chain.
type Invoker struct {
	backends map[string]Backend
	chains   map[string][]string
	timeout  time.Duration
	logger   logger.Logger
	obs      *observability.Observability
}

// NewInvoker builds an Invoker. Chain entries naming a backend that is not
// available are dropped with a warning; a chain left empty fails at call time
// with ErrNoBackends.
func NewInvoker(backends []Backend, chains map[string][]string, timeout time.Duration, log logger.Logger, obs *observability.Observability) *Invoker {
	inv := &Invoker{
		backends: make(map[string]Backend, len(backends)),
		chains:   make(map[string][]string, len(chains)),
		timeout:  timeout,
		logger:   log.With(map[string]interface{}{"component": "model.invoker"}),
		obs:      obs,
	}

	for _, b := range backends {
		inv.backends[b.ID()] = b
	}

	for name, ids := range chains {
		var kept []string
		for _, id := range ids {
			if _, ok := inv.backends[id]; !ok {
				inv.logger.Warn("chain references unavailable backend", map[string]interface{}{
					"chain":   name,
					"backend": id,
				})
				continue
			}
			kept = append(kept, id)
		}
		inv.chains[name] = kept
	}

	return inv
}

// Chain returns the resolved backend IDs for name.
func (i *Invoker) Chain(name string) []string {
	return append([]string(nil), i.chains[name]...)
}

// Invoke performs exactly one call against backendID.
func (i *Invoker) Invoke(ctx context.Context, backendID string, req Request) (string, error) {
	return i.invoke(ctx, backendID, req, i.timeout)
}

func (i *Invoker) invoke(ctx context.Context, backendID string, req Request, timeout time.Duration) (string, error) {
	b, ok := i.backends[backendID]
	if !ok {
		return "", fmt.Errorf("%w: backend %q", ErrNoBackends, backendID)
	}

	ctx, span := i.obs.StartSpan(ctx, "model.invoke",
		attribute.String("backend", backendID),
		attribute.Int("prompt_length", len(req.Prompt)),
		attribute.Bool("has_image", req.Image != nil),
	)
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	i.logger.Debug("invoking model", map[string]interface{}{
		"backend": backendID,
		"prompt":  req.Prompt,
	})

	start := time.Now()
	text, err := b.Generate(callCtx, req)
	metrics.ModelInvocationDuration.WithLabelValues(backendID).Observe(time.Since(start).Seconds())

	if err == nil && text == "" {
		err = &ProviderError{Backend: backendID, Err: ErrEmptyReply}
	}

	if err != nil {
		outcome := "fatal"
		if IsTransient(err) {
			outcome = "transient"
		}
		metrics.ModelInvocations.WithLabelValues(backendID, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return "", err
	}

	metrics.ModelInvocations.WithLabelValues(backendID, "success").Inc()
	i.logger.Info("model replied", map[string]interface{}{
		"backend":      backendID,
		"promptLength": len(req.Prompt),
		"replyLength":  len(text),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return text, nil
}

// InvokeWithFallback tries each backend of chain in order, at most once each.
// Only a transient failure advances to the next backend; any other failure,
// or a cancelled caller context, ends the chain. A chain that runs out of
// backends escalates to PROVIDER_FATAL, wrapping the last backend's error.
//
// When ctx carries a deadline, each attempt gets at most an equal share of
// the time left, so a slow primary cannot use up the budget of its fallbacks.
func (i *Invoker) InvokeWithFallback(ctx context.Context, chain string, req Request) (*Result, error) {
	ids, ok := i.chains[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, chain)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: chain %q", ErrNoBackends, chain)
	}

	var lastErr error
	for n, id := range ids {
		text, err := i.invoke(ctx, id, req, i.attemptTimeout(ctx, len(ids)-n))
		if err == nil {
			return &Result{Text: text, BackendID: id, Attempts: n + 1}, nil
		}
		lastErr = err

		if !IsTransient(err) || ctx.Err() != nil {
			return nil, err
		}

		if n+1 < len(ids) {
			next := ids[n+1]
			metrics.ModelFallbacks.WithLabelValues(id, next).Inc()
			i.logger.WithError(err).Warn("backend busy, falling back", map[string]interface{}{
				"chain": chain,
				"from":  id,
				"to":    next,
			})
		}
	}

	i.logger.WithError(lastErr).Error("every backend in chain is busy", map[string]interface{}{
		"chain":    chain,
		"attempts": len(ids),
	})
	return nil, apperrors.NewProviderFatalError(fmt.Errorf("chain %q exhausted: %w", chain, lastErr))
}

// attemptTimeout caps the per-call timeout at remaining/left when ctx has a
// deadline.
func (i *Invoker) attemptTimeout(ctx context.Context, left int) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok || left <= 0 {
		return i.timeout
	}
	if share := time.Until(deadline) / time.Duration(left); share < i.timeout {
		return share
	}
	return i.timeout
}
