package aitime

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	aierrors "github.com/hrygo/kinsync/internal/errors"
	"github.com/hrygo/kinsync/internal/observability"
	"github.com/hrygo/kinsync/internal/timezone"
)

// maxConcurrentResolves bounds ResolveMany.
const maxConcurrentResolves = 4

// ResolveRequest is the input of a single resolution attempt.
type ResolveRequest struct {
	WhenText string
	Timezone string
	Now      time.Time
	TraceID  string
	Context  string
	Locale   string
}

// ResolveError is the typed failure of a resolution attempt.
type ResolveError struct {
	Code    aierrors.ErrorCode `json:"code"`
	Message string             `json:"message"`
}

// ResolveResult is the outcome of ResolveTimeSpecWithFallback.
//
// When OK is false, Deterministic still carries the local parse so the caller
// may fall back to it.
type ResolveResult struct {
	OK                bool          `json:"ok"`
	Time              *TimeSpec     `json:"time,omitempty"`
	Deterministic     *TimeSpec     `json:"deterministic,omitempty"`
	Error             *ResolveError `json:"error,omitempty"`
	FallbackAttempted bool          `json:"fallbackAttempted"`
	UsedFallback      bool          `json:"usedFallback"`
	OpID              string        `json:"opId,omitempty"`
	Model             string        `json:"model,omitempty"`
}

// Resolver runs the deterministic parser and escalates to an external
// resolver when local parsing is not conclusive.
type Resolver struct {
	cfg      Config
	external ExternalResolver
}

// NewResolver creates a resolver. external may be nil.
func NewResolver(cfg Config, external ExternalResolver) *Resolver {
	return &Resolver{cfg: cfg, external: external}
}

// ResolveTimeSpecWithFallback resolves req.WhenText. The external resolver
// is called at most once, and never when the local parse already resolved.
// Failures are reported in the result, never returned as errors.
func (r *Resolver) ResolveTimeSpecWithFallback(ctx context.Context, req ResolveRequest) ResolveResult {
	logger := observability.LoggerFromContext(ctx)

	if req.Timezone == "" {
		req.Timezone = timezone.UTC
	}
	loc, err := timezone.ParseTimezone(req.Timezone)
	if err != nil {
		return ResolveResult{
			Error: &ResolveError{Code: aierrors.ErrCodeInvalidArgument, Message: "unknown timezone " + req.Timezone},
		}
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	local := NewParser(loc).WithNow(now).Resolve(req.WhenText)
	if local.IsResolved() || !r.cfg.AIFallbackEnabled {
		return ResolveResult{OK: true, Time: &local}
	}

	if r.external == nil {
		logger.Warn("time fallback enabled but no external resolver configured", "trace_id", req.TraceID)
		return ResolveResult{
			Deterministic: &local,
			Error:         &ResolveError{Code: aierrors.ErrCodeOpenAINotConfigured, Message: "no external time resolver configured"},
		}
	}

	traceID := req.TraceID
	if traceID == "" {
		traceID = observability.TraceIDFromContext(ctx)
	}

	logger.Debug("escalating time expression",
		"trace_id", traceID,
		"status", local.Intent.Status,
		"missing", local.Intent.Missing)

	ext, err := r.external.ResolveTime(ctx, ExternalRequest{
		WhenText: req.WhenText,
		Timezone: req.Timezone,
		Now:      now,
		Locale:   req.Locale,
		Context:  truncateContext(req.Context, r.cfg.MaxContextChars),
		Model:    r.cfg.Model,
		TraceID:  traceID,
	})
	if err != nil {
		code := aierrors.GetCodeFromError(err, aierrors.ErrCodeOpenAICallFailed)
		logger.Warn("external time resolution failed",
			"trace_id", traceID,
			observability.LogFieldErrorCode, code,
			"error", err)
		return fallbackFailure(&local, code, err.Error())
	}

	validated, err := validateResolve(ext.Response)
	if err != nil {
		logger.Warn("external time resolution returned an invalid shape",
			"trace_id", traceID,
			"op_id", ext.OpID,
			"error", err)
		res := fallbackFailure(&local, aierrors.ErrCodeOpenAIInvalidResponse, err.Error())
		res.OpID, res.Model = ext.OpID, ext.Model
		return res
	}

	spec := specFromExternal(req.WhenText, loc, local, validated)
	logger.Debug("external time resolution completed",
		"trace_id", traceID,
		"op_id", ext.OpID,
		"status", spec.Intent.Status)

	return ResolveResult{
		OK:                true,
		Time:              &spec,
		FallbackAttempted: true,
		UsedFallback:      true,
		OpID:              ext.OpID,
		Model:             ext.Model,
	}
}

// ResolveMany resolves several requests concurrently. Results keep the order
// of reqs.
func (r *Resolver) ResolveMany(ctx context.Context, reqs []ResolveRequest) []ResolveResult {
	out := make([]ResolveResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolves)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			out[i] = r.ResolveTimeSpecWithFallback(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("batch time resolution interrupted", "error", err)
	}
	return out
}

func fallbackFailure(local *TimeSpec, code aierrors.ErrorCode, msg string) ResolveResult {
	return ResolveResult{
		Deterministic:     local,
		Error:             &ResolveError{Code: code, Message: msg},
		FallbackAttempted: true,
	}
}

// specFromExternal builds a fresh TimeSpec from a validated external answer.
// The local evidence is kept; assumptions from both sides are combined.
func specFromExternal(text string, loc *time.Location, local TimeSpec, v *validatedResolve) TimeSpec {
	intent := TimeIntent{
		OriginalText: text,
		Evidence:     local.Intent.Evidence,
		Assumptions:  append(append([]string{}, local.Intent.Assumptions...), v.assumptions...),
	}
	if !v.resolved {
		intent.Status = StatusUnresolved
		intent.Missing = v.missing
		return TimeSpec{Intent: intent}
	}

	intent.Status = StatusResolved
	resolved := &ResolvedInterval{
		StartUtc:         v.start.UTC(),
		Timezone:         loc.String(),
		InferenceVersion: InferenceOpenAI,
	}
	if v.hasEnd {
		resolved.EndUtc = v.end.UTC()
		resolved.DurationSource = DurationExplicit
		resolved.DurationConfidence = confidence(1)
	} else {
		mins, conf, reason := suggestDuration(text)
		resolved.EndUtc = v.start.Add(time.Duration(mins) * time.Minute).UTC()
		resolved.DurationSource = DurationSuggested
		resolved.DurationConfidence = confidence(conf)
		resolved.DurationReason = reason
		resolved.DurationAcceptance = AcceptanceAuto
	}
	return TimeSpec{Intent: intent, Resolved: resolved}
}

// truncateContext keeps the most recent maxChars runes of the conversation.
func truncateContext(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[len(runes)-maxChars:])
}
