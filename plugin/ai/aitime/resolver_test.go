package aitime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aierrors "github.com/hrygo/kinsync/internal/errors"
)

var resolverNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func resolveReq(text string) ResolveRequest {
	return ResolveRequest{
		WhenText: text,
		Timezone: "America/Los_Angeles",
		Now:      resolverNow,
		TraceID:  "trace-1",
	}
}

func TestResolveTimeSpecWithFallback_LocalFirst(t *testing.T) {
	mock := &MockExternalResolver{}
	r := NewResolver(DefaultConfig(), mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("3/3 1pm"))

	require.True(t, res.OK)
	assert.False(t, res.UsedFallback)
	assert.False(t, res.FallbackAttempted)
	assert.Equal(t, StatusResolved, res.Time.Intent.Status)
	assert.Equal(t, utc("2026-03-03T21:00:00Z"), res.Time.Resolved.StartUtc)
	assert.Zero(t, mock.CallCount())
}

func TestResolveTimeSpecWithFallback_Disabled(t *testing.T) {
	mock := &MockExternalResolver{}
	cfg := DefaultConfig()
	cfg.AIFallbackEnabled = false
	r := NewResolver(cfg, mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("sometime soon"))

	require.True(t, res.OK)
	assert.False(t, res.FallbackAttempted)
	assert.Equal(t, StatusUnresolved, res.Time.Intent.Status)
	assert.Zero(t, mock.CallCount())
}

func TestResolveTimeSpecWithFallback_OvernightRangeEscalates(t *testing.T) {
	mock := &MockExternalResolver{
		Response: OpenAITimeResolve{
			Status:   "resolved",
			StartUtc: "2026-03-04T05:00:00Z",
			EndUtc:   "2026-03-04T09:00:00Z",
		},
	}
	r := NewResolver(DefaultConfig(), mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("3/3 9pm-1am"))

	require.True(t, res.OK)
	assert.True(t, res.UsedFallback)
	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, utc("2026-03-04T09:00:00Z"), res.Time.Resolved.EndUtc)
	assert.Equal(t, DurationExplicit, res.Time.Resolved.DurationSource)
}

func TestResolveTimeSpecWithFallback_NotConfigured(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("tomorrow"))

	assert.False(t, res.OK)
	assert.False(t, res.FallbackAttempted)
	require.NotNil(t, res.Error)
	assert.Equal(t, aierrors.ErrCodeOpenAINotConfigured, res.Error.Code)
	require.NotNil(t, res.Deterministic)
	assert.Equal(t, StatusPartial, res.Deterministic.Intent.Status)
}

func TestResolveTimeSpecWithFallback_UnknownTimezone(t *testing.T) {
	r := NewResolver(DefaultConfig(), &MockExternalResolver{})
	req := resolveReq("3/3 1pm")
	req.Timezone = "Mars/Olympus_Mons"

	res := r.ResolveTimeSpecWithFallback(context.Background(), req)

	assert.False(t, res.OK)
	assert.Equal(t, aierrors.ErrCodeInvalidArgument, res.Error.Code)
}

func TestResolveTimeSpecWithFallback_ExternalResolved(t *testing.T) {
	mock := &MockExternalResolver{
		Response: OpenAITimeResolve{
			Status:      "resolved",
			StartUtc:    "2026-01-02T20:00:00Z",
			Assumptions: []string{"lunch means noon"},
		},
		OpID:  "op-1",
		Model: "gpt-4o-mini",
	}
	r := NewResolver(DefaultConfig(), mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("lunch tomorrow"))

	require.True(t, res.OK)
	assert.True(t, res.FallbackAttempted)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "op-1", res.OpID)
	assert.Equal(t, "gpt-4o-mini", res.Model)
	require.True(t, res.Time.IsResolved())
	assert.Equal(t, utc("2026-01-02T20:00:00Z"), res.Time.Resolved.StartUtc)
	assert.Equal(t, utc("2026-01-02T21:00:00Z"), res.Time.Resolved.EndUtc)
	assert.Equal(t, DurationSuggested, res.Time.Resolved.DurationSource)
	assert.Equal(t, InferenceOpenAI, res.Time.Resolved.InferenceVersion)
	assert.Equal(t, "America/Los_Angeles", res.Time.Resolved.Timezone)
	assert.Contains(t, res.Time.Intent.Assumptions, "lunch means noon")

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, "lunch tomorrow", call.WhenText)
	assert.Equal(t, "trace-1", call.TraceID)
	assert.Equal(t, resolverNow, call.Now)
	assert.Equal(t, "gpt-4o-mini", call.Model)
}

func TestResolveTimeSpecWithFallback_ExternalExplicitEnd(t *testing.T) {
	mock := &MockExternalResolver{Response: OpenAITimeResolve{
		Status:   "resolved",
		StartUtc: "2026-01-02T20:00:00.000Z",
		EndUtc:   "2026-01-02T22:30:00Z",
	}}
	r := NewResolver(DefaultConfig(), mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("after school tomorrow"))

	require.True(t, res.OK)
	assert.Equal(t, DurationExplicit, res.Time.Resolved.DurationSource)
	assert.Equal(t, 150, res.Time.Resolved.DurationMins())
}

func TestResolveTimeSpecWithFallback_ExternalUnresolved(t *testing.T) {
	mock := &MockExternalResolver{Response: OpenAITimeResolve{
		Status:  "unresolved",
		Missing: []string{"date"},
	}}
	r := NewResolver(DefaultConfig(), mock)

	res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("sometime soon"))

	require.True(t, res.OK)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, StatusUnresolved, res.Time.Intent.Status)
	assert.Equal(t, []MissingField{MissingDate}, res.Time.Intent.Missing)
	assert.Nil(t, res.Time.Resolved)
}

func TestResolveTimeSpecWithFallback_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		resp OpenAITimeResolve
	}{
		{"unknown status", OpenAITimeResolve{Status: "maybe", StartUtc: "2026-01-02T20:00:00Z"}},
		{"non utc start", OpenAITimeResolve{Status: "resolved", StartUtc: "2026-01-02T20:00:00+01:00"}},
		{"missing start", OpenAITimeResolve{Status: "resolved"}},
		{"malformed end", OpenAITimeResolve{Status: "resolved", StartUtc: "2026-01-02T20:00:00Z", EndUtc: "tomorrow"}},
		{"end before start", OpenAITimeResolve{Status: "resolved", StartUtc: "2026-01-02T20:00:00Z", EndUtc: "2026-01-02T19:00:00Z"}},
		{"unresolved without missing", OpenAITimeResolve{Status: "unresolved"}},
		{"unknown missing field", OpenAITimeResolve{Status: "unresolved", Missing: []string{"weather"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockExternalResolver{Response: tt.resp, OpID: "op-bad"}
			r := NewResolver(DefaultConfig(), mock)

			res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("sometime soon"))

			assert.False(t, res.OK)
			assert.True(t, res.FallbackAttempted)
			assert.False(t, res.UsedFallback)
			assert.Nil(t, res.Time)
			require.NotNil(t, res.Error)
			assert.Equal(t, aierrors.ErrCodeOpenAIInvalidResponse, res.Error.Code)
			assert.Equal(t, "op-bad", res.OpID)
			require.NotNil(t, res.Deterministic)
			assert.Equal(t, StatusUnresolved, res.Deterministic.Intent.Status)
		})
	}
}

func TestResolveTimeSpecWithFallback_ExternalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code aierrors.ErrorCode
	}{
		{"plain transport error", errors.New("connection reset"), aierrors.ErrCodeOpenAICallFailed},
		{"typed call failure", aierrors.OpenAICallFailed("chat completion failed", errors.New("502")), aierrors.ErrCodeOpenAICallFailed},
		{"rate limited", aierrors.OpenAIRateLimited("slow down"), aierrors.ErrCodeOpenAIRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(DefaultConfig(), &MockExternalResolver{Err: tt.err})

			res := r.ResolveTimeSpecWithFallback(context.Background(), resolveReq("tomorrow"))

			assert.False(t, res.OK)
			assert.True(t, res.FallbackAttempted)
			assert.Equal(t, tt.code, res.Error.Code)
			assert.NotEmpty(t, res.Error.Message)
			require.NotNil(t, res.Deterministic)
			assert.Equal(t, StatusPartial, res.Deterministic.Intent.Status)
		})
	}
}

func TestResolveTimeSpecWithFallback_ContextTruncation(t *testing.T) {
	mock := &MockExternalResolver{Response: OpenAITimeResolve{Status: "unresolved", Missing: []string{"date"}}}
	cfg := DefaultConfig()
	cfg.MaxContextChars = 5
	r := NewResolver(cfg, mock)

	req := resolveReq("sometime soon")
	req.Context = "hello world"
	r.ResolveTimeSpecWithFallback(context.Background(), req)

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "world", mock.Calls[0].Context)
}

func TestTruncateContext(t *testing.T) {
	assert.Equal(t, "", truncateContext("anything", 0))
	assert.Equal(t, "short", truncateContext("short", 10))
	assert.Equal(t, "日程", truncateContext("明天日程", 2))
}

func TestResolveMany(t *testing.T) {
	mock := &MockExternalResolver{Response: OpenAITimeResolve{Status: "unresolved", Missing: []string{"date"}}}
	r := NewResolver(DefaultConfig(), mock)

	texts := []string{"3/3 1pm", "sometime soon", "tomorrow 9am", "whenever"}
	reqs := make([]ResolveRequest, len(texts))
	for i, text := range texts {
		reqs[i] = resolveReq(text)
	}

	results := r.ResolveMany(context.Background(), reqs)

	require.Len(t, results, len(texts))
	for i, res := range results {
		require.True(t, res.OK, texts[i])
		assert.Equal(t, texts[i], res.Time.Intent.OriginalText)
	}
	assert.False(t, results[0].UsedFallback)
	assert.True(t, results[1].UsedFallback)
	assert.False(t, results[2].UsedFallback)
	assert.Equal(t, 2, mock.CallCount())
}

func TestNewConfigFromProfile_Nil(t *testing.T) {
	assert.Equal(t, DefaultConfig(), NewConfigFromProfile(nil))
}
