package aitime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	aierrors "github.com/hrygo/kinsync/internal/errors"
)

// OpenAIConfig holds configuration for the OpenAI-backed resolver.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	RatePerMinute int
	Timeout       time.Duration
}

// OpenAIResolver asks a chat model to resolve a time expression under a
// strict JSON schema.
type OpenAIResolver struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIResolver creates a new OpenAI-backed external resolver.
func NewOpenAIResolver(cfg OpenAIConfig) *OpenAIResolver {
	model := cfg.Model
	if model == "" {
		model = DefaultConfig().Model
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	// Non-positive rate disables client-side limiting.
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}

	return &OpenAIResolver{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		limiter: limiter,
	}
}

// ResolveTime implements ExternalResolver.
func (r *OpenAIResolver) ResolveTime(ctx context.Context, req ExternalRequest) (*ExternalResult, error) {
	if !r.limiter.Allow() {
		return nil, aierrors.OpenAIRateLimited("local request budget exhausted")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = r.model
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: timeResolveSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildTimeResolvePrompt(req),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "time_resolve",
				Strict: true,
				Schema: timeResolveJSONSchema,
			},
		},
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, chatReq)
	latency := time.Since(start)

	if err != nil {
		slog.Error("time resolve request failed",
			"trace_id", req.TraceID,
			"error", err,
			"latency_ms", latency.Milliseconds())
		if isRateLimited(err) {
			return nil, aierrors.OpenAIRateLimited(err.Error())
		}
		return nil, aierrors.OpenAICallFailed("chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, aierrors.OpenAIInvalidResponse("empty response from model")
	}

	content := resp.Choices[0].Message.Content
	parsed, err := parseTimeResolve(content)
	if err != nil {
		slog.Warn("failed to parse time resolve response",
			"trace_id", req.TraceID,
			"content", truncateForLog(content, 200),
			"error", err)
		return nil, aierrors.OpenAIInvalidResponse(err.Error())
	}

	opID := resp.ID
	if opID == "" {
		opID = uuid.NewString()
	}
	if resp.Model != "" {
		model = resp.Model
	}

	slog.Debug("time resolve completed",
		"trace_id", req.TraceID,
		"status", parsed.Status,
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)

	return &ExternalResult{Response: *parsed, OpID: opID, Model: model}, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseTimeResolve decodes the model output. Unknown fields are rejected.
func parseTimeResolve(content string) (*OpenAITimeResolve, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if m := codeFencePattern.FindStringSubmatch(content); len(m) > 1 {
			content = m[1]
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	var out OpenAITimeResolve
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("JSON decode failed: %w", err)
	}
	return &out, nil
}

func buildTimeResolvePrompt(req ExternalRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "text: %s\n", req.WhenText)
	fmt.Fprintf(&sb, "timezone: %s\n", req.Timezone)
	fmt.Fprintf(&sb, "now: %s\n", req.Now.UTC().Format(time.RFC3339))
	if req.Locale != "" {
		fmt.Fprintf(&sb, "locale: %s\n", req.Locale)
	}
	if req.Context != "" {
		fmt.Fprintf(&sb, "context:\n%s\n", req.Context)
	}
	return sb.String()
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

const timeResolveSystemPrompt = `You resolve a natural-language time expression for a family calendar.
Interpret the text in the given timezone relative to "now".
If a single start instant can be determined, answer status "resolved" with startUtc in UTC (YYYY-MM-DDTHH:MM:SSZ).
Set endUtc only when the text states an end or a duration; otherwise set it to "".
If the text cannot be resolved, answer status "unresolved" and list what is missing using only:
date, startTime, endTime, duration, timezone.
Record every guess you made in assumptions.`

var timeResolveJSONSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"status": {
			Type: "string",
			Enum: []string{string(StatusResolved), string(StatusUnresolved)},
		},
		"startUtc": {
			Type:        "string",
			Description: "UTC start instant, or empty when unresolved",
		},
		"endUtc": {
			Type:        "string",
			Description: "UTC end instant, or empty when not stated",
		},
		"missing": {
			Type: "array",
			Items: &jsonSchema{
				Type: "string",
				Enum: []string{
					string(MissingDate),
					string(MissingStartTime),
					string(MissingEndTime),
					string(MissingDuration),
					string(MissingTimezone),
				},
			},
		},
		"assumptions": {
			Type:  "array",
			Items: &jsonSchema{Type: "string"},
		},
	},
	Required:             []string{"status", "startUtc", "endUtc", "missing", "assumptions"},
	AdditionalProperties: false,
}

// jsonSchema implements json.Marshaler for OpenAI's JSON Schema format.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	return json.Marshal((*alias)(s))
}
