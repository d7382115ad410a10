package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIError_Error(t *testing.T) {
	err := OpenAICallFailed("time resolution request failed", fmt.Errorf("dial tcp: refused"))
	assert.Equal(t, "[OPENAI_CALL_FAILED] time resolution request failed: dial tcp: refused", err.Error())

	plain := InvalidArgument("whenText is required")
	assert.Equal(t, "[INVALID_ARGUMENT] whenText is required", plain.Error())
}

func TestIsCode_ThroughWrapping(t *testing.T) {
	base := Conflict("etag mismatch", nil)
	wrapped := fmt.Errorf("save group: %w", base)

	assert.True(t, IsCode(wrapped, ErrCodeConflict))
	assert.False(t, IsCode(wrapped, ErrCodeNotFound))
	assert.Equal(t, ErrCodeConflict, GetCodeFromError(wrapped, ErrCodeInvalidArgument))
	assert.Equal(t, ErrCodeInvalidArgument, GetCodeFromError(fmt.Errorf("plain"), ErrCodeInvalidArgument))
}

func TestAIError_WithContext(t *testing.T) {
	err := OpenAIInvalidResponse("missing startUtc").WithContext("trace_id", "t-1")
	require.NotNil(t, err.Context)
	assert.Equal(t, "t-1", err.Context["trace_id"])
}

func TestResult(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.OK)
	assert.Equal(t, 42, ok.Value)
	assert.NoError(t, ok.Err())

	failed := Fail[int](ErrCodeInvalidArgument, "bad phone number")
	assert.False(t, failed.OK)
	require.Error(t, failed.Err())
	assert.True(t, IsCode(failed.Err(), ErrCodeInvalidArgument))
}
