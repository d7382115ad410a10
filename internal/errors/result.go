package errors

// Result is a tagged outcome for expected branching. Ok results carry a
// value; failed results carry a kind and a human-readable message.
type Result[T any] struct {
	OK      bool      `json:"ok"`
	Value   T         `json:"value,omitempty"`
	Kind    ErrorCode `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

// Fail builds a failed result.
func Fail[T any](kind ErrorCode, msg string) Result[T] {
	return Result[T]{Kind: kind, Message: msg}
}

// Err converts a failed result to an *AIError, or nil when OK.
func (r Result[T]) Err() error {
	if r.OK {
		return nil
	}
	return &AIError{Code: r.Kind, Message: r.Message}
}
