package llm

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured     = errors.New("provider api key is not configured")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrRequestFailed     = errors.New("request failed")
	ErrEmptyResponse     = errors.New("empty response")
	ErrRateLimit         = errors.New("rate limit exceeded")
	ErrMalformedResponse = errors.New("malformed response")
)

// FinishReasonLength - провайдер оборвал генерацию по max_tokens.
const FinishReasonLength = "length"

type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type Response struct {
	Content      string
	FinishReason string
}

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
