package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ограничение на размер ответа провайдера
const maxResponseBytes = 4 << 20

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// APIError - ответ провайдера с не-2xx статусом.
// Message берется из тела ответа, если провайдер его прислал.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRateLimit:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrRequestFailed:
		return true
	}
	return false
}

func NewChatRequest(req Request) ChatRequest {
	return ChatRequest{
		Model: req.Model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

// ParseErrorMessage достает сообщение из тела ошибки.
// Встречаются оба варианта: {"error":{"message":"..."}} и {"error":"..."}.
func ParseErrorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		return ""
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
		return strings.TrimSpace(obj.Message)
	}

	var s string
	if err := json.Unmarshal(env.Error, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

func HandleHTTPError(statusCode int, body []byte, logger *zap.Logger, provider string) error {
	apiErr := &APIError{StatusCode: statusCode, Message: ParseErrorMessage(body)}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		logger.Warn(provider+" request rejected",
			zap.Int("status", statusCode),
			zap.String("message", apiErr.Message),
		)
	default:
		logger.Error(provider+" request failed",
			zap.Int("status", statusCode),
			zap.String("body", string(body)),
		)
	}
	return apiErr
}

func ParseChatResponse(body []byte) (*ChatResponse, error) {
	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// ExtractContent берет только первый choice; пробелы по краям срезаются.
func ExtractContent(resp *ChatResponse) (*Response, error) {
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	first := resp.Choices[0]
	content := strings.TrimSpace(first.Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}
	return &Response{Content: content, FinishReason: first.FinishReason}, nil
}

func DoRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	return body, resp.StatusCode, nil
}
