package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "deepseek/deepseek-chat"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Referer и Title нужны провайдеру только для атрибуции; пустые не отправляем.
	Referer string
	Title   string
	// 0 - без собственного таймаута, как у транспорта по умолчанию.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	referer string
	title   string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		referer: cfg.Referer,
		title:   cfg.Title,
		client:  cfg.HTTPClient,
		logger:  logger,
	}
}

// Complete делает ровно один запрос, без ретраев.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, llm.ErrNotConfigured
	}
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(llm.NewChatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		return nil, err
	}

	if statusCode < 200 || statusCode > 299 {
		return nil, llm.HandleHTTPError(statusCode, respBody, c.logger, "openrouter")
	}

	// openrouter иногда отдает 200 с ошибкой в теле, строкой или объектом
	if msg := llm.ParseErrorMessage(respBody); msg != "" {
		return nil, &llm.APIError{StatusCode: statusCode, Message: msg}
	}

	chatResp, err := llm.ParseChatResponse(respBody)
	if err != nil {
		return nil, err
	}

	return llm.ExtractContent(chatResp)
}

func (c *Client) Model() string { return c.model }

var _ llm.Client = (*Client)(nil)
