package draft

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/domain"
	"github.com/kitbuilder587/casedraft/internal/llm"
	"github.com/kitbuilder587/casedraft/internal/metrics"
)

const (
	Temperature = 0.4
	MaxTokens   = 4000
)

type Config struct {
	// Model пустой - берется модель клиента по умолчанию
	Model string
	// Provider - метка для метрик LLM
	Provider string
}

type Generator struct {
	llm     llm.Client
	config  Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewGenerator(client llm.Client, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Provider == "" {
		cfg.Provider = "unknown"
	}
	return &Generator{
		llm:     client,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

// Generate: prompt -> один вызов провайдера -> DraftResult.
// Никогда не возвращает ошибку и не паникует: любой сбой превращается в Failure.
func (g *Generator) Generate(ctx context.Context, req domain.DraftRequest) (result domain.DraftResult) {
	start := time.Now()
	requestID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("panic during draft generation",
				zap.String("request_id", requestID),
				zap.Any("panic", r),
			)
			result = domain.Failure(domain.FailureUnknown, domain.ReasonUnknown)
		}
		g.observe(requestID, req, result, time.Since(start))
	}()

	prompt := BuildPrompt(req)

	llmStart := time.Now()
	resp, err := g.llm.Complete(ctx, llm.Request{
		Model:       g.config.Model,
		System:      prompt.System,
		Prompt:      prompt.User,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	g.recordLLM(err, time.Since(llmStart))
	if err != nil {
		return Normalize(err)
	}
	if resp == nil {
		return domain.Failure(domain.FailureEmptyResponse, domain.ReasonNoContent)
	}
	if resp.FinishReason == llm.FinishReasonLength {
		return domain.Failure(domain.FailureTruncated, domain.ReasonTruncated)
	}

	return domain.Success(resp.Content)
}

// Normalize переводит ошибку провайдера в Failure с причиной, пригодной для показа.
func Normalize(err error) domain.DraftResult {
	if err == nil {
		return domain.Failure(domain.FailureUnknown, domain.ReasonUnknown)
	}

	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return domain.Failure(domain.FailureConfiguration, domain.ReasonNotConfigured)
	case errors.Is(err, llm.ErrEmptyResponse):
		return domain.Failure(domain.FailureEmptyResponse, domain.ReasonNoContent)
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return domain.Failure(domain.FailureTransport, apiErr.Error())
	}

	// url.Error добавляет метод и адрес; пользователю нужна только причина
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		if msg := strings.TrimSpace(urlErr.Err.Error()); msg != "" {
			return domain.Failure(domain.FailureTransport, msg)
		}
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return domain.Failure(domain.FailureUnknown, domain.ReasonUnknown)
	}
	return domain.Failure(domain.FailureTransport, msg)
}

func (g *Generator) observe(requestID string, req domain.DraftRequest, result domain.DraftResult, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("template_id", req.TemplateID),
		zap.String("case_number", req.Case.CaseNumber),
		zap.String("outcome", result.Outcome()),
		zap.Duration("duration", elapsed),
	}

	if result.OK() {
		g.logger.Info("draft generated", append(fields, zap.Int("content_length", len(result.Content())))...)
	} else {
		g.logger.Warn("draft generation failed", append(fields, zap.String("reason", result.Reason()))...)
	}

	if g.metrics != nil {
		g.metrics.RecordDraft(req.TemplateID, result.Outcome(), elapsed)
	}
}

func (g *Generator) recordLLM(err error, elapsed time.Duration) {
	if g.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	g.metrics.RecordLLMRequest(g.config.Provider, status, elapsed)
}
