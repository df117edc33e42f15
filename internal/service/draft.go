package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/domain"
	"github.com/kitbuilder587/casedraft/internal/metrics"
)

// Drafter - генератор черновиков; реализуется draft.Generator.
type Drafter interface {
	Generate(ctx context.Context, req domain.DraftRequest) domain.DraftResult
}

type DraftService interface {
	// Generate возвращает ошибку только если не удалось получить дело.
	// Сбой генерации - это Failure внутри DraftResult.
	Generate(ctx context.Context, caseNumber, templateID string) (domain.DraftResult, error)
}

type DraftServiceDeps struct {
	Cases   CaseService
	Drafter Drafter
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type draftService struct {
	cases   CaseService
	drafter Drafter
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewDraftService(deps DraftServiceDeps) DraftService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &draftService{
		cases:   deps.Cases,
		drafter: deps.Drafter,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

func (s *draftService) Generate(ctx context.Context, caseNumber, templateID string) (domain.DraftResult, error) {
	start := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	templateID = strings.ToLower(strings.TrimSpace(templateID))
	if templateID == "" {
		s.record("validation_error", start)
		return domain.DraftResult{}, domain.ErrUnknownTemplate
	}

	snap, err := s.cases.Get(ctx, caseNumber)
	if err != nil {
		s.logger.Warn("case lookup failed",
			zap.String("case_number", caseNumber),
			zap.Error(err),
		)
		s.record("case_error", start)
		return domain.DraftResult{}, err
	}

	result := s.drafter.Generate(ctx, domain.DraftRequest{TemplateID: templateID, Case: *snap})
	s.record(result.Outcome(), start)
	return result, nil
}

func (s *draftService) record(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRequest("draft", status, time.Since(start))
	}
}
