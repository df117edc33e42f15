package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/cache"
	"github.com/kitbuilder587/casedraft/internal/domain"
	"github.com/kitbuilder587/casedraft/internal/metrics"
	"github.com/kitbuilder587/casedraft/internal/repository"
)

const defaultListLimit = 20

type CaseService interface {
	Get(ctx context.Context, caseNumber string) (*domain.CaseSnapshot, error)
	List(ctx context.Context, limit int) ([]domain.CaseSummary, error)
	Create(ctx context.Context, c *domain.CaseSnapshot) (int64, error)
}

type CaseServiceDeps struct {
	Cases   repository.CaseRepository
	Cache   cache.Cache
	TTL     time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type caseService struct {
	cases   repository.CaseRepository
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCaseService(deps CaseServiceDeps) CaseService {
	if deps.TTL == 0 {
		deps.TTL = 5 * time.Minute
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &caseService{
		cases:   deps.Cases,
		cache:   deps.Cache,
		ttl:     deps.TTL,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

func cacheKey(caseNumber string) string {
	return "case:" + domain.NormalizeCaseNumber(caseNumber)
}

// Get - read-through кеш. Наружу всегда отдается копия: вызывающий код не должен
// портить закешированное дело.
func (s *caseService) Get(ctx context.Context, caseNumber string) (*domain.CaseSnapshot, error) {
	if strings.TrimSpace(caseNumber) == "" {
		return nil, domain.ErrEmptyCaseNumber
	}

	key := cacheKey(caseNumber)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if snap, ok := v.(*domain.CaseSnapshot); ok {
				if s.metrics != nil {
					s.metrics.RecordCacheHit()
				}
				return snap.Clone(), nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	snap, err := s.cases.GetByNumber(ctx, caseNumber)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, snap.Clone(), s.ttl)
	}
	return snap, nil
}

func (s *caseService) List(ctx context.Context, limit int) ([]domain.CaseSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.cases.List(ctx, limit)
}

func (s *caseService) Create(ctx context.Context, c *domain.CaseSnapshot) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	id, err := s.cases.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create case %s: %w", c.CaseNumber, err)
	}

	if s.cache != nil {
		s.cache.Delete(cacheKey(c.CaseNumber))
	}

	s.logger.Info("case created",
		zap.Int64("case_id", id),
		zap.String("case_number", domain.NormalizeCaseNumber(c.CaseNumber)),
		zap.Int("facts", len(c.Facts)),
		zap.Int("issues", len(c.Issues)),
	)
	return id, nil
}
