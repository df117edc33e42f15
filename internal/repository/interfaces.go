package repository

import (
	"context"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

// CaseRepository - хранилище дел, из которых собираются черновики.
// Факты и вопросы возвращаются в том порядке, в котором были сохранены.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.CaseSnapshot) (int64, error)
	GetByNumber(ctx context.Context, caseNumber string) (*domain.CaseSnapshot, error)
	List(ctx context.Context, limit int) ([]domain.CaseSummary, error)
}
