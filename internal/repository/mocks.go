package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

type MockCaseRepository struct {
	mu     sync.RWMutex
	cases  map[string]*storedCase // key: нормализованный номер дела
	nextID int64

	GetCalls int
}

type storedCase struct {
	id        int64
	createdAt time.Time
	snapshot  *domain.CaseSnapshot
}

func NewMockCaseRepository() *MockCaseRepository {
	return &MockCaseRepository{
		cases:  make(map[string]*storedCase),
		nextID: 1,
	}
}

func (m *MockCaseRepository) Create(ctx context.Context, c *domain.CaseSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeCaseNumber(c.CaseNumber)
	if _, exists := m.cases[key]; exists {
		return 0, domain.ErrDuplicateCase
	}

	// хранится нормализованный номер, как в postgres
	snap := c.Clone()
	snap.CaseNumber = key

	id := m.nextID
	m.nextID++
	m.cases[key] = &storedCase{id: id, createdAt: time.Now(), snapshot: snap}
	return id, nil
}

func (m *MockCaseRepository) GetByNumber(ctx context.Context, caseNumber string) (*domain.CaseSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++

	sc, exists := m.cases[domain.NormalizeCaseNumber(caseNumber)]
	if !exists {
		return nil, domain.ErrCaseNotFound
	}
	return sc.snapshot.Clone(), nil
}

func (m *MockCaseRepository) List(ctx context.Context, limit int) ([]domain.CaseSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CaseSummary, 0, len(m.cases))
	for _, sc := range m.cases {
		out = append(out, domain.CaseSummary{
			ID:         sc.id,
			CaseNumber: sc.snapshot.CaseNumber,
			Title:      sc.snapshot.Title,
			Court:      sc.snapshot.Court,
			CreatedAt:  sc.createdAt,
		})
	}

	// новые сверху, как в postgres-реализации
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCaseRepository) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.GetCalls
}

func (m *MockCaseRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases = make(map[string]*storedCase)
	m.GetCalls = 0
}

var _ CaseRepository = (*MockCaseRepository)(nil)
