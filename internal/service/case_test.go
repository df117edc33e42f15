package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/cache/memory"
	"github.com/kitbuilder587/casedraft/internal/domain"
	"github.com/kitbuilder587/casedraft/internal/metrics"
	"github.com/kitbuilder587/casedraft/internal/repository"
)

func seededRepo(t *testing.T) *repository.MockCaseRepository {
	t.Helper()
	repo := repository.NewMockCaseRepository()
	_, err := repo.Create(context.Background(), &domain.CaseSnapshot{
		CaseNumber: "CS-112/2024",
		Title:      "Sharma v. Verma",
		Court:      "Civil Judge, Pune",
		Facts:      []domain.Fact{{Title: "Agreement", Description: "Signed"}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

func TestCaseService_Get(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		wantErr error
	}{
		{"exact", "CS-112/2024", nil},
		{"case-insensitive", " cs-112/2024 ", nil},
		{"missing", "CS-999/2024", domain.ErrCaseNotFound},
		{"empty", "  ", domain.ErrEmptyCaseNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCaseService(CaseServiceDeps{Cases: seededRepo(t), Logger: zap.NewNop()})

			got, err := svc.Get(context.Background(), tt.number)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Title != "Sharma v. Verma" {
				t.Errorf("Get() = %+v", got)
			}
		})
	}
}

func TestCaseService_GetUsesCache(t *testing.T) {
	repo := seededRepo(t)
	c := memory.New()
	defer c.Stop()
	m := metrics.New(prometheus.NewRegistry())

	svc := NewCaseService(CaseServiceDeps{Cases: repo, Cache: c, TTL: time.Minute, Metrics: m})
	ctx := context.Background()

	first, err := svc.Get(ctx, "CS-112/2024")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	first.Facts[0].Title = "mutated by caller"

	second, err := svc.Get(ctx, "cs-112/2024")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if repo.Calls() != 1 {
		t.Errorf("repository calls = %d, want 1", repo.Calls())
	}
	if second.Facts[0].Title != "Agreement" {
		t.Error("cached case was mutated through a returned copy")
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMissesTotal); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
}

func TestCaseService_Create(t *testing.T) {
	repo := repository.NewMockCaseRepository()
	c := memory.New()
	defer c.Stop()
	svc := NewCaseService(CaseServiceDeps{Cases: repo, Cache: c})
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.CaseSnapshot{Title: "no number"}); !errors.Is(err, domain.ErrEmptyCaseNumber) {
		t.Errorf("Create() error = %v, want ErrEmptyCaseNumber", err)
	}

	snap := &domain.CaseSnapshot{CaseNumber: "OS-5/2023", Title: "Rao v. State"}
	if _, err := svc.Create(ctx, snap); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, snap); !errors.Is(err, domain.ErrDuplicateCase) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateCase", err)
	}

	list, err := svc.List(ctx, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}
}
