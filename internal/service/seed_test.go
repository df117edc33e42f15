package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/repository"
)

func TestImportSeed_Embedded(t *testing.T) {
	svc := NewCaseService(CaseServiceDeps{Cases: repository.NewMockCaseRepository()})
	ctx := context.Background()

	count, err := ImportSeed(ctx, svc, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ImportSeed() error = %v", err)
	}
	if count != 3 {
		t.Errorf("imported = %d, want 3", count)
	}

	// повторный импорт ничего не дублирует
	count, err = ImportSeed(ctx, svc, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("ImportSeed() second run error = %v", err)
	}
	if count != 0 {
		t.Errorf("second import = %d, want 0", count)
	}

	snap, err := svc.Get(ctx, "cs-112/2024")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(snap.Facts) != 4 || len(snap.Issues) != 3 {
		t.Errorf("facts = %d, issues = %d", len(snap.Facts), len(snap.Issues))
	}
	if snap.Issues[1].RelevantLawSections[1] != "Section 34, Code of Civil Procedure, 1908" {
		t.Errorf("law sections = %v", snap.Issues[1].RelevantLawSections)
	}
}

func TestImportSeed_Custom(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"one case", `[{"case_number": "OS-1/2020", "title": "A v. B"}]`, 1, false},
		{"invalid case skipped", `[{"case_number": "", "title": "no number"}, {"case_number": "OS-2", "title": "C v. D"}]`, 1, false},
		{"empty list", `[]`, 0, false},
		{"broken json", `{"case_number":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCaseService(CaseServiceDeps{Cases: repository.NewMockCaseRepository()})

			got, err := ImportSeed(context.Background(), svc, []byte(tt.data), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ImportSeed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ImportSeed() = %d, want %d", got, tt.want)
			}
		})
	}
}
