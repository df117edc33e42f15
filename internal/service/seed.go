package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

//go:embed seed_cases.json
var seedCasesJSON []byte

type SeedParty struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type SeedIssue struct {
	Title               string   `json:"title"`
	Priority            string   `json:"priority"`
	RelevantLawSections []string `json:"relevant_law_sections"`
}

type SeedFact struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SeedCase struct {
	CaseNumber string      `json:"case_number"`
	Title      string      `json:"title"`
	Court      string      `json:"court"`
	Client     SeedParty   `json:"client"`
	Opponent   SeedParty   `json:"opponent"`
	Summary    string      `json:"summary"`
	Facts      []SeedFact  `json:"facts"`
	Issues     []SeedIssue `json:"issues"`
}

func (sc SeedCase) snapshot() *domain.CaseSnapshot {
	snap := &domain.CaseSnapshot{
		Title:      sc.Title,
		CaseNumber: sc.CaseNumber,
		Court:      sc.Court,
		Client:     domain.Party{Name: sc.Client.Name, Address: sc.Client.Address},
		Opponent:   domain.Party{Name: sc.Opponent.Name, Address: sc.Opponent.Address},
		Summary:    sc.Summary,
	}
	for _, f := range sc.Facts {
		snap.Facts = append(snap.Facts, domain.Fact{Title: f.Title, Description: f.Description})
	}
	for _, is := range sc.Issues {
		snap.Issues = append(snap.Issues, domain.Issue{
			Title:               is.Title,
			Priority:            is.Priority,
			RelevantLawSections: is.RelevantLawSections,
		})
	}
	return snap
}

// ImportSeed загружает дела из JSON; nil - встроенный демо-набор.
// Уже существующие дела пропускаются, так что импорт можно запускать при каждом старте.
func ImportSeed(ctx context.Context, cases CaseService, data []byte, logger *zap.Logger) (int, error) {
	if data == nil {
		data = seedCasesJSON
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var seeds []SeedCase
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("parse seed cases: %w", err)
	}

	imported := 0
	for _, seed := range seeds {
		if _, err := cases.Create(ctx, seed.snapshot()); err != nil {
			if errors.Is(err, domain.ErrDuplicateCase) {
				continue
			}
			logger.Warn("failed to import seed case",
				zap.Error(err),
				zap.String("case_number", seed.CaseNumber),
			)
			continue
		}
		imported++
	}

	logger.Info("seed cases imported",
		zap.Int("count", imported),
		zap.Int("total", len(seeds)),
	)

	return imported, nil
}
