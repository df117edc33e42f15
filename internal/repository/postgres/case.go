package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/casedraft/internal/domain"
	"github.com/kitbuilder587/casedraft/internal/repository"
)

type CaseRepo struct {
	db *DB
}

func NewCaseRepo(db *DB) *CaseRepo {
	return &CaseRepo{db: db}
}

// Create пишет дело, факты и вопросы в одной транзакции.
func (r *CaseRepo) Create(ctx context.Context, c *domain.CaseSnapshot) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO cases (case_number, title, court, client_name, client_address,
                           opponent_name, opponent_address, summary)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `

	var id int64
	err = tx.QueryRow(ctx, query,
		domain.NormalizeCaseNumber(c.CaseNumber),
		c.Title,
		c.Court,
		c.Client.Name,
		c.Client.Address,
		c.Opponent.Name,
		c.Opponent.Address,
		c.Summary,
	).Scan(&id)
	if err != nil {
		if isDuplicateError(err) {
			return 0, domain.ErrDuplicateCase
		}
		return 0, fmt.Errorf("create case: %w", err)
	}

	batch := &pgx.Batch{}
	for i, f := range c.Facts {
		batch.Queue(`INSERT INTO case_facts (case_id, position, title, description) VALUES ($1, $2, $3, $4)`,
			id, i+1, f.Title, f.Description)
	}
	for i, is := range c.Issues {
		sections := is.RelevantLawSections
		if sections == nil {
			sections = []string{}
		}
		batch.Queue(`INSERT INTO case_issues (case_id, position, title, priority, law_sections) VALUES ($1, $2, $3, $4, $5)`,
			id, i+1, is.Title, is.Priority, sections)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("insert facts and issues: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit case: %w", err)
	}

	return id, nil
}

func (r *CaseRepo) GetByNumber(ctx context.Context, caseNumber string) (*domain.CaseSnapshot, error) {
	query := `
        SELECT id, case_number, title, court, client_name, client_address,
               opponent_name, opponent_address, summary
        FROM cases
        WHERE case_number = $1
    `

	var id int64
	var c domain.CaseSnapshot
	err := r.db.Pool.QueryRow(ctx, query, domain.NormalizeCaseNumber(caseNumber)).Scan(
		&id,
		&c.CaseNumber,
		&c.Title,
		&c.Court,
		&c.Client.Name,
		&c.Client.Address,
		&c.Opponent.Name,
		&c.Opponent.Address,
		&c.Summary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("get case: %w", err)
	}

	if c.Facts, err = r.facts(ctx, id); err != nil {
		return nil, err
	}
	if c.Issues, err = r.issues(ctx, id); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CaseRepo) facts(ctx context.Context, caseID int64) ([]domain.Fact, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT title, description FROM case_facts WHERE case_id = $1 ORDER BY position`, caseID)
	if err != nil {
		return nil, fmt.Errorf("get facts: %w", err)
	}
	defer rows.Close()

	var facts []domain.Fact
	for rows.Next() {
		var f domain.Fact
		if err := rows.Scan(&f.Title, &f.Description); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		facts = append(facts, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return facts, nil
}

func (r *CaseRepo) issues(ctx context.Context, caseID int64) ([]domain.Issue, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT title, priority, law_sections FROM case_issues WHERE case_id = $1 ORDER BY position`, caseID)
	if err != nil {
		return nil, fmt.Errorf("get issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var is domain.Issue
		if err := rows.Scan(&is.Title, &is.Priority, &is.RelevantLawSections); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, is)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return issues, nil
}

func (r *CaseRepo) List(ctx context.Context, limit int) ([]domain.CaseSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT id, case_number, title, court, created_at
        FROM cases
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.CaseSummary
	for rows.Next() {
		var s domain.CaseSummary
		if err := rows.Scan(&s.ID, &s.CaseNumber, &s.Title, &s.Court, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cases, nil
}

var _ repository.CaseRepository = (*CaseRepo)(nil)
