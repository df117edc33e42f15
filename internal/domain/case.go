package domain

import (
	"strings"
	"time"
)

type Party struct {
	Name    string
	Address string
}

type Fact struct {
	Title       string
	Description string
}

type Issue struct {
	Title               string
	Priority            string
	RelevantLawSections []string
}

// CaseSnapshot - данные дела, из которых собирается черновик. Только для чтения.
type CaseSnapshot struct {
	Title      string
	CaseNumber string
	Court      string
	Client     Party
	Opponent   Party
	Summary    string
	Facts      []Fact
	Issues     []Issue
}

// Validate используется только хранилищем дел; генератор черновиков ничего не проверяет.
func (c *CaseSnapshot) Validate() error {
	if strings.TrimSpace(c.CaseNumber) == "" {
		return ErrEmptyCaseNumber
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidCase
	}
	return nil
}

// Clone - глубокая копия, чтобы кеш и моки не делили слайсы с вызывающим кодом.
func (c *CaseSnapshot) Clone() *CaseSnapshot {
	out := *c
	if c.Facts != nil {
		out.Facts = append([]Fact(nil), c.Facts...)
	}
	if c.Issues != nil {
		out.Issues = make([]Issue, len(c.Issues))
		for i, is := range c.Issues {
			out.Issues[i] = is
			if is.RelevantLawSections != nil {
				out.Issues[i].RelevantLawSections = append([]string(nil), is.RelevantLawSections...)
			}
		}
	}
	return &out
}

type CaseSummary struct {
	ID         int64
	CaseNumber string
	Title      string
	Court      string
	CreatedAt  time.Time
}

func NormalizeCaseNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
