package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

func TestMapErrorToMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", domain.ErrCaseNotFound, "Case not found. Use /cases to see available cases."},
		{"empty number", domain.ErrEmptyCaseNumber, "Specify a case number, e.g. /case CS-112/2024"},
		{"template", domain.ErrUnknownTemplate, "Specify a template. Use /templates to see the list."},
		{"duplicate", domain.ErrDuplicateCase, "A case with this number already exists."},
		{"invalid", domain.ErrInvalidCase, "The case record is incomplete."},
		{"wrapped", fmt.Errorf("get case: %w", domain.ErrCaseNotFound), "Case not found. Use /cases to see available cases."},
		{"unknown", errors.New("connection reset"), "Something went wrong. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToMessage(tt.err)
			if got != tt.want {
				t.Errorf("mapErrorToMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandler_Commands(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		contains []string
	}{
		{"start", "/start", []string{"Welcome!"}},
		{"help", "/help", []string{"/draft NUMBER TEMPLATE", "/templates"}},
		{"templates", "/templates", []string{"<code>plaint</code> Plaint", "<code>order_sheet</code> Order Sheet"}},
		{"cases", "/cases", []string{"<code>CS-112/2024</code> Sharma v. Verma", "Total: 1"}},
		{"case", "/case cs-112/2024", []string{"<b>Sharma v. Verma</b>", "Client: R. Sharma", "Facts: 1, legal issues: 0"}},
		{"case missing", "/case XX-1", []string{"Case not found."}},
		{"case without number", "/case", []string{"Specify a case number"}},
		{"unknown command", "/foo", []string{"Unknown command."}},
		{"plain text", "draft me a plaint", []string{"Use /help"}},
		{"draft usage", "/draft CS-112/2024", []string{"Usage: /draft CASE_NUMBER TEMPLATE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 100)

			env.bot.handler.HandleMessage(context.Background(), createTestMessage(123, tt.text))

			got := env.out.all()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("reply = %q, want it to contain %q", got, want)
				}
			}
			if env.llm.Calls() != 0 {
				t.Errorf("provider calls = %d, want 0", env.llm.Calls())
			}
		})
	}
}

func TestHandler_CasesEmpty(t *testing.T) {
	env := newTestEnv(t, 100)
	env.repo.Reset()

	env.bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/cases"))

	if env.out.last() != "No cases yet." {
		t.Errorf("reply = %q", env.out.last())
	}
}

func TestHandler_Draft(t *testing.T) {
	env := newTestEnv(t, 100)
	env.llm.WithResponse("IN THE COURT OF THE CIVIL JUDGE\n\nR. Sharma ... Plaintiff\nv.\nS. Verma ... Defendant")

	env.bot.handler.HandleMessage(context.Background(), createTestMessage(123, "/draft cs-112/2024 PLAINT"))

	if env.llm.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", env.llm.Calls())
	}
	if !strings.Contains(env.llm.LastRequest.Prompt, "Draft a Plaint (template: plaint)") {
		t.Errorf("prompt = %q", env.llm.LastRequest.Prompt)
	}
	if env.out.actions != 1 {
		t.Errorf("typing actions = %d, want 1", env.out.actions)
	}

	got := env.out.all()
	if !strings.Contains(got, "<b>Plaint</b> for <code>cs-112/2024</code>") {
		t.Errorf("reply header missing: %q", got)
	}
	if !strings.Contains(got, "R. Sharma ... Plaintiff") {
		t.Errorf("reply missing draft: %q", got)
	}
}

func TestHandler_DraftFailureShowsReason(t *testing.T) {
	env := newTestEnv(t, 100)
	env.llm.WithError(errors.New("rate limited"))

	env.bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/draft CS-112/2024 plaint"))

	if !strings.HasSuffix(env.out.last(), "Could not generate the draft: rate limited") {
		t.Errorf("reply = %q", env.out.last())
	}
}

func TestHandler_DraftUnknownCase(t *testing.T) {
	env := newTestEnv(t, 100)

	env.bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/draft XX-9/2020 plaint"))

	if env.out.last() != mapErrorToMessage(domain.ErrCaseNotFound) {
		t.Errorf("reply = %q", env.out.last())
	}
	if env.llm.Calls() != 0 {
		t.Errorf("provider calls = %d, want 0", env.llm.Calls())
	}
}

func TestHandler_LongDraftIsSplit(t *testing.T) {
	env := newTestEnv(t, 100)
	env.llm.WithResponse(strings.Repeat("The plaintiff states as follows. ", 400))

	env.bot.handler.HandleMessage(context.Background(), createTestMessage(1, "/draft CS-112/2024 affidavit"))

	if len(env.out.texts) < 2 {
		t.Fatalf("messages = %d, want split into several", len(env.out.texts))
	}
	for i, m := range env.out.texts {
		if len(m) > maxMessageLen {
			t.Errorf("message %d length = %d, exceeds %d", i, len(m), maxMessageLen)
		}
	}
}
