package telegram

import (
	"context"
	"errors"
	"fmt"
	"math"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

const caseListLimit = 20

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if !msg.IsCommand() {
		h.bot.Send(msg.Chat.ID, "Send a command. Use /help to see what I can do.")
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "templates":
		h.handleTemplates(ctx, msg)
	case "cases":
		h.handleCases(ctx, msg)
	case "case":
		h.handleCase(ctx, msg)
	case "draft":
		h.handleDraft(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Unknown command. Use /help to see the list.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID, "Welcome! I prepare first drafts of court documents from your case files.\n\nUse /help to see the commands.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Commands:</b>

/cases - List recent cases
/case NUMBER - Show a case
/templates - List document templates
/draft NUMBER TEMPLATE - Generate a draft

<b>Example:</b>
/draft CS-112/2024 plaint

Drafts are starting points. Verify facts, citations and court format before filing.`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleTemplates(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID, FormatTemplates(domain.Templates()))
}

func (h *Handler) handleCases(ctx context.Context, msg *tgbotapi.Message) {
	cases, err := h.bot.caseService.List(ctx, caseListLimit)
	if err != nil {
		h.bot.logger.Error("failed to list cases", zap.Error(err))
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	if len(cases) == 0 {
		h.bot.Send(msg.Chat.ID, "No cases yet.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatCaseList(cases))
}

func (h *Handler) handleCase(ctx context.Context, msg *tgbotapi.Message) {
	number := normalizeSpaces(msg.CommandArguments())

	snap, err := h.bot.caseService.Get(ctx, number)
	if err != nil {
		if !errors.Is(err, domain.ErrCaseNotFound) && !errors.Is(err, domain.ErrEmptyCaseNumber) {
			h.bot.logger.Error("failed to load case", zap.String("case_number", number), zap.Error(err))
		}
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	for _, part := range SplitMessage(FormatCase(snap), maxMessageLen) {
		h.bot.Send(msg.Chat.ID, part)
	}
}

func (h *Handler) handleDraft(ctx context.Context, msg *tgbotapi.Message) {
	caseNumber, templateID, ok := ParseDraftCommand(msg.Text)
	if !ok {
		h.bot.Send(msg.Chat.ID, "Usage: /draft CASE_NUMBER TEMPLATE\nExample: /draft CS-112/2024 plaint\nSee /templates for the list.")
		return
	}

	if !h.bot.rateLimiter.Allow(msg.From.ID) {
		wait := h.bot.rateLimiter.RetryAfter(msg.From.ID)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Duration("retry_after", wait),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(msg.Chat.ID, fmt.Sprintf("Too many drafts requested. Try again in %d s.", int(math.Ceil(wait.Seconds()))))
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	result, err := h.bot.draftService.Generate(ctx, caseNumber, templateID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	for _, part := range SplitMessage(FormatDraftResult(caseNumber, templateID, result), maxMessageLen) {
		if err := h.bot.Send(msg.Chat.ID, part); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCaseNotFound):
		return "Case not found. Use /cases to see available cases."
	case errors.Is(err, domain.ErrEmptyCaseNumber):
		return "Specify a case number, e.g. /case CS-112/2024"
	case errors.Is(err, domain.ErrUnknownTemplate):
		return "Specify a template. Use /templates to see the list."
	case errors.Is(err, domain.ErrDuplicateCase):
		return "A case with this number already exists."
	case errors.Is(err, domain.ErrInvalidCase):
		return "The case record is incomplete."
	default:
		return "Something went wrong. Please try again later."
	}
}
