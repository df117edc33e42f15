package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/casedraft/internal/metrics"
	"github.com/kitbuilder587/casedraft/internal/ratelimit"
	"github.com/kitbuilder587/casedraft/internal/service"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
}

// sender - часть BotAPI, через которую уходят сообщения; в тестах подменяется.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api          *tgbotapi.BotAPI
	out          sender
	caseService  service.CaseService
	draftService service.DraftService
	logger       *zap.Logger
	metrics      *metrics.Metrics
	handler      *Handler
	rateLimiter  *ratelimit.Limiter
	wg           sync.WaitGroup
}

func New(ctx context.Context, cfg BotConfig, caseSvc service.CaseService, draftSvc service.DraftService, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	rateLimiter := ratelimit.NewWithContext(ctx, ratelimit.Config{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	bot := &Bot{
		api:          api,
		out:          api,
		caseService:  caseSvc,
		draftService: draftSvc,
		logger:       logger,
		metrics:      m,
		rateLimiter:  rateLimiter,
	}

	bot.handler = NewHandler(bot)

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()

	reqType := requestType(update.Message)

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest(reqType, "panic", time.Since(startTime))
			}
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)

	// /draft учитывается в DraftService со своим статусом
	if b.metrics != nil && reqType != "draft" {
		b.metrics.RecordRequest(reqType, "processed", time.Since(startTime))
	}
}

// knownCommands ограничивает label type: иначе каждая опечатка пользователя дает новую серию.
var knownCommands = map[string]bool{
	"start":     true,
	"help":      true,
	"templates": true,
	"cases":     true,
	"case":      true,
	"draft":     true,
}

func requestType(msg *tgbotapi.Message) string {
	if msg == nil || !msg.IsCommand() {
		return "text"
	}
	if cmd := msg.Command(); knownCommands[cmd] {
		return cmd
	}
	return "unknown"
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.out == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) SendTyping(chatID int64) {
	if b.out == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.out.Send(action)
}

func (b *Bot) RecordRateLimitHit() {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit()
	}
}
