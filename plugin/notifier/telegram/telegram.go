// Package telegram implements the Telegram alert notifier.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/neuroalign/neuroalign/engine/alert"
)

const parseMode = "Markdown"

// Config holds configuration for the Telegram notifier.
type Config struct {
	BotToken string
	ChatID   string
}

// Notifier sends fatigue alerts through the Telegram Bot API.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// New creates a Telegram notifier.
func New(cfg Config, logger *slog.Logger) (*Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID %q: %w", cfg.ChatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// Name returns the channel name.
func (n *Notifier) Name() string { return "telegram" }

// Notify sends one alert as a Markdown message.
func (n *Notifier) Notify(ctx context.Context, a alert.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlert(a))
	msg.ParseMode = parseMode

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	n.logger.Debug("alert delivered", "channel", "telegram", "rule", a.Rule)
	return nil
}

func formatAlert(a alert.Alert) string {
	icon := "ℹ️"
	switch a.Severity {
	case alert.SeverityWarning:
		icon = "⚠️"
	case alert.SeverityCritical:
		icon = "🚨"
	}
	return fmt.Sprintf("%s *%s fatigue alert*\n%s\n\nScore: %.2f\nTime: %s",
		icon, a.Severity, a.Message, a.Score, a.Timestamp.Format("15:04"))
}
