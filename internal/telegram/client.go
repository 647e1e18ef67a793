// Package telegram delivers operator diagnostics through the Telegram Bot API.
// A dashboard load that fails, or a chart that cannot be drawn, is never shown to
// the end user; when this sink is enabled the operator receives it as a chat message.
//
// Messages use MarkdownV2 formatting and are delivered with linear-backoff retry.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rewired-gh/fraudscope/internal/logger"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	now            func() time.Time
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		now:            time.Now,
	}, nil
}

// Report sends a diagnostic in the background so the reporting controller never waits on Telegram
func (c *Client) Report(source string, err error) {
	message := formatDiagnostic(source, err, c.now())
	go func() {
		if sendErr := c.send(message); sendErr != nil {
			logger.Warn("Failed to deliver diagnostic to Telegram: %v", sendErr)
		}
	}()
}

// send delivers a message with retry
func (c *Client) send(message string) error {
	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatDiagnostic formats a failure report as a MarkdownV2 message
func formatDiagnostic(source string, err error, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("⚠️ *fraudscope diagnostic*\n\n")
	sb.WriteString(fmt.Sprintf("📅 %s\n", escapeMarkdownV2(at.Format("2006-01-02 15:04:05"))))
	sb.WriteString(fmt.Sprintf("🧩 Source: *%s*\n", escapeMarkdownV2(source)))

	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	sb.WriteString(fmt.Sprintf("```\n%s\n```", escapeCodeBlock(detail)))
	return sb.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . ! \
	var sb strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}

// escapeCodeBlock escapes the two characters MarkdownV2 reserves inside pre blocks
func escapeCodeBlock(text string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(text)
}
