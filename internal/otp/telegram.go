package otp

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ChatBinder records which Telegram chat a phone number belongs to.
type ChatBinder interface {
	BindChat(ctx context.Context, phone string, chatID int64) error
}

// TelegramSender delivers codes through a Telegram bot and runs the update
// loop that binds phone numbers to chats.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
	log *zap.SugaredLogger
}

func NewTelegramSender(token string, log *zap.SugaredLogger) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramSender{bot: bot, log: log}, nil
}

func (t *TelegramSender) SendCode(ctx context.Context, chatID int64, code string) error {
	text := fmt.Sprintf("Your DataWallet verification code is %s.\n\nThis code expires in 10 minutes. If you did not request it, ignore this message.", code)
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(tgbotapi.NewMessage(chatID, text))
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run long-polls bot updates until ctx is cancelled. /start prompts for a
// phone number; a shared contact or a +234... message binds that phone to the
// chat for future code delivery.
func (t *TelegramSender) Run(ctx context.Context, binder ChatBinder) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		t.bot.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		t.handleMessage(ctx, binder, update.Message)
	}
}

func (t *TelegramSender) handleMessage(ctx context.Context, binder ChatBinder, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.IsCommand() && msg.Command() == "start" {
		t.reply(chatID, "Welcome to DataWallet! Share your contact or send your phone number (+234...) to link it for verification codes.")
		return
	}
	phone := ""
	if msg.Contact != nil {
		phone = normalizePhone(msg.Contact.PhoneNumber)
	} else {
		phone = normalizePhone(strings.TrimSpace(msg.Text))
	}
	if phone == "" {
		t.reply(chatID, "Send your phone number in the form +234XXXXXXXXXX to link this chat.")
		return
	}
	if err := binder.BindChat(ctx, phone, chatID); err != nil {
		t.log.Errorw("failed to bind chat", "phone", phone, "error", err)
		t.reply(chatID, "Something went wrong, please try again.")
		return
	}
	t.reply(chatID, fmt.Sprintf("Linked %s to this chat. You can now request a verification code on the website.", phone))
}

func (t *TelegramSender) reply(chatID int64, text string) {
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		t.log.Warnw("telegram send failed", "chat_id", chatID, "error", err)
	}
}

// normalizePhone maps the common Nigerian formats (0803..., 234803...,
// +234803...) to +234 plus ten digits. Returns "" when the input does not
// look like a phone number.
func normalizePhone(raw string) string {
	digits := strings.TrimPrefix(raw, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	switch {
	case strings.HasPrefix(digits, "234") && len(digits) == 13:
		return "+" + digits
	case strings.HasPrefix(digits, "0") && len(digits) == 11:
		return "+234" + digits[1:]
	default:
		return ""
	}
}

// DisabledSender stands in when no bot token is configured; every delivery
// attempt fails before any code reaches a user.
type DisabledSender struct{}

func (DisabledSender) SendCode(context.Context, int64, string) error {
	return ErrDeliveryFailed
}
