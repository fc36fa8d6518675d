package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mak/internal/jobs"
	"mak/internal/reminder"
)

const (
	defaultStartParam = "daily"
	defaultName       = "friend"

	helpText     = "Tap /start and open the mini app with the button."
	fallbackText = "Type /start to open the app."
	remindUsage  = "Usage: /remind HH:MM [mon,tue,...] or /remind off"
	noReminders  = "Reminders are not available right now."
)

// Sender is the part of *tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Reminders interface {
	Set(ctx context.Context, chatID int64, firstName, at string, weekdays []string) (time.Time, error)
	Clear(ctx context.Context, chatID int64) error
}

type Bot struct {
	Sender    Sender
	DeepLink  string
	Reminders Reminders
	Location  *time.Location
	Logger    *slog.Logger
}

// Commands is the menu registered with Telegram.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Open the mini app"},
	{Command: "help", Description: "How to use the bot"},
	{Command: "remind", Description: "Daily card reminder: /remind 09:00 or /remind off"},
}

// AppLink is the mini app deep link carrying param as start parameter.
func (b *Bot) AppLink(param string) string {
	if param == "" {
		param = defaultStartParam
	}
	u, err := url.Parse(b.DeepLink)
	if err != nil {
		return b.DeepLink
	}
	q := u.Query()
	q.Set("startapp", param)
	u.RawQuery = q.Encode()
	return u.String()
}

func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	log := b.logger().With("chat_id", msg.Chat.ID)

	var err error
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		err = b.start(msg)
	case msg.IsCommand() && msg.Command() == "help":
		err = b.reply(msg.Chat.ID, helpText)
	case msg.IsCommand() && msg.Command() == "remind":
		err = b.remind(ctx, msg)
	case msg.Text != "":
		err = b.reply(msg.Chat.ID, fallbackText)
	}
	if err != nil {
		log.Warn("bot reply failed", "err", err)
	}
}

func firstName(msg *tgbotapi.Message) string {
	if msg.From != nil && msg.From.FirstName != "" {
		return msg.From.FirstName
	}
	return defaultName
}

func (b *Bot) start(msg *tgbotapi.Message) error {
	text := fmt.Sprintf("Hi, %s!\n\n"+
		"This is a self-help mini app with metaphorical associative cards (MAC).\n"+
		"Phrase your question, draw a card and write down what you notice.\n\n"+
		"Tap «Open» to begin.", firstName(msg))

	return b.replyWithButton(msg.Chat.ID, text, "Open", b.AppLink(strings.TrimSpace(msg.CommandArguments())))
}

func (b *Bot) remind(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if b.Reminders == nil {
		return b.reply(chatID, noReminders)
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		return b.reply(chatID, remindUsage)
	}

	if strings.EqualFold(args[0], "off") {
		err := b.Reminders.Clear(ctx, chatID)
		switch {
		case errors.Is(err, reminder.ErrNotFound):
			return b.reply(chatID, "You have no reminder.")
		case err != nil:
			b.logger().Error("reminder clear failed", "chat_id", chatID, "err", err)
			return b.reply(chatID, noReminders)
		}
		return b.reply(chatID, "Reminder turned off.")
	}

	at := args[0]
	var days []string
	var err error
	if len(args) > 1 {
		days, err = reminder.ParseWeekdays(strings.Join(args[1:], ","))
		if err != nil {
			return b.reply(chatID, remindUsage)
		}
	}
	if _, _, err := reminder.ParseClock(at); err != nil {
		return b.reply(chatID, remindUsage)
	}

	next, err := b.Reminders.Set(ctx, chatID, firstName(msg), at, days)
	if err != nil {
		b.logger().Error("reminder set failed", "chat_id", chatID, "err", err)
		return b.reply(chatID, noReminders)
	}
	return b.reply(chatID, fmt.Sprintf("Done: %s. Next one %s.",
		reminder.Describe(at, days), next.In(b.location()).Format("Mon 02 Jan 15:04 MST")))
}

// NotifyDailyReminder sends the card-of-the-day reminder. A chat that
// blocked the bot fails permanently.
func (b *Bot) NotifyDailyReminder(_ context.Context, chatID int64, name string) error {
	if name == "" {
		name = defaultName
	}
	text := fmt.Sprintf("%s, your card of the day is waiting 🃏", name)
	err := b.replyWithButton(chatID, text, "Draw", b.AppLink(defaultStartParam))

	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.Code == 403 {
		return fmt.Errorf("%w: %v", jobs.ErrPermanent, err)
	}
	return err
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.Sender.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) replyWithButton(chatID int64, text, label, link string) error {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(label, link)),
	)
	_, err := b.Sender.Send(m)
	return err
}

func (b *Bot) location() *time.Location {
	if b.Location != nil {
		return b.Location
	}
	return time.UTC
}

func (b *Bot) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
