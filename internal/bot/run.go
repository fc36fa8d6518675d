package bot

import (
	"context"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Setup registers the command menu.
func Setup(api *tgbotapi.BotAPI) error {
	_, err := api.Request(tgbotapi.NewSetMyCommands(Commands...))
	return err
}

// RunPolling drops pending updates and long-polls until ctx is done.
func RunPolling(ctx context.Context, api *tgbotapi.BotAPI, b *Bot) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)
	b.logger().Info("bot started with polling", "username", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// SetWebhook points Telegram at publicURL.
func SetWebhook(api *tgbotapi.BotAPI, publicURL string) error {
	wh, err := tgbotapi.NewWebhook(publicURL)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	_, err = api.Request(wh)
	return err
}

// WebhookHandler receives updates pushed by Telegram.
func WebhookHandler(api *tgbotapi.BotAPI, b *Bot) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upd, err := api.HandleUpdate(r)
		if err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		b.HandleUpdate(r.Context(), *upd)
		w.WriteHeader(http.StatusOK)
	})
}
