package root

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mak/internal/bot"
)

var errBotDisabled = errors.New("BOT_TOKEN is not set or BOT_MODE is off")

func newBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot by long polling, without the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if !a.cfg.BotEnabled() {
				return errBotDisabled
			}
			api, b, err := a.newBot()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return bot.RunPolling(ctx, api, b) })
			if a.gdb != nil {
				g.Go(func() error {
					a.newWorker(b).Run(ctx)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.AddCommand(newWebhookCmd())
	return cmd
}

func newWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the bot webhook",
	}

	set := &cobra.Command{
		Use:     "set <public-url>",
		Short:   "Register the webhook URL with Telegram",
		Example: `  mak bot webhook set https://api.example.org/telegram/webhook`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.cfg.BotToken == "" {
				return errBotDisabled
			}
			api, _, err := a.newBot()
			if err != nil {
				return err
			}
			if err := bot.SetWebhook(api, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "webhook set: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(set)
	return cmd
}
