package root

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mak/internal/bot"
	"mak/internal/config"
	"mak/internal/daily"
	"mak/internal/draw"
	apphttp "mak/internal/http"
	"mak/internal/owner"
	"mak/internal/storage"
)

func newServeCmd() *cobra.Command {
	var addr string
	var noBot bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the bot and the reminder worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if err := a.cfg.RequireJWT(); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			holder := a.catalogHolder()
			if err := holder.Reload(ctx); err != nil {
				a.logger.Error("catalog load failed, deck endpoints unavailable until reload", "err", err)
			}

			boards := draw.NewDrafts[*draw.Board]()
			flows := draw.NewDrafts[*daily.Flow]()
			go sweepDrafts(ctx, a, boards, flows)

			deps := apphttp.Deps{
				Config:  a.cfg,
				Store:   a.store,
				Locks:   &storage.Locks{},
				JWT:     owner.NewJWT(a.cfg.JWTSecret),
				Catalog: holder,
				Boards:  boards,
				Flows:   flows,
				RNG:     draw.StdRNG{},
				Logger:  a.logger,
			}

			if a.cfg.BotEnabled() && !noBot {
				api, b, err := a.newBot()
				if err != nil {
					return err
				}
				switch a.cfg.BotMode {
				case config.BotWebhook:
					deps.BotWebhook = bot.WebhookHandler(api, b)
				default:
					go func() {
						if err := bot.RunPolling(ctx, api, b); err != nil {
							a.logger.Error("bot polling stopped", "err", err)
						}
					}()
				}
				if a.gdb != nil {
					go a.newWorker(b).Run(ctx)
				}
			} else if a.gdb != nil {
				a.logger.Info("bot disabled, reminder jobs stay queued")
			}

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           apphttp.NewRouter(deps),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server listening", "addr", a.cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().BoolVar(&noBot, "no-bot", false, "do not start the Telegram bot")
	return cmd
}

func sweepDrafts(ctx context.Context, a *app, boards *draw.Drafts[*draw.Board], flows *draw.Drafts[*daily.Flow]) {
	ttl := a.cfg.DraftTTL
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nb := boards.Sweep(ttl)
			nf := flows.Sweep(ttl)
			if nb+nf > 0 {
				a.logger.Debug("drafts expired", "boards", nb, "flows", nf)
			}
		}
	}
}
