package root

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"mak/internal/bot"
	"mak/internal/catalog"
	"mak/internal/config"
	"mak/internal/db"
	"mak/internal/jobs"
	"mak/internal/reminder"
	"mak/internal/storage"
)

var errNoDatabase = errors.New("DATABASE_URL is required for this command")

// app holds what every command builds from the environment.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	gdb    *gorm.DB
	store  storage.Store
}

// loadConfig reads the environment and installs the JSON logger on stderr.
func loadConfig() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return &app{cfg: cfg, logger: logger}, nil
}

// loadApp is loadConfig plus storage: Postgres when DATABASE_URL is set,
// memory otherwise.
func loadApp() (*app, error) {
	a, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg, logger := a.cfg, a.logger
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage; data is lost on exit")
		a.store = storage.NewMemoryStore()
		return a, nil
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return nil, err
	}
	a.gdb = gdb
	a.store = &storage.GormStore{DB: gdb}
	return a, nil
}

func (a *app) catalogHolder() *catalog.Holder {
	return catalog.NewHolder(&catalog.Loader{
		Client:       &http.Client{Timeout: a.cfg.CatalogTimeout},
		BaseURL:      a.cfg.CatalogBaseURL,
		AllowPartial: a.cfg.CatalogAllowPartial,
		Logger:       a.logger,
	})
}

func (a *app) reminderService() *reminder.Service {
	if a.gdb == nil {
		return nil
	}
	return &reminder.Service{DB: a.gdb, Location: a.cfg.ReminderTZ}
}

// newBot connects to Telegram. Reminders stay off without a database.
func (a *app) newBot() (*tgbotapi.BotAPI, *bot.Bot, error) {
	api, err := tgbotapi.NewBotAPI(a.cfg.BotToken)
	if err != nil {
		return nil, nil, err
	}
	b := &bot.Bot{
		Sender:   api,
		DeepLink: a.cfg.MiniAppLink,
		Location: a.cfg.ReminderTZ,
		Logger:   a.logger.With("component", "bot"),
	}
	if svc := a.reminderService(); svc != nil {
		b.Reminders = svc
	}
	if err := bot.Setup(api); err != nil {
		a.logger.Warn("bot commands not registered", "err", err)
	}
	return api, b, nil
}

// newWorker dispatches reminder jobs through b.
func (a *app) newWorker(b *bot.Bot) *jobs.Worker {
	return &jobs.Worker{
		ID:    "worker-1",
		Queue: &jobs.Repo{DB: a.gdb},
		Handlers: map[string]jobs.Handler{
			jobs.TypeDailyReminder: &reminder.Dispatcher{
				Subs:     a.reminderService(),
				Notifier: b,
				Logger:   a.logger.With("component", "reminders"),
			},
		},
		Logger: a.logger.With("component", "worker"),
	}
}
