package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"github.com/Thailung128/whitefoxbot/internal/adapters/content"
	httpadapter "github.com/Thailung128/whitefoxbot/internal/adapters/http"
	"github.com/Thailung128/whitefoxbot/internal/adapters/imaging"
	"github.com/Thailung128/whitefoxbot/internal/adapters/llm/openai"
	"github.com/Thailung128/whitefoxbot/internal/adapters/telegram"
	"github.com/Thailung128/whitefoxbot/internal/app"
	"github.com/Thailung128/whitefoxbot/internal/config"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	catalog := content.NewStore()
	assets := content.NewDirAssets(cfg.MediaDir)
	compositor := imaging.NewCompositor(cfg.CacheDir, cfg.CardBGPath, cfg.CardRadius, cfg.CardScale, logger)

	interpreter := openai.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.OpenAIModel,
		logger,
	)
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, interpretations run in offline demo mode")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	logger.Info("authorized", "account", api.Self.UserName)

	sessions := app.NewStore()
	handler := app.NewHandler(
		sessions,
		catalog,
		interpreter,
		compositor,
		assets,
		telegram.NewSender(api),
		stdRNG{},
		cfg.RevealDelay,
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))
	httpadapter.NewHandler(sessions).Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting ops server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("ops server error", "error", err)
			os.Exit(1)
		}
	}()

	poller := telegram.NewPoller(api, handler, logger)
	go func() {
		logger.Info("starting long polling")
		poller.Run(ctx)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
