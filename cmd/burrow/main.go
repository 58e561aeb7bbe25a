package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pribylovaa/go-burrow/internal/app"
	"github.com/pribylovaa/go-burrow/internal/cli"
	"github.com/pribylovaa/go-burrow/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var a *app.App

	root := cli.NewRootCommand(func(ctx context.Context, configPath string) (*cli.Env, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		log := setupLogger(cfg.Env, os.Stderr)
		slog.SetDefault(log)

		a, err = app.New(ctx, cfg, log)
		if err != nil {
			return nil, err
		}

		return &cli.Env{
			Comments:    a.API,
			Posts:       a.API,
			Session:     a.Session,
			Graph:       a.Graph,
			FeedOptions: a.FeedOptions(),
		}, nil
	})

	err := root.ExecuteContext(ctx)

	if a != nil {
		if cerr := a.Close(context.Background()); cerr != nil {
			slog.Warn("app_close_failed", slog.String("err", cerr.Error()))
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger — логи CLI идут в stderr, чтобы не смешиваться с выводом команд.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
