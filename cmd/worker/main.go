package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/vendorkut/vendorkut/internal/app"
	jobmetrics "github.com/vendorkut/vendorkut/internal/jobs"
	"github.com/vendorkut/vendorkut/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var mailer jobs.Mailer
	if addr := cfg.SMTPAddr(); addr != "" {
		mailer = &jobs.SMTPMailer{Addr: addr, From: cfg.SMTPFrom}
	} else {
		logger.Warn("no SMTP relay configured, logging mail instead")
		mailer = &jobs.LogMailer{Logger: logger}
	}

	noticeJob := jobs.NewDecisionNoticeJob(mailer, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Notice:    noticeJob,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
