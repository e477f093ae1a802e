package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"project-echo/internal/bot"
	"project-echo/internal/service"
	"project-echo/internal/web"
)

var (
	serveAddr     string
	catchUpPeriod time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI, the daily recurrence check and the optional Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().DurationVar(&catchUpPeriod, "check-every", 15*time.Minute, "how often to retry a missed daily check")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if serveAddr != "" {
		a.cfg.HTTPAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	check, err := service.NewDailyCheck(a.svc.recurring, a.svc.reminder, a.cfg.RecurrenceCheckAt, a.loc, a.log)
	if err != nil {
		return err
	}

	var telegramBot *bot.Bot
	if a.cfg.TelegramToken != "" {
		telegramBot, err = bot.New(a.cfg.TelegramToken, a.cfg.TelegramChatID, bot.Services{
			Entries:  a.svc.entries,
			Todos:    a.svc.todos,
			Reminder: a.svc.reminder,
			Summary:  a.svc.summary,
		}, a.loc, a.log)
		if err != nil {
			return err
		}
		check.SetNotifier(telegramBot)
	}

	scheduler := service.NewSchedulerService(a.loc, a.log)
	if err := scheduler.ScheduleCheck(ctx, check, a.cfg.RecurrenceCheckAt, catchUpPeriod); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// A start-up run covers the case where the process was down at check time.
	scheduler.RunCheck(ctx, check)

	server, err := web.New(web.Services{
		Entries:   a.svc.entries,
		Todos:     a.svc.todos,
		Projects:  a.svc.projects,
		Recurring: a.svc.recurring,
		Summary:   a.svc.summary,
		Export:    a.svc.export,
		Reports:   a.svc.reports,
	}, web.Options{Location: a.loc, Logger: a.log})
	if err != nil {
		return err
	}
	httpServer := server.HTTPServer(a.cfg.HTTPAddr)

	errCh := make(chan error, 2)
	go func() {
		a.log.Info("listening", slog.String("addr", a.cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if telegramBot != nil {
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err = <-errCh:
		a.log.Error("component stopped", slog.Any("err", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		a.log.Warn("http shutdown", slog.Any("err", shutdownErr))
	}
	a.log.Info("shutdown complete")
	return err
}
