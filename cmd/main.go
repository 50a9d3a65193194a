package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"forum/internal/fanout"
	"forum/internal/mail"
	"forum/internal/repository"
	"forum/internal/router"
	"forum/internal/router/handlers"
	"forum/internal/service"
	"forum/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/config"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.New()
	_ = cfg.LoadConfigFiles("./config/config.yaml")
	log, err := logger.NewLogger(cfg.GetString("log_level"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	repo, err := repository.NewRepository(cfg.GetString("master_dsn"), cfg.GetStringSlice("slaveDSNs"), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	var mailer fanout.Mailer = mail.NewNoop(log)
	if host := cfg.GetString("smtp.host"); host != "" {
		mailer = mail.NewSMTPMailer(mail.Options{
			Host:     host,
			Port:     cfg.GetString("smtp.port"),
			User:     cfg.GetString("smtp.user"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     cfg.GetString("smtp.from"),
		}, log)
	} else {
		log.Warn("SMTP host is not configured, announcements will only be logged")
	}
	workers, err := strconv.Atoi(cfg.GetString("fanout_workers"))
	if err != nil {
		log.Warn("Invalid fanout_workers, using 1", zap.Error(err))
		workers = 1
	}
	dispatcher := fanout.NewDispatcher(repo, mailer, workers, log)

	rout := router.NewRouter(cfg.GetString("gin_mode"), router.Handlers{
		Comments:      handlers.NewCommentHandler(service.NewService(repo, log)),
		Likes:         handlers.NewLikeHandler(service.NewLikeService(repo, log)),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(repo, log)),
		Channels:      handlers.NewChannelHandler(service.NewChannelService(repo, dispatcher, log)),
	}, log)
	srv := &http.Server{
		Addr:    cfg.GetString("addr"),
		Handler: rout.GetEngine(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to listen and server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown server", zap.Error(err))
	}
	dispatcher.Wait()
	log.Info("Server stopped")
}
