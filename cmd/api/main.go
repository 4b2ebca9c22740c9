package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/monitoring"
	"blogapi/internal/repository"
	"blogapi/internal/server"
	"blogapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}

func main() {
	log := newLogger()
	if err := run(log); err != nil {
		log.WithError(err).Fatal("Blog API stopped")
	}
}

func run(log *logrus.Logger) error {
	startedAt := time.Now()

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("closing database")
		}
	}()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	log.Info("Database schema is up to date")

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	posts := repository.NewPostRepository(db)
	users := repository.NewUserRepository(db)

	router := server.NewRouter(server.Deps{
		Posts:      posts,
		Users:      users,
		Tokens:     tokens,
		Monitor:    monitoring.NewService(startedAt, db, users, posts, log),
		MonitorKey: cfg.MonitorKey,
		Log:        log,
	})

	return server.Run(ctx, ":"+cfg.Port, router, log)
}
