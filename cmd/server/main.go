package main // Entry point package

import (
	"context"
	"log" // Logging library
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // .env loader, mirrors the deployment setup
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/mail"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

func main() {
	// Pull .env into the environment before reading config. Missing file
	// is fine; production sets real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	// External collaborators
	mailer := mail.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	// The broker connection is attempted exactly once. When it fails,
	// exports stay disabled until restart: publishes return an error and
	// no consumer runs. Everything else keeps working.
	broker, err := queue.Connect(cfg.AMQPURL)
	if err != nil {
		log.Printf("rabbitmq: connect failed, exports disabled: %v", err)
	}
	defer broker.Close()

	// Services (explicit dependency injection, no service locator)
	userSvc := service.NewUserService(users, mailer, cfg.JWTSecret, cfg.TokenTTLHrs, cfg.BcryptCost)
	movieSvc := service.NewMovieService(movies, users, favorites, mailer)
	favoriteSvc := service.NewFavoriteService(favorites, movies)

	// Background export consumer: one worker per process.
	if broker != nil {
		worker := queue.NewExportWorker(movies, mailer)
		go func() {
			if err := worker.Run(broker); err != nil {
				log.Printf("export-worker: stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(userSvc),
		Users:     handler.NewUserHandler(userSvc),
		Movies:    handler.NewMovieHandler(movieSvc, broker),
		Favorites: handler.NewFavoriteHandler(favoriteSvc),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server: %v", err)
		}
	}()

	// Graceful shutdown: stop HTTP first, then the broker channel and
	// connection (in that order, via broker.Close above).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
