package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/config" // Internal config loader
	"github.com/iliyamo/escape-room-booking/internal/database"
	"github.com/iliyamo/escape-room-booking/internal/handler"
	"github.com/iliyamo/escape-room-booking/internal/logging"
	"github.com/iliyamo/escape-room-booking/internal/mail"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/queue"
	"github.com/iliyamo/escape-room-booking/internal/repository"
	"github.com/iliyamo/escape-room-booking/internal/router" // Internal router setup
	"github.com/iliyamo/escape-room-booking/internal/service"
)

const serviceName = "escapedia-api"

func main() {
	cfg := config.Load() // Load environment config
	logging.Init(serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("migrate schema")
		}
		log.Info().Msg("schema migrated")
	}

	// Redis backs the rate limiter and the room cache; both are optional.
	var rdb *redis.Client
	rateCfg := config.LoadRateLimitConfig()
	authRateCfg := config.LoadAuthRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	if rateCfg.Enabled || cacheCfg.Enabled {
		rdb, err = config.NewRedisClient(config.LoadRedisConfig())
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; rate limiting and caching disabled")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	m := metrics.New("escapedia")
	mailer := mail.New(cfg.Mail, log.Logger)

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)
	}
	if cfg.Events.ConsumerEnabled {
		c := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.LogDir, log.Logger)
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("booking event consumer stopped")
			}
		}()
	}

	gate := authz.NewGate(cfg.JWTSecret, cfg.JWTTTL)

	users := repository.NewUserRepo(db)
	resetTokens := repository.NewResetTokenRepo(db)
	locals := repository.NewLocalRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)

	authSvc := service.NewAuthService(users, gate, cfg.BcryptCost)
	resetSvc := service.NewPasswordResetService(users, resetTokens, mailer, m, service.PasswordResetConfig{
		TTL:         cfg.ResetTokenTTL,
		FrontendURL: cfg.FrontendURL,
		MailTimeout: cfg.Mail.Timeout,
		BcryptCost:  cfg.BcryptCost,
	})
	catalogSvc := service.NewCatalogService(locals, rooms)
	bookingSvc := service.NewBookingService(bookings, rooms, events, m)
	reviewSvc := service.NewReviewService(reviews, bookings, m)

	roomH := handler.NewRoomHandler(catalogSvc, reviewSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)

	e := echo.New() // Create Echo instance
	router.Configure(e, router.Global{
		Logger:      log.Logger,
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     m,
		RateLimit:   rateCfg,
		Redis:       rdb,
	})
	router.RegisterRoutes(e, db, m)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, resetSvc), gate, authRateCfg, rdb)
	router.RegisterPublic(e, roomH, cacheCfg, rdb)
	router.RegisterCustomer(e, bookingH, handler.NewReviewHandler(reviewSvc), gate)
	router.RegisterOwner(e, roomH, handler.NewLocalHandler(catalogSvc), bookingH, gate, cacheCfg, rdb)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	resetSvc.Wait()
}
