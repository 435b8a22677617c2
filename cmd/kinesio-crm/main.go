package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/api"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/auth"
	calendar_service "github.com/SergeyKozhin/kinesio-crm/internal/business/calendar"
	settings_service "github.com/SergeyKozhin/kinesio-crm/internal/business/settings"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/stats"
	"github.com/SergeyKozhin/kinesio-crm/internal/config"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/database/client"
	"github.com/SergeyKozhin/kinesio-crm/internal/database/retreat"
	"github.com/SergeyKozhin/kinesio-crm/internal/database/settings"
	"github.com/SergeyKozhin/kinesio-crm/internal/database/user"
	"github.com/SergeyKozhin/kinesio-crm/internal/database/visit"
	"github.com/SergeyKozhin/kinesio-crm/internal/metrics"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/pkg/jwt"
	"github.com/SergeyKozhin/kinesio-crm/internal/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initializae logger: %v", err)
	}

	today := func() civil.Date { return civil.DateOf(time.Now()) }

	jwts := jwt.NewManger(config.Secret(), config.JwtTTL())

	redisPool := redis.NewRedisPool(config.RedisURL(), logger)
	refreshTokens := redis.NewRefreshTokenRepository(redisPool, config.SessionTTl(), logger)

	db, err := database.NewPGX(ctx, config.PostgresURL())
	if err != nil {
		log.Fatalf("unable to initializae db: %v", err)
	}
	usersRepository := user.NewRepository()
	clientsRepository := client.NewRepository()
	visitsRepository := visit.NewRepository()
	retreatsRepository := retreat.NewRepository()
	settingsRepository := settings.NewRepository()

	opts := api.Options{
		CorsOrigins: config.CorsOrigins(),
		Today:       today,
	}
	var calendarMetrics *metrics.CalendarMetrics
	if config.MetricsEnabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		calendarMetrics = metrics.NewCalendarMetrics(reg)
		opts.Metrics = metrics.NewHTTPMetrics(reg).Middleware
		opts.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	defaults := model.Settings{
		DefaultVisitPrice:   model.Money(config.DefaultVisitPrice()),
		DefaultRetreatPrice: model.Money(config.DefaultRetreatPrice()),
		Practices:           model.DefaultPractices,
	}
	settingsService := settings_service.NewService(db, settingsRepository, defaults, !config.Production(), logger)
	calendarService := calendar_service.NewService(
		db,
		visitsRepository,
		retreatsRepository,
		settingsService,
		calendarMetrics,
		today,
		logger,
	)
	statsService := stats.NewService(db, clientsRepository, visitsRepository, retreatsRepository, settingsService)
	authService := auth.NewService(db, usersRepository, jwts, refreshTokens, rand.Reader, config.SessionTokenLength())

	api, err := api.NewApi(
		logger,
		opts,
		jwts,
		authService,
		db,
		usersRepository,
		clientsRepository,
		visitsRepository,
		retreatsRepository,
		settingsService,
		calendarService,
		statsService,
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           api,
		ErrorLog:          errLogger,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("Started server", "port", config.Port())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("server error", "err", err)
			closer.Close()
		}
	}()

	closer.Bind(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("server shutdown", "err", err)
		}
	})
	closer.Hold()
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
