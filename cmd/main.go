package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	adminHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/admin"
	appointmentsHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/appointments"
	authHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/auth"
	catalogHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/catalog"
	createBookingHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/get_booking"
	healthHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/health"
	listMyBookingsHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/list_my_bookings"
	updateBookingHandler "github.com/m04kA/RC-BookingService/internal/api/handlers/update_booking"
	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	"github.com/m04kA/RC-BookingService/internal/config"
	"github.com/m04kA/RC-BookingService/internal/infra/cache/availability"
	"github.com/m04kA/RC-BookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/appointment"
	bookingRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/resource"
	scheduleRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/schedule"
	statsRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/stats"
	userRepo "github.com/m04kA/RC-BookingService/internal/infra/storage/user"
	"github.com/m04kA/RC-BookingService/internal/integrations/mailer"
	"github.com/m04kA/RC-BookingService/internal/notification"
	adminService "github.com/m04kA/RC-BookingService/internal/service/admin"
	appointmentsService "github.com/m04kA/RC-BookingService/internal/service/appointments"
	authService "github.com/m04kA/RC-BookingService/internal/service/auth"
	bookingsService "github.com/m04kA/RC-BookingService/internal/service/bookings"
	catalogService "github.com/m04kA/RC-BookingService/internal/service/catalog"
	scheduleService "github.com/m04kA/RC-BookingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/RC-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/RC-BookingService/internal/usecase/get_availability"
	"github.com/m04kA/RC-BookingService/internal/usecase/reservation"
	updateBookingUC "github.com/m04kA/RC-BookingService/internal/usecase/update_booking"
	"github.com/m04kA/RC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/RC-BookingService/pkg/logger"
	"github.com/m04kA/RC-BookingService/pkg/metrics"
	"github.com/m04kA/RC-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/RC-BookingService/pkg/tracing"
	"github.com/m04kA/RC-BookingService/pkg/txmanager"
)

func main() {
	// .env не обязателен
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting RC-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Invalid business timezone: %v", err)
	}

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Исполнитель запросов и transaction manager (с метриками или без)
	var (
		executor  dbmetrics.DBExecutor
		txManager *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txManager = txmanager.NewTransactionManager(wrappedDB, txmanager.WithMetrics(metricsCollector))
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txManager = simpletxmanager.NewTransactionManager(db)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)
	resourceRepository := resourceRepo.NewRepository(executor)
	scheduleRepository := scheduleRepo.NewRepository(executor)
	userRepository := userRepo.NewRepository(executor)
	appointmentRepository := appointmentRepo.NewRepository(executor)
	statsRepository := statsRepo.NewRepository(sqlx.NewDb(db, "postgres"), cfg.Business.Timezone)

	// Redis: кэш доступности и rate limit. Без redis слоты всегда считаются по БД
	var (
		redisClient      *redis.Client
		availabilityRead getAvailabilityUC.Cache
		cacheInvalidator reservation.CacheInvalidator
		scheduleCache    scheduleService.AvailabilityCache
		rateLimiter      *middleware.RateLimiter
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, continuing without it until it recovers: %v", cfg.Redis.Addr, err)
		}

		cache := availability.NewCache(redisClient, time.Duration(cfg.Redis.AvailabilityTTLSeconds)*time.Second)
		availabilityRead = cache
		cacheInvalidator = cache
		scheduleCache = cache

		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.Redis.RateLimit,
			time.Duration(cfg.Redis.RateWindowSeconds)*time.Second, "rl", log)
		log.Info("Redis enabled (addr=%s, availability ttl=%ds, rate limit=%d/%ds)",
			cfg.Redis.Addr, cfg.Redis.AvailabilityTTLSeconds, cfg.Redis.RateLimit, cfg.Redis.RateWindowSeconds)
	}

	// Kafka: события бронирований и встреч
	var (
		producer  *events.Producer
		publisher interface {
			reservation.EventPublisher
			appointmentsService.EventPublisher
		} = events.NoopPublisher{}
	)
	if cfg.Kafka.Enabled {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic)
		publisher = producer
		log.Info("Kafka producer enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic)
	}

	// Почта и уведомления
	mailClient := mailer.NewClient(mailer.Config{
		Enabled:  cfg.Mail.Enabled,
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, time.Duration(cfg.Notification.TimeoutSeconds)*time.Second, log)

	dispatcher := notification.NewDispatcher(
		mailClient,
		userRepository,
		catalogRepository,
		location,
		cfg.Server.FrontendURL,
		time.Duration(cfg.Notification.TimeoutSeconds)*time.Second,
		log,
	)

	// Общий примитив вместимости и пост-коммитные эффекты
	guard := reservation.NewGuard(resourceRepository, bookingRepository, log)
	effects := reservation.NewEffects(dispatcher, publisher, cacheInvalidator, metricsCollector, location, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalogRepository,
		resourceRepository,
		scheduleRepository,
		bookingRepository,
		availabilityRead,
		location,
		cfg.Business.DefaultStepMinutes,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		guard,
		effects,
		txManager,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		guard,
		effects,
		txManager,
		log,
	)

	// Инициализируем сервисы
	authSvc := authService.NewService(userRepository, dispatcher, authService.Config{
		Secret:     []byte(cfg.Auth.JWTSecret),
		TokenTTL:   time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)
	bookingSvc := bookingsService.NewService(bookingRepository, catalogRepository, effects, txManager, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, userRepository, dispatcher, publisher, location, log)
	adminSvc := adminService.NewService(statsRepository, userRepository, location, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, resourceRepository, scheduleCache, location, log)

	// Инициализируем handlers
	health := healthHandler.NewHandler(db, log)
	auth := authHandler.NewHandler(authSvc, authHandler.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	}, log)
	catalog := catalogHandler.NewHandler(catalogSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listMyBookings := listMyBookingsHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	appointments := appointmentsHandler.NewHandler(appointmentSvc, log)
	reports := adminHandler.NewReportHandler(adminSvc, log)
	schedule := adminHandler.NewScheduleHandler(scheduleSvc, log)

	authMiddleware := middleware.NewAuth(authSvc, cfg.Auth.CookieName, log)

	// Rate limit только при включенном redis
	limited := func(name string, h http.HandlerFunc) http.HandlerFunc {
		if rateLimiter == nil {
			return h
		}
		return rateLimiter.Limit(name, h)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", limited("login", auth.Login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)

	api.HandleFunc("/services", catalog.List).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", catalog.Get).Methods(http.MethodGet)

	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (cookie access_token или Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware.Require)

	// --- Профиль ---
	protected.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/change-password", auth.ChangePassword).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", limited("bookings", createBooking.Handle)).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listMyBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{id}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Встречи ---
	protected.HandleFunc("/appointments", appointments.Create).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", appointments.ListBySeller).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/my", appointments.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/status", appointments.UpdateStatus).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}", appointments.Delete).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/stats", reports.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/users", reports.Users).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", reports.Bookings).Methods(http.MethodGet)

	admin.HandleFunc("/business-hours", schedule.ListBusinessHours).Methods(http.MethodGet)
	admin.HandleFunc("/business-hours", schedule.CreateBusinessHours).Methods(http.MethodPost)
	admin.HandleFunc("/business-hours/{id}", schedule.DeleteBusinessHours).Methods(http.MethodDelete)

	admin.HandleFunc("/exceptions", schedule.ListExceptions).Methods(http.MethodGet)
	admin.HandleFunc("/exceptions", schedule.CreateException).Methods(http.MethodPost)
	admin.HandleFunc("/exceptions/{id}", schedule.DeleteException).Methods(http.MethodDelete)

	admin.HandleFunc("/resources", schedule.ListResources).Methods(http.MethodGet)
	admin.HandleFunc("/resources", schedule.CreateResource).Methods(http.MethodPost)
	admin.HandleFunc("/resources/{id}", schedule.UpdateResource).Methods(http.MethodPut)

	// CORS и request id снаружи роутера: preflight OPTIONS не совпадает ни с одним маршрутом
	var handler http.Handler = r
	handler = middleware.CORS(cfg.CORSOrigins())(handler)
	handler = middleware.RequestID(handler)
	handler = otelhttp.NewHandler(handler, cfg.Metrics.ServiceName)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся писем, ушедших после ответа клиенту
	dispatcher.Wait()

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Failed to close kafka producer: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
