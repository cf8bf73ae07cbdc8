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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/cancel_booking"
	computeTimeslotsHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/compute_timeslots"
	createBookingHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/get_customer_bookings"
	getLocationBookingsHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/get_location_bookings"
	getLocationConfigHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/get_location_config"
	updateBookingStatusHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/update_booking_status"
	updateLocationConfigHandler "github.com/m04kA/SMC-TimeslotService/internal/api/handlers/update_location_config"
	"github.com/m04kA/SMC-TimeslotService/internal/api/middleware"
	"github.com/m04kA/SMC-TimeslotService/internal/cache"
	"github.com/m04kA/SMC-TimeslotService/internal/config"
	bookingRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	staffRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/staff"
	bookingsService "github.com/m04kA/SMC-TimeslotService/internal/service/bookings"
	locationsService "github.com/m04kA/SMC-TimeslotService/internal/service/locations"
	computeTimeslotsUC "github.com/m04kA/SMC-TimeslotService/internal/usecase/compute_timeslots"
	createBookingUC "github.com/m04kA/SMC-TimeslotService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TimeslotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TimeslotService/pkg/logger"
	"github.com/m04kA/SMC-TimeslotService/pkg/metrics"
	"github.com/m04kA/SMC-TimeslotService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-TimeslotService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-TimeslotService...")
	log.Info("Configuration loaded from config.toml")

	// Метрики создаются всегда: handlers пишут в них безусловно,
	// флаг cfg.Metrics.Enabled управляет только HTTP-эндпоинтом и обёрткой БД
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

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

	// Кеш ответов планировщика: Redis или локальный in-memory fallback
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var responseCache cache.ResponseCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping Redis: %v", err)
		}
		defer redisClient.Close()
		responseCache = cache.NewRedisCache(redisClient, cacheTTL, log)
		log.Info("Timeslot response cache: Redis at %s (ttl=%ds)", cfg.Redis.Addr, cfg.Cache.TTLSeconds)
	} else {
		responseCache = cache.NewMemoryCache(cacheTTL)
		log.Info("Timeslot response cache: in-memory (ttl=%ds)", cfg.Cache.TTLSeconds)
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository  *bookingRepo.Repository
		locationRepository *locationRepo.Repository
		staffRepository    *staffRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		locationRepository = locationRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		locationRepository = locationRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	locationSvc := locationsService.NewService(locationRepository, log)

	// Инициализируем use cases
	computeTimeslotsUseCase := computeTimeslotsUC.NewUseCase(
		locationRepository,
		staffRepository,
		bookingRepository,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		locationRepository,
		staffRepository,
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	computeTimeslots := computeTimeslotsHandler.NewHandler(computeTimeslotsUseCase, responseCache, metricsCollector, cfg.Cache.TTLSeconds, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, metricsCollector, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getLocationConfig := getLocationConfigHandler.NewHandler(locationSvc, log)
	updateLocationConfig := updateLocationConfigHandler.NewHandler(locationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Вычисление доступных слотов для цепочки услуг
	api.HandleFunc("/locations/{locationId}/timeslots",
		computeTimeslots.Handle).Methods(http.MethodPost)

	// Получение настроек планирования локации
	api.HandleFunc("/locations/{locationId}/config",
		getLocationConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Customer-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	// Создание бронирования с пред-проверкой конфликтов
	protected.HandleFunc("/locations/{locationId}/bookings",
		createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}",
		getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования клиентом
	protected.HandleFunc("/bookings/{bookingId}/cancel",
		cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/me/bookings",
		getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление локацией (для операторов) ---
	// Список бронирований локации с фильтрами
	protected.HandleFunc("/locations/{locationId}/bookings",
		getLocationBookings.Handle).Methods(http.MethodGet)

	// Обновление статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status",
		updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Обновление настроек планирования локации
	protected.HandleFunc("/locations/{locationId}/config",
		updateLocationConfig.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
