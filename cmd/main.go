package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	availabilityStreamHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/availability_stream"
	checkEligibilityHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/check_eligibility"
	getAvailabilityHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_availability"
	getCalendarHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_calendar"
	getSlotGridHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_slot_grid"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/infra/changefeed"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	spotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/spot"
	"github.com/m04kA/SMC-ParkingService/internal/jobs"
	"github.com/m04kA/SMC-ParkingService/internal/service/availability"
	"github.com/m04kA/SMC-ParkingService/internal/service/binding"
	"github.com/m04kA/SMC-ParkingService/internal/service/eligibility"
	"github.com/m04kA/SMC-ParkingService/internal/service/feed"
	checkEligibilityUC "github.com/m04kA/SMC-ParkingService/internal/usecase/check_eligibility"
	getAvailabilityUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_availability"
	getCalendarUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_calendar"
	getSlotGridUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_slot_grid"
	watchAvailabilityUC "github.com/m04kA/SMC-ParkingService/internal/usecase/watch_availability"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
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

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	// При выключенных метриках передается nil, методы Metrics это допускают
	var metricsCollector *metrics.Metrics
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

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	spotRepository := spotRepo.NewRepository(db)

	// Политика бронирования
	location, err := cfg.Policy.Location()
	if err != nil {
		log.Fatal("Failed to load policy timezone %q: %v", cfg.Policy.Timezone, err)
	}
	policy := eligibility.Policy{
		SameDayCutoffHour:  cfg.Policy.CutoffHour,
		MinRemaining:       time.Duration(cfg.Policy.MinRemainingMinutes) * time.Minute,
		FullPriceRemaining: time.Duration(cfg.Policy.FullPriceMinutes) * time.Minute,
		ProrateFloor:       cfg.Policy.ProrateFloor,
		Location:           location,
	}
	if err := policy.Validate(); err != nil {
		log.Fatal("Invalid booking policy: %v", err)
	}
	gate := eligibility.NewGate(policy)

	// Калькулятор доступности
	calculator := availability.NewCalculator(
		bookingRepository,
		availability.Config{
			CheckpointCount: cfg.Availability.CheckpointCount,
			QueryTimeout:    cfg.Availability.QueryTimeout(),
		},
		metricsCollector,
		log,
	)

	// Лента изменений: одно LISTEN соединение на процесс
	changeFeed := changefeed.NewPostgresFeed(
		cfg.Database.DSN(),
		changefeed.Config{
			ChannelPrefix: cfg.Feed.Channel,
			MinReconnect:  cfg.Feed.MinReconnect(),
			MaxReconnect:  cfg.Feed.MaxReconnect(),
			PingInterval:  cfg.Feed.ListenerPing(),
		},
		log,
	)

	// Мультиплексор подписок живет все время работы процесса
	multiplexer := feed.NewMultiplexer(
		changeFeed,
		feed.Config{
			Debounce:      cfg.Feed.Debounce(),
			RetryInterval: cfg.Feed.RetryInterval(),
		},
		metricsCollector,
		log,
	)
	log.Info("Change feed initialized (channel=%s_<spotID>, debounce=%s)", cfg.Feed.Channel, cfg.Feed.Debounce())

	// Фоновые задачи
	scheduler := jobs.NewScheduler(multiplexer, metricsCollector, log)
	if err := scheduler.ScheduleRollingRefresh(cfg.Jobs.RollingRefresh); err != nil {
		log.Fatal("Failed to schedule rolling refresh: %v", err)
	}
	scheduler.Start()

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		spotRepository,
		calculator,
		cfg.Availability.RollingHorizon(),
		log,
	)

	getSlotGridUseCase := getSlotGridUC.NewUseCase(
		spotRepository,
		bookingRepository,
		gate,
		log,
	)

	getCalendarUseCase := getCalendarUC.NewUseCase(
		spotRepository,
		bookingRepository,
		gate,
		log,
	)

	checkEligibilityUseCase := checkEligibilityUC.NewUseCase(
		spotRepository,
		bookingRepository,
		calculator,
		gate,
		log,
	)

	watchAvailabilityUseCase := watchAvailabilityUC.NewUseCase(
		spotRepository,
		func() watchAvailabilityUC.Binding {
			return binding.New(calculator, multiplexer, nil, log)
		},
		cfg.Availability.RollingHorizon(),
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	getSlotGrid := getSlotGridHandler.NewHandler(getSlotGridUseCase, location, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, location, log)
	checkEligibility := checkEligibilityHandler.NewHandler(checkEligibilityUseCase, location, log)
	availabilityStream := availabilityStreamHandler.NewHandler(
		watchAvailabilityUseCase,
		location,
		time.Duration(cfg.Server.StreamHeartbeat)*time.Second,
		metricsCollector,
		log,
	)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Доступность места: скользящее окно или конкретный слот/день/месяц
	api.HandleFunc("/spots/{spotId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Живая доступность (Server-Sent Events)
	api.HandleFunc("/spots/{spotId}/availability/stream", availabilityStream.Handle).Methods(http.MethodGet)

	// Почасовая сетка на день
	api.HandleFunc("/spots/{spotId}/slots", getSlotGrid.Handle).Methods(http.MethodGet)

	// Календарь дневных и месячных бронирований
	api.HandleFunc("/spots/{spotId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Можно ли забронировать выбранный слот и по какой цене
	api.HandleFunc("/spots/{spotId}/eligibility", checkEligibility.Handle).Methods(http.MethodGet)

	// CORS и восстановление после паники
	handler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Last-Event-ID"}),
	)(r)
	handler = gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(log),
		gorillaHandlers.PrintRecoveryStack(true),
	)(handler)

	// Создаем HTTP сервер
	// WriteTimeout = 0 для SSE потоков, потоки завершаются отменой baseCtx
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
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

	scheduler.Stop(shutdownCtx)
	log.Info("Scheduler stopped")

	// SSE потоки не становятся idle сами, их нужно отменить до Shutdown
	stopStreams()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := multiplexer.Close(); err != nil {
		log.Error("Failed to close multiplexer: %v", err)
	}
	if err := changeFeed.Close(); err != nil {
		log.Error("Failed to close change feed: %v", err)
	}
	log.Info("Change feed closed")

	log.Info("Server stopped gracefully")
}
