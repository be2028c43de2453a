package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sterrysx/gymai/internal/biometrics"
	"github.com/sterrysx/gymai/internal/coach"
	"github.com/sterrysx/gymai/internal/config"
	"github.com/sterrysx/gymai/internal/db"
	"github.com/sterrysx/gymai/internal/middleware"
	"github.com/sterrysx/gymai/internal/ollama"
	"github.com/sterrysx/gymai/internal/telemetry/metrics"
	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/internal/workout/mcp"
	"github.com/sterrysx/gymai/internal/workout/plans"
	"github.com/sterrysx/gymai/internal/workout/progression"
)

// request bodies are small JSON documents, Apple Health exports included
const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	plansService      *plans.Service
	biometricsService *biometrics.Service
	coachService      *coach.Service
	mcpServer         *mcpsdk.Server

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymai-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.OllamaTimeoutSec) * time.Second,
	}
	ollamaClient := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, tracedHttpClient)

	strategy, err := progression.New(progression.Config{
		Strategy:          cfg.ProgressionStrategy,
		FallbackRepTarget: cfg.FallbackRepTarget,
		OnFailure:         cfg.AdvisoryOnFailure,
	}, progression.NewLLMAdvisor(ollamaClient))
	if err != nil {
		return nil, fmt.Errorf("progression strategy: %w", err)
	}
	log.Debugf("using progression strategy: %s", strategy.Name())

	plansRepo := plans.NewRepo(dbPool)
	plansService := plans.NewService(plans.ServiceParams{
		Store:                plansRepo,
		Strategy:             strategy,
		MetricsManager:       metricsManager,
		ArchiveDir:           cfg.DataDir,
		DefaultBenchRounding: cfg.DefaultBenchRounding,
	})

	csvStore, err := biometrics.NewCSVStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("biometrics store: %w", err)
	}
	biometricsService := biometrics.NewService(csvStore, metricsManager)

	coachService := coach.NewService(coach.ServiceParams{
		Store:          coach.NewRedisStore(rdb),
		LLM:            ollamaClient,
		Body:           biometricsService,
		Training:       plansService,
		MetricsManager: metricsManager,
	})

	return &Server{
		config:            cfg,
		dbPool:            dbPool,
		redisClient:       rdb,
		rateLimiter:       redis_rate.NewLimiter(rdb),
		plansService:      plansService,
		biometricsService: biometricsService,
		coachService:      coachService,
		mcpServer:         mcp.NewServer(mcp.NewPoolSchemaRepo(dbPool), plansService),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymai-router"))

	plansHandler := plans.NewHandler(s.plansService)
	r.HandleFunc("/workout/{day}", plansHandler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/log", plansHandler.HandleLog).Methods("POST", "OPTIONS").Name("log-exercise")
	r.HandleFunc("/bench/status", plansHandler.HandleBenchStatus).Methods("GET", "OPTIONS").Name("bench-status")
	r.HandleFunc("/bench/1rm", plansHandler.HandleSetOneRepMax).Methods("PUT", "OPTIONS").Name("bench-1rm")
	r.HandleFunc("/completion/{week}", plansHandler.HandleCompletion).Methods("GET", "OPTIONS").Name("completion")
	r.Handle("/generate-next-week", middleware.RateLimit(
		s.rateLimiter, s.metricsManager, "generate-next-week", s.config.TransitionRateLimitPerMin,
	)(http.HandlerFunc(plansHandler.HandleGenerateNextWeek))).Methods("POST", "OPTIONS").Name("generate-next-week")
	r.HandleFunc("/stats", plansHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/archive/{week}", plansHandler.HandleArchive).Methods("GET", "OPTIONS").Name("archive")
	r.HandleFunc("/complete-day", plansHandler.HandleCompleteDay).Methods("POST", "OPTIONS").Name("complete-day")
	r.HandleFunc("/dashboard/volume", plansHandler.HandleVolume).Methods("GET", "OPTIONS").Name("volume")

	biometricsHandler := biometrics.NewHandler(s.biometricsService)
	r.HandleFunc("/webhook/apple-health", biometricsHandler.HandleAppleHealth).Methods("POST", "OPTIONS").Name("apple-health")
	r.HandleFunc("/metrics/body-composition", biometricsHandler.HandleBodyComposition).Methods("POST", "OPTIONS").Name("body-composition")
	r.HandleFunc("/dashboard/metrics", biometricsHandler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard-metrics")
	r.HandleFunc("/targets", biometricsHandler.HandleGetTargets).Methods("GET", "OPTIONS").Name("get-targets")
	r.HandleFunc("/targets", biometricsHandler.HandleSetTargets).Methods("PUT", "OPTIONS").Name("set-targets")

	coachHandler := coach.NewHandler(s.coachService)
	r.Handle("/chat", middleware.RateLimit(
		s.rateLimiter, s.metricsManager, "chat", s.config.ChatRateLimitPerMin,
	)(http.HandlerFunc(coachHandler.HandleChat))).Methods("POST", "OPTIONS").Name("chat")
	r.HandleFunc("/chat/history", coachHandler.HandleHistory).Methods("GET", "OPTIONS").Name("chat-history")
	r.HandleFunc("/chat/{id}", coachHandler.HandleGetConversation).Methods("GET", "OPTIONS").Name("chat-conversation")

	mcpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	s.refreshGauges(ctx)

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: s.routerSetup(),
		Addr:    ipAndPort,
		// chat and advisory transitions wait on the model
		WriteTimeout: time.Duration(s.config.OllamaTimeoutSec)*time.Second + time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// refreshGauges sets the week and cycle gauges from the store on startup.
// Transitions keep them current afterwards.
func (s *Server) refreshGauges(ctx context.Context) {
	stats, err := s.plansService.Stats(ctx)
	if err != nil {
		log.Warnf("read stats for gauges: %s", err)
		return
	}
	s.metricsManager.GaugeCurrentWeek.Set(float64(stats.CurrentWeek))
	s.metricsManager.GaugeBenchCycleWeek.Set(float64(stats.BenchCycleWeek))
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
