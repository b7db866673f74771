package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sanket/config"
	"sanket/handlers"
	"sanket/middleware"
	"sanket/routes"
	"sanket/services/gateway"
	"sanket/services/orchestrator"
	"sanket/services/session"
	"sanket/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const identityTimeout = 30 * time.Second

func serveCMD() *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the web frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig(cfgPath)
			if serveAddr == "" {
				serveAddr = "0.0.0.0:" + config.AppConfig.AppPort
			}
			return runServer(serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 0.0.0.0:APP_PORT)")
	return serve
}

func runServer(addr string) error {
	cfg := config.AppConfig
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := utils.InitSessionCache()
	var persister session.Persister = session.NewMemoryPersister()
	if redisClient != nil {
		persister = session.NewRedisPersister(redisClient, cfg.SessionTTL())
	}

	backend := gateway.NewHTTPClient(cfg.BackendURL, cfg.BackendTimeout(), logger.Named("gateway"), gateway.DefaultMetrics())
	if cfg.FirebaseAPIKey == "" {
		logger.Warn("FIREBASE_API_KEY not set; sign-in will fail")
	}
	deps := orchestrator.Deps{
		Gateway:        backend,
		Identity:       session.NewFirebaseIdentity(cfg.FirebaseAPIKey, identityTimeout, logger.Named("identity")),
		Persister:      persister,
		RefreshMargin:  cfg.TokenRefreshMargin(),
		MaritalDefault: cfg.ProfileMaritalDefault,
		Logger:         logger,
	}
	verifier, err := utils.FirebaseAuthInit(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase auth", zap.Error(err))
	}
	if verifier != nil {
		deps.Verifier = verifier
	} else {
		logger.Info("FIREBASE_CREDENTIALS_FILE not set; ID tokens are not verified")
	}

	registry, err := orchestrator.NewRegistry(cfg.VisitorCacheSize, deps)
	if err != nil {
		logger.Fatal("main: failed to create visitor registry", zap.Error(err))
	}
	utils.StartHealthMonitor(ctx, redisClient, backend.Ping)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.VisitorMiddleware(config.IsProduction()))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(handlers.NewPageHandler(registry), promhttp.Handler())
	routes.RegisterRoutes(router, handlerBundle, cfg.Origins())

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
		return err
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
	return nil
}
