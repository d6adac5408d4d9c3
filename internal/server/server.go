package server

import (
	"context"
	"fmt"
	"os"

	"github.com/farellandr/givingate/config"
	"github.com/farellandr/givingate/internal/eghl"
	"github.com/farellandr/givingate/internal/handlers"
	"github.com/farellandr/givingate/internal/middleware"
	"github.com/farellandr/givingate/internal/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func Start() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	gatewayCfg, err := config.LoadGatewayConfig()
	if err != nil {
		return fmt.Errorf("failed to load gateway config: %v", err)
	}

	reconCfg, err := config.LoadReconcileConfig()
	if err != nil {
		return fmt.Errorf("failed to load reconcile config: %v", err)
	}

	webCfg, err := config.LoadWebConfig()
	if err != nil {
		return fmt.Errorf("failed to load web config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	signer := eghl.NewSigner(gatewayCfg.ServiceID, gatewayCfg.Password)
	builder := eghl.NewRequestBuilder(gatewayCfg.PaymentURL, gatewayCfg.ReturnURL, gatewayCfg.CallbackURL, gatewayCfg.Currency, signer)
	client := eghl.NewClient(gatewayCfg.QueryURL, gatewayCfg.Currency, signer)

	store := reconcile.NewGormStore(db)
	reconciler := reconcile.NewReconciler(store, signer, logger)
	sweeper := reconcile.NewSweeper(store, client, reconciler, reconcile.SweepConfig{
		GraceWindow:    reconCfg.GraceWindow,
		Lookback:       reconCfg.Lookback,
		NotFoundCutoff: reconCfg.NotFoundCutoff,
	}, logger)

	giftHandler := handlers.NewGiftHandler(db, builder, logger)
	paymentHandler := handlers.NewPaymentHandler(reconciler, sweeper, webCfg.ReceiptURL, webCfg.ErrorURL, logger)
	methodHandler := handlers.NewMethodHandler(db, logger)
	insightsHandler := handlers.NewInsightsHandler(db, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))

	setupRoutes(r, routeDeps{
		gifts:      giftHandler,
		payments:   paymentHandler,
		methods:    methodHandler,
		insights:   insightsHandler,
		jwtSecret:  webCfg.JWTSecret,
		cronSecret: reconCfg.Secret,
	})

	if reconCfg.CronSpec != "" {
		schedule := cron.New()
		_, err := schedule.AddFunc(reconCfg.CronSpec, func() {
			sweeper.Sweep(context.Background())
		})
		if err != nil {
			return fmt.Errorf("invalid RECON_CRON_SPEC: %v", err)
		}
		schedule.Start()
		logger.Info("in-process reconciliation sweep scheduled", zap.String("spec", reconCfg.CronSpec))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

type routeDeps struct {
	gifts      *handlers.GiftHandler
	payments   *handlers.PaymentHandler
	methods    *handlers.MethodHandler
	insights   *handlers.InsightsHandler
	jwtSecret  string
	cronSecret string
}

func setupRoutes(r *gin.Engine, deps routeDeps) {
	public := r.Group("/v1")
	{
		gifts := public.Group("/gifts")
		gifts.Use(middleware.OptionalAuthMiddleware(deps.jwtSecret))
		{
			gifts.POST("", deps.gifts.CreateGift)
			gifts.GET("/:id", deps.gifts.GetGift)
		}

		payments := public.Group("/payments")
		{
			payments.POST("/callback", deps.payments.Callback)
			payments.GET("/return", deps.payments.Return)
			payments.POST("/return", deps.payments.Return)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.jwtSecret))
	{
		methods := protected.Group("/payment-methods")
		{
			methods.GET("", deps.methods.ListMethods)
			methods.DELETE("/:id", deps.methods.DeleteMethod)
		}
	}

	ops := r.Group("/v1")
	ops.Use(middleware.BearerSecretMiddleware(deps.cronSecret))
	{
		ops.GET("/payments/reconcile", deps.payments.Reconcile)
		ops.GET("/insights/summary", deps.insights.Summary)
	}
}
