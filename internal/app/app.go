package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/coupon"
	"github.com/eclora/eclora-api/internal/domain/order"
	"github.com/eclora/eclora-api/internal/handler"
	"github.com/eclora/eclora-api/internal/imagestore"
	"github.com/eclora/eclora-api/internal/mailer"
	"github.com/eclora/eclora-api/internal/payment"
	"github.com/eclora/eclora-api/internal/repository"
	"github.com/eclora/eclora-api/pkg/health"
	"github.com/eclora/eclora-api/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabasePingCheck(pool, 5*time.Second))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	bannerRepo := repository.NewBannerRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// Domain services.
	couponValidator := coupon.NewValidator(couponRepo)
	orderService := order.NewService(orderRepo)
	authManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	// Outbound integrations, each with a fallback for unconfigured
	// environments.
	var payments payment.Client
	if cfg.Stripe.SecretKey != "" {
		payments = payment.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.ClientURL)
	} else {
		lg.Warn("No Stripe key configured, using demo checkout")
		payments = payment.NewDemoClient(cfg.ClientURL)
	}

	var mail mailer.Mailer = mailer.NopMailer{}
	if cfg.SMTP.Host != "" {
		mail, err = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.AdminTo,
		})
		if err != nil {
			return errors.Wrap(err, "create smtp mailer")
		}
	}

	var images imagestore.Store
	if cfg.S3.Bucket != "" {
		images, err = imagestore.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.BaseURL)
		if err != nil {
			return errors.Wrap(err, "create image store")
		}
	}

	// HTTP handlers.
	h := handler.New(handler.Config{
		Products:   productRepo,
		Categories: categoryRepo,
		Coupons:    couponRepo,
		Validator:  couponValidator,
		Orders:     orderService,
		Users:      userRepo,
		Banners:    bannerRepo,
		Settings:   settingsRepo,
		Stats:      dashboardRepo,
		Auth:       authManager,
		Payments:   payments,
		Mail:       mail,
		Images:     images,
	})

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	h.RegisterRoutes(engine)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", engine)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "Stripe-Signature"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
				// Probes and Stripe webhook deliveries must never be shed.
				SkipFunc: func(r *http.Request) bool {
					switch r.URL.Path {
					case "/livez", "/readyz", "/api/webhook":
						return true
					}
					return false
				},
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
