package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/splitledger/docs"
	"github.com/fkhayef/splitledger/internal/auth"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/expense"
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/member"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/settlement"
	mw "github.com/fkhayef/splitledger/pkg/middleware"
	"github.com/fkhayef/splitledger/pkg/response"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Migrates the database and serves the REST API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		figure.NewColorFigure("Splitledger", "small", "green", true).Print()
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	logger := slog.Default()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	m := metrics.New()
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	// Repositories
	memberRepo := member.NewRepository(db)
	groupRepo := group.NewRepository(db)
	expenseRepo := expense.NewRepository(db)
	settlementRepo := settlement.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// Services
	notificationService := notification.NewService(notificationRepo)
	memberService := member.NewService(memberRepo)
	groupService := group.NewService(groupRepo, memberService, notificationService)
	expenseService := expense.NewService(expenseRepo, groupService, split.NewFactory(), notificationService, m)
	settlementService := settlement.NewService(settlementRepo, groupService, expenseService, notificationService, m)

	// Handlers
	memberHandler := member.NewHandler(memberService)
	groupHandler := group.NewHandler(groupService, settlementService)
	expenseHandler := expense.NewHandler(expenseService)
	settlementHandler := settlement.NewHandler(settlementService)
	notificationHandler := notification.NewHandler(notificationService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(logger))
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
		}
		response.JSON(w, http.StatusOK, map[string]string{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))

		authn := mw.Authenticate(tokens, cfg.DevActorHeader)
		r.Mount("/members", memberHandler.Routes(authn, mw.RateLimit(cfg.RegisterRateLimit, time.Minute)))

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/balances", settlementHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	if len(cfg.CORSOrigins) == 0 {
		logger.Info("CORS allows any origin without credentials")
	}

	if cfg.DevActorHeader {
		logger.Warn("X-Member-ID header authentication is enabled; do not use in production")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mw.CORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "dialect", db.Dialect())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database", "dialect", db.Dialect())
	return db, nil
}
