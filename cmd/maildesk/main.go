package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/maildesk/internal/app"
	"github.com/dropDatabas3/maildesk/internal/config"
	"github.com/dropDatabas3/maildesk/internal/http/metrics"
	"github.com/dropDatabas3/maildesk/internal/http/router"
	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
	"github.com/dropDatabas3/maildesk/internal/mail"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/rate"
	"github.com/dropDatabas3/maildesk/internal/security/password"
	"github.com/dropDatabas3/maildesk/internal/store"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:          "maildesk",
		Short:        "Backend administrativo de correo saliente (operador único)",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "ruta del archivo de configuración YAML")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	// .env si existe; si no, variables del sistema
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "maildesk",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	// Secreto de firma ausente: error fatal de configuración, no per-request
	issuer, err := jwtx.NewIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Error("jwt issuer init failed (set JWT_SECRET)", logger.Err(err))
		return err
	}

	st, err := store.Open(
		filepath.Join(cfg.Storage.DataDir, "store.json"),
		cfg.Auth.AdminEmail,
		cfg.Auth.AdminPassword,
		password.NewArgon2(),
	)
	if err != nil {
		log.Error("store open failed", logger.Err(err))
		return err
	}

	c := &app.Container{
		Store:      st,
		Issuer:     issuer,
		Dispatcher: mail.NewDispatcher(st),
	}

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.LoginWindow())
	}

	handler := router.New(router.Deps{
		Container:    c,
		LoginLimiter: limiter,
		Metrics:      metrics.Register(nil),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server failed", logger.Err(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
