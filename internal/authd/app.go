package authd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pactum-io/pactum/internal/authd/router"
	"github.com/pactum-io/pactum/internal/authd/store"
	"github.com/pactum-io/pactum/pkg/infra/middleware"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
)

const (
	appName        = "pactum-authd"
	appDescription = `Pactum Auth Service

The authorization and session token service of the Pactum contract
platform.

This server provides:
  - Session token issuance, verification and refresh
  - Policy-chain authorization decisions
  - Per-contract capability maps`
)

// NewAppCommand builds the authd root command.
func NewAppCommand() *cobra.Command {
	opts := NewOptions()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "authd",
		Short:        appName,
		Long:         appDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfgFile, cmd, opts); err != nil {
				return err
			}
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file")
	opts.AddFlags(cmd.Flags())

	return cmd
}

// loadConfig merges the config file, environment and flags into opts.
// Precedence: flags > environment > config file > defaults.
func loadConfig(cfgFile string, cmd *cobra.Command, opts *Options) error {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %q: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix("AUTHD")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return v.Unmarshal(opts)
}

// Run starts the auth service and blocks until shutdown.
func Run(ctx context.Context, opts *Options) error {
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	key, err := loadKeyMaterial(opts)
	if err != nil {
		return err
	}

	tokens, err := authn.New(key,
		authn.WithIssuer(opts.Token.Issuer),
		authn.WithAudience(opts.Token.Audience),
		authn.WithAccessTTL(opts.Token.AccessExpired),
		authn.WithRefreshTTL(opts.Token.RefreshExpired),
	)
	if err != nil {
		return fmt.Errorf("create token service: %w", err)
	}

	factory, err := store.NewSQLiteFactory(opts.SQLite)
	if err != nil {
		return err
	}
	defer factory.Close()
	if err := factory.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database schema: %w", err)
	}

	engine := authz.NewEngine(
		authz.NewAdminPagePolicy(),
		authz.NewDepartmentPolicy(),
		authz.NewContractPolicy(),
	)

	registry := authz.NewRegistry()
	resolver := authz.NewGrantResolver(factory.Collaborators())
	if err := registry.Register(authz.NewContractResourcePolicy(resolver)); err != nil {
		return err
	}

	gin.SetMode(opts.HTTP.Mode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	router.Register(r, router.Deps{
		Tokens:   tokens,
		Engine:   engine,
		Registry: registry,
		Store:    factory,
	})

	return serve(ctx, opts, r)
}

// loadKeyMaterial loads the signing key from the configured file, or
// generates an ephemeral pair when no file is configured.
func loadKeyMaterial(opts *Options) (*authn.KeyMaterial, error) {
	alg := authn.Algorithm(opts.Token.Algorithm)

	if opts.Token.PrivateKeyFile != "" {
		key, err := authn.LoadKeyPairFromFile(alg, opts.Token.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load signing key: %w", err)
		}
		logger.Infow("signing key loaded", "algorithm", alg, "file", opts.Token.PrivateKeyFile)
		return key, nil
	}

	key, err := authn.GenerateKeyPair(alg)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	logger.Warnw("no key file configured, using ephemeral signing key; all tokens become invalid on restart",
		"algorithm", alg)
	return key, nil
}

// serve runs the HTTP server with graceful shutdown on SIGINT/SIGTERM.
func serve(ctx context.Context, opts *Options, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("server listening", "addr", opts.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down", "timeout", opts.HTTP.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
