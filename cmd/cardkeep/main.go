package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/cardkeep/internal/config"
	"github.com/xxxsen/cardkeep/internal/handler"
	"github.com/xxxsen/cardkeep/internal/middleware"
	"github.com/xxxsen/cardkeep/internal/pkg/jwt"
	"github.com/xxxsen/cardkeep/internal/pkg/password"
	"github.com/xxxsen/cardkeep/internal/repo"
	"github.com/xxxsen/cardkeep/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cardkeep",
		Short: "cardkeep business card server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run cardkeep server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply store migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return store.Close(context.Background())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (optional, env overrides it)")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

// openStore connects the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config) (repo.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout()*2)
	defer cancel()
	store, err := repo.New(openCtx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(openCtx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	logutil.GetLogger(ctx).Info("store ready",
		zap.String("type", cfg.Store.Type),
		zap.String("database", cfg.Store.Database),
	)
	return store, nil
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.Store.Type),
		zap.String("algorithm", cfg.JWT.Algorithm),
		zap.Duration("token_ttl", cfg.JWT.TTL()),
	)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logutil.GetLogger(closeCtx).Error("close store failed", zap.Error(err))
		}
	}()
	store = repo.WithTimeout(store, cfg.Store.Timeout())
	store = repo.WithUserCache(store, cfg.UserCache.Size, cfg.UserCache.TTL())

	signer, err := jwt.NewSigner([]byte(cfg.JWT.Secret), cfg.JWT.Algorithm)
	if err != nil {
		return fmt.Errorf("init token signer: %w", err)
	}
	hasher := password.NewHasher(cfg.BcryptCost)

	authService, err := service.NewAuthService(store.Users(), hasher, signer, cfg.JWT.TTL())
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}
	cardService := service.NewCardService(store.Users(), store.Cards())

	deps := handler.RouterDeps{
		Auth:   handler.NewAuthHandler(authService),
		Cards:  handler.NewCardHandler(cardService),
		Tokens: signer,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logutil.GetLogger(context.Background()).Info("server stopping...")
		return nil
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	}
}
