package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"starproxy/internal/infrastructure/config"
	"starproxy/internal/proxyhandler"
	"starproxy/internal/rules"
	"starproxy/internal/shared/logger"
	"starproxy/internal/shared/version"
)

var configFile string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the proxy server",
		Long:  `Start starproxy's HTTP listener in front of a Trino-compatible cluster.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a starproxy.yaml config file (optional; env vars and defaults apply otherwise)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting starproxy",
		zap.String("version", version.Current),
		zap.String("upstream", cfg.Upstream.Authority),
		zap.String("rules_config_path", cfg.Rules.ConfigPath))

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	ruleConfig, err := rules.Load(cfg.Rules.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load rule config: %w", err)
	}
	logger.Info("rule config loaded",
		zap.String("path", cfg.Rules.ConfigPath),
		zap.Int("rule_count", len(ruleConfig.Rules)))

	engine, err := proxyhandler.NewEngine(cfg, ruleConfig)
	if err != nil {
		return fmt.Errorf("failed to build proxy engine: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Limits.RequestTimeout+5) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("address", cfg.Server.GetAddr()),
			zap.String("mode", cfg.Server.Mode))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}
