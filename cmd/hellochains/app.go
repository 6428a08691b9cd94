package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/otel"
)

// shutdownTimeout 退出时刷新遥测数据的最长时间
const shutdownTimeout = 5 * time.Second

// app 一次命令执行所需的配置、日志和遥测
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *otel.Provider
	out       io.Writer
}

// newApp 加载配置并初始化日志和遥测
//
// 命令行参数只在显式设置时覆盖配置。
func newApp(ctx context.Context, cmd *cobra.Command, g *globalOptions) (*app, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.LLM.Provider = config.Provider(g.provider)
	}
	if flags.Changed("model") {
		cfg.LLM.Model = g.model
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	telemetry, err := otel.Setup(ctx, otel.FromConfig(cfg.Observability))
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	logger := otel.NewLogger(otel.LoggingFromConfig(cfg.Log), cmd.ErrOrStderr())
	logger.Debug("config loaded",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"telemetry", telemetry.Enabled(),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		telemetry: telemetry,
		out:       cmd.OutOrStdout(),
	}, nil
}

// provider 创建带追踪的 LLM Provider
//
// fallback 为配置未指定提供商时使用的提供商。
func (a *app) provider(fallback config.Provider, temperature float64) (llm.Provider, error) {
	base, err := llm.FromConfig(a.cfg.LLM, fallback, temperature, llm.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	a.logger.Debug("llm client ready", "provider", base.Name(), "model", base.Model())
	return a.telemetry.WrapProvider(base)
}

// close 刷新遥测数据
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
}

// signalContext 在收到 SIGINT 或 SIGTERM 时取消
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
