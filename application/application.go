package application

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lk2023060901/chat-relay-go/internal/chat"
	"github.com/lk2023060901/chat-relay-go/internal/network/acceptor"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// Version 为当前构建的版本号。
var Version = semver.MustParse("0.3.1")

const metricsShutdownTimeout = 3 * time.Second

// Application 是聊天中继进程的运行时容器。
//
// 它持有配置，负责初始化日志与指标，并在同一个 errgroup 中运行
// 接入循环、心跳清理以及可选的指标端点。
type Application struct {
	cfg *Config

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// New 基于已加载的配置创建 Application。
func New(cfg *Config) *Application {
	return &Application{
		cfg:   cfg,
		ready: make(chan struct{}),
	}
}

// Config 返回当前使用的配置。
func (a *Application) Config() *Config {
	return a.cfg
}

// Ready 在监听地址绑定成功后关闭。
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// Addr 返回实际监听的地址，尚未绑定时返回 merr.ErrServiceNotReady。
func (a *Application) Addr() (net.Addr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.addr == nil {
		return nil, merr.WrapErrServiceNotReady("binding")
	}
	return a.addr, nil
}

// Run 初始化日志并启动服务，阻塞直至 ctx 取消或任一组件返回错误。
//
// 监听地址绑定失败时直接返回错误。
func (a *Application) Run(ctx context.Context) error {
	if a.cfg == nil {
		return merr.WrapErrParameterMissing("config")
	}
	if err := a.initLogging(); err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.Register(prometheus.DefaultRegisterer)

	server := a.cfg.Server
	address := net.JoinHostPort(server.Host, strconv.Itoa(server.Port))
	logger := log.Ctx(log.WithModule(ctx, "chatrelay"))
	logger.Info("starting chat relay",
		zap.String("version", Version.String()),
		zap.String("address", address))

	manager := chat.NewManager(ctx,
		chat.WithHistorySize(server.HistorySize),
		chat.WithSendQueueSize(server.SendQueueSize),
		chat.WithMaxLineSize(server.MaxLineSize),
		chat.WithSweepInterval(server.SweepInterval),
		chat.WithProbeWorkers(server.ProbeWorkers),
		chat.WithLogger(log.With(log.FieldModule("chat"))),
	)
	defer manager.Close()

	acc, err := acceptor.NewTCPAcceptor(ctx, address, manager, acceptor.Config{
		BindAttempts: server.BindAttempts,
		Logger:       log.With(log.FieldModule("acceptor")),
	})
	if err != nil {
		return errors.Wrapf(err, "listen on %s", address)
	}
	a.markReady(acc.Addr())
	logger.Info("started!", zap.Stringer("address", acc.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return acc.Serve(gctx)
	})
	g.Go(func() error {
		return manager.RunSweeper(gctx)
	})
	if a.cfg.Metrics.Address != "" {
		a.serveMetrics(gctx, g, a.cfg.Metrics.Address)
	}

	err = g.Wait()
	logger.Info("chat relay stopped", zap.Error(err))
	return err
}

func (a *Application) markReady(addr net.Addr) {
	a.mu.Lock()
	a.addr = addr
	a.mu.Unlock()
	close(a.ready)
}

// serveMetrics 在 address 上暴露 /metrics 与 /debug/pprof/，ctx 取消时关闭。
func (a *Application) serveMetrics(ctx context.Context, g *errgroup.Group, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("serving metrics", zap.String("address", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "metrics server on %s", address)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// initLogging 依据配置初始化全局 Logger。
func (a *Application) initLogging() error {
	cfg := a.cfg.Log
	logger, props, err := log.InitLogger(&cfg)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	log.ReplaceGlobals(logger, props)
	return nil
}
