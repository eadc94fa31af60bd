package acceptor

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	network "github.com/lk2023060901/chat-relay-go/internal/network"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
	"github.com/lk2023060901/chat-relay-go/pkg/util/retry"
)

// BaseAcceptor 是 Acceptor 接口的基础 TCP 实现。
//
// 设计目标：
//   - 对外只暴露 Acceptor 接口和 Handler 回调，不绑定具体业务逻辑；
//   - 内部负责：接受连接、在失败时退避重试、把连接交给 Handler。
type BaseAcceptor struct {
	log.Binder

	ln      net.Listener
	handler Handler
	cfg     Config

	closeOnce sync.Once
}

// 确保 BaseAcceptor 实现了 Acceptor 接口。
var _ Acceptor = (*BaseAcceptor)(nil)

// NewBaseAcceptor 使用已有的 Listener 创建一个基础接入器。
func NewBaseAcceptor(ln net.Listener, h Handler, cfg Config) (*BaseAcceptor, error) {
	if ln == nil {
		return nil, merr.WrapErrParameterMissing("listener")
	}
	if h == nil {
		return nil, merr.WrapErrParameterMissing("handler")
	}
	cfg = cfg.withDefaults()

	a := &BaseAcceptor{
		ln:      ln,
		handler: h,
		cfg:     cfg,
	}
	a.BindComponent(cfg.Logger, "acceptor", zap.Stringer("addr", ln.Addr()))
	a.Logger().WithRateGroup("acceptor.accept", 1, 10)
	return a, nil
}

// NewTCPAcceptor 在给定地址上监听 TCP，并创建一个基础接入器。
//
// 绑定失败时按 cfg.BindAttempts 指数退避重试，全部失败后返回最后一次错误。
func NewTCPAcceptor(ctx context.Context, addr string, h Handler, cfg Config) (*BaseAcceptor, error) {
	if addr == "" {
		return nil, merr.WrapErrParameterMissing("addr")
	}
	cfg = cfg.withDefaults()

	var ln net.Listener
	err := retry.Do(ctx, func() error {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		ln = l
		return nil
	}, retry.Attempts(cfg.BindAttempts), retry.Sleep(100*time.Millisecond))
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}
	return NewBaseAcceptor(ln, h, cfg)
}

// Addr 实现 Acceptor.Addr。
func (a *BaseAcceptor) Addr() net.Addr {
	return a.ln.Addr()
}

// Serve 实现 Acceptor.Serve。
//
// ctx 取消时 listener 会被关闭，Serve 返回 nil。
func (a *BaseAcceptor) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = a.Close()
	})
	defer stop()

	bo := a.newBackOff()
	logger := a.Logger()
	logger.Info("acceptor serving")

	for {
		conn, err := a.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logger.Info("acceptor stopped")
				return nil
			}

			metrics.AcceptErrorsTotal.Inc()
			wait := bo.NextBackOff()
			logger.RatedWarn(1, "I/O error",
				zap.String("stage", network.StageAccept.String()),
				zap.Duration("backoff", wait),
				zap.Error(errors.Mark(err, network.ErrAcceptFailed)))

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				logger.Info("acceptor stopped")
				return nil
			}
			continue
		}

		bo.Reset()
		metrics.ConnectionsAcceptedTotal.Inc()
		a.dispatch(conn)
	}
}

// Close 实现 Acceptor.Close。
func (a *BaseAcceptor) Close() error {
	var err error
	a.closeOnce.Do(func() {
		err = a.ln.Close()
	})
	return err
}

// dispatch 把连接交给 Handler，Handler 出错或 panic 时关闭连接，接入循环不受影响。
func (a *BaseAcceptor) dispatch(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			_ = conn.Close()
			a.Logger().Error("accept handler panicked",
				zap.Stringer("remote", conn.RemoteAddr()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if err := a.handler.OnAccept(conn); err != nil {
		_ = conn.Close()
		a.Logger().Warn("accept handler rejected connection",
			zap.Stringer("remote", conn.RemoteAddr()),
			zap.Error(err))
	}
}

func (a *BaseAcceptor) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.cfg.BackoffInitial
	bo.MaxInterval = a.cfg.BackoffMax
	// 接入循环永不放弃。
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}
