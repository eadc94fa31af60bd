package session

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	network "github.com/lk2023060901/chat-relay-go/internal/network"
	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// BaseSession 提供了 Session 接口的基础实现。
//
// 协程模型：
//   - 接收协程：Start 后启动，按行读取并回调 Handler；
//   - 发送协程：创建时启动，独占对 conn 的写操作，避免多协程写出的内容交叉。
type BaseSession struct {
	id      uint64
	traceID string

	ctx    context.Context
	cancel context.CancelFunc

	conn    net.Conn
	handler Handler

	remoteAddr net.Addr
	localAddr  net.Addr

	nickname *atomic.String
	state    *atomic.Int32

	// sendQueue 为待发送文本行的队列。
	//   - Send 仅负责投递，队列满时立即返回错误；
	//   - 通道从不关闭，发送协程通过 ctx 退出。
	sendQueue chan string

	maxLineSize int

	started     *atomic.Bool
	closed      *atomic.Bool
	writeFailed *atomic.Bool

	logger    *log.MLogger
	closeOnce sync.Once
}

// 确保 BaseSession 实现了 Session 接口。
var _ Session = (*BaseSession)(nil)

// NewBaseSession 创建一个基于 net.Conn 的基础 Session 实例，并启动其发送协程。
//
// 参数：
//   - parent：会话所属的上层上下文；若为 nil，则使用 context.Background()；
//   - id    ：会话 ID，由调用侧保证进程内唯一；
//   - conn  ：底层网络连接；
//   - h     ：接收数据与断线通知的 Handler。
func NewBaseSession(parent context.Context, id uint64, conn net.Conn, h Handler, opts ...Option) *BaseSession {
	if parent == nil {
		parent = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ctx, cancel := context.WithCancel(parent)

	s := &BaseSession{
		id:          id,
		traceID:     uuid.NewString(),
		ctx:         ctx,
		cancel:      cancel,
		conn:        conn,
		handler:     h,
		remoteAddr:  conn.RemoteAddr(),
		localAddr:   conn.LocalAddr(),
		nickname:    atomic.NewString(""),
		state:       atomic.NewInt32(int32(StateUnnamed)),
		sendQueue:   make(chan string, o.sendQueueSize),
		maxLineSize: o.maxLineSize,
		started:     atomic.NewBool(false),
		closed:      atomic.NewBool(false),
		writeFailed: atomic.NewBool(false),
	}

	logger := o.logger
	if logger == nil {
		logger = log.With(log.FieldComponent("session"))
	}
	s.logger = logger.With(
		log.FieldSessionID(id),
		zap.String(log.FieldNameTraceID, s.traceID),
		log.FieldRemote(addrString(s.remoteAddr)),
	)

	go s.sendLoop()

	return s
}

// ID 实现 Session.ID。
func (s *BaseSession) ID() uint64 {
	return s.id
}

// TraceID 实现 Session.TraceID。
func (s *BaseSession) TraceID() string {
	return s.traceID
}

// Context 实现 Session.Context。
func (s *BaseSession) Context() context.Context {
	return s.ctx
}

// RemoteAddr 实现 Session.RemoteAddr。
func (s *BaseSession) RemoteAddr() net.Addr {
	return s.remoteAddr
}

// LocalAddr 实现 Session.LocalAddr。
func (s *BaseSession) LocalAddr() net.Addr {
	return s.localAddr
}

// Nickname 实现 Session.Nickname。
func (s *BaseSession) Nickname() string {
	return s.nickname.Load()
}

// State 实现 Session.State。
func (s *BaseSession) State() State {
	return State(s.state.Load())
}

// Rename 实现 Session.Rename。
func (s *BaseSession) Rename(nickname string) {
	s.nickname.Store(nickname)
	s.state.Store(int32(StateNamed))
}

// Start 实现 Session.Start。
func (s *BaseSession) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.recvLoop()
}

// Send 实现 Session.Send。
func (s *BaseSession) Send(line string) error {
	if s.closed.Load() {
		return merr.WrapErrSessionClosed(s.id)
	}
	select {
	case s.sendQueue <- line:
		return nil
	default:
		metrics.SendQueueDroppedTotal.Inc()
		return merr.WrapErrSessionQueueFull(s.id, cap(s.sendQueue))
	}
}

// Close 实现 Session.Close。
func (s *BaseSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		// 先标记并取消上下文，接收协程据此区分“被销毁”与“对端断开”。
		s.closed.Store(true)
		s.cancel()
		if s.conn != nil {
			err = s.conn.Close()
		}
	})
	return err
}

// Alive 实现 Session.Alive。
func (s *BaseSession) Alive() bool {
	if s.closed.Load() || s.writeFailed.Load() {
		return false
	}
	return !peerGone(s.conn)
}

func (s *BaseSession) String() string {
	return fmt.Sprintf("session(%d, %s)", s.id, addrString(s.remoteAddr))
}

// recvLoop 持续按行读取并回调 Handler.OnMessage。
//
// 退出条件：
//   - 会话已被销毁：静默退出；
//   - 读失败或对端关闭：回调一次 Handler.OnDisconnected 后退出。
func (s *BaseSession) recvLoop() {
	reader := framer.NewLineReader(s.conn, s.maxLineSize)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			err = errors.Mark(err, network.ErrRecvFailed)
			metrics.SessionErrorsTotal.WithLabelValues(network.StageRecv.String()).Inc()
			s.logger.Warn("I/O error, with client",
				zap.String("stage", network.StageRecv.String()),
				log.FieldNickname(s.Nickname()),
				zap.Error(err))
			s.handler.OnDisconnected(s.id, err)
			return
		}
		metrics.LinesReceivedTotal.Inc()
		s.dispatch(line)
	}
}

// dispatch 回调 Handler.OnMessage，捕获并记录单行处理中的错误与 panic。
func (s *BaseSession) dispatch(line string) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerFailuresTotal.WithLabelValues("panic").Inc()
			s.logger.Warn("subscription error on client",
				zap.String("stage", network.StageDispatch.String()),
				log.FieldNickname(s.Nickname()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if err := s.handler.OnMessage(s.id, line); err != nil {
		metrics.HandlerFailuresTotal.WithLabelValues("error").Inc()
		s.logger.Warn("subscription error on client",
			zap.String("stage", network.StageDispatch.String()),
			log.FieldNickname(s.Nickname()),
			zap.Error(errors.Mark(err, network.ErrDispatchFailed)))
	}
}

// sendLoop 为每个会话启动的专职发送协程。
//
// 写失败后不再重试，仅将会话标记为失活，由心跳清理或下一次读失败完成回收。
func (s *BaseSession) sendLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case line := <-s.sendQueue:
			if err := framer.WriteLine(s.conn, line); err != nil {
				s.writeFailed.Store(true)
				if s.ctx.Err() == nil {
					metrics.SessionErrorsTotal.WithLabelValues(network.StageSend.String()).Inc()
					s.logger.Warn("write to client failed",
						zap.String("stage", network.StageSend.String()),
						log.FieldNickname(s.Nickname()),
						zap.Error(errors.Mark(err, network.ErrSendFailed)))
				}
				return
			}
		}
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
