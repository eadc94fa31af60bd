package chat

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/chat-relay-go/internal/network/acceptor"
	"github.com/lk2023060901/chat-relay-go/internal/network/router"
	"github.com/lk2023060901/chat-relay-go/internal/network/session"
	"github.com/lk2023060901/chat-relay-go/pkg/buffer/ring"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/conc"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
	"github.com/lk2023060901/chat-relay-go/pkg/util/typeutil"
)

// NoExclude 表示广播不排除任何会话，会话 ID 从 1 开始分配。
const NoExclude uint64 = 0

// Manager 维护聊天室的全部共享状态：在线名单、聊天历史与已占用的昵称。
//
// 并发约定：
//   - mu 保护昵称的检查与占用、历史追加、广播遍历以及注册与注销；
//   - 加锁顺序固定为 mu 在前、名单内部锁在后；
//   - 广播只向会话发送队列投递，不等待网络写出，持锁时间有界。
type Manager struct {
	log.Binder

	ctx  context.Context
	opts *options

	mu        sync.Mutex
	roster    *session.BaseSessionManager
	history   *ring.Ring[string]
	nicknames typeutil.Set[string]

	router router.Router[session.State]
	probes *conc.Pool[bool]
	nextID *atomic.Uint64

	sessionLogger *log.MLogger
}

var (
	_ acceptor.Handler = (*Manager)(nil)
	_ session.Handler  = (*Manager)(nil)
)

// NewManager 创建 Manager。
//
// ctx 作为所有会话的上层上下文，ctx 取消时所有会话随之销毁。
func NewManager(ctx context.Context, opts ...Option) *Manager {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Manager{
		ctx:       ctx,
		opts:      o,
		roster:    session.NewBaseSessionManager(),
		history:   ring.New[string](o.historySize),
		nicknames: typeutil.NewSet[string](),
		router:    router.New[session.State](),
		probes:    conc.NewPool[bool](o.probeWorkers, conc.WithConcealPanic(true)),
		nextID:    atomic.NewUint64(0),
	}
	base := o.logger
	if base == nil {
		base = log.With(log.FieldModule("chat"))
	}
	m.BindComponent(base, "manager")
	m.sessionLogger = base.With(log.FieldComponent("session"))
	m.Logger().WithRateGroup("chat.delivery", 1, 30)
	m.Logger().Debug("liveness check pool ready", zap.Int("workers", m.probes.Cap()))

	// 路由键固定且只注册一次，失败说明代码本身有误。
	if err := m.router.Register(session.StateUnnamed, m.handleNickname); err != nil {
		panic(err)
	}
	if err := m.router.Register(session.StateNamed, m.handleChat); err != nil {
		panic(err)
	}
	return m
}

// OnAccept 实现 acceptor.Handler。
func (m *Manager) OnAccept(conn net.Conn) error {
	return m.RegisterNewClient(conn)
}

// RegisterNewClient 为新连接创建会话，发送欢迎语，登记到名单后启动接收。
//
// 欢迎语先于登记入队，登记先于启动接收，因此客户端收到的第一行总是欢迎语，
// 且接收协程读到的任何一行都能在名单中找到对应会话。
func (m *Manager) RegisterNewClient(conn net.Conn) error {
	if conn == nil {
		return merr.WrapErrParameterMissing("conn")
	}

	id := m.nextID.Inc()
	sess := session.NewBaseSession(m.ctx, id, conn, m,
		session.WithSendQueueSize(m.opts.sendQueueSize),
		session.WithMaxLineSize(m.opts.maxLineSize),
		session.WithLogger(m.sessionLogger),
	)

	if err := sess.Send(WelcomeMessage); err != nil {
		_ = sess.Close()
		return err
	}

	m.mu.Lock()
	err := m.roster.Register(sess)
	m.mu.Unlock()
	if err != nil {
		_ = sess.Close()
		return err
	}

	metrics.SessionsOnline.Inc()
	m.Logger().Debug("client connected",
		log.FieldSessionID(id),
		log.FieldRemote(conn.RemoteAddr().String()))

	sess.Start()
	return nil
}

// OnMessage 实现 session.Handler，按会话当前状态路由。
func (m *Manager) OnMessage(id uint64, line string) error {
	sess, ok := m.roster.Get(id)
	if !ok {
		return merr.WrapErrSessionNotFound(id)
	}
	return m.router.Handle(sess.State(), sess, line)
}

// OnDisconnected 实现 session.Handler：广播离开消息后注销会话。
//
// 会话已被注销（例如被心跳清理）时不做任何事。
func (m *Manager) OnDisconnected(id uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.roster.Get(id)
	if !ok {
		return
	}

	nickname := UnnamedLabel
	if sess.State() == session.StateNamed {
		nickname = sess.Nickname()
	}
	m.Logger().Info("client disconnected",
		log.FieldSessionID(id),
		log.FieldNickname(nickname),
		zap.Error(err))

	m.broadcastLocked(formatLeft(nickname), NoExclude)
	m.deregisterLocked(id)
}

// BroadcastToAll 为消息加上时间戳，写入历史，并投递给除 exclude 之外的所有会话。
func (m *Manager) BroadcastToAll(message string, exclude uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcastLocked(message, exclude)
}

// DeregisterClient 销毁会话并将其移出名单，释放其昵称。重复调用无副作用。
func (m *Manager) DeregisterClient(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deregisterLocked(id)
}

// RecordChatMessage 将一条消息追加到历史，满时先淘汰最早的一条。
func (m *Manager) RecordChatMessage(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordLocked(message)
}

// History 按时间顺序返回当前历史的副本。
func (m *Manager) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Snapshot()
}

// Count 返回名单中的会话数量。
func (m *Manager) Count() int {
	return m.roster.Count()
}

// Nicknames 按连接顺序返回已命名会话的昵称。
func (m *Manager) Nicknames() []string {
	return namedNicknames(m.roster.Snapshot(), NoExclude)
}

// Close 销毁所有会话并释放探活协程池。
func (m *Manager) Close() {
	m.mu.Lock()
	for _, sess := range m.roster.Snapshot() {
		m.deregisterLocked(sess.ID())
	}
	m.mu.Unlock()
	m.probes.Release()
}

func (m *Manager) broadcastLocked(message string, exclude uint64) {
	start := time.Now()
	formatted := formatTimestamped(m.opts.clock(), message)
	m.recordLocked(formatted)

	for _, sess := range m.roster.Snapshot() {
		if sess.ID() == exclude {
			continue
		}
		m.deliver(sess, formatted)
	}

	metrics.BroadcastsTotal.Inc()
	metrics.BroadcastLatency.Observe(float64(time.Since(start).Microseconds()) / 1000)
}

func (m *Manager) recordLocked(message string) {
	m.history.Push(message)
	metrics.HistoryLength.Set(float64(m.history.Len()))
}

func (m *Manager) deregisterLocked(id uint64) {
	sess, ok := m.roster.Get(id)
	if !ok {
		return
	}
	_ = sess.Close()
	_ = m.roster.Unregister(id)

	if sess.State() == session.StateNamed {
		m.nicknames.Remove(sess.Nickname())
		metrics.NamedSessions.Dec()
	}
	metrics.SessionsOnline.Dec()
}

// deliver 向单个会话投递一行，失败只记录日志。
func (m *Manager) deliver(sess session.Session, line string) {
	err := sess.Send(line)
	if err == nil {
		return
	}
	fields := []zap.Field{
		log.FieldSessionID(sess.ID()),
		log.FieldNickname(sess.Nickname()),
		zap.Error(err),
	}
	if errors.Is(err, merr.ErrSessionClosed) {
		m.Logger().Debug("skip delivery to closed session", fields...)
		return
	}
	m.Logger().RatedWarn(1, "delivery to client dropped", fields...)
}

// namedNicknames 返回 sessions 中除 exclude 外已命名会话的昵称。
func namedNicknames(sessions []session.Session, exclude uint64) []string {
	return lo.FilterMap(sessions, func(sess session.Session, _ int) (string, bool) {
		return sess.Nickname(), sess.ID() != exclude && sess.State() == session.StateNamed
	})
}
