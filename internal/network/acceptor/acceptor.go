package acceptor

import (
	"context"
	"net"
	"time"

	"github.com/lk2023060901/chat-relay-go/pkg/log"
)

// Config 描述 Acceptor 在接入层面的配置。
//
// 说明：
//   - BackoffInitial/BackoffMax 控制 Accept 连续失败时的指数退避区间；
//   - BindAttempts 为监听地址绑定失败时的最大尝试次数（至少 1 次）。
type Config struct {
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	BindAttempts uint

	// Logger 为接入器使用的 Logger，为 nil 时使用全局 Logger。
	Logger *log.MLogger
}

// 默认配置。
func defaultConfig() Config {
	return Config{
		BackoffInitial: 5 * time.Millisecond,
		BackoffMax:     time.Second,
		BindAttempts:   1,
	}
}

func (c Config) withDefaults() Config {
	def := defaultConfig()
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = def.BackoffInitial
	}
	if c.BackoffMax < c.BackoffInitial {
		c.BackoffMax = def.BackoffMax
		if c.BackoffMax < c.BackoffInitial {
			c.BackoffMax = c.BackoffInitial
		}
	}
	if c.BindAttempts == 0 {
		c.BindAttempts = def.BindAttempts
	}
	return c
}

// Handler 由使用者实现，接收每一条新连接。
//
// 说明：
//   - OnAccept 在接入协程中同步调用，应尽快返回；
//   - 返回错误时接入器负责关闭该连接。
type Handler interface {
	OnAccept(conn net.Conn) error
}

// HandlerFunc 允许直接使用函数作为 Handler。
type HandlerFunc func(conn net.Conn) error

// OnAccept 实现 Handler。
func (f HandlerFunc) OnAccept(conn net.Conn) error {
	return f(conn)
}

// Acceptor 抽象了服务器侧的 TCP 接入层。
//
// 职责：
//   - 在 listener 上循环接受连接并交给 Handler；
//   - 单次 Accept 失败只记录并退避，不终止服务。
type Acceptor interface {
	// Serve 启动接入循环，阻塞直至 ctx 取消或 listener 被关闭。
	Serve(ctx context.Context) error

	// Close 关闭 listener，可重复调用。
	Close() error

	// Addr 返回实际监听的地址。
	Addr() net.Addr
}
