package session

import (
	"context"
	"net"
)

// Session 抽象了一条客户端文本会话。
//
// 约定：
//   - 每个 Session 对应一条底层 TCP 连接；
//   - Session ID 使用 64 位无符号整型，在进程内保持唯一；
//   - Session 只负责收发，不直接修改聊天室状态，读到的每一行都交给 Handler。
type Session interface {
	// ID 返回该会话在进程内的唯一标识。
	ID() uint64

	// TraceID 返回用于日志关联的随机标识。
	TraceID() string

	// Context 返回与该会话关联的上下文，会话销毁时触发 Done()。
	Context() context.Context

	// RemoteAddr 返回远端地址（客户端地址）。
	RemoteAddr() net.Addr

	// LocalAddr 返回本端地址（服务器监听地址）。
	LocalAddr() net.Addr

	// Nickname 返回会话昵称，未命名时为空字符串。
	Nickname() string

	// State 返回会话当前所处的命名状态。
	State() State

	// Rename 设置昵称并切换到 StateNamed。
	//
	// 说明：
	//   - 昵称唯一性由上层在同一临界区内校验，Session 本身不做检查。
	Rename(nickname string)

	// Start 启动接收协程，重复调用无副作用。
	Start()

	// Send 将一行文本投递到发送队列，不会阻塞调用方。
	//
	// 返回：
	//   - merr.ErrSessionClosed：会话已销毁；
	//   - merr.ErrSessionQueueFull：发送队列已满，本行被丢弃。
	Send(line string) error

	// Close 销毁会话：取消 Context 并关闭底层连接。
	//
	// 说明：
	//   - 多次调用是幂等的；
	//   - 被销毁的会话不会再触发 Handler.OnDisconnected。
	Close() error

	// Alive 表示会话是否仍可用。
	//
	// 会话被销毁、向对端写出失败，或对端已关闭连接且没有未读数据时返回 false。
	// TCP 连接上的检查是一次非阻塞的套接字窥探，不消费数据。
	Alive() bool
}

// Handler 接收会话读到的数据与断线通知。
//
// 回调总是携带会话 ID，实现方据此查找自己的状态，而不是持有会话的闭包。
type Handler interface {
	// OnMessage 在读到完整的一行后被调用，调用发生在该会话的接收协程中。
	//
	// 返回的错误与 panic 都会被会话捕获并记录，接收循环继续。
	OnMessage(id uint64, line string) error

	// OnDisconnected 在读失败或对端关闭连接时被调用，每个会话至多一次。
	OnDisconnected(id uint64, err error)
}
