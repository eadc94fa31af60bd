package router

import (
	"sync"

	"github.com/lk2023060901/chat-relay-go/internal/network/session"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// HandlerFunc 是路由到的业务处理函数。
//
// 说明：
//   - sess：当前会话，可用于读取昵称或直接回复；
//   - line：客户端发送的一行文本（已去除行尾）；
//   - 返回的 err 由会话记录，不会中断接收循环。
type HandlerFunc func(sess session.Session, line string) error

// Router 维护路由键到处理函数的映射。
//
// 典型调用链（服务器侧）：
//  1. 会话接收协程读到一行文本，回调上层 Handler.OnMessage(id, line)；
//  2. 上层根据会话当前状态得到路由键，调用 Router.Handle(key, sess, line)；
//  3. Router 找到对应的 HandlerFunc 并执行。
type Router[K comparable] interface {
	// Register 为路由键 key 注册处理函数。
	//
	// 同一路由键不允许重复注册，重复时返回 merr.ErrRouteDuplicated。
	Register(key K, h HandlerFunc) error

	// Handle 将一行文本分发给 key 对应的处理函数。
	//
	// 未注册的路由键返回 merr.ErrRouteNotFound。
	Handle(key K, sess session.Session, line string) error
}

// defaultRouter 是 Router 接口的基础实现。
type defaultRouter[K comparable] struct {
	mu     sync.RWMutex
	routes map[K]HandlerFunc
}

// New 创建一个空的 Router 实例。
func New[K comparable]() Router[K] {
	return &defaultRouter[K]{
		routes: make(map[K]HandlerFunc),
	}
}

// Register 实现 Router.Register。
func (r *defaultRouter[K]) Register(key K, h HandlerFunc) error {
	if h == nil {
		return merr.WrapErrParameterMissing("handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[key]; exists {
		return merr.WrapErrRouteDuplicated(key)
	}
	r.routes[key] = h
	return nil
}

// Handle 实现 Router.Handle。
func (r *defaultRouter[K]) Handle(key K, sess session.Session, line string) error {
	if sess == nil {
		return merr.WrapErrParameterMissing("session")
	}

	r.mu.RLock()
	h, ok := r.routes[key]
	r.mu.RUnlock()
	if !ok {
		return merr.WrapErrRouteNotFound(key)
	}
	return h(sess, line)
}
