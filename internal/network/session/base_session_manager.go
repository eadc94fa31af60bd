package session

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// BaseSessionManager 是 SessionManager 的内存实现。
//
// order 记录注册顺序，遍历时先在读锁内复制再回调，回调中可以安全地再次访问管理器。
type BaseSessionManager struct {
	mu       sync.RWMutex
	sessions map[uint64]Session
	order    []uint64
}

var _ SessionManager = (*BaseSessionManager)(nil)

func NewBaseSessionManager() *BaseSessionManager {
	return &BaseSessionManager{sessions: make(map[uint64]Session)}
}

func (m *BaseSessionManager) Register(sess Session) error {
	if sess == nil {
		return merr.WrapErrParameterMissing("session")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := sess.ID()
	if _, dup := m.sessions[id]; dup {
		return merr.WrapErrSessionAlreadyRegistered(id)
	}
	m.sessions[id] = sess
	m.order = append(m.order, id)
	return nil
}

func (m *BaseSessionManager) Get(id uint64) (Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	return sess, ok
}

func (m *BaseSessionManager) Unregister(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return merr.WrapErrSessionNotFound(id)
	}
	delete(m.sessions, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

func (m *BaseSessionManager) Range(fn func(sess Session) bool) {
	if fn == nil {
		return
	}
	for _, sess := range m.Snapshot() {
		if !fn(sess) {
			return
		}
	}
}

func (m *BaseSessionManager) Find(match func(sess Session) bool) (Session, bool) {
	return lo.Find(m.Snapshot(), match)
}

// Snapshot 返回按注册顺序排列的会话副本。
func (m *BaseSessionManager) Snapshot() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Map(m.order, func(id uint64, _ int) Session {
		return m.sessions[id]
	})
}

func (m *BaseSessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
