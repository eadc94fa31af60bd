package session

// SessionManager 是在线会话的索引，只登记与查询，不负责创建或关闭连接。
//
// 所有遍历类方法都按注册先后排序。
type SessionManager interface {
	// Register 登记 sess，ID 已存在时返回 merr.ErrSessionAlreadyRegistered 且保留旧会话。
	Register(sess Session) error

	Get(id uint64) (sess Session, ok bool)

	// Unregister 移除 id 对应的索引，不关闭会话。
	// id 未登记时返回 merr.ErrSessionNotFound。
	Unregister(id uint64) error

	// Range 在快照上遍历，fn 返回 false 时停止。
	Range(fn func(sess Session) bool)

	// Find 返回第一个满足 match 的会话。
	Find(match func(sess Session) bool) (Session, bool)

	Snapshot() []Session
	Count() int
}
