package session

// State 表示会话的命名状态。
type State int32

const (
	// StateUnnamed 为初始状态，下一行文本被视为申请的昵称。
	StateUnnamed State = iota
	// StateNamed 表示已取得唯一昵称，之后的文本行作为聊天消息广播。
	StateNamed
)

func (s State) String() string {
	switch s {
	case StateUnnamed:
		return "unnamed"
	case StateNamed:
		return "named"
	default:
		return "unknown"
	}
}
