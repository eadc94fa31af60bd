package log

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// WithLogger 由持有 Logger 的组件实现。
type WithLogger interface {
	Logger() *MLogger
}

var _ WithLogger = (*Binder)(nil)

// Binder 嵌入到长生命周期组件（接入器、聊天室管理器）中，
// 让组件在运行期间可以替换自己的 Logger。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// SetLogger 绑定 Logger，传入 nil 时恢复为全局 Logger。
func (b *Binder) SetLogger(logger *MLogger) {
	b.logger.Store(logger)
}

// BindComponent 绑定 base 的子 Logger，附带组件名与额外字段；base 为 nil 时使用全局 Logger。
func (b *Binder) BindComponent(base *MLogger, component string, fields ...zap.Field) {
	if base == nil {
		base = With()
	}
	b.SetLogger(base.With(append([]zap.Field{FieldComponent(component)}, fields...)...))
}

// Logger 返回已绑定的 Logger，未绑定时返回全局 Logger。
func (b *Binder) Logger() *MLogger {
	if l := b.logger.Load(); l != nil {
		return l
	}
	return With()
}
