package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameTraceID   = "traceID"
	FieldNameSessionID = "sessionID"
	FieldNameNickname  = "nickname"
	FieldNameRemote    = "remote"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldSessionID 返回会话编号字段。
func FieldSessionID(id uint64) zap.Field {
	return zap.Uint64(FieldNameSessionID, id)
}

// FieldNickname 返回会话昵称字段，未命名时输出空字符串。
func FieldNickname(nickname string) zap.Field {
	return zap.String(FieldNameNickname, nickname)
}

// FieldRemote 返回对端地址字段。
func FieldRemote(addr string) zap.Field {
	return zap.String(FieldNameRemote, addr)
}
