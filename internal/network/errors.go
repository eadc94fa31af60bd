package network

import "github.com/cockroachdb/errors"

// Stage 表示网络收发链路中的处理阶段。
//
// 主要用于在日志与监控中标记错误发生的位置，便于排查。
type Stage string

const (
	StageAccept   Stage = "accept"   // 监听器接受新连接
	StageRecv     Stage = "recv"     // 从连接读取一行文本
	StageDispatch Stage = "dispatch" // 文本行 -> 业务处理
	StageSend     Stage = "send"     // 文本行写出到对端
	StageSweep    Stage = "sweep"    // 心跳清理
)

func (s Stage) String() string {
	return string(s)
}

// 统一的错误码常量。
//
// 注意：这些是用于日志/监控的稳定字符串，真正的 error 对象在下面构造。
const (
	ErrCodeAcceptFailed   = "network:accept_failed"
	ErrCodeRecvFailed     = "network:recv_failed"
	ErrCodeDispatchFailed = "network:dispatch_failed"
	ErrCodeSendFailed     = "network:send_failed"
)

var (
	// ErrAcceptFailed 表示监听器 Accept 时发生错误。
	ErrAcceptFailed = errors.New(ErrCodeAcceptFailed)

	// ErrRecvFailed 表示在读取底层连接数据时发生错误。
	ErrRecvFailed = errors.New(ErrCodeRecvFailed)

	// ErrDispatchFailed 表示业务处理一条文本行时返回错误或发生 panic。
	ErrDispatchFailed = errors.New(ErrCodeDispatchFailed)

	// ErrSendFailed 表示在发送数据到对端时发生错误。
	ErrSendFailed = errors.New(ErrCodeSendFailed)
)
