package session

import (
	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
)

// defaultSendQueueSize 为每个会话的发送队列容量。
const defaultSendQueueSize = 1024

type options struct {
	sendQueueSize int
	maxLineSize   int
	logger        *log.MLogger
}

func defaultOptions() *options {
	return &options{
		sendQueueSize: defaultSendQueueSize,
		maxLineSize:   framer.DefaultMaxLineSize,
	}
}

// Option 用于配置 BaseSession。
type Option func(*options)

// WithSendQueueSize 设置发送队列容量，非正数时忽略。
func WithSendQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sendQueueSize = n
		}
	}
}

// WithMaxLineSize 设置单行允许的最大字节数，非正数时忽略。
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithLogger 指定会话使用的 Logger。
func WithLogger(l *log.MLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}
