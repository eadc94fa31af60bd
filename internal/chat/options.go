package chat

import (
	"time"

	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
)

const (
	// DefaultHistorySize 为聊天历史保留的最大条数。
	DefaultHistorySize = 10
	// DefaultSweepInterval 为心跳清理的周期。
	DefaultSweepInterval = 250 * time.Millisecond
	// DefaultSendQueueSize 为每个会话发送队列的容量。
	DefaultSendQueueSize = 1024
	// DefaultProbeWorkers 为心跳探活协程池的容量。
	DefaultProbeWorkers = 8
)

type options struct {
	historySize   int
	sweepInterval time.Duration
	sendQueueSize int
	maxLineSize   int
	probeWorkers  int
	clock         func() time.Time
	logger        *log.MLogger
}

func defaultOptions() *options {
	return &options{
		historySize:   DefaultHistorySize,
		sweepInterval: DefaultSweepInterval,
		sendQueueSize: DefaultSendQueueSize,
		maxLineSize:   framer.DefaultMaxLineSize,
		probeWorkers:  DefaultProbeWorkers,
		clock:         time.Now,
	}
}

// Option 用于配置 Manager。
type Option func(*options)

// WithHistorySize 设置历史容量，非正数时忽略。
func WithHistorySize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historySize = n
		}
	}
}

// WithSweepInterval 设置心跳清理周期，非正数时忽略。
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sweepInterval = d
		}
	}
}

// WithSendQueueSize 设置新会话的发送队列容量。
func WithSendQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sendQueueSize = n
		}
	}
}

// WithMaxLineSize 设置新会话允许的单行最大字节数。
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithProbeWorkers 设置探活协程池容量。
func WithProbeWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.probeWorkers = n
		}
	}
}

// WithClock 替换时间戳使用的时钟，主要用于测试。
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger 指定 Manager 使用的 Logger。
func WithLogger(l *log.MLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}
