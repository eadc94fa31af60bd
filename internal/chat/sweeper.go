package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	network "github.com/lk2023060901/chat-relay-go/internal/network"
	"github.com/lk2023060901/chat-relay-go/internal/network/session"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/conc"
)

// Heartbeat 扫描名单，注销所有已失活的会话，不广播离开消息。
//
// 返回被清理的会话数量。
func (m *Manager) Heartbeat() int {
	snapshot := m.roster.Snapshot()
	if len(snapshot) == 0 {
		return 0
	}

	futures := make([]*conc.Future[bool], len(snapshot))
	for i, sess := range snapshot {
		futures[i] = m.probes.Submit(func() (bool, error) {
			return sess.Alive(), nil
		})
	}

	dead := make([]session.Session, 0)
	for i, future := range futures {
		alive, err := future.Await()
		if err != nil {
			// 探活任务未能执行时视为存活，留给下一轮。
			m.Logger().Debug("liveness check not executed",
				zap.String("stage", network.StageSweep.String()),
				log.FieldSessionID(snapshot[i].ID()),
				zap.Error(err))
			continue
		}
		if !alive {
			dead = append(dead, snapshot[i])
		}
	}
	if len(dead) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for _, sess := range dead {
		if _, ok := m.roster.Get(sess.ID()); !ok {
			continue
		}
		m.Logger().Info("discarding disconnected client",
			log.FieldSessionID(sess.ID()),
			log.FieldNickname(sess.Nickname()))
		m.deregisterLocked(sess.ID())
		metrics.SweeperEvictionsTotal.Inc()
		evicted++
	}
	return evicted
}

// RunSweeper 周期性执行 Heartbeat，直到 ctx 被取消。
//
// 单轮出现 panic 时记录日志，下一轮照常执行。
func (m *Manager) RunSweeper(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *Manager) sweepOnce() {
	defer func() {
		if r := recover(); r != nil {
			m.Logger().Error("heartbeat panicked",
				zap.String("stage", network.StageSweep.String()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	m.Heartbeat()
}
