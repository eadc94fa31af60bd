package chat

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/chat-relay-go/internal/network/session"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/metrics"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// handleNickname 处理未命名会话发来的一行：把它当作申请的昵称。
//
// 检查与占用在同一临界区内完成，两个会话同时申请同一昵称时只有一个成功。
func (m *Manager) handleNickname(sess session.Session, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.roster.Get(sess.ID()); !ok {
		return merr.WrapErrSessionNotFound(sess.ID())
	}

	if !m.nicknames.TryInsert(line) {
		metrics.NicknameRejectionsTotal.Inc()
		m.Logger().Debug("nickname rejected",
			log.FieldSessionID(sess.ID()),
			zap.Error(merr.WrapErrNicknameTaken(line)))
		m.deliver(sess, NicknameTakenReply)
		return nil
	}

	sess.Rename(line)
	metrics.NamedSessions.Inc()

	snapshot := m.roster.Snapshot()
	m.deliver(sess, formatConnectedWith(len(snapshot)-1, namedNicknames(snapshot, sess.ID())))
	m.history.Range(func(entry string) bool {
		m.deliver(sess, entry)
		return true
	})
	m.broadcastLocked(formatJoined(line), NoExclude)

	m.Logger().Info("client named",
		log.FieldSessionID(sess.ID()),
		log.FieldNickname(line))
	return nil
}

// handleChat 广播已命名会话的聊天消息，整行为 @name 时向该昵称单独发送提醒。
func (m *Manager) handleChat(sess session.Session, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.roster.Get(sess.ID()); !ok {
		return merr.WrapErrSessionNotFound(sess.ID())
	}

	m.broadcastLocked(formatChat(sess.Nickname(), line), NoExclude)

	target, ok := extractMention(line)
	if !ok {
		return nil
	}
	other, ok := m.roster.Find(func(s session.Session) bool {
		return s.State() == session.StateNamed && s.Nickname() == target
	})
	if ok {
		m.deliver(other, MentionAlert)
		metrics.MentionsTotal.Inc()
	}
	return nil
}
