//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package chat

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/chat-relay-go/internal/network/session"
)

type nopHandler struct{}

func (nopHandler) OnMessage(uint64, string) error { return nil }
func (nopHandler) OnDisconnected(uint64, error)   {}

func TestHeartbeatEvictsSessionsWhosePeerLeft(t *testing.T) {
	m := newTestManager(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()
	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server := <-accepted
	t.Cleanup(func() { _ = server.Close() })

	// 不启动接收协程，只有心跳能发现对端离开。
	sess := session.NewBaseSession(context.Background(), 7, server, nopHandler{})
	require.NoError(t, m.roster.Register(sess))
	assert.Equal(t, 0, m.Heartbeat())

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return m.Heartbeat() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, m.Count())
}
