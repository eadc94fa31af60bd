//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
)

// tcpPair 返回一对回环 TCP 连接，第一个为服务端一侧。
func tcpPair(t *testing.T) (*net.TCPConn, *net.TCPConn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server, ok := <-accepted
	require.True(t, ok)
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return server.(*net.TCPConn), client.(*net.TCPConn)
}

func newTCPSession(t *testing.T) (*BaseSession, *net.TCPConn, *net.TCPConn) {
	t.Helper()
	server, client := tcpPair(t)
	sess := NewBaseSession(context.Background(), 1, server, newRecordingHandler())
	t.Cleanup(func() { _ = sess.Close() })
	return sess, server, client
}

func TestAliveDetectsPeerShutdown(t *testing.T) {
	sess, _, client := newTCPSession(t)
	assert.True(t, sess.Alive())

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return !sess.Alive() }, 2*time.Second, 10*time.Millisecond)
}

func TestAliveDetectsPeerReset(t *testing.T) {
	sess, _, client := newTCPSession(t)

	require.NoError(t, client.SetLinger(0))
	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return !sess.Alive() }, 2*time.Second, 10*time.Millisecond)
}

func TestAliveKeepsUnreadData(t *testing.T) {
	sess, server, client := newTCPSession(t)

	_, err := client.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, client.CloseWrite())

	// 缓冲区有数据时对端的 FIN 不可见。
	time.Sleep(50 * time.Millisecond)
	for range [5]struct{}{} {
		assert.True(t, sess.Alive())
	}

	line, err := framer.NewLineReader(server, 0).ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
	assert.Eventually(t, func() bool { return !sess.Alive() }, 2*time.Second, 10*time.Millisecond)
}

func TestAliveAfterClose(t *testing.T) {
	sess, _, _ := newTCPSession(t)
	require.NoError(t, sess.Close())
	assert.False(t, sess.Alive())
}
