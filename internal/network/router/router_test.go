package router

import (
	"context"
	"net"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/chat-relay-go/internal/network/session"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

type nopHandler struct{}

func (nopHandler) OnMessage(uint64, string) error { return nil }
func (nopHandler) OnDisconnected(uint64, error)   {}

func newSession(t *testing.T) session.Session {
	t.Helper()
	server, client := net.Pipe()
	sess := session.NewBaseSession(context.Background(), 1, server, nopHandler{})
	t.Cleanup(func() {
		_ = sess.Close()
		_ = client.Close()
	})
	return sess
}

func TestRouterDispatchByState(t *testing.T) {
	r := New[session.State]()
	var got []string
	require.NoError(t, r.Register(session.StateUnnamed, func(_ session.Session, line string) error {
		got = append(got, "nick:"+line)
		return nil
	}))
	require.NoError(t, r.Register(session.StateNamed, func(_ session.Session, line string) error {
		got = append(got, "chat:"+line)
		return nil
	}))

	sess := newSession(t)
	require.NoError(t, r.Handle(sess.State(), sess, "alice"))
	sess.Rename("alice")
	require.NoError(t, r.Handle(sess.State(), sess, "hi"))
	assert.Equal(t, []string{"nick:alice", "chat:hi"}, got)
}

func TestRouterErrors(t *testing.T) {
	r := New[session.State]()
	errBoom := errors.New("boom")
	require.NoError(t, r.Register(session.StateNamed, func(session.Session, string) error { return errBoom }))

	assert.ErrorIs(t, r.Register(session.StateNamed, func(session.Session, string) error { return nil }), merr.ErrRouteDuplicated)
	assert.ErrorIs(t, r.Register(session.StateUnnamed, nil), merr.ErrParameterMissing)

	sess := newSession(t)
	assert.ErrorIs(t, r.Handle(session.StateUnnamed, sess, "x"), merr.ErrRouteNotFound)
	assert.ErrorIs(t, r.Handle(session.StateNamed, sess, "x"), errBoom)
	assert.ErrorIs(t, r.Handle(session.StateNamed, nil, "x"), merr.ErrParameterMissing)
}
