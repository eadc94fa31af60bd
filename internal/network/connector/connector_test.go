package connector

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
)

func TestClientRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := framer.NewLineReader(conn, 0)
		for {
			line, err := r.ReadLine()
			if err != nil {
				return
			}
			_ = framer.WriteLine(conn, "echo "+line)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SendLine("hello"))
	line, err := c.ReadLine(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "echo hello", line)

	require.NoError(t, c.WriteRaw([]byte("par")))
	require.NoError(t, c.WriteRaw([]byte("tial\n")))
	line, err = c.ReadLine(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "echo partial", line)

	_, err = c.ReadLine(20 * time.Millisecond)
	assert.Error(t, err)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), addr)
	assert.Error(t, err)
}
