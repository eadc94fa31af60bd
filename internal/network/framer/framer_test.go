package framer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

func TestReadLine(t *testing.T) {
	lr := NewLineReader(strings.NewReader("alice\nhello world\r\n\n"), 0)

	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "alice", line)

	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)

	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "", line)

	_, err = lr.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLinePartialAtEOF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("bye"), 0)

	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "bye", line)

	_, err = lr.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLineLongerThanBuffer(t *testing.T) {
	long := strings.Repeat("x", readBufferSize*3)
	lr := NewLineReader(strings.NewReader(long+"\nnext\n"), 0)

	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, long, line)

	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestReadLineTooLong(t *testing.T) {
	lr := NewLineReader(strings.NewReader(strings.Repeat("y", 17)+"\n"), 16)
	_, err := lr.ReadLine()
	assert.ErrorIs(t, err, merr.ErrIoLineTooLong)

	lr = NewLineReader(strings.NewReader(strings.Repeat("z", readBufferSize*2)), 16)
	_, err = lr.ReadLine()
	assert.ErrorIs(t, err, merr.ErrIoLineTooLong)
}

func TestReadLineExactLimit(t *testing.T) {
	lr := NewLineReader(strings.NewReader(strings.Repeat("a", 16)+"\r\n"), 16)
	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Len(t, line, 16)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReadLineError(t *testing.T) {
	lr := NewLineReader(failingReader{}, 0)
	_, err := lr.ReadLine()
	assert.EqualError(t, err, "connection reset")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, "12.00.00 <alice> hi"))
	require.NoError(t, WriteLine(&buf, "\a"))
	assert.Equal(t, "12.00.00 <alice> hi\n\a\n", buf.String())

	err := WriteLine(failingWriter{}, "x")
	assert.ErrorIs(t, err, merr.ErrIoFailed)
}
