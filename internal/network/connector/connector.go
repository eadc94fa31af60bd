package connector

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// Client 是一条按行收发的客户端连接，主要用于联调与测试。
//
// 注意：客户端连接不包含会话 ID 概念。
type Client struct {
	conn   net.Conn
	reader *framer.LineReader

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial 连接到 addr，ctx 控制拨号阶段的超时与取消。
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, merr.WrapErrIoFailed(addr, err)
	}
	return NewClient(conn), nil
}

// NewClient 基于已有连接创建 Client。
func NewClient(conn net.Conn) *Client {
	return &Client{
		conn:   conn,
		reader: framer.NewLineReader(conn, 0),
	}
}

// LocalAddr 返回本端地址。
func (c *Client) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr 返回服务端地址。
func (c *Client) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// SendLine 发送一行文本，自动追加 '\n'。
func (c *Client) SendLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return framer.WriteLine(c.conn, line)
}

// WriteRaw 原样写出字节，用于构造残缺行等场景。
func (c *Client) WriteRaw(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(b); err != nil {
		return merr.WrapErrIoFailed("write raw", err)
	}
	return nil
}

// ReadLine 读取一行，timeout > 0 时超过该时长返回超时错误。
//
// ReadLine 只应在单个协程中调用。
func (c *Client) ReadLine(timeout time.Duration) (string, error) {
	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", err
		}
		defer c.conn.SetReadDeadline(time.Time{})
	}
	return c.reader.ReadLine()
}

// Close 关闭连接，可重复调用。
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}
