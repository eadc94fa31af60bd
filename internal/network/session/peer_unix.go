//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package session

import (
	"net"
	"syscall"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// peerGone 以非阻塞 MSG_PEEK 检查对端是否已发送 FIN 或 RST，不消费任何数据。
//
// 读缓冲区仍有未读数据时返回 false，由接收协程读完后自行发现 EOF。
func peerGone(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return false
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return false
	}

	gone := false
	var buf [1]byte
	// Control 不占用读锁，接收协程阻塞在 Read 时也可以调用。
	cerr := rc.Control(func(fd uintptr) {
		n, _, err := unix.Recvfrom(int(fd), buf[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch {
		case err == nil:
			gone = n == 0
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
		default:
			gone = true
		}
	})
	if cerr != nil {
		// 文件描述符已关闭。
		return true
	}
	return gone
}
