package framer

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// 协议约定：
//   - 一帧即一行 UTF-8 文本，以 '\n' 结尾；
//   - 读取时若行尾带有 '\r'，一并去掉；
//   - 写出时统一追加 '\n'。

const (
	// DefaultMaxLineSize 为单行（不含行尾）允许的最大字节数。
	DefaultMaxLineSize = 64 * 1024

	readBufferSize = 4096
)

// LineReader 从字节流中按行读取文本。
//
// LineReader 不是并发安全的，每条连接只应由其接收协程持有一个实例。
type LineReader struct {
	r       *bufio.Reader
	maxSize int
}

// NewLineReader 创建一个按行读取的 LineReader。
// maxSize <= 0 时使用 DefaultMaxLineSize。
func NewLineReader(r io.Reader, maxSize int) *LineReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxLineSize
	}
	return &LineReader{
		r:       bufio.NewReaderSize(r, readBufferSize),
		maxSize: maxSize,
	}
}

// ReadLine 读取下一行，返回的字符串不包含行尾。
//
// 行为：
//   - 对端在行中途关闭连接时，先返回已读到的残缺行（err 为 nil），下一次调用再返回 io.EOF；
//   - 单行超过最大长度时返回 merr.ErrIoLineTooLong，调用方应结束会话；
//   - 其余读错误原样返回，已读到的残缺数据被丢弃。
func (lr *LineReader) ReadLine() (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for {
		frag, err := lr.r.ReadSlice('\n')
		buf.B = append(buf.B, frag...)

		switch {
		case err == nil:
			line := trimLineEnding(buf.B)
			if len(line) > lr.maxSize {
				return "", merr.WrapErrIoLineTooLong(lr.maxSize)
			}
			return string(line), nil

		case errors.Is(err, bufio.ErrBufferFull):
			// 行尾 '\r' 最多多占一个字节。
			if buf.Len() > lr.maxSize+1 {
				return "", merr.WrapErrIoLineTooLong(lr.maxSize)
			}

		case errors.Is(err, io.EOF) && buf.Len() > 0:
			line := trimLineEnding(buf.B)
			if len(line) > lr.maxSize {
				return "", merr.WrapErrIoLineTooLong(lr.maxSize)
			}
			return string(line), nil

		default:
			return "", err
		}
	}
}

// WriteLine 将一行文本追加 '\n' 后一次性写入 w。
func WriteLine(w io.Writer, line string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(line)
	_ = buf.WriteByte('\n')

	if _, err := w.Write(buf.B); err != nil {
		return merr.WrapErrIoFailed("write line", err)
	}
	return nil
}

func trimLineEnding(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}
