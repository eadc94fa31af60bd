package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMention(t *testing.T) {
	cases := []struct {
		line   string
		target string
		ok     bool
	}{
		{line: "@Alice", target: "Alice", ok: true},
		{line: "@bob", target: "bob", ok: true},
		// [A-z] 覆盖了 '_' 等位于大小写字母之间的字符。
		{line: "@bob_", target: "bob_", ok: true},
		// 行首空白同样能整行匹配，但得到的目标带着空白。
		{line: " @bob", target: " @bob", ok: true},
		{line: "hey @Alice", ok: false},
		{line: "@Alice hello", ok: false},
		{line: "@Alice!", ok: false},
		{line: "@Alice1", ok: false},
		{line: "@", ok: false},
		{line: "", ok: false},
		{line: "Alice", ok: false},
	}
	for _, c := range cases {
		target, ok := extractMention(c.line)
		assert.Equal(t, c.ok, ok, "line %q", c.line)
		assert.Equal(t, c.target, target, "line %q", c.line)
	}
}
