package chat

import (
	"regexp"
	"strings"
)

// mentionPattern 要求整行恰好是一个提醒标记，嵌在句子中的 @name 不会命中。
var mentionPattern = regexp.MustCompile(`^(?:^|\s)@([A-z]+)\b$`)

// extractMention 返回整行匹配后去掉前导 @ 的内容。
//
// 以空白开头的行（如 " @bob"）同样能匹配，但前缀 @ 不在首位，
// 得到的目标带着空白，不会对应任何昵称。
func extractMention(line string) (string, bool) {
	match := mentionPattern.FindString(line)
	if match == "" {
		return "", false
	}
	return strings.TrimPrefix(match, "@"), true
}
