package chat

import (
	"fmt"
	"strings"
	"time"
)

// 发往客户端的固定文本。
const (
	WelcomeMessage      = "Welcome to my chat server! What is your nickname?"
	NicknameTakenReply  = "This username is already taken! Please choose another one!"
	MentionAlert        = "\a"
	UnnamedLabel        = "unnamed"
	timestampLayout     = "15.04.05"
	connectedWithFormat = "You are connected with %d other users: [%s]"
	joinedFormat        = "*%s has joined the chat*"
	leftFormat          = "*%s has left the chat*"
	chatFormat          = "<%s> %s"
)

// formatTimestamped 为广播内容加上 HH.mm.ss 前缀。
func formatTimestamped(now time.Time, message string) string {
	return now.Format(timestampLayout) + " " + message
}

// formatConnectedWith 生成命名成功后的在线列表回复。
func formatConnectedWith(others int, nicknames []string) string {
	return fmt.Sprintf(connectedWithFormat, others, strings.Join(nicknames, ", "))
}

func formatJoined(nickname string) string {
	return fmt.Sprintf(joinedFormat, nickname)
}

func formatLeft(nickname string) string {
	return fmt.Sprintf(leftFormat, nickname)
}

func formatChat(nickname, text string) string {
	return fmt.Sprintf(chatFormat, nickname, text)
}
