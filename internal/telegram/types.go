package telegram

import (
	"github.com/gotd/td/tg"
)

// ChatType classifies a dialog the way the canonical schema stores it.
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Dialog is one entry of the account's chat list, with everything the crawler
// needs to request history for it.
type Dialog struct {
	ChatID   int64
	Type     ChatType
	Title    string
	Username string // empty when the chat has none
	Peer     tg.InputPeerClass
}

// UserInfo is a resolved sender profile.
type UserInfo struct {
	ID        int64
	Username  string // empty when the user has none
	FirstName string
	LastName  string
}

// deriveChatType maps a chat list entry to the canonical chat type.
// Broadcast channels map to "channel" even when the raw type is a supergroup
// variant; anything unrecognized defaults to "group".
func deriveChatType(chat tg.ChatClass) ChatType {
	switch c := chat.(type) {
	case *tg.Chat:
		return ChatTypeGroup
	case *tg.Channel:
		if c.Broadcast {
			return ChatTypeChannel
		}
		if c.Megagroup {
			return ChatTypeSupergroup
		}
		return ChatTypeSupergroup
	default:
		return ChatTypeGroup
	}
}
