// Package telegram provides the MTProto client wrapper used by the crawler.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/celestix/gotgproto"
	"github.com/gotd/td/tg"

	"github.com/ebarrios/tgsearch/internal/logger"
)

// Client wraps a gotgproto client and exposes the four operations the
// ingestion pipeline needs: list dialogs, fetch a history page, resolve a
// user profile, close the session. Every call is rate limited and reports
// FLOOD_WAIT backoff to the limiter.
type Client struct {
	proto       *gotgproto.Client
	rateLimiter *RateLimiter
	peers       *peerCache
	log         *logger.Logger
}

// NewClient creates a client wrapper around an authorized gotgproto client.
func NewClient(proto *gotgproto.Client) *Client {
	return &Client{
		proto:       proto,
		rateLimiter: DefaultRateLimiter(),
		peers:       newPeerCache(),
		log:         logger.Get(),
	}
}

// Close releases the underlying session.
func (c *Client) Close() {
	if c.proto != nil {
		c.proto.Stop()
	}
}

func (c *Client) api() *tg.Client {
	return c.proto.API()
}

// ListDialogs returns up to limit entries of the main chat list, newest
// activity first. Access hashes seen in the response are cached so later
// history and user requests can address the same peers.
func (c *Client) ListDialogs(ctx context.Context, limit int) ([]Dialog, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Info().Int("limit", limit).Msg("telegram: listing dialogs")
	result, err := c.api().MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      limit,
	})
	if err != nil {
		if wait := c.checkFloodWait(err); wait > 0 {
			c.rateLimiter.SetFloodWait(wait)
		}
		return nil, fmt.Errorf("get dialogs: %w", err)
	}

	var (
		rawDialogs []tg.DialogClass
		rawChats   []tg.ChatClass
		rawUsers   []tg.UserClass
	)
	switch d := result.(type) {
	case *tg.MessagesDialogs:
		rawDialogs, rawChats, rawUsers = d.Dialogs, d.Chats, d.Users
	case *tg.MessagesDialogsSlice:
		rawDialogs, rawChats, rawUsers = d.Dialogs, d.Chats, d.Users
	default:
		return nil, fmt.Errorf("unexpected dialogs response %T", result)
	}

	c.peers.absorbUsers(rawUsers)

	chats := make(map[int64]tg.ChatClass, len(rawChats))
	for _, chat := range rawChats {
		chats[chat.GetID()] = chat
	}
	users := make(map[int64]*tg.User, len(rawUsers))
	for _, u := range rawUsers {
		if user, ok := u.(*tg.User); ok {
			users[user.ID] = user
		}
	}

	var dialogs []Dialog
	for _, raw := range rawDialogs {
		d, ok := raw.(*tg.Dialog)
		if !ok {
			continue
		}
		if dialog, ok := c.buildDialog(d.Peer, chats, users); ok {
			dialogs = append(dialogs, dialog)
		}
		if len(dialogs) >= limit {
			break
		}
	}

	c.log.Info().Int("dialogs", len(dialogs)).Msg("telegram: dialog list fetched")
	return dialogs, nil
}

// buildDialog resolves one dialog peer against the chats/users carried in the
// same response.
func (c *Client) buildDialog(peer tg.PeerClass, chats map[int64]tg.ChatClass, users map[int64]*tg.User) (Dialog, bool) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := users[p.UserID]
		if !ok {
			return Dialog{}, false
		}
		return Dialog{
			ChatID:   dialogChatID(peer),
			Type:     ChatTypePrivate,
			Title:    strings.TrimSpace(user.FirstName + " " + user.LastName),
			Username: user.Username,
			Peer:     &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash},
		}, true
	case *tg.PeerChat:
		chat, ok := chats[p.ChatID].(*tg.Chat)
		if !ok {
			return Dialog{}, false
		}
		return Dialog{
			ChatID: dialogChatID(peer),
			Type:   ChatTypeGroup,
			Title:  chat.Title,
			Peer:   &tg.InputPeerChat{ChatID: chat.ID},
		}, true
	case *tg.PeerChannel:
		channel, ok := chats[p.ChannelID].(*tg.Channel)
		if !ok {
			return Dialog{}, false
		}
		return Dialog{
			ChatID:   dialogChatID(peer),
			Type:     deriveChatType(channel),
			Title:    channel.Title,
			Username: channel.Username,
			Peer:     &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash},
		}, true
	}
	return Dialog{}, false
}

// dialogChatID maps a peer to a single stable chat id. The bot-api convention
// keeps the three peer id namespaces disjoint: users keep their id, basic
// groups are negated, channels get the -100 prefix.
func dialogChatID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return -p.ChatID
	case *tg.PeerChannel:
		return -1000000000000 - p.ChannelID
	}
	return 0
}

// HistoryPage fetches up to limit messages older than offsetID from one chat,
// newest first. offsetID 0 means "from the top". The raw message classes are
// returned untouched; normalization happens in the ingest package.
func (c *Client) HistoryPage(ctx context.Context, peer tg.InputPeerClass, offsetID, limit int) ([]tg.MessageClass, error) {
	if limit > 100 {
		limit = 100 // telegram api limit
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Debug().Int("offset_id", offsetID).Int("limit", limit).Msg("telegram: fetching history page")
	history, err := c.api().MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     peer,
		OffsetID: offsetID,
		Limit:    limit,
	})
	if err != nil {
		if wait := c.checkFloodWait(err); wait > 0 {
			c.log.Warn().Int("wait_seconds", wait).Msg("telegram: FLOOD_WAIT in history fetch")
			c.rateLimiter.SetFloodWait(wait)
		}
		return nil, fmt.Errorf("get history: %w", err)
	}

	switch h := history.(type) {
	case *tg.MessagesMessages:
		c.peers.absorbUsers(h.Users)
		return h.Messages, nil
	case *tg.MessagesMessagesSlice:
		c.peers.absorbUsers(h.Users)
		return h.Messages, nil
	case *tg.MessagesChannelMessages:
		c.peers.absorbUsers(h.Users)
		return h.Messages, nil
	case *tg.MessagesMessagesNotModified:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected history response %T", history)
	}
}

// GetUser resolves a sender profile by id. Returns (nil, nil) when the peer
// cannot be addressed (no cached access hash) or the server returns nothing;
// callers treat that as "profile unavailable", not as an error.
func (c *Client) GetUser(ctx context.Context, userID int64) (*UserInfo, error) {
	hash, ok := c.peers.userHash(userID)
	if !ok {
		c.log.Debug().Int64("user_id", userID).Msg("telegram: no access hash for user")
		return nil, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.api().UsersGetUsers(ctx, []tg.InputUserClass{
		&tg.InputUser{UserID: userID, AccessHash: hash},
	})
	if err != nil {
		if wait := c.checkFloodWait(err); wait > 0 {
			c.rateLimiter.SetFloodWait(wait)
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	for _, u := range result {
		if user, ok := u.(*tg.User); ok && user.ID == userID {
			return &UserInfo{
				ID:        user.ID,
				Username:  user.Username,
				FirstName: user.FirstName,
				LastName:  user.LastName,
			}, nil
		}
	}
	return nil, nil
}

// checkFloodWait checks if error is a FLOOD_WAIT error and returns wait seconds.
func (c *Client) checkFloodWait(err error) int {
	if err == nil {
		return 0
	}

	// gotd errors are usually wrapped, matching the raw string is the most
	// reliable way without coupling to the tgerr representation
	str := err.Error()
	if !strings.Contains(str, "FLOOD_WAIT_") {
		return 0
	}

	var seconds int
	parts := strings.Split(str, "FLOOD_WAIT_")
	if len(parts) > 1 {
		// suffix may carry " (caused by ...)" noise, a simple scan handles it
		_, _ = fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &seconds)
	}
	return seconds
}

// peerCache remembers user access hashes seen in dialog and history
// responses, so sender profiles can be requested later in the run.
type peerCache struct {
	mu         sync.RWMutex
	userHashes map[int64]int64
}

func newPeerCache() *peerCache {
	return &peerCache{userHashes: make(map[int64]int64)}
}

func (p *peerCache) absorbUsers(users []tg.UserClass) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			p.userHashes[user.ID] = user.AccessHash
		}
	}
}

func (p *peerCache) userHash(userID int64) (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	hash, ok := p.userHashes[userID]
	return hash, ok
}
