package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"github.com/ebarrios/tgsearch/internal/telegram"
)

// historyRetries bounds the attempts per history page before the chat's
// crawl gives up. A transient rpc failure must not read as end-of-history.
const historyRetries = 3

// retryBackoff is the initial delay between attempts, doubled each retry.
var retryBackoff = 500 * time.Millisecond

// crawlChat pages backward through one chat's history, newest first.
//
// The cursor starts at 0 ("from the top") and advances to the oldest id seen
// in the raw page, not the normalized one: ids must advance past rejected
// entries too, or a page full of service messages would loop forever. The
// crawl stops on an empty page, a short page (end of history), an exhausted
// page budget, or a page that keeps failing after retries.
//
// The returned error is reserved for store failures, which abort the whole
// run. Rpc failures end this chat's crawl and are reported in the stats.
func (s *Service) crawlChat(ctx context.Context, run *runState, dialog telegram.Dialog) (*ChatStats, error) {
	stats := &ChatStats{}
	offsetID := 0

	for page := 0; page < s.opts.MaxPages; page++ {
		raw, err := s.fetchPage(ctx, dialog.Peer, offsetID)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Errors++
			s.log.Error().Err(err).
				Int64("chat_id", dialog.ChatID).
				Int("offset_id", offsetID).
				Msg("history page failed after retries, ending chat crawl")
			return stats, nil
		}

		if len(raw) == 0 {
			break
		}
		stats.Fetched += len(raw)

		for _, rawMsg := range raw {
			msg, ok := Normalize(dialog.ChatID, rawMsg)
			if !ok {
				stats.Rejected++
				continue
			}

			if err := s.gateway.UpsertMessage(ctx, msg); err != nil {
				return stats, err
			}
			stats.Persisted++

			if msg.FromUserID != nil {
				if err := s.resolveUser(ctx, run, *msg.FromUserID, stats); err != nil {
					return stats, err
				}
			}
		}

		oldest := oldestMessageID(raw)
		if oldest <= 0 || len(raw) < s.opts.PageSize {
			break
		}
		offsetID = oldest
	}

	s.log.Info().
		Int64("chat_id", dialog.ChatID).
		Int("fetched", stats.Fetched).
		Int("persisted", stats.Persisted).
		Int("rejected", stats.Rejected).
		Msg("chat crawl finished")

	return stats, nil
}

// fetchPage requests one history page, retrying transient failures with
// doubling backoff. FLOOD_WAIT pauses are already handled by the client's
// rate limiter; this covers everything else.
func (s *Service) fetchPage(ctx context.Context, peer tg.InputPeerClass, offsetID int) ([]tg.MessageClass, error) {
	var lastErr error
	backoff := retryBackoff

	for attempt := 0; attempt < historyRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		raw, err := s.tg.HistoryPage(ctx, peer, offsetID, s.opts.PageSize)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryableError(err) {
			s.log.Warn().Err(err).Msg("history page failed with an access error, not retrying")
			return nil, err
		}
		s.log.Warn().Err(err).Int("attempt", attempt+1).Msg("history page attempt failed")
	}

	return nil, lastErr
}

// accessErrorCodes are rpc errors that cannot succeed on retry within a run:
// the account simply cannot read the peer anymore.
var accessErrorCodes = []string{
	"CHANNEL_PRIVATE",
	"CHANNEL_INVALID",
	"CHAT_FORBIDDEN",
	"PEER_ID_INVALID",
	"USER_BANNED_IN_CHANNEL",
}

func retryableError(err error) bool {
	msg := err.Error()
	for _, code := range accessErrorCodes {
		if strings.Contains(msg, code) {
			return false
		}
	}
	return true
}

// oldestMessageID returns the minimum id in a raw page, 0 for an empty page.
func oldestMessageID(raw []tg.MessageClass) int {
	oldest := 0
	for _, m := range raw {
		id := m.GetID()
		if oldest == 0 || id < oldest {
			oldest = id
		}
	}
	return oldest
}
