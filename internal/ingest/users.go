package ingest

import (
	"context"

	"github.com/ebarrios/tgsearch/internal/repository"
)

// resolveUser fetches and persists a sender profile the first time the id is
// seen in this run. The id is marked resolved before the fetch: a failed or
// empty lookup is not retried within the run, so one broken profile cannot
// stall a crawl with repeated lookups. The next run gets a fresh chance.
//
// Only a store failure returns an error; lookup failures are skipped.
func (s *Service) resolveUser(ctx context.Context, run *runState, userID int64, stats *ChatStats) error {
	if _, done := run.processedUsers[userID]; done {
		return nil
	}
	run.processedUsers[userID] = struct{}{}

	info, err := s.tg.GetUser(ctx, userID)
	if err != nil {
		s.log.Debug().Err(err).Int64("user_id", userID).Msg("user lookup failed, skipping")
		return nil
	}
	if info == nil {
		return nil
	}

	user := repository.User{
		UserID:    info.ID,
		Username:  optional(info.Username),
		FirstName: info.FirstName,
		LastName:  info.LastName,
	}
	if err := s.gateway.UpsertUser(ctx, user); err != nil {
		return err
	}
	stats.Users++

	return nil
}
