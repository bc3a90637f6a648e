package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RosterRefresher redraws every event roster once at start and then on each
// tick, catching up on reactions made while the bot was offline. It returns
// when ctx is done.
func (bot *Bot) RosterRefresher(ctx context.Context, interval time.Duration) error {
	runEvery(ctx, interval, func(ctx context.Context) {
		if err := bot.engine.RefreshRosters(ctx); err != nil && ctx.Err() == nil {
			bot.logger.Error("Failed to refresh rosters.", zap.Error(err))
		}
	})
	bot.logger.Info("Stopped roster refresher.")
	return nil
}

func runEvery(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
