package console

import (
	"context"
	"time"
)

// Poll re-runs both status checks every poll interval until ctx is done.
// Checks run one after the other, as a single tick.
func (c *Controller) Poll(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.log.Info().Dur("interval", c.pollInterval).Msg("status polling started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("status polling stopped")
			return
		case <-ticker.C:
			c.CheckAPIHealth(ctx)
			c.CheckDatabaseStatus(ctx)
		}
	}
}
