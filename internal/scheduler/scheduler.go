package scheduler

import (
	"log/slog"

	"github.com/pawbase/pawbase/internal/session"
	"github.com/robfig/cron/v3"
)

// RunSessionSweeper starts a background cron job that drops expired web
// sessions on the given schedule (cron expression, e.g. "@every 5m").
// Returns the cron runner so the caller can Stop it on shutdown.
func RunSessionSweeper(store *session.MemoryStore, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if removed := store.Sweep(); removed > 0 {
			slog.Info("session sweep", "removed", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
