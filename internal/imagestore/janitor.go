package imagestore

import (
	"github.com/robfig/cron/v3"

	"github.com/aurinko-app/daycal/internal/logging"
)

// Janitor runs the expiry sweep on a cron schedule, keeping purges off the
// resolution path.
type Janitor struct {
	cron  *cron.Cron
	store *Store
}

// NewJanitor schedules PurgeExpired on the store using a cron expression
// such as "@hourly". The schedule is validated before the janitor starts.
func NewJanitor(store *Store, schedule string) (*Janitor, error) {
	logger := logging.ForService("imagestore-janitor")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		count, err := store.PurgeExpired()
		if err != nil {
			logger.Error("Expiry sweep failed", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Expiry sweep complete", "purged", count)
		}
	})
	if err != nil {
		return nil, err
	}

	return &Janitor{cron: c, store: store}, nil
}

// Start begins running scheduled sweeps in the background.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule. A sweep already in progress finishes.
func (j *Janitor) Stop() {
	j.cron.Stop()
}
