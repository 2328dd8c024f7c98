package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// retention is how long soft-deleted projects and orphaned plan snapshots
// are kept before the nightly purge removes them for good.
const retention = 30 * 24 * time.Hour

type ProjectPurger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PlanPurger interface {
	PurgeOrphansBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the nightly data-retention job.
type Scheduler struct {
	cron     *cron.Cron
	projects ProjectPurger
	plans    PlanPurger
}

func NewScheduler(projects ProjectPurger, plans PlanPurger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		projects: projects,
		plans:    plans,
	}
}

// Start schedules the purge at midnight every day and launches the cron
// loop. Errors here mean the schedule expression is broken, so they are
// fatal for the caller to decide on.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.purge); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("[cron] nightly purge scheduled")
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-retention)

	n, err := s.projects.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[cron] project purge failed: %v", err)
	} else if n > 0 {
		log.Printf("[cron] purged %d soft-deleted projects", n)
	}

	n, err = s.plans.PurgeOrphansBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[cron] plan purge failed: %v", err)
	} else if n > 0 {
		log.Printf("[cron] purged %d orphaned MVP plans", n)
	}
}
