package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SnapshotPruner is the slice of the snapshot repository the nightly job
// needs.
type SnapshotPruner interface {
	PruneOld(ctx context.Context, keep int) (int64, error)
}

// keepVersions is how many wiring snapshot versions survive per project.
const keepVersions = 10

type Scheduler struct {
	snaps SnapshotPruner
	c     *cron.Cron
}

func NewScheduler(snaps SnapshotPruner) *Scheduler {
	return &Scheduler{snaps: snaps}
}

// Start initializes cron tasks (nightly at 12:00AM).
func (s *Scheduler) Start() {
	s.c = cron.New(cron.WithSeconds())

	_, err := s.c.AddFunc("0 0 0 * * *", s.runNightly)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (snapshot pruning nightly at 12:00AM)")
	s.c.Start()
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

func (s *Scheduler) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := s.snaps.PruneOld(ctx, keepVersions)
	if err != nil {
		log.Printf("Snapshot pruning failed: %v", err)
		return
	}
	log.Printf("Snapshot pruning done, removed %d old versions", n)
}
