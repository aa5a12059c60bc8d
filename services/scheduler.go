// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// expiredRetention is how long an expired participation stays in the Active
// state before the sweep retires it to Dormant. Keeping a grace period means
// a just-expired mission still answers "expired" (SMC004) on completion
// attempts instead of "not activated", and restarting it is still rejected as
// in-progress. A retired participation can be restarted, which re-arms the
// 7-day deadline.
const expiredRetention = 30 * 24 * time.Hour

// StartDeadlineSweep runs a minutely job that moves long-expired live
// participations to Dormant. This sweep is the only writer that ever sets
// activated=false.
func (s *MissionService) StartDeadlineSweep() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			cutoff := s.now().Add(-expiredRetention)
			n, err := s.participations.DeactivateExpired(cutoff)
			if err != nil {
				log.Printf("[Sweep] DB error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Retired %d expired participations", n)
			}
		}),
	)
}
