package service

import (
	"fmt"
	"log"
	"time"

	"adria/internal/repository"
)

const pendingReservationTTL = 30 * time.Minute

type JobService struct {
	Repo       *repository.JobRepository
	Challenges *ChallengeService
	Limiter    *RateLimiter
}

func NewJobService(repo *repository.JobRepository, challenges *ChallengeService, limiter *RateLimiter) *JobService {
	return &JobService{Repo: repo, Challenges: challenges, Limiter: limiter}
}

// CancelStalePendingReservations cancels reservations left pending for too
// long and puts their slots back on the market.
func (s *JobService) CancelStalePendingReservations() error {
	before := time.Now().Add(-pendingReservationTTL)
	ids, err := s.Repo.GetStalePendingReservationIDs(before)
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending reservations: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Printf("Cron Job: found %d stale pending reservations. IDs: %v", len(ids), ids)

	if err := s.Repo.CancelReservationsAndReleaseSlots(ids, "expired before confirmation"); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale reservations: %w", err)
	}
	return nil
}

// DeletePastFreeSlots removes unbooked slots whose hour already passed.
func (s *JobService) DeletePastFreeSlots() error {
	deleted, err := s.Repo.DeletePastFreeSlots(time.Now())
	if err != nil {
		return fmt.Errorf("cron job: failed to delete past free slots: %w", err)
	}
	if deleted > 0 {
		log.Printf("Cron Job: deleted %d past free slots", deleted)
	}
	return nil
}

// PruneInMemoryState drops expired challenges and idle rate-limit entries.
func (s *JobService) PruneInMemoryState() {
	if n := s.Challenges.PruneExpired(); n > 0 {
		log.Printf("Cron Job: pruned %d expired challenges", n)
	}
	s.Limiter.Prune()
}
