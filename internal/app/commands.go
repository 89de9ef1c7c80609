package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"idx_pro/internal/domain"
)

// ErrInvalidLead is returned when a required contact field is missing.
// Validation failures surface to the caller; nothing past validation does.
var ErrInvalidLead = errors.New("name, email, phone and message are required")

const forwardTimeout = 10 * time.Second

// LeadService accepts contact-form submissions. The local acknowledgment is
// authoritative: persistence and the provider forward happen afterwards,
// bounded by a semaphore, and their failures are logged and swallowed.
type LeadService struct {
	provider domain.ListingsProvider
	repo     domain.LeadRepository // nil disables persistence
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

func NewLeadService(provider domain.ListingsProvider, repo domain.LeadRepository, workers int) *LeadService {
	if workers <= 0 {
		workers = 4
	}
	return &LeadService{
		provider: provider,
		repo:     repo,
		sem:      semaphore.NewWeighted(int64(workers)),
	}
}

// Submit validates and accepts a lead. On success the lead (with its
// assigned id) is returned immediately; forwarding continues in the
// background and never affects the acknowledgment.
func (s *LeadService) Submit(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	if l.Name == "" || l.Email == "" || l.Phone == "" || l.Message == "" {
		return domain.Lead{}, ErrInvalidLead
	}
	l.ID = uuid.NewString()

	log.Info().
		Str("lead_id", l.ID).
		Str("email", l.Email).
		Str("property_id", l.PropertyID).
		Str("type", l.Type).
		Msg("lead accepted")

	// Detached from the request context: the ack has already been given.
	if err := s.sem.Acquire(ctx, 1); err != nil {
		log.Warn().Err(err).Str("lead_id", l.ID).Msg("lead forward skipped")
		return l, nil
	}
	s.wg.Add(1)
	go func(l domain.Lead) {
		defer s.wg.Done()
		defer s.sem.Release(1)
		s.forward(l)
	}(l)

	return l, nil
}

func (s *LeadService) forward(l domain.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
	defer cancel()

	if s.repo != nil {
		if err := s.repo.SaveLead(ctx, l); err != nil {
			log.Error().Err(err).Str("lead_id", l.ID).Msg("lead persist failed")
		}
	}
	if err := s.provider.SubmitInquiry(ctx, l); err != nil {
		log.Error().Err(err).Str("lead_id", l.ID).Msg("inquiry forward failed")
	}
}

// Drain waits for in-flight forwards; used on shutdown and in tests.
func (s *LeadService) Drain() { s.wg.Wait() }
