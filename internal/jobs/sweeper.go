package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/repository"
)

// Sweeper purges expired bearer tokens on a cron schedule.
type Sweeper struct {
	cron     *cron.Cron
	tokens   *repository.TokenRepository
	schedule string
	log      zerolog.Logger
}

func NewSweeper(tokens *repository.TokenRepository, schedule string, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(cron.WithSeconds()),
		tokens:   tokens,
		schedule: schedule,
		log:      log,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits briefly for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("token sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired tokens swept")
	}
}
