package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/samokat-api/pkg/logger"
)

// PendingExpirer marca como fallidos los pagos pendientes más viejos que ttl.
type PendingExpirer interface {
	ExpirePending(ctx context.Context, ttl time.Duration) (int64, error)
}

// Scheduler jobs periódicos del servicio.
type Scheduler struct {
	c   *cron.Cron
	log *logger.Logger
}

// New crea el scheduler; los jobs que entran en pánico se recuperan y no se solapan.
func New(log *logger.Logger) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	return &Scheduler{c: c, log: log}
}

// SchedulePaymentExpiry registra el job de vencimiento de pagos con la expresión spec.
func (s *Scheduler) SchedulePaymentExpiry(spec string, expirer PendingExpirer, ttl time.Duration) error {
	_, err := s.c.AddFunc(spec, func() { s.runPaymentExpiry(expirer, ttl) })
	if err != nil {
		return fmt.Errorf("scheduler: expresión %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) runPaymentExpiry(expirer PendingExpirer, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := expirer.ExpirePending(ctx, ttl)
	if err != nil {
		s.log.Error().Err(err).Msg("cron: vencimiento de pagos pendientes")
		return
	}
	if n > 0 {
		s.log.Info().Int64("expired", n).Msg("cron: pagos pendientes marcados como fallidos")
	}
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop detiene el scheduler y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
