// Package scheduler provisions next month's expense tab ahead of time
// so the first entry of a month never pays the creation latency.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provisioner creates a month tab when it does not exist yet.
type Provisioner interface {
	EnsureSheet(ctx context.Context, name string) error
}

// Notifier pushes a message to the chat surface.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler fires once a month, on the configured trigger day at
// midnight in the configured timezone.
type Scheduler struct {
	store      Provisioner
	notifier   Notifier
	loc        *time.Location
	triggerDay int
	now        func() time.Time
	log        zerolog.Logger

	closeChan chan struct{}
	wg        sync.WaitGroup
}

// New builds a scheduler. now defaults to time.Now when nil.
func New(store Provisioner, notifier Notifier, loc *time.Location, triggerDay int, now func() time.Time, log zerolog.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		store:      store,
		notifier:   notifier,
		loc:        loc,
		triggerDay: triggerDay,
		now:        now,
		log:        log,
		closeChan:  make(chan struct{}),
	}
}

// Start launches the background loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info().Int("trigger_day", s.triggerDay).Msg("monthly sheet scheduler started")
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for {
		wait := time.Until(s.nextRun())
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			s.RunOnce(ctx)
			cancel()
		case <-s.closeChan:
			timer.Stop()
			return
		}
	}
}

// nextRun finds the next trigger day at midnight, local time.
func (s *Scheduler) nextRun() time.Time {
	now := s.now().In(s.loc)
	next := time.Date(now.Year(), now.Month(), s.triggerDay, 0, 0, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// RunOnce provisions next month's tab and reports the outcome to the
// chat. Safe to call manually.
func (s *Scheduler) RunOnce(ctx context.Context) {
	next := s.now().In(s.loc).AddDate(0, 1, 0)
	partition := fmt.Sprintf("%02d/%d", int(next.Month()), next.Year())

	if err := s.store.EnsureSheet(ctx, partition); err != nil {
		s.log.Error().Err(err).Str("sheet", partition).Msg("monthly sheet creation failed")
		s.send(ctx, fmt.Sprintf("❌ *Không thể tạo bảng cho tháng %s*", partition))
		return
	}
	s.log.Info().Str("sheet", partition).Msg("monthly sheet ready")
	s.send(ctx, fmt.Sprintf("✅ *Đã tạo bảng theo dõi cho tháng %s*", partition))
}

func (s *Scheduler) send(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Error().Err(err).Msg("scheduler notification failed")
	}
}

// Stop shuts the loop down, waiting up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	close(s.closeChan)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
