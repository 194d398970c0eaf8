package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/storage"
	"github.com/alexanderramin/taskflow/internal/timer"
	"github.com/google/uuid"
)

// ErrNoActiveTimer is returned when a session is requested while the timer is idle.
var ErrNoActiveTimer = errors.New("no active timer")

// timerService owns the single timer of a user. It is created once by the
// composition root; every transition is persisted and ended segments are
// banked through the ledger.
type timerService struct {
	mu      sync.Mutex
	store   *storage.Manager
	ledger  LedgerService
	userID  string
	state   domain.TimerState
	session *domain.ActiveSession
	opts    options
}

// NewTimerService restores the persisted timer for userID.
func NewTimerService(ctx context.Context, store *storage.Manager, ledger LedgerService, userID string, opts ...Option) TimerService {
	s := &timerService{
		store:  store,
		ledger: ledger,
		userID: userID,
		opts:   buildOptions(opts),
	}
	s.state = store.TimerState(ctx)
	if s.state.Status() != domain.TimerIdle {
		for _, as := range store.ActiveSessions(ctx) {
			if as.UserID == userID && as.TaskID == s.state.TaskID {
				s.session = &as
				break
			}
		}
	}
	return s
}

func (s *timerService) Start(ctx context.Context, taskID string) (TimerResult, error) {
	return s.apply(ctx, "timer-start", timer.Start(taskID))
}

func (s *timerService) Pause(ctx context.Context) (TimerResult, error) {
	return s.apply(ctx, "timer-pause", timer.Pause())
}

func (s *timerService) Resume(ctx context.Context) (TimerResult, error) {
	return s.apply(ctx, "timer-resume", timer.Resume())
}

func (s *timerService) Stop(ctx context.Context) (TimerResult, error) {
	return s.apply(ctx, "timer-stop", timer.Stop())
}

// apply runs one transition. The state always advances; a non-nil error
// means the ended segment could not be banked.
func (s *timerService) apply(ctx context.Context, name string, ev timer.Event) (res TimerResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.opts.observer, name, startedAt, fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	tr := timer.Apply(s.state, ev, now)
	fields["changed"] = tr.Changed
	if !tr.Changed {
		return TimerResult{State: s.state}, nil
	}

	if seg := tr.Segment; seg != nil {
		fields["segment_ms"] = seg.Elapsed.Milliseconds()
		if seg.Capped {
			s.opts.logger.WarnContext(ctx, "timer segment capped", "task_id", seg.TaskID, "max", domain.MaxEntryDuration)
		}
		res.Entry, err = s.ledger.AddFromTimerStop(ctx, seg.TaskID, s.userID, seg.Start, seg.End)
		if err != nil {
			err = fmt.Errorf("banking %s segment: %w", seg.TaskID, err)
		}
	}

	s.state = tr.State
	fields["task_id"] = s.state.TaskID
	if !s.store.SaveTimerState(ctx, s.state) {
		s.opts.logger.WarnContext(ctx, "timer state not persisted", "task_id", s.state.TaskID)
	}
	s.syncSessionLocked(ctx, ev, now)

	res.State = s.state
	res.Changed = true
	return res, err
}

// syncSessionLocked keeps the active-session record in step with the timer.
func (s *timerService) syncSessionLocked(ctx context.Context, ev timer.Event, now time.Time) {
	status := s.state.Status()

	if status == domain.TimerIdle || ev.Action == timer.ActionStart {
		if s.session != nil {
			s.store.RemoveActiveSession(ctx, s.session.ID)
			s.session = nil
		}
		if status == domain.TimerIdle {
			return
		}
	}

	if s.session == nil {
		s.session = &domain.ActiveSession{
			ID:        uuid.New().String(),
			TaskID:    s.state.TaskID,
			UserID:    s.userID,
			StartedAt: now,
		}
	}
	s.session.Status = status
	s.session.LastActiveAt = now
	s.store.AddActiveSession(ctx, *s.session)
}

func (s *timerService) State() domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *timerService) CurrentElapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timer.Elapsed(s.state, s.opts.now())
}

func (s *timerService) ActiveSession() (*domain.ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status() == domain.TimerIdle {
		return nil, ErrNoActiveTimer
	}
	if s.session == nil {
		return &domain.ActiveSession{
			TaskID:       s.state.TaskID,
			UserID:       s.userID,
			Status:       s.state.Status(),
			StartedAt:    s.state.LastUpdated,
			LastActiveAt: s.state.LastUpdated,
		}, nil
	}
	as := *s.session
	return &as, nil
}

// Watch publishes the elapsed time immediately and then on every interval
// while the timer runs. The channel is closed once the timer stops running
// or ctx is cancelled. Watching never persists anything.
func (s *timerService) Watch(ctx context.Context, interval time.Duration) <-chan time.Duration {
	if interval <= 0 {
		interval = time.Second
	}
	ch := make(chan time.Duration, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			elapsed, running := s.snapshot()
			if !running {
				return
			}
			select {
			case ch <- elapsed:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (s *timerService) snapshot() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timer.Elapsed(s.state, s.opts.now()), s.state.IsRunning
}
