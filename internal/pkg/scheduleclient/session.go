package scheduleclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"golang.org/x/sync/errgroup"
)

var ErrSaveInProgress = errors.New("save already in progress")

// ScheduleAPI is the part of the server a Session talks to. *Client satisfies it.
type ScheduleAPI interface {
	GetSchedule(ctx context.Context, week int) (schedule.ScheduleResponse, error)
	Assign(ctx context.Context, req schedule.AssignEmployeeRequest) (schedule.AssignEmployeeResponse, error)
}

// FailedChange is a change the server rejected during the last Save.
type FailedChange struct {
	Change PendingChange
	Err    error
}

// Session holds an editable view of one week and the changes staged against it.
// The view always equals the last fetched week with every pending change applied.
type Session struct {
	api  ScheduleAPI
	week int

	mu      sync.Mutex
	view    schedule.ScheduleResponse
	pending []PendingChange
	failed  []FailedChange
	saving  bool
}

// NewSession loads week and returns an idle session for it.
func NewSession(ctx context.Context, api ScheduleAPI, week int) (*Session, error) {
	view, err := api.GetSchedule(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load week %d: %w", week, err)
	}
	return &Session{api: api, week: week, view: view}, nil
}

func (s *Session) Week() int {
	return s.week
}

// View returns a copy of the current view.
func (s *Session) View() schedule.ScheduleResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

func (s *Session) Pending() []PendingChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PendingChange(nil), s.pending...)
}

// Failed returns the changes rejected by the last Save. They are still pending.
func (s *Session) Failed() []FailedChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FailedChange(nil), s.failed...)
}

// Stage applies the assignment to the view and queues it.
// An employee already in the cell is rejected with schedule.ErrDuplicateAssignment and nothing changes.
func (s *Session) Stage(employeeRef, day string, shift schedule.Shift) error {
	change := PendingChange{EmployeeRef: employeeRef, Day: day, Shift: shift, Week: s.week}.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := ApplyChange(s.view, change)
	if err != nil {
		return err
	}
	s.view = next
	s.pending = append(s.pending, change)
	return nil
}

// Save sends every pending change as its own Assign call, concurrently.
// A server-side duplicate counts as saved. Failed changes stay queued and the view
// is rebuilt from the server's week plus whatever is still pending.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	batch := append([]PendingChange(nil), s.pending...)
	if len(batch) == 0 {
		s.failed = nil
		s.mu.Unlock()
		return nil
	}
	s.saving = true
	s.mu.Unlock()

	results := make([]error, len(batch))
	var g errgroup.Group
	for i, change := range batch {
		g.Go(func() error {
			_, err := s.api.Assign(ctx, change.request())
			if errors.Is(err, schedule.ErrDuplicateAssignment) {
				err = nil
			}
			results[i] = err
			return err
		})
	}
	_ = g.Wait()

	var (
		remaining []PendingChange
		failed    []FailedChange
		errs      []error
	)
	for i, err := range results {
		if err != nil {
			remaining = append(remaining, batch[i])
			failed = append(failed, FailedChange{Change: batch[i], Err: err})
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	// Changes staged while the batch was in flight stay queued behind the failures.
	s.pending = append(remaining, s.pending[len(batch):]...)
	s.failed = failed

	if len(failed) == 0 {
		return nil
	}

	saveErr := fmt.Errorf("%d of %d changes failed: %w", len(failed), len(batch), errors.Join(errs...))
	if err := s.reloadLocked(ctx); err != nil {
		return errors.Join(saveErr, err)
	}
	return saveErr
}

// Reload replaces the view with the server's week and re-applies pending changes.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

// Discard drops every pending change and reloads the week.
func (s *Session) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return ErrSaveInProgress
	}
	s.pending = nil
	s.failed = nil
	return s.reloadLocked(ctx)
}

func (s *Session) reloadLocked(ctx context.Context) error {
	fresh, err := s.api.GetSchedule(ctx, s.week)
	if err != nil {
		return fmt.Errorf("reload week %d: %w", s.week, err)
	}
	for _, change := range s.pending {
		next, err := ApplyChange(fresh, change)
		if err != nil {
			// Already on the server, or no longer applicable to the fetched week.
			continue
		}
		fresh = next
	}
	s.view = fresh
	return nil
}
