package http

import (
	"context"
	"sync"

	"github.com/utafrali/catalog-widget/internal/domain"
)

// maxPendingNotices bounds the notice buffer between two polls.
const maxPendingNotices = 32

// Snapshot is the controller's renderer and notifier inside the host. It keeps
// the last rendered view model and buffers notices until a client drains them.
type Snapshot struct {
	mu      sync.Mutex
	view    domain.ViewModel
	notices []domain.Notice
}

// NewSnapshot creates a snapshot holding the pending view.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		view: domain.ViewModel{
			Status: domain.StatusPending,
			Filter: domain.DefaultFilterState(),
		},
	}
}

// Render stores vm as the latest view.
func (s *Snapshot) Render(_ context.Context, vm domain.ViewModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = vm
}

// Notify buffers n, dropping the oldest notice when the buffer is full.
func (s *Snapshot) Notify(_ context.Context, n domain.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notices) == maxPendingNotices {
		s.notices = s.notices[1:]
	}
	s.notices = append(s.notices, n)
}

// View returns the latest rendered view.
func (s *Snapshot) View() domain.ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Drain returns and clears the buffered notices.
func (s *Snapshot) Drain() []domain.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []domain.Notice{}
	}
	return out
}
