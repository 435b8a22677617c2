package calendar

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
)

// Fetcher loads the flat event list for a range.
type Fetcher interface {
	FetchEvents(ctx context.Context, r FetchRange, filter EventFilter) ([]model.CalendarEvent, error)
}

// Observer is notified about the outcome of every refresh.
type Observer interface {
	IndexSwapped(granularity Granularity, events int)
	StaleDiscarded(granularity Granularity)
	FetchFailed(granularity Granularity)
}

// Session holds the navigation state and the index built for it. The last request
// wins: every state change or refresh supersedes the fetch in flight, and a result
// arriving for a superseded request is dropped.
type Session struct {
	fetcher  Fetcher
	observer Observer
	today    func() civil.Date

	mu         sync.Mutex
	state      NavigationState
	generation uint64
	cancel     context.CancelFunc
	index      *Index
	indexRange FetchRange
}

func NewSession(fetcher Fetcher, state NavigationState, today func() civil.Date) *Session {
	return &Session{
		fetcher: fetcher,
		today:   today,
		state:   state,
		index:   BuildIndex(nil),
	}
}

func (s *Session) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observer = o
}

func (s *Session) State() NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Index returns the current index and the range it was built for.
func (s *Session) Index() (*Index, FetchRange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index, s.indexRange
}

func (s *Session) Navigate(direction Direction) NavigationState {
	return s.update(func(st NavigationState) NavigationState {
		return Navigate(st, direction, s.today())
	})
}

func (s *Session) SetGranularity(g Granularity) NavigationState {
	return s.update(func(st NavigationState) NavigationState {
		return st.WithGranularity(g)
	})
}

func (s *Session) SetFilter(f EventFilter) NavigationState {
	return s.update(func(st NavigationState) NavigationState {
		return st.WithFilter(f)
	})
}

func (s *Session) update(fn func(NavigationState) NavigationState) NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
	s.supersede()

	return s.state
}

// supersede must be called with mu held.
func (s *Session) supersede() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Refresh fetches events for the current state and swaps in a fresh index. It returns
// ErrStaleResponse when a newer request superseded this one, and an error wrapping
// ErrFetchFailed when the fetch failed; in both cases the current index is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.supersede()
	generation := s.generation
	state := s.state
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	r, err := ComputeFetchRange(state)
	if err != nil {
		return err
	}

	events, err := s.fetcher.FetchEvents(fetchCtx, r, state.Filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		if s.observer != nil {
			s.observer.StaleDiscarded(state.Granularity)
		}
		return ErrStaleResponse
	}
	s.cancel = nil

	if err != nil {
		if s.observer != nil {
			s.observer.FetchFailed(state.Granularity)
		}
		return fmt.Errorf("%w: %v..%v: %w", ErrFetchFailed, r.Start, r.End, err)
	}

	s.index = BuildIndex(events)
	s.indexRange = r
	if s.observer != nil {
		s.observer.IndexSwapped(state.Granularity, len(events))
	}

	return nil
}
