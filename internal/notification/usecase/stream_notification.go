package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
)

// StreamEvent represents a notification update sent over SSE.
type StreamEvent struct {
	ID        int64               `json:"id"`
	UserID    *string             `json:"user_id"`
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Metadata  valueobject.JSONMap `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
}

type subscriber struct {
	ch chan StreamEvent
}

// StreamNotifications registers a stream for a user and closes it when ctx is done.
func (s *Usecase) StreamNotifications(ctx context.Context, userID string) <-chan StreamEvent {
	sub := &subscriber{ch: make(chan StreamEvent, 10)}

	s.streamMu.Lock()
	if s.streams[userID] == nil {
		s.streams[userID] = make(map[*subscriber]struct{})
	}
	s.streams[userID][sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		if subs := s.streams[userID]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.streams, userID)
			}
		}
		close(sub.ch)
		s.streamMu.Unlock()
	}()

	return sub.ch
}

// publishNotification fans evt out to the streams of its user, or to every
// stream when evt is global. Slow subscribers drop events.
func (s *Usecase) publishNotification(evt StreamEvent) int {
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	sent := 0
	deliver := func(subs map[*subscriber]struct{}) {
		for sub := range subs {
			select {
			case sub.ch <- evt:
				sent++
			default:
			}
		}
	}

	if evt.UserID == nil {
		for _, subs := range s.streams {
			deliver(subs)
		}
		return sent
	}

	deliver(s.streams[*evt.UserID])
	return sent
}
