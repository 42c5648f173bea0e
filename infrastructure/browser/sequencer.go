package browser

import (
	"sync"

	"element_grab/domain/entities"
)

// sequencer restores the page's emission order for batches that arrive on concurrent
// binding callbacks. A new document restarts numbering; late batches of a replaced
// document are dropped.
type sequencer struct {
	mu      sync.Mutex
	doc     string
	next    int
	pending map[int][]entities.Event
	retired map[string]struct{}
}

func newSequencer() *sequencer {
	return &sequencer{
		pending: make(map[int][]entities.Event),
		retired: make(map[string]struct{}),
	}
}

// push emits every event that is now in order
func (s *sequencer) push(batch eventBatch, emit func(entities.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, old := s.retired[batch.Doc]; old {
		return
	}
	if batch.Doc != s.doc {
		if s.doc != "" {
			s.retired[s.doc] = struct{}{}
		}
		s.doc = batch.Doc
		s.next = 1
		s.pending = make(map[int][]entities.Event)
	}
	if batch.Seq < s.next {
		return
	}
	s.pending[batch.Seq] = batch.Events

	for {
		events, ok := s.pending[s.next]
		if !ok {
			return
		}
		delete(s.pending, s.next)
		s.next++
		for _, ev := range events {
			emit(ev)
		}
	}
}
