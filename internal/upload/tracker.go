package upload

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/logging"
)

var (
	ErrUnknownFile       = errors.New("unknown upload")
	ErrInvalidTransition = errors.New("invalid upload transition")
)

type Event struct {
	File internal.UploadedFile `json:"file"`
}

// Tracker holds the uploads of the current session. Every update swaps in a
// fresh copy of the collection, so readers never see a half-applied change.
type Tracker struct {
	mu      sync.Mutex
	files   []internal.UploadedFile
	subs    map[int]*subscription
	nextSub int
	log     *zap.Logger
}

func NewTracker(log *zap.Logger) *Tracker {
	return &Tracker{subs: map[int]*subscription{}, log: logging.OrNop(log)}
}

func (t *Tracker) Add(files ...internal.UploadedFile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]internal.UploadedFile, 0, len(t.files)+len(files))
	next = append(next, t.files...)
	next = append(next, files...)
	t.files = next
	for _, f := range files {
		t.publishLocked(f)
	}
}

// Apply runs fn on a copy of the file with the given id and stores the
// result if it respects the state machine.
func (t *Tracker) Apply(id string, fn func(f *internal.UploadedFile)) (internal.UploadedFile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i, f := range t.files {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return internal.UploadedFile{}, fmt.Errorf("%w: %s", ErrUnknownFile, id)
	}

	cur := t.files[idx]
	updated := cur
	fn(&updated)
	updated.ID = cur.ID

	if !cur.Status.CanTransition(updated.Status) {
		return cur, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, updated.Status)
	}
	if updated.Progress < cur.Progress || updated.Progress > 100 {
		return cur, fmt.Errorf("%w: progress %d -> %d", ErrInvalidTransition, cur.Progress, updated.Progress)
	}

	next := make([]internal.UploadedFile, len(t.files))
	copy(next, t.files)
	next[idx] = updated
	t.files = next
	t.publishLocked(updated)
	return updated, nil
}

func (t *Tracker) List() []internal.UploadedFile {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]internal.UploadedFile, len(t.files))
	copy(out, t.files)
	return out
}

func (t *Tracker) Get(id string) (internal.UploadedFile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.files {
		if f.ID == id {
			return f, true
		}
	}
	return internal.UploadedFile{}, false
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	t.files = nil
	t.mu.Unlock()
}

// Subscribe streams stored changes. A subscriber that falls behind has
// pending updates of the same file collapsed into the latest one, so the
// final state of every file is always delivered. buf sizes the channel.
func (t *Tracker) Subscribe(buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = 1
	}
	sub := &subscription{
		latest: map[string]internal.UploadedFile{},
		wake:   make(chan struct{}, 1),
		out:    make(chan Event, buf),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go sub.pump()

	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = sub
	t.mu.Unlock()

	var once sync.Once
	return sub.out, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(sub.done)
			<-sub.exited
			close(sub.out)
		})
	}
}

func (t *Tracker) publishLocked(f internal.UploadedFile) {
	for id, sub := range t.subs {
		if sub.push(f) {
			t.log.Debug("coalesced upload event", zap.Int("subscriber", id), zap.String("file_id", f.ID))
		}
	}
}

// subscription queues at most one pending state per file, in first-change
// order, and a pump goroutine feeds them to out.
type subscription struct {
	mu     sync.Mutex
	order  []string
	latest map[string]internal.UploadedFile
	wake   chan struct{}
	out    chan Event
	done   chan struct{}
	exited chan struct{}
}

// push never blocks. It reports whether an undelivered state was replaced.
func (s *subscription) push(f internal.UploadedFile) bool {
	s.mu.Lock()
	_, replaced := s.latest[f.ID]
	if !replaced {
		s.order = append(s.order, f.ID)
	}
	s.latest[f.ID] = f
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return replaced
}

func (s *subscription) next() (internal.UploadedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return internal.UploadedFile{}, false
	}
	id := s.order[0]
	s.order = s.order[1:]
	f := s.latest[id]
	delete(s.latest, id)
	return f, true
}

func (s *subscription) pump() {
	defer close(s.exited)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			f, ok := s.next()
			if !ok {
				break
			}
			select {
			case s.out <- Event{File: f}:
			case <-s.done:
				return
			}
		}
	}
}
