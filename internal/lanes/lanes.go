// Package lanes serializes work per key.
//
// A Ticket is reserved synchronously, in the order the caller wants the work
// to happen, and later run from any goroutine. Tickets of one key run one at a
// time in reservation order; tickets of different keys never wait on each
// other.
package lanes

import (
	"context"
	"sync"
)

// Lanes hands out tickets per key. The zero value is ready to use.
type Lanes struct {
	mu    sync.Mutex
	lanes map[int64]*lane
}

type lane struct {
	tail    chan struct{}
	pending int
}

// Ticket is one reserved slot in a key's lane.
type Ticket struct {
	l    *Lanes
	key  int64
	prev <-chan struct{}
	done chan struct{}
	once sync.Once
}

// Reserve appends a slot to key's lane.
func (l *Lanes) Reserve(key int64) *Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lanes == nil {
		l.lanes = make(map[int64]*lane)
	}
	ln, ok := l.lanes[key]
	if !ok {
		ln = &lane{}
		l.lanes[key] = ln
	}
	t := &Ticket{l: l, key: key, prev: ln.tail, done: make(chan struct{})}
	ln.tail = t.done
	ln.pending++
	return t
}

// Pending returns how many tickets of key have not finished.
func (l *Lanes) Pending(key int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ln, ok := l.lanes[key]; ok {
		return ln.pending
	}
	return 0
}

// Run waits for the earlier tickets of the same key, runs fn and releases
// the next ticket. If ctx ends while waiting, fn is skipped and ctx.Err()
// returned; the slot is still released only after the earlier tickets
// finish. A ticket runs at most once.
func (t *Ticket) Run(ctx context.Context, fn func(context.Context) error) error {
	ran := false
	var err error
	t.once.Do(func() {
		ran = true
		if t.prev != nil {
			select {
			case <-t.prev:
			case <-ctx.Done():
				go func() {
					<-t.prev
					t.release()
				}()
				err = ctx.Err()
				return
			}
		}
		defer t.release()
		err = fn(ctx)
	})
	if !ran {
		return errTicketUsed
	}
	return err
}

func (t *Ticket) release() {
	close(t.done)
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	ln := t.l.lanes[t.key]
	if ln == nil {
		return
	}
	ln.pending--
	if ln.pending == 0 {
		delete(t.l.lanes, t.key)
	}
}
