package gate

import (
	"context"
	"sync"
	"sync/atomic"
)

// Gate is a readers-writer exclusion primitive with writer priority.
// The zero value is not usable; create instances with New.
//
// Waiting is implemented with a broadcast channel that is closed and replaced
// on every state change, so parked goroutines wake without spinning and can
// also observe context cancellation.
type Gate struct {
	mu             sync.Mutex
	activeReaders  int
	writersWaiting int
	writerActive   bool
	turn           chan struct{}

	readsAdmitted  atomic.Int64
	writesAdmitted atomic.Int64
}

// Stats is a point-in-time snapshot of gate state, intended for observability
// and tests. The three state fields are captured atomically with respect to
// gate transitions.
type Stats struct {
	ActiveReaders  int
	WritersWaiting int
	WriterActive   bool
	ReadsAdmitted  int64
	WritesAdmitted int64
}

// New creates an open Gate with no readers or writers.
func New() *Gate {
	return &Gate{
		turn: make(chan struct{}),
	}
}

// BeginRead admits the caller as a shared reader. It blocks while a writer
// holds the gate or has announced intent: pending writers beat new readers,
// so a reader-dominated workload cannot starve the writer. Returns the
// context's error if ctx is cancelled before admission.
func (g *Gate) BeginRead(ctx context.Context) error {
	g.mu.Lock()
	for g.writersWaiting > 0 || g.writerActive {
		turn := g.turn
		g.mu.Unlock()

		select {
		case <-turn:
		case <-ctx.Done():
			return ctx.Err()
		}

		g.mu.Lock()
	}

	g.activeReaders++
	g.readsAdmitted.Add(1)
	g.mu.Unlock()

	return nil
}

// EndRead releases one shared hold. The last reader out admits a waiting
// writer, if any. Panics if no reader is active.
func (g *Gate) EndRead() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.activeReaders == 0 {
		panic("gate: EndRead called with no active readers")
	}
	if g.writerActive {
		panic("gate: writer held exclusively while readers active")
	}

	g.activeReaders--
	if g.activeReaders == 0 {
		g.notifyLocked()
	}
}

// BeginWrite acquires exclusive ownership. Intent is announced before
// blocking, which stops new readers from being admitted; the call then waits
// for already-active readers and any current writer to drain. Multiple
// concurrent writers serialize on the same exclusive ownership. Returns the
// context's error if ctx is cancelled first, in which case the announced
// intent is withdrawn so blocked readers may proceed.
func (g *Gate) BeginWrite(ctx context.Context) error {
	g.mu.Lock()
	g.writersWaiting++

	for g.activeReaders > 0 || g.writerActive {
		turn := g.turn
		g.mu.Unlock()

		select {
		case <-turn:
		case <-ctx.Done():
			g.mu.Lock()
			g.writersWaiting--
			if g.writersWaiting == 0 {
				g.notifyLocked()
			}
			g.mu.Unlock()
			return ctx.Err()
		}

		g.mu.Lock()
	}

	g.writersWaiting--
	g.writerActive = true
	g.writesAdmitted.Add(1)
	g.mu.Unlock()

	return nil
}

// EndWrite releases exclusive ownership, waking both blocked readers and the
// next writer. Panics if the gate is not held exclusively.
func (g *Gate) EndWrite() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.writerActive {
		panic("gate: EndWrite called without exclusive ownership")
	}
	if g.activeReaders > 0 {
		panic("gate: readers active during exclusive ownership")
	}

	g.writerActive = false
	g.notifyLocked()
}

// Stats returns a snapshot of the gate's current state.
// This method is thread-safe and can be called at any time.
func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Stats{
		ActiveReaders:  g.activeReaders,
		WritersWaiting: g.writersWaiting,
		WriterActive:   g.writerActive,
		ReadsAdmitted:  g.readsAdmitted.Load(),
		WritesAdmitted: g.writesAdmitted.Load(),
	}
}

// notifyLocked wakes every parked waiter. Callers must hold g.mu.
func (g *Gate) notifyLocked() {
	close(g.turn)
	g.turn = make(chan struct{})
}
