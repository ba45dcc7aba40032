package store

import (
	"log"
	"sync"
	"time"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

const (
	queueSize  = 1024
	flushBatch = 50
)

// RunSource reports the run totals that are not carried on the game_over event.
// *game.World satisfies it.
type RunSource interface {
	Seconds() int
	Level() int
	Seed() uint32
}

type entry struct {
	run   *Run
	event *EventRow
}

// Recorder persists runs and milestone events with batched background writes.
// Publishing never blocks the tick: when the queue is full the entry is dropped.
type Recorder struct {
	db     *DB
	queue  chan entry
	stop   chan struct{}
	wg     sync.WaitGroup
	every  time.Duration
	closed sync.Once

	mu      sync.Mutex
	dropped int
}

// NewRecorder creates and starts the background writer. every is the flush period.
func NewRecorder(db *DB, every time.Duration) *Recorder {
	if every <= 0 {
		every = 5 * time.Second
	}
	r := &Recorder{
		db:    db,
		queue: make(chan entry, queueSize),
		stop:  make(chan struct{}),
		every: every,
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Watch returns a listener that records src's level-ups and its final result
// under sessionID.
func (r *Recorder) Watch(sessionID string, src RunSource) game.Listener {
	return game.ListenerFunc(func(ev game.Event) {
		switch ev.Kind {
		case game.EventLevelUp, game.EventGameOver:
		default:
			return
		}
		now := time.Now().UTC()
		r.enqueue(entry{event: &EventRow{
			Session: sessionID,
			Kind:    string(ev.Kind),
			Value:   ev.Value,
			Tick:    ev.Tick,
			At:      now,
		}})
		if ev.Kind == game.EventGameOver {
			r.enqueue(entry{run: &Run{
				Session: sessionID,
				Score:   ev.Value,
				Seconds: src.Seconds(),
				Level:   src.Level(),
				Seed:    src.Seed(),
				EndedAt: now,
			}})
		}
	})
}

func (r *Recorder) enqueue(e entry) {
	select {
	case r.queue <- e:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Dropped returns how many entries were discarded on a full queue
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Stop flushes whatever is queued and shuts the writer down.
// Listeners returned by Watch must not publish after Stop.
func (r *Recorder) Stop() {
	r.closed.Do(func() {
		close(r.stop)
		r.wg.Wait()
	})
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]entry, 0, 64)
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.queue:
			batch = append(batch, e)
			if len(batch) >= flushBatch {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
		drain:
			for {
				select {
				case e := <-r.queue:
					batch = append(batch, e)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				r.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch in one transaction
func (r *Recorder) flush(batch []entry) {
	if r.db == nil || len(batch) == 0 {
		return
	}
	tx, err := r.db.conn.Begin()
	if err != nil {
		log.Printf("recorder: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	runStmt, err := tx.Prepare(`INSERT INTO runs (session_id, score, seconds, level, seed, ended_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("recorder: prepare error: %v", err)
		return
	}
	defer runStmt.Close()
	evStmt, err := tx.Prepare(`INSERT INTO run_events (session_id, kind, value, tick, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("recorder: prepare error: %v", err)
		return
	}
	defer evStmt.Close()

	for _, e := range batch {
		switch {
		case e.run != nil:
			run := e.run
			if _, err := runStmt.Exec(run.Session, run.Score, run.Seconds, run.Level, int64(run.Seed), run.EndedAt.UnixMilli()); err != nil {
				log.Printf("recorder: insert run error: %v", err)
			}
		case e.event != nil:
			ev := e.event
			if _, err := evStmt.Exec(ev.Session, ev.Kind, ev.Value, int64(ev.Tick), ev.At.UnixMilli()); err != nil {
				log.Printf("recorder: insert event error: %v", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("recorder: commit error: %v", err)
	}
}
