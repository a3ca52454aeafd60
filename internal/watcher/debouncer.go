package watcher

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"filetrail/internal/models"
)

// pendingChange accumulates saves to one path within a debounce window. The
// first observed old content and the last observed new content survive, so a
// burst of saves collapses into a single transition.
type pendingChange struct {
	oldContent string
	newContent string
	firstSeen  time.Time
}

// Debouncer groups rapid saves into batches. All changes that settle in the
// same quiet window are flushed together and share one batch ID.
type Debouncer struct {
	window time.Duration
	out    chan<- models.FileChangeEvent
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[string]*pendingChange
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer that emits flushed events on out.
func NewDebouncer(window time.Duration, out chan<- models.FileChangeEvent, logger zerolog.Logger) *Debouncer {
	return &Debouncer{
		window:  window,
		out:     out,
		logger:  logger.With().Str("component", "Debouncer").Logger(),
		pending: make(map[string]*pendingChange),
	}
}

// Add registers a content transition for path. The flush timer restarts on
// every call, so a burst of saves flushes once the file system goes quiet
// for the window duration.
func (d *Debouncer) Add(path, oldContent, newContent string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if change, ok := d.pending[path]; ok {
		change.newContent = newContent
	} else {
		d.pending[path] = &pendingChange{
			oldContent: oldContent,
			newContent: newContent,
			firstSeen:  time.Now(),
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.Flush)
}

// Flush emits every pending change as one batch with a shared batch ID.
// Changes whose content ended up where it started are dropped.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

// flushLocked sends pending changes while holding the mutex, so a timer-fired
// flush and Stop cannot interleave. Once stopped, nothing is sent; the owner
// may close the output channel as soon as Stop returns.
func (d *Debouncer) flushLocked() {
	if d.stopped {
		return
	}

	pending := d.pending
	d.pending = make(map[string]*pendingChange)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(pending) == 0 {
		return
	}

	batchID := uuid.NewString()
	flushed := 0
	for path, change := range pending {
		if change.oldContent == change.newContent {
			continue
		}
		d.out <- models.FileChangeEvent{
			FilePath:   path,
			OldContent: change.oldContent,
			NewContent: change.newContent,
			BatchID:    &batchID,
			DetectedAt: change.firstSeen,
		}
		flushed++
	}

	if flushed > 0 {
		d.logger.Debug().
			Str("batch_id", batchID).
			Int("events", flushed).
			Msg("Flushed debounced changes")
	}
}

// Stop flushes any pending changes and shuts the debouncer down. After Stop
// returns no further sends happen on the output channel, even if a debounce
// timer fires afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
	d.stopped = true
}
