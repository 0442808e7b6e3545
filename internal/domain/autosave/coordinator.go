package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FileWriter persists a document's full content.
type FileWriter interface {
	WriteFile(ctx context.Context, projectID, path, content string) error
}

// Status is the save indicator shown next to the editor.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
	StatusFailed  Status = "failed"
)

// NotifyFunc receives status changes tagged with the path they apply to.
type NotifyFunc func(path string, status Status)

// Options tune the coordinator. Zero values fall back to the defaults the
// editor uses: 1s debounce, 2s saved banner, 10s save timeout.
type Options struct {
	Debounce    time.Duration
	Settle      time.Duration
	SaveTimeout time.Duration
	Notify      NotifyFunc
	Logger      *slog.Logger
}

type edit struct {
	projectID string
	path      string
	content   string
}

// Coordinator turns a burst of content-mutation events into at most one
// delayed persistence call per debounce window. The armed timer carries the
// document identity captured when the mutating event occurred; it never
// re-reads which document is active when it fires. Save failures are terminal
// for that attempt only; the next edit re-arms the normal cycle.
type Coordinator struct {
	writer      FileWriter
	debounce    time.Duration
	settle      time.Duration
	saveTimeout time.Duration
	notify      NotifyFunc
	logger      *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	pending    *edit
	status     Status
	statusPath string
	generation uint64
}

// New creates an idle coordinator.
func New(writer FileWriter, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = time.Second
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}
	if opts.Notify == nil {
		opts.Notify = func(string, Status) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		writer:      writer,
		debounce:    opts.Debounce,
		settle:      opts.Settle,
		saveTimeout: opts.SaveTimeout,
		notify:      opts.Notify,
		logger:      opts.Logger,
		status:      StatusIdle,
	}
}

// Schedule records the latest content for path and re-arms the debounce
// timer. A newer call replaces the pending edit wholesale, so only the last
// state of a burst is written.
func (c *Coordinator) Schedule(projectID, path, content string) {
	c.mu.Lock()
	c.pending = &edit{projectID: projectID, path: path, content: content}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.status = StatusPending
	c.statusPath = path
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
	c.mu.Unlock()

	c.notify(path, StatusPending)
}

// SaveNow cancels any pending timer and persists the given snapshot
// immediately. Exactly one save results from an edit followed by SaveNow.
func (c *Coordinator) SaveNow(ctx context.Context, projectID, path, content string) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.generation++
	gen := c.generation
	c.status = StatusSaving
	c.statusPath = path
	c.mu.Unlock()

	c.notify(path, StatusSaving)
	err := c.writer.WriteFile(ctx, projectID, path, content)
	c.complete(gen, path, err)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Reset discards pending work and any in-flight completion. Called when the
// session the edits belonged to is torn down.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.generation++
	c.status = StatusIdle
	c.statusPath = ""
	c.mu.Unlock()
}

// Status returns the current indicator and the path it applies to.
func (c *Coordinator) Status() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.statusPath
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.pending == nil {
		c.mu.Unlock()
		return
	}
	ed := *c.pending
	c.pending = nil
	c.status = StatusSaving
	c.statusPath = ed.path
	c.mu.Unlock()

	c.notify(ed.path, StatusSaving)

	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()
	err := c.writer.WriteFile(ctx, ed.projectID, ed.path, ed.content)
	c.complete(gen, ed.path, err)
}

// complete applies a save outcome unless the coordinator moved on while the
// call was in flight.
func (c *Coordinator) complete(gen uint64, path string, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("dropping stale save result", "path", path, "error", err)
		return
	}
	if err != nil {
		c.status = StatusFailed
		c.statusPath = path
		c.mu.Unlock()
		c.logger.Warn("save failed", "path", path, "error", err)
		c.notify(path, StatusFailed)
		return
	}
	c.status = StatusSaved
	c.statusPath = path
	time.AfterFunc(c.settle, func() { c.settleDown(gen, path) })
	c.mu.Unlock()
	c.notify(path, StatusSaved)
}

// settleDown returns the indicator to idle after the saved banner interval.
func (c *Coordinator) settleDown(gen uint64, path string) {
	c.mu.Lock()
	if gen != c.generation || c.status != StatusSaved {
		c.mu.Unlock()
		return
	}
	c.status = StatusIdle
	c.statusPath = ""
	c.mu.Unlock()
	c.notify(path, StatusIdle)
}
