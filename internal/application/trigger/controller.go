// Package trigger serializes reconciliation runs requested by timers,
// webhooks and operators.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"helpbot/internal/application"
	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

// Source names what requested a run
type Source string

const (
	SourceTimer    Source = "timer"
	SourceWebhook  Source = "webhook"
	SourceOperator Source = "operator"
	SourceStartup  Source = "startup"
)

// State is the controller's run state
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Reconciler runs the two ordered sync phases
type Reconciler interface {
	SyncLists(ctx context.Context) (domain.ListSyncStats, error)
	SyncCards(ctx context.Context) (domain.CardSyncStats, error)
}

// Rebuilder publishes a new snapshot from the store
type Rebuilder interface {
	Rebuild(ctx context.Context) (*domain.Snapshot, error)
}

// Options configures a Controller
type Options struct {
	ListSettle  time.Duration // pause between list sync and card sync
	CardSettle  time.Duration // pause between card sync and rebuild
	RunTimeout  time.Duration // zero means no per-run deadline
	ResultsSize int
	Logger      ports.Logger
}

// RunReport describes one completed run
type RunReport struct {
	ID        uuid.UUID
	Source    Source
	Coalesced int // triggers folded into this run besides the one that started it
	Started   time.Time
	Finished  time.Time
	Lists     domain.ListSyncStats
	Cards     domain.CardSyncStats
	Snapshot  *domain.Snapshot
	Err       error
}

// Duration returns how long the run took
func (r RunReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Summary renders the report on one line
func (r RunReport) Summary() string {
	status := "ok"
	if r.Err != nil {
		status = "failed: " + r.Err.Error()
	}
	cards := 0
	if r.Snapshot != nil {
		cards = len(r.Snapshot.Cards)
	}
	return fmt.Sprintf("run %s (%s) %s in %s; lists +%d ~%d -%d, cards +%d ~%d -%d, %d cards indexed",
		r.ID.String()[:8], r.Source, status, r.Duration().Round(time.Millisecond),
		r.Lists.Added, r.Lists.Updated, r.Lists.Removed,
		r.Cards.Added, r.Cards.Updated, r.Cards.Removed, cards)
}

// Controller runs at most one reconciliation at a time. Triggers that arrive
// while a run is in flight collapse into a single follow-up run.
type Controller struct {
	reconciler Reconciler
	index      Rebuilder
	opts       Options

	mu            sync.Mutex
	state         State
	pending       bool
	pendingSource Source
	coalesced     int

	wake    chan struct{}
	results chan RunReport
}

// New creates an idle Controller
func New(reconciler Reconciler, index Rebuilder, opts Options) *Controller {
	if opts.ResultsSize <= 0 {
		opts.ResultsSize = 16
	}
	return &Controller{
		reconciler: reconciler,
		index:      index,
		opts:       opts,
		wake:       make(chan struct{}, 1),
		results:    make(chan RunReport, opts.ResultsSize),
	}
}

// Results publishes a report per finished run. Reports are dropped when
// nobody drains the channel.
func (c *Controller) Results() <-chan RunReport {
	return c.results
}

// State returns the current run state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Trigger requests a run without blocking. It returns false when the request
// was folded into one that is already pending.
func (c *Controller) Trigger(source Source) bool {
	c.mu.Lock()
	fresh := !c.pending
	if fresh {
		c.pending = true
		c.pendingSource = source
	} else {
		c.coalesced++
	}
	c.mu.Unlock()

	c.signal()
	c.logf("component=trigger action=request source=%s coalesced=%t", source, !fresh)
	return fresh
}

func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run serves triggers until ctx is done
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
			for {
				source, coalesced, ok := c.take()
				if !ok {
					break
				}
				c.finish(c.execute(ctx, source, coalesced))
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
	}
}

// RunOnce runs the pipeline now in the caller's goroutine, or fails with
// application.ErrRunInProgress when a run is already in flight.
func (c *Controller) RunOnce(ctx context.Context, source Source) (RunReport, error) {
	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		return RunReport{}, application.ErrRunInProgress
	}
	c.state = Running
	coalesced := c.coalesced
	if c.pending {
		coalesced++
	}
	c.pending = false
	c.pendingSource = ""
	c.coalesced = 0
	c.mu.Unlock()

	report := c.execute(ctx, source, coalesced)
	c.finish(report)
	return report, report.Err
}

// Purge runs the full pipeline on operator request. When a run is already in
// flight a follow-up is queued and application.ErrRunInProgress is returned.
func (c *Controller) Purge(ctx context.Context) error {
	_, err := c.RunOnce(ctx, SourceOperator)
	if errors.Is(err, application.ErrRunInProgress) {
		c.Trigger(SourceOperator)
	}
	return err
}

// Schedule triggers a run every interval until ctx is done
func (c *Controller) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Trigger(SourceTimer)
		}
	}
}

func (c *Controller) take() (Source, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running || !c.pending {
		return "", 0, false
	}
	source, coalesced := c.pendingSource, c.coalesced
	c.state = Running
	c.pending = false
	c.pendingSource = ""
	c.coalesced = 0
	return source, coalesced, true
}

func (c *Controller) finish(report RunReport) {
	c.mu.Lock()
	c.state = Idle
	again := c.pending
	c.mu.Unlock()

	select {
	case c.results <- report:
	default:
		c.logf("component=trigger action=drop_report run=%s", report.ID)
	}
	if again {
		c.signal()
	}
}

func (c *Controller) execute(ctx context.Context, source Source, coalesced int) RunReport {
	report := RunReport{ID: uuid.New(), Source: source, Coalesced: coalesced, Started: time.Now()}
	if c.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.RunTimeout)
		defer cancel()
	}
	c.logf("component=trigger action=start run=%s source=%s coalesced=%d", report.ID, source, coalesced)

	c.pipeline(ctx, &report)

	report.Finished = time.Now()
	if report.Err != nil {
		c.logf("component=trigger action=finish run=%s duration=%s error=%q", report.ID, report.Duration(), report.Err)
	} else {
		c.logf("component=trigger action=finish run=%s duration=%s", report.ID, report.Duration())
	}
	return report
}

// pipeline runs lists, then cards, then the rebuild, with the settle delays
// in between. The first whole-phase failure stops the run.
func (c *Controller) pipeline(ctx context.Context, report *RunReport) {
	var err error
	if report.Lists, err = c.reconciler.SyncLists(ctx); err != nil {
		report.Err = err
		return
	}
	if err := waitWithContext(ctx, c.opts.ListSettle); err != nil {
		report.Err = err
		return
	}

	if report.Cards, err = c.reconciler.SyncCards(ctx); err != nil {
		report.Err = err
		// per-list failures still leave the other lists worth publishing
		if len(report.Cards.Failures) == 0 {
			return
		}
	}
	if err := waitWithContext(ctx, c.opts.CardSettle); err != nil {
		report.Err = errors.Join(report.Err, err)
		return
	}

	snap, err := c.index.Rebuild(ctx)
	if err != nil {
		report.Err = errors.Join(report.Err, &application.SyncError{Phase: "index", Err: err})
		return
	}
	report.Snapshot = snap
}

func (c *Controller) logf(format string, args ...any) {
	if c.opts.Logger == nil {
		return
	}
	c.opts.Logger.Printf(format, args...)
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
