package projector

import (
	"context"
	"sync"
	"time"

	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/pkg/clock"

	"github.com/rs/zerolog"
)

// StatusFetcher is the server-side status endpoint as seen by the client.
type StatusFetcher interface {
	Status(ownerID string) (*models.TimerStatus, error)
}

// DefaultPollInterval is how often the projector re-anchors against the
// server in the absence of refresh signals.
const DefaultPollInterval = 30 * time.Second

// Projector presents a continuously incrementing elapsed-time counter
// without asking the server every second. It interpolates from the last
// authoritative snapshot using the local clock, re-anchoring on refresh
// signals, on a periodic poll, and on Wake. Re-anchoring always replaces
// the projection base, never merges into it.
//
// The one-second tick loop runs only while the snapshot shows a running,
// unpaused timer. It is stopped whenever the timer pauses or goes away; a
// leaked tick loop is a defect.
type Projector struct {
	ownerID      string
	fetch        StatusFetcher
	clock        clock.Clock
	logger       zerolog.Logger
	pollInterval time.Duration
	tickInterval time.Duration
	onTick       func(elapsedSeconds int64)

	mu         sync.Mutex
	base       *models.TimerStatus
	anchoredAt time.Time
	tickStop   chan struct{}
}

// Options tune the projector; zero values take defaults.
type Options struct {
	PollInterval time.Duration
	TickInterval time.Duration
	// OnTick is invoked from the tick loop with the projected elapsed
	// seconds, once per tick interval while the timer is running.
	OnTick func(elapsedSeconds int64)
}

func New(ownerID string, fetch StatusFetcher, clk clock.Clock, logger zerolog.Logger, opts Options) *Projector {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &Projector{
		ownerID:      ownerID,
		fetch:        fetch,
		clock:        clk,
		logger:       logger.With().Str("component", "projector").Str("owner", ownerID).Logger(),
		pollInterval: opts.PollInterval,
		tickInterval: opts.TickInterval,
		onTick:       opts.OnTick,
	}
}

// Resync fetches a fresh snapshot and replaces the projection base.
func (p *Projector) Resync() error {
	status, err := p.fetch.Status(p.ownerID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("status resync failed, keeping last anchor")
		return err
	}
	p.Apply(status)
	return nil
}

// Apply anchors the projector on an authoritative snapshot and starts or
// stops the tick loop to match the timer state.
func (p *Projector) Apply(status *models.TimerStatus) {
	p.mu.Lock()
	p.base = status
	p.anchoredAt = p.clock.Now()
	shouldTick := status != nil && status.HasActiveTimer && status.Timer != nil && !status.Timer.IsPaused

	if shouldTick && p.tickStop == nil {
		stop := make(chan struct{})
		p.tickStop = stop
		go p.tickLoop(stop)
	} else if !shouldTick && p.tickStop != nil {
		close(p.tickStop)
		p.tickStop = nil
	}
	p.mu.Unlock()
}

// Elapsed returns the projected elapsed seconds and whether a timer is
// active. While paused the value is the frozen server-computed elapsed;
// while running it is the anchor plus local time since anchoring. Drift is
// bounded by the poll interval.
func (p *Projector) Elapsed() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.base == nil || !p.base.HasActiveTimer || p.base.Timer == nil {
		return 0, false
	}
	if p.base.Timer.IsPaused {
		return p.base.ElapsedSeconds, true
	}
	projected := p.base.ElapsedSeconds + int64(p.clock.Now().Sub(p.anchoredAt).Seconds())
	if projected < 0 {
		projected = 0
	}
	return projected, true
}

// TickActive reports whether the tick loop is currently running.
func (p *Projector) TickActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tickStop != nil
}

// Stop cancels the tick loop. Safe to call repeatedly.
func (p *Projector) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tickStop != nil {
		close(p.tickStop)
		p.tickStop = nil
	}
}

// Wake re-anchors after the client was suspended and became visible again.
func (p *Projector) Wake() {
	_ = p.Resync()
}

// Run drives the projector until ctx is done: an initial resync, then
// re-anchoring on every refresh signal and on the periodic poll. The tick
// loop is stopped on exit.
func (p *Projector) Run(ctx context.Context, refresh <-chan struct{}) {
	defer p.Stop()

	_ = p.Resync()

	poll := time.NewTicker(p.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh:
			_ = p.Resync()
		case <-poll.C:
			_ = p.Resync()
		}
	}
}

func (p *Projector) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(p.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if p.onTick != nil {
				if elapsed, ok := p.Elapsed(); ok {
					p.onTick(elapsed)
				}
			}
		}
	}
}
