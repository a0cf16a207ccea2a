package dispatch

import (
	"context"
	"sync"
	"time"

	"hermes/internal/domain/event"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
	"hermes/pkg/retry"
)

// Handler processes one delivered event. Returning nil advances the
// subscription's offset past the event. Returning ErrHandled (wrapped or not)
// also advances: the handler has already recorded the failure as a terminal
// event of its own. Any other error leaves the offset untouched so the event
// is redelivered on the next poll.
type Handler func(ctx context.Context, ev event.Event) error

// ErrHandled signals that a handler converted a failure into its own terminal
// outcome event. The dispatcher treats it as successful delivery, which keeps
// poison events from looping forever once the handler has recorded them.
var ErrHandled = errors.New("event handled with terminal outcome")

// Subscription binds one consumer to one topic.
type Subscription struct {
	Topic        string
	ConsumerID   string
	Handler      Handler
	PollInterval time.Duration
	BatchSize    int
}

// Config holds dispatcher defaults applied to subscriptions that leave them zero.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
}

// Dispatcher runs one poll/deliver loop per subscription. Loops are logically
// independent: each consumer keeps its own offset, so several consumers on the
// same topic all see every event (fan-out, not competing consumers).
type Dispatcher struct {
	log     event.Log
	offsets event.OffsetStore
	cfg     Config
	backoff *retry.Middleware

	mu      sync.Mutex
	subs    []Subscription
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger *logger.Logger
}

// New creates a dispatcher over the given log and offset store.
func New(log event.Log, offsets event.OffsetStore, cfg Config) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &Dispatcher{
		log:     log,
		offsets: offsets,
		cfg:     cfg,
		backoff: retry.New(retry.Config{
			MaxRetries:   3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Strategy:     retry.StrategyExponential,
		}, retry.Any),
		logger: logger.Get().With("component", "dispatcher"),
	}
}

// Subscribe registers a subscription. Must be called before Start.
func (d *Dispatcher) Subscribe(sub Subscription) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return errors.Wrap(errors.ErrInternal, "dispatcher already started")
	}
	if sub.Topic == "" || sub.ConsumerID == "" || sub.Handler == nil {
		return errors.Wrap(errors.ErrInvalidInput, "subscription requires topic, consumer id and handler")
	}
	if sub.PollInterval <= 0 {
		sub.PollInterval = d.cfg.PollInterval
	}
	if sub.BatchSize <= 0 {
		sub.BatchSize = d.cfg.BatchSize
	}

	d.subs = append(d.subs, sub)
	d.logger.Infow("Subscription registered",
		"topic", sub.Topic,
		"consumer", sub.ConsumerID,
		"interval", sub.PollInterval,
	)
	return nil
}

// Start launches one poll loop per subscription.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errors.Wrap(errors.ErrInternal, "dispatcher already started")
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)
	subs := append([]Subscription(nil), d.subs...)
	d.mu.Unlock()

	d.logger.Infow("Starting dispatcher", "subscriptions", len(subs))

	for _, sub := range subs {
		d.wg.Add(1)
		go d.runLoop(ctx, sub)
	}
	return nil
}

// Stop cancels all poll loops and waits for them to drain.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return errors.Wrap(errors.ErrInternal, "dispatcher not started")
	}
	d.cancel()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Dispatcher stopped")
	case <-time.After(30 * time.Second):
		return errors.Wrap(errors.ErrTimeout, "dispatcher shutdown")
	}

	d.mu.Lock()
	d.started = false
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) runLoop(ctx context.Context, sub Subscription) {
	defer d.wg.Done()

	log := d.logger.With("topic", sub.Topic, "consumer", sub.ConsumerID)
	log.Info("Poll loop started")

	ticker := time.NewTicker(sub.PollInterval)
	defer ticker.Stop()

	// Drain whatever is pending before the first tick.
	d.pollOnce(ctx, sub, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("Poll loop stopping")
			return
		case <-ticker.C:
			d.pollOnce(ctx, sub, log)
		}
	}
}

// pollOnce runs one poll cycle: read the offset, read pending events, deliver
// them in order, advancing the offset after each completed handler. A handler
// failure ends the cycle without advancing, so the event is retried next poll.
func (d *Dispatcher) pollOnce(ctx context.Context, sub Subscription, log *logger.Logger) {
	var offset int64
	err := d.backoff.Do(ctx, func() error {
		var e error
		offset, e = d.offsets.Get(ctx, sub.ConsumerID, sub.Topic)
		return e
	})
	if err != nil {
		log.Errorf("Failed to read consumer offset: %v", err)
		return
	}

	var pending []event.Event
	err = d.backoff.Do(ctx, func() error {
		var e error
		pending, e = d.log.ReadSince(ctx, sub.Topic, offset, sub.BatchSize)
		return e
	})
	if err != nil {
		log.Errorf("Failed to read events: %v", err)
		return
	}

	for _, ev := range pending {
		if ctx.Err() != nil {
			return
		}

		if err := d.deliver(ctx, sub, ev); err != nil {
			metrics.HandlerErrors.WithLabelValues(sub.ConsumerID, sub.Topic).Inc()
			log.Errorw("Handler failed, event will be redelivered",
				"event_id", ev.ID,
				"error", err,
			)
			return
		}

		advanced, err := d.offsets.Advance(ctx, sub.ConsumerID, sub.Topic, offset, ev.ID)
		if err != nil {
			log.Errorf("Failed to advance offset to %d: %v", ev.ID, err)
			return
		}
		if !advanced {
			// Another instance of this consumer advanced first. Yield and
			// let the next cycle re-read the cursor.
			metrics.OffsetConflicts.WithLabelValues(sub.ConsumerID, sub.Topic).Inc()
			log.Warnw("Offset compare-and-set lost, yielding cycle", "event_id", ev.ID)
			return
		}

		offset = ev.ID
		metrics.EventsDelivered.WithLabelValues(sub.ConsumerID, sub.Topic).Inc()
	}
}

// deliver invokes the handler and normalizes its outcome. ErrHandled counts as
// delivered; everything else propagates as a retryable failure.
func (d *Dispatcher) deliver(ctx context.Context, sub Subscription, ev event.Event) error {
	err := sub.Handler(ctx, ev)
	if err == nil || errors.Is(err, ErrHandled) {
		return nil
	}
	return err
}
