package archive

import (
	"context"
	"sync"
	"time"

	"hermes/internal/adapters/clickhouse"
	"hermes/internal/adapters/config"
	"hermes/internal/domain/event"
	"hermes/internal/metrics"
	"hermes/pkg/logger"
)

const lockKey = "archive-compaction"

// Locker serializes compaction across process instances.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Worker moves old, fully-delivered events out of the hot Postgres log into
// the ClickHouse archive. An event is eligible once every registered consumer
// of its topic has advanced past it and it is older than the retention window.
// Events below the minimum offset can never be delivered again, so deleting
// them after a successful archive insert loses nothing.
type Worker struct {
	archiver event.Archiver
	ch       *clickhouse.Client
	locker   Locker
	cfg      config.ArchiveConfig
	topics   []string

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	log *logger.Logger
}

// NewWorker creates a compaction worker. locker may be nil when the service
// runs as a single instance.
func NewWorker(archiver event.Archiver, ch *clickhouse.Client, locker Locker, cfg config.ArchiveConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}

	return &Worker{
		archiver: archiver,
		ch:       ch,
		locker:   locker,
		cfg:      cfg,
		topics:   event.AllTopics(),
		log:      logger.Get().With("component", "archive"),
	}
}

// Start launches the periodic compaction loop.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop cancels the loop and waits for the current cycle to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.started = false
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	w.log.Infow("Compaction loop started",
		"interval", w.cfg.Interval,
		"retention", w.cfg.Retention,
	)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Compaction loop stopping")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle compacts every topic once. Errors are logged and the cycle moves
// on; a failed topic is retried on the next tick.
func (w *Worker) runCycle(ctx context.Context) {
	if w.locker != nil {
		acquired, err := w.locker.AcquireLock(ctx, lockKey, w.cfg.Interval)
		if err != nil {
			w.log.Errorf("Failed to acquire compaction lock: %v", err)
			return
		}
		if !acquired {
			w.log.Debug("Compaction lock held elsewhere, skipping cycle")
			return
		}
		defer func() {
			if err := w.locker.ReleaseLock(ctx, lockKey); err != nil {
				w.log.Warnf("Failed to release compaction lock: %v", err)
			}
		}()
	}

	cutoff := time.Now().Add(-w.cfg.Retention)
	for _, topic := range w.topics {
		if ctx.Err() != nil {
			return
		}
		if err := w.compactTopic(ctx, topic, cutoff); err != nil {
			w.log.Errorw("Topic compaction failed", "topic", topic, "error", err)
		}
	}
}

func (w *Worker) compactTopic(ctx context.Context, topic string, cutoff time.Time) error {
	minOffset, err := w.archiver.MinOffset(ctx, topic)
	if err != nil {
		return err
	}
	if minOffset == 0 {
		// No consumer has delivered anything yet; nothing is safe to move.
		return nil
	}

	for {
		batch, err := w.archiver.ReadDeliveredBefore(ctx, topic, minOffset, w.cfg.BatchSize)
		if err != nil {
			return err
		}

		eligible := retainOlder(batch, cutoff)
		if len(eligible) == 0 {
			return nil
		}

		maxID := eligible[len(eligible)-1].ID
		if err := w.insertArchive(ctx, eligible); err != nil {
			return err
		}

		deleted, err := w.archiver.DeleteThrough(ctx, topic, maxID)
		if err != nil {
			return err
		}

		metrics.EventsArchived.WithLabelValues(topic).Add(float64(len(eligible)))
		w.log.Infow("Compacted topic segment",
			"topic", topic,
			"archived", len(eligible),
			"deleted", deleted,
			"through_id", maxID,
		)

		if len(batch) < w.cfg.BatchSize || len(eligible) < len(batch) {
			return nil
		}
	}
}

// insertArchive writes one batch to ClickHouse. The insert must complete
// before the hot rows are deleted.
func (w *Worker) insertArchive(ctx context.Context, evs []event.Event) error {
	batch, err := w.ch.PrepareBatch(ctx, "INSERT INTO events_archive")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, ev := range evs {
		row := event.ArchivedEvent{
			ID:            ev.ID,
			Topic:         ev.Topic,
			Type:          ev.Type,
			Payload:       string(ev.Payload),
			CorrelationID: ev.CorrelationID,
			CreatedAt:     ev.CreatedAt,
			ArchivedAt:    now,
		}
		if err := batch.AppendStruct(&row); err != nil {
			return err
		}
	}

	return batch.Send()
}

// retainOlder keeps the leading run of events created before cutoff. Events
// arrive in id order, which matches creation order within a topic.
func retainOlder(evs []event.Event, cutoff time.Time) []event.Event {
	for i, ev := range evs {
		if !ev.CreatedAt.Before(cutoff) {
			return evs[:i]
		}
	}
	return evs
}
