package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
)

// Consumer delivers month sync messages until ctx is cancelled.
// *amqp.Client implements it.
type Consumer interface {
	ConsumeMonthSync(ctx context.Context, handler func(context.Context, *amqp.MonthSyncMessage) error) error
}

// Syncer exports months on request and on a schedule.
// *services.MonthSyncer implements it.
type Syncer interface {
	HandleMessage(ctx context.Context, msg *amqp.MonthSyncMessage) error
	Start(ctx context.Context, interval time.Duration) error
	Stop(ctx context.Context) error
}

// messageTimeout bounds one month export so a stuck Sheets call cannot hold
// the consumer forever.
const messageTimeout = 2 * time.Minute

// SyncWorker consumes month sync messages and runs the scheduled retry pass.
type SyncWorker struct {
	consumer Consumer
	syncer   Syncer
	interval time.Duration
}

// NewSyncWorker creates a worker. A nil consumer runs only the scheduled
// pass; a zero interval disables it.
func NewSyncWorker(consumer Consumer, syncer Syncer, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		consumer: consumer,
		syncer:   syncer,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled or the consumer fails permanently.
func (w *SyncWorker) Run(ctx context.Context) error {
	if w.interval > 0 {
		if err := w.syncer.Start(ctx, w.interval); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := w.syncer.Stop(stopCtx); err != nil {
				slog.Warn("Failed to stop scheduled sync", "error", err)
			}
		}()
	}

	if w.consumer == nil {
		slog.InfoContext(ctx, "No message consumer configured, running scheduled sync only")
		<-ctx.Done()
		return nil
	}

	err := w.consumer.ConsumeMonthSync(ctx, w.handle)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (w *SyncWorker) handle(ctx context.Context, msg *amqp.MonthSyncMessage) error {
	ctx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	start := time.Now()
	err := w.syncer.HandleMessage(ctx, msg)
	slog.DebugContext(ctx, "Month sync message handled",
		"year", msg.Year,
		"month", msg.Month,
		"duration", time.Since(start),
		"ok", err == nil)
	return err
}
