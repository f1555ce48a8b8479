package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// MonthExportBuilder assembles a month for export. *ReportService
// implements it.
type MonthExportBuilder interface {
	MonthExport(ctx context.Context, month core.MonthKey) (core.MonthExport, error)
}

// SyncTracker records the outcome of each month export.
// *storage.SQLiteRepository implements it.
type SyncTracker interface {
	MarkMonthSynced(ctx context.Context, month core.MonthKey) error
	MarkMonthSyncError(ctx context.Context, month core.MonthKey, cause error) error
}

// FailedMonthLister is implemented by trackers that can list months whose
// last export failed.
type FailedMonthLister interface {
	FailedMonths(ctx context.Context) ([]core.MonthKey, error)
}

// MonthSyncer exports computed months to an external sink. It also runs an
// optional periodic pass that re-exports the current month and retries
// months whose last export failed.
type MonthSyncer struct {
	builder  MonthExportBuilder
	exporter sheets.MonthExporter
	tracker  SyncTracker
	log      *applog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewMonthSyncer creates a syncer. tracker may be nil.
func NewMonthSyncer(builder MonthExportBuilder, exporter sheets.MonthExporter, tracker SyncTracker) *MonthSyncer {
	return &MonthSyncer{
		builder:  builder,
		exporter: exporter,
		tracker:  tracker,
		log:      applog.ForComponent(applog.ComponentWorker),
		now:      time.Now,
	}
}

// SyncMonth recomputes month from the current records and exports it.
func (m *MonthSyncer) SyncMonth(ctx context.Context, month core.MonthKey, reason string) error {
	if err := month.Validate(); err != nil {
		return err
	}

	err := m.export(ctx, month)
	m.log.MonthSynced(ctx, month.Year, int(month.Month), reason, err)
	m.track(ctx, month, err)
	return err
}

// HandleMessage adapts SyncMonth to the AMQP consumer callback.
func (m *MonthSyncer) HandleMessage(ctx context.Context, msg *amqp.MonthSyncMessage) error {
	return m.SyncMonth(ctx, core.MonthKey{Year: msg.Year, Month: time.Month(msg.Month)}, msg.Reason)
}

func (m *MonthSyncer) export(ctx context.Context, month core.MonthKey) error {
	if m.exporter == nil {
		return errors.New("no month exporter configured")
	}
	bundle, err := m.builder.MonthExport(ctx, month)
	if err != nil {
		return fmt.Errorf("build month export: %w", err)
	}
	if err := m.exporter.ExportMonth(ctx, bundle); err != nil {
		return fmt.Errorf("export month %s: %w", month, err)
	}
	return nil
}

func (m *MonthSyncer) track(ctx context.Context, month core.MonthKey, syncErr error) {
	if m.tracker == nil {
		return
	}
	var err error
	if syncErr != nil {
		err = m.tracker.MarkMonthSyncError(ctx, month, syncErr)
	} else {
		err = m.tracker.MarkMonthSynced(ctx, month)
	}
	if err != nil {
		m.log.WarnContext(ctx, "Failed to record month sync state",
			"month", month.String(), "error", err)
	}
}

// Start begins the periodic pass. Returns an error if already running.
func (m *MonthSyncer) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid sync interval %v", interval)
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("month syncer is already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	go m.runLoop(ctx, interval, stopCh, doneCh)

	m.log.InfoContext(ctx, "Month syncer started", "interval", interval)
	return nil
}

// Stop ends the periodic pass and waits for the current run to finish.
func (m *MonthSyncer) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.running = false
	m.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		m.log.InfoContext(ctx, "Month syncer stopped gracefully")
		return nil
	case <-ctx.Done():
		m.log.WarnContext(ctx, "Month syncer stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the periodic pass is active.
func (m *MonthSyncer) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *MonthSyncer) runLoop(ctx context.Context, interval time.Duration, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunScheduled(ctx)
		}
	}
}

// RunScheduled retries failed months and re-exports the current month.
// It returns the months it attempted.
func (m *MonthSyncer) RunScheduled(ctx context.Context) []core.MonthKey {
	current, _ := core.MonthOf(core.Date{Time: m.now()})
	months := []core.MonthKey{current}

	if lister, ok := m.tracker.(FailedMonthLister); ok {
		failed, err := lister.FailedMonths(ctx)
		if err != nil {
			m.log.ErrorContext(ctx, "Failed to list months with sync errors", "error", err)
		}
		for _, f := range failed {
			if f != current {
				months = append(months, f)
			}
		}
	}

	for _, month := range months {
		if ctx.Err() != nil {
			break
		}
		// Failures are logged and tracked by SyncMonth; the next pass retries.
		_ = m.SyncMonth(ctx, month, amqp.ReasonScheduled)
	}
	return months
}
