package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets/memory"
)

type fakeExporter struct {
	mu      sync.Mutex
	exports []core.MonthExport
	err     error
}

func (f *fakeExporter) ExportMonth(_ context.Context, m core.MonthExport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.exports = append(f.exports, m)
	return nil
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exports)
}

type fakeTracker struct {
	mu     sync.Mutex
	synced []core.MonthKey
	failed map[core.MonthKey]error
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{failed: map[core.MonthKey]error{}}
}

func (f *fakeTracker) MarkMonthSynced(_ context.Context, m core.MonthKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, m)
	delete(f.failed, m)
	return nil
}

func (f *fakeTracker) MarkMonthSyncError(_ context.Context, m core.MonthKey, cause error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[m] = cause
	return nil
}

func (f *fakeTracker) FailedMonths(context.Context) ([]core.MonthKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.MonthKey, 0, len(f.failed))
	for m := range f.failed {
		out = append(out, m)
	}
	return out, nil
}

func newTestSyncer(exp *fakeExporter, tr SyncTracker) *MonthSyncer {
	sales, txns := vamshiRecords()
	reports := NewReportService(memory.New(sales, txns), nil, 8, time.Minute)
	return NewMonthSyncer(reports, exp, tr)
}

func TestMonthSyncer_SyncMonth(t *testing.T) {
	exp := &fakeExporter{}
	tr := newFakeTracker()
	m := newTestSyncer(exp, tr)
	feb := core.NewMonthKey(2025, time.February)

	if err := m.SyncMonth(context.Background(), feb, amqp.ReasonManual); err != nil {
		t.Fatalf("SyncMonth: %v", err)
	}
	if exp.count() != 1 || exp.exports[0].Month != feb {
		t.Fatalf("unexpected exports %+v", exp.exports)
	}
	if len(exp.exports[0].Sales) != 1 {
		t.Errorf("export should only carry February sales")
	}
	if len(tr.synced) != 1 || tr.synced[0] != feb {
		t.Errorf("synced = %v", tr.synced)
	}

	if err := m.SyncMonth(context.Background(), core.MonthKey{Year: 2025, Month: 13}, amqp.ReasonManual); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestMonthSyncer_ExportFailureIsTracked(t *testing.T) {
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	tr := newFakeTracker()
	m := newTestSyncer(exp, tr)
	jan := core.NewMonthKey(2025, time.January)

	err := m.HandleMessage(context.Background(), amqp.NewMonthSyncMessage(2025, 1, amqp.ReasonRecordChanged))
	if err == nil {
		t.Fatal("expected export error")
	}
	if _, ok := tr.failed[jan]; !ok {
		t.Errorf("January should be marked failed: %v", tr.failed)
	}
}

func TestMonthSyncer_RunScheduled(t *testing.T) {
	exp := &fakeExporter{}
	tr := newFakeTracker()
	old := core.NewMonthKey(2024, time.November)
	tr.failed[old] = errors.New("earlier failure")

	m := newTestSyncer(exp, tr)
	m.now = func() time.Time { return time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC) }

	months := m.RunScheduled(context.Background())
	if len(months) != 2 || months[0] != core.NewMonthKey(2025, time.February) || months[1] != old {
		t.Fatalf("attempted months = %v", months)
	}
	if exp.count() != 2 {
		t.Errorf("exports = %d, want 2", exp.count())
	}
	if len(tr.failed) != 0 {
		t.Errorf("retried month should be cleared: %v", tr.failed)
	}
}

func TestMonthSyncer_StartStop(t *testing.T) {
	m := newTestSyncer(&fakeExporter{}, nil)
	ctx := context.Background()

	if err := m.Start(ctx, 0); err == nil {
		t.Error("expected error for zero interval")
	}
	if err := m.Start(ctx, time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !m.IsRunning() {
		t.Error("syncer should be running")
	}
	if err := m.Start(ctx, time.Hour); err == nil {
		t.Error("expected error when starting twice")
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := m.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if m.IsRunning() {
		t.Error("syncer should be stopped")
	}
	if err := m.Stop(stopCtx); err != nil {
		t.Errorf("second Stop should be a no-op: %v", err)
	}
}

func TestMonthSyncer_NoExporter(t *testing.T) {
	m := NewMonthSyncer(nil, nil, nil)
	if err := m.SyncMonth(context.Background(), core.NewMonthKey(2025, time.January), amqp.ReasonManual); err == nil {
		t.Fatal("expected error without exporter")
	}
}
