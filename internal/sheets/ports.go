package sheets

import (
	"context"
	"errors"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Ports for outbound adapters.
type (
	// RecordReader returns every stored record in insertion order.
	RecordReader interface {
		ListSales(ctx context.Context) ([]core.SaleRecord, error)
		ListTransactions(ctx context.Context) ([]core.TransactionRecord, error)
	}

	// RecordWriter mutates the record collections. Update and Delete return
	// ErrNotFound for unknown ids.
	RecordWriter interface {
		AddSale(ctx context.Context, s core.SaleRecord) error
		UpdateSale(ctx context.Context, s core.SaleRecord) error
		DeleteSale(ctx context.Context, id string) error
		AddTransaction(ctx context.Context, t core.TransactionRecord) error
		UpdateTransaction(ctx context.Context, t core.TransactionRecord) error
		DeleteTransaction(ctx context.Context, id string) error
		ClearAll(ctx context.Context) error
	}

	// RecordStore is a full record backend.
	RecordStore interface {
		RecordReader
		RecordWriter
	}

	// MonthExporter pushes a computed month to an external sink.
	MonthExporter interface {
		ExportMonth(ctx context.Context, m core.MonthExport) error
	}

	// RecordLoader reads records back from an external sink.
	RecordLoader interface {
		LoadRecords(ctx context.Context) ([]core.SaleRecord, []core.TransactionRecord, error)
	}
)
