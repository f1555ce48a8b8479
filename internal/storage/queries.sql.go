package storage

import (
	"context"
)

const createSale = `-- name: CreateSale :exec
INSERT INTO sales (id, sale_date, gross_cash_sales_cents, cash_collected_cents, cash_holder, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateSaleParams struct {
	ID                  string
	SaleDate            string
	GrossCashSalesCents int64
	CashCollectedCents  int64
	CashHolder          string
	Notes               string
	CreatedAt           string
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) error {
	_, err := q.db.ExecContext(ctx, createSale,
		arg.ID,
		arg.SaleDate,
		arg.GrossCashSalesCents,
		arg.CashCollectedCents,
		arg.CashHolder,
		arg.Notes,
		arg.CreatedAt,
	)
	return err
}

const updateSale = `-- name: UpdateSale :execrows
UPDATE sales
SET sale_date = ?, gross_cash_sales_cents = ?, cash_collected_cents = ?, cash_holder = ?, notes = ?
WHERE id = ?
`

type UpdateSaleParams struct {
	SaleDate            string
	GrossCashSalesCents int64
	CashCollectedCents  int64
	CashHolder          string
	Notes               string
	ID                  string
}

func (q *Queries) UpdateSale(ctx context.Context, arg UpdateSaleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSale,
		arg.SaleDate,
		arg.GrossCashSalesCents,
		arg.CashCollectedCents,
		arg.CashHolder,
		arg.Notes,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSale = `-- name: DeleteSale :execrows
DELETE FROM sales WHERE id = ?
`

func (q *Queries) DeleteSale(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSale, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listSales = `-- name: ListSales :many
SELECT position, id, sale_date, gross_cash_sales_cents, cash_collected_cents, cash_holder, notes, created_at
FROM sales
ORDER BY position
`

func (q *Queries) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := q.db.QueryContext(ctx, listSales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sale
	for rows.Next() {
		var i Sale
		if err := rows.Scan(
			&i.Position,
			&i.ID,
			&i.SaleDate,
			&i.GrossCashSalesCents,
			&i.CashCollectedCents,
			&i.CashHolder,
			&i.Notes,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllSales = `-- name: DeleteAllSales :exec
DELETE FROM sales
`

func (q *Queries) DeleteAllSales(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSales)
	return err
}

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, tx_date, kind, category, amount_cents, description, payment_method, spent_by, payee_name, purpose, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateTransactionParams struct {
	ID            string
	TxDate        string
	Kind          string
	Category      string
	AmountCents   int64
	Description   string
	PaymentMethod string
	SpentBy       string
	PayeeName     string
	Purpose       string
	Notes         string
	CreatedAt     string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID,
		arg.TxDate,
		arg.Kind,
		arg.Category,
		arg.AmountCents,
		arg.Description,
		arg.PaymentMethod,
		arg.SpentBy,
		arg.PayeeName,
		arg.Purpose,
		arg.Notes,
		arg.CreatedAt,
	)
	return err
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET tx_date = ?, kind = ?, category = ?, amount_cents = ?, description = ?, payment_method = ?,
    spent_by = ?, payee_name = ?, purpose = ?, notes = ?
WHERE id = ?
`

type UpdateTransactionParams struct {
	TxDate        string
	Kind          string
	Category      string
	AmountCents   int64
	Description   string
	PaymentMethod string
	SpentBy       string
	PayeeName     string
	Purpose       string
	Notes         string
	ID            string
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.TxDate,
		arg.Kind,
		arg.Category,
		arg.AmountCents,
		arg.Description,
		arg.PaymentMethod,
		arg.SpentBy,
		arg.PayeeName,
		arg.Purpose,
		arg.Notes,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTransactions = `-- name: ListTransactions :many
SELECT position, id, tx_date, kind, category, amount_cents, description, payment_method, spent_by, payee_name, purpose, notes, created_at
FROM transactions
ORDER BY position
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.Position,
			&i.ID,
			&i.TxDate,
			&i.Kind,
			&i.Category,
			&i.AmountCents,
			&i.Description,
			&i.PaymentMethod,
			&i.SpentBy,
			&i.PayeeName,
			&i.Purpose,
			&i.Notes,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllTransactions = `-- name: DeleteAllTransactions :exec
DELETE FROM transactions
`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

const upsertMonthSync = `-- name: UpsertMonthSync :exec
INSERT INTO month_sync_log (month, status, last_error, attempts, updated_at)
VALUES (?, ?, ?, 1, ?)
ON CONFLICT(month) DO UPDATE SET
    status = excluded.status,
    last_error = excluded.last_error,
    attempts = month_sync_log.attempts + 1,
    updated_at = excluded.updated_at
`

type UpsertMonthSyncParams struct {
	Month     string
	Status    string
	LastError string
	UpdatedAt string
}

func (q *Queries) UpsertMonthSync(ctx context.Context, arg UpsertMonthSyncParams) error {
	_, err := q.db.ExecContext(ctx, upsertMonthSync,
		arg.Month,
		arg.Status,
		arg.LastError,
		arg.UpdatedAt,
	)
	return err
}

const getMonthSync = `-- name: GetMonthSync :one
SELECT month, status, last_error, attempts, updated_at
FROM month_sync_log
WHERE month = ?
`

func (q *Queries) GetMonthSync(ctx context.Context, month string) (MonthSyncLog, error) {
	row := q.db.QueryRowContext(ctx, getMonthSync, month)
	var i MonthSyncLog
	err := row.Scan(
		&i.Month,
		&i.Status,
		&i.LastError,
		&i.Attempts,
		&i.UpdatedAt,
	)
	return i, err
}

const listMonthSyncsByStatus = `-- name: ListMonthSyncsByStatus :many
SELECT month, status, last_error, attempts, updated_at
FROM month_sync_log
WHERE status = ?
ORDER BY month
`

func (q *Queries) ListMonthSyncsByStatus(ctx context.Context, status string) ([]MonthSyncLog, error) {
	rows, err := q.db.QueryContext(ctx, listMonthSyncsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthSyncLog
	for rows.Next() {
		var i MonthSyncLog
		if err := rows.Scan(
			&i.Month,
			&i.Status,
			&i.LastError,
			&i.Attempts,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
